package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aanand-mishra/tutor-manager/internal/repository"
	"github.com/aanand-mishra/tutor-manager/internal/stats"
	"github.com/aanand-mishra/tutor-manager/internal/types"
	"github.com/aanand-mishra/tutor-manager/internal/utils/response"
	"github.com/aanand-mishra/tutor-manager/internal/validate"

	"github.com/go-playground/validator/v10"
)

// Deps are the collaborators of the menus.
type Deps struct {
	Prompter  Prompter
	Out       io.Writer
	Validator *validate.Validator
	Students  *repository.Repository[types.Student, *types.Student]
	Rates     *repository.Repository[types.HourlyRate, *types.HourlyRate]
	Courses   *repository.Courses
	Stats     *stats.Service
	// ListLimit caps the listings; zero lists everything.
	ListLimit int
	Log       *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// App runs the menu loop.
type App struct {
	Deps
}

// New returns an App over d.
func New(d Deps) *App {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Log == nil {
		d.Log = slog.Default()
	}
	return &App{Deps: d}
}

// action is one entry of a menu. run reports its own outcome; an error is
// reported by the menu.
type action struct {
	label string
	run   func(ctx context.Context) error
}

// Run shows the main menu until the user quits or interrupts it.
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintln(a.Out, "Welcome to the tutor manager.")

	entries := []action{
		{"Manage courses", func(ctx context.Context) error {
			return a.menu(ctx, "Courses", a.courseActions())
		}},
		{"Manage students", func(ctx context.Context) error {
			return a.menu(ctx, "Students", entityActions(a, "student", "Students", a.Students))
		}},
		{"Manage hourly rates", func(ctx context.Context) error {
			return a.menu(ctx, "Hourly rates", entityActions(a, "hourly rate", "Hourly rates", a.Rates))
		}},
		{"View statistics", func(ctx context.Context) error {
			return a.menu(ctx, "Statistics", a.statsActions())
		}},
	}

	labels := make([]string, 0, len(entries)+1)
	for _, act := range entries {
		labels = append(labels, act.label)
	}
	labels = append(labels, "Quit")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		idx, err := a.Prompter.Select("What do you want to do?", labels)
		if errors.Is(err, ErrCancelled) || idx == len(entries) {
			fmt.Fprintln(a.Out, "See you soon.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("Run: %w", err)
		}

		if err := entries[idx].run(ctx); err != nil {
			return fmt.Errorf("Run: %w", err)
		}
	}
}

// menu shows actions plus a way back, until the user goes back. Failed
// actions are reported and the menu is shown again; only a failing prompt
// is returned.
func (a *App) menu(ctx context.Context, title string, actions []action) error {
	labels := make([]string, 0, len(actions)+1)
	for _, act := range actions {
		labels = append(labels, act.label)
	}
	labels = append(labels, "Back to main menu")

	for {
		idx, err := a.Prompter.Select(title, labels)
		if errors.Is(err, ErrCancelled) || idx == len(actions) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := actions[idx].run(ctx); err != nil {
			a.fail(ctx, err)
		}
	}
}

// entityActions builds the create / edit / delete / list entries of a
// record type.
func entityActions[T any, PT repository.Record[T]](
	a *App,
	noun, plural string,
	repo *repository.Repository[T, PT],
) []action {
	title := strings.ToUpper(noun[:1]) + noun[1:]

	return []action{
		{"Create a new " + noun, func(ctx context.Context) error {
			rec, err := repo.Create(ctx)
			if err != nil {
				return err
			}
			return a.ok("%s created: %s", title, rec.Display())
		}},
		{"Edit an existing " + noun, func(ctx context.Context) error {
			rec, err := repo.Edit(ctx, "Which "+noun+" do you want to edit?")
			if err != nil {
				return err
			}
			return a.ok("%s edited: %s", title, rec.Display())
		}},
		{"Delete a " + noun, func(ctx context.Context) error {
			rec, err := repo.Delete(ctx, "Which "+noun+" do you want to delete?")
			if err != nil {
				return err
			}
			return a.ok("%s deleted: %s", title, rec.Display())
		}},
		{"List the " + strings.ToLower(plural), func(ctx context.Context) error {
			return repo.List(ctx, a.Out, a.ListLimit, plural+":")
		}},
	}
}

func (a *App) courseActions() []action {
	actions := entityActions(a, "course", "Courses", a.Courses.Repository)

	return append(actions,
		action{"Mark a course as paid", func(ctx context.Context) error {
			c, err := a.Courses.SetPaid(ctx, "Which course was paid?", true)
			if err != nil {
				return err
			}
			return a.ok("Course marked as paid: %s", c.Display())
		}},
		action{"Mark a course as unpaid", func(ctx context.Context) error {
			c, err := a.Courses.SetPaid(ctx, "Which course is unpaid?", false)
			if err != nil {
				return err
			}
			return a.ok("Course marked as unpaid: %s", c.Display())
		}},
	)
}

func (a *App) statsActions() []action {
	return []action{
		{"Debt per student", func(ctx context.Context) error {
			debts, err := a.Stats.DebtPerStudent(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintln(a.Out, "Debt per student:")
			if len(debts) == 0 {
				fmt.Fprintln(a.Out, "  (nothing to show)")
			}
			for _, d := range debts {
				fmt.Fprintf(a.Out, "  - %s: %s\n", d.Student.Display(), d.Debt)
			}
			return nil
		}},
		{"Gains since a date", func(ctx context.Context) error {
			def := types.FormatDate(stats.StartOfMonth(a.Now()))
			raw, err := a.Prompter.Text("Since (dd/mm/yyyy)", def, rule(a.Validator.Date, validate.MsgDate))
			if err != nil {
				return err
			}
			cutoff, err := types.ParseDate(strings.TrimSpace(raw))
			if err != nil {
				return err
			}

			gains, err := a.Stats.GainsSince(ctx, cutoff)
			if err != nil {
				return err
			}
			return a.ok("Gains since %s: %s", types.FormatDate(cutoff), gains)
		}},
	}
}

func (a *App) ok(format string, args ...any) error {
	return response.Write(a.Out, response.OK(format, args...))
}

// fail reports err to the user. Expected outcomes (nothing to select, an
// interrupted prompt, a rejected record) are not logged.
func (a *App) fail(ctx context.Context, err error) {
	var resp response.Response

	switch {
	case errors.Is(err, repository.ErrNoEntity):
		resp = response.Response{Status: response.StatusError, Message: "No entity available."}
	case errors.Is(err, ErrCancelled):
		resp = response.Response{Status: response.StatusError, Message: "Operation aborted."}
	default:
		resp = response.GeneralError(err)
		if !isValidation(err) {
			a.Log.ErrorContext(ctx, "operation failed", slog.String("error", err.Error()))
		}
	}

	if werr := response.Write(a.Out, resp); werr != nil {
		a.Log.ErrorContext(ctx, "cannot report outcome", slog.String("error", werr.Error()))
	}
}

func isValidation(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}
