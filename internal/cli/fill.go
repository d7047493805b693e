package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aanand-mishra/tutor-manager/internal/repository"
	"github.com/aanand-mishra/tutor-manager/internal/types"
	"github.com/aanand-mishra/tutor-manager/internal/validate"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fill callbacks
//
// Each callback prompts every field of one record, showing the current value
// as the default. A blank record (creation) therefore starts with empty
// fields, an existing one (edition) with its stored values. Each answer is
// validated by the prompt, then sanitized before it is assigned.
// ─────────────────────────────────────────────────────────────────────────────

// StudentFill prompts the fields of a student.
func StudentFill(p Prompter, v *validate.Validator) repository.FillFunc[types.Student] {
	return func(_ context.Context, _ bun.IDB, s *types.Student) error {
		first, err := p.Text("First name", s.FirstName, rule(v.Name, validate.MsgFirstName))
		if err != nil {
			return err
		}
		last, err := p.Text("Last name", s.LastName, rule(v.Name, validate.MsgLastName))
		if err != nil {
			return err
		}
		rawPhone, err := p.Text("Phone number", s.PhoneNumber, rule(v.Phone, validate.MsgPhone))
		if err != nil {
			return err
		}
		rawEmail, err := p.Text("Email address", s.EmailAddress, rule(v.Email, validate.MsgEmail))
		if err != nil {
			return err
		}
		address, err := p.Text("Address", s.Address, rule(v.Address, validate.MsgAddress))
		if err != nil {
			return err
		}

		phone, err := v.SanitizePhone(rawPhone)
		if err != nil {
			return fmt.Errorf("StudentFill: %w", err)
		}
		email, err := validate.SanitizeEmail(rawEmail)
		if err != nil {
			return fmt.Errorf("StudentFill: %w", err)
		}

		s.FirstName = strings.TrimSpace(first)
		s.LastName = strings.TrimSpace(last)
		s.PhoneNumber = phone
		s.EmailAddress = email
		s.Address = strings.TrimSpace(address)
		return nil
	}
}

// HourlyRateFill prompts the fields of an hourly rate.
func HourlyRateFill(p Prompter, v *validate.Validator) repository.FillFunc[types.HourlyRate] {
	return func(_ context.Context, _ bun.IDB, r *types.HourlyRate) error {
		var price string
		if r.ID != uuid.Nil {
			price = r.Price.String()
		}

		name, err := p.Text("Name", r.Name, rule(v.Name, validate.MsgRateName))
		if err != nil {
			return err
		}
		rawPrice, err := p.Text("Price per hour", price, rule(v.Price, validate.MsgPrice))
		if err != nil {
			return err
		}

		amount, err := types.ParseAmount(strings.TrimSpace(rawPrice))
		if err != nil {
			return fmt.Errorf("HourlyRateFill: %w", err)
		}

		r.Name = strings.TrimSpace(name)
		r.Price = amount
		return nil
	}
}

// CourseFill prompts the fields of a course. The student and the hourly rate
// are picked among the existing ones, inside the caller's transaction; an
// empty table ends the fill with repository.ErrNoEntity before any text is
// asked. now supplies the default date of a new course.
func CourseFill(
	p Prompter,
	v *validate.Validator,
	students *repository.Repository[types.Student, *types.Student],
	rates *repository.Repository[types.HourlyRate, *types.HourlyRate],
	now func() time.Time,
) repository.FillFunc[types.Course] {
	return func(ctx context.Context, tx bun.IDB, c *types.Course) error {
		student, err := students.Select(ctx, tx, "Student")
		if err != nil {
			return err
		}
		rate, err := rates.Select(ctx, tx, "Hourly rate")
		if err != nil {
			return err
		}

		date, duration := types.FormatDate(now()), ""
		if c.ID != uuid.Nil {
			date, duration = types.FormatDate(c.Date), c.Duration.String()
		}

		rawDate, err := p.Text("Date (dd/mm/yyyy)", date, rule(v.Date, validate.MsgDate))
		if err != nil {
			return err
		}
		rawDuration, err := p.Text("Duration in hours", duration, rule(v.Duration, validate.MsgDuration))
		if err != nil {
			return err
		}

		day, err := types.ParseDate(strings.TrimSpace(rawDate))
		if err != nil {
			return fmt.Errorf("CourseFill: %w", err)
		}
		hours, err := types.ParseAmount(strings.TrimSpace(rawDuration))
		if err != nil {
			return fmt.Errorf("CourseFill: %w", err)
		}

		c.Date = day
		c.Duration = hours
		c.StudentID, c.Student = student.ID, student
		c.HourlyRateID, c.HourlyRate = rate.ID, rate
		return nil
	}
}
