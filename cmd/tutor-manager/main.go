// main is the entry point of the tutor manager.
//
// STARTUP SEQUENCE:
//  1. Load configuration (.env, YAML file, environment)
//  2. Initialise the logger
//  3. Open (and migrate) the SQLite database
//  4. Wire the validator, the repositories and the statistics
//  5. Run the interactive menu until the user quits
//  6. Close the database
//
// RUNNING THE APP:
//
//	go run ./cmd/tutor-manager --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/tutor-manager
package main

import (
	"context"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aanand-mishra/tutor-manager/internal/cli"
	"github.com/aanand-mishra/tutor-manager/internal/config"
	"github.com/aanand-mishra/tutor-manager/internal/repository"
	"github.com/aanand-mishra/tutor-manager/internal/stats"
	"github.com/aanand-mishra/tutor-manager/internal/storage/sqlite"
	"github.com/aanand-mishra/tutor-manager/internal/types"
	"github.com/aanand-mishra/tutor-manager/internal/validate"
)

// version is set at build time:
//
//	go build -ldflags "-X main.version=1.2.0" ./cmd/tutor-manager
var version = "dev"

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	// The prompts own stdout, so logs go to a file or to stderr.
	logOut, closeLog, err := openLogOutput(cfg.LogPath)
	if err != nil {
		slog.Error("cannot open log file",
			slog.String("path", cfg.LogPath),
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeLog()

	log := setupLogger(cfg.Env, logOut)
	slog.SetDefault(log)

	log.Info("starting tutor-manager",
		slog.String("env", cfg.Env),
		slog.String("version", version),
	)

	// ── 3. Initialise Storage (Database) ──────────────────────────────────
	storage, err := sqlite.New(cfg)
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer storage.Close()

	log.Info("storage initialised",
		slog.String("path", cfg.StoragePath))

	// ── 4. Wire the components ────────────────────────────────────────────
	var opts []validate.Option
	if cfg.CheckDeliverability {
		opts = append(opts, validate.WithResolver(net.DefaultResolver))
	}
	v := validate.New(cfg.PhoneRegion, opts...)

	prompter := cli.NewPromptUI()

	students := repository.New[types.Student](
		"student", storage, cli.StudentFill(prompter, v), prompter, v, log)
	rates := repository.New[types.HourlyRate](
		"hourly rate", storage, cli.HourlyRateFill(prompter, v), prompter, v, log)
	courses := repository.NewCourses(repository.New[types.Course](
		"course", storage, cli.CourseFill(prompter, v, students, rates, time.Now), prompter, v, log))

	app := cli.New(cli.Deps{
		Prompter:  prompter,
		Out:       os.Stdout,
		Validator: v,
		Students:  students,
		Rates:     rates,
		Courses:   courses,
		Stats:     stats.NewService(storage),
		ListLimit: cfg.ListLimit,
		Log:       log,
	})

	// ── 5. Run the menu ───────────────────────────────────────────────────
	// Ctrl+C is read by the prompts themselves; SIGTERM ends the loop at
	// the next menu.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Error("menu loop stopped", slog.String("error", err.Error()))
		storage.Close()
		os.Exit(1)
	}

	log.Info("tutor-manager stopped")
}

// openLogOutput opens path for appending, or returns stderr when path is
// empty.
func openLogOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stderr, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
