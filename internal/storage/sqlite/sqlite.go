// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface, using bun on top of database/sql.
//
// SQLite stores everything in a single file on disk: no network, no
// separate server process, nothing to install beyond the driver.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aanand-mishra/tutor-manager/internal/config"
	"github.com/aanand-mishra/tutor-manager/internal/storage"
	"github.com/aanand-mishra/tutor-manager/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

var _ storage.Storage = (*SQLite)(nil)

// SQLite is the concrete implementation of storage.Storage.
type SQLite struct {
	Db *bun.DB
}

// New opens the SQLite database at cfg.StoragePath, creates the tables if
// they do not exist yet, and returns a ready-to-use *SQLite.
func New(cfg *config.Config) (*SQLite, error) {
	sqldb, err := sql.Open("sqlite3", dsn(cfg.StoragePath))
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// One user, one connection. An in-memory database only lives as long
	// as its connection, so the pool must never open a second one.
	sqldb.SetMaxOpenConns(1)
	sqldb.SetMaxIdleConns(1)
	sqldb.SetConnMaxLifetime(0)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if cfg.EchoSQL {
		db.AddQueryHook(newQueryLogger(slog.Default()))
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: ping: %w", err)
	}

	if err := RunMigrations(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// dsn turns on foreign key enforcement, which SQLite leaves off by default.
func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}

// RunMigrations creates the student, hourly_rate and course tables.
// CREATE TABLE IF NOT EXISTS is idempotent and runs on every startup.
//
// Schema:
//
//	student     (id, first_name, last_name, phone_number, email_address, address)
//	hourly_rate (id, name, price)
//	course      (id, date, duration, paid, student_id → student, hourly_rate_id → hourly_rate)
//
// Both course foreign keys cascade on delete.
func RunMigrations(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*types.Student)(nil),
		(*types.HourlyRate)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("RunMigrations: create table: %w", err)
		}
	}

	_, err := db.NewCreateTable().
		Model((*types.Course)(nil)).
		IfNotExists().
		ForeignKey(`("student_id") REFERENCES "student" ("id") ON DELETE CASCADE`).
		ForeignKey(`("hourly_rate_id") REFERENCES "hourly_rate" ("id") ON DELETE CASCADE`).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("RunMigrations: create course table: %w", err)
	}

	return nil
}

// Tx wraps bun's RunInTx: commit when fn returns nil, rollback otherwise.
func (s *SQLite) Tx(ctx context.Context, fn storage.TxFunc) error {
	return s.Db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, tx)
	})
}

// ─────────────────────────────────────────────────────────────────────────────
// Students returns all student rows as a slice, oldest first.
//
// SQLite numbers rows in insertion order (rowid), which gives listings a
// stable order even though the primary keys are random UUIDs.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Students(ctx context.Context) ([]types.Student, error) {
	students := make([]types.Student, 0)

	err := s.Db.NewSelect().
		Model(&students).
		OrderExpr("?TableAlias.rowid ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("Students: select: %w", err)
	}

	return students, nil
}

// Courses returns all courses, oldest first, joined with their student and
// hourly rate.
func (s *SQLite) Courses(ctx context.Context) ([]types.Course, error) {
	courses := make([]types.Course, 0)

	err := s.Db.NewSelect().
		Model(&courses).
		Relation("Student").
		Relation("HourlyRate").
		OrderExpr("?TableAlias.rowid ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("Courses: select: %w", err)
	}

	return courses, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.Db.Close()
}
