// Package repository implements the lifecycle shared by every record type:
// create, edit, delete and list, plus the selection protocol used to pick
// one existing record from a menu.
//
// A Repository is instantiated once per record type and bound to a fill
// callback that populates or edits one record. The repository owns the
// transaction scope; the callback owns the user interaction.
package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aanand-mishra/tutor-manager/internal/storage"

	"github.com/uptrace/bun"
)

// ErrNoEntity is returned when a selection is required but the record set
// is empty.
var ErrNoEntity = errors.New("no entity available")

// Record is the pointer type of a model: *types.Student, *types.HourlyRate
// or *types.Course.
type Record[T any] interface {
	*T
	Display() string
}

// FillFunc populates or edits rec in place. It receives the enclosing
// transaction so that it can run nested selections (a course picks its
// student and hourly rate). Returning an error aborts the operation and
// nothing is committed.
type FillFunc[T any] func(ctx context.Context, tx bun.IDB, rec *T) error

// Chooser presents labelled items and returns the index picked by the user.
type Chooser interface {
	Select(label string, items []string) (int, error)
}

// Checker validates a whole record right before it is written.
// *validate.Validator satisfies it.
type Checker interface {
	Struct(s any) error
}

// Cascader is implemented by records owning dependent rows. The dependents
// are deleted in the same transaction, before the record itself.
type Cascader interface {
	DeleteDependents(ctx context.Context, db bun.IDB) error
}

// relationLoader is implemented by records whose listings need related
// records loaded (courses display their student and rate).
type relationLoader interface {
	Relations() []string
}

// Filter narrows a selection query.
type Filter func(q *bun.SelectQuery) *bun.SelectQuery

// Repository performs the lifecycle operations for one record type.
type Repository[T any, PT Record[T]] struct {
	name    string
	storage storage.Storage
	fill    FillFunc[T]
	chooser Chooser
	checker Checker
	log     *slog.Logger
}

// New binds a repository to a record type. name is used in logs
// ("student", "hourly rate", "course").
func New[T any, PT Record[T]](
	name string,
	st storage.Storage,
	fill FillFunc[T],
	chooser Chooser,
	checker Checker,
	log *slog.Logger,
) *Repository[T, PT] {
	return &Repository[T, PT]{
		name:    name,
		storage: st,
		fill:    fill,
		chooser: chooser,
		checker: checker,
		log:     log.With(slog.String("entity", name)),
	}
}

// Create instantiates a blank record, lets the fill callback populate it and
// inserts it. On any error nothing is persisted.
func (r *Repository[T, PT]) Create(ctx context.Context) (PT, error) {
	rec := PT(new(T))

	err := r.storage.Tx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := r.fill(ctx, tx, rec); err != nil {
			return fmt.Errorf("fill: %w", err)
		}
		if err := r.checker.Struct(rec); err != nil {
			return fmt.Errorf("check: %w", err)
		}
		if _, err := tx.NewInsert().Model(rec).Exec(ctx); err != nil {
			return fmt.Errorf("insert: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("Create %s: %w", r.name, err)
	}

	r.log.InfoContext(ctx, "created", slog.String("record", rec.Display()))
	return rec, nil
}

// Edit asks for an existing record, lets the fill callback overwrite its
// fields and saves it.
func (r *Repository[T, PT]) Edit(ctx context.Context, message string) (PT, error) {
	var rec PT

	err := r.storage.Tx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		if rec, err = r.Select(ctx, tx, message); err != nil {
			return err
		}
		if err := r.fill(ctx, tx, rec); err != nil {
			return fmt.Errorf("fill: %w", err)
		}
		if err := r.checker.Struct(rec); err != nil {
			return fmt.Errorf("check: %w", err)
		}
		if _, err := tx.NewUpdate().Model(rec).WherePK().Exec(ctx); err != nil {
			return fmt.Errorf("update: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("Edit %s: %w", r.name, err)
	}

	r.log.InfoContext(ctx, "edited", slog.String("record", rec.Display()))
	return rec, nil
}

// Delete asks for an existing record and removes it together with its
// dependents. Either everything goes or nothing does.
func (r *Repository[T, PT]) Delete(ctx context.Context, message string) (PT, error) {
	var rec PT

	err := r.storage.Tx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		if rec, err = r.Select(ctx, tx, message); err != nil {
			return err
		}
		if c, ok := any(rec).(Cascader); ok {
			if err := c.DeleteDependents(ctx, tx); err != nil {
				return fmt.Errorf("cascade: %w", err)
			}
		}
		if _, err := tx.NewDelete().Model(rec).WherePK().Exec(ctx); err != nil {
			return fmt.Errorf("delete: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("Delete %s: %w", r.name, err)
	}

	r.log.InfoContext(ctx, "deleted", slog.String("record", rec.Display()))
	return rec, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Select runs the selection protocol: enumerate every record (after the
// optional filters), present their display strings, return the chosen one.
// An empty enumeration yields ErrNoEntity and the chooser is never shown.
// ─────────────────────────────────────────────────────────────────────────────
func (r *Repository[T, PT]) Select(ctx context.Context, db bun.IDB, message string, filters ...Filter) (PT, error) {
	records, err := r.Find(ctx, db, 0, filters...)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoEntity
	}

	labels := make([]string, len(records))
	for i := range records {
		labels[i] = PT(&records[i]).Display()
	}

	idx, err := r.chooser.Select(message, labels)
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(records) {
		return nil, fmt.Errorf("Select %s: choice %d out of range", r.name, idx)
	}

	return PT(&records[idx]), nil
}

// Find returns up to limit records (every record when limit <= 0) in
// insertion order.
func (r *Repository[T, PT]) Find(ctx context.Context, db bun.IDB, limit int, filters ...Filter) ([]T, error) {
	records := make([]T, 0)

	q := db.NewSelect().Model(&records)
	if rl, ok := any(PT(new(T))).(relationLoader); ok {
		for _, rel := range rl.Relations() {
			q = q.Relation(rel)
		}
	}
	for _, f := range filters {
		q = f(q)
	}
	q = q.OrderExpr("?TableAlias.rowid ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("Find %s: %w", r.name, err)
	}
	return records, nil
}

// List writes message followed by one display line per record, up to limit
// records (every record when limit <= 0).
func (r *Repository[T, PT]) List(ctx context.Context, w io.Writer, limit int, message string) error {
	var records []T

	err := r.storage.Tx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		records, err = r.Find(ctx, tx, limit)
		return err
	})
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, message); err != nil {
		return err
	}
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "  (nothing to show)")
		return err
	}
	for i := range records {
		if _, err := fmt.Fprintf(w, "  - %s\n", PT(&records[i]).Display()); err != nil {
			return err
		}
	}
	return nil
}
