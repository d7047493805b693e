package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aanand-mishra/tutor-manager/internal/types"

	"github.com/uptrace/bun"
)

// Courses adds the paid/unpaid marking to the generic course repository.
type Courses struct {
	*Repository[types.Course, *types.Course]
}

// NewCourses wraps a course repository.
func NewCourses(r *Repository[types.Course, *types.Course]) *Courses {
	return &Courses{Repository: r}
}

// SetPaid asks for a course whose paid flag differs from paid and flips it.
// ErrNoEntity means every course already carries the requested flag.
func (c *Courses) SetPaid(ctx context.Context, message string, paid bool) (*types.Course, error) {
	var course *types.Course

	err := c.storage.Tx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		course, err = c.Select(ctx, tx, message, func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.paid = ?", !paid)
		})
		if err != nil {
			return err
		}

		course.Paid = paid
		_, err = tx.NewUpdate().
			Model(course).
			Column("paid").
			WherePK().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("update: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("SetPaid: %w", err)
	}

	c.log.InfoContext(ctx, "payment status changed",
		slog.String("record", course.Display()),
		slog.Bool("paid", paid))
	return course, nil
}
