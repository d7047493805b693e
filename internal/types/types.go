// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles:
// storage, repository, stats and cli all import types without depending
// on each other.
//
// Struct tags serve two purposes:
//
//  1. bun:"..."      : table, column and relation mapping for the ORM.
//  2. validate:"..." : rules checked by go-playground/validator right
//     before a record is written.
package types

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Student represents a student taking courses.
type Student struct {
	bun.BaseModel `bun:"table:student,alias:s"`

	ID        uuid.UUID `bun:"id,pk,type:varchar(36)"`
	FirstName string    `bun:"first_name,notnull,type:varchar(50)" validate:"min=3,max=50"`
	LastName  string    `bun:"last_name,notnull,type:varchar(50)" validate:"min=3,max=50"`
	// Phone numbers are stored in E.164 format.
	PhoneNumber  string `bun:"phone_number,notnull,type:varchar(15)" validate:"e164"`
	EmailAddress string `bun:"email_address,notnull,type:varchar(75)" validate:"email,max=75"`
	Address      string `bun:"address,notnull,type:varchar(100)" validate:"max=100"`

	Courses []*Course `bun:"rel:has-many,join:id=student_id" validate:"-"`
}

// HourlyRate is a price per hour associated with some kind of course.
type HourlyRate struct {
	bun.BaseModel `bun:"table:hourly_rate,alias:r"`

	ID   uuid.UUID `bun:"id,pk,type:varchar(36)"`
	Name string    `bun:"name,notnull,type:varchar(50)" validate:"min=3,max=50"`
	// Prices up to 999.99, with two decimal places.
	Price Amount `bun:"price,notnull,type:varchar(6)" validate:"gte=0,lte=999.99"`

	Courses []*Course `bun:"rel:has-many,join:id=hourly_rate_id" validate:"-"`
}

// Course is given on a specific date, for a specific duration, to one
// student at one hourly rate.
type Course struct {
	bun.BaseModel `bun:"table:course,alias:c"`

	ID   uuid.UUID `bun:"id,pk,type:varchar(36)"`
	Date time.Time `bun:"date,notnull,type:date" validate:"required"`
	// Duration expressed in hours.
	Duration Amount `bun:"duration,notnull,type:varchar(4)" validate:"gte=0,lte=9.9"`
	Paid     bool   `bun:"paid,notnull"`

	StudentID    uuid.UUID   `bun:"student_id,notnull,type:varchar(36)" validate:"required"`
	Student      *Student    `bun:"rel:belongs-to,join:student_id=id" validate:"-"`
	HourlyRateID uuid.UUID   `bun:"hourly_rate_id,notnull,type:varchar(36)" validate:"required"`
	HourlyRate   *HourlyRate `bun:"rel:belongs-to,join:hourly_rate_id=id" validate:"-"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Identity
//
// bun calls BeforeAppendModel right before it renders a query for the model.
// On INSERT we hand out a fresh UUID; the id is never touched afterwards.
// ─────────────────────────────────────────────────────────────────────────────

var (
	_ bun.BeforeAppendModelHook = (*Student)(nil)
	_ bun.BeforeAppendModelHook = (*HourlyRate)(nil)
	_ bun.BeforeAppendModelHook = (*Course)(nil)
)

func (s *Student) BeforeAppendModel(_ context.Context, query bun.Query) error {
	assignID(&s.ID, query)
	return nil
}

func (r *HourlyRate) BeforeAppendModel(_ context.Context, query bun.Query) error {
	assignID(&r.ID, query)
	return nil
}

func (c *Course) BeforeAppendModel(_ context.Context, query bun.Query) error {
	assignID(&c.ID, query)
	return nil
}

func assignID(id *uuid.UUID, query bun.Query) {
	if _, ok := query.(*bun.InsertQuery); ok && *id == uuid.Nil {
		*id = uuid.New()
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Cascading deletes
//
// Students and hourly rates own their courses. DeleteDependents removes
// those courses inside the caller's transaction, before the owner row goes.
// ─────────────────────────────────────────────────────────────────────────────

func (s *Student) DeleteDependents(ctx context.Context, db bun.IDB) error {
	_, err := db.NewDelete().
		Model((*Course)(nil)).
		Where("student_id = ?", s.ID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("Student.DeleteDependents: %w", err)
	}
	return nil
}

func (r *HourlyRate) DeleteDependents(ctx context.Context, db bun.IDB) error {
	_, err := db.NewDelete().
		Model((*Course)(nil)).
		Where("hourly_rate_id = ?", r.ID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("HourlyRate.DeleteDependents: %w", err)
	}
	return nil
}

// Relations lists the belongs-to relations loaded with every course.
func (c *Course) Relations() []string {
	return []string{"Student", "HourlyRate"}
}

// Cost is duration × hourly price. A course without its rate loaded costs
// nothing.
func (c *Course) Cost() Amount {
	if c.HourlyRate == nil {
		return Amount{}
	}
	return Amount{c.Duration.Mul(c.HourlyRate.Price.Decimal)}
}

// ─────────────────────────────────────────────────────────────────────────────
// Display strings, used by the selection menus and the listings.
// ─────────────────────────────────────────────────────────────────────────────

func (s *Student) Display() string {
	return fmt.Sprintf("%s %s (%s, %s)", s.FirstName, s.LastName, s.PhoneNumber, s.EmailAddress)
}

func (r *HourlyRate) Display() string {
	return fmt.Sprintf("%s: %s/h", r.Name, r.Price)
}

func (c *Course) Display() string {
	student := "?"
	if c.Student != nil {
		student = c.Student.FirstName + " " + c.Student.LastName
	}
	rate := "?"
	if c.HourlyRate != nil {
		rate = c.HourlyRate.Name
	}
	status := "unpaid"
	if c.Paid {
		status = "paid"
	}
	return fmt.Sprintf("%s, %sh, %s, %s (%s)", FormatDate(c.Date), c.Duration, student, rate, status)
}
