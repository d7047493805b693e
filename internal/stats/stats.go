// Package stats derives money figures from the courses: what each student
// still owes, and what was earned since a date.
//
// Both figures are full scans over every course. A single tutor's records
// stay small enough for that.
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/aanand-mishra/tutor-manager/internal/storage"
	"github.com/aanand-mishra/tutor-manager/internal/types"

	"github.com/google/uuid"
)

// StudentDebt is the unpaid total of one student.
type StudentDebt struct {
	Student types.Student
	Debt    types.Amount
}

// Debts sums the cost of unpaid courses per student. Every student gets a
// line, in the order given, even when nothing is owed.
func Debts(students []types.Student, courses []types.Course) []StudentDebt {
	owed := make(map[uuid.UUID]types.Amount, len(students))
	for i := range courses {
		c := &courses[i]
		if c.Paid {
			continue
		}
		owed[c.StudentID] = owed[c.StudentID].Add(c.Cost())
	}

	debts := make([]StudentDebt, 0, len(students))
	for _, s := range students {
		debts = append(debts, StudentDebt{Student: s, Debt: owed[s.ID]})
	}
	return debts
}

// Gains sums the cost of paid courses dated on or after cutoff.
func Gains(courses []types.Course, cutoff time.Time) types.Amount {
	cutoff = types.Day(cutoff)

	var total types.Amount
	for i := range courses {
		c := &courses[i]
		if !c.Paid || types.Day(c.Date).Before(cutoff) {
			continue
		}
		total = total.Add(c.Cost())
	}
	return total
}

// StartOfMonth is the first day of now's month, the default gains cutoff.
func StartOfMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Service computes the statistics from the store.
type Service struct {
	storage storage.Storage
}

// NewService returns a Service reading st.
func NewService(st storage.Storage) *Service {
	return &Service{storage: st}
}

// DebtPerStudent returns the unpaid total of every student.
func (s *Service) DebtPerStudent(ctx context.Context) ([]StudentDebt, error) {
	students, err := s.storage.Students(ctx)
	if err != nil {
		return nil, fmt.Errorf("DebtPerStudent: %w", err)
	}
	courses, err := s.storage.Courses(ctx)
	if err != nil {
		return nil, fmt.Errorf("DebtPerStudent: %w", err)
	}
	return Debts(students, courses), nil
}

// GainsSince returns the paid total since cutoff.
func (s *Service) GainsSince(ctx context.Context, cutoff time.Time) (types.Amount, error) {
	courses, err := s.storage.Courses(ctx)
	if err != nil {
		return types.Amount{}, fmt.Errorf("GainsSince: %w", err)
	}
	return Gains(courses, cutoff), nil
}
