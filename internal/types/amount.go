package types

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Amount is a non-negative decimal kept with exactly two decimal places:
// hourly prices, course durations and the sums derived from them.
//
// Scan is promoted from the embedded decimal.Decimal; Value is overridden so
// the column always receives the fixed two-decimal text ("12.50", not "12.5").
type Amount struct {
	decimal.Decimal
}

// ParseAmount parses s and rounds it half-up to two decimal places.
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("ParseAmount: %w", err)
	}
	return Amount{d.Round(2)}, nil
}

// MustAmount is ParseAmount for literals known to be valid.
func MustAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// String renders the amount with exactly two decimals.
func (a Amount) String() string {
	return a.StringFixed(2)
}

// Value implements driver.Valuer.
func (a Amount) Value() (driver.Value, error) {
	return a.StringFixed(2), nil
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{a.Decimal.Add(b.Decimal)}
}

// ─────────────────────────────────────────────────────────────────────────────
// Calendar dates
//
// Course dates carry no time of day: every date is normalized to midnight
// UTC so that comparisons and storage never depend on the local zone.
// ─────────────────────────────────────────────────────────────────────────────

const (
	// DateLayout renders dates as day/month/year.
	DateLayout = "02/01/2006"
	// dateInputLayout accepts one or two digit days and months.
	dateInputLayout = "2/1/2006"
)

// Day truncates t to its calendar date at midnight UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a day/month/year date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateInputLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("ParseDate: %w", err)
	}
	return Day(t), nil
}

// FormatDate renders t as dd/mm/yyyy.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
