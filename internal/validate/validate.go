// Package validate checks raw user input before it enters the data model.
//
// Every field goes through two phases:
//
//  1. a validator reports whether the raw text is acceptable; the prompt
//     shows the matching Msg* text and asks again when it is not;
//  2. a sanitizer turns the accepted text into its stored form.
//
// Neither phase touches the database.
package validate

import (
	"context"
	"net"
	"reflect"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aanand-mishra/tutor-manager/internal/types"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
	"github.com/shopspring/decimal"
)

// Messages shown when a field is rejected.
const (
	MsgFirstName = "The first name must be between 3 and 50 characters long."
	MsgLastName  = "The last name must be between 3 and 50 characters long."
	MsgPhone     = "The phone number is not correct."
	MsgEmail     = "Either the syntax or the domain name of the address is invalid."
	MsgAddress   = "The address must be at most 100 characters long."
	MsgRateName  = "The name must be between 3 and 50 characters long."
	MsgPrice     = "The price must be a number between 0 and 999.99."
	MsgDuration  = "The duration must be a number of hours between 0 and 9.9."
	MsgDate      = "The date must follow the dd/mm/yyyy format."
)

// MaxEmailLength bounds the normalized email address.
const MaxEmailLength = 75

var (
	minPrice    = decimal.Zero
	maxPrice    = decimal.RequireFromString("999.99")
	minDuration = decimal.Zero
	maxDuration = decimal.RequireFromString("9.9")
)

// Resolver looks up mail exchangers and hosts. *net.Resolver satisfies it.
type Resolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// Validator bundles the field validators and the struct check run before
// every write.
type Validator struct {
	v        *validator.Validate
	region   string
	resolver Resolver
	timeout  time.Duration
}

// Option configures a Validator.
type Option func(*Validator)

// WithResolver enables the email deliverability check through r.
func WithResolver(r Resolver) Option {
	return func(v *Validator) { v.resolver = r }
}

// New returns a Validator parsing national phone numbers for region
// (an ISO 3166 code such as "FR").
func New(region string, opts ...Option) *Validator {
	v := validator.New()

	// Amounts are validated through their float value so the usual
	// gte/lte tags apply to them.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if a, ok := field.Interface().(types.Amount); ok {
			return a.InexactFloat64()
		}
		return nil
	}, types.Amount{})

	val := &Validator{
		v:       v,
		region:  strings.ToUpper(region),
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(val)
	}
	return val
}

// Struct checks every validate:"..." tag on a record.
func (v *Validator) Struct(s any) error {
	return v.v.Struct(s)
}

// Region is the default phone region.
func (v *Validator) Region() string {
	return v.region
}

// Name accepts 3 to 50 characters once surrounding spaces are trimmed.
func (v *Validator) Name(raw string) bool {
	return v.v.Var(strings.TrimSpace(raw), "min=3,max=50") == nil
}

// Address accepts up to 100 characters, empty included.
func (v *Validator) Address(raw string) bool {
	return v.v.Var(strings.TrimSpace(raw), "max=100") == nil
}

// Phone accepts numbers that are both possible and valid for the region,
// once stripped of everything but digits and a leading '+'.
func (v *Validator) Phone(raw string) bool {
	num, err := phonenumbers.Parse(phoneDigits(raw), v.region)
	if err != nil {
		return false
	}
	return phonenumbers.IsPossibleNumber(num) && phonenumbers.IsValidNumber(num)
}

// Email accepts syntactically valid addresses whose normalized form fits
// in MaxEmailLength characters and, when a resolver is configured, whose
// domain resolves.
func (v *Validator) Email(raw string) bool {
	raw = strings.TrimSpace(raw)
	if v.v.Var(raw, "required,email") != nil {
		return false
	}

	normalized, err := SanitizeEmail(raw)
	if err != nil || utf8.RuneCountInString(normalized) > MaxEmailLength {
		return false
	}

	if v.resolver == nil {
		return true
	}
	return v.deliverable(normalized[strings.LastIndex(normalized, "@")+1:])
}

// Price accepts decimals in [0.00, 999.99].
func (v *Validator) Price(raw string) bool {
	return decimalIn(raw, minPrice, maxPrice)
}

// Duration accepts decimals in [0.0, 9.9].
func (v *Validator) Duration(raw string) bool {
	return decimalIn(raw, minDuration, maxDuration)
}

// Date accepts day/month/year dates.
func (v *Validator) Date(raw string) bool {
	_, err := types.ParseDate(strings.TrimSpace(raw))
	return err == nil
}

// SanitizePhone formats raw in E.164 using the validator's region.
func (v *Validator) SanitizePhone(raw string) (string, error) {
	return SanitizePhone(raw, v.region)
}

func (v *Validator) deliverable(domain string) bool {
	ascii, err := asciiDomain(domain)
	if err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
	defer cancel()

	if mx, err := v.resolver.LookupMX(ctx, ascii); err == nil && len(mx) > 0 {
		return true
	}
	hosts, err := v.resolver.LookupHost(ctx, ascii)
	return err == nil && len(hosts) > 0
}

func decimalIn(raw string, lo, hi decimal.Decimal) bool {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return d.GreaterThanOrEqual(lo) && d.LessThanOrEqual(hi)
}
