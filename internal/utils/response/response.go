// Package response writes the outcome of every menu operation to the
// terminal in one consistent shape, so the user always knows whether the
// last action went through.
package response

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Response is the outcome of one operation.
//
//	✔ Student created: Marie Curie (+33612345678, marie@example.com)
//	✘ field PhoneNumber must be in E.164 format
type Response struct {
	Status  string // "ok" or "error"
	Message string // human-readable detail
}

// Status string constants.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Write renders r as one line.
func Write(w io.Writer, r Response) error {
	mark := "✔"
	if r.Status == StatusError {
		mark = "✘"
	}
	_, err := fmt.Fprintf(w, "%s %s\n", mark, r.Message)
	return err
}

// OK wraps a success message.
func OK(format string, args ...any) Response {
	return Response{
		Status:  StatusOK,
		Message: fmt.Sprintf(format, args...),
	}
}

// GeneralError wraps any Go error. Validation failures found anywhere in
// the chain are rendered field by field.
func GeneralError(err error) Response {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return ValidationError(verrs)
	}
	return Response{
		Status:  StatusError,
		Message: err.Error(),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// ValidationError converts the validator's field errors into a single
// human-readable Response.
//
// Example output:
//
//	field FirstName must be between 3 and 50 characters, field PhoneNumber must be in E.164 format
// ─────────────────────────────────────────────────────────────────────────────
func ValidationError(errs validator.ValidationErrors) Response {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		case "email":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be a valid email address", e.Field()))
		case "e164":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be in E.164 format", e.Field()))
		case "min", "max":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s has an invalid length (%s=%s)", e.Field(), e.ActualTag(), e.Param()))
		case "gte", "lte":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is out of range (%s %s)", e.Field(), e.ActualTag(), e.Param()))
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return Response{
		Status:  StatusError,
		Message: strings.Join(errMessages, ", "),
	}
}
