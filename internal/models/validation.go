package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/desertthunder/dottify/internal/shared"
	"github.com/shopspring/decimal"
)

// NonFieldErrors is the field key used for errors that involve more than one field, such as uniqueness.
const NonFieldErrors = "__all__"

// FieldError is a single rejected field and the reason for the rejection.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError rejects a record's field values before they are written.
//
// It matches [shared.ErrValidation] with [errors.Is].
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

// NewValidationError builds a [ValidationError] for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == shared.ErrValidation
}

// Has reports whether field is among the rejected fields.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Merge appends the fields of other, which may be nil.
func (e *ValidationError) Merge(other *ValidationError) {
	if other != nil {
		e.Fields = append(e.Fields, other.Fields...)
	}
}

// Err returns e as an error, or nil when no field was rejected.
func (e *ValidationError) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// validator collects field errors for one record.
type validator struct {
	errs ValidationError
}

func (v *validator) add(field, message string) {
	v.errs.Fields = append(v.errs.Fields, FieldError{Field: field, Message: message})
}

func (v *validator) required(field, value string) *validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "This field cannot be blank.")
	}
	return v
}

func (v *validator) maxLen(field, value string) *validator {
	if n := utf8.RuneCountInString(value); n > MaxTextLength {
		v.add(field, fmt.Sprintf("Ensure this value has at most %d characters (it has %d).", MaxTextLength, n))
	}
	return v
}

func (v *validator) check(field string, failed bool, message string) *validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// run records the error returned by a standalone validator under field.
func (v *validator) run(field string, err error) *validator {
	if err != nil {
		v.add(field, err.Error())
	}
	return v
}

func (v *validator) err() error {
	return v.errs.Err()
}

var (
	half        = decimal.RequireFromString("0.5")
	errHalfStep = errors.New("Stars must be a multiple of 0.5.")
)

// ValidateHalfStep rejects values that are not a multiple of 0.5.
func ValidateHalfStep(value decimal.Decimal) error {
	if !value.Mod(half).IsZero() {
		return errHalfStep
	}
	return nil
}

// ValidateDecimal rejects values outside [min, max] or with more than places decimal places.
func ValidateDecimal(value, min, max decimal.Decimal, places int32) error {
	if value.LessThan(min) {
		return fmt.Errorf("Ensure this value is greater than or equal to %s.", min.StringFixed(places))
	}
	if value.GreaterThan(max) {
		return fmt.Errorf("Ensure this value is less than or equal to %s.", max.StringFixed(places))
	}
	if !value.Equal(value.Truncate(places)) {
		return fmt.Errorf("Ensure that there are no more than %d decimal places.", places)
	}
	return nil
}

// ValidateReleaseDate rejects dates later than [ReleaseHorizonMonths] calendar months after today.
//
// A nil date is always valid and the boundary itself is allowed.
func ValidateReleaseDate(date *time.Time, today time.Time) error {
	if date == nil {
		return nil
	}
	limit := ReleaseHorizon(today)
	if DateOf(*date).After(limit) {
		return fmt.Errorf("The release date for unreleased albums can be at most %d months after today (%s).",
			ReleaseHorizonMonths, limit.Format(DateLayout))
	}
	return nil
}
