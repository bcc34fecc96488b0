package service

import (
	"errors"
	"sort"
	"strconv"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
	ErrNotFound           = errors.New("not_found")
	ErrForbidden          = errors.New("forbidden")
)

// NonFieldErrors is the key for errors that do not belong to one input field.
const NonFieldErrors = "non_field_errors"

const (
	msgRequired      = "This field is required."
	msgPositive      = "Ensure this value is greater than or equal to 1."
	msgNonNegative   = "Ensure this value is greater than or equal to 0."
	msgNoFunds       = "Insufficient group funds."
	msgDuplicateUser = "A user with that username already exists."
	msgMaxAmount     = "Ensure this value is less than or equal to 1000000000000."
)

// maxAmount caps any single money value, in minor units, so that group
// balances summed in SQL stay well inside int64.
const maxAmount int64 = 1_000_000_000_000

// ValidationError carries per-field messages for a rejected request. The
// HTTP layer renders it as {"field": ["message", ...]}.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// fieldError is shorthand for a ValidationError with a single message.
func fieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {msg}}}
}

// validator collects field messages and converts them to an error at the end.
type validator struct {
	fields map[string][]string
}

func (v *validator) add(field, msg string) {
	if v.fields == nil {
		v.fields = make(map[string][]string)
	}
	v.fields[field] = append(v.fields[field], msg)
}

func (v *validator) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.add(field, msgRequired)
	}
}

func (v *validator) maxLen(field, value string, n int) {
	if len([]rune(value)) > n {
		v.add(field, "Ensure this field has no more than "+strconv.Itoa(n)+" characters.")
	}
}

// amount checks a money value against [floor, maxAmount]. floor is 0 or 1.
func (v *validator) amount(field string, value, floor int64) {
	switch {
	case value < floor && floor > 0:
		v.add(field, msgPositive)
	case value < floor:
		v.add(field, msgNonNegative)
	case value > maxAmount:
		v.add(field, msgMaxAmount)
	}
}

func (v *validator) err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: v.fields}
}
