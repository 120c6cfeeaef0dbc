package domain

import (
	"errors"
	"strings"
)

// Sentinel errors shared by repositories, services and controllers.
var (
	ErrNotFound              = errors.New("not found")
	ErrForbidden             = errors.New("access denied")
	ErrDuplicateRegistration = errors.New("already registered for this event")
	ErrCapacityExceeded      = errors.New("event is full")
	ErrRegistrationClosed    = errors.New("registration is closed")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidInput          = errors.New("invalid input")
	ErrValidation            = errors.New("validation failed")
)

// ValidationError lists the fields that failed entity validation.
// errors.Is(err, ErrValidation) reports true for any *ValidationError.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Has reports whether field is among the offending fields.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f == field {
			return true
		}
	}
	return false
}

// fieldErrors collects invalid field names in insertion order, without duplicates.
type fieldErrors struct {
	fields []string
}

func (f *fieldErrors) add(field string) {
	for _, existing := range f.fields {
		if existing == field {
			return
		}
	}
	f.fields = append(f.fields, field)
}

func (f *fieldErrors) err() error {
	if len(f.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: f.fields}
}
