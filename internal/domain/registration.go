package domain

import (
	"context"
	"regexp"
	"strings"
	"time"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// RegistrationStatus is the status of a platform registration.
type RegistrationStatus string

const (
	RegistrationRegistered RegistrationStatus = "Registered"
	RegistrationConfirmed  RegistrationStatus = "Confirmed"
	RegistrationCancelled  RegistrationStatus = "Cancelled"
)

func (s RegistrationStatus) Valid() bool {
	switch s {
	case RegistrationRegistered, RegistrationConfirmed, RegistrationCancelled:
		return true
	}
	return false
}

// Registration is a student's registration submitted through the platform form.
// swagger:model Registration
type Registration struct {
	ID           string             `json:"id"`
	EventID      string             `json:"event_id"`
	StudentName  string             `json:"student_name"`
	StudentEmail string             `json:"student_email"`
	Phone        string             `json:"phone"`
	Department   string             `json:"department"`
	Year         string             `json:"year"`
	Status       RegistrationStatus `json:"status"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// NewRegistration creates a Registration in the Registered state. The email is
// normalized so that uniqueness per event is case-insensitive.
func NewRegistration(eventID, name, email, phone, department, year string, now time.Time) *Registration {
	return &Registration{
		EventID:      eventID,
		StudentName:  strings.TrimSpace(name),
		StudentEmail: NormalizeEmail(email),
		Phone:        strings.TrimSpace(phone),
		Department:   strings.TrimSpace(department),
		Year:         strings.TrimSpace(year),
		Status:       RegistrationRegistered,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks the student identity fields.
func (r *Registration) Validate() error {
	var fe fieldErrors
	if r.EventID == "" {
		fe.add("event_id")
	}
	if r.StudentName == "" {
		fe.add("student_name")
	}
	if !emailPattern.MatchString(r.StudentEmail) {
		fe.add("student_email")
	}
	if r.Phone == "" {
		fe.add("phone")
	}
	if r.Department == "" {
		fe.add("department")
	}
	if r.Year == "" {
		fe.add("year")
	}
	if !r.Status.Valid() {
		fe.add("status")
	}
	return fe.err()
}

// RegistrationRepository defines storage for platform registrations.
type RegistrationRepository interface {
	// CreateReserving inserts reg and increments the event's counter in one
	// atomic step. It fails with ErrDuplicateRegistration, ErrCapacityExceeded
	// or ErrNotFound and leaves the counter unchanged on any failure.
	CreateReserving(ctx context.Context, reg *Registration) error
	// DeleteReleasing removes the registration and decrements the counter,
	// clamped at zero.
	DeleteReleasing(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Registration, error)
	GetByEventAndEmail(ctx context.Context, eventID, email string) (*Registration, error)
	UpdateStatus(ctx context.Context, id string, status RegistrationStatus) (*Registration, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Registration, error)
}

// RegistrationInput is the student-supplied part of a platform registration.
type RegistrationInput struct {
	StudentName  string
	StudentEmail string
	Phone        string
	Department   string
	Year         string
}

// RegistrationService defines platform registration operations.
type RegistrationService interface {
	Register(ctx context.Context, eventID string, in RegistrationInput) (*Registration, error)
	Delete(ctx context.Context, actor *Actor, registrationID string) error
	UpdateStatus(ctx context.Context, actor *Actor, registrationID string, status RegistrationStatus) (*Registration, error)
	ListByEvent(ctx context.Context, actor *Actor, eventID string) ([]*Registration, error)
}
