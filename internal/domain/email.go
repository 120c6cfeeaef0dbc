package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// RegistrationConfirmationEmailData holds data for the platform registration email.
type RegistrationConfirmationEmailData struct {
	Email       string
	StudentName string
	EventName   string
	EventDate   string
	Venue       string
	Mode        string
}

// OuterRegistrationReviewEmailData holds data for the outer-college review outcome email.
type OuterRegistrationReviewEmailData struct {
	Email      string
	LeaderName string
	TeamName   string
	EventName  string
	Status     string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendRegistrationConfirmation(ctx context.Context, data *RegistrationConfirmationEmailData) error
	SendOuterRegistrationReview(ctx context.Context, data *OuterRegistrationReviewEmailData) error
}

// NoticeKind names a registration lifecycle notification.
type NoticeKind string

const (
	NoticeRegistrationCreated NoticeKind = "registration.created"
	NoticeOuterReviewed       NoticeKind = "outer_registration.reviewed"
)

// RegistrationNotice is published after a registration changes so that a
// background worker can email the participant.
type RegistrationNotice struct {
	Kind           NoticeKind `json:"kind"`
	RegistrationID string     `json:"registration_id"`
	EventID        string     `json:"event_id"`
	EventName      string     `json:"event_name"`
	EventDate      string     `json:"event_date"`
	Venue          string     `json:"venue,omitempty"`
	Mode           string     `json:"mode,omitempty"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	TeamName       string     `json:"team_name,omitempty"`
	Status         string     `json:"status,omitempty"`
}

// Notifier publishes registration notices. Failures never undo the registration.
type Notifier interface {
	Publish(ctx context.Context, notice *RegistrationNotice) error
}
