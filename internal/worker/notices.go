package worker

import (
	"context"
	"fmt"
	"log/slog"

	"campusevents/internal/domain"
)

// NoticeHandler turns registration notices into participant emails.
type NoticeHandler struct {
	email  domain.EmailService
	logger *slog.Logger
}

// NewNoticeHandler returns a handler that sends mail through email.
func NewNoticeHandler(email domain.EmailService, logger *slog.Logger) *NoticeHandler {
	return &NoticeHandler{email: email, logger: logger}
}

// Handle dispatches a notice by kind. Unknown kinds are logged and skipped.
func (h *NoticeHandler) Handle(ctx context.Context, notice *domain.RegistrationNotice) error {
	if notice == nil {
		return nil
	}
	if notice.Email == "" {
		h.logger.InfoContext(ctx, "notice has no recipient, skipping", "kind", notice.Kind, "registration_id", notice.RegistrationID)
		return nil
	}
	switch notice.Kind {
	case domain.NoticeRegistrationCreated:
		err := h.email.SendRegistrationConfirmation(ctx, &domain.RegistrationConfirmationEmailData{
			Email:       notice.Email,
			StudentName: notice.Name,
			EventName:   notice.EventName,
			EventDate:   notice.EventDate,
			Venue:       notice.Venue,
			Mode:        notice.Mode,
		})
		if err != nil {
			return fmt.Errorf("send registration confirmation: %w", err)
		}
	case domain.NoticeOuterReviewed:
		err := h.email.SendOuterRegistrationReview(ctx, &domain.OuterRegistrationReviewEmailData{
			Email:      notice.Email,
			LeaderName: notice.Name,
			TeamName:   notice.TeamName,
			EventName:  notice.EventName,
			Status:     notice.Status,
		})
		if err != nil {
			return fmt.Errorf("send review result: %w", err)
		}
	default:
		h.logger.WarnContext(ctx, "unknown notice kind, skipping", "kind", notice.Kind)
	}
	return nil
}
