package notify

import (
	"context"
	"log/slog"

	"campusevents/internal/domain"
)

// Inline hands notices straight to a handler in a background goroutine.
// It is used when no broker is configured.
type Inline struct {
	handle func(context.Context, *domain.RegistrationNotice) error
	logger *slog.Logger
}

// NewInline returns a Notifier that runs handle for each published notice.
func NewInline(handle func(context.Context, *domain.RegistrationNotice) error, logger *slog.Logger) *Inline {
	return &Inline{handle: handle, logger: logger}
}

func (n *Inline) Publish(ctx context.Context, notice *domain.RegistrationNotice) error {
	ctx = context.WithoutCancel(ctx)
	go func() {
		if err := n.handle(ctx, notice); err != nil {
			n.logger.WarnContext(ctx, "failed to process notice", "kind", notice.Kind, "registration_id", notice.RegistrationID, "error", err)
		}
	}()
	return nil
}

// Noop discards every notice.
type Noop struct{}

func (Noop) Publish(context.Context, *domain.RegistrationNotice) error { return nil }
