package worker

import (
	"context"
	"log/slog"

	"campusevents/internal/domain"
)

// Consumer delivers queued notices to a handler until ctx is done.
type Consumer interface {
	Consume(ctx context.Context, handle func(context.Context, *domain.RegistrationNotice) error) error
}

// Worker runs a Consumer in the background.
type Worker struct {
	consumer Consumer
	handler  *NoticeHandler
	logger   *slog.Logger
	done     chan struct{}
	cancel   context.CancelFunc
}

func New(consumer Consumer, handler *NoticeHandler, logger *slog.Logger) *Worker {
	return &Worker{
		consumer: consumer,
		handler:  handler,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start begins consuming in a goroutine. Call Stop to end it.
func (w *Worker) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.logger.Info("notice worker started")

	go func() {
		defer close(w.done)
		if err := w.consumer.Consume(cctx, w.handler.Handle); err != nil {
			w.logger.Error("notice worker stopped", "error", err)
			return
		}
		w.logger.Info("notice worker stopped")
	}()
}

// Stop cancels consumption and waits for the goroutine to exit.
func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
		<-w.done
	}
}
