package postgres

import (
	"context"
	"database/sql"
	"errors"

	"campusevents/internal/domain"
)

const (
	incrementRegistrationsQuery = `
		UPDATE events
		SET current_registrations = current_registrations + 1, updated_at = NOW()
		WHERE id = $1 AND current_registrations < max_participants
		RETURNING current_registrations
	`
	decrementRegistrationsQuery = `
		UPDATE events
		SET current_registrations = GREATEST(current_registrations - 1, 0), updated_at = NOW()
		WHERE id = $1
		RETURNING current_registrations
	`
)

// TxCounterFactory binds a capacity counter to a transaction that already
// holds the event row lock.
type TxCounterFactory func(tx *sql.Tx) domain.CapacityCounter

type capacityCounter struct {
	q queryRower
}

// NewTxCapacityCounter returns the only writer of events.current_registrations.
// The caller must have locked the event row, so a failed increment can only
// mean the event is full.
func NewTxCapacityCounter(tx *sql.Tx) domain.CapacityCounter {
	return &capacityCounter{q: tx}
}

func (c *capacityCounter) Increment(ctx context.Context, eventID string) (int, error) {
	return incrementRegistrations(ctx, c.q, eventID)
}

func (c *capacityCounter) Decrement(ctx context.Context, eventID string) (int, error) {
	return decrementRegistrations(ctx, c.q, eventID)
}

// incrementRegistrations performs the conditional increment. Zero affected
// rows is reported as ErrCapacityExceeded.
func incrementRegistrations(ctx context.Context, q queryRower, eventID string) (int, error) {
	var count int
	err := q.QueryRowContext(ctx, incrementRegistrationsQuery, eventID).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrCapacityExceeded
		}
		return 0, err
	}
	return count, nil
}

func decrementRegistrations(ctx context.Context, q queryRower, eventID string) (int, error) {
	var count int
	err := q.QueryRowContext(ctx, decrementRegistrationsQuery, eventID).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return count, nil
}
