package postgres

import (
	"context"
	"database/sql"
	"errors"

	"campusevents/internal/domain"

	"github.com/lib/pq"
)

const registrationColumns = `id, event_id, student_name, student_email, phone, department, year, status, created_at, updated_at`

type registrationRepository struct {
	DB      *sql.DB
	counter TxCounterFactory
}

// NewRegistrationRepository falls back to NewTxCapacityCounter when counter is nil.
func NewRegistrationRepository(db *sql.DB, counter TxCounterFactory) domain.RegistrationRepository {
	if counter == nil {
		counter = NewTxCapacityCounter
	}
	return &registrationRepository{
		DB:      db,
		counter: counter,
	}
}

func scanRegistration(row rowScanner) (*domain.Registration, error) {
	reg := &domain.Registration{}
	err := row.Scan(&reg.ID, &reg.EventID, &reg.StudentName, &reg.StudentEmail, &reg.Phone,
		&reg.Department, &reg.Year, &reg.Status, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return reg, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// CreateReserving locks the event row, rejects duplicates, takes one seat and
// inserts the registration. Nothing is written unless every step succeeds.
func (r *registrationRepository) CreateReserving(ctx context.Context, reg *domain.Registration) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var lockedID string
	err = tx.QueryRowContext(ctx, `SELECT id FROM events WHERE id = $1 FOR UPDATE`, reg.EventID).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = domain.ErrNotFound
		}
		return err
	}

	var exists bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM registrations WHERE event_id = $1 AND student_email = $2)`,
		reg.EventID, reg.StudentEmail,
	).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		err = domain.ErrDuplicateRegistration
		return err
	}

	if _, err = r.counter(tx).Increment(ctx, reg.EventID); err != nil {
		return err
	}

	query := `
		INSERT INTO registrations (event_id, student_name, student_email, phone, department, year, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, query,
		reg.EventID, reg.StudentName, reg.StudentEmail, reg.Phone, reg.Department, reg.Year,
		reg.Status, reg.CreatedAt, reg.UpdatedAt,
	).Scan(&reg.ID)
	if err != nil {
		if isUniqueViolation(err) {
			err = domain.ErrDuplicateRegistration
		}
		return err
	}
	return tx.Commit()
}

// DeleteReleasing removes the registration and gives its seat back.
func (r *registrationRepository) DeleteReleasing(ctx context.Context, id string) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var eventID string
	err = tx.QueryRowContext(ctx, `DELETE FROM registrations WHERE id = $1 RETURNING event_id`, id).Scan(&eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = domain.ErrNotFound
		}
		return err
	}
	if _, err = r.counter(tx).Decrement(ctx, eventID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) GetByEventAndEmail(ctx context.Context, eventID, email string) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE event_id = $1 AND student_email = $2`
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, eventID, domain.NormalizeEmail(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

// UpdateStatus changes only the status; the event counter is not touched.
func (r *registrationRepository) UpdateStatus(ctx context.Context, id string, status domain.RegistrationStatus) (*domain.Registration, error) {
	query := `
		UPDATE registrations SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + registrationColumns
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, status, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE event_id = $1 ORDER BY created_at ASC`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regs := make([]*domain.Registration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return regs, nil
}
