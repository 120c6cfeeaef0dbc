package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"campusevents/internal/domain"

	"github.com/lib/pq"
)

const eventColumns = `id, name, organizing_body, event_coordinator, description, cells_and_association,
		event_types, event_date, registration_end_date, mode, venue, max_participants,
		current_registrations, status, is_published, is_outer_college_event, registration_link,
		poster_path, brochure_path, created_by, created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var types pq.StringArray
	var endNull sql.NullTime
	err := row.Scan(
		&e.ID, &e.Name, &e.OrganizingBody, &e.EventCoordinator, &e.Description, &e.CellsAndAssociation,
		&types, &e.EventDate, &endNull, &e.Mode, &e.Venue, &e.MaxParticipants,
		&e.CurrentRegistrations, &e.Status, &e.IsPublished, &e.IsOuterCollegeEvent, &e.RegistrationLink,
		&e.PosterPath, &e.BrochurePath, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.EventTypes = make([]domain.EventType, 0, len(types))
	for _, t := range types {
		e.EventTypes = append(e.EventTypes, domain.EventType(t))
	}
	if endNull.Valid {
		end := endNull.Time
		e.RegistrationEndDate = &end
	}
	return e, nil
}

func eventTypesArray(types []domain.EventType) pq.StringArray {
	out := make(pq.StringArray, 0, len(types))
	for _, t := range types {
		out = append(out, string(t))
	}
	return out
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (name, organizing_body, event_coordinator, description, cells_and_association,
			event_types, event_date, registration_end_date, mode, venue, max_participants,
			current_registrations, status, is_published, is_outer_college_event, registration_link,
			poster_path, brochure_path, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.Name, e.OrganizingBody, e.EventCoordinator, e.Description, e.CellsAndAssociation,
		eventTypesArray(e.EventTypes), e.EventDate, e.RegistrationEndDate, e.Mode, e.Venue, e.MaxParticipants,
		e.CurrentRegistrations, e.Status, e.IsPublished, e.IsOuterCollegeEvent, e.RegistrationLink,
		e.PosterPath, e.BrochurePath, e.CreatedBy, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// Update writes every admin-editable column. The row is only updated while
// max_participants stays at or above the live counter, so a shrink racing a
// registration cannot leave the event over capacity.
func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events SET
			name = $1, organizing_body = $2, event_coordinator = $3, description = $4,
			cells_and_association = $5, event_types = $6, event_date = $7, registration_end_date = $8,
			mode = $9, venue = $10, max_participants = $11, status = $12, is_published = $13,
			is_outer_college_event = $14, registration_link = $15, poster_path = $16, brochure_path = $17,
			updated_at = $18
		WHERE id = $19 AND current_registrations <= $11
		RETURNING current_registrations
	`
	err := r.DB.QueryRowContext(ctx, query,
		e.Name, e.OrganizingBody, e.EventCoordinator, e.Description,
		e.CellsAndAssociation, eventTypesArray(e.EventTypes), e.EventDate, e.RegistrationEndDate,
		e.Mode, e.Venue, e.MaxParticipants, e.Status, e.IsPublished,
		e.IsOuterCollegeEvent, e.RegistrationLink, e.PosterPath, e.BrochurePath,
		e.UpdatedAt, e.ID,
	).Scan(&e.CurrentRegistrations)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	exists, err := eventExists(ctx, r.DB, e.ID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}
	return &domain.ValidationError{Fields: []string{"max_participants"}}
}

// Delete removes the event and both kinds of registration in one transaction.
func (r *eventRepository) Delete(ctx context.Context, id string) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM registrations WHERE event_id = $1`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM outer_college_registrations WHERE event_id = $1`, id); err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	var rows int64
	if rows, err = result.RowsAffected(); err != nil {
		return err
	}
	if rows == 0 {
		err = domain.ErrNotFound
		return err
	}
	return tx.Commit()
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter, page domain.PaginationParams) ([]*domain.Event, int, error) {
	where, args := eventWhere(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM events` + where
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args) + 1
	query := fmt.Sprintf(`SELECT %s FROM events%s ORDER BY event_date ASC, created_at DESC LIMIT $%d OFFSET $%d`,
		eventColumns, where, n, n+1)
	args = append(args, page.PageSize, page.Offset())

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func eventWhere(f domain.EventFilter) (string, []any) {
	var clauses []string
	var args []any
	n := 1
	if f.PublishedOnly {
		clauses = append(clauses, "is_published = TRUE")
	}
	if f.Cell != "" {
		clauses = append(clauses, fmt.Sprintf("cells_and_association = $%d", n))
		args = append(args, f.Cell)
		n++
	}
	if f.EventType != "" {
		clauses = append(clauses, fmt.Sprintf("$%d = ANY(event_types)", n))
		args = append(args, f.EventType)
		n++
	}
	if f.OuterCollege != nil {
		clauses = append(clauses, fmt.Sprintf("is_outer_college_event = $%d", n))
		args = append(args, *f.OuterCollege)
		n++
	}
	if f.ScopeCell != "" {
		clauses = append(clauses, fmt.Sprintf("cells_and_association = $%d", n))
		args = append(args, f.ScopeCell)
		n++
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func eventExists(ctx context.Context, q queryRower, id string) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM events WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}
