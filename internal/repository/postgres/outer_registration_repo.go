package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"campusevents/internal/domain"
)

const outerRegistrationColumns = `id, event_id, participation_type, team_name, leader_name, roll_number,
		leader_department, leader_year, leader_contact, leader_email, college_name, team_members,
		status, created_at, updated_at`

type outerRegistrationRepository struct {
	DB *sql.DB
}

func NewOuterCollegeRegistrationRepository(db *sql.DB) domain.OuterCollegeRegistrationRepository {
	return &outerRegistrationRepository{
		DB: db,
	}
}

func scanOuterRegistration(row rowScanner) (*domain.OuterCollegeRegistration, error) {
	reg := &domain.OuterCollegeRegistration{}
	var members []byte
	err := row.Scan(
		&reg.ID, &reg.EventID, &reg.ParticipationType, &reg.TeamName,
		&reg.Leader.Name, &reg.Leader.RollNumber, &reg.Leader.Department, &reg.Leader.Year,
		&reg.Leader.Contact, &reg.Leader.Email, &reg.Leader.CollegeName, &members,
		&reg.Status, &reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	reg.TeamMembers = []domain.Participant{}
	if len(members) > 0 {
		if err := json.Unmarshal(members, &reg.TeamMembers); err != nil {
			return nil, fmt.Errorf("decode team members: %w", err)
		}
	}
	return reg, nil
}

func (r *outerRegistrationRepository) Create(ctx context.Context, reg *domain.OuterCollegeRegistration) error {
	members, err := json.Marshal(reg.TeamMembers)
	if err != nil {
		return fmt.Errorf("encode team members: %w", err)
	}
	query := `
		INSERT INTO outer_college_registrations (event_id, participation_type, team_name, leader_name, roll_number,
			leader_department, leader_year, leader_contact, leader_email, college_name, team_members,
			status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`
	err = r.DB.QueryRowContext(ctx, query,
		reg.EventID, reg.ParticipationType, reg.TeamName, reg.Leader.Name, reg.Leader.RollNumber,
		reg.Leader.Department, reg.Leader.Year, reg.Leader.Contact, reg.Leader.Email, reg.Leader.CollegeName,
		members, reg.Status, reg.CreatedAt, reg.UpdatedAt,
	).Scan(&reg.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateRegistration
		}
		return err
	}
	return nil
}

func (r *outerRegistrationRepository) GetByID(ctx context.Context, id string) (*domain.OuterCollegeRegistration, error) {
	query := `SELECT ` + outerRegistrationColumns + ` FROM outer_college_registrations WHERE id = $1`
	reg, err := scanOuterRegistration(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *outerRegistrationRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.OuterCollegeRegistration, error) {
	query := `SELECT ` + outerRegistrationColumns + ` FROM outer_college_registrations WHERE event_id = $1 ORDER BY created_at ASC`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regs := make([]*domain.OuterCollegeRegistration, 0)
	for rows.Next() {
		reg, err := scanOuterRegistration(rows)
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

func (r *outerRegistrationRepository) UpdateStatus(ctx context.Context, id string, status domain.OuterRegistrationStatus) (*domain.OuterCollegeRegistration, error) {
	query := `
		UPDATE outer_college_registrations SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + outerRegistrationColumns
	reg, err := scanOuterRegistration(r.DB.QueryRowContext(ctx, query, status, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *outerRegistrationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM outer_college_registrations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
