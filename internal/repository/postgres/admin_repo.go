package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"campusevents/internal/domain"
)

type adminRepository struct {
	DB *sql.DB
}

func NewAdminRepository(db *sql.DB) domain.AdminRepository {
	return &adminRepository{DB: db}
}

func (r *adminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	query := `
		INSERT INTO admins (email, name, role, cells_and_association, password_hash, salt, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	admin.Email = domain.NormalizeEmail(admin.Email)
	err := r.DB.QueryRowContext(ctx, query,
		admin.Email, admin.Name, admin.Role, admin.Cell, admin.PasswordHash, admin.Salt, admin.CreatedAt, admin.UpdatedAt,
	).Scan(&admin.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create admin %s: %w", admin.Email, domain.ErrDuplicateRegistration)
		}
		return err
	}
	return nil
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	query := `
		SELECT id, email, name, role, cells_and_association, password_hash, salt, created_at, updated_at
		FROM admins
		WHERE email = $1
	`
	return r.getOne(ctx, query, domain.NormalizeEmail(email))
}

func (r *adminRepository) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	query := `
		SELECT id, email, name, role, cells_and_association, password_hash, salt, created_at, updated_at
		FROM admins
		WHERE id = $1
	`
	return r.getOne(ctx, query, id)
}

func (r *adminRepository) getOne(ctx context.Context, query string, arg string) (*domain.Admin, error) {
	a := &domain.Admin{}
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&a.ID, &a.Email, &a.Name, &a.Role, &a.Cell, &a.PasswordHash, &a.Salt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}
