package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campusevents/internal/domain"
)

type authService struct {
	adminRepo domain.AdminRepository
	hasher    domain.PasswordHasher
	issuer    domain.TokenIssuer
	now       func() time.Time
}

// NewAuthService creates an AuthService that checks admin passwords with
// hasher and signs tokens with issuer.
func NewAuthService(adminRepo domain.AdminRepository, hasher domain.PasswordHasher, issuer domain.TokenIssuer) domain.AuthService {
	return &authService{
		adminRepo: adminRepo,
		hasher:    hasher,
		issuer:    issuer,
		now:       time.Now,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.Admin, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}
	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("get admin: %w", err)
	}
	if err := s.hasher.Compare(admin.PasswordHash, admin.Salt, password); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	token, err := s.issuer.Issue(domain.ActorFromAdmin(admin))
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, admin, nil
}

func (s *authService) EnsureAdmin(ctx context.Context, admin *domain.Admin, password string) (bool, error) {
	if admin == nil || password == "" {
		return false, fmt.Errorf("ensure admin: %w", domain.ErrInvalidInput)
	}
	admin.Email = domain.NormalizeEmail(admin.Email)
	if admin.Email == "" {
		return false, fmt.Errorf("ensure admin: %w", domain.ErrInvalidInput)
	}
	if admin.Role == "" {
		admin.Role = domain.RoleAdmin
	}
	if admin.Role != domain.RoleAdmin && admin.Role != domain.RoleSuperAdmin {
		return false, fmt.Errorf("ensure admin: role %q: %w", admin.Role, domain.ErrInvalidInput)
	}
	if !admin.Cell.Valid() && admin.Cell != domain.CellOT {
		return false, fmt.Errorf("ensure admin: cell %q: %w", admin.Cell, domain.ErrInvalidInput)
	}

	_, err := s.adminRepo.GetByEmail(ctx, admin.Email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return false, fmt.Errorf("get admin: %w", err)
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return false, err
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return false, err
	}
	now := s.now()
	admin.Salt = salt
	admin.PasswordHash = hash
	admin.CreatedAt = now
	admin.UpdatedAt = now
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	return true, nil
}
