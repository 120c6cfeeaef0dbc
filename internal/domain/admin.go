package domain

import (
	"context"
	"time"
)

// AdminRole distinguishes ordinary admins from super admins.
type AdminRole string

const (
	RoleAdmin      AdminRole = "normal"
	RoleSuperAdmin AdminRole = "super_admin"
)

// Admin is an administrator account that manages events.
// swagger:model Admin
type Admin struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         AdminRole `json:"role"`
	Cell         Cell      `json:"cells_and_association"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Actor is the authenticated admin on whose behalf an operation runs.
// It is passed explicitly into every admin operation.
type Actor struct {
	AdminID string
	Email   string
	Role    AdminRole
	Cell    Cell
}

// ActorFromAdmin builds the identity context for a stored admin.
func ActorFromAdmin(a *Admin) *Actor {
	return &Actor{AdminID: a.ID, Email: a.Email, Role: a.Role, Cell: a.Cell}
}

// Unrestricted reports whether the actor sees events of every cell.
func (a *Actor) Unrestricted() bool {
	return a.Cell == CellOT
}

// CanManage reports whether the actor may mutate or delete e.
func (a *Actor) CanManage(e *Event) bool {
	if a == nil || e == nil {
		return false
	}
	return e.CreatedBy == a.AdminID || a.Role == RoleSuperAdmin || a.Unrestricted()
}

// CanView reports whether e falls inside the actor's admin scope: the actor's
// own cell, or every cell for OT.
func (a *Actor) CanView(e *Event) bool {
	if a == nil || e == nil {
		return false
	}
	return a.Unrestricted() || e.CellsAndAssociation == a.Cell
}

// PasswordHasher handles salt generation, hashing, and verification.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues signed tokens for an authenticated admin.
type TokenIssuer interface {
	Issue(actor *Actor) (string, error)
}

// TokenVerifier verifies a token and returns the identity it carries.
type TokenVerifier interface {
	Verify(token string) (*Actor, error)
}

// AdminRepository defines the interface for admin account storage.
type AdminRepository interface {
	Create(ctx context.Context, admin *Admin) error
	GetByEmail(ctx context.Context, email string) (*Admin, error)
	GetByID(ctx context.Context, id string) (*Admin, error)
}

// AuthService authenticates admins.
type AuthService interface {
	Login(ctx context.Context, email, password string) (token string, admin *Admin, err error)
	// EnsureAdmin creates the admin with the given password unless an account
	// with that email already exists. It reports whether one was created.
	EnsureAdmin(ctx context.Context, admin *Admin, password string) (bool, error)
}
