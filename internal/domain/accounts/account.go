package accounts

import (
	"context"
	"strings"
	"time"

	"courtly/internal/domain/shared/errs"
)

var (
	ErrNotFound       = errs.NotFound("Account not found")
	ErrUserNotFound   = errs.NotFound("User not found")
	ErrModNotFound    = errs.NotFound("Moderator not found")
	ErrMissingFields  = errs.Validation("Missing required fields")
	ErrEmailTaken     = errs.Conflict("Email is already in use")
	ErrInvalidRole    = errs.Validation("Invalid account role")
	ErrPasswordLength = errs.Validation("Password must be at least 8 characters")
)

type ID string

// Role distinguishes platform users from moderators. Lessors live in their own aggregate.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
)

type Account struct {
	ID           ID
	Role         Role
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Account, error)
	ByEmail(ctx context.Context, role Role, email string) (*Account, error)
	Save(ctx context.Context, a *Account) error
	// List returns every account with role, oldest first.
	List(ctx context.Context, role Role) ([]*Account, error)
}

type CreateParams struct {
	ID           ID
	Role         Role
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Now          time.Time
}

func New(p CreateParams) (*Account, error) {
	if p.Role != RoleUser && p.Role != RoleModerator {
		return nil, ErrInvalidRole
	}
	email := NormalizeEmail(p.Email)
	name := strings.TrimSpace(p.Name)
	if strings.TrimSpace(string(p.ID)) == "" || email == "" || name == "" || p.PasswordHash == "" {
		return nil, ErrMissingFields
	}
	now := p.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	return &Account{
		ID:           p.ID,
		Role:         p.Role,
		Name:         name,
		Email:        email,
		Phone:        strings.TrimSpace(p.Phone),
		PasswordHash: p.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ProfilePatch carries optional edits; nil or blank fields are left untouched.
type ProfilePatch struct {
	Name  *string
	Phone *string
}

func (a *Account) ApplyProfile(p ProfilePatch, now time.Time) {
	if p.Name != nil && strings.TrimSpace(*p.Name) != "" {
		a.Name = strings.TrimSpace(*p.Name)
	}
	if p.Phone != nil && strings.TrimSpace(*p.Phone) != "" {
		a.Phone = strings.TrimSpace(*p.Phone)
	}
	a.UpdatedAt = now.UTC()
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NotFoundFor picks the role-specific missing-entity error.
func NotFoundFor(role Role) error {
	switch role {
	case RoleUser:
		return ErrUserNotFound
	case RoleModerator:
		return ErrModNotFound
	}
	return ErrNotFound
}
