package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"courtly/internal/app/dto"
	handlersupport "courtly/internal/app/handlers/support"
	"courtly/internal/app/policies"
	"courtly/internal/app/uow"
	"courtly/internal/domain/accounts"
	"courtly/internal/domain/lessors"
)

var (
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrInvalidToken       = errors.New("Invalid or expired token")
)

// Role names carried in tokens.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleLessor    = "lessor"
)

// Principal is the caller identity resolved from a bearer token.
type Principal struct {
	ID    string
	Email string
	Role  string
}

type TokenIssuer interface {
	Issue(p Principal) (token string, expiresAt time.Time, err error)
	Parse(token string) (Principal, error)
}

type Service struct {
	UoWFactory uow.UoWFactory
	Passwords  policies.PasswordHasher
	Tokens     TokenIssuer
	Logger     *slog.Logger
	Clock      func() time.Time
}

type RegisterParams struct {
	Role     accounts.Role
	Name     string
	Email    string
	Phone    string
	Password string
}

type LoginParams struct {
	Role     string
	Email    string
	Password string
}

// Register creates a user or moderator account and signs it in.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*dto.AuthResult, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	email := accounts.NormalizeEmail(params.Email)
	if email == "" || strings.TrimSpace(params.Name) == "" {
		return nil, accounts.ErrMissingFields
	}
	if utf8.RuneCountInString(params.Password) < 8 {
		return nil, accounts.ErrPasswordLength
	}
	var account *accounts.Account
	err := handlersupport.RunInUnit(ctx, s.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		if _, err := unit.Accounts().ByEmail(ctx, params.Role, email); err == nil {
			return accounts.ErrEmailTaken
		} else if !errors.Is(err, accounts.NotFoundFor(params.Role)) {
			return err
		}
		hash, err := s.Passwords.Hash(params.Password)
		if err != nil {
			return err
		}
		account, err = accounts.New(accounts.CreateParams{
			ID:           accounts.ID(uuid.NewString()),
			Role:         params.Role,
			Name:         params.Name,
			Email:        email,
			Phone:        params.Phone,
			PasswordHash: hash,
			Now:          handlersupport.Now(s.Clock),
		})
		if err != nil {
			return err
		}
		return unit.Accounts().Save(ctx, account)
	})
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("account registered", "account_id", account.ID, "role", account.Role)
	}
	return s.issueForAccount(account)
}

// Login checks credentials for any role and issues a token.
func (s *Service) Login(ctx context.Context, params LoginParams) (*dto.AuthResult, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	email := accounts.NormalizeEmail(params.Email)
	if email == "" || params.Password == "" {
		return nil, ErrInvalidCredentials
	}
	unit, ctx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, s.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	if params.Role == RoleLessor {
		l, err := unit.Lessors().ByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, lessors.ErrLessorNotFound) {
				return nil, ErrInvalidCredentials
			}
			return nil, err
		}
		if err := s.Passwords.Compare(l.PasswordHash, params.Password); err != nil {
			return nil, ErrInvalidCredentials
		}
		token, expires, err := s.Tokens.Issue(Principal{ID: string(l.ID), Email: l.Email, Role: RoleLessor})
		if err != nil {
			return nil, err
		}
		profile := dto.MapLessor(l)
		if s.Logger != nil {
			s.Logger.Info("lessor authenticated", "lessor_id", l.ID)
		}
		return &dto.AuthResult{Token: token, ExpiresAt: expires, Role: RoleLessor, Lessor: &profile}, nil
	}

	role := accounts.Role(params.Role)
	account, err := unit.Accounts().ByEmail(ctx, role, email)
	if err != nil {
		if errors.Is(err, accounts.NotFoundFor(role)) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.Passwords.Compare(account.PasswordHash, params.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if s.Logger != nil {
		s.Logger.Info("account authenticated", "account_id", account.ID, "role", account.Role)
	}
	return s.issueForAccount(account)
}

// Profile returns the account behind a user or moderator principal.
func (s *Service) Profile(ctx context.Context, p Principal) (*dto.Account, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	unit, ctx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, s.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	account, err := unit.Accounts().ByEmail(ctx, accounts.Role(p.Role), p.Email)
	if err != nil {
		return nil, err
	}
	out := dto.MapAccount(account)
	return &out, nil
}

// UpdateProfile edits the name and phone of a user or moderator principal.
func (s *Service) UpdateProfile(ctx context.Context, p Principal, patch accounts.ProfilePatch) (*dto.Account, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	var out dto.Account
	err := handlersupport.RunInUnit(ctx, s.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		account, err := unit.Accounts().ByEmail(ctx, accounts.Role(p.Role), p.Email)
		if err != nil {
			return err
		}
		account.ApplyProfile(patch, handlersupport.Now(s.Clock))
		if err := unit.Accounts().Save(ctx, account); err != nil {
			return err
		}
		out = dto.MapAccount(account)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Resolve trusts a token's claims once its signature and expiry check out.
func (s *Service) Resolve(token string) (Principal, error) {
	if s.Tokens == nil {
		return Principal{}, errors.New("auth: token issuer required")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return Principal{}, ErrInvalidToken
	}
	p, err := s.Tokens.Parse(token)
	if err != nil {
		return Principal{}, ErrInvalidToken
	}
	return p, nil
}

func (s *Service) issueForAccount(account *accounts.Account) (*dto.AuthResult, error) {
	role := string(account.Role)
	token, expires, err := s.Tokens.Issue(Principal{ID: string(account.ID), Email: account.Email, Role: role})
	if err != nil {
		return nil, err
	}
	out := dto.MapAccount(account)
	return &dto.AuthResult{Token: token, ExpiresAt: expires, Role: role, Account: &out}, nil
}

func (s *Service) ensureDependencies() error {
	switch {
	case s.UoWFactory == nil:
		return errors.New("auth: unit of work factory required")
	case s.Passwords == nil:
		return errors.New("auth: password hasher required")
	case s.Tokens == nil:
		return errors.New("auth: token issuer required")
	default:
		return nil
	}
}
