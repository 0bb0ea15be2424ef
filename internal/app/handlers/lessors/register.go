package lessors

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"courtly/internal/app/commands"
	"courtly/internal/app/dto"
	handlersupport "courtly/internal/app/handlers/support"
	"courtly/internal/app/outbox"
	"courtly/internal/app/policies"
	"courtly/internal/app/uow"
	domainlessors "courtly/internal/domain/lessors"
)

const registerLessorKey = "lessor.register"

type RegisterLessorCommand struct {
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Address         domainlessors.Address
	Password        string
	ConfirmPassword string
	SportCenterName string
	Description     string
	Open            string
	Close           string
}

func (c RegisterLessorCommand) Key() string { return registerLessorKey }

func (c RegisterLessorCommand) Validate() error {
	for _, v := range []string{c.FirstName, c.LastName, c.Email, c.Phone, c.Password, c.SportCenterName} {
		if strings.TrimSpace(v) == "" {
			return domainlessors.ErrMissingFields
		}
	}
	if c.Password != c.ConfirmPassword {
		return domainlessors.ErrPasswordMismatch
	}
	if c.Open != "" || c.Close != "" {
		if _, err := domainlessors.NewOperatingHours(c.Open, c.Close); err != nil {
			return err
		}
	}
	return nil
}

type RegisterLessorHandler struct {
	UoWFactory uow.UoWFactory
	Passwords  policies.PasswordHasher
	Encoder    outbox.EventEncoder
	Clock      func() time.Time
}

func (h *RegisterLessorHandler) Handle(ctx context.Context, cmd RegisterLessorCommand) (*dto.Lessor, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	var hours domainlessors.OperatingHours
	if cmd.Open != "" || cmd.Close != "" {
		hours, _ = domainlessors.NewOperatingHours(cmd.Open, cmd.Close)
	}
	var result dto.Lessor
	err := handlersupport.RunInUnit(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		repo := unit.Lessors()
		if _, err := repo.ByEmail(ctx, domainlessors.NormalizeEmail(cmd.Email)); err == nil {
			return domainlessors.ErrEmailTaken
		} else if !errors.Is(err, domainlessors.ErrLessorNotFound) {
			return err
		}
		taken, err := repo.ExistsByPhone(ctx, strings.TrimSpace(cmd.Phone))
		if err != nil {
			return err
		}
		if taken {
			return domainlessors.ErrPhoneTaken
		}
		hash, err := h.Passwords.Hash(cmd.Password)
		if err != nil {
			return err
		}
		l, err := domainlessors.Register(domainlessors.RegisterParams{
			ID:              domainlessors.LessorID(uuid.NewString()),
			FirstName:       cmd.FirstName,
			LastName:        cmd.LastName,
			Email:           cmd.Email,
			Phone:           cmd.Phone,
			Address:         cmd.Address,
			PasswordHash:    hash,
			SportCenterName: cmd.SportCenterName,
			Description:     cmd.Description,
			Hours:           hours,
			Now:             handlersupport.Now(h.Clock),
		})
		if err != nil {
			return err
		}
		if err := repo.Save(ctx, l); err != nil {
			return err
		}
		if err := outbox.RecordDomainEvents(ctx, unit.Outbox(), h.Encoder, l.Drain()); err != nil {
			return err
		}
		result = dto.MapLessor(l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

var _ commands.Handler[RegisterLessorCommand, *dto.Lessor] = (*RegisterLessorHandler)(nil)
