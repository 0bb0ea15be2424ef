package lessors

import (
	"context"
	"strings"
	"time"

	"courtly/internal/app/commands"
	"courtly/internal/app/dto"
	handlersupport "courtly/internal/app/handlers/support"
	"courtly/internal/app/outbox"
	"courtly/internal/app/policies"
	"courtly/internal/app/queries"
	"courtly/internal/app/uow"
	domainlessors "courtly/internal/domain/lessors"
	"courtly/internal/domain/shared/status"
)

const (
	listLessorsKey     = "lessor.list"
	setLessorStatusKey = "lessor.status.set"
	listLocationsKey   = "lessor.locations"
	resetPasswordKey   = "lessor.password.reset"
	removeLessorKey    = "lessor.remove"
)

// ListLessorsQuery is the moderator view. Empty Status lists everyone.
type ListLessorsQuery struct {
	Status string
}

func (q ListLessorsQuery) Key() string { return listLessorsKey }

func (q ListLessorsQuery) AllowedRoles() []string { return moderatorOnly }

func (q ListLessorsQuery) Validate() error {
	_, err := status.ParseOptional(q.Status)
	return err
}

// ListLocationsQuery returns map markers for approved lessors with a location.
type ListLocationsQuery struct{}

func (q ListLocationsQuery) Key() string { return listLocationsKey }

type DirectoryHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *DirectoryHandler) HandleList(ctx context.Context, q ListLessorsQuery) ([]dto.Lessor, error) {
	want, err := status.ParseOptional(q.Status)
	if err != nil {
		return nil, err
	}
	unit, ctx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	list, err := unit.Lessors().List(ctx, domainlessors.ListFilter{Status: want})
	if err != nil {
		return nil, err
	}
	return dto.MapLessors(list), nil
}

func (h *DirectoryHandler) HandleLocations(ctx context.Context, _ ListLocationsQuery) ([]dto.LessorLocation, error) {
	unit, ctx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	list, err := unit.Lessors().List(ctx, domainlessors.ListFilter{Status: status.Approved})
	if err != nil {
		return nil, err
	}
	out := make([]dto.LessorLocation, 0, len(list))
	for _, l := range list {
		if l.Location == nil {
			continue
		}
		out = append(out, dto.LessorLocation{
			ID:              string(l.ID),
			SportCenterName: l.SportCenterName,
			Logo:            l.Logo,
			Location:        *dto.MapLocation(l.Location),
		})
	}
	return out, nil
}

// SetLessorStatusCommand approves or rejects a lessor account.
type SetLessorStatusCommand struct {
	LessorID string
	Status   string
}

func (c SetLessorStatusCommand) Key() string { return setLessorStatusKey }

func (c SetLessorStatusCommand) AllowedRoles() []string { return moderatorOnly }

func (c SetLessorStatusCommand) Validate() error {
	_, err := status.Parse(c.Status)
	return err
}

type SetLessorStatusHandler struct {
	UoWFactory uow.UoWFactory
	Encoder    outbox.EventEncoder
	Clock      func() time.Time
}

func (h *SetLessorStatusHandler) Handle(ctx context.Context, cmd SetLessorStatusCommand) (*dto.Lessor, error) {
	next, err := status.Parse(cmd.Status)
	if err != nil {
		return nil, err
	}
	var result dto.Lessor
	err = handlersupport.RunInUnit(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		l, err := unit.Lessors().ByID(ctx, domainlessors.LessorID(strings.TrimSpace(cmd.LessorID)))
		if err != nil {
			return err
		}
		if err := l.SetStatus(next, handlersupport.Now(h.Clock)); err != nil {
			return err
		}
		if err := unit.Lessors().Save(ctx, l); err != nil {
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

// ResetLessorPasswordCommand sets a new password chosen by a moderator.
type ResetLessorPasswordCommand struct {
	LessorID string
	Password string
}

func (c ResetLessorPasswordCommand) Key() string { return resetPasswordKey }

func (c ResetLessorPasswordCommand) AllowedRoles() []string { return moderatorOnly }

func (c ResetLessorPasswordCommand) Validate() error {
	if strings.TrimSpace(c.LessorID) == "" {
		return domainlessors.ErrMissingFields
	}
	if strings.TrimSpace(c.Password) == "" {
		return domainlessors.ErrPasswordRequired
	}
	return nil
}

type ResetLessorPasswordHandler struct {
	UoWFactory uow.UoWFactory
	Passwords  policies.PasswordHasher
	Clock      func() time.Time
}

func (h *ResetLessorPasswordHandler) Handle(ctx context.Context, cmd ResetLessorPasswordCommand) (*dto.Lessor, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	var result dto.Lessor
	err := handlersupport.RunInUnit(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		l, err := unit.Lessors().ByID(ctx, domainlessors.LessorID(strings.TrimSpace(cmd.LessorID)))
		if err != nil {
			return err
		}
		hash, err := h.Passwords.Hash(cmd.Password)
		if err != nil {
			return err
		}
		if err := l.ResetPassword(hash, handlersupport.Now(h.Clock)); err != nil {
			return err
		}
		if err := unit.Lessors().Save(ctx, l); err != nil {
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

// RemoveLessorCommand deletes a lessor account with its facilities and courts.
// Bookings, comments and payments that reference it are kept for reporting.
type RemoveLessorCommand struct {
	LessorID string
}

func (c RemoveLessorCommand) Key() string { return removeLessorKey }

func (c RemoveLessorCommand) AllowedRoles() []string { return moderatorOnly }

func (c RemoveLessorCommand) Validate() error {
	if strings.TrimSpace(c.LessorID) == "" {
		return domainlessors.ErrMissingFields
	}
	return nil
}

type RemoveLessorHandler struct {
	UoWFactory uow.UoWFactory
	Encoder    outbox.EventEncoder
	Clock      func() time.Time
}

func (h *RemoveLessorHandler) Handle(ctx context.Context, cmd RemoveLessorCommand) (*dto.Lessor, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	var result dto.Lessor
	err := handlersupport.RunInUnit(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		l, err := unit.Lessors().ByID(ctx, domainlessors.LessorID(strings.TrimSpace(cmd.LessorID)))
		if err != nil {
			return err
		}
		if err := unit.Lessors().Delete(ctx, l.ID); err != nil {
			return err
		}
		l.MarkRemoved(handlersupport.Now(h.Clock))
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

var (
	_ commands.Handler[ResetLessorPasswordCommand, *dto.Lessor]     = (*ResetLessorPasswordHandler)(nil)
	_ commands.Handler[RemoveLessorCommand, *dto.Lessor]            = (*RemoveLessorHandler)(nil)
	_ commands.Handler[SetLessorStatusCommand, *dto.Lessor]         = (*SetLessorStatusHandler)(nil)
	_ queries.HandlerFunc[ListLessorsQuery, []dto.Lessor]           = (&DirectoryHandler{}).HandleList
	_ queries.HandlerFunc[ListLocationsQuery, []dto.LessorLocation] = (&DirectoryHandler{}).HandleLocations
)
