package lessors

import (
	"context"
	"strings"
	"time"

	"courtly/internal/app/commands"
	"courtly/internal/app/dto"
	handlersupport "courtly/internal/app/handlers/support"
	"courtly/internal/app/queries"
	"courtly/internal/app/uow"
	domainlessors "courtly/internal/domain/lessors"
	"courtly/internal/domain/shared/geo"
)

const (
	getProfileKey    = "lessor.profile.get"
	getLessorKey     = "lessor.get"
	updateProfileKey = "lessor.profile.update"
	setLocationKey   = "lessor.location.set"
)

// GetProfileQuery loads the signed-in lessor.
type GetProfileQuery struct {
	Email string
}

func (q GetProfileQuery) Key() string { return getProfileKey }

func (q GetProfileQuery) AllowedRoles() []string { return lessorOnly }

// GetLessorQuery loads any lessor by id.
type GetLessorQuery struct {
	LessorID string
}

func (q GetLessorQuery) Key() string { return getLessorKey }

type ProfileQueryHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ProfileQueryHandler) HandleProfile(ctx context.Context, q GetProfileQuery) (dto.Lessor, error) {
	unit, ctx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Lessor{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	l, err := unit.Lessors().ByEmail(ctx, domainlessors.NormalizeEmail(q.Email))
	if err != nil {
		return dto.Lessor{}, err
	}
	return dto.MapLessor(l), nil
}

func (h *ProfileQueryHandler) HandleLessor(ctx context.Context, q GetLessorQuery) (dto.Lessor, error) {
	unit, ctx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Lessor{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	l, err := unit.Lessors().ByID(ctx, domainlessors.LessorID(strings.TrimSpace(q.LessorID)))
	if err != nil {
		return dto.Lessor{}, err
	}
	return dto.MapLessor(l), nil
}

// UpdateProfileCommand edits the signed-in lessor. Nil fields stay unchanged.
type UpdateProfileCommand struct {
	Email           string
	FirstName       *string
	LastName        *string
	Phone           *string
	SportCenterName *string
	Description     *string
	Logo            *string
	Address         *domainlessors.Address
	Open            *string
	Close           *string
	TimeAvailable   *bool
}

func (c UpdateProfileCommand) Key() string { return updateProfileKey }

func (c UpdateProfileCommand) AllowedRoles() []string { return lessorOnly }

func (c UpdateProfileCommand) Validate() error {
	if (c.Open == nil) != (c.Close == nil) {
		return domainlessors.ErrInvalidHours
	}
	if c.Open != nil {
		if _, err := domainlessors.NewOperatingHours(*c.Open, *c.Close); err != nil {
			return err
		}
	}
	return nil
}

type UpdateProfileHandler struct {
	UoWFactory uow.UoWFactory
	Clock      func() time.Time
}

func (h *UpdateProfileHandler) Handle(ctx context.Context, cmd UpdateProfileCommand) (*dto.Lessor, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	patch := domainlessors.ProfilePatch{
		FirstName:       cmd.FirstName,
		LastName:        cmd.LastName,
		Phone:           cmd.Phone,
		SportCenterName: cmd.SportCenterName,
		Description:     cmd.Description,
		Address:         cmd.Address,
		TimeAvailable:   cmd.TimeAvailable,
		Logo:            cmd.Logo,
	}
	if cmd.Open != nil {
		hours, _ := domainlessors.NewOperatingHours(*cmd.Open, *cmd.Close)
		patch.Hours = &hours
	}
	return mutateLessor(ctx, h.UoWFactory, cmd.Email, func(ctx context.Context, unit uow.UnitOfWork, l *domainlessors.Lessor) error {
		if cmd.Phone != nil {
			phone := strings.TrimSpace(*cmd.Phone)
			if phone != "" && phone != l.Phone {
				taken, err := unit.Lessors().ExistsByPhone(ctx, phone)
				if err != nil {
					return err
				}
				if taken {
					return domainlessors.ErrPhoneTaken
				}
			}
		}
		l.ApplyProfile(patch, handlersupport.Now(h.Clock))
		return nil
	})
}

// SetLocationCommand pins the signed-in lessor on the map.
type SetLocationCommand struct {
	Email string
	Lng   float64
	Lat   float64
}

func (c SetLocationCommand) Key() string { return setLocationKey }

func (c SetLocationCommand) AllowedRoles() []string { return lessorOnly }

func (c SetLocationCommand) Validate() error {
	_, err := geo.NewPoint(c.Lng, c.Lat)
	return err
}

type SetLocationHandler struct {
	UoWFactory uow.UoWFactory
	Clock      func() time.Time
}

func (h *SetLocationHandler) Handle(ctx context.Context, cmd SetLocationCommand) (*dto.Lessor, error) {
	point, err := geo.NewPoint(cmd.Lng, cmd.Lat)
	if err != nil {
		return nil, err
	}
	return mutateLessor(ctx, h.UoWFactory, cmd.Email, func(_ context.Context, _ uow.UnitOfWork, l *domainlessors.Lessor) error {
		l.SetLocation(point, handlersupport.Now(h.Clock))
		return nil
	})
}

// mutateLessor loads the lessor by email, applies fn and saves the result.
func mutateLessor(ctx context.Context, factory uow.UoWFactory, email string, fn func(ctx context.Context, unit uow.UnitOfWork, l *domainlessors.Lessor) error) (*dto.Lessor, error) {
	var result dto.Lessor
	err := handlersupport.RunInUnit(ctx, factory, func(ctx context.Context, unit uow.UnitOfWork) error {
		l, err := unit.Lessors().ByEmail(ctx, domainlessors.NormalizeEmail(email))
		if err != nil {
			return err
		}
		if err := fn(ctx, unit, l); err != nil {
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

var (
	_ commands.Handler[UpdateProfileCommand, *dto.Lessor] = (*UpdateProfileHandler)(nil)
	_ commands.Handler[SetLocationCommand, *dto.Lessor]   = (*SetLocationHandler)(nil)
	_ queries.HandlerFunc[GetProfileQuery, dto.Lessor]    = (&ProfileQueryHandler{}).HandleProfile
	_ queries.HandlerFunc[GetLessorQuery, dto.Lessor]     = (&ProfileQueryHandler{}).HandleLessor
)
