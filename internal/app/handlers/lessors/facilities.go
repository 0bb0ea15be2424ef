package lessors

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"courtly/internal/app/commands"
	"courtly/internal/app/dto"
	handlersupport "courtly/internal/app/handlers/support"
	"courtly/internal/app/queries"
	"courtly/internal/app/uow"
	domainlessors "courtly/internal/domain/lessors"
)

const (
	addFacilityKey    = "lessor.facility.add"
	updateFacilityKey = "lessor.facility.update"
	removeFacilityKey = "lessor.facility.remove"
	addCourtKey       = "lessor.court.add"
	updateCourtKey    = "lessor.court.update"
	removeCourtKey    = "lessor.court.remove"
	listFacilitiesKey = "lessor.facility.list"
	listCourtsKey     = "lessor.court.list"
	allCourtsKey      = "lessor.court.all"
	getCourtKey       = "lessor.court.get"
)

type AddFacilityCommand struct {
	Email       string
	Name        string
	Description string
	Price       float64
	Image       string
}

func (c AddFacilityCommand) Key() string { return addFacilityKey }

func (c AddFacilityCommand) AllowedRoles() []string { return lessorOnly }

func (c AddFacilityCommand) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return domainlessors.ErrMissingFields
	}
	if c.Price < 0 {
		return domainlessors.ErrInvalidPrice
	}
	return nil
}

type UpdateFacilityCommand struct {
	Email       string
	FacilityID  string
	Name        *string
	Description *string
	Price       *float64
	Image       *string
}

func (c UpdateFacilityCommand) Key() string { return updateFacilityKey }

func (c UpdateFacilityCommand) AllowedRoles() []string { return lessorOnly }

type RemoveFacilityCommand struct {
	Email      string
	FacilityID string
}

func (c RemoveFacilityCommand) Key() string { return removeFacilityKey }

func (c RemoveFacilityCommand) AllowedRoles() []string { return lessorOnly }

type AddCourtCommand struct {
	Email       string
	FacilityID  string
	Name        string
	Description string
	Images      []string
}

func (c AddCourtCommand) Key() string { return addCourtKey }

func (c AddCourtCommand) AllowedRoles() []string { return lessorOnly }

func (c AddCourtCommand) Validate() error {
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.FacilityID) == "" {
		return domainlessors.ErrMissingFields
	}
	return nil
}

// UpdateCourtCommand edits a court. A nil Images leaves the list as is.
type UpdateCourtCommand struct {
	Email       string
	FacilityID  string
	CourtID     string
	Name        *string
	Description *string
	Images      []string
	AppendImage string
}

func (c UpdateCourtCommand) Key() string { return updateCourtKey }

func (c UpdateCourtCommand) AllowedRoles() []string { return lessorOnly }

type RemoveCourtCommand struct {
	Email      string
	FacilityID string
	CourtID    string
}

func (c RemoveCourtCommand) Key() string { return removeCourtKey }

func (c RemoveCourtCommand) AllowedRoles() []string { return lessorOnly }

// ArenaHandler manages the facilities and courts owned by the signed-in lessor.
type ArenaHandler struct {
	UoWFactory uow.UoWFactory
	Clock      func() time.Time
}

func (h *ArenaHandler) AddFacility(ctx context.Context, cmd AddFacilityCommand) (*dto.Facility, error) {
	var out dto.Facility
	_, err := mutateLessor(ctx, h.UoWFactory, cmd.Email, func(_ context.Context, _ uow.UnitOfWork, l *domainlessors.Lessor) error {
		f, err := l.AddFacility(domainlessors.FacilityParams{
			ID:          domainlessors.FacilityID(uuid.NewString()),
			Name:        cmd.Name,
			Description: cmd.Description,
			Price:       cmd.Price,
			Image:       cmd.Image,
		}, handlersupport.Now(h.Clock))
		out = dto.MapFacility(f)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *ArenaHandler) UpdateFacility(ctx context.Context, cmd UpdateFacilityCommand) (*dto.Facility, error) {
	var out dto.Facility
	_, err := mutateLessor(ctx, h.UoWFactory, cmd.Email, func(_ context.Context, _ uow.UnitOfWork, l *domainlessors.Lessor) error {
		f, err := l.UpdateFacility(domainlessors.FacilityID(cmd.FacilityID), domainlessors.FacilityPatch{
			Name:        cmd.Name,
			Description: cmd.Description,
			Price:       cmd.Price,
			Image:       cmd.Image,
		}, handlersupport.Now(h.Clock))
		out = dto.MapFacility(f)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *ArenaHandler) RemoveFacility(ctx context.Context, cmd RemoveFacilityCommand) (*dto.Lessor, error) {
	return mutateLessor(ctx, h.UoWFactory, cmd.Email, func(_ context.Context, _ uow.UnitOfWork, l *domainlessors.Lessor) error {
		return l.RemoveFacility(domainlessors.FacilityID(cmd.FacilityID), handlersupport.Now(h.Clock))
	})
}

func (h *ArenaHandler) AddCourt(ctx context.Context, cmd AddCourtCommand) (*dto.Court, error) {
	var out dto.Court
	_, err := mutateLessor(ctx, h.UoWFactory, cmd.Email, func(_ context.Context, _ uow.UnitOfWork, l *domainlessors.Lessor) error {
		c, err := l.AddCourt(domainlessors.FacilityID(cmd.FacilityID), domainlessors.CourtParams{
			ID:          domainlessors.CourtID(uuid.NewString()),
			Name:        cmd.Name,
			Description: cmd.Description,
			Images:      cmd.Images,
		}, handlersupport.Now(h.Clock))
		out = dto.MapCourt(c)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *ArenaHandler) UpdateCourt(ctx context.Context, cmd UpdateCourtCommand) (*dto.Court, error) {
	var out dto.Court
	_, err := mutateLessor(ctx, h.UoWFactory, cmd.Email, func(_ context.Context, _ uow.UnitOfWork, l *domainlessors.Lessor) error {
		c, err := l.UpdateCourt(domainlessors.FacilityID(cmd.FacilityID), domainlessors.CourtID(cmd.CourtID), domainlessors.CourtPatch{
			Name:        cmd.Name,
			Description: cmd.Description,
			Images:      cmd.Images,
			AppendImage: cmd.AppendImage,
		}, handlersupport.Now(h.Clock))
		out = dto.MapCourt(c)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *ArenaHandler) RemoveCourt(ctx context.Context, cmd RemoveCourtCommand) (*dto.Lessor, error) {
	return mutateLessor(ctx, h.UoWFactory, cmd.Email, func(_ context.Context, _ uow.UnitOfWork, l *domainlessors.Lessor) error {
		return l.RemoveCourt(domainlessors.FacilityID(cmd.FacilityID), domainlessors.CourtID(cmd.CourtID), handlersupport.Now(h.Clock))
	})
}

type ListFacilitiesQuery struct {
	Email string
}

func (q ListFacilitiesQuery) Key() string { return listFacilitiesKey }

func (q ListFacilitiesQuery) AllowedRoles() []string { return lessorOnly }

type ListCourtsQuery struct {
	Email      string
	FacilityID string
}

func (q ListCourtsQuery) Key() string { return listCourtsKey }

func (q ListCourtsQuery) AllowedRoles() []string { return lessorOnly }

// AllCourtsQuery flattens every court the lessor owns.
type AllCourtsQuery struct {
	Email string
}

func (q AllCourtsQuery) Key() string { return allCourtsKey }

func (q AllCourtsQuery) AllowedRoles() []string { return lessorOnly }

type GetCourtQuery struct {
	Email      string
	FacilityID string
	CourtID    string
}

func (q GetCourtQuery) Key() string { return getCourtKey }

func (q GetCourtQuery) AllowedRoles() []string { return lessorOnly }

type ArenaQueryHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ArenaQueryHandler) load(ctx context.Context, email string) (*domainlessors.Lessor, error) {
	unit, ctx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	return unit.Lessors().ByEmail(ctx, domainlessors.NormalizeEmail(email))
}

func (h *ArenaQueryHandler) ListFacilities(ctx context.Context, q ListFacilitiesQuery) ([]dto.Facility, error) {
	l, err := h.load(ctx, q.Email)
	if err != nil {
		return nil, err
	}
	return dto.MapFacilities(l.Facilities), nil
}

func (h *ArenaQueryHandler) ListCourts(ctx context.Context, q ListCourtsQuery) ([]dto.Court, error) {
	l, err := h.load(ctx, q.Email)
	if err != nil {
		return nil, err
	}
	f, err := l.Facility(domainlessors.FacilityID(q.FacilityID))
	if err != nil {
		return nil, err
	}
	return dto.MapFacility(f).Courts, nil
}

func (h *ArenaQueryHandler) AllCourts(ctx context.Context, q AllCourtsQuery) ([]dto.CourtWithFacility, error) {
	l, err := h.load(ctx, q.Email)
	if err != nil {
		return nil, err
	}
	refs := l.AllCourts()
	out := make([]dto.CourtWithFacility, 0, len(refs))
	for _, ref := range refs {
		out = append(out, dto.CourtWithFacility{
			FacilityID:   string(ref.FacilityID),
			FacilityName: ref.FacilityName,
			Court:        dto.MapCourt(ref.Court),
		})
	}
	return out, nil
}

func (h *ArenaQueryHandler) GetCourt(ctx context.Context, q GetCourtQuery) (dto.Court, error) {
	l, err := h.load(ctx, q.Email)
	if err != nil {
		return dto.Court{}, err
	}
	c, err := l.Court(domainlessors.FacilityID(q.FacilityID), domainlessors.CourtID(q.CourtID))
	if err != nil {
		return dto.Court{}, err
	}
	return dto.MapCourt(c), nil
}

var (
	_ commands.HandlerFunc[AddFacilityCommand, *dto.Facility]      = (&ArenaHandler{}).AddFacility
	_ commands.HandlerFunc[UpdateFacilityCommand, *dto.Facility]   = (&ArenaHandler{}).UpdateFacility
	_ commands.HandlerFunc[RemoveFacilityCommand, *dto.Lessor]     = (&ArenaHandler{}).RemoveFacility
	_ commands.HandlerFunc[AddCourtCommand, *dto.Court]            = (&ArenaHandler{}).AddCourt
	_ commands.HandlerFunc[UpdateCourtCommand, *dto.Court]         = (&ArenaHandler{}).UpdateCourt
	_ commands.HandlerFunc[RemoveCourtCommand, *dto.Lessor]        = (&ArenaHandler{}).RemoveCourt
	_ queries.HandlerFunc[ListFacilitiesQuery, []dto.Facility]     = (&ArenaQueryHandler{}).ListFacilities
	_ queries.HandlerFunc[ListCourtsQuery, []dto.Court]            = (&ArenaQueryHandler{}).ListCourts
	_ queries.HandlerFunc[AllCourtsQuery, []dto.CourtWithFacility] = (&ArenaQueryHandler{}).AllCourts
	_ queries.HandlerFunc[GetCourtQuery, dto.Court]                = (&ArenaQueryHandler{}).GetCourt
)
