package reports

import (
	"context"
	"strings"

	"courtly/internal/app/dto"
	handlersupport "courtly/internal/app/handlers/support"
	"courtly/internal/app/queries"
	"courtly/internal/app/uow"
	"courtly/internal/domain/lessors"
	"courtly/internal/domain/reporting"
	"courtly/internal/domain/shared/errs"
	"courtly/internal/domain/shared/geo"
)

const (
	rankLessorsKey   = "report.ranking"
	nearestLessorKey = "report.nearest"
	monthlyCountsKey = "report.monthly"
	lessorIncomeKey  = "report.income"
	ratingSummaryKey = "report.rating"
)

// Handler answers the aggregate reports. Aggregations run against the
// reporting Reader outside any unit of work; the unit is only used to
// resolve lessors.
type Handler struct {
	UoWFactory uow.UoWFactory
	Reports    reporting.Reader
}

type RankLessorsQuery struct {
	Filter reporting.RankingFilter
}

func (q RankLessorsQuery) Key() string { return rankLessorsKey }

func (q RankLessorsQuery) Validate() error { return q.Filter.Validate() }

func (h *Handler) Rank(ctx context.Context, q RankLessorsQuery) ([]dto.RankedLessor, error) {
	if err := q.Filter.Validate(); err != nil {
		return nil, err
	}
	ranked, err := h.Reports.RankLessors(ctx, q.Filter)
	if err != nil {
		return nil, errs.Computation(err)
	}
	return dto.MapRanked(ranked), nil
}

// NearestLessorQuery finds the closest approved lessor to a point.
type NearestLessorQuery struct {
	Lng float64
	Lat float64
}

func (q NearestLessorQuery) Key() string { return nearestLessorKey }

func (q NearestLessorQuery) Validate() error {
	_, err := geo.NewPoint(q.Lng, q.Lat)
	return err
}

func (h *Handler) Nearest(ctx context.Context, q NearestLessorQuery) (dto.RankedLessor, error) {
	point, err := geo.NewPoint(q.Lng, q.Lat)
	if err != nil {
		return dto.RankedLessor{}, err
	}
	ranked, err := h.Reports.RankLessors(ctx, reporting.RankingFilter{Near: &point, NearestOnly: true})
	if err != nil {
		return dto.RankedLessor{}, errs.Computation(err)
	}
	if len(ranked) == 0 {
		return dto.RankedLessor{}, reporting.ErrNoNearbyLessor
	}
	return dto.MapRanked(ranked)[0], nil
}

// MonthlyCountsQuery counts documents per month. Booking counts are scoped
// to the lessor identified by LessorEmail.
type MonthlyCountsQuery struct {
	Collection  string
	LessorEmail string
}

func (q MonthlyCountsQuery) Key() string { return monthlyCountsKey }

// AllowedRoles lets lessors count their own bookings and moderators count
// user sign-ups.
func (q MonthlyCountsQuery) AllowedRoles() []string {
	if c, err := reporting.ParseCollection(q.Collection); err == nil && c == reporting.CollectionUsers {
		return moderatorOnly
	}
	return lessorOnly
}

func (q MonthlyCountsQuery) Validate() error {
	_, err := reporting.ParseCollection(q.Collection)
	return err
}

func (h *Handler) Monthly(ctx context.Context, q MonthlyCountsQuery) (dto.MonthlyReport, error) {
	collection, err := reporting.ParseCollection(q.Collection)
	if err != nil {
		return dto.MonthlyReport{}, err
	}
	sel := reporting.MonthlySelector{Collection: collection}
	if collection == reporting.CollectionBookings {
		l, err := h.lessorByEmail(ctx, q.LessorEmail)
		if err != nil {
			return dto.MonthlyReport{}, err
		}
		sel.LessorID = string(l.ID)
	}
	counts, err := h.Reports.MonthlyCounts(ctx, sel)
	if err != nil {
		return dto.MonthlyReport{}, errs.Computation(err)
	}
	return dto.MapMonthly(collection, counts), nil
}

type LessorIncomeQuery struct {
	LessorEmail string
}

func (q LessorIncomeQuery) Key() string { return lessorIncomeKey }

func (q LessorIncomeQuery) AllowedRoles() []string { return lessorOnly }

func (h *Handler) Income(ctx context.Context, q LessorIncomeQuery) (dto.Income, error) {
	l, err := h.lessorByEmail(ctx, q.LessorEmail)
	if err != nil {
		return dto.Income{}, err
	}
	totals, err := h.Reports.IncomeByCurrency(ctx, string(l.ID))
	if err != nil {
		return dto.Income{}, errs.Computation(err)
	}
	return dto.MapIncome(reporting.Income(totals)), nil
}

type RatingSummaryQuery struct {
	LessorID string
}

func (q RatingSummaryQuery) Key() string { return ratingSummaryKey }

func (h *Handler) Rating(ctx context.Context, q RatingSummaryQuery) (dto.RatingSummary, error) {
	id := strings.TrimSpace(q.LessorID)
	if err := h.lessorExists(ctx, id); err != nil {
		return dto.RatingSummary{}, err
	}
	counts, err := h.Reports.StarCounts(ctx, id)
	if err != nil {
		return dto.RatingSummary{}, errs.Computation(err)
	}
	return dto.MapRatingSummary(reporting.Summarize(id, counts)), nil
}

func (h *Handler) lessorByEmail(ctx context.Context, email string) (*lessors.Lessor, error) {
	email = lessors.NormalizeEmail(email)
	if email == "" {
		return nil, lessors.ErrLessorNotFound
	}
	unit, ctx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	return unit.Lessors().ByEmail(ctx, email)
}

func (h *Handler) lessorExists(ctx context.Context, id string) error {
	if id == "" {
		return lessors.ErrLessorNotFound
	}
	unit, ctx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}
	_, err = unit.Lessors().ByID(ctx, lessors.LessorID(id))
	return err
}

var (
	_ queries.HandlerFunc[RankLessorsQuery, []dto.RankedLessor]  = (&Handler{}).Rank
	_ queries.HandlerFunc[NearestLessorQuery, dto.RankedLessor]  = (&Handler{}).Nearest
	_ queries.HandlerFunc[MonthlyCountsQuery, dto.MonthlyReport] = (&Handler{}).Monthly
	_ queries.HandlerFunc[LessorIncomeQuery, dto.Income]         = (&Handler{}).Income
	_ queries.HandlerFunc[RatingSummaryQuery, dto.RatingSummary] = (&Handler{}).Rating
)
