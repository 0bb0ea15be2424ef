package memory

import (
	"context"
	"time"

	"courtly/internal/domain/accounts"
	domaincomments "courtly/internal/domain/comments"
	domainlessors "courtly/internal/domain/lessors"
	"courtly/internal/domain/reporting"
	"courtly/internal/domain/shared/status"
)

// ReportingReader computes report groups by scanning the in-memory stores.
type ReportingReader struct {
	Lessors  *LessorRepository
	Comments *CommentRepository
	Bookings *BookingRepository
	Accounts *AccountRepository
	Payments *PaymentRepository
}

func (r *ReportingReader) RankLessors(ctx context.Context, f reporting.RankingFilter) ([]reporting.RankedLessor, error) {
	list, err := r.Lessors.List(ctx, domainlessors.ListFilter{Status: status.Approved})
	if err != nil {
		return nil, err
	}
	approved, err := r.Comments.List(ctx, domaincomments.Filter{Status: status.Approved})
	if err != nil {
		return nil, err
	}
	ratings := make(map[string][]int)
	for _, c := range approved {
		ratings[c.LessorID] = append(ratings[c.LessorID], c.Rating)
	}
	cands := make([]reporting.Candidate, 0, len(list))
	for _, l := range list {
		cands = append(cands, reporting.Candidate{Lessor: l, Ratings: ratings[string(l.ID)]})
	}
	return reporting.Rank(cands, f), nil
}

func (r *ReportingReader) MonthlyCounts(ctx context.Context, sel reporting.MonthlySelector) ([]reporting.MonthlyCount, error) {
	var stamps []time.Time
	switch sel.Collection {
	case reporting.CollectionBookings:
		for _, b := range r.Bookings.All() {
			if sel.LessorID != "" && b.LessorID != sel.LessorID {
				continue
			}
			stamps = append(stamps, b.CreatedAt)
		}
	case reporting.CollectionUsers:
		for _, a := range r.Accounts.Created(accounts.RoleUser) {
			stamps = append(stamps, a.CreatedAt)
		}
	default:
		return nil, reporting.ErrInvalidCollection
	}
	return reporting.GroupByMonth(stamps), nil
}

func (r *ReportingReader) IncomeByCurrency(ctx context.Context, lessorID string) ([]reporting.CurrencyTotal, error) {
	list, err := r.Payments.ListByLessor(ctx, lessorID)
	if err != nil {
		return nil, err
	}
	return reporting.SumPaid(list), nil
}

func (r *ReportingReader) StarCounts(ctx context.Context, lessorID string) (reporting.StarCounts, error) {
	list, err := r.Comments.List(ctx, domaincomments.Filter{LessorID: lessorID, Status: status.Approved})
	if err != nil {
		return reporting.StarCounts{}, err
	}
	values := make([]int, 0, len(list))
	for _, c := range list {
		values = append(values, c.Rating)
	}
	return reporting.CountStars(values), nil
}

var _ reporting.Reader = (*ReportingReader)(nil)
