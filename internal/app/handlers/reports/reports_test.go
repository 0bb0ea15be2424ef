package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authsvc "courtly/internal/app/services/auth"
	domaincomments "courtly/internal/domain/comments"
	"courtly/internal/domain/lessors"
	domainpayments "courtly/internal/domain/payments"
	"courtly/internal/domain/reporting"
	"courtly/internal/domain/shared/status"
	"courtly/internal/infra/storage/memory"
)

var now = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func newHandler(t *testing.T) (*Handler, memory.Factory) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore(memory.NewOutbox(nil))
	for _, id := range []string{"l1", "l2"} {
		l, err := lessors.Register(lessors.RegisterParams{
			ID: lessors.LessorID(id), FirstName: "Ana", LastName: "Ruiz", Email: id + "@club.test",
			Phone: "555-" + id, PasswordHash: "hash", SportCenterName: "Club " + id, Now: now,
		})
		require.NoError(t, err)
		require.NoError(t, l.SetStatus(status.Approved, now))
		require.NoError(t, store.LessorRepo.Save(ctx, l))
	}
	return &Handler{UoWFactory: store, Reports: store.Reporting()}, store
}

func pay(t *testing.T, store memory.Factory, id, lessorID, currency string, amount float64, st string) {
	t.Helper()
	p, err := domainpayments.Record(domainpayments.RecordParams{
		ID: domainpayments.PaymentID(id), UserID: "u1", LessorID: lessorID, BookingID: "b1",
		Currency: currency, Amount: amount, Status: st, Now: now,
	})
	require.NoError(t, err)
	require.NoError(t, store.PaymentRepo.Save(context.Background(), p))
}

func comment(t *testing.T, store memory.Factory, id, lessorID string, rating int, st status.Status) {
	t.Helper()
	c, err := domaincomments.Post(domaincomments.PostParams{
		ID: domaincomments.CommentID(id), AuthorID: "u1", LessorID: lessorID, Text: "review", Rating: rating, Now: now,
	})
	require.NoError(t, err)
	require.NoError(t, c.SetStatus(st, now))
	require.NoError(t, store.CommentRepo.Save(context.Background(), c))
}

func TestIncomeConvertsRielAndScopesToLessor(t *testing.T) {
	h, store := newHandler(t)
	pay(t, store, "p1", "l1", "khr", 4000, "paid")
	pay(t, store, "p2", "l1", "usd", 2, "paid")
	pay(t, store, "p3", "l1", "usd", 50, "unpaid")
	pay(t, store, "p4", "l2", "usd", 75, "paid")

	got, err := h.Income(context.Background(), LessorIncomeQuery{LessorEmail: "l1@club.test"})
	require.NoError(t, err)
	assert.InDelta(t, 3.00, got.TotalAmountUSD, 1e-9)
	assert.Equal(t, 2, got.TotalTransactions)
	assert.InDelta(t, 1.00, got.Breakdown.KHR.AmountUSD, 1e-9)
	assert.Equal(t, 1, got.Breakdown.KHR.Transactions)
	assert.InDelta(t, 2.00, got.Breakdown.USD.Amount, 1e-9)
	assert.Equal(t, 1, got.Breakdown.USD.Transactions)

	_, err = h.Income(context.Background(), LessorIncomeQuery{LessorEmail: "nobody@club.test"})
	assert.ErrorIs(t, err, lessors.ErrLessorNotFound)
}

func TestRankUsesApprovedCommentsOnly(t *testing.T) {
	h, store := newHandler(t)
	comment(t, store, "c1", "l1", 5, status.Approved)
	comment(t, store, "c2", "l1", 5, status.Approved)
	comment(t, store, "c3", "l1", 4, status.Approved)
	comment(t, store, "c4", "l1", 1, status.Rejected)
	comment(t, store, "c5", "l2", 2, status.Pending)

	ranked, err := h.Rank(context.Background(), RankLessorsQuery{})
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "l1", ranked[0].ID)
	assert.InDelta(t, 4.7, ranked[0].AverageRating, 1e-9)
	assert.Equal(t, 3, ranked[0].RatingCount)
	assert.Equal(t, "l2", ranked[1].ID)
	assert.Zero(t, ranked[1].RatingCount)

	summary, err := h.Rating(context.Background(), RatingSummaryQuery{LessorID: "l1"})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalRating)
	assert.Zero(t, summary.Counts["countRating_1"])
}

func TestMonthlyCountsRejectsUnknownCollection(t *testing.T) {
	h, _ := newHandler(t)
	_, err := h.Monthly(context.Background(), MonthlyCountsQuery{Collection: "payments", LessorEmail: "l1@club.test"})
	assert.ErrorIs(t, err, reporting.ErrInvalidCollection)
}

func TestMonthlyCountsRoles(t *testing.T) {
	assert.Equal(t, []string{authsvc.RoleModerator}, MonthlyCountsQuery{Collection: "users"}.AllowedRoles())
	assert.Equal(t, []string{authsvc.RoleLessor}, MonthlyCountsQuery{Collection: "bookings"}.AllowedRoles())
	assert.Equal(t, []string{authsvc.RoleLessor}, LessorIncomeQuery{}.AllowedRoles())
}
