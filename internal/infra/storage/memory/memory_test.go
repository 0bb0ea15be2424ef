package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtly/internal/app/middleware"
	appoutbox "courtly/internal/app/outbox"
	"courtly/internal/app/uow"
	"courtly/internal/domain/accounts"
	domainbooking "courtly/internal/domain/booking"
	domaincomments "courtly/internal/domain/comments"
	domainlessors "courtly/internal/domain/lessors"
	domainpayments "courtly/internal/domain/payments"
	"courtly/internal/domain/reporting"
	"courtly/internal/domain/shared/status"
)

var base = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func newBooking(t *testing.T, id string, date time.Time) *domainbooking.Booking {
	t.Helper()
	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:        domainbooking.BookingID(id),
		UserID:    "u1",
		LessorID:  "l1",
		Facility:  "Tennis",
		Court:     "A",
		Date:      date,
		StartTime: "09:00 am",
		EndTime:   "10:00 am",
		Now:       date,
	})
	require.NoError(t, err)
	return b
}

type captureSink struct {
	got [][]appoutbox.EventRecord
}

func (c *captureSink) Deliver(ctx context.Context, records []appoutbox.EventRecord) {
	c.got = append(c.got, records)
}

func TestBookingRepositoryFindOrdersAndPages(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()
	for i, id := range []string{"b1", "b2", "b3"} {
		require.NoError(t, repo.Save(ctx, newBooking(t, id, base.AddDate(0, 0, i))))
	}

	all, err := repo.Find(ctx, domainbooking.Filter{LessorID: "l1"})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, domainbooking.BookingID("b3"), all[0].ID)
	assert.Equal(t, domainbooking.BookingID("b1"), all[2].ID)

	page, err := repo.Find(ctx, domainbooking.Filter{LessorID: "l1", Offset: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, domainbooking.BookingID("b1"), page[0].ID)

	n, err := repo.Count(ctx, domainbooking.Filter{LessorID: "l1", From: base.AddDate(0, 0, 1)})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestBookingRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()
	require.NoError(t, repo.Save(ctx, newBooking(t, "b1", base)))

	got, err := repo.ByID(ctx, "b1")
	require.NoError(t, err)
	got.Status = status.Approved

	again, err := repo.ByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, status.Pending, again.Status)
	assert.Empty(t, again.PendingEvents())

	_, err = repo.ByID(ctx, "missing")
	assert.ErrorIs(t, err, domainbooking.ErrBookingNotFound)
}

func TestLessorRepositoryUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewLessorRepository()
	first := &domainlessors.Lessor{ID: "l1", Email: "a@x.io", Phone: "1", CreatedAt: base}
	require.NoError(t, repo.Save(ctx, first))

	err := repo.Save(ctx, &domainlessors.Lessor{ID: "l2", Email: "a@x.io", Phone: "2"})
	assert.ErrorIs(t, err, domainlessors.ErrEmailTaken)
	err = repo.Save(ctx, &domainlessors.Lessor{ID: "l2", Email: "b@x.io", Phone: "1"})
	assert.ErrorIs(t, err, domainlessors.ErrPhoneTaken)

	got, err := repo.ByEmail(ctx, " A@X.io ")
	require.NoError(t, err)
	assert.Equal(t, domainlessors.LessorID("l1"), got.ID)

	exists, err := repo.ExistsByPhone(ctx, "1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestLessorRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewLessorRepository()
	require.NoError(t, repo.Save(ctx, &domainlessors.Lessor{ID: "l1", Email: "a@x.io", Phone: "1"}))

	require.NoError(t, repo.Delete(ctx, "l1"))
	_, err := repo.ByID(ctx, "l1")
	assert.ErrorIs(t, err, domainlessors.ErrLessorNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "l1"), domainlessors.ErrLessorNotFound)

	require.NoError(t, repo.Save(ctx, &domainlessors.Lessor{ID: "l2", Email: "a@x.io", Phone: "1"}))
}

func TestAccountRepositoryListByRole(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository()
	require.NoError(t, repo.Save(ctx, &accounts.Account{ID: "u2", Role: accounts.RoleUser, Email: "b@x.io", CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, repo.Save(ctx, &accounts.Account{ID: "u1", Role: accounts.RoleUser, Email: "a@x.io", CreatedAt: base}))
	require.NoError(t, repo.Save(ctx, &accounts.Account{ID: "m1", Role: accounts.RoleModerator, Email: "m@x.io", CreatedAt: base}))

	users, err := repo.List(ctx, accounts.RoleUser)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, accounts.ID("u1"), users[0].ID)
	assert.Equal(t, accounts.ID("u2"), users[1].ID)
}

func TestAccountRepositoryRoleScopedLookup(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository()
	require.NoError(t, repo.Save(ctx, &accounts.Account{ID: "u1", Role: accounts.RoleUser, Email: "a@x.io"}))

	_, err := repo.ByEmail(ctx, accounts.RoleModerator, "a@x.io")
	assert.ErrorIs(t, err, accounts.ErrModNotFound)
	_, err = repo.ByID(ctx, "nope")
	assert.ErrorIs(t, err, accounts.ErrNotFound)

	err = repo.Save(ctx, &accounts.Account{ID: "u2", Role: accounts.RoleUser, Email: "a@x.io"})
	assert.ErrorIs(t, err, accounts.ErrEmailTaken)
	require.NoError(t, repo.Save(ctx, &accounts.Account{ID: "m1", Role: accounts.RoleModerator, Email: "a@x.io"}))
}

func TestUnitStagesOutboxUntilCommit(t *testing.T) {
	ctx := context.Background()
	sink := &captureSink{}
	box := NewOutbox(sink)
	store := NewStore(box)

	unit, err := store.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	require.NoError(t, unit.Outbox().Add(ctx, appoutbox.EventRecord{ID: "e1", Name: "booking.created"}))
	assert.Empty(t, box.Pending())
	require.NoError(t, unit.Commit(ctx))
	assert.Len(t, box.Pending(), 1)

	rolled, err := store.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	require.NoError(t, rolled.Outbox().Add(ctx, appoutbox.EventRecord{ID: "e2"}))
	require.NoError(t, rolled.Rollback(ctx))

	require.NoError(t, box.Flush(ctx))
	require.Len(t, sink.got, 1)
	assert.Equal(t, "e1", sink.got[0][0].ID)
	assert.Empty(t, box.Pending())
}

func TestFactoryRequiresRepositories(t *testing.T) {
	_, err := Factory{}.Begin(context.Background(), uow.TxOptions{})
	assert.ErrorIs(t, err, ErrFactoryMisconfigured)
}

func TestIdempotencyStoreExpires(t *testing.T) {
	ctx := context.Background()
	now := base
	store := NewIdempotencyStore(time.Hour)
	store.Now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, middleware.IdempotencyRecord{Key: "k", Payload: []byte("1"), OccurredAt: base}))
	_, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)

	now = base.Add(2 * time.Hour)
	_, found, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestReportingReader(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewOutbox(nil))
	reader := store.Reporting()

	approved := &domainlessors.Lessor{ID: "l1", Email: "l1@x.io", Phone: "1", SportCenterName: "Alpha", Status: status.Approved, CreatedAt: base}
	pending := &domainlessors.Lessor{ID: "l2", Email: "l2@x.io", Phone: "2", SportCenterName: "Beta", Status: status.Pending, CreatedAt: base}
	require.NoError(t, store.LessorRepo.Save(ctx, approved))
	require.NoError(t, store.LessorRepo.Save(ctx, pending))

	for i, c := range []struct {
		rating int
		st     status.Status
	}{{5, status.Approved}, {5, status.Approved}, {4, status.Approved}, {1, status.Rejected}, {2, status.Pending}} {
		require.NoError(t, store.CommentRepo.Save(ctx, &domaincomments.Comment{
			ID:        domaincomments.CommentID(string(rune('a' + i))),
			LessorID:  "l1",
			Rating:    c.rating,
			Status:    c.st,
			CreatedAt: base,
		}))
	}

	ranked, err := reader.RankLessors(ctx, reporting.RankingFilter{})
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, "l1", ranked[0].LessorID)
	assert.InDelta(t, 4.7, ranked[0].AverageRating, 1e-9)
	assert.Equal(t, 3, ranked[0].RatingCount)

	stars, err := reader.StarCounts(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, reporting.StarCounts{0, 0, 0, 1, 2}, stars)

	require.NoError(t, store.BookingRepo.Save(ctx, newBooking(t, "b1", base)))
	require.NoError(t, store.BookingRepo.Save(ctx, newBooking(t, "b2", base.AddDate(0, 1, 0))))
	months, err := reader.MonthlyCounts(ctx, reporting.MonthlySelector{Collection: reporting.CollectionBookings, LessorID: "l1"})
	require.NoError(t, err)
	assert.Equal(t, []reporting.MonthlyCount{{Year: 2024, Month: 3, Count: 1}, {Year: 2024, Month: 4, Count: 1}}, months)

	require.NoError(t, store.AccountRepo.Save(ctx, &accounts.Account{ID: "u1", Role: accounts.RoleUser, Email: "u@x.io", CreatedAt: base}))
	users, err := reader.MonthlyCounts(ctx, reporting.MonthlySelector{Collection: reporting.CollectionUsers})
	require.NoError(t, err)
	assert.Equal(t, []reporting.MonthlyCount{{Year: 2024, Month: 3, Count: 1}}, users)

	for _, p := range []*domainpayments.Payment{
		{ID: "p1", LessorID: "l1", Currency: domainpayments.USD, Amount: 10, Status: domainpayments.Paid, CreatedAt: base},
		{ID: "p2", LessorID: "l1", Currency: domainpayments.USD, Amount: 5, Status: domainpayments.Unpaid, CreatedAt: base},
	} {
		require.NoError(t, store.PaymentRepo.Save(ctx, p))
	}
	totals, err := reader.IncomeByCurrency(ctx, "l1")
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.InDelta(t, 10.0, totals[0].Amount, 1e-9)
	assert.Equal(t, 1, totals[0].Transactions)
}
