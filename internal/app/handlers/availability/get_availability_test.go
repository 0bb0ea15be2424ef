package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtly/internal/domain/accounts"
	domainbooking "courtly/internal/domain/booking"
	"courtly/internal/domain/lessors"
	"courtly/internal/domain/shared/status"
	"courtly/internal/infra/storage/memory"
)

var now = time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

func seed(t *testing.T) memory.Factory {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore(memory.NewOutbox(nil))

	l, err := lessors.Register(lessors.RegisterParams{
		ID: "l1", FirstName: "Ana", LastName: "Ruiz", Email: "ana@club.test",
		Phone: "555-0100", PasswordHash: "hash", SportCenterName: "Club Norte", Now: now,
	})
	require.NoError(t, err)
	require.NoError(t, store.LessorRepo.Save(ctx, l))

	u, err := accounts.New(accounts.CreateParams{ID: "u1", Role: accounts.RoleUser, Name: "Luis", Email: "luis@mail.test", PasswordHash: "hash", Now: now})
	require.NoError(t, err)
	require.NoError(t, store.AccountRepo.Save(ctx, u))

	add := func(id, court, start, end string, date time.Time, outside *domainbooking.OutsideUser) {
		userID := "u1"
		if outside != nil {
			userID = ""
		}
		b, err := domainbooking.NewBooking(domainbooking.CreateParams{
			ID: domainbooking.BookingID(id), UserID: userID, OutsideUser: outside, LessorID: "l1",
			Facility: "Tennis", Court: court, Date: date, StartTime: start, EndTime: end, Now: now,
		})
		require.NoError(t, err)
		require.NoError(t, store.BookingRepo.Save(ctx, b))
	}
	add("late", "A", "05:00 pm", "06:00 pm", now, nil)
	add("early", "A", "08:00 am", "09:00 am", now, &domainbooking.OutsideUser{Name: "Walk In"})
	add("other-court", "B", "10:00 am", "11:00 am", now, nil)
	add("tomorrow", "A", "10:00 am", "11:00 am", now.AddDate(0, 0, 1), nil)
	return store
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-05-20")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDate("20/05/2024")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestGetAvailabilityListsDaySlotsInStartOrder(t *testing.T) {
	store := seed(t)
	h := &GetAvailabilityHandler{UoWFactory: store, Clock: func() time.Time { return now }}

	slots, err := h.Handle(context.Background(), GetAvailabilityQuery{LessorID: "l1", Facility: "Tennis", Court: "A", Date: now})
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "early", slots[0].BookingID)
	assert.Equal(t, "Walk In", slots[0].Occupant)
	assert.Equal(t, "late", slots[1].BookingID)
	assert.Equal(t, "Luis", slots[1].Occupant)

	all, err := h.Handle(context.Background(), GetAvailabilityQuery{LessorID: "l1", Facility: "Tennis", Date: now})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGetAvailabilityExpiresYesterday(t *testing.T) {
	store := seed(t)
	later := now.AddDate(0, 0, 1)
	h := &GetAvailabilityHandler{UoWFactory: store, Clock: func() time.Time { return later }}

	slots, err := h.Handle(context.Background(), GetAvailabilityQuery{LessorID: "l1", Facility: "Tennis", Date: now})
	require.NoError(t, err)
	require.Len(t, slots, 3)
	for _, s := range slots {
		assert.Equal(t, string(status.Rejected), s.Status)
	}
}

func TestGetAvailabilityValidation(t *testing.T) {
	h := &GetAvailabilityHandler{UoWFactory: seed(t)}

	_, err := h.Handle(context.Background(), GetAvailabilityQuery{LessorID: "l1", Date: now})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = h.Handle(context.Background(), GetAvailabilityQuery{LessorID: "nobody", Facility: "Tennis", Date: now})
	assert.ErrorIs(t, err, lessors.ErrLessorNotFound)
}

func TestGetAvailabilityKeepsBookingOrderForTies(t *testing.T) {
	ctx := context.Background()
	store := seed(t)
	for i, name := range []string{"first", "second", "third"} {
		b, err := domainbooking.NewBooking(domainbooking.CreateParams{
			ID: domainbooking.BookingID("z-" + name), OutsideUser: &domainbooking.OutsideUser{Name: name}, LessorID: "l1",
			Facility: "Tennis", Court: "C", Date: now, StartTime: "09:00 AM", EndTime: "10:00 AM",
			Now: now.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
		require.NoError(t, store.BookingRepo.Save(ctx, b))
	}
	h := &GetAvailabilityHandler{UoWFactory: store, Clock: func() time.Time { return now }}

	slots, err := h.Handle(ctx, GetAvailabilityQuery{LessorID: "l1", Facility: "Tennis", Court: "C", Date: now})
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, []string{"first", "second", "third"}, []string{slots[0].Occupant, slots[1].Occupant, slots[2].Occupant})
}

func TestGetAvailabilityEmptyDay(t *testing.T) {
	h := &GetAvailabilityHandler{UoWFactory: seed(t), Clock: func() time.Time { return now }}

	slots, err := h.Handle(context.Background(), GetAvailabilityQuery{LessorID: "l1", Facility: "Tennis", Date: now.AddDate(0, 0, 5)})
	require.NoError(t, err)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}
