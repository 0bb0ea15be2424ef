package lessors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtly/internal/domain/shared/status"
)

var now = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

func newLessor(t *testing.T) *Lessor {
	t.Helper()
	hours, err := NewOperatingHours("7am", "10pm")
	require.NoError(t, err)
	l, err := Register(RegisterParams{
		ID:              "l-1",
		FirstName:       "Vanna",
		LastName:        "Chan",
		Email:           " Owner@Arena.KH ",
		Phone:           "012000111",
		PasswordHash:    "hash",
		SportCenterName: "Arena",
		Hours:           hours,
		Now:             now,
	})
	require.NoError(t, err)
	return l
}

func TestRegisterStartsPendingAndRecordsEvent(t *testing.T) {
	l := newLessor(t)
	assert.Equal(t, status.Pending, l.Status)
	assert.Equal(t, "owner@arena.kh", l.Email)
	evs := l.PendingEvents()
	require.Len(t, evs, 1)
	assert.Equal(t, "lessor.registered", evs[0].EventName())
}

func TestRegisterRequiresFields(t *testing.T) {
	_, err := Register(RegisterParams{ID: "l-2", FirstName: "A", Now: now})
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestFacilityArenaLifecycle(t *testing.T) {
	l := newLessor(t)

	f, err := l.AddFacility(FacilityParams{ID: "f-1", Name: "Football", Price: 25}, now)
	require.NoError(t, err)
	_, err = l.AddFacility(FacilityParams{ID: "f-2", Name: "Badminton", Price: 8}, now)
	require.NoError(t, err)

	c, err := l.AddCourt(f.ID, CourtParams{ID: "c-1", Name: "Pitch 1", Images: []string{"a.png", " "}}, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png"}, c.Images)

	c, err = l.UpdateCourt(f.ID, "c-1", CourtPatch{AppendImage: "b.png"}, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "b.png"}, c.Images)

	c, err = l.UpdateCourt(f.ID, "c-1", CourtPatch{Images: []string{"z.png"}}, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"z.png"}, c.Images)

	name := "Main pitch"
	c, err = l.UpdateCourt(f.ID, "c-1", CourtPatch{Name: &name}, now)
	require.NoError(t, err)
	assert.Equal(t, "Main pitch", c.Name)

	refs := l.AllCourts()
	require.Len(t, refs, 1)
	assert.Equal(t, "Football", refs[0].FacilityName)

	require.NoError(t, l.RemoveCourt(f.ID, "c-1", now))
	_, err = l.Court(f.ID, "c-1")
	assert.ErrorIs(t, err, ErrCourtNotFound)

	require.NoError(t, l.RemoveFacility("f-1", now))
	require.Len(t, l.Facilities, 1)
	assert.Equal(t, FacilityID("f-2"), l.Facilities[0].ID)
}

func TestFacilityLookupReturnsCopies(t *testing.T) {
	l := newLessor(t)
	_, err := l.AddFacility(FacilityParams{ID: "f-1", Name: "Tennis"}, now)
	require.NoError(t, err)
	_, err = l.AddCourt("f-1", CourtParams{ID: "c-1", Name: "Clay", Images: []string{"x"}}, now)
	require.NoError(t, err)

	f, err := l.Facility("f-1")
	require.NoError(t, err)
	f.Courts[0].Images[0] = "mutated"

	c, err := l.Court("f-1", "c-1")
	require.NoError(t, err)
	assert.Equal(t, "x", c.Images[0])
}

func TestArenaErrors(t *testing.T) {
	l := newLessor(t)
	_, err := l.AddCourt("missing", CourtParams{ID: "c", Name: "x"}, now)
	assert.ErrorIs(t, err, ErrFacilityNotFound)
	_, err = l.AddFacility(FacilityParams{ID: "f", Name: "x", Price: -1}, now)
	assert.ErrorIs(t, err, ErrInvalidPrice)
	assert.ErrorIs(t, l.RemoveFacility("nope", now), ErrFacilityNotFound)
}

func TestOperatingHours(t *testing.T) {
	_, err := NewOperatingHours("07am", "10pm")
	assert.ErrorIs(t, err, ErrInvalidHours)

	h, err := NewOperatingHours("6am", "12am")
	require.NoError(t, err)
	open, close, ok := h.Span()
	require.True(t, ok)
	assert.Equal(t, 6, open)
	assert.Equal(t, 24, close)

	w, err := NewWindow("8am", "9pm")
	require.NoError(t, err)
	assert.True(t, h.Covers(w))

	early, err := NewWindow("5am", "9am")
	require.NoError(t, err)
	assert.False(t, h.Covers(early))
}

func TestApplyProfileIgnoresBlankValues(t *testing.T) {
	l := newLessor(t)
	blank := " "
	name := "Arena Plus"
	avail := true
	l.ApplyProfile(ProfilePatch{FirstName: &blank, SportCenterName: &name, TimeAvailable: &avail}, now)
	assert.Equal(t, "Vanna", l.FirstName)
	assert.Equal(t, "Arena Plus", l.SportCenterName)
	assert.True(t, l.TimeAvailable)
}
