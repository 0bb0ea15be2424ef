package payments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordDefaults(t *testing.T) {
	p, err := Record(RecordParams{ID: "p-1", UserID: "u", LessorID: "l", BookingID: "b", Amount: 4000, Now: time.Now()})
	require.NoError(t, err)
	assert.Equal(t, KHR, p.Currency)
	assert.Equal(t, Paid, p.Status)
}

func TestRecordValidation(t *testing.T) {
	base := RecordParams{ID: "p-1", UserID: "u", LessorID: "l", BookingID: "b", Amount: 2, Currency: "USD", Now: time.Now()}

	p, err := Record(base)
	require.NoError(t, err)
	assert.Equal(t, USD, p.Currency)

	bad := base
	bad.Currency = "eur"
	_, err = Record(bad)
	assert.ErrorIs(t, err, ErrInvalidCurrency)

	bad = base
	bad.Amount = 0
	_, err = Record(bad)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	bad = base
	bad.Status = "refunded"
	_, err = Record(bad)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	bad = base
	bad.BookingID = ""
	_, err = Record(bad)
	assert.ErrorIs(t, err, ErrMissingFields)
}
