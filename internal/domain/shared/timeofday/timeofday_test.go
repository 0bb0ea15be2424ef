package timeofday

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValid(t *testing.T) {
	valid := []string{"02:30 pm", "12:00 AM", "09:05 am", "11:59 Pm"}
	for _, v := range valid {
		assert.True(t, IsValid(v), v)
	}
	invalid := []string{"2:30 pm", "13:00 pm", "00:10 am", "09:60 am", "09:00am", "09:00", "", "09:00 pm extra"}
	for _, v := range invalid {
		assert.False(t, IsValid(v), v)
	}
}

func TestParseConvertsTo24Hour(t *testing.T) {
	cases := map[string]Clock{
		"12:00 am": {Hour: 0, Minute: 0},
		"12:15 pm": {Hour: 12, Minute: 15},
		"01:45 pm": {Hour: 13, Minute: 45},
		"11:30 am": {Hour: 11, Minute: 30},
	}
	for raw, want := range cases {
		got, err := Parse(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
		assert.Equal(t, raw, got.String())
	}
}

func TestIsAfterComparesHourThenMinute(t *testing.T) {
	assert.True(t, IsAfter("09:00 am", "10:30 am"))
	assert.True(t, IsAfter("09:00 am", "09:01 am"))
	assert.False(t, IsAfter("09:00 am", "08:00 am"))
	assert.False(t, IsAfter("09:00 am", "09:00 am"))
	assert.True(t, IsAfter("11:00 am", "12:00 pm"))
}

func TestIsAfterDoesNotRollOverMidnight(t *testing.T) {
	assert.False(t, IsAfter("11:30 pm", "12:15 am"))
}

func TestIsAfterMatchesLexicographicOrder(t *testing.T) {
	labels := []string{"12:00 am", "12:59 am", "01:00 am", "06:30 am", "11:59 am", "12:00 pm", "12:01 pm", "05:15 pm", "11:59 pm"}
	for _, a := range labels {
		for _, b := range labels {
			ca, cb := MustParse(a), MustParse(b)
			want := cb.Hour > ca.Hour || (cb.Hour == ca.Hour && cb.Minute > ca.Minute)
			assert.Equal(t, want, IsAfter(a, b), "%s -> %s", a, b)
		}
	}
}

func TestIsAfterRejectsMalformedInput(t *testing.T) {
	assert.False(t, IsAfter("9am", "10:00 am"))
	assert.False(t, IsAfter("09:00 am", "ten"))
}
