package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPointValidatesRange(t *testing.T) {
	_, err := NewPoint(104.92, 11.56)
	require.NoError(t, err)

	_, err = NewPoint(181, 0)
	assert.ErrorIs(t, err, ErrInvalidCoordinates)
	_, err = NewPoint(0, -91)
	assert.ErrorIs(t, err, ErrInvalidCoordinates)
}

func TestDistanceMeters(t *testing.T) {
	p := Point{Lng: 104.9282, Lat: 11.5564}
	assert.InDelta(t, 0, DistanceMeters(p, p), 1e-9)

	// one degree of latitude is roughly 111 km
	north := Point{Lng: p.Lng, Lat: p.Lat + 1}
	assert.InDelta(t, 111_300, DistanceMeters(p, north), 500)
	assert.InDelta(t, DistanceMeters(p, north), DistanceMeters(north, p), 1e-6)
}
