package geo

import (
	"math"

	"courtly/internal/domain/shared/errs"
)

var ErrInvalidCoordinates = errs.Validation("Longitude must be within [-180, 180] and latitude within [-90, 90]")

const earthRadiusMeters = 6378100.0

// Point is a GeoJSON-ordered coordinate pair.
type Point struct {
	Lng float64
	Lat float64
}

func NewPoint(lng, lat float64) (Point, error) {
	if math.IsNaN(lng) || math.IsNaN(lat) || lng < -180 || lng > 180 || lat < -90 || lat > 90 {
		return Point{}, ErrInvalidCoordinates
	}
	return Point{Lng: lng, Lat: lat}, nil
}

// DistanceMeters is the great-circle distance between two points.
func DistanceMeters(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}
