// Package reporting holds the read-side aggregates: lessor ranking, monthly
// counts, income totals and rating summaries. Store adapters compute the raw
// groups; the arithmetic that must match across adapters lives here.
package reporting

import (
	"context"
	"math"
	"strings"

	"courtly/internal/domain/shared/errs"
)

var (
	ErrInvalidCollection = errs.Validation("Collection must be bookings or users")
	ErrInvalidRating     = errs.Validation("Rating filter values must be between 0 and 5")
	ErrInvalidDistance   = errs.Validation("Max distance must not be negative")
	ErrNearestNeedsPoint = errs.Validation("Nearest lookup requires lng and lat")
	ErrNoNearbyLessor    = errs.NotFound("No sport center found near this location")
)

// Reader is implemented by every storage backend.
type Reader interface {
	RankLessors(ctx context.Context, f RankingFilter) ([]RankedLessor, error)
	MonthlyCounts(ctx context.Context, sel MonthlySelector) ([]MonthlyCount, error)
	IncomeByCurrency(ctx context.Context, lessorID string) ([]CurrencyTotal, error)
	StarCounts(ctx context.Context, lessorID string) (StarCounts, error)
}

// RoundHalfUp rounds x to the given number of decimal places, ties away from
// zero for positive inputs.
func RoundHalfUp(x float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Floor(x*scale+0.5) / scale
}

// Mean is the arithmetic mean, zero for an empty set.
func Mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

type Collection string

const (
	CollectionBookings Collection = "bookings"
	CollectionUsers    Collection = "users"
)

func ParseCollection(raw string) (Collection, error) {
	switch c := Collection(strings.ToLower(strings.TrimSpace(raw))); c {
	case CollectionBookings, CollectionUsers:
		return c, nil
	}
	return "", ErrInvalidCollection
}
