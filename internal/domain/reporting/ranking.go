package reporting

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"courtly/internal/domain/lessors"
	"courtly/internal/domain/shared/geo"
	"courtly/internal/domain/shared/status"
)

// RankingFilter is a set of optional clauses combined with AND.
type RankingFilter struct {
	Ratings           []int
	Name              string
	Window            *lessors.Window
	TimeAvailable     *bool
	Near              *geo.Point
	MaxDistanceMeters float64
	NearestOnly       bool
}

func (f RankingFilter) Validate() error {
	for _, r := range f.Ratings {
		if r < 0 || r > 5 {
			return ErrInvalidRating
		}
	}
	if f.MaxDistanceMeters < 0 {
		return ErrInvalidDistance
	}
	if f.NearestOnly && f.Near == nil {
		return ErrNearestNeedsPoint
	}
	return nil
}

type RankedLessor struct {
	LessorID        string
	SportCenterName string
	FirstName       string
	LastName        string
	Logo            string
	Address         lessors.Address
	Hours           lessors.OperatingHours
	Location        *geo.Point
	TimeAvailable   bool
	AverageRating   float64
	RatingCount     int
	DistanceMeters  *float64
}

// Candidate is a lessor together with its approved rating values.
type Candidate struct {
	Lessor  *lessors.Lessor
	Ratings []int
}

// Rank applies the filter to candidates and orders the survivors by rounded
// mean rating, then distance, then id. Non-approved lessors never rank.
func Rank(cands []Candidate, f RankingFilter) []RankedLessor {
	buckets := map[int]bool{}
	for _, r := range f.Ratings {
		buckets[r] = true
	}
	name := strings.ToLower(strings.TrimSpace(f.Name))

	out := make([]RankedLessor, 0, len(cands))
	for _, c := range cands {
		l := c.Lessor
		if l == nil || l.Status != status.Approved {
			continue
		}
		mean := Mean(c.Ratings)
		if len(buckets) > 0 && !buckets[int(math.Floor(mean))] {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(l.SportCenterName), name) {
			continue
		}
		if f.Window != nil && !l.Hours.Covers(*f.Window) {
			continue
		}
		if f.TimeAvailable != nil && l.TimeAvailable != *f.TimeAvailable {
			continue
		}
		var distance *float64
		if f.Near != nil {
			if l.Location == nil {
				continue
			}
			d := geo.DistanceMeters(*f.Near, *l.Location)
			if f.MaxDistanceMeters > 0 && d > f.MaxDistanceMeters {
				continue
			}
			distance = &d
		}
		out = append(out, rankedFrom(l, mean, len(c.Ratings), distance))
	}

	if f.NearestOnly {
		slices.SortStableFunc(out, func(a, b RankedLessor) int {
			if c := compareDistance(a.DistanceMeters, b.DistanceMeters); c != 0 {
				return c
			}
			return cmp.Compare(a.LessorID, b.LessorID)
		})
		if len(out) > 1 {
			out = out[:1]
		}
		return out
	}
	slices.SortStableFunc(out, func(a, b RankedLessor) int {
		if c := cmp.Compare(b.AverageRating, a.AverageRating); c != 0 {
			return c
		}
		if c := compareDistance(a.DistanceMeters, b.DistanceMeters); c != 0 {
			return c
		}
		return cmp.Compare(a.LessorID, b.LessorID)
	})
	return out
}

func rankedFrom(l *lessors.Lessor, mean float64, count int, distance *float64) RankedLessor {
	r := RankedLessor{
		LessorID:        string(l.ID),
		SportCenterName: l.SportCenterName,
		FirstName:       l.FirstName,
		LastName:        l.LastName,
		Logo:            l.Logo,
		Address:         l.Address,
		Hours:           l.Hours,
		TimeAvailable:   l.TimeAvailable,
		AverageRating:   RoundHalfUp(mean, 1),
		RatingCount:     count,
		DistanceMeters:  distance,
	}
	if l.Location != nil {
		loc := *l.Location
		r.Location = &loc
	}
	return r
}

func compareDistance(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return cmp.Compare(*a, *b)
}
