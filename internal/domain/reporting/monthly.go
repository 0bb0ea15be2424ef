package reporting

import (
	"cmp"
	"slices"
	"time"
)

// MonthlySelector picks the collection to count. Bookings may be scoped to a lessor.
type MonthlySelector struct {
	Collection Collection
	LessorID   string
}

type MonthlyCount struct {
	Year  int
	Month int
	Count int
}

// GroupByMonth counts timestamps per UTC (year, month), oldest first.
func GroupByMonth(stamps []time.Time) []MonthlyCount {
	type key struct{ year, month int }
	counts := map[key]int{}
	for _, ts := range stamps {
		u := ts.UTC()
		counts[key{u.Year(), int(u.Month())}]++
	}
	out := make([]MonthlyCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, MonthlyCount{Year: k.year, Month: k.month, Count: n})
	}
	SortMonthly(out)
	return out
}

func SortMonthly(in []MonthlyCount) {
	slices.SortFunc(in, func(a, b MonthlyCount) int {
		if c := cmp.Compare(a.Year, b.Year); c != 0 {
			return c
		}
		return cmp.Compare(a.Month, b.Month)
	})
}
