package reporting

// StarCounts holds approved rating counts, index 0 for one star.
type StarCounts [5]int

func CountStars(ratings []int) StarCounts {
	var c StarCounts
	for _, r := range ratings {
		if r >= 1 && r <= 5 {
			c[r-1]++
		}
	}
	return c
}

type RatingSummary struct {
	LessorID     string
	TotalRating  int
	AverageStars float64
	Counts       StarCounts
}

func Summarize(lessorID string, counts StarCounts) RatingSummary {
	total, weighted := 0, 0
	for i, n := range counts {
		total += n
		weighted += n * (i + 1)
	}
	avg := 0.0
	if total > 0 {
		avg = RoundHalfUp(float64(weighted)/float64(total), 2)
	}
	return RatingSummary{LessorID: lessorID, TotalRating: total, AverageStars: avg, Counts: counts}
}
