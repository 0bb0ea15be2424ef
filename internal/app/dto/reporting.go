package dto

import (
	"strconv"

	"courtly/internal/domain/reporting"
)

type RankedLessor struct {
	ID              string         `json:"id"`
	SportCenterName string         `json:"sportcenter_name"`
	FirstName       string         `json:"first_name"`
	LastName        string         `json:"last_name"`
	Logo            string         `json:"logo,omitempty"`
	Address         Address        `json:"address"`
	Hours           OperatingHours `json:"operating_hours"`
	Location        *Location      `json:"location,omitempty"`
	TimeAvailable   bool           `json:"time_available"`
	AverageRating   float64        `json:"average_rating"`
	RatingCount     int            `json:"rating_count"`
	DistanceMeters  *float64       `json:"distance_meters,omitempty"`
}

func MapRanked(list []reporting.RankedLessor) []RankedLessor {
	out := make([]RankedLessor, 0, len(list))
	for _, r := range list {
		out = append(out, RankedLessor{
			ID:              r.LessorID,
			SportCenterName: r.SportCenterName,
			FirstName:       r.FirstName,
			LastName:        r.LastName,
			Logo:            r.Logo,
			Address:         MapAddress(r.Address),
			Hours:           OperatingHours{Open: r.Hours.Open, Close: r.Hours.Close},
			Location:        MapLocation(r.Location),
			TimeAvailable:   r.TimeAvailable,
			AverageRating:   r.AverageRating,
			RatingCount:     r.RatingCount,
			DistanceMeters:  r.DistanceMeters,
		})
	}
	return out
}

type MonthlyCount struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Count int `json:"count"`
}

type MonthlyReport struct {
	Collection string         `json:"collection"`
	Months     []MonthlyCount `json:"months"`
}

func MapMonthly(collection reporting.Collection, list []reporting.MonthlyCount) MonthlyReport {
	months := make([]MonthlyCount, 0, len(list))
	for _, m := range list {
		months = append(months, MonthlyCount{Year: m.Year, Month: m.Month, Count: m.Count})
	}
	return MonthlyReport{Collection: string(collection), Months: months}
}

type KHRIncome struct {
	AmountUSD    float64 `json:"amountUSD"`
	Transactions int     `json:"transactions"`
}

type USDIncome struct {
	Amount       float64 `json:"amount"`
	Transactions int     `json:"transactions"`
}

type IncomeBreakdown struct {
	KHR KHRIncome `json:"khr"`
	USD USDIncome `json:"usd"`
}

type Income struct {
	TotalAmountUSD    float64         `json:"totalAmountUSD"`
	TotalTransactions int             `json:"totalTransactions"`
	Breakdown         IncomeBreakdown `json:"breakdown"`
}

func MapIncome(r reporting.IncomeReport) Income {
	return Income{
		TotalAmountUSD:    r.TotalAmountUSD,
		TotalTransactions: r.TotalTransactions,
		Breakdown: IncomeBreakdown{
			KHR: KHRIncome{AmountUSD: r.KHR.AmountUSD, Transactions: r.KHR.Transactions},
			USD: USDIncome{Amount: r.USD.Amount, Transactions: r.USD.Transactions},
		},
	}
}

type RatingSummary struct {
	Lessor       string         `json:"lessor"`
	TotalRating  int            `json:"totalRating"`
	AverageStars float64        `json:"averageStars"`
	Counts       map[string]int `json:"count"`
}

func MapRatingSummary(s reporting.RatingSummary) RatingSummary {
	counts := make(map[string]int, len(s.Counts))
	for i, n := range s.Counts {
		counts["countRating_"+strconv.Itoa(i+1)] = n
	}
	return RatingSummary{Lessor: s.LessorID, TotalRating: s.TotalRating, AverageStars: s.AverageStars, Counts: counts}
}
