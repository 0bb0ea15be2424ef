package reporting

import (
	"courtly/internal/domain/payments"
)

// CurrencyTotal is the raw sum of paid payments in one currency.
type CurrencyTotal struct {
	Currency     payments.Currency
	Amount       float64
	Transactions int
}

type IncomeReport struct {
	TotalAmountUSD    float64
	TotalTransactions int
	KHR               KHRBreakdown
	USD               USDBreakdown
}

type KHRBreakdown struct {
	AmountUSD    float64
	Transactions int
}

type USDBreakdown struct {
	Amount       float64
	Transactions int
}

// Income converts riel at the fixed rate and rounds every figure to cents.
func Income(totals []CurrencyTotal) IncomeReport {
	var khr, usd float64
	var report IncomeReport
	for _, t := range totals {
		switch t.Currency {
		case payments.KHR:
			khr += t.Amount / payments.KHRPerUSD
			report.KHR.Transactions += t.Transactions
		case payments.USD:
			usd += t.Amount
			report.USD.Transactions += t.Transactions
		}
	}
	report.KHR.AmountUSD = RoundHalfUp(khr, 2)
	report.USD.Amount = RoundHalfUp(usd, 2)
	report.TotalAmountUSD = RoundHalfUp(khr+usd, 2)
	report.TotalTransactions = report.KHR.Transactions + report.USD.Transactions
	return report
}

// SumPaid groups paid payments by currency in a stable currency order.
func SumPaid(list []*payments.Payment) []CurrencyTotal {
	byCurrency := map[payments.Currency]*CurrencyTotal{}
	for _, p := range list {
		if p == nil || p.Status != payments.Paid {
			continue
		}
		t, ok := byCurrency[p.Currency]
		if !ok {
			t = &CurrencyTotal{Currency: p.Currency}
			byCurrency[p.Currency] = t
		}
		t.Amount += p.Amount
		t.Transactions++
	}
	var out []CurrencyTotal
	for _, c := range []payments.Currency{payments.KHR, payments.USD} {
		if t, ok := byCurrency[c]; ok {
			out = append(out, *t)
		}
	}
	return out
}
