package dto

import (
	"time"

	"courtly/internal/domain/payments"
)

type Payment struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Lessor    string    `json:"lessor"`
	Booking   string    `json:"booking"`
	Currency  string    `json:"currency"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func MapPayment(p *payments.Payment) Payment {
	return Payment{
		ID:        string(p.ID),
		User:      p.UserID,
		Lessor:    p.LessorID,
		Booking:   p.BookingID,
		Currency:  string(p.Currency),
		Amount:    p.Amount,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
	}
}

func MapPayments(list []*payments.Payment) []Payment {
	out := make([]Payment, 0, len(list))
	for _, p := range list {
		out = append(out, MapPayment(p))
	}
	return out
}
