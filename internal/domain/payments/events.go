package payments

import "time"

type PaymentRecorded struct {
	PaymentID PaymentID     `json:"payment_id"`
	LessorID  string        `json:"lessor_id"`
	BookingID string        `json:"booking_id"`
	Currency  Currency      `json:"currency"`
	Amount    float64       `json:"amount"`
	Status    PaymentStatus `json:"status"`
	At        time.Time     `json:"occurred_at"`
}

func (e PaymentRecorded) EventName() string     { return "payment.recorded" }
func (e PaymentRecorded) AggregateID() string   { return string(e.PaymentID) }
func (e PaymentRecorded) OccurredAt() time.Time { return e.At }
