package payments

import (
	"context"
	"strings"
	"time"

	"courtly/internal/domain/shared/errs"
	"courtly/internal/domain/shared/events"
)

var (
	ErrMissingFields   = errs.Validation("Missing required fields")
	ErrInvalidCurrency = errs.Validation("Currency must be usd or khr")
	ErrInvalidAmount   = errs.Validation("Amount must be greater than zero")
	ErrInvalidStatus   = errs.Validation("Payment status must be unpaid or paid")
)

type PaymentID string

type Currency string

const (
	USD Currency = "usd"
	KHR Currency = "khr"
)

// KHRPerUSD is the fixed conversion rate applied to riel income.
const KHRPerUSD = 4000.0

type PaymentStatus string

const (
	Unpaid PaymentStatus = "unpaid"
	Paid   PaymentStatus = "paid"
)

type Payment struct {
	ID        PaymentID
	UserID    string
	LessorID  string
	BookingID string
	Currency  Currency
	Amount    float64
	Status    PaymentStatus
	CreatedAt time.Time
	UpdatedAt time.Time
	events.Recorder
}

// Repository lists payments newest first.
type Repository interface {
	Save(ctx context.Context, p *Payment) error
	ListByLessor(ctx context.Context, lessorID string) ([]*Payment, error)
}

type RecordParams struct {
	ID        PaymentID
	UserID    string
	LessorID  string
	BookingID string
	Currency  string
	Amount    float64
	Status    string
	Now       time.Time
}

func ParseCurrency(raw string) (Currency, error) {
	switch c := Currency(strings.ToLower(strings.TrimSpace(raw))); c {
	case "":
		return KHR, nil
	case USD, KHR:
		return c, nil
	}
	return "", ErrInvalidCurrency
}

func ParseStatus(raw string) (PaymentStatus, error) {
	switch s := PaymentStatus(strings.ToLower(strings.TrimSpace(raw))); s {
	case "":
		return Paid, nil
	case Paid, Unpaid:
		return s, nil
	}
	return "", ErrInvalidStatus
}

func Record(p RecordParams) (*Payment, error) {
	if strings.TrimSpace(p.UserID) == "" || strings.TrimSpace(p.LessorID) == "" || strings.TrimSpace(p.BookingID) == "" {
		return nil, ErrMissingFields
	}
	currency, err := ParseCurrency(p.Currency)
	if err != nil {
		return nil, err
	}
	if p.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	st, err := ParseStatus(p.Status)
	if err != nil {
		return nil, err
	}
	now := p.Now.UTC()
	payment := &Payment{
		ID:        p.ID,
		UserID:    strings.TrimSpace(p.UserID),
		LessorID:  strings.TrimSpace(p.LessorID),
		BookingID: strings.TrimSpace(p.BookingID),
		Currency:  currency,
		Amount:    p.Amount,
		Status:    st,
		CreatedAt: now,
		UpdatedAt: now,
	}
	payment.Record(PaymentRecorded{
		PaymentID: payment.ID,
		LessorID:  payment.LessorID,
		BookingID: payment.BookingID,
		Currency:  payment.Currency,
		Amount:    payment.Amount,
		Status:    payment.Status,
		At:        now,
	})
	return payment, nil
}
