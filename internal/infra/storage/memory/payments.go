package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	domainpayments "courtly/internal/domain/payments"
	"courtly/internal/domain/shared/events"
)

type PaymentRepository struct {
	mu    sync.RWMutex
	items map[domainpayments.PaymentID]domainpayments.Payment
}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{items: make(map[domainpayments.PaymentID]domainpayments.Payment)}
}

func (r *PaymentRepository) Save(ctx context.Context, p *domainpayments.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *p
	stored.Recorder = events.Recorder{}
	r.items[p.ID] = stored
	return nil
}

func (r *PaymentRepository) ListByLessor(ctx context.Context, lessorID string) ([]*domainpayments.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainpayments.Payment, 0)
	for _, p := range r.items {
		if p.LessorID != lessorID {
			continue
		}
		out = append(out, &p)
	}
	slices.SortFunc(out, func(a, b *domainpayments.Payment) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

var _ domainpayments.Repository = (*PaymentRepository)(nil)
