package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	domainbooking "courtly/internal/domain/booking"
)

// BookingRepository keeps bookings in a map. Reads and writes copy values so
// callers never share state with the store.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrBookingNotFound
	}
	return cloneBooking(b), nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[b.ID] = *cloneBooking(*b)
	return nil
}

func (r *BookingRepository) Find(ctx context.Context, f domainbooking.Filter) ([]*domainbooking.Booking, error) {
	matches, err := r.match(ctx, f)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(matches, func(a, b *domainbooking.Booking) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if f.Offset > 0 {
		if f.Offset >= len(matches) {
			return []*domainbooking.Booking{}, nil
		}
		matches = matches[f.Offset:]
	}
	if f.Limit > 0 && len(matches) > f.Limit {
		matches = matches[:f.Limit]
	}
	return matches, nil
}

func (r *BookingRepository) Count(ctx context.Context, f domainbooking.Filter) (int, error) {
	matches, err := r.match(ctx, f)
	return len(matches), err
}

// All returns every stored booking in no particular order.
func (r *BookingRepository) All() []*domainbooking.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainbooking.Booking, 0, len(r.items))
	for _, b := range r.items {
		out = append(out, cloneBooking(b))
	}
	return out
}

func (r *BookingRepository) match(ctx context.Context, f domainbooking.Filter) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainbooking.Booking, 0)
	for _, b := range r.items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if f.LessorID != "" && b.LessorID != f.LessorID {
			continue
		}
		if f.UserID != "" && b.UserID != f.UserID {
			continue
		}
		if f.Facility != "" && b.Facility != f.Facility {
			continue
		}
		if f.Court != "" && b.Court != f.Court {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		if !f.From.IsZero() && b.Date.Before(f.From) {
			continue
		}
		out = append(out, cloneBooking(b))
	}
	return out, nil
}

func cloneBooking(b domainbooking.Booking) *domainbooking.Booking {
	out := domainbooking.Booking{
		ID:        b.ID,
		UserID:    b.UserID,
		LessorID:  b.LessorID,
		Facility:  b.Facility,
		Court:     b.Court,
		Date:      b.Date,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Status:    b.Status,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	if b.OutsideUser != nil {
		o := *b.OutsideUser
		out.OutsideUser = &o
	}
	return &out
}

var _ domainbooking.Repository = (*BookingRepository)(nil)
