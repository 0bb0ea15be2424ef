package booking

import (
	"context"
	"time"

	"courtly/internal/app/dto"
	handlersupport "courtly/internal/app/handlers/support"
	"courtly/internal/app/queries"
	"courtly/internal/app/uow"
	"courtly/internal/domain/accounts"
	domainbooking "courtly/internal/domain/booking"
	"courtly/internal/domain/lessors"
	"courtly/internal/domain/shared/status"
)

const (
	listLessorBookingsKey = "booking.list.lessor"
	filterByStatusKey     = "booking.list.status"
	listUserBookingsKey   = "booking.list.user"

	defaultPageSize = 10
	maxPageSize     = 100
)

// ListLessorBookingsQuery pages through a lessor's bookings, newest date first.
type ListLessorBookingsQuery struct {
	LessorEmail string
	Page        int
	Limit       int
	Upcoming    bool
}

func (q ListLessorBookingsQuery) Key() string { return listLessorBookingsKey }

func (q ListLessorBookingsQuery) AllowedRoles() []string { return lessorOnly }

// Listing may expire stale bookings, so these handlers run in a committing unit.
type ListLessorBookingsHandler struct {
	UoWFactory uow.UoWFactory
	Clock      func() time.Time
}

func (h *ListLessorBookingsHandler) Handle(ctx context.Context, q ListLessorBookingsQuery) (dto.BookingPage, error) {
	page, limit := normalizePaging(q.Page, q.Limit)
	now := handlersupport.Now(h.Clock)
	var result dto.BookingPage
	err := handlersupport.RunInUnit(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		owner, err := lessorByEmail(ctx, unit, q.LessorEmail)
		if err != nil {
			return err
		}
		filter := domainbooking.Filter{LessorID: string(owner.ID)}
		if q.Upcoming {
			filter.From = domainbooking.Day(now)
		}
		total, err := unit.Bookings().Count(ctx, filter)
		if err != nil {
			return err
		}
		filter.Offset = (page - 1) * limit
		filter.Limit = limit
		list, err := unit.Bookings().Find(ctx, filter)
		if err != nil {
			return err
		}
		if _, err := ExpireStale(ctx, unit.Bookings(), list, now); err != nil {
			return err
		}
		result = dto.BookingPage{
			Bookings:    dto.MapBookings(list),
			CurrentPage: page,
			TotalPages:  (total + limit - 1) / limit,
			TotalCount:  total,
		}
		return nil
	})
	return result, err
}

// FilterBookingsByStatusQuery lists a lessor's bookings in one status, or all
// of them when Status is empty.
type FilterBookingsByStatusQuery struct {
	LessorEmail string
	Status      string
}

func (q FilterBookingsByStatusQuery) Key() string { return filterByStatusKey }

func (q FilterBookingsByStatusQuery) AllowedRoles() []string { return lessorOnly }

func (q FilterBookingsByStatusQuery) Validate() error {
	_, err := status.ParseOptional(q.Status)
	return err
}

type FilterBookingsByStatusHandler struct {
	UoWFactory uow.UoWFactory
	Clock      func() time.Time
}

func (h *FilterBookingsByStatusHandler) Handle(ctx context.Context, q FilterBookingsByStatusQuery) ([]dto.Booking, error) {
	want, err := status.ParseOptional(q.Status)
	if err != nil {
		return nil, err
	}
	now := handlersupport.Now(h.Clock)
	var result []dto.Booking
	err = handlersupport.RunInUnit(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		owner, err := lessorByEmail(ctx, unit, q.LessorEmail)
		if err != nil {
			return err
		}
		list, err := unit.Bookings().Find(ctx, domainbooking.Filter{LessorID: string(owner.ID), Status: want})
		if err != nil {
			return err
		}
		if _, err := ExpireStale(ctx, unit.Bookings(), list, now); err != nil {
			return err
		}
		kept := list[:0]
		for _, b := range list {
			if want == "" || b.Status == want {
				kept = append(kept, b)
			}
		}
		result = dto.MapBookings(kept)
		return nil
	})
	return result, err
}

// ListUserBookingsQuery returns the bookings made by a platform user.
type ListUserBookingsQuery struct {
	UserEmail string
}

func (q ListUserBookingsQuery) Key() string { return listUserBookingsKey }

func (q ListUserBookingsQuery) AllowedRoles() []string { return userOnly }

type ListUserBookingsHandler struct {
	UoWFactory uow.UoWFactory
	Clock      func() time.Time
}

func (h *ListUserBookingsHandler) Handle(ctx context.Context, q ListUserBookingsQuery) (dto.UserBookings, error) {
	now := handlersupport.Now(h.Clock)
	var result dto.UserBookings
	err := handlersupport.RunInUnit(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		user, err := unit.Accounts().ByEmail(ctx, accounts.RoleUser, q.UserEmail)
		if err != nil {
			return err
		}
		list, err := unit.Bookings().Find(ctx, domainbooking.Filter{UserID: string(user.ID)})
		if err != nil {
			return err
		}
		if _, err := ExpireStale(ctx, unit.Bookings(), list, now); err != nil {
			return err
		}
		result = dto.UserBookings{User: user.Name, Count: len(list), Bookings: dto.MapBookings(list)}
		return nil
	})
	return result, err
}

func lessorByEmail(ctx context.Context, unit uow.UnitOfWork, email string) (*lessors.Lessor, error) {
	email = lessors.NormalizeEmail(email)
	if email == "" {
		return nil, lessors.ErrLessorNotFound
	}
	return unit.Lessors().ByEmail(ctx, email)
}

func normalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

var (
	_ queries.Handler[ListLessorBookingsQuery, dto.BookingPage]   = (*ListLessorBookingsHandler)(nil)
	_ queries.Handler[FilterBookingsByStatusQuery, []dto.Booking] = (*FilterBookingsByStatusHandler)(nil)
	_ queries.Handler[ListUserBookingsQuery, dto.UserBookings]    = (*ListUserBookingsHandler)(nil)
)
