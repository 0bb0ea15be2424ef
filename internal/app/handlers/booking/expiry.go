package booking

import (
	"context"
	"time"

	domainbooking "courtly/internal/domain/booking"
)

// ExpireStale rejects every pending booking in list whose day is before now
// and persists the change. It is applied explicitly by listing paths only.
func ExpireStale(ctx context.Context, repo domainbooking.Repository, list []*domainbooking.Booking, now time.Time) (int, error) {
	changed := 0
	for _, b := range list {
		if !b.ExpireIfPast(now) {
			continue
		}
		if err := repo.Save(ctx, b); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}
