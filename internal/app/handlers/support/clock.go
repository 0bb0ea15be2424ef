package support

import "time"

// Now reads the injected clock, falling back to wall time.
func Now(clock func() time.Time) time.Time {
	if clock != nil {
		return clock().UTC()
	}
	return time.Now().UTC()
}
