package policies

import (
	"context"
	"io"

	"courtly/internal/app/outbox"
)

// NotificationSink receives committed events for best-effort delivery.
type NotificationSink interface {
	Deliver(ctx context.Context, records []outbox.EventRecord)
}

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// ImageStore persists uploaded images and returns their public URL.
type ImageStore interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)
}
