package memory

import (
	"context"
	"sync"

	appoutbox "courtly/internal/app/outbox"
	"courtly/internal/app/policies"
)

// Outbox keeps committed events until the next flush hands them to Sink.
type Outbox struct {
	Sink policies.NotificationSink

	mu      sync.Mutex
	records []appoutbox.EventRecord
}

func NewOutbox(sink policies.NotificationSink) *Outbox {
	return &Outbox{Sink: sink}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.records = append(o.records, record)
	return nil
}

func (o *Outbox) Flush(ctx context.Context) error {
	o.mu.Lock()
	pending := o.records
	o.records = nil
	o.mu.Unlock()
	if len(pending) == 0 || o.Sink == nil {
		return nil
	}
	o.Sink.Deliver(ctx, pending)
	return nil
}

// Pending returns a copy of the records waiting for a flush.
func (o *Outbox) Pending() []appoutbox.EventRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]appoutbox.EventRecord(nil), o.records...)
}

// stagedOutbox holds a unit's events until commit.
type stagedOutbox struct {
	mu      sync.Mutex
	records []appoutbox.EventRecord
}

func (s *stagedOutbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

func (s *stagedOutbox) Flush(context.Context) error { return nil }

func (s *stagedOutbox) drain() []appoutbox.EventRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.records
	s.records = nil
	return out
}

var (
	_ appoutbox.Outbox = (*Outbox)(nil)
	_ appoutbox.Outbox = (*stagedOutbox)(nil)
)
