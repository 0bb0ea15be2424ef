// Package notify delivers committed domain events without blocking the
// request that produced them.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	appoutbox "courtly/internal/app/outbox"
	"courtly/internal/app/policies"
	"courtly/internal/infra/outbox"
)

const defaultTimeout = 5 * time.Second

// Dispatcher publishes each flushed batch on its own goroutine, bounded by
// Timeout. Failures are logged and dropped.
type Dispatcher struct {
	Producer    outbox.Producer
	Logger      *slog.Logger
	Timeout     time.Duration
	TopicPrefix string
	Source      string

	wg sync.WaitGroup
}

func (d *Dispatcher) Deliver(ctx context.Context, records []appoutbox.EventRecord) {
	if d.Producer == nil || len(records) == 0 {
		return
	}
	batch := append([]appoutbox.EventRecord(nil), records...)
	base := context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(base, d.timeout())
		defer cancel()
		for _, rec := range batch {
			d.publish(ctx, rec)
		}
	}()
}

func (d *Dispatcher) publish(ctx context.Context, rec appoutbox.EventRecord) {
	doc := &outbox.EventDocument{
		ID:         rec.ID,
		Name:       rec.Name,
		Payload:    rec.Payload,
		OccurredAt: rec.OccurredAt,
		Aggregate:  rec.Aggregate,
		Headers:    rec.Headers,
	}
	topic := outbox.Topic(d.TopicPrefix, rec.Name)
	payload, headers, err := outbox.Envelope(doc, d.source())
	if err == nil {
		err = d.Producer.Publish(ctx, topic, rec.Aggregate, payload, headers)
	}
	if err != nil {
		d.logger().Warn("notification delivery failed", "event_id", rec.ID, "event", rec.Name, "topic", topic, "error", err)
	}
}

// Wait blocks until in-flight deliveries finish or ctx ends.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) timeout() time.Duration {
	if d.Timeout <= 0 {
		return defaultTimeout
	}
	return d.Timeout
}

func (d *Dispatcher) source() string {
	if d.Source != "" {
		return d.Source
	}
	return outbox.DefaultSource
}

func (d *Dispatcher) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// LogProducer writes events to the log instead of a broker.
type LogProducer struct {
	Logger *slog.Logger
}

func (p LogProducer) Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "event published", "topic", topic, "key", key, "bytes", len(payload))
	return nil
}

var (
	_ policies.NotificationSink = (*Dispatcher)(nil)
	_ outbox.Producer           = LogProducer{}
)
