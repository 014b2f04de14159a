package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/soltixdb/pindex/internal/logging"
	"github.com/soltixdb/pindex/internal/models"
	"github.com/soltixdb/pindex/internal/queue"
)

// QueueSource yields JSON-encoded occurrence records from a queue subject.
// It reads until no message has arrived for IdleTimeout, which ends the
// stream cleanly. Cancelling ctx ends it with ctx.Err() so a partial read is
// never mistaken for a complete one. Undecodable messages are dropped and counted.
type QueueSource struct {
	Subscriber  queue.Subscriber
	Subject     string
	IdleTimeout time.Duration

	skipped int
}

// NewQueueSource creates a queue-backed source
func NewQueueSource(sub queue.Subscriber, subject string, idle time.Duration) *QueueSource {
	return &QueueSource{Subscriber: sub, Subject: subject, IdleTimeout: idle}
}

// Skipped returns the messages dropped by the last Each
func (q *QueueSource) Skipped() int {
	return q.skipped
}

// Each subscribes to the subject and hands decoded records to fn on the
// caller's goroutine
func (q *QueueSource) Each(ctx context.Context, fn RecordFunc) error {
	logger := logging.FromContext(ctx).With("subject", q.Subject)
	records := make(chan models.OccurrenceRecord)
	stop := make(chan struct{})
	defer close(stop)

	q.skipped = 0
	skipped := make(chan struct{}, 64)

	err := q.Subscriber.Subscribe(q.Subject, func(data []byte) error {
		var rec models.OccurrenceRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			logger.Warn("Dropping undecodable occurrence message", "error", err)
			select {
			case skipped <- struct{}{}:
			case <-stop:
			}
			return nil
		}
		select {
		case records <- rec:
			return nil
		case <-stop:
			return fmt.Errorf("source closed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", q.Subject, err)
	}
	defer func() { _ = q.Subscriber.Unsubscribe(q.Subject) }()

	var idle <-chan time.Time
	var timer *time.Timer
	if q.IdleTimeout > 0 {
		timer = time.NewTimer(q.IdleTimeout)
		defer timer.Stop()
		idle = timer.C
	}
	resetIdle := func() {
		if timer == nil {
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(q.IdleTimeout)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-idle:
			logger.Debug("Queue source idle, stopping", "idle_timeout", q.IdleTimeout)
			return nil
		case <-skipped:
			q.skipped++
			resetIdle()
		case rec := <-records:
			resetIdle()
			if err := fn(rec); err != nil {
				return err
			}
		}
	}
}

// Forward publishes every record of src to subject as JSON, batchSize at a time
func Forward(ctx context.Context, src Source, pub queue.Publisher, subject string, batchSize int) (int, error) {
	if batchSize < 1 {
		batchSize = 1
	}
	batch := make([]queue.BatchMessage, 0, batchSize)
	sent := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := pub.PublishBatch(ctx, batch)
		sent += n
		batch = batch[:0]
		if err != nil {
			return err
		}
		return nil
	}

	err := src.Each(ctx, func(rec models.OccurrenceRecord) error {
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		batch = append(batch, queue.BatchMessage{Subject: subject, Data: data})
		if len(batch) >= batchSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return sent, fmt.Errorf("failed to forward records: %w", err)
	}
	if err := flush(); err != nil {
		return sent, fmt.Errorf("failed to forward records: %w", err)
	}
	return sent, nil
}
