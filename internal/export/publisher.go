package export

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/soltixdb/pindex/internal/models"
	"github.com/soltixdb/pindex/internal/queue"
)

// QueuePublisher publishes each index value as JSON on <prefix>.<crime token>
type QueuePublisher struct {
	publisher queue.Publisher
	prefix    string
	batchSize int
}

// NewQueuePublisher creates a queue sink; batchSize < 1 publishes one message per call
func NewQueuePublisher(pub queue.Publisher, prefix string, batchSize int) *QueuePublisher {
	if batchSize < 1 {
		batchSize = 1
	}
	return &QueuePublisher{publisher: pub, prefix: prefix, batchSize: batchSize}
}

// Name identifies the sink in logs
func (p *QueuePublisher) Name() string {
	return "queue"
}

// Subject returns the subject a crime type's values are published on
func (p *QueuePublisher) Subject(crimeType string) string {
	return p.prefix + "." + queue.SubjectToken(crimeType)
}

// WriteIndex publishes records in batches and fails if any message was not accepted
func (p *QueuePublisher) WriteIndex(ctx context.Context, records []models.IndexRecord) error {
	batch := make([]queue.BatchMessage, 0, p.batchSize)
	published := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := p.publisher.PublishBatch(ctx, batch)
		published += n
		if err != nil {
			return err
		}
		if n != len(batch) {
			return fmt.Errorf("published %d of %d messages", n, len(batch))
		}
		batch = batch[:0]
		return nil
	}

	for _, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to encode index record: %w", err)
		}
		batch = append(batch, queue.BatchMessage{Subject: p.Subject(rec.CrimeType), Data: data})
		if len(batch) >= p.batchSize {
			if err := flush(); err != nil {
				return fmt.Errorf("failed to publish index values after %d: %w", published, err)
			}
		}
	}
	if err := flush(); err != nil {
		return fmt.Errorf("failed to publish index values after %d: %w", published, err)
	}
	return nil
}
