// Package export writes computed P-Index values to files, message queues and
// Postgres.
package export

import (
	"context"

	"github.com/soltixdb/pindex/internal/models"
)

// IndexSink receives the flat index tuples of one build
type IndexSink interface {
	Name() string
	WriteIndex(ctx context.Context, records []models.IndexRecord) error
}
