package export

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresQueries_QuoteTable(t *testing.T) {
	for _, q := range []string{
		createTableQuery(`pindex"values`),
		upsertQuery(`pindex"values`),
		selectQuery(`pindex"values`),
	} {
		assert.Contains(t, q, `"pindex""values"`)
	}

	upsert := upsertQuery("pindex_values")
	assert.True(t, strings.Contains(upsert, ":p_index"), "upsert must bind the p_index db tag")
	assert.Contains(t, upsert, "ON CONFLICT (crime_type, neighbourhood, year, month)")
}

// Integration test; runs only when PINDEX_TEST_POSTGRES_DSN is set
func TestPostgresSink_WriteAndRead(t *testing.T) {
	dsn := os.Getenv("PINDEX_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("PINDEX_TEST_POSTGRES_DSN not set, skipping test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	table := "pindex_test_" + time.Now().Format("150405")
	sink, err := OpenPostgres(ctx, dsn, table)
	require.NoError(t, err)
	defer func() {
		_, _ = sink.db.ExecContext(context.Background(), "DROP TABLE IF EXISTS "+table)
		_ = sink.Close()
	}()

	require.NoError(t, sink.EnsureSchema(ctx))
	require.NoError(t, sink.WriteIndex(ctx, sampleIndex()))

	// Upsert replaces the value of an existing key
	updated := sampleIndex()
	updated[0].Index = 50
	require.NoError(t, sink.WriteIndex(ctx, updated[:1]))

	records, err := sink.ReadIndex(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	// Ordered by crime type: "Break and Enter" first
	assert.Equal(t, "Break and Enter", records[0].CrimeType)
	assert.Equal(t, 50.0, records[1].Index)
}
