package export

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/soltixdb/pindex/internal/models"
)

// PostgresSink upserts index values keyed by (crime_type, neighbourhood, year, month)
type PostgresSink struct {
	db    *sqlx.DB
	table string
}

// OpenPostgres connects to dsn with the lib/pq driver
func OpenPostgres(ctx context.Context, dsn, table string) (*PostgresSink, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return NewPostgresSink(db, table), nil
}

// NewPostgresSink wraps an open connection
func NewPostgresSink(db *sqlx.DB, table string) *PostgresSink {
	return &PostgresSink{db: db, table: table}
}

// Name identifies the sink in logs
func (p *PostgresSink) Name() string {
	return "postgres"
}

// Close closes the connection
func (p *PostgresSink) Close() error {
	return p.db.Close()
}

func createTableQuery(table string) string {
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			crime_type    TEXT             NOT NULL,
			neighbourhood TEXT             NOT NULL,
			year          INTEGER          NOT NULL,
			month         SMALLINT         NOT NULL CHECK (month BETWEEN 1 AND 12),
			p_index       DOUBLE PRECISION NOT NULL,
			updated_at    TIMESTAMPTZ      NOT NULL DEFAULT NOW(),
			PRIMARY KEY (crime_type, neighbourhood, year, month)
		)`, pq.QuoteIdentifier(table))
}

func upsertQuery(table string) string {
	return fmt.Sprintf(`
		INSERT INTO %s (crime_type, neighbourhood, year, month, p_index)
		VALUES (:crime_type, :neighbourhood, :year, :month, :p_index)
		ON CONFLICT (crime_type, neighbourhood, year, month)
		DO UPDATE SET p_index = EXCLUDED.p_index, updated_at = NOW()`, pq.QuoteIdentifier(table))
}

func selectQuery(table string) string {
	return fmt.Sprintf(`
		SELECT crime_type, neighbourhood, year, month, p_index
		FROM %s
		ORDER BY crime_type, neighbourhood, year, month`, pq.QuoteIdentifier(table))
}

// EnsureSchema creates the table if it does not exist
func (p *PostgresSink) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, createTableQuery(p.table)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", p.table, err)
	}
	return nil
}

// WriteIndex upserts every record in a single transaction
func (p *PostgresSink) WriteIndex(ctx context.Context, records []models.IndexRecord) error {
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareNamedContext(ctx, upsertQuery(p.table))
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, rec); err != nil {
			return fmt.Errorf("failed to upsert %s/%s %04d-%02d: %w",
				rec.CrimeType, rec.Neighbourhood, rec.Year, rec.Month, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit upsert: %w", err)
	}
	return nil
}

// ReadIndex returns every stored record in key order
func (p *PostgresSink) ReadIndex(ctx context.Context) ([]models.IndexRecord, error) {
	var records []models.IndexRecord
	if err := p.db.SelectContext(ctx, &records, selectQuery(p.table)); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", p.table, err)
	}
	return records, nil
}
