package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/soltixdb/pindex/internal/config"
	"github.com/soltixdb/pindex/internal/models"
)

// CSVReader yields occurrence records from a header-bearing CSV stream.
// Columns are mapped by index; without a count column every row is one
// occurrence. Rows missing a crime type or neighbourhood are skipped.
type CSVReader struct {
	r       io.Reader
	columns config.ColumnsConfig
	skipped int
}

// NewCSVReader creates a reader over r
func NewCSVReader(r io.Reader, columns config.ColumnsConfig) (*CSVReader, error) {
	if err := columns.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrConfiguration, err)
	}
	return &CSVReader{r: r, columns: columns}, nil
}

// Skipped returns the number of rows dropped for a missing key
func (c *CSVReader) Skipped() int {
	return c.skipped
}

// Each parses rows after the header and calls fn for each record. Malformed
// numbers abort the read with an ErrRange error naming the line.
func (c *CSVReader) Each(ctx context.Context, fn RecordFunc) error {
	reader := csv.NewReader(c.r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to read csv header: %w", err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read csv: %w", err)
		}

		line, _ := reader.FieldPos(0)
		rec, ok, err := c.parseRow(row)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if !ok {
			c.skipped++
			continue
		}
		if err := fn(rec); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
}

func (c *CSVReader) parseRow(row []string) (models.OccurrenceRecord, bool, error) {
	if len(row) <= c.columns.MaxIndex() {
		return models.OccurrenceRecord{}, false, fmt.Errorf("%w: row has %d columns, need %d",
			models.ErrRange, len(row), c.columns.MaxIndex()+1)
	}

	rec := models.OccurrenceRecord{
		CrimeType:     strings.TrimSpace(row[c.columns.CrimeType]),
		Neighbourhood: strings.TrimSpace(row[c.columns.Neighbourhood]),
		Count:         1,
	}
	if rec.CrimeType == "" || rec.Neighbourhood == "" {
		return rec, false, nil
	}

	var err error
	if rec.Year, err = parseWhole(row[c.columns.Year]); err != nil {
		return rec, false, fmt.Errorf("year: %w", err)
	}
	if rec.Month, err = parseWhole(row[c.columns.Month]); err != nil {
		return rec, false, fmt.Errorf("month: %w", err)
	}
	if c.columns.HasCount() {
		if rec.Count, err = parseWhole(row[c.columns.Count]); err != nil {
			return rec, false, fmt.Errorf("count: %w", err)
		}
	}
	return rec, true, nil
}

// parseWhole accepts integers and integral floats such as "2003.0" whose
// magnitude fits in 32 bits
func parseWhole(field string) (int, error) {
	field = strings.TrimSpace(field)
	f, err := strconv.ParseFloat(field, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q is not a whole number", models.ErrRange, field)
	}
	if math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %q is out of range", models.ErrRange, field)
	}
	return int(f), nil
}

// CSVFile is a Source reading a CSV file from disk
type CSVFile struct {
	Path    string
	Columns config.ColumnsConfig

	skipped int
}

// NewCSVFile creates a file source from ingest configuration
func NewCSVFile(cfg config.IngestConfig) *CSVFile {
	return &CSVFile{Path: cfg.CSVPath, Columns: cfg.Columns}
}

// Each opens the file and streams its records
func (f *CSVFile) Each(ctx context.Context, fn RecordFunc) error {
	file, err := os.Open(f.Path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", f.Path, err)
	}
	defer func() { _ = file.Close() }()

	reader, err := NewCSVReader(file, f.Columns)
	if err != nil {
		return err
	}
	err = reader.Each(ctx, fn)
	f.skipped = reader.Skipped()
	if err != nil {
		return fmt.Errorf("%s: %w", f.Path, err)
	}
	return nil
}

// Skipped returns the rows skipped by the last Each
func (f *CSVFile) Skipped() int {
	return f.skipped
}
