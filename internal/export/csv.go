package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/soltixdb/pindex/internal/models"
)

var (
	occurrenceHeader = []string{"crime_type", "neighbourhood", "year", "month", "count"}
	indexHeader      = []string{"crime_type", "neighbourhood", "year", "month", "p_index"}
)

// WriteOccurrencesCSV writes one row per populated cell. The layout reads back
// with the default ingest column mapping.
func WriteOccurrencesCSV(w io.Writer, records []models.OccurrenceRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(occurrenceHeader); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			rec.CrimeType,
			rec.Neighbourhood,
			strconv.Itoa(rec.Year),
			strconv.Itoa(rec.Month),
			strconv.Itoa(rec.Count),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteIndexCSV writes one row per computed index value
func WriteIndexCSV(w io.Writer, records []models.IndexRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(indexHeader); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			rec.CrimeType,
			rec.Neighbourhood,
			strconv.Itoa(rec.Year),
			strconv.Itoa(rec.Month),
			strconv.FormatFloat(rec.Index, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteOccurrencesFile writes occurrence tuples to path, replacing it atomically
func WriteOccurrencesFile(path string, records []models.OccurrenceRecord) error {
	return writeFileAtomic(path, func(w io.Writer) error {
		return WriteOccurrencesCSV(w, records)
	})
}

// CSVFile writes index tuples to a file, replacing it atomically
type CSVFile struct {
	Path string
}

// Name identifies the sink in logs
func (f *CSVFile) Name() string {
	return "csv"
}

// WriteIndex writes records to Path
func (f *CSVFile) WriteIndex(_ context.Context, records []models.IndexRecord) error {
	return writeFileAtomic(f.Path, func(w io.Writer) error {
		return WriteIndexCSV(w, records)
	})
}

// writeFileAtomic writes to a temporary file next to path and renames it into place
func writeFileAtomic(path string, write func(w io.Writer) error) error {
	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tmp, err)
	}

	if err := write(file); err != nil {
		_ = file.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to rename %s: %w", tmp, err)
	}
	return nil
}
