package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/soltixdb/pindex/internal/compression"
	"github.com/soltixdb/pindex/internal/models"
)

// SnapshotVersion is the current snapshot layout
const SnapshotVersion = 1

// Snapshot is the serialized form of one build's index values
type Snapshot struct {
	Version   int                  `json:"version"`
	CreatedAt time.Time            `json:"created_at"`
	Records   []models.IndexRecord `json:"records"`
}

// SnapshotFile stores index values as compressed JSON
type SnapshotFile struct {
	Path       string
	Compressor compression.Compressor
}

// NewSnapshotFile creates a snapshot sink compressed with algo
func NewSnapshotFile(path string, algo compression.Algorithm) (*SnapshotFile, error) {
	c, err := compression.GetCompressor(algo)
	if err != nil {
		return nil, err
	}
	return &SnapshotFile{Path: path, Compressor: c}, nil
}

// Name identifies the sink in logs
func (s *SnapshotFile) Name() string {
	return "snapshot"
}

// WriteIndex encodes records and replaces the snapshot file
func (s *SnapshotFile) WriteIndex(_ context.Context, records []models.IndexRecord) error {
	frame, err := EncodeSnapshot(Snapshot{
		Version:   SnapshotVersion,
		CreatedAt: time.Now().UTC(),
		Records:   records,
	}, s.Compressor)
	if err != nil {
		return err
	}
	return writeFileAtomic(s.Path, func(w io.Writer) error {
		_, err := w.Write(frame)
		return err
	})
}

// EncodeSnapshot serializes and compresses a snapshot
func EncodeSnapshot(snap Snapshot, c compression.Compressor) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(snap); err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	frame, err := compression.Frame(c, buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to compress snapshot: %w", err)
	}
	return frame, nil
}

// DecodeSnapshot reverses EncodeSnapshot whatever compression was used
func DecodeSnapshot(frame []byte) (Snapshot, error) {
	data, _, err := compression.Unframe(frame)
	if err != nil {
		return Snapshot{}, err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if snap.Version != SnapshotVersion {
		return Snapshot{}, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}
	return snap, nil
}

// LoadSnapshot reads a snapshot file
func LoadSnapshot(path string) (Snapshot, error) {
	frame, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read snapshot: %w", err)
	}
	snap, err := DecodeSnapshot(frame)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}
