package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/pindex/internal/compression"
)

func TestSnapshotFile_RoundTrip(t *testing.T) {
	for _, algo := range []compression.Algorithm{compression.Snappy, compression.None} {
		t.Run(algo.String(), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "pindex.snapshot")
			sink, err := NewSnapshotFile(path, algo)
			require.NoError(t, err)
			assert.Equal(t, "snapshot", sink.Name())

			require.NoError(t, sink.WriteIndex(context.Background(), sampleIndex()))

			snap, err := LoadSnapshot(path)
			require.NoError(t, err)
			assert.Equal(t, SnapshotVersion, snap.Version)
			assert.False(t, snap.CreatedAt.IsZero())
			assert.Equal(t, sampleIndex(), snap.Records)
		})
	}
}

func TestSnapshot_SnappyHeader(t *testing.T) {
	frame, err := EncodeSnapshot(Snapshot{Version: SnapshotVersion, Records: sampleIndex()}, compression.NewSnappyCompressor())
	require.NoError(t, err)
	assert.Equal(t, byte(compression.Snappy), frame[0])
}

func TestDecodeSnapshot_Errors(t *testing.T) {
	_, err := DecodeSnapshot([]byte{})
	assert.True(t, errors.Is(err, compression.ErrCorruptFrame))

	frame, err := compression.Frame(&compression.NoneCompressor{}, []byte(`{"version":99,"records":[]}`))
	require.NoError(t, err)
	_, err = DecodeSnapshot(frame)
	assert.Error(t, err)

	frame, err = compression.Frame(&compression.NoneCompressor{}, []byte(`not json`))
	require.NoError(t, err)
	_, err = DecodeSnapshot(frame)
	assert.Error(t, err)
}

func TestLoadSnapshot_MissingFile(t *testing.T) {
	_, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestNewSnapshotFile_UnknownAlgorithm(t *testing.T) {
	_, err := NewSnapshotFile("x", compression.Algorithm(9))
	assert.Error(t, err)
}
