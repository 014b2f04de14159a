// Package compression wraps snapshot payloads in a one-byte algorithm header
// so a reader can decode them without knowing how they were written.
package compression

import (
	"errors"
	"fmt"
	"strings"
)

// Algorithm defines compression types
type Algorithm uint8

const (
	None   Algorithm = 0
	Snappy Algorithm = 1
)

// ErrCorruptFrame is returned when a framed payload cannot be decoded
var ErrCorruptFrame = errors.New("corrupt compressed frame")

// Compressor interface for compression algorithms
type Compressor interface {
	// Compress compresses data
	Compress(data []byte) ([]byte, error)

	// Decompress decompresses data
	Decompress(data []byte) ([]byte, error)

	// Algorithm returns the compression algorithm type
	Algorithm() Algorithm
}

func (a Algorithm) String() string {
	switch a {
	case None:
		return "none"
	case Snappy:
		return "snappy"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(a))
	}
}

// ParseAlgorithm maps a configuration name to an Algorithm
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "snappy":
		return Snappy, nil
	case "none":
		return None, nil
	default:
		return None, fmt.Errorf("unsupported compression algorithm: %q", name)
	}
}

// GetCompressor returns a compressor for the given algorithm
func GetCompressor(algo Algorithm) (Compressor, error) {
	switch algo {
	case None:
		return &NoneCompressor{}, nil
	case Snappy:
		return NewSnappyCompressor(), nil
	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %d", algo)
	}
}

// Frame compresses data and prefixes the algorithm byte
func Frame(c Compressor, data []byte) ([]byte, error) {
	body, err := c.Compress(data)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(body)+1)
	out = append(out, byte(c.Algorithm()))
	return append(out, body...), nil
}

// Unframe reads the algorithm byte written by Frame and decompresses the rest
func Unframe(frame []byte) ([]byte, Algorithm, error) {
	if len(frame) == 0 {
		return nil, None, fmt.Errorf("%w: empty frame", ErrCorruptFrame)
	}
	algo := Algorithm(frame[0])
	c, err := GetCompressor(algo)
	if err != nil {
		return nil, algo, fmt.Errorf("%w: %v", ErrCorruptFrame, err)
	}
	data, err := c.Decompress(frame[1:])
	if err != nil {
		return nil, algo, fmt.Errorf("%w: %v", ErrCorruptFrame, err)
	}
	return data, algo, nil
}

// NoneCompressor is a no-op compressor
type NoneCompressor struct{}

func (n *NoneCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

func (n *NoneCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}

func (n *NoneCompressor) Algorithm() Algorithm {
	return None
}
