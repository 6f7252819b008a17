// Package compression frames cached payloads with the algorithm that
// produced them, so entries stay readable after the cache setting changes.
package compression

import (
	"errors"
	"fmt"
)

// Algorithm defines compression types
type Algorithm uint8

const (
	None   Algorithm = 0
	Snappy Algorithm = 1
)

// ErrEmptyFrame is returned when decoding a payload with no header byte
var ErrEmptyFrame = errors.New("compression: empty frame")

// Compressor interface for compression algorithms
type Compressor interface {
	// Compress compresses data
	Compress(data []byte) ([]byte, error)

	// Decompress decompresses data
	Decompress(data []byte) ([]byte, error)

	// Algorithm returns the compression algorithm type
	Algorithm() Algorithm
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

// ForSetting returns Snappy when enabled and the no-op compressor otherwise
func ForSetting(enabled bool) Compressor {
	if enabled {
		return NewSnappyCompressor()
	}
	return &NoneCompressor{}
}

// Encode compresses data and prefixes the algorithm byte
func Encode(c Compressor, data []byte) ([]byte, error) {
	body, err := c.Compress(data)
	if err != nil {
		return nil, err
	}
	frame := make([]byte, 0, len(body)+1)
	frame = append(frame, byte(c.Algorithm()))
	return append(frame, body...), nil
}

// Decode reads the algorithm byte and decompresses the remainder
func Decode(frame []byte) ([]byte, error) {
	if len(frame) == 0 {
		return nil, ErrEmptyFrame
	}
	c, err := GetCompressor(Algorithm(frame[0]))
	if err != nil {
		return nil, err
	}
	return c.Decompress(frame[1:])
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
