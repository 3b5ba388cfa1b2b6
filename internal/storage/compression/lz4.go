package compression

import (
	"fmt"

	"github.com/pierrec/lz4"
)

// NoCompressor implements a pass-through compressor that doesn't compress data.
type NoCompressor struct{}

func (c *NoCompressor) Name() string { return "none" }
func (c *NoCompressor) ID() byte     { return 0 }

// Compress returns a copy of data.
func (c *NoCompressor) Compress(data []byte) ([]byte, error) {
	return append([]byte(nil), data...), nil
}

// Decompress returns a copy of data.
func (c *NoCompressor) Decompress(data []byte, size int) ([]byte, error) {
	if len(data) != size {
		return nil, fmt.Errorf("stored value is %d bytes, expected %d", len(data), size)
	}
	return append([]byte(nil), data...), nil
}

// LZ4Compressor implements LZ4 block compression.
type LZ4Compressor struct{}

func (c *LZ4Compressor) Name() string { return "lz4" }
func (c *LZ4Compressor) ID() byte     { return 1 }

// Compress compresses data using LZ4. Input LZ4 cannot shrink, such as
// high-entropy price data, comes back as an empty slice; callers fall back
// to storing it uncompressed.
func (c *LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}

	compressed := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compression failed: %w", err)
	}
	return compressed[:n], nil
}

// Decompress decompresses LZ4 data into a buffer of exactly size bytes.
func (c *LZ4Compressor) Decompress(data []byte, size int) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}

	decompressed := make([]byte, size)
	n, err := lz4.UncompressBlock(data, decompressed)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompression failed: %w", err)
	}
	if n != size {
		return nil, fmt.Errorf("lz4 decompressed %d bytes, expected %d", n, size)
	}
	return decompressed, nil
}
