package compress

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4CompressorPool pools lz4.Compressor instances, which keep a hash table between calls.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

const (
	// maxLZ4Output bounds the buffer used when the decompressed size is unknown.
	maxLZ4Output    = 128 * 1024 * 1024
	lz4MaxExpansion = 255
)

// LZ4Compressor provides LZ4 block compression.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 compressor.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress compresses the input data using LZ4 block compression.
//
// Returns:
//   - []byte: compressed data (nil if input is empty)
//   - error: compression error if any
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, err
	}

	return dst[:n], nil
}

// Decompress decompresses an LZ4 block.
//
// LZ4 blocks do not record their original size, so the output buffer starts at
// four times the input and doubles on ErrInvalidSourceShortBuffer. Growth stops
// at the largest size the block format can expand to, capped at 128MB.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	// Every input byte expands to at most 255 output bytes.
	limit := min(len(data)*lz4MaxExpansion, maxLZ4Output)
	bufSize := min(len(data)*4, limit)

	for {
		buf := make([]byte, bufSize)
		n, err := lz4.UncompressBlock(data, buf)
		if err == nil {
			return buf[:n], nil
		}
		if !errors.Is(err, lz4.ErrInvalidSourceShortBuffer) || bufSize >= limit {
			return nil, err
		}
		bufSize = min(bufSize*2, limit)
	}
}

// DecompressSize decompresses an LZ4 block into a buffer of exactly size bytes.
func (c LZ4Compressor) DecompressSize(data []byte, size int) ([]byte, error) {
	if len(data) == 0 {
		return emptyPayload(size)
	}
	if size > len(data)*lz4MaxExpansion {
		return nil, fmt.Errorf("%w: %d byte block cannot expand to %d bytes", ErrSizeMismatch, len(data), size)
	}

	buf := make([]byte, size)
	n, err := lz4.UncompressBlock(data, buf)
	switch {
	case errors.Is(err, lz4.ErrInvalidSourceShortBuffer):
		return nil, fmt.Errorf("%w: lz4 block exceeds %d bytes", ErrSizeMismatch, size)
	case err != nil:
		return nil, fmt.Errorf("lz4 decompression failed: %w", err)
	case n != size:
		return nil, fmt.Errorf("%w: lz4 block holds %d bytes, want %d", ErrSizeMismatch, n, size)
	}

	return buf, nil
}
