package compress

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/costfit/format"
)

// ErrSizeMismatch is returned by DecompressSize when the payload does not
// decompress to exactly the expected number of bytes.
var ErrSizeMismatch = errors.New("decompressed size mismatch")

// Compressor compresses a sample file payload.
type Compressor interface {
	// Compress returns the compressed form of data. The returned slice may share
	// memory with data for the no-op codec; the input is never modified.
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a payload written by the matching Compressor.
type Decompressor interface {
	// Decompress returns the original payload, or an error if data is corrupted
	// or was produced by a different algorithm.
	Decompress(data []byte) ([]byte, error)
}

// SizedDecompressor restores a payload whose original size is known.
type SizedDecompressor interface {
	// DecompressSize returns the original payload of exactly size bytes. It never
	// produces more than size bytes of output and fails with ErrSizeMismatch when
	// data decodes to a different length.
	DecompressSize(data []byte, size int) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
	SizedDecompressor
}

// Stats describes the effect of compressing one payload.
type Stats struct {
	// Algorithm identifies the codec used.
	Algorithm format.CompressionType
	// OriginalSize is the payload size before compression.
	OriginalSize int64
	// CompressedSize is the payload size after compression.
	CompressedSize int64
}

// Ratio returns CompressedSize / OriginalSize, or 0 for an empty payload.
//
// Values below 1.0 mean the codec saved space.
func (s Stats) Ratio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the saved space as a percentage of the original size.
func (s Stats) SpaceSavings() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return (1.0 - s.Ratio()) * 100.0
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec returns the shared built-in Codec for the compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}

func emptyPayload(size int) ([]byte, error) {
	if size != 0 {
		return nil, fmt.Errorf("%w: empty input, want %d bytes", ErrSizeMismatch, size)
	}

	return nil, nil
}

// readSized drains r and fails as soon as it yields more than size bytes.
func readSized(r io.Reader, size int, algorithm string) ([]byte, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, int64(size)+1))
	if err != nil {
		return nil, fmt.Errorf("%s decompression failed: %w", algorithm, err)
	}
	if n != int64(size) {
		return nil, fmt.Errorf("%w: %s output differs from %d bytes", ErrSizeMismatch, algorithm, size)
	}

	return buf.Bytes(), nil
}
