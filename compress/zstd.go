package compress

// ZstdCompressor provides Zstandard compression.
//
// Sample payloads are dominated by repeated parameter vectors and durations of
// similar magnitude, which Zstd compresses well. The implementation is chosen at
// build time, see the package documentation.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
//
// Example:
//
//	compressor := NewZstdCompressor()
//	compressed, err := compressor.Compress(data)
//	if err != nil {
//		return err
//	}
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
