// Package compress provides the payload codecs of costfit sample files.
//
// A sample file stores its encoded samples as a single payload that can be
// compressed with one of the codecs below. The codec is recorded in the file
// header as a format.CompressionType so a reader picks the matching Decompressor.
//
//   - None (format.CompressionNone): payload stored as is
//   - Zstd (format.CompressionZstd): best ratio, the usual choice for archived runs
//   - S2 (format.CompressionS2): fast, moderate ratio
//   - LZ4 (format.CompressionLZ4): fastest decompression
//
// # Usage
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	packed, err := codec.Compress(payload)
//	...
//	payload, err = codec.Decompress(packed)
//
// When the original size is known, as it is from a sample file header,
// DecompressSize decodes into exactly that many bytes and rejects payloads
// that would expand beyond it with ErrSizeMismatch.
//
// # Build tags
//
// Zstd uses the pure Go github.com/klauspost/compress/zstd implementation by
// default. Building with cgo enabled and the gozstd tag switches to the
// github.com/valyala/gozstd bindings of the reference C library. Both produce
// standard Zstandard frames, so files written by one build are readable by the
// other.
//
// All codecs are safe for concurrent use.
package compress
