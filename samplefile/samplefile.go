package samplefile

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"slices"

	"github.com/arloliu/costfit/compress"
	"github.com/arloliu/costfit/endian"
	"github.com/arloliu/costfit/format"
	"github.com/arloliu/costfit/internal/hash"
	"github.com/arloliu/costfit/internal/options"
	"github.com/arloliu/costfit/internal/pool"
	"github.com/arloliu/costfit/sample"
	"lukechampine.com/uint128"
)

const (
	// Version is the container version written by Encode.
	Version = 1
	// HeaderSize is the fixed size of the file header in bytes.
	HeaderSize = 24

	flagBigEndian = 1 << 0
)

// Magic identifies a sample file.
var Magic = [4]byte{'C', 'F', 'S', 'M'}

var (
	// ErrInvalidHeader is returned for data that is not a readable sample file.
	ErrInvalidHeader = errors.New("samplefile: invalid header")
	// ErrTruncated is returned when the data ends before a declared field.
	ErrTruncated = errors.New("samplefile: truncated data")
	// ErrChecksumMismatch is returned when the payload does not match the header checksum.
	ErrChecksumMismatch = errors.New("samplefile: checksum mismatch")
	// ErrCorruptPayload is returned when the payload cannot be decompressed or parsed.
	ErrCorruptPayload = errors.New("samplefile: corrupt payload")
	// ErrInconsistentParams is returned by Encode when samples differ in parameter names.
	ErrInconsistentParams = errors.New("samplefile: samples have different parameters")
)

// Header is the decoded fixed-size file header.
type Header struct {
	Version     uint8
	Compression format.CompressionType
	BigEndian   bool
	Checksum    uint64
	RawSize     uint32
	StoredSize  uint32
}

// Stats returns the compression statistics of the payload.
func (h Header) Stats() compress.Stats {
	return compress.Stats{
		Algorithm:      h.Compression,
		OriginalSize:   int64(h.RawSize),
		CompressedSize: int64(h.StoredSize),
	}
}

func (h Header) engine() endian.EndianEngine {
	if h.BigEndian {
		return endian.GetBigEndianEngine()
	}

	return endian.GetLittleEndianEngine()
}

// IsSampleFile reports whether data starts with the sample file magic.
func IsSampleFile(data []byte) bool {
	return bytes.HasPrefix(data, Magic[:])
}

// ReadHeader decodes and validates the header at the start of data.
func ReadHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		if !IsSampleFile(data) && len(data) >= len(Magic) {
			return Header{}, fmt.Errorf("%w: bad magic", ErrInvalidHeader)
		}

		return Header{}, fmt.Errorf("%w: %d bytes, header needs %d", ErrTruncated, len(data), HeaderSize)
	}
	if !IsSampleFile(data) {
		return Header{}, fmt.Errorf("%w: bad magic", ErrInvalidHeader)
	}

	le := endian.GetLittleEndianEngine()
	h := Header{
		Version:     data[4],
		Compression: format.CompressionType(data[5]),
		Checksum:    le.Uint64(data[8:16]),
		RawSize:     le.Uint32(data[16:20]),
		StoredSize:  le.Uint32(data[20:24]),
	}
	flags := le.Uint16(data[6:8])
	h.BigEndian = flags&flagBigEndian != 0

	if h.Version != Version {
		return Header{}, fmt.Errorf("%w: unsupported version %d", ErrInvalidHeader, h.Version)
	}
	if flags&^flagBigEndian != 0 {
		return Header{}, fmt.Errorf("%w: unknown flags %#04x", ErrInvalidHeader, flags)
	}
	if _, err := compress.GetCodec(h.Compression); err != nil {
		return Header{}, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}

	return h, nil
}

// Encode serializes samples into a sample file.
//
// Parameters:
//   - samples: measurements that all carry the same parameter names
//   - opts: encoding options (WithCompression, WithBigEndian)
//
// Returns:
//   - []byte: the complete file contents, owned by the caller
//   - error: ErrInconsistentParams, a size limit error or a codec error
func Encode(samples []sample.Sample, opts ...EncoderOption) ([]byte, error) {
	cfg := defaultEncoderConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	buf := pool.GetPayloadBuffer()
	defer pool.PutPayloadBuffer(buf)

	if err := encodePayload(buf, samples, cfg.engine); err != nil {
		return nil, err
	}
	payload := buf.Bytes()
	if uint64(len(payload)) > math.MaxUint32 {
		return nil, fmt.Errorf("samplefile: payload of %d bytes exceeds the format limit", len(payload))
	}

	codec, err := compress.GetCodec(cfg.compression)
	if err != nil {
		return nil, err
	}
	stored, err := codec.Compress(payload)
	if err != nil {
		return nil, fmt.Errorf("samplefile: compress payload: %w", err)
	}
	if uint64(len(stored)) > math.MaxUint32 {
		return nil, fmt.Errorf("samplefile: stored payload of %d bytes exceeds the format limit", len(stored))
	}

	var flags uint16
	if endian.IsBigEndian(cfg.engine) {
		flags |= flagBigEndian
	}

	le := endian.GetLittleEndianEngine()
	out := make([]byte, 0, HeaderSize+len(stored))
	out = append(out, Magic[:]...)
	out = append(out, Version, byte(cfg.compression))
	out = le.AppendUint16(out, flags)
	out = le.AppendUint64(out, hash.Checksum(payload))
	out = le.AppendUint32(out, uint32(len(payload)))
	out = le.AppendUint32(out, uint32(len(stored)))
	out = append(out, stored...)

	return out, nil
}

func encodePayload(buf *pool.ByteBuffer, samples []sample.Sample, engine endian.EndianEngine) error {
	var names []string
	if len(samples) > 0 {
		names = samples[0].Names()
	}
	if len(names) > math.MaxUint16 {
		return fmt.Errorf("samplefile: %d parameters exceed the format limit", len(names))
	}
	if uint64(len(samples)) > math.MaxUint32 {
		return fmt.Errorf("samplefile: %d samples exceed the format limit", len(samples))
	}

	buf.Grow(2 + 4 + len(samples)*(4*len(names)+16))

	b := buf.B
	b = engine.AppendUint16(b, uint16(len(names)))
	for _, name := range names {
		if len(name) > math.MaxUint16 {
			return fmt.Errorf("samplefile: parameter name of %d bytes exceeds the format limit", len(name))
		}
		b = engine.AppendUint16(b, uint16(len(name)))
		b = append(b, name...)
	}

	b = engine.AppendUint32(b, uint32(len(samples)))
	for i, s := range samples {
		if !sameNames(names, s.Params) {
			return fmt.Errorf("%w: sample %d has %v, want %v", ErrInconsistentParams, i, s.Names(), names)
		}
		for _, p := range s.Params {
			b = engine.AppendUint32(b, p.Value)
		}
		b = engine.AppendUint64(b, s.Duration.Lo)
		b = engine.AppendUint64(b, s.Duration.Hi)
	}
	buf.B = b

	return nil
}

func sameNames(names []string, params []sample.Param) bool {
	return slices.EqualFunc(names, params, func(n string, p sample.Param) bool {
		return n == p.Name
	})
}

// Decode parses a sample file produced by Encode.
//
// The header, stored size and checksum are verified before any sample is
// returned; a damaged file never yields partial results.
func Decode(data []byte) ([]sample.Sample, error) {
	h, err := ReadHeader(data)
	if err != nil {
		return nil, err
	}

	stored := data[HeaderSize:]
	switch {
	case len(stored) < int(h.StoredSize):
		return nil, fmt.Errorf("%w: payload has %d of %d bytes", ErrTruncated, len(stored), h.StoredSize)
	case len(stored) > int(h.StoredSize):
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrInvalidHeader, len(stored)-int(h.StoredSize))
	}

	payload, err := decompress(h, stored)
	if err != nil {
		return nil, err
	}
	if !hash.Verify(payload, h.Checksum) {
		return nil, ErrChecksumMismatch
	}

	return decodePayload(payload, h.engine())
}

func decompress(h Header, stored []byte) ([]byte, error) {
	codec, err := compress.GetCodec(h.Compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptPayload, err)
	}

	payload, err := codec.DecompressSize(stored, int(h.RawSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptPayload, err)
	}

	return payload, nil
}

func decodePayload(payload []byte, engine endian.EndianEngine) ([]sample.Sample, error) {
	r := reader{buf: payload, engine: engine}

	count, err := r.uint16()
	if err != nil {
		return nil, err
	}
	names := make([]string, count)
	for i := range names {
		n, err := r.uint16()
		if err != nil {
			return nil, err
		}
		raw, err := r.bytes(int(n))
		if err != nil {
			return nil, err
		}
		names[i] = string(raw)
	}

	total, err := r.uint32()
	if err != nil {
		return nil, err
	}
	recordSize := 4*len(names) + 16
	if remaining := len(payload) - r.off; int64(total)*int64(recordSize) != int64(remaining) {
		return nil, fmt.Errorf("%w: %d samples need %d bytes, %d left",
			ErrCorruptPayload, total, int64(total)*int64(recordSize), remaining)
	}

	samples := make([]sample.Sample, total)
	for i := range samples {
		params := make([]sample.Param, len(names))
		for j, name := range names {
			v, _ := r.uint32()
			params[j] = sample.Param{Name: name, Value: v}
		}
		lo, _ := r.uint64()
		hi, _ := r.uint64()
		samples[i] = sample.Sample{Params: params, Duration: uint128.New(lo, hi)}
	}

	return samples, nil
}

type reader struct {
	buf    []byte
	off    int
	engine endian.EndianEngine
}

func (r *reader) bytes(n int) ([]byte, error) {
	if n > len(r.buf)-r.off {
		return nil, fmt.Errorf("%w: payload ends at offset %d, need %d more bytes", ErrTruncated, len(r.buf), n)
	}
	b := r.buf[r.off : r.off+n]
	r.off += n

	return b, nil
}

func (r *reader) uint16() (uint16, error) {
	b, err := r.bytes(2)
	if err != nil {
		return 0, err
	}

	return r.engine.Uint16(b), nil
}

func (r *reader) uint32() (uint32, error) {
	b, err := r.bytes(4)
	if err != nil {
		return 0, err
	}

	return r.engine.Uint32(b), nil
}

func (r *reader) uint64() (uint64, error) {
	b, err := r.bytes(8)
	if err != nil {
		return 0, err
	}

	return r.engine.Uint64(b), nil
}

// WriteFile encodes samples and writes them to path with mode 0644.
func WriteFile(path string, samples []sample.Sample, opts ...EncoderOption) error {
	data, err := Encode(samples, opts...)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// ReadFile reads and decodes the sample file at path.
func ReadFile(path string) ([]sample.Sample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	samples, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return samples, nil
}
