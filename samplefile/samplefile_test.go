package samplefile

import (
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/arloliu/costfit/compress"
	"github.com/arloliu/costfit/format"
	"github.com/arloliu/costfit/sample"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"
)

func nm(n, m uint32, ns uint64) sample.Sample {
	return sample.New(sample.Nanos(ns),
		sample.Param{Name: "N", Value: n},
		sample.Param{Name: "M", Value: m},
	)
}

func testSamples() []sample.Sample {
	out := []sample.Sample{
		nm(1, 5, 11_500_000),
		nm(2, 5, 12_500_000),
		nm(3, 10, 14_000_000),
		{
			Params:   []sample.Param{{Name: "N", Value: 7}, {Name: "M", Value: 0xffffffff}},
			Duration: uint128.New(42, 3), // beyond 64 bits
		},
	}
	for i := 0; i < 200; i++ {
		out = append(out, nm(uint32(i%4), uint32(i%3), uint64(10_000_000+i)))
	}

	return out
}

func TestRoundTrip(t *testing.T) {
	compressions := []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	}

	for _, ct := range compressions {
		for _, big := range []bool{false, true} {
			name := ct.String()
			opts := []EncoderOption{WithCompression(ct)}
			if big {
				name += "/big"
				opts = append(opts, WithBigEndian())
			}

			t.Run(name, func(t *testing.T) {
				want := testSamples()
				data, err := Encode(want, opts...)
				require.NoError(t, err)
				require.True(t, IsSampleFile(data))

				h, err := ReadHeader(data)
				require.NoError(t, err)
				require.Equal(t, ct, h.Compression)
				require.Equal(t, big, h.BigEndian)
				require.Equal(t, int(h.StoredSize), len(data)-HeaderSize)

				got, err := Decode(data)
				require.NoError(t, err)
				require.Equal(t, want, got)
			})
		}
	}
}

func TestEncodeDefaultsToZstd(t *testing.T) {
	data, err := Encode(testSamples())
	require.NoError(t, err)

	h, err := ReadHeader(data)
	require.NoError(t, err)
	require.Equal(t, format.CompressionZstd, h.Compression)
	require.False(t, h.BigEndian)
	require.Less(t, h.Stats().Ratio(), 1.0)
}

func TestEmptySampleSet(t *testing.T) {
	data, err := Encode(nil, WithCompression(format.CompressionNone))
	require.NoError(t, err)
	require.Len(t, data, HeaderSize+6)

	got, err := Decode(data)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestEncodeRejectsInconsistentParams(t *testing.T) {
	samples := []sample.Sample{
		nm(1, 1, 10),
		sample.New(sample.Nanos(10), sample.Param{Name: "M", Value: 1}, sample.Param{Name: "N", Value: 1}),
	}

	_, err := Encode(samples)
	require.ErrorIs(t, err, ErrInconsistentParams)
	require.Contains(t, err.Error(), "sample 1")
}

func TestWithCompressionRejectsUnknown(t *testing.T) {
	_, err := Encode(testSamples(), WithCompression(format.CompressionType(9)))
	require.Error(t, err)
}

func encodeNone(t *testing.T) []byte {
	t.Helper()
	data, err := Encode(testSamples(), WithCompression(format.CompressionNone))
	require.NoError(t, err)

	return data
}

func TestDecodeErrors(t *testing.T) {
	t.Run("short input", func(t *testing.T) {
		_, err := Decode([]byte("CF"))
		require.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("bad magic", func(t *testing.T) {
		data := encodeNone(t)
		data[0] = 'X'
		_, err := Decode(data)
		require.ErrorIs(t, err, ErrInvalidHeader)
	})

	t.Run("unsupported version", func(t *testing.T) {
		data := encodeNone(t)
		data[4] = 2
		_, err := Decode(data)
		require.ErrorIs(t, err, ErrInvalidHeader)
	})

	t.Run("unknown compression", func(t *testing.T) {
		data := encodeNone(t)
		data[5] = 0x7f
		_, err := Decode(data)
		require.ErrorIs(t, err, ErrInvalidHeader)
	})

	t.Run("unknown flags", func(t *testing.T) {
		data := encodeNone(t)
		data[6] |= 0x80
		_, err := Decode(data)
		require.ErrorIs(t, err, ErrInvalidHeader)
	})

	t.Run("truncated payload", func(t *testing.T) {
		data := encodeNone(t)
		_, err := Decode(data[:len(data)-1])
		require.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("trailing bytes", func(t *testing.T) {
		data := append(encodeNone(t), 0)
		_, err := Decode(data)
		require.ErrorIs(t, err, ErrInvalidHeader)
	})

	t.Run("flipped payload bit", func(t *testing.T) {
		data := encodeNone(t)
		data[len(data)-3] ^= 0x01
		_, err := Decode(data)
		require.ErrorIs(t, err, ErrChecksumMismatch)
	})

	t.Run("raw size mismatch", func(t *testing.T) {
		data := encodeNone(t)
		binary.LittleEndian.PutUint32(data[16:20], 5)
		_, err := Decode(data)
		require.ErrorIs(t, err, ErrCorruptPayload)
		require.ErrorIs(t, err, compress.ErrSizeMismatch)
	})

	t.Run("corrupt compressed payload", func(t *testing.T) {
		data, err := Encode(testSamples(), WithCompression(format.CompressionZstd))
		require.NoError(t, err)
		for i := HeaderSize; i < HeaderSize+8; i++ {
			data[i] = 0xff
		}
		_, err = Decode(data)
		require.ErrorIs(t, err, ErrCorruptPayload)
	})
}

// craftFile frames stored under a header that claims rawSize payload bytes.
func craftFile(ct format.CompressionType, stored []byte, rawSize uint32) []byte {
	out := make([]byte, 0, HeaderSize+len(stored))
	out = append(out, Magic[:]...)
	out = append(out, Version, byte(ct))
	out = binary.LittleEndian.AppendUint16(out, 0)
	out = binary.LittleEndian.AppendUint64(out, 0)
	out = binary.LittleEndian.AppendUint32(out, rawSize)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(stored)))

	return append(out, stored...)
}

func TestDecodeRejectsPayloadLargerThanHeader(t *testing.T) {
	zeros := make([]byte, 8<<20)

	for _, ct := range []format.CompressionType{
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := compress.GetCodec(ct)
			require.NoError(t, err)
			stored, err := codec.Compress(zeros)
			require.NoError(t, err)

			_, err = Decode(craftFile(ct, stored, 64))
			require.ErrorIs(t, err, ErrCorruptPayload)
			require.ErrorIs(t, err, compress.ErrSizeMismatch)
		})
	}
}

func TestDecodePayloadCountMismatch(t *testing.T) {
	engine := binary.LittleEndian
	payload := engine.AppendUint16(nil, 1)
	payload = engine.AppendUint16(payload, 1)
	payload = append(payload, 'N')
	payload = engine.AppendUint32(payload, 2) // two samples declared, one present
	payload = engine.AppendUint32(payload, 3)
	payload = engine.AppendUint64(payload, 100)
	payload = engine.AppendUint64(payload, 0)

	_, err := decodePayload(payload, engine)
	require.ErrorIs(t, err, ErrCorruptPayload)

	_, err = decodePayload(payload[:3], engine)
	require.ErrorIs(t, err, ErrTruncated)
}

func TestWriteReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.cfsm")
	want := testSamples()

	require.NoError(t, WriteFile(path, want, WithCompression(format.CompressionS2)))

	got, err := ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, want, got)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.cfsm"))
	require.Error(t, err)
}

func BenchmarkEncode(b *testing.B) {
	samples := testSamples()
	b.ResetTimer()
	for iter := 0; iter < b.N; iter++ {
		if _, err := Encode(samples); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecode(b *testing.B) {
	data, err := Encode(testSamples())
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for iter := 0; iter < b.N; iter++ {
		if _, err := Decode(data); err != nil {
			b.Fatal(err)
		}
	}
}
