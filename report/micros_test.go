package report

import (
	"math"
	"testing"

	"github.com/arloliu/costfit/sample"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"
)

func TestMicros(t *testing.T) {
	tests := []struct {
		ns   uint64
		want string
	}{
		{0, "0"},
		{1, "0.001"},
		{999, "0.999"},
		{1_000, "1"},
		{1_234, "1.234"},
		{10_000, "10"},
		{10_001, "10"},
		{12_345, "12.34"},
		{123_456, "123.4"},
		{1_000_000, "1000"},
		{1_234_567, "1234"},
		{12_345_678, "12340"},
		{123_456_789, "123400"},
		{100_000_001, "100000"},
		{9_876_543_210, "9876500"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, Micros(sample.Nanos(tt.ns)), "Micros(%d)", tt.ns)
	}
}

func TestMicrosBeyond64Bits(t *testing.T) {
	// 2^64 + 123456 ns truncates to a multiple of 100000.
	v := uint128.New(123_456, 1)
	require.Equal(t, "18446744073709600", Micros(v))
}

func TestSignedMicros(t *testing.T) {
	require.Equal(t, "2.5", SignedMicros(2_500))
	require.Equal(t, "-2.5", SignedMicros(-2_500))
	require.Equal(t, "-12340", SignedMicros(-12_345_678))
	require.Equal(t, "0", SignedMicros(0))
	require.Equal(t, "-9223372036854700", SignedMicros(math.MinInt64))
}

func TestFloatMicros(t *testing.T) {
	require.Equal(t, "1.234", FloatMicros(1234.9))
	require.Equal(t, "0", FloatMicros(0.4))
	require.Equal(t, "0", FloatMicros(-5))
	require.Equal(t, "0", FloatMicros(math.NaN()))
}

func TestPercent(t *testing.T) {
	tests := []struct {
		mean, sigma uint64
		whole       string
		tenth       uint64
	}{
		{1_000_000, 123_456, "12", 3},
		{1_000, 0, "0", 0},
		{3, 1, "33", 3},
		{3, 2, "66", 6}, // truncated, not rounded
		{100, 250, "250", 0},
		{0, 5, "0", 0},
	}

	for _, tt := range tests {
		whole, tenth := Percent(sample.Nanos(tt.mean), sample.Nanos(tt.sigma))
		require.Equal(t, tt.whole, whole.String(), "mean %d sigma %d", tt.mean, tt.sigma)
		require.Equal(t, tt.tenth, tenth, "mean %d sigma %d", tt.mean, tt.sigma)
	}
}
