// Package sample defines the raw timing measurements consumed by the cost model pipeline.
//
// A Sample is one measurement of a parameterized operation: an ordered list of
// named unsigned parameters and the observed duration in nanoseconds. Durations
// are 128-bit unsigned integers so that cumulative nanosecond timings of very
// long benchmark runs cannot overflow.
//
// Samples are produced by a benchmarking harness (see the ingest package) and are
// treated as immutable once built.
package sample

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"lukechampine.com/uint128"
)

// Duration is a nanosecond duration with a 128-bit unsigned range.
type Duration = uint128.Uint128

// Param is a single named benchmark parameter value.
type Param struct {
	Name  string
	Value uint32
}

// Sample is one timing measurement for a fixed parameter vector.
type Sample struct {
	// Params holds the parameters in harness order.
	Params []Param
	// Duration is the measured time in nanoseconds.
	Duration Duration
}

// New creates a sample from a duration and its parameters.
//
// The parameter slice is copied so later changes by the caller do not leak into
// the sample.
func New(d Duration, params ...Param) Sample {
	ps := make([]Param, len(params))
	copy(ps, params)

	return Sample{Params: ps, Duration: d}
}

// Nanos converts a 64-bit nanosecond count to a Duration.
func Nanos(ns uint64) Duration {
	return uint128.From64(ns)
}

// Vector projects the sample onto its parameter values, names stripped.
func (s Sample) Vector() Vector {
	v := make(Vector, len(s.Params))
	for i, p := range s.Params {
		v[i] = p.Value
	}

	return v
}

// Names returns the parameter names in sample order.
func (s Sample) Names() []string {
	names := make([]string, len(s.Params))
	for i, p := range s.Params {
		names[i] = p.Name
	}

	return names
}

// Vector is the ordered list of parameter values identifying one benchmark configuration.
type Vector []uint32

// Compare orders vectors lexicographically. A vector that is a strict prefix of
// another sorts first.
func (v Vector) Compare(o Vector) int {
	n := min(len(v), len(o))
	for i := 0; i < n; i++ {
		switch {
		case v[i] < o[i]:
			return -1
		case v[i] > o[i]:
			return 1
		}
	}

	switch {
	case len(v) < len(o):
		return -1
	case len(v) > len(o):
		return 1
	default:
		return 0
	}
}

// String renders the vector as a space separated list, e.g. "3 10".
func (v Vector) String() string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatUint(uint64(x), 10)
	}

	return strings.Join(parts, " ")
}

// Float64 converts a duration to the nearest float64.
func Float64(d Duration) float64 {
	return float64(d.Hi)*0x1p64 + float64(d.Lo)
}

// FromFloat64 rounds a non-negative nanosecond value half up to a Duration.
//
// Negative values and NaN map to zero, values beyond the 128-bit range saturate.
func FromFloat64(f float64) Duration {
	switch {
	case math.IsNaN(f) || f <= 0:
		return uint128.Zero
	case f+0.5 < 0x1p64:
		return uint128.From64(uint64(f + 0.5))
	case f >= 0x1p128:
		return uint128.Max
	}

	i, _ := new(big.Float).SetFloat64(math.Floor(f + 0.5)).Int(nil)

	return uint128.FromBig(i)
}
