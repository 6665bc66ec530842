package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/arloliu/costfit/sample"
	"lukechampine.com/uint128"
)

// Micros renders a nanosecond duration in microseconds.
//
// Precision drops as the value grows: for x in 100000, 10000, ..., 10 the first x
// with ns > 1000*x truncates ns to a multiple of x. Values up to 10 µs keep every
// nanosecond digit.
//
// Example:
//
//	report.Micros(sample.Nanos(999))        // "0.999"
//	report.Micros(sample.Nanos(12_345_678)) // "12340"
func Micros(ns sample.Duration) string {
	for x := uint64(100_000); x > 1; x /= 10 {
		if ns.Cmp64(x*1000) > 0 {
			ns = ns.Div64(x).Mul64(x)
			break
		}
	}

	return thousandths(ns)
}

// SignedMicros renders a signed nanosecond value with the Micros scaling rule.
// Negative values keep their sign in front of the scaled magnitude.
func SignedMicros(ns int64) string {
	if ns < 0 {
		return "-" + Micros(uint128.From64(uint64(-ns)))
	}

	return Micros(uint128.From64(uint64(ns)))
}

// FloatMicros truncates a float nanosecond value toward zero and renders it with
// Micros. Negative and NaN values render as 0.
func FloatMicros(ns float64) string {
	return Micros(sample.FromFloat64(math.Trunc(ns)))
}

// thousandths prints v/1000 as an exact decimal without trailing zeros.
func thousandths(v sample.Duration) string {
	q, r := v.QuoRem64(1000)
	if r == 0 {
		return q.String()
	}

	frac := strings.TrimRight(fmt.Sprintf("%03d", r), "0")

	return q.String() + "." + frac
}

// Percent returns sigma as a percentage of mean with one decimal digit, split
// into sigma*100/mean and sigma*1000/mean % 10. Both parts use integer division,
// so the digit is truncated rather than rounded. A zero mean yields 0 and 0.
func Percent(mean, sigma sample.Duration) (whole sample.Duration, tenth uint64) {
	if mean.IsZero() {
		return uint128.Zero, 0
	}

	whole = sigma.Mul64(100).Div(mean)
	tenth = sigma.Mul64(1000).Div(mean).Mod64(10)

	return whole, tenth
}
