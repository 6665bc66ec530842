package aggregate

import (
	"slices"

	"github.com/arloliu/costfit/sample"
)

// Trim sorts durations ascending and drops len/4 values from each end.
//
// The cut is unconditional and does not depend on the shape of the distribution.
// Groups with fewer than four values are only sorted. The input slice is left
// untouched; the result is a new slice.
func Trim(durations []sample.Duration) []sample.Duration {
	sorted := slices.Clone(durations)
	slices.SortFunc(sorted, func(a, b sample.Duration) int {
		return a.Cmp(b)
	})

	q := len(sorted) / 4

	return slices.Clip(sorted[q : len(sorted)-q])
}
