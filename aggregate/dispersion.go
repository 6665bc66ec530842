package aggregate

import (
	"math"

	"github.com/arloliu/costfit/sample"
	"lukechampine.com/uint128"
)

// Stat is the spread of one group of durations.
type Stat struct {
	// Mean is floor(sum / count).
	Mean sample.Duration
	// StdDev is the floored population standard deviation around Mean.
	StdDev sample.Duration
}

// Dispersion pairs a parameter vector with the spread of its trimmed durations.
type Dispersion struct {
	Vector sample.Vector
	Stat
}

// Dispersion returns one entry per group, in group order.
func (g *Groups) Dispersion() []Dispersion {
	out := make([]Dispersion, 0, len(g.groups))
	for _, grp := range g.groups {
		out = append(out, Dispersion{Vector: grp.Vector, Stat: Summarize(grp.Durations)})
	}

	return out
}

// Summarize computes the integer mean and population standard deviation of durations.
//
// Squared deviations use the absolute difference from the mean so every step stays
// in unsigned arithmetic. An empty slice yields a zero Stat.
func Summarize(durations []sample.Duration) Stat {
	if len(durations) == 0 {
		return Stat{}
	}

	count := uint64(len(durations))

	total := uint128.Zero
	for _, d := range durations {
		total = total.Add(d)
	}
	mean := total.Div64(count)

	sumSq := uint128.Zero
	for _, d := range durations {
		diff := absDiff(d, mean)
		sumSq = sumSq.Add(diff.Mul(diff))
	}

	variance := sample.Float64(sumSq) / float64(count)
	stddev := sample.FromFloat64(math.Floor(math.Sqrt(variance)))

	return Stat{Mean: mean, StdDev: stddev}
}

func absDiff(a, b sample.Duration) sample.Duration {
	if a.Cmp(b) >= 0 {
		return a.Sub(b)
	}

	return b.Sub(a)
}
