// Package ingest reads benchmark samples from files.
//
// Two inputs are supported: the text output of go test -bench, parsed with
// golang.org/x/perf/benchfmt, and the binary sample files of the samplefile
// package. Every benchmark result line becomes one sample; its parameters come
// from sub-benchmark name parts of the form /key=value.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/arloliu/costfit/internal/options"
	"github.com/arloliu/costfit/sample"
	"golang.org/x/perf/benchfmt"
)

var (
	// ErrNoSamples is returned when an input yields no usable sample.
	ErrNoSamples = errors.New("ingest: no samples found")
	// ErrAmbiguousBenchmark is returned when benchfmt input holds several
	// benchmarks and none was selected with WithBenchmark.
	ErrAmbiguousBenchmark = errors.New("ingest: input contains several benchmarks")
)

const (
	unitSecPerOp = "sec/op"
	unitNsPerOp  = "ns/op"
)

// Stats counts what a reader did with its input.
type Stats struct {
	// Results is the number of benchmark result lines seen.
	Results int
	// Samples is the number of samples produced.
	Samples int
	// Filtered counts results dropped by WithBenchmark.
	Filtered int
	// Skipped counts results without a time per operation or with a
	// non-integer parameter value.
	Skipped int
	// SyntaxErrors counts malformed lines.
	SyntaxErrors int
}

type readConfig struct {
	benchmark string
}

// Option configures the readers of this package.
type Option = options.Option[*readConfig]

// WithBenchmark keeps only results of the named benchmark. The name may be
// given with or without the "Benchmark" prefix.
func WithBenchmark(name string) Option {
	return options.New(func(cfg *readConfig) error {
		name = strings.TrimPrefix(strings.TrimSpace(name), "Benchmark")
		if name == "" {
			return errors.New("ingest: empty benchmark name")
		}
		cfg.benchmark = name

		return nil
	})
}

// ReadBenchfmt parses go test -bench output into samples.
//
// For a line such as
//
//	BenchmarkInsert/N=100/M=8-16   1000   1234567 ns/op
//
// the sample has parameters N=100 and M=8, in name order, and a duration of
// 1234567ns. Parts that are not key=value pairs are ignored, as is the
// GOMAXPROCS suffix. The time per operation is rounded half up to whole
// nanoseconds.
//
// Parameters:
//   - r: benchmark output
//   - fileName: name used in syntax error messages
//   - opts: reader options (see WithBenchmark)
//
// Returns:
//   - []sample.Sample: samples in input order
//   - Stats: counts of seen, kept and skipped results
//   - error: ErrNoSamples, ErrAmbiguousBenchmark or a read error
func ReadBenchfmt(r io.Reader, fileName string, opts ...Option) ([]sample.Sample, Stats, error) {
	var cfg readConfig
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, Stats{}, err
	}

	var (
		stats   Stats
		samples []sample.Sample
		bases   = make(map[string]struct{})
	)

	reader := benchfmt.NewReader(r, fileName)
	for reader.Scan() {
		switch rec := reader.Result().(type) {
		case *benchfmt.SyntaxError:
			stats.SyntaxErrors++
		case *benchfmt.Result:
			stats.Results++

			base, parts := rec.Name.Parts()
			if cfg.benchmark != "" && string(base) != cfg.benchmark {
				stats.Filtered++
				continue
			}

			s, ok := toSample(rec, parts)
			if !ok {
				stats.Skipped++
				continue
			}
			bases[string(base)] = struct{}{}
			samples = append(samples, s)
		}
	}
	if err := reader.Err(); err != nil {
		return nil, stats, fmt.Errorf("ingest: read %s: %w", fileName, err)
	}

	if len(bases) > 1 {
		return nil, stats, fmt.Errorf("%w: %s; select one benchmark", ErrAmbiguousBenchmark, joinKeys(bases))
	}
	if len(samples) == 0 {
		return nil, stats, fmt.Errorf("%w in %s", ErrNoSamples, fileName)
	}
	stats.Samples = len(samples)

	return samples, stats, nil
}

func toSample(res *benchfmt.Result, parts [][]byte) (sample.Sample, bool) {
	ns, ok := nanosPerOp(res)
	if !ok {
		return sample.Sample{}, false
	}

	var params []sample.Param
	for _, part := range parts {
		kv, isSub := strings.CutPrefix(string(part), "/")
		if !isSub {
			continue
		}
		key, value, found := strings.Cut(kv, "=")
		if !found {
			continue
		}
		v, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return sample.Sample{}, false
		}
		params = append(params, sample.Param{Name: key, Value: uint32(v)})
	}

	return sample.New(sample.FromFloat64(ns), params...), true
}

// nanosPerOp returns the time per operation in nanoseconds. The original ns/op
// figure is used when present so integral values stay exact.
func nanosPerOp(res *benchfmt.Result) (float64, bool) {
	for _, v := range res.Values {
		switch {
		case v.OrigUnit == unitNsPerOp:
			return v.OrigValue, validDuration(v.OrigValue)
		case v.Unit == unitNsPerOp:
			return v.Value, validDuration(v.Value)
		}
	}

	secs, ok := res.Value(unitSecPerOp)
	if !ok {
		return 0, false
	}
	ns := secs * 1e9

	return ns, validDuration(ns)
}

func validDuration(ns float64) bool {
	return ns >= 0 && !math.IsNaN(ns) && !math.IsInf(ns, 0)
}

func joinKeys(set map[string]struct{}) string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return strings.Join(keys, ", ")
}
