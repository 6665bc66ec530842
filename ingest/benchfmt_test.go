package ingest

import (
	"os"
	"strings"
	"testing"

	"github.com/arloliu/costfit/sample"
	"github.com/stretchr/testify/require"
)

func openTestdata(t *testing.T, name string) *os.File {
	t.Helper()
	f, err := os.Open("testdata/" + name)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	return f
}

func TestReadBenchfmtSelectsBenchmark(t *testing.T) {
	samples, stats, err := ReadBenchfmt(openTestdata(t, "insert.txt"), "insert.txt", WithBenchmark("BenchmarkInsert"))
	require.NoError(t, err)

	require.Len(t, samples, 8)
	require.Equal(t, 13, stats.Results)
	require.Equal(t, 8, stats.Samples)
	require.Equal(t, 5, stats.Filtered)
	require.Zero(t, stats.Skipped)

	first := samples[0]
	require.Equal(t, []string{"N", "M"}, first.Names())
	require.Equal(t, sample.Vector{1, 5}, first.Vector())
	require.Equal(t, sample.Nanos(11_500_000), first.Duration)

	require.Equal(t, sample.Vector{3, 10}, samples[7].Vector())
	require.Equal(t, sample.Nanos(14_000_000), samples[7].Duration)
}

func TestReadBenchfmtSkipsUnusableResults(t *testing.T) {
	samples, stats, err := ReadBenchfmt(openTestdata(t, "insert.txt"), "insert.txt", WithBenchmark("Lookup"))
	require.NoError(t, err)

	// N=huge is not an integer; the cold variant keeps N and ignores the bare part.
	require.Len(t, samples, 3)
	require.Equal(t, 1, stats.Skipped)
	require.Equal(t, sample.Nanos(1_052), samples[0].Duration)
	require.Equal(t, sample.Nanos(1_105), samples[1].Duration, "1104.6 ns rounds half up")
	require.Equal(t, sample.Vector{3}, samples[2].Vector())
}

func TestReadBenchfmtWithoutTimeSkips(t *testing.T) {
	_, stats, err := ReadBenchfmt(openTestdata(t, "insert.txt"), "insert.txt", WithBenchmark("Alloc"))
	require.ErrorIs(t, err, ErrNoSamples)
	require.Equal(t, 1, stats.Skipped)
}

func TestReadBenchfmtAmbiguous(t *testing.T) {
	_, _, err := ReadBenchfmt(openTestdata(t, "insert.txt"), "insert.txt")
	require.ErrorIs(t, err, ErrAmbiguousBenchmark)
	require.Contains(t, err.Error(), "Insert, Lookup")
}

func TestReadBenchfmtSingleBenchmarkNeedsNoFilter(t *testing.T) {
	input := "BenchmarkSort/len=10-4 \t 500 \t 2000 ns/op\nBenchmarkSort/len=20-4 \t 500 \t 4100 ns/op\n"

	samples, stats, err := ReadBenchfmt(strings.NewReader(input), "sort.txt")
	require.NoError(t, err)
	require.Len(t, samples, 2)
	require.Equal(t, 2, stats.Samples)
	require.Equal(t, []string{"len"}, samples[1].Names())
	require.Equal(t, sample.Nanos(4_100), samples[1].Duration)
}

func TestReadBenchfmtEmpty(t *testing.T) {
	_, _, err := ReadBenchfmt(strings.NewReader("PASS\n"), "empty.txt")
	require.ErrorIs(t, err, ErrNoSamples)
}

func TestWithBenchmarkRejectsEmptyName(t *testing.T) {
	_, _, err := ReadBenchfmt(strings.NewReader(""), "x", WithBenchmark("Benchmark"))
	require.Error(t, err)
}
