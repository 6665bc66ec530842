package ingest

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/arloliu/costfit/format"
	"github.com/arloliu/costfit/sample"
	"github.com/arloliu/costfit/samplefile"
)

// ReadFile loads samples from path.
//
// With format.InputAuto the file is read as a sample file when it starts with the
// sample file magic and as benchfmt text otherwise. Options only apply to
// benchfmt input. Reading stops with the context error once ctx is done.
func ReadFile(ctx context.Context, path string, inputFormat format.InputFormat, opts ...Option) ([]sample.Sample, Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, Stats{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, err
	}
	defer f.Close()

	return Read(ctx, f, path, inputFormat, opts...)
}

// Read loads samples from r; name identifies the input in error messages.
// See ReadFile for the format handling.
func Read(ctx context.Context, r io.Reader, name string, inputFormat format.InputFormat, opts ...Option) ([]sample.Sample, Stats, error) {
	br := bufio.NewReader(&contextReader{ctx: ctx, r: r})

	if inputFormat == format.InputAuto || inputFormat == "" {
		magic, _ := br.Peek(len(samplefile.Magic))
		inputFormat = format.InputBenchfmt
		if samplefile.IsSampleFile(magic) {
			inputFormat = format.InputSamples
		}
	}

	switch inputFormat {
	case format.InputBenchfmt:
		return ReadBenchfmt(br, name, opts...)
	case format.InputSamples:
		return readSampleFile(br, name)
	default:
		return nil, Stats{}, fmt.Errorf("ingest: unsupported input format %q", inputFormat)
	}
}

func readSampleFile(r io.Reader, name string) ([]sample.Sample, Stats, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("ingest: read %s: %w", name, err)
	}

	samples, err := samplefile.Decode(data)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("ingest: %s: %w", name, err)
	}
	if len(samples) == 0 {
		return nil, Stats{}, fmt.Errorf("%w in %s", ErrNoSamples, name)
	}

	return samples, Stats{Results: len(samples), Samples: len(samples)}, nil
}

// contextReader fails reads once its context is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}

	return c.r.Read(p)
}
