// Package costfit turns repeated benchmark timings into a linear cost model.
//
// The model assumes that the execution time of an operation is an affine function
// of its integer benchmark parameters:
//
//	Time ~= base + c1*N + c2*M + ...
//
// Analyze runs the whole pipeline in one synchronous call: samples are grouped by
// parameter vector, each group drops its lowest and highest quarter, the kept
// durations are fitted with ordinary least squares and every group gets a floor
// mean and population standard deviation. Render prints the result as a three
// section text report.
//
// # Basic Usage
//
//	samples := []sample.Sample{
//	    sample.New(sample.Nanos(11_500_000), sample.Param{Name: "N", Value: 1}, sample.Param{Name: "M", Value: 5}),
//	    // ...
//	}
//
//	analysis, err := costfit.Analyze(samples)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := costfit.Render(os.Stdout, analysis); err != nil {
//	    log.Fatal(err)
//	}
//
// # Package Structure
//
// This package wires the sample, aggregate, regression and report packages
// together. Use those packages directly for finer control, e.g. to fit a
// hand-built regression.Design.
package costfit

import (
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/costfit/aggregate"
	"github.com/arloliu/costfit/internal/options"
	"github.com/arloliu/costfit/regression"
	"github.com/arloliu/costfit/report"
	"github.com/arloliu/costfit/sample"
)

var (
	// ErrInsufficientData reports that no model can be fitted from the input:
	// there are no samples, or fewer distinct parameter vectors than unknowns.
	ErrInsufficientData = aggregate.ErrInsufficientData
	// ErrSingularModel reports that the regression could not be solved, e.g. a
	// parameter never varies or two parameters move together.
	ErrSingularModel = regression.ErrSingularModel
	// ErrShapeMismatch reports samples whose parameter names differ from the first sample.
	ErrShapeMismatch = aggregate.ErrShapeMismatch
	// ErrCoefficientOverflow reports a fitted intercept or coefficient beyond the
	// int64 nanosecond range.
	ErrCoefficientOverflow = regression.ErrCoefficientOverflow
)

// Analysis is the complete outcome of one analysis run.
//
// Analysis is immutable after construction. Its fields never alias the input
// samples, but Result shares them with the report, so callers must not modify
// them.
type Analysis struct {
	// Params holds the parameter names in sample order.
	Params []string
	// Dispersion holds the spread of every parameter vector, in ascending vector order.
	Dispersion []aggregate.Dispersion
	// Model is the fitted cost model.
	Model *regression.FittedModel

	groups int
	kept   int
}

// Groups returns the number of distinct parameter vectors.
func (a *Analysis) Groups() int {
	return a.groups
}

// KeptSamples returns the number of durations left after trimming, i.e. the
// number of regression observations.
func (a *Analysis) KeptSamples() int {
	return a.kept
}

// Result converts the analysis to the report input.
func (a *Analysis) Result() report.Result {
	return report.Result{
		Params:     a.Params,
		Dispersion: a.Dispersion,
		Model:      a.Model,
	}
}

type analyzeConfig struct {
	fitOptions []regression.FitOption
}

// AnalyzeOption configures Analyze.
type AnalyzeOption = options.Option[*analyzeConfig]

// WithFitOptions forwards options to regression.Fit.
//
// Example:
//
//	costfit.Analyze(samples, costfit.WithFitOptions(regression.WithTolerance(1e-12)))
func WithFitOptions(opts ...regression.FitOption) AnalyzeOption {
	return options.NoError(func(cfg *analyzeConfig) {
		cfg.fitOptions = append(cfg.fitOptions, opts...)
	})
}

// Analyze computes the cost model and per-vector dispersion of samples.
//
// Parameters:
//   - samples: raw measurements; all must carry the same parameter names in the same order
//   - opts: optional settings (see WithFitOptions)
//
// Returns:
//   - *Analysis: the model, dispersion stats and parameter names
//   - error: ErrInsufficientData, ErrSingularModel, ErrCoefficientOverflow or ErrShapeMismatch, wrapped with context
//
// Analyze never returns a partial result. The input slice is not modified.
func Analyze(samples []sample.Sample, opts ...AnalyzeOption) (*Analysis, error) {
	var cfg analyzeConfig
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	groups, names, err := aggregate.Aggregate(samples)
	if err != nil {
		return nil, fmt.Errorf("aggregate samples: %w", err)
	}

	response, columns := groups.Columns()
	model, err := regression.Fit(regression.Design{Response: response, Columns: columns}, names, cfg.fitOptions...)
	if err != nil {
		if errors.Is(err, regression.ErrInsufficientData) {
			return nil, fmt.Errorf("fit model: %w: %w", ErrInsufficientData, err)
		}

		return nil, fmt.Errorf("fit model: %w", err)
	}

	return &Analysis{
		Params:     names,
		Dispersion: groups.Dispersion(),
		Model:      model,
		groups:     groups.Len(),
		kept:       groups.SampleCount(),
	}, nil
}

// Render writes the text report of a to w.
func Render(w io.Writer, a *Analysis) error {
	return report.Render(w, a.Result())
}

// RenderJSON writes a as JSON to w.
func RenderJSON(w io.Writer, a *Analysis) error {
	return report.RenderJSON(w, a.Result())
}
