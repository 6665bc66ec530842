package main

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/arloliu/costfit"
	"github.com/arloliu/costfit/format"
	"github.com/arloliu/costfit/ingest"
	"github.com/arloliu/costfit/internal/logging"
	"github.com/arloliu/costfit/regression"
	"github.com/arloliu/costfit/report"
	"github.com/arloliu/costfit/sample"
	"github.com/montanaflynn/stats"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var inputFormat, benchmark, reportFormat, output string

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Fit a cost model and print the report",
		Long:  "Reads benchmark output or a sample file (stdin when no file or \"-\" is given), fits the cost model and prints the distribution, confidence and model sections",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("input-format") {
				a.cfg.Input.Format = inputFormat
			}
			if flags.Changed("benchmark") {
				a.cfg.Input.Benchmark = benchmark
			}
			if flags.Changed("format") {
				a.cfg.Report.Format = reportFormat
			}
			if flags.Changed("output") {
				a.cfg.Report.Output = output
			}

			path := "-"
			if len(args) == 1 {
				path = args[0]
			}

			return runAnalyze(cmd.Context(), a, path, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&inputFormat, "input-format", "", "Input format: auto, benchfmt or samples")
	cmd.Flags().StringVarP(&benchmark, "benchmark", "b", "", "Benchmark to analyze when the input holds several")
	cmd.Flags().StringVarP(&reportFormat, "format", "f", "", "Report format: text or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the report to a file instead of stdout")

	return cmd
}

func runAnalyze(ctx context.Context, a *app, path string, stdin io.Reader, stdout io.Writer) error {
	logger := logging.GetLogger()

	reportFormat, err := report.ParseFormat(a.cfg.Report.Format)
	if err != nil {
		return err
	}

	samples, readStats, err := readSamples(ctx, a, path, stdin)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"input":         path,
		"results":       readStats.Results,
		"samples":       readStats.Samples,
		"filtered":      readStats.Filtered,
		"skipped":       readStats.Skipped,
		"syntax_errors": readStats.SyntaxErrors,
	}).Info("Loaded samples")

	analysis, err := costfit.Analyze(samples,
		costfit.WithFitOptions(regression.WithTolerance(a.cfg.Fit.Tolerance)))
	if err != nil {
		return err
	}
	logFit(analysis)

	if a.cfg.Report.Output == "" {
		return writeReport(stdout, analysis, reportFormat)
	}

	var buf bytes.Buffer
	if err := writeReport(&buf, analysis, reportFormat); err != nil {
		return err
	}
	if err := writeFileAtomic(a.cfg.Report.Output, buf.Bytes()); err != nil {
		return err
	}
	logger.WithField("file", a.cfg.Report.Output).Info("Report written")

	return nil
}

func writeReport(w io.Writer, analysis *costfit.Analysis, reportFormat report.Format) error {
	if err := report.Write(w, analysis.Result(), reportFormat); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

func logFit(analysis *costfit.Analysis) {
	logger := logging.GetLogger()

	means := make([]float64, len(analysis.Dispersion))
	for i, d := range analysis.Dispersion {
		means[i] = sample.Float64(d.Mean)
	}
	median, err := stats.Median(means)
	if err != nil {
		median = 0
	}

	logger.WithFields(logrus.Fields{
		"groups":         analysis.Groups(),
		"kept_samples":   analysis.KeptSamples(),
		"r_squared":      analysis.Model.RSquared,
		"rmse_ns":        analysis.Model.RMSE,
		"median_mean_ns": median,
		"model":          analysis.Model.Formula,
	}).Info("Fitted cost model")
}

// readSamples reads path, or stdin when path is "-", using the configured input settings.
func readSamples(ctx context.Context, a *app, path string, stdin io.Reader) ([]sample.Sample, ingest.Stats, error) {
	inputFormat, err := format.ParseInputFormat(a.cfg.Input.Format)
	if err != nil {
		return nil, ingest.Stats{}, err
	}

	var opts []ingest.Option
	if a.cfg.Input.Benchmark != "" {
		opts = append(opts, ingest.WithBenchmark(a.cfg.Input.Benchmark))
	}

	if path == "-" {
		return ingest.Read(ctx, stdin, "stdin", inputFormat, opts...)
	}

	return ingest.ReadFile(ctx, path, inputFormat, opts...)
}
