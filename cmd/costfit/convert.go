package main

import (
	"github.com/arloliu/costfit/format"
	"github.com/arloliu/costfit/internal/logging"
	"github.com/arloliu/costfit/samplefile"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newConvertCmd(a *app) *cobra.Command {
	var compression, inputFormat, benchmark string
	var bigEndian bool

	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert benchmark output into a compact sample file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger()

			flags := cmd.Flags()
			if flags.Changed("compression") {
				a.cfg.Convert.Compression = compression
			}
			if flags.Changed("input-format") {
				a.cfg.Input.Format = inputFormat
			}
			if flags.Changed("benchmark") {
				a.cfg.Input.Benchmark = benchmark
			}

			ct, err := format.ParseCompression(a.cfg.Convert.Compression)
			if err != nil {
				return err
			}

			samples, readStats, err := readSamples(cmd.Context(), a, args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			opts := []samplefile.EncoderOption{samplefile.WithCompression(ct)}
			if bigEndian {
				opts = append(opts, samplefile.WithBigEndian())
			}
			data, err := samplefile.Encode(samples, opts...)
			if err != nil {
				return err
			}
			header, err := samplefile.ReadHeader(data)
			if err != nil {
				return err
			}
			if err := writeFileAtomic(args[1], data); err != nil {
				return err
			}

			st := header.Stats()
			logger.WithFields(logrus.Fields{
				"input":         args[0],
				"output":        args[1],
				"samples":       readStats.Samples,
				"compression":   st.Algorithm.String(),
				"payload_bytes": st.OriginalSize,
				"stored_bytes":  st.CompressedSize,
				"ratio":         st.Ratio(),
				"savings_pct":   st.SpaceSavings(),
			}).Info("Sample file written")

			return nil
		},
	}

	cmd.Flags().StringVar(&compression, "compression", "", "Payload compression: none, zstd, s2 or lz4")
	cmd.Flags().StringVar(&inputFormat, "input-format", "", "Input format: auto, benchfmt or samples")
	cmd.Flags().StringVarP(&benchmark, "benchmark", "b", "", "Benchmark to convert when the input holds several")
	cmd.Flags().BoolVar(&bigEndian, "big-endian", false, "Store the payload in big-endian byte order")

	return cmd
}
