package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arloliu/costfit/internal/config"
	"github.com/arloliu/costfit/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// app carries the state shared by all subcommands.
type app struct {
	configFile string
	logLevel   string
	logFormat  string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Default()}

	rootCmd := &cobra.Command{
		Use:           "costfit",
		Short:         "Benchmark cost model fitter",
		Long:          "Fits Time ~= base + sum(c_i * p_i) to parameterized benchmark timings and reports its quality",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Set log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "Set log format (text, json)")

	rootCmd.AddCommand(newAnalyzeCmd(a))
	rootCmd.AddCommand(newConvertCmd(a))

	return rootCmd
}

// setup loads .env and the config file, then applies the log level and
// format. The --log-level and --log-format flags win over the file.
func (a *app) setup() error {
	loadEnvironment()

	if a.configFile != "" {
		cfg, err := config.Load(a.configFile)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	level := a.cfg.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}
	if err := logging.SetLogLevel(level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	logFormat := a.cfg.LogFormat
	if a.logFormat != "" {
		logFormat = a.logFormat
	}
	formatter, err := logging.ParseFormatter(logFormat)
	if err != nil {
		return err
	}
	logging.SetFormatter(formatter)

	return nil
}

// loadEnvironment loads .env from the working directory, falling back to the
// directory of the executable. Existing variables are not overridden.
func loadEnvironment() {
	logger := logging.GetLogger()

	candidates := []string{".env"}
	if execPath, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(execPath), ".env"))
	}

	for _, envFile := range candidates {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			logger.WithField("file", envFile).WithError(err).Warn("Error loading .env file")
		} else {
			logger.WithField("file", envFile).Debug("Loaded environment variables")
		}

		return
	}
}
