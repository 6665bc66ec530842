// Package config loads the YAML configuration of the costfit command.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/arloliu/costfit/format"
	"github.com/arloliu/costfit/internal/logging"
	"github.com/arloliu/costfit/regression"
	"github.com/arloliu/costfit/report"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config mirrors the configuration file:
//
//	log_level: info
//	log_format: text
//	input:
//	  format: auto
//	  benchmark: Insert
//	report:
//	  format: text
//	  output: ${COSTFIT_OUT}
//	convert:
//	  compression: zstd
//	fit:
//	  tolerance: 1e-9
type Config struct {
	LogLevel  string        `yaml:"log_level"`
	LogFormat string        `yaml:"log_format"`
	Input     InputConfig   `yaml:"input"`
	Report    ReportConfig  `yaml:"report"`
	Convert   ConvertConfig `yaml:"convert"`
	Fit       FitConfig     `yaml:"fit"`
}

type InputConfig struct {
	Format    string `yaml:"format"`
	Benchmark string `yaml:"benchmark"`
}

type ReportConfig struct {
	Format string `yaml:"format"`
	// Output is the report path; empty means stdout.
	Output string `yaml:"output"`
}

type ConvertConfig struct {
	Compression string `yaml:"compression"`
}

type FitConfig struct {
	Tolerance float64 `yaml:"tolerance"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		Input:     InputConfig{Format: string(format.InputAuto)},
		Report:    ReportConfig{Format: string(report.FormatText)},
		Convert:   ConvertConfig{Compression: "zstd"},
		Fit:       FitConfig{Tolerance: regression.DefaultTolerance},
	}
}

// Load reads path, expands ${VAR} references from the environment and
// validates the result. Keys missing from the file keep their Default value.
func Load(path string) (*Config, error) {
	logger := logging.GetLogger()

	data, err := os.ReadFile(path)
	if err != nil {
		logger.WithField("filepath", path).WithError(err).Error("Failed to read config file")
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), cfg); err != nil {
		logger.WithField("filepath", path).WithError(err).Error("Failed to parse config file")
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	logger.WithField("filepath", path).Debug("Loaded config file")

	return cfg, nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} with its value. Unset or empty variables are
// left as written.
func expandEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		envVar := strings.Trim(match, "${}")
		if value := os.Getenv(envVar); value != "" {
			return value
		}

		return match
	})
}

// Validate checks every enumerated setting.
func (c *Config) Validate() error {
	var errs []error

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if _, err := logging.ParseFormatter(c.LogFormat); err != nil {
		errs = append(errs, fmt.Errorf("log_format: %w", err))
	}
	if _, err := format.ParseInputFormat(c.Input.Format); err != nil {
		errs = append(errs, fmt.Errorf("input.format: %w", err))
	}
	if _, err := report.ParseFormat(c.Report.Format); err != nil {
		errs = append(errs, fmt.Errorf("report.format: %w", err))
	}
	if _, err := format.ParseCompression(c.Convert.Compression); err != nil {
		errs = append(errs, fmt.Errorf("convert.compression: %w", err))
	}
	if !(c.Fit.Tolerance > 0 && c.Fit.Tolerance < 1) {
		errs = append(errs, fmt.Errorf("fit.tolerance must be in (0, 1), got %g", c.Fit.Tolerance))
	}

	return errors.Join(errs...)
}
