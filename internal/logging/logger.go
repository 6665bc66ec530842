// Package logging holds the process-wide logrus logger used by the command line tool.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var logger *logrus.Logger

func init() {
	logger = logrus.New()
	// Reports go to stdout; keep diagnostics out of them.
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(newTextFormatter())
	logger.SetLevel(logrus.InfoLevel)
}

func newTextFormatter() *logrus.TextFormatter {
	return &logrus.TextFormatter{
		FullTimestamp: true,
		DisableColors: false,
	}
}

// ParseFormatter returns the formatter for a log format name: text or json.
func ParseFormatter(name string) (logrus.Formatter, error) {
	switch strings.ToLower(name) {
	case "text":
		return newTextFormatter(), nil
	case "json":
		return &logrus.JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown log format %q (want text or json)", name)
	}
}

func GetLogger() *logrus.Logger {
	return logger
}

// SetLogLevel parses level (trace, debug, info, warn, error, fatal, panic) and applies it.
func SetLogLevel(level string) error {
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logger.SetLevel(logLevel)

	return nil
}

func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

func SetFormatter(formatter logrus.Formatter) {
	logger.SetFormatter(formatter)
}
