// Package report renders a fitted cost model and its data quality diagnostics.
//
// The text layout has three fixed sections: the per-vector data point
// distribution, the standard error of every parameter, and the model formula.
// All durations are shown in microseconds using the Micros scaling rule.
package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arloliu/costfit/aggregate"
	"github.com/arloliu/costfit/regression"
)

// ErrNoModel is returned when a Result carries no fitted model.
var ErrNoModel = errors.New("report: result has no fitted model")

// Format selects the rendering of a Result.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat converts a format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown report format %q", s)
	}
}

// Result is everything the report shows.
type Result struct {
	// Params holds the parameter names in sample order.
	Params []string
	// Dispersion holds one entry per parameter vector, in ascending vector order.
	Dispersion []aggregate.Dispersion
	// Model is the fitted cost model.
	Model *regression.FittedModel
}

// Write renders r in the requested format.
func Write(w io.Writer, r Result, format Format) error {
	switch format {
	case FormatJSON:
		return RenderJSON(w, r)
	default:
		return Render(w, r)
	}
}

// Render writes the text report:
//
//	Data points distribution:
//	    N     M   mean µs  sigma µs       %
//	    1     5      11500         0    0.0%
//	...
//
//	Quality and confidence:
//	param     error
//	N             0
//	...
//
//	Model:
//	Time ~=    10000
//	    + N     1000
//	    + M      100
//	              µs
//
// The output depends only on r. The first write error is returned unchanged.
func Render(w io.Writer, r Result) error {
	if r.Model == nil {
		return ErrNoModel
	}

	ew := &errWriter{w: w}

	ew.printf("Data points distribution:\n")
	ew.printf("%s   mean µs  sigma µs       %%\n", padJoin(r.Params))
	for _, d := range r.Dispersion {
		values := make([]string, len(d.Vector))
		for i, v := range d.Vector {
			values[i] = strconv.FormatUint(uint64(v), 10)
		}
		whole, tenth := Percent(d.Mean, d.StdDev)
		ew.printf("%s  %8s  %8s  %3s.%d%%\n",
			padJoin(values), Micros(d.Mean), Micros(d.StdDev), whole.String(), tenth)
	}

	ew.printf("\nQuality and confidence:\n")
	ew.printf("param     error\n")
	for i, t := range r.Model.Terms {
		var se float64
		if i < len(r.Model.StdErrors) {
			se = r.Model.StdErrors[i]
		}
		ew.printf("%s      %8s\n", t.Name, FloatMicros(se))
	}

	ew.printf("\nModel:\n")
	ew.printf("Time ~= %8s\n", SignedMicros(r.Model.Base))
	for _, t := range r.Model.Terms {
		ew.printf("    + %s %8s\n", t.Name, SignedMicros(t.Coefficient))
	}
	ew.printf("              µs\n")

	return ew.err
}

// padJoin right-aligns every field to five columns and joins them with a space.
func padJoin(fields []string) string {
	padded := make([]string, len(fields))
	for i, f := range fields {
		padded[i] = fmt.Sprintf("%5s", f)
	}

	return strings.Join(padded, " ")
}

// errWriter stops writing after the first failure and keeps that error.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
