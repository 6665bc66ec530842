package report

import (
	"encoding/json"
	"io"
	"strconv"
)

type jsonReport struct {
	Params       []string    `json:"params"`
	Distribution []jsonPoint `json:"distribution"`
	Model        jsonModel   `json:"model"`
}

type jsonPoint struct {
	Values      []uint32 `json:"values"`
	MeanNanos   string   `json:"mean_ns"`
	StdDevNanos string   `json:"stddev_ns"`
	Percent     string   `json:"percent"`
}

type jsonModel struct {
	BaseNanos    int64      `json:"base_ns"`
	Terms        []jsonTerm `json:"terms"`
	RSquared     float64    `json:"r_squared"`
	RMSE         float64    `json:"rmse_ns"`
	Observations int        `json:"observations"`
	Formula      string     `json:"formula"`
}

type jsonTerm struct {
	Name             string  `json:"name"`
	CoefficientNanos int64   `json:"coefficient_ns"`
	StdErrorNanos    float64 `json:"std_error_ns"`
}

// RenderJSON writes r as an indented JSON document. Durations are encoded as
// decimal strings in nanoseconds because they may exceed 64 bits.
func RenderJSON(w io.Writer, r Result) error {
	if r.Model == nil {
		return ErrNoModel
	}

	doc := jsonReport{
		Params:       r.Params,
		Distribution: make([]jsonPoint, len(r.Dispersion)),
		Model: jsonModel{
			BaseNanos:    r.Model.Base,
			Terms:        make([]jsonTerm, len(r.Model.Terms)),
			RSquared:     r.Model.RSquared,
			RMSE:         r.Model.RMSE,
			Observations: r.Model.Observations,
			Formula:      r.Model.Formula,
		},
	}
	if doc.Params == nil {
		doc.Params = []string{}
	}

	for i, d := range r.Dispersion {
		whole, tenth := Percent(d.Mean, d.StdDev)
		doc.Distribution[i] = jsonPoint{
			Values:      d.Vector,
			MeanNanos:   d.Mean.String(),
			StdDevNanos: d.StdDev.String(),
			Percent:     whole.String() + "." + strconv.FormatUint(tenth, 10),
		}
	}

	for i, t := range r.Model.Terms {
		doc.Model.Terms[i] = jsonTerm{Name: t.Name, CoefficientNanos: t.Coefficient}
		if i < len(r.Model.StdErrors) {
			doc.Model.Terms[i].StdErrorNanos = r.Model.StdErrors[i]
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(doc)
}
