package regression

import (
	"fmt"
	"strconv"
	"strings"
)

// Term is one fitted parameter of the cost model.
type Term struct {
	// Name is the benchmark parameter name.
	Name string
	// Coefficient is the per-unit cost, rounded half up to an integer.
	Coefficient int64
}

// FittedModel is the outcome of a successful Fit.
//
// Fields:
//   - Base: fitted intercept rounded half up
//   - Terms: one rounded coefficient per parameter, in design column order
//   - StdErrors: unrounded standard error of each coefficient, same order as Terms
//   - Intercept, Coefficients: the raw least-squares solution
//   - RSquared, RMSE: goodness of fit over all observations
//   - Observations: number of response values used
//   - Formula: human-readable form of the rounded model
//   - Estimator: predictor built from the raw solution
type FittedModel struct {
	Base      int64
	Terms     []Term
	StdErrors []float64

	Intercept    float64
	Coefficients []float64

	RSquared     float64
	RMSE         float64
	Observations int

	Formula   string
	Estimator Estimator
}

// Names returns the parameter names in term order.
func (m *FittedModel) Names() []string {
	names := make([]string, len(m.Terms))
	for i, t := range m.Terms {
		names[i] = t.Name
	}

	return names
}

// String returns a one-line summary of the model.
func (m *FittedModel) String() string {
	return fmt.Sprintf("FittedModel{Formula: %s, R²: %.4f, RMSE: %.4f, N: %d}",
		m.Formula, m.RSquared, m.RMSE, m.Observations)
}

// round converts a float to the integer reporting unit by adding 0.5 and
// truncating toward zero.
func round(x float64) int64 {
	return int64(x + 0.5)
}

// roundChecked is round for values whose result fits in an int64.
func roundChecked(x float64) (int64, bool) {
	if v := x + 0.5; !(v >= -0x1p63 && v < 0x1p63) {
		return 0, false
	}

	return round(x), true
}

func formatFormula(base int64, terms []Term) string {
	var sb strings.Builder
	sb.WriteString("Time ~= ")
	sb.WriteString(strconv.FormatInt(base, 10))
	for _, t := range terms {
		if t.Coefficient < 0 {
			sb.WriteString(" - ")
			sb.WriteString(strconv.FormatInt(-t.Coefficient, 10))
		} else {
			sb.WriteString(" + ")
			sb.WriteString(strconv.FormatInt(t.Coefficient, 10))
		}
		sb.WriteByte('*')
		sb.WriteString(t.Name)
	}

	return sb.String()
}
