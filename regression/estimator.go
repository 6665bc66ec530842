package regression

import (
	"fmt"
	"math"
)

// Estimator predicts a duration from parameter values.
type Estimator interface {
	// Estimate returns the predicted duration in nanoseconds for the given
	// parameter values, in design column order.
	Estimate(params ...float64) float64
	// Coefficients returns the intercept followed by one slope per parameter.
	Coefficients() []float64
	// SetCoefficients replaces the model coefficients. The count must not change.
	SetCoefficients(coeffs []float64) error
}

// LinearEstimator implements the affine model: Time = a + b1*p1 + ... + bk*pk
type LinearEstimator struct {
	coeffs []float64 // intercept first
}

var _ Estimator = (*LinearEstimator)(nil)

// NewLinearEstimator creates an estimator from an intercept and per-parameter slopes.
func NewLinearEstimator(intercept float64, slopes ...float64) *LinearEstimator {
	coeffs := make([]float64, 0, len(slopes)+1)
	coeffs = append(coeffs, intercept)
	coeffs = append(coeffs, slopes...)

	return &LinearEstimator{coeffs: coeffs}
}

// Estimate evaluates the model. It returns NaN when the number of parameters
// does not match the number of slopes.
func (l *LinearEstimator) Estimate(params ...float64) float64 {
	if len(params) != len(l.coeffs)-1 {
		return math.NaN()
	}

	y := l.coeffs[0]
	for i, p := range params {
		y += l.coeffs[i+1] * p
	}

	return y
}

// Coefficients returns a copy of [intercept, slope1, ..., slopek].
func (l *LinearEstimator) Coefficients() []float64 {
	out := make([]float64, len(l.coeffs))
	copy(out, l.coeffs)

	return out
}

// SetCoefficients updates the intercept and slopes in place.
func (l *LinearEstimator) SetCoefficients(coeffs []float64) error {
	if len(coeffs) != len(l.coeffs) {
		return fmt.Errorf("linear model expects exactly %d coefficients, got %d", len(l.coeffs), len(coeffs))
	}
	copy(l.coeffs, coeffs)

	return nil
}
