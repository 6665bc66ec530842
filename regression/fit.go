package regression

import (
	"errors"
	"fmt"
	"math"

	"github.com/arloliu/costfit/internal/options"
	"github.com/arloliu/costfit/internal/pool"
	"github.com/montanaflynn/stats"
)

var (
	// ErrInsufficientData is returned when the design has fewer distinct
	// parameter vectors than unknowns (parameters plus intercept).
	ErrInsufficientData = errors.New("insufficient data for regression")
	// ErrSingularModel is returned when the normal equations cannot be solved,
	// e.g. a parameter never varies or two parameters are collinear.
	ErrSingularModel = errors.New("singular regression model")
	// ErrCoefficientOverflow is returned when the rounded intercept or a
	// coefficient does not fit in an int64 nanosecond count.
	ErrCoefficientOverflow = errors.New("regression coefficient out of range")
)

// Fit solves the ordinary least-squares model Time ~ p1 + ... + pk with an intercept.
//
// Parameters:
//   - design: response vector and one column per parameter
//   - names: parameter names, one per design column
//   - opts: numerical options (see WithTolerance)
//
// Returns:
//   - *FittedModel: the fitted model; never partially populated
//   - error: ErrInsufficientData, ErrSingularModel, ErrCoefficientOverflow, or a validation error
//
// Example:
//
//	model, err := regression.Fit(design, []string{"N", "M"})
//	if errors.Is(err, regression.ErrSingularModel) {
//	    // a parameter did not vary across the benchmark runs
//	}
func Fit(design Design, names []string, opts ...FitOption) (*FittedModel, error) {
	cfg := defaultFitConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	if err := design.validate(names); err != nil {
		return nil, err
	}

	n := design.Rows()
	k := len(design.Columns)
	if n == 0 {
		return nil, fmt.Errorf("%w: no observations", ErrInsufficientData)
	}

	if distinct := design.distinctRows(); distinct < k+1 {
		return nil, fmt.Errorf("%w: %d distinct parameter vectors for %d unknowns",
			ErrInsufficientData, distinct, k+1)
	}

	xMeans, yMean, xtx, xty := normalEquations(design)

	var inv [][]float64
	coeffs := []float64{}
	if k > 0 {
		var bad int
		var ok bool
		inv, bad, ok = invert(xtx, cfg.Tolerance)
		if !ok {
			return nil, fmt.Errorf("%w: parameter %q has no independent variation", ErrSingularModel, names[bad])
		}
		coeffs = mulVec(inv, xty)
	}

	intercept := yMean
	for i, c := range coeffs {
		intercept -= c * xMeans[i]
	}

	if math.IsNaN(intercept) || math.IsInf(intercept, 0) {
		return nil, fmt.Errorf("%w: non-finite intercept", ErrSingularModel)
	}

	estimator := NewLinearEstimator(intercept, coeffs...)
	predicted, release := pool.GetFloat64Slice(n)
	defer release()
	row := make([]float64, k)
	for r := 0; r < n; r++ {
		for i, col := range design.Columns {
			row[i] = col[r]
		}
		predicted[r] = estimator.Estimate(row...)
	}

	stdErrors := standardErrors(design.Response, predicted, inv)

	base, ok := roundChecked(intercept)
	if !ok {
		return nil, fmt.Errorf("%w: intercept %g ns", ErrCoefficientOverflow, intercept)
	}
	terms := make([]Term, k)
	for i, c := range coeffs {
		v, ok := roundChecked(c)
		if !ok {
			return nil, fmt.Errorf("%w: coefficient of %q is %g ns", ErrCoefficientOverflow, names[i], c)
		}
		terms[i] = Term{Name: names[i], Coefficient: v}
	}

	return &FittedModel{
		Base:         base,
		Terms:        terms,
		StdErrors:    stdErrors,
		Intercept:    intercept,
		Coefficients: coeffs,
		RSquared:     calculateRSquared(design.Response, predicted),
		RMSE:         calculateRMSE(design.Response, predicted),
		Observations: n,
		Formula:      formatFormula(base, terms),
		Estimator:    estimator,
	}, nil
}

// standardErrors returns sqrt(s² * inv[j][j]) for every coefficient, where
// s² = RSS / (n - k - 1). Without residual degrees of freedom every error is 0.
func standardErrors(observed, predicted []float64, inv [][]float64) []float64 {
	k := len(inv)
	out := make([]float64, k)

	dof := len(observed) - k - 1
	if dof <= 0 {
		return out
	}

	var rss float64
	for i := range observed {
		diff := observed[i] - predicted[i]
		rss += diff * diff
	}
	s2 := rss / float64(dof)

	for j := 0; j < k; j++ {
		out[j] = math.Sqrt(math.Max(0, s2*inv[j][j]))
	}

	return out
}

// calculateRSquared calculates the coefficient of determination (R²).
//
// Formula: R² = 1 - (SS_res / SS_tot). A constant response has no variance to
// explain and yields 0.
func calculateRSquared(observed, predicted []float64) float64 {
	if len(observed) == 0 {
		return 0
	}

	mean := calculateMean(observed)
	ssTot := 0.0
	ssRes := 0.0

	for i := range observed {
		ssTot += (observed[i] - mean) * (observed[i] - mean)
		ssRes += (observed[i] - predicted[i]) * (observed[i] - predicted[i])
	}

	if ssTot == 0 {
		return 0
	}

	return 1.0 - (ssRes / ssTot)
}

// calculateRMSE calculates the root mean square error: √(Σ(observed - predicted)² / n)
func calculateRMSE(observed, predicted []float64) float64 {
	if len(observed) == 0 {
		return 0
	}

	sumSq := 0.0
	for i := range observed {
		diff := observed[i] - predicted[i]
		sumSq += diff * diff
	}

	return math.Sqrt(sumSq / float64(len(observed)))
}

// calculateMean returns the arithmetic mean, or 0 for an empty slice.
func calculateMean(values []float64) float64 {
	mean, err := stats.Mean(values)
	if err != nil {
		return 0
	}

	return mean
}
