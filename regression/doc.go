// Package regression fits affine cost models to benchmark timings with ordinary least squares.
//
// The package solves a dense multivariate linear regression
//
//	Time = base + c1*p1 + c2*p2 + ... + ck*pk
//
// over an explicit design matrix: one response vector of measured durations and
// one column per benchmark parameter. There is no formula language; callers hand
// over typed slices and get back a FittedModel holding the intercept, one
// coefficient per parameter, the coefficient standard errors and goodness-of-fit
// metrics.
//
// # Usage
//
//	design := regression.Design{
//	    Response: []float64{11.5e6, 12.5e6, 13.5e6},
//	    Columns:  [][]float64{{1, 2, 3}},
//	}
//	model, err := regression.Fit(design, []string{"N"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(model.Formula) // Time ~= 10500000 + 1000000*N
//
// # Method
//
// Parameter columns and the response are centered on their means before the
// normal equations X'X b = X'y are solved with Gauss-Jordan elimination and
// partial pivoting. Centering folds the intercept out of the system, so a
// parameter that never varies shows up as an all-zero column and is reported as
// ErrSingularModel instead of producing a meaningless coefficient. The inverse
// of X'X obtained along the way yields the coefficient standard errors:
//
//	se(cj) = sqrt(RSS / (n - k - 1) * inv(X'X)[j][j])
//
// # Rounding
//
// The reported base and coefficients are integers obtained by adding 0.5 and
// truncating toward zero. The raw float values stay available on the model and
// through its Estimator.
//
// # Failures
//
// Fit never returns a partial model. ErrInsufficientData means there are fewer
// distinct parameter vectors than unknowns; ErrSingularModel means the system
// could not be solved numerically.
package regression
