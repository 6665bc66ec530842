package regression

import (
	"fmt"

	"github.com/arloliu/costfit/internal/options"
)

// DefaultTolerance is the relative pivot threshold below which the normal
// equations are treated as singular.
const DefaultTolerance = 1e-9

// FitConfig holds the numerical settings of Fit.
type FitConfig struct {
	// Tolerance is compared against each pivot relative to the squared norm of
	// its centered column.
	Tolerance float64
}

func defaultFitConfig() FitConfig {
	return FitConfig{Tolerance: DefaultTolerance}
}

// FitOption is a functional option for FitConfig.
type FitOption = options.Option[*FitConfig]

// WithTolerance sets the singularity threshold. It must lie in (0, 1).
func WithTolerance(tol float64) FitOption {
	return options.New(func(cfg *FitConfig) error {
		if !(tol > 0 && tol < 1) {
			return fmt.Errorf("tolerance must be in (0, 1), got %g", tol)
		}
		cfg.Tolerance = tol

		return nil
	})
}
