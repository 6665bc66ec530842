package regression

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixtureDesign is the two-parameter benchmark used throughout the package docs.
func fixtureDesign() Design {
	return Design{
		Response: []float64{11_500_000, 12_500_000, 13_500_000, 14_500_000, 13_100_000, 13_300_000, 13_700_000, 14_000_000},
		Columns: [][]float64{
			{1, 2, 3, 4, 3, 3, 3, 3},
			{5, 5, 5, 5, 1, 3, 7, 10},
		},
	}
}

func TestFitFixture(t *testing.T) {
	model, err := Fit(fixtureDesign(), []string{"N", "M"})
	require.NoError(t, err)

	require.Equal(t, int64(10_000_000), model.Base)
	require.Equal(t, []Term{
		{Name: "N", Coefficient: 1_000_000},
		{Name: "M", Coefficient: 100_000},
	}, model.Terms)
	require.Len(t, model.StdErrors, 2)
	for _, se := range model.StdErrors {
		require.Less(t, se, 1.0)
	}
	require.InDelta(t, 1.0, model.RSquared, 1e-9)
	require.Equal(t, 8, model.Observations)
	require.Equal(t, "Time ~= 10000000 + 1000000*N + 100000*M", model.Formula)
	require.Equal(t, []string{"N", "M"}, model.Names())
}

func TestFitRecoversNoiselessModel(t *testing.T) {
	const base, cA, cB, cC = 2_500_000.0, 31_000.0, 700.0, 12.0

	var d Design
	d.Columns = make([][]float64, 3)
	for a := 1.0; a <= 4; a++ {
		for b := 0.0; b <= 20; b += 5 {
			for c := 10.0; c <= 1000; c *= 10 {
				d.Response = append(d.Response, base+cA*a+cB*b+cC*c)
				d.Columns[0] = append(d.Columns[0], a)
				d.Columns[1] = append(d.Columns[1], b)
				d.Columns[2] = append(d.Columns[2], c)
			}
		}
	}

	model, err := Fit(d, []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Equal(t, int64(base), model.Base)
	require.Equal(t, int64(cA), model.Terms[0].Coefficient)
	require.Equal(t, int64(cB), model.Terms[1].Coefficient)
	require.Equal(t, int64(cC), model.Terms[2].Coefficient)
	require.InDelta(t, 0, model.RMSE, 1e-3)
}

func TestFitStandardErrors(t *testing.T) {
	// Textbook simple regression: slope 0.6, intercept 2.2, RSS 2.4, Sxx 10.
	d := Design{
		Response: []float64{2, 4, 5, 4, 5},
		Columns:  [][]float64{{1, 2, 3, 4, 5}},
	}

	model, err := Fit(d, []string{"x"})
	require.NoError(t, err)
	require.InDelta(t, 2.2, model.Intercept, 1e-12)
	require.InDelta(t, 0.6, model.Coefficients[0], 1e-12)
	require.InDelta(t, math.Sqrt(0.08), model.StdErrors[0], 1e-12)
	require.InDelta(t, 0.6, model.RSquared, 1e-12)
	require.InDelta(t, math.Sqrt(2.4/5), model.RMSE, 1e-12)

	require.Equal(t, int64(2), model.Base)
	require.Equal(t, int64(1), model.Terms[0].Coefficient)
}

func TestFitRepeatedRowsCountAsOneVector(t *testing.T) {
	d := Design{
		Response: []float64{10, 11, 12, 20, 21},
		Columns:  [][]float64{{1, 1, 1, 2, 2}},
	}

	model, err := Fit(d, []string{"n"})
	require.NoError(t, err)
	require.InDelta(t, 9.5, model.Coefficients[0], 1e-12)
	require.InDelta(t, 1.5, model.Intercept, 1e-12)
	require.Equal(t, int64(2), model.Base)
	require.Equal(t, int64(10), model.Terms[0].Coefficient)
}

func TestFitWithoutParameters(t *testing.T) {
	model, err := Fit(Design{Response: []float64{4, 6}}, nil)
	require.NoError(t, err)
	require.Equal(t, int64(5), model.Base)
	require.Empty(t, model.Terms)
	require.Empty(t, model.StdErrors)
	require.Equal(t, "Time ~= 5", model.Formula)
}

func TestFitNoResidualDegreesOfFreedom(t *testing.T) {
	d := Design{
		Response: []float64{3, 5},
		Columns:  [][]float64{{1, 2}},
	}

	model, err := Fit(d, []string{"n"})
	require.NoError(t, err)
	require.Equal(t, int64(1), model.Base)
	require.Equal(t, int64(2), model.Terms[0].Coefficient)
	require.Equal(t, []float64{0}, model.StdErrors)
}

func TestFitNegativeCoefficient(t *testing.T) {
	d := Design{
		Response: []float64{100, 90, 80},
		Columns:  [][]float64{{0, 1, 2}},
	}

	model, err := Fit(d, []string{"n"})
	require.NoError(t, err)
	require.Equal(t, int64(-9), model.Terms[0].Coefficient) // int64(-10 + 0.5)
	require.Equal(t, "Time ~= 100 - 9*n", model.Formula)
}

func TestFitCoefficientOverflow(t *testing.T) {
	t.Run("intercept beyond int64", func(t *testing.T) {
		d := Design{
			Response: []float64{0x1p64 + 1e6, 0x1p64 + 2e6, 0x1p64 + 3e6, 0x1p64 + 4e6},
			Columns:  [][]float64{{1, 2, 3, 4}},
		}
		model, err := Fit(d, []string{"n"})
		require.ErrorIs(t, err, ErrCoefficientOverflow)
		require.Contains(t, err.Error(), "intercept")
		require.Nil(t, model)
	})

	t.Run("slope beyond int64", func(t *testing.T) {
		d := Design{
			Response: []float64{0, 0x1p64, 0x1p65},
			Columns:  [][]float64{{0, 1, 2}},
		}
		model, err := Fit(d, []string{"n"})
		require.ErrorIs(t, err, ErrCoefficientOverflow)
		require.Contains(t, err.Error(), `"n"`)
		require.Nil(t, model)
	})
}

func TestFitInsufficientData(t *testing.T) {
	tests := []struct {
		name   string
		design Design
		names  []string
	}{
		{"no observations", Design{}, nil},
		{"no observations with parameter", Design{Columns: [][]float64{{}}}, []string{"n"}},
		{
			"single vector repeated",
			Design{Response: []float64{1, 2, 3}, Columns: [][]float64{{4, 4, 4}}},
			[]string{"n"},
		},
		{
			"two vectors for three unknowns",
			Design{Response: []float64{1, 2}, Columns: [][]float64{{1, 2}, {3, 4}}},
			[]string{"n", "m"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, err := Fit(tt.design, tt.names)
			require.ErrorIs(t, err, ErrInsufficientData)
			require.Nil(t, model)
		})
	}
}

func TestFitSingular(t *testing.T) {
	t.Run("zero variance parameter", func(t *testing.T) {
		d := Design{
			Response: []float64{1, 2, 3, 4},
			Columns:  [][]float64{{1, 2, 3, 4}, {7, 7, 7, 7}},
		}
		model, err := Fit(d, []string{"n", "k"})
		require.ErrorIs(t, err, ErrSingularModel)
		require.Contains(t, err.Error(), `"k"`)
		require.Nil(t, model)
	})

	t.Run("collinear parameters", func(t *testing.T) {
		d := Design{
			Response: []float64{1, 2, 3, 4},
			Columns:  [][]float64{{1, 2, 3, 4}, {2, 4, 6, 8}},
		}
		model, err := Fit(d, []string{"n", "twice"})
		require.ErrorIs(t, err, ErrSingularModel)
		require.Nil(t, model)
	})
}

func TestFitValidation(t *testing.T) {
	t.Run("names do not match columns", func(t *testing.T) {
		_, err := Fit(fixtureDesign(), []string{"N"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "mismatched design")
	})

	t.Run("column length differs", func(t *testing.T) {
		d := Design{Response: []float64{1, 2, 3}, Columns: [][]float64{{1, 2}}}
		_, err := Fit(d, []string{"n"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "mismatched data lengths")
	})

	t.Run("non-finite response", func(t *testing.T) {
		d := Design{Response: []float64{1, math.NaN()}, Columns: [][]float64{{1, 2}}}
		_, err := Fit(d, []string{"n"})
		require.Error(t, err)
	})
}

func TestWithTolerance(t *testing.T) {
	_, err := Fit(fixtureDesign(), []string{"N", "M"}, WithTolerance(1e-12))
	require.NoError(t, err)

	for _, tol := range []float64{0, -1, 1, math.NaN()} {
		_, err := Fit(fixtureDesign(), []string{"N", "M"}, WithTolerance(tol))
		require.Error(t, err, "tolerance %v", tol)
		require.Contains(t, err.Error(), "tolerance")
	}
}

func TestInvert(t *testing.T) {
	a := [][]float64{{4, 2}, {2, 3}}
	inv, _, ok := invert(a, DefaultTolerance)
	require.True(t, ok)

	// a * inv must be the identity.
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			var s float64
			for k := 0; k < 2; k++ {
				s += a[i][k] * inv[k][j]
			}
			want := 0.0
			if i == j {
				want = 1
			}
			require.InDelta(t, want, s, 1e-12)
		}
	}
	require.Equal(t, [][]float64{{4, 2}, {2, 3}}, a)

	_, bad, ok := invert([][]float64{{1, 1}, {1, 1}}, DefaultTolerance)
	require.False(t, ok)
	require.Equal(t, 1, bad)
}

func TestFitNoisyDataStaysClose(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	var d Design
	d.Columns = make([][]float64, 2)
	for n := 1.0; n <= 10; n++ {
		for m := 1.0; m <= 10; m++ {
			for iter := 0; iter < 5; iter++ {
				noise := rng.NormFloat64() * 1000
				d.Response = append(d.Response, 50_000+2_000*n+300*m+noise)
				d.Columns[0] = append(d.Columns[0], n)
				d.Columns[1] = append(d.Columns[1], m)
			}
		}
	}

	model, err := Fit(d, []string{"n", "m"})
	require.NoError(t, err)
	require.InDelta(t, 2_000, model.Coefficients[0], 5*model.StdErrors[0])
	require.InDelta(t, 300, model.Coefficients[1], 5*model.StdErrors[1])
	require.Greater(t, model.StdErrors[0], 0.0)
	require.Greater(t, model.RSquared, 0.9)
}

func BenchmarkFit(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	var d Design
	d.Columns = make([][]float64, 3)
	for iter := 0; iter < 10_000; iter++ {
		x0, x1, x2 := float64(rng.Intn(100)), float64(rng.Intn(100)), float64(rng.Intn(100))
		d.Response = append(d.Response, 1e6+x0*1e4+x1*1e3+x2*1e2+rng.NormFloat64()*1e3)
		d.Columns[0] = append(d.Columns[0], x0)
		d.Columns[1] = append(d.Columns[1], x1)
		d.Columns[2] = append(d.Columns[2], x2)
	}
	names := []string{"a", "b", "c"}

	b.ResetTimer()
	for iter := 0; iter < b.N; iter++ {
		if _, err := Fit(d, names); err != nil {
			b.Fatal(err)
		}
	}
}
