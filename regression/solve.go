package regression

import "math"

// normalEquations builds X'X and X'y from mean-centered columns and response.
//
// Returns the column means, the response mean, the k x k matrix X'X and the
// vector X'y.
func normalEquations(d Design) (xMeans []float64, yMean float64, xtx [][]float64, xty []float64) {
	n := d.Rows()
	k := len(d.Columns)

	yMean = calculateMean(d.Response)
	xMeans = make([]float64, k)
	for i, col := range d.Columns {
		xMeans[i] = calculateMean(col)
	}

	xtx = make([][]float64, k)
	for i := range xtx {
		xtx[i] = make([]float64, k)
	}
	xty = make([]float64, k)

	centered := make([]float64, k)
	for r := 0; r < n; r++ {
		dy := d.Response[r] - yMean
		for i, col := range d.Columns {
			centered[i] = col[r] - xMeans[i]
		}
		for i := 0; i < k; i++ {
			xty[i] += centered[i] * dy
			for j := 0; j <= i; j++ {
				xtx[i][j] += centered[i] * centered[j]
			}
		}
	}

	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			xtx[i][j] = xtx[j][i]
		}
	}

	return xMeans, yMean, xtx, xty
}

// invert computes the inverse of the symmetric positive semi-definite matrix a
// with Gauss-Jordan elimination and partial pivoting.
//
// A pivot smaller than tol times the original diagonal entry of its column marks
// the matrix as singular; invert then returns ok=false and the offending column.
// The input matrix is not modified.
func invert(a [][]float64, tol float64) (inv [][]float64, badColumn int, ok bool) {
	n := len(a)

	// Augmented matrix [a | I].
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, 2*n)
		copy(m[i], a[i])
		m[i][n+i] = 1
	}

	for col := 0; col < n; col++ {
		scale := a[col][col]

		pivotRow := col
		for r := col + 1; r < n; r++ {
			if math.Abs(m[r][col]) > math.Abs(m[pivotRow][col]) {
				pivotRow = r
			}
		}

		pivot := m[pivotRow][col]
		if scale <= 0 || math.Abs(pivot) <= tol*scale {
			return nil, col, false
		}

		m[col], m[pivotRow] = m[pivotRow], m[col]

		row := m[col]
		for j := range row {
			row[j] /= pivot
		}

		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			f := m[r][col]
			if f == 0 {
				continue
			}
			for j := range m[r] {
				m[r][j] -= f * row[j]
			}
		}
	}

	inv = make([][]float64, n)
	for i := range inv {
		inv[i] = m[i][n:]
	}

	return inv, -1, true
}

// mulVec returns a * v.
func mulVec(a [][]float64, v []float64) []float64 {
	out := make([]float64, len(a))
	for i, row := range a {
		var s float64
		for j, x := range row {
			s += x * v[j]
		}
		out[i] = s
	}

	return out
}
