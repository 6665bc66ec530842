package regression

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Design is the explicit input of a least-squares fit.
//
// Response holds one observed duration per row. Columns holds one slice per
// parameter; Columns[i][r] is the value of parameter i for row r. The intercept
// column is implicit.
type Design struct {
	Response []float64
	Columns  [][]float64
}

// Rows returns the number of observations.
func (d Design) Rows() int {
	return len(d.Response)
}

func (d Design) validate(names []string) error {
	if len(names) != len(d.Columns) {
		return fmt.Errorf("mismatched design: %d parameter names for %d columns", len(names), len(d.Columns))
	}

	for i, col := range d.Columns {
		if len(col) != len(d.Response) {
			return fmt.Errorf("mismatched data lengths: column %q has %d rows, response has %d",
				names[i], len(col), len(d.Response))
		}
	}

	for r, y := range d.Response {
		if math.IsNaN(y) || math.IsInf(y, 0) {
			return fmt.Errorf("invalid response value at row %d: %v", r, y)
		}
	}

	return nil
}

// distinctRows counts the distinct parameter vectors across all rows.
func (d Design) distinctRows() int {
	seen := make(map[string]struct{})
	key := make([]byte, 0, 8*len(d.Columns))

	for r := range d.Response {
		key = key[:0]
		for _, col := range d.Columns {
			key = binary.LittleEndian.AppendUint64(key, math.Float64bits(col[r]))
		}
		seen[string(key)] = struct{}{}
	}

	return len(seen)
}
