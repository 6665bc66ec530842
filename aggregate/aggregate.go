// Package aggregate groups raw timing samples by parameter vector and trims outliers.
//
// The aggregator is the first stage of the cost model pipeline. Samples sharing
// an identical parameter vector are collected into one group, each group is sorted
// and stripped of its lowest and highest quartile, and the surviving durations feed
// both the regression design matrix and the per-group dispersion statistics.
//
// Groups are always exposed in ascending parameter vector order so that every
// downstream stage (regression input, dispersion table, report) sees the same
// deterministic ordering regardless of the order samples were collected in.
package aggregate

import (
	"encoding/binary"
	"errors"
	"fmt"
	"slices"

	"github.com/arloliu/costfit/sample"
)

var (
	// ErrInsufficientData is returned when there are no samples to aggregate.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrShapeMismatch is returned when a sample's parameter names differ from the first sample.
	ErrShapeMismatch = errors.New("sample parameters do not match the first sample")
)

// Group holds the durations measured for one parameter vector.
type Group struct {
	Vector    sample.Vector
	Durations []sample.Duration
}

// Groups is the ordered, trimmed result of Aggregate.
//
// Groups is immutable after construction; accessors return the internal slices
// and callers must not modify them.
type Groups struct {
	groups []Group
}

// Len returns the number of distinct parameter vectors.
func (g *Groups) Len() int {
	return len(g.groups)
}

// All returns the groups in ascending vector order.
func (g *Groups) All() []Group {
	return g.groups
}

// SampleCount returns the number of durations kept across all groups.
func (g *Groups) SampleCount() int {
	n := 0
	for _, grp := range g.groups {
		n += len(grp.Durations)
	}

	return n
}

// Columns flattens the groups into a regression response and one column per parameter.
//
// The response holds every kept duration in group order. Column i repeats the
// i-th parameter value of a group once for each of that group's durations, so all
// returned slices have the same length.
func (g *Groups) Columns() (response []float64, columns [][]float64) {
	n := g.SampleCount()
	response = make([]float64, 0, n)

	width := 0
	if len(g.groups) > 0 {
		width = len(g.groups[0].Vector)
	}
	columns = make([][]float64, width)
	for i := range columns {
		columns[i] = make([]float64, 0, n)
	}

	for _, grp := range g.groups {
		for _, d := range grp.Durations {
			response = append(response, sample.Float64(d))
			for i, v := range grp.Vector {
				columns[i] = append(columns[i], float64(v))
			}
		}
	}

	return response, columns
}

// Aggregate groups samples by parameter vector and trims each group.
//
// The parameter names of the first sample are authoritative: every other sample
// must carry the same names in the same order. The input slice is not modified.
//
// Returns:
//   - *Groups: trimmed groups in ascending vector order
//   - []string: parameter names in first-sample order
//   - error: ErrInsufficientData for empty input, ErrShapeMismatch for inconsistent parameters
func Aggregate(samples []sample.Sample) (*Groups, []string, error) {
	if len(samples) == 0 {
		return nil, nil, fmt.Errorf("%w: no samples provided", ErrInsufficientData)
	}

	names := samples[0].Names()

	index := make(map[string]int)
	var groups []Group
	var keyBuf []byte

	for i, s := range samples {
		if !sameShape(names, s.Params) {
			return nil, nil, fmt.Errorf("%w: sample %d has parameters %v, want %v",
				ErrShapeMismatch, i, s.Names(), names)
		}

		keyBuf = keyBuf[:0]
		for _, p := range s.Params {
			keyBuf = binary.LittleEndian.AppendUint32(keyBuf, p.Value)
		}

		idx, ok := index[string(keyBuf)]
		if !ok {
			idx = len(groups)
			index[string(keyBuf)] = idx
			groups = append(groups, Group{Vector: s.Vector()})
		}
		groups[idx].Durations = append(groups[idx].Durations, s.Duration)
	}

	slices.SortFunc(groups, func(a, b Group) int {
		return a.Vector.Compare(b.Vector)
	})

	for i := range groups {
		groups[i].Durations = Trim(groups[i].Durations)
	}

	return &Groups{groups: groups}, names, nil
}

func sameShape(names []string, params []sample.Param) bool {
	if len(names) != len(params) {
		return false
	}
	for i, p := range params {
		if p.Name != names[i] {
			return false
		}
	}

	return true
}
