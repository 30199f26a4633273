// Package missing resolves which measurements of a state-space model are observed at a given period.
// The filter and the smoother must agree on the observed rows of every period,
// so both resolve them with Resolve.
package missing

import (
	ssm "github.com/milosgajdos/go-ssm"
)

// Observation is the set of observed measurement rows at a single period.
// The zero value means no measurement was observed.
type Observation struct {
	rows []int
}

// None returns Observation with no observed rows.
func None() Observation {
	return Observation{}
}

// Observed returns true if at least one measurement row was observed.
func (o Observation) Observed() bool {
	return len(o.rows) > 0
}

// Rows returns ordered indices of the observed measurement rows.
func (o Observation) Rows() []int {
	rows := make([]int, len(o.rows))
	copy(rows, o.rows)

	return rows
}

// Resolve returns measurement rows of model m observed at period t.
// Periods are numbered from 1 to T; column t-1 of the model data holds period t.
// It returns None if t is out of range or if all measurements at t are missing.
func Resolve(m ssm.Model, t int) Observation {
	_, n, T := m.Dims()
	if t < 1 || t > T {
		return None()
	}

	y := m.Data()
	var rows []int
	for i := 0; i < n; i++ {
		if !ssm.IsMissing(y.At(i, t-1)) {
			rows = append(rows, i)
		}
	}

	return Observation{rows: rows}
}
