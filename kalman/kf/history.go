package kf

import (
	"gonum.org/v1/gonum/mat"
)

// History stores KF estimates of every filtered period in chronological order.
// History only grows: KF appends one entry per Step.
type History struct {
	rows   [][]int
	xPrior []*mat.VecDense
	xPost  []*mat.VecDense
	pPrior []*mat.SymDense
	pPost  []*mat.SymDense
	e      []*mat.VecDense
	invF   []*mat.Dense
	l      []*mat.Dense
}

// newHistory returns empty History with capacity for n periods
func newHistory(n int) *History {
	return &History{
		rows:   make([][]int, 0, n),
		xPrior: make([]*mat.VecDense, 0, n),
		xPost:  make([]*mat.VecDense, 0, n),
		pPrior: make([]*mat.SymDense, 0, n),
		pPost:  make([]*mat.SymDense, 0, n),
		e:      make([]*mat.VecDense, 0, n),
		invF:   make([]*mat.Dense, 0, n),
		l:      make([]*mat.Dense, 0, n),
	}
}

// append stores estimates of the next period.
// KF never modifies the appended matrices after storing them.
func (h *History) append(rows []int, xPrior, xPost *mat.VecDense, pPrior, pPost *mat.SymDense, e *mat.VecDense, invF, l *mat.Dense) {
	h.rows = append(h.rows, rows)
	h.xPrior = append(h.xPrior, xPrior)
	h.xPost = append(h.xPost, xPost)
	h.pPrior = append(h.pPrior, pPrior)
	h.pPost = append(h.pPost, pPost)
	h.e = append(h.e, e)
	h.invF = append(h.invF, invF)
	h.l = append(h.l, l)
}

// Len returns the number of stored periods
func (h *History) Len() int {
	return len(h.xPrior)
}

// Rows returns a copy of measurement rows observed in period t; it is empty if nothing was observed.
// It panics if t is not in [1, Len()].
func (h *History) Rows(t int) []int {
	rows := make([]int, len(h.rows[t-1]))
	copy(rows, h.rows[t-1])

	return rows
}

// XPrior returns a copy of a-priori state mean of period t.
// It panics if t is not in [1, Len()].
func (h *History) XPrior(t int) mat.Vector {
	return mat.VecDenseCopyOf(h.xPrior[t-1])
}

// XPost returns a copy of a-posteriori state mean of period t.
// It panics if t is not in [1, Len()].
func (h *History) XPost(t int) mat.Vector {
	return mat.VecDenseCopyOf(h.xPost[t-1])
}

// PPrior returns a copy of a-priori state covariance of period t.
// It panics if t is not in [1, Len()].
func (h *History) PPrior(t int) mat.Symmetric {
	return copySym(h.pPrior[t-1])
}

// PPost returns a copy of a-posteriori state covariance of period t.
// It panics if t is not in [1, Len()].
func (h *History) PPost(t int) mat.Symmetric {
	return copySym(h.pPost[t-1])
}

// Innovation returns a copy of innovation vector of period t.
// It panics if t is not in [1, Len()].
func (h *History) Innovation(t int) mat.Vector {
	return mat.VecDenseCopyOf(h.e[t-1])
}

// InvInnovCov returns a copy of inverse innovation covariance of period t.
// It panics if t is not in [1, Len()].
func (h *History) InvInnovCov(t int) mat.Matrix {
	return mat.DenseCopyOf(h.invF[t-1])
}

// GainComplement returns a copy of gain complement of period t.
// It panics if t is not in [1, Len()].
func (h *History) GainComplement(t int) mat.Matrix {
	return mat.DenseCopyOf(h.l[t-1])
}
