package rts

import (
	"fmt"
	"slices"

	ssm "github.com/milosgajdos/go-ssm"
	"github.com/milosgajdos/go-ssm/kalman"
	"github.com/milosgajdos/go-ssm/matrix"
	"github.com/milosgajdos/go-ssm/missing"
	"gonum.org/v1/gonum/mat"
)

// Smooth implements Rauch-Tung-Striebel smoothing of Kalman filter f with missing observations.
// It runs the backward recursion from the last filtered period down to period 1
// using the stored filter history and returns smoothed state means xs and covariances ps
// of periods 1..f.T() in chronological order, and smoothed initial state mean x0 and covariance p0.
// Smooth does not modify f.
// It returns error if f has not been stepped, if f does not store history
// or if the model data no longer match the observations the filter used.
func Smooth(f kalman.Filter) (xs []mat.Vector, ps []mat.Symmetric, x0 mat.Vector, p0 mat.Symmetric, err error) {
	T := f.T()
	if T == 0 {
		return nil, nil, nil, nil, ssm.ErrNotStarted
	}

	h, err := f.History()
	if err != nil {
		return nil, nil, nil, nil, err
	}

	if h.Len() != T {
		return nil, nil, nil, nil, fmt.Errorf("invalid history length: %d != %d", h.Len(), T)
	}

	m := f.Model()
	nx, _, _ := m.Dims()
	c := m.Transition()

	// smoothing factors
	j1 := mat.NewVecDense(nx, nil)
	j2 := mat.NewSymDense(nx, nil)

	xs = make([]mat.Vector, T)
	ps = make([]mat.Symmetric, T)

	for t := T; t >= 1; t-- {
		o := missing.Resolve(m, t)
		if rows := h.Rows(t); !slices.Equal(rows, o.Rows()) {
			return nil, nil, nil, nil, fmt.Errorf("period %d: observed rows %v differ from filtered rows %v: %w", t, o.Rows(), rows, ssm.ErrDims)
		}

		if o.Observed() {
			b := matrix.SubRows(m.Loading(), o.Rows())
			j1, j2 = observedFactors(c, b, h.Innovation(t), h.InvInnovCov(t), h.GainComplement(t), j1, j2)
		} else {
			j1, j2 = missingFactors(c, j1, j2)
		}

		xs[t-1], ps[t-1] = smoothed(h.XPrior(t), h.PPrior(t), j1, j2)
	}

	j1, j2 = missingFactors(c, j1, j2)
	ic := m.InitCond()
	x0, p0 = smoothed(ic.State(), ic.Cov(), j1, j2)

	return xs, ps, x0, p0, nil
}

// observedFactors returns smoothing factors of a period with observed measurements:
//
//	J1 = B'*inv(F)*e + (L'*C')*J1
//	J2 = B'*inv(F)*B + (L'*C')*J2*(L'*C')'
func observedFactors(c, b mat.Matrix, e mat.Vector, invF, l mat.Matrix, j1 mat.Vector, j2 mat.Symmetric) (*mat.VecDense, *mat.SymDense) {
	// L'*C'
	lc := &mat.Dense{}
	lc.Mul(l.T(), c.T())

	// B'*inv(F)
	bf := &mat.Dense{}
	bf.Mul(b.T(), invF)

	j1Next := &mat.VecDense{}
	j1Next.MulVec(lc, j1)
	bfe := &mat.VecDense{}
	bfe.MulVec(bf, e)
	j1Next.AddVec(bfe, j1Next)

	j2Next := &mat.Dense{}
	j2Next.Mul(bf, b)
	lj := &mat.Dense{}
	lj.Product(lc, j2, lc.T())
	j2Next.Add(j2Next, lj)

	return j1Next, matrix.Sym(j2Next)
}

// missingFactors returns smoothing factors of a period without observed measurements:
//
//	J1 = C'*J1
//	J2 = C'*J2*C
func missingFactors(c mat.Matrix, j1 mat.Vector, j2 mat.Symmetric) (*mat.VecDense, *mat.SymDense) {
	j1Next := &mat.VecDense{}
	j1Next.MulVec(c.T(), j1)

	j2Next := &mat.Dense{}
	j2Next.Product(c.T(), j2, c)

	return j1Next, matrix.Sym(j2Next)
}

// smoothed returns smoothed state mean X + P*J1 and covariance P - P*J2*P
// of a-priori mean x and covariance p.
func smoothed(x mat.Vector, p mat.Symmetric, j1 mat.Vector, j2 mat.Symmetric) (*mat.VecDense, *mat.SymDense) {
	xs := &mat.VecDense{}
	xs.MulVec(p, j1)
	xs.AddVec(x, xs)

	pjp := &mat.Dense{}
	pjp.Product(p, j2, p)
	ps := &mat.Dense{}
	ps.Sub(p, pjp)

	return xs, matrix.Sym(ps)
}
