package model

import (
	"fmt"

	ssm "github.com/milosgajdos/go-ssm"
	"github.com/milosgajdos/go-ssm/matrix"
	"gonum.org/v1/gonum/mat"
)

// InitCond is time-zero prior of the filter: state mean and covariance
type InitCond struct {
	state *mat.VecDense
	cov   *mat.SymDense
}

// NewInitCond creates new InitCond and returns it
func NewInitCond(state mat.Vector, cov mat.Symmetric) *InitCond {
	return &InitCond{
		state: mat.VecDenseCopyOf(state),
		cov:   copySym(cov),
	}
}

// StationaryInitCond returns initial condition of a stationary state process
// x[t] = C*x[t-1] + w[t], w ~ N(0, DQD): zero mean and covariance P0 which solves
// the discrete Lyapunov equation P0 = C*P0*C' + DQD.
// It returns error if C is not square, DQD dimensions don't match C
// or if the equation has no unique solution, i.e. C has an eigenvalue on the unit circle.
func StationaryInitCond(c mat.Matrix, dqd mat.Symmetric) (*InitCond, error) {
	m, cols := c.Dims()
	if m <= 0 || m != cols || dqd.SymmetricDim() != m {
		return nil, fmt.Errorf("invalid stationary model dimensions: [%d x %d]: %w", m, cols, ssm.ErrDims)
	}

	// vec(P0) = (I - kron(C, C))^-1 * vec(DQD), vec stacks columns
	a := &mat.Dense{}
	a.Kronecker(c, c)
	a.Sub(matrix.Eye(m*m), a)

	q := mat.NewVecDense(m*m, nil)
	for j := 0; j < m; j++ {
		for i := 0; i < m; i++ {
			q.SetVec(i+j*m, dqd.At(i, j))
		}
	}

	p := &mat.VecDense{}
	if err := p.SolveVec(a, q); err != nil {
		return nil, fmt.Errorf("failed to solve Lyapunov equation: %v: %w", err, ssm.ErrSingular)
	}

	p0 := mat.NewDense(m, m, nil)
	for j := 0; j < m; j++ {
		for i := 0; i < m; i++ {
			p0.Set(i, j, p.AtVec(i+j*m))
		}
	}

	return &InitCond{
		state: mat.NewVecDense(m, nil),
		cov:   matrix.Sym(p0),
	}, nil
}

// State returns a copy of initial state
func (c *InitCond) State() mat.Vector {
	return mat.VecDenseCopyOf(c.state)
}

// Cov returns a copy of initial covariance
func (c *InitCond) Cov() mat.Symmetric {
	return copySym(c.cov)
}
