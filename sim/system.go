package sim

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// System defines a linear Gaussian state-space model of a plant:
//
//	x[t] = C*x[t-1] + w[t]
//	y[t] = B*x[t] + v[t]
//
// It contains the transition (C) and loading (B) matrices.
type System struct {
	// Transition matrix C
	C *mat.Dense
	// Loading matrix B
	B *mat.Dense
}

// NewSystem creates new System from transition matrix c and loading matrix b and returns it.
// It returns error if c is not square or if b columns do not match c.
func NewSystem(c, b mat.Matrix) (*System, error) {
	if c == nil || b == nil {
		return nil, fmt.Errorf("transition and loading matrices must be defined for a system")
	}

	nx, cols := c.Dims()
	if nx != cols {
		return nil, fmt.Errorf("invalid transition matrix dimensions: [%d x %d]", nx, cols)
	}

	if _, cols := b.Dims(); cols != nx {
		return nil, fmt.Errorf("invalid loading matrix dimensions: [%d x %d]", nx, cols)
	}

	return &System{C: mat.DenseCopyOf(c), B: mat.DenseCopyOf(b)}, nil
}

// SystemDims returns internal state length (nx) and external/observable/output state length (ny).
func (s System) SystemDims() (nx, ny int) {
	nx, _ = s.C.Dims()
	ny, _ = s.B.Dims()

	return nx, ny
}

// Propagate returns the next internal state given current state x.
// w is added to the state as a process noise vector.
func (s System) Propagate(x, w mat.Vector) (mat.Vector, error) {
	nx, _ := s.SystemDims()
	if x.Len() != nx {
		return nil, fmt.Errorf("invalid state vector")
	}

	out := new(mat.VecDense)
	out.MulVec(s.C, x)

	if w != nil && w.Len() == nx {
		out.AddVec(out, w)
	}

	return out, nil
}

// Observe returns external/observable state given internal state x.
// v is added to the output as a noise vector.
func (s System) Observe(x, v mat.Vector) (mat.Vector, error) {
	nx, ny := s.SystemDims()
	if x.Len() != nx {
		return nil, fmt.Errorf("invalid state vector")
	}

	out := new(mat.VecDense)
	out.MulVec(s.B, x)

	if v != nil && v.Len() == ny {
		out.AddVec(out, v)
	}

	return out, nil
}
