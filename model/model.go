package model

import (
	"fmt"

	ssm "github.com/milosgajdos/go-ssm"
	"gonum.org/v1/gonum/mat"
)

// Config is state-space model configuration
type Config struct {
	// C is state transition matrix [m x m]
	C mat.Matrix
	// B is observation loading matrix [n x m]
	B mat.Matrix
	// R is observation noise covariance [n x n]
	R mat.Symmetric
	// DQD is process noise covariance mapped into state space [m x m]
	DQD mat.Symmetric
	// X0 is initial state mean [m]
	X0 mat.Vector
	// P0 is initial state covariance [m x m]
	P0 mat.Symmetric
	// Y stores observations in columns [n x T]; missing values are NaN
	Y mat.Matrix
	// LogLik enables log-likelihood accumulation
	LogLik bool
	// History enables filter history retention
	History bool
}

// base implements the ssm.Model read contract
type base struct {
	c    *mat.Dense
	l    *mat.Dense
	r    *mat.SymDense
	dqd  *mat.SymDense
	init *InitCond
	y    *mat.Dense
	// m, n and t are state, measurement and time dimensions
	m, n, t int
	loglik  bool
	history bool
}

// newBase validates c and returns base model with copies of all c matrices.
// It returns error if any of the following conditions is met:
//   - C is not a non-empty square matrix
//   - B columns do not match C or B has no rows
//   - R, DQD, X0 or P0 dimensions do not match B and C
//   - Y rows do not match B rows or Y has no columns
func newBase(c *Config) (*base, error) {
	if c == nil {
		return nil, fmt.Errorf("invalid config: %v", c)
	}

	if c.C == nil || c.B == nil || c.R == nil || c.DQD == nil || c.X0 == nil || c.P0 == nil || c.Y == nil {
		return nil, fmt.Errorf("incomplete config: %w", ssm.ErrDims)
	}

	m, cols := c.C.Dims()
	if m <= 0 || m != cols {
		return nil, fmt.Errorf("invalid transition matrix dimensions: [%d x %d]: %w", m, cols, ssm.ErrDims)
	}

	n, cols := c.B.Dims()
	if n <= 0 || cols != m {
		return nil, fmt.Errorf("invalid loading matrix dimensions: [%d x %d]: %w", n, cols, ssm.ErrDims)
	}

	b := &base{
		c:       mat.DenseCopyOf(c.C),
		l:       mat.DenseCopyOf(c.B),
		m:       m,
		n:       n,
		loglik:  c.LogLik,
		history: c.History,
	}

	if err := b.setObsCov(c.R); err != nil {
		return nil, err
	}

	if err := b.setStateCov(c.DQD); err != nil {
		return nil, err
	}

	if err := b.setInitCond(c.X0, c.P0); err != nil {
		return nil, err
	}

	if err := b.setData(c.Y); err != nil {
		return nil, err
	}

	return b, nil
}

func (b *base) setTransition(c mat.Matrix) error {
	if c == nil {
		return fmt.Errorf("invalid transition matrix: %w", ssm.ErrDims)
	}

	if r, cols := c.Dims(); r != b.m || cols != b.m {
		return fmt.Errorf("invalid transition matrix dimensions: [%d x %d]: %w", r, cols, ssm.ErrDims)
	}
	b.c = mat.DenseCopyOf(c)

	return nil
}

func (b *base) setLoading(l mat.Matrix) error {
	if l == nil {
		return fmt.Errorf("invalid loading matrix: %w", ssm.ErrDims)
	}

	if r, cols := l.Dims(); r != b.n || cols != b.m {
		return fmt.Errorf("invalid loading matrix dimensions: [%d x %d]: %w", r, cols, ssm.ErrDims)
	}
	b.l = mat.DenseCopyOf(l)

	return nil
}

func (b *base) setObsCov(r mat.Symmetric) error {
	if r == nil || r.SymmetricDim() != b.n {
		return fmt.Errorf("invalid observation noise dimensions: %w", ssm.ErrDims)
	}
	b.r = copySym(r)

	return nil
}

func (b *base) setStateCov(q mat.Symmetric) error {
	if q == nil || q.SymmetricDim() != b.m {
		return fmt.Errorf("invalid state noise dimensions: %w", ssm.ErrDims)
	}
	b.dqd = copySym(q)

	return nil
}

func (b *base) setInitCond(x0 mat.Vector, p0 mat.Symmetric) error {
	if x0 == nil || x0.Len() != b.m {
		return fmt.Errorf("invalid initial state dimensions: %w", ssm.ErrDims)
	}

	if p0 == nil || p0.SymmetricDim() != b.m {
		return fmt.Errorf("invalid initial covariance dimensions: %w", ssm.ErrDims)
	}
	b.init = NewInitCond(x0, p0)

	return nil
}

func (b *base) setData(y mat.Matrix) error {
	if y == nil {
		return fmt.Errorf("invalid data: %w", ssm.ErrDims)
	}

	r, t := y.Dims()
	if r != b.n || t <= 0 {
		return fmt.Errorf("invalid data dimensions: [%d x %d]: %w", r, t, ssm.ErrDims)
	}
	b.y = mat.DenseCopyOf(y)
	b.t = t

	return nil
}

// Dims returns state, measurement and time dimensions
func (b *base) Dims() (m, n, T int) {
	return b.m, b.n, b.t
}

// Transition returns a copy of state transition matrix
func (b *base) Transition() mat.Matrix { return mat.DenseCopyOf(b.c) }

// Loading returns a copy of observation loading matrix
func (b *base) Loading() mat.Matrix { return mat.DenseCopyOf(b.l) }

// ObsCov returns a copy of observation noise covariance
func (b *base) ObsCov() mat.Symmetric { return copySym(b.r) }

// StateCov returns a copy of process noise covariance
func (b *base) StateCov() mat.Symmetric { return copySym(b.dqd) }

// InitCond returns initial condition
func (b *base) InitCond() ssm.InitCond { return b.init }

// Data returns read-only view of observations
func (b *base) Data() mat.Matrix { return view{b.y} }

// LogLik reports whether log-likelihood is computed
func (b *base) LogLik() bool { return b.loglik }

// History reports whether filter history is stored
func (b *base) History() bool { return b.history }

// String implements the Stringer interface.
func (b *base) String() string {
	return fmt.Sprintf("Model{m=%d n=%d T=%d\nC=%v\nB=%v\nR=%v\nDQD=%v\n}", b.m, b.n, b.t,
		mat.Formatted(b.c, mat.Prefix("  "), mat.Squeeze()),
		mat.Formatted(b.l, mat.Prefix("  "), mat.Squeeze()),
		mat.Formatted(b.r, mat.Prefix("  "), mat.Squeeze()),
		mat.Formatted(b.dqd, mat.Prefix("    "), mat.Squeeze()))
}

func (b *base) clone() *base {
	c := *b
	c.c = mat.DenseCopyOf(b.c)
	c.l = mat.DenseCopyOf(b.l)
	c.r = copySym(b.r)
	c.dqd = copySym(b.dqd)
	c.init = NewInitCond(b.init.state, b.init.cov)
	c.y = mat.DenseCopyOf(b.y)

	return &c
}

// view is a read-only mat.Matrix backed by Dense
type view struct {
	d *mat.Dense
}

// Dims returns view dimensions
func (v view) Dims() (r, c int) { return v.d.Dims() }

// At returns the element at row i, column j
func (v view) At(i, j int) float64 { return v.d.At(i, j) }

// T returns transpose of the view
func (v view) T() mat.Matrix { return mat.Transpose{Matrix: v} }

// Fixed is a state-space model whose matrices can't be changed after it has been created.
type Fixed struct {
	*base
}

// NewFixed creates new Fixed model from config c and returns it.
// It returns error wrapping ssm.ErrDims if c dimensions are inconsistent.
func NewFixed(c *Config) (*Fixed, error) {
	b, err := newBase(c)
	if err != nil {
		return nil, err
	}

	return &Fixed{base: b}, nil
}

// Mutable is a state-space model whose matrices can be replaced between filtering runs.
// Mutable must not be modified while it is being filtered.
type Mutable struct {
	*base
}

// NewMutable creates new Mutable model from config c and returns it.
// It returns error wrapping ssm.ErrDims if c dimensions are inconsistent.
func NewMutable(c *Config) (*Mutable, error) {
	b, err := newBase(c)
	if err != nil {
		return nil, err
	}

	return &Mutable{base: b}, nil
}

// SetTransition replaces state transition matrix.
func (mm *Mutable) SetTransition(c mat.Matrix) error { return mm.setTransition(c) }

// SetLoading replaces observation loading matrix.
func (mm *Mutable) SetLoading(b mat.Matrix) error { return mm.setLoading(b) }

// SetObsCov replaces observation noise covariance.
func (mm *Mutable) SetObsCov(r mat.Symmetric) error { return mm.setObsCov(r) }

// SetStateCov replaces process noise covariance.
func (mm *Mutable) SetStateCov(dqd mat.Symmetric) error { return mm.setStateCov(dqd) }

// SetInitCond replaces initial state mean and covariance.
func (mm *Mutable) SetInitCond(x0 mat.Vector, p0 mat.Symmetric) error {
	return mm.setInitCond(x0, p0)
}

// SetData replaces observations. The number of periods may change, the number of series may not.
func (mm *Mutable) SetData(y mat.Matrix) error { return mm.setData(y) }

// Clone returns a deep copy of the model which can be modified independently.
func (mm *Mutable) Clone() *Mutable {
	return &Mutable{base: mm.clone()}
}

func copySym(s mat.Symmetric) *mat.SymDense {
	c := mat.NewSymDense(s.SymmetricDim(), nil)
	c.CopySym(s)

	return c
}
