package kf

import (
	"fmt"

	ssm "github.com/milosgajdos/go-ssm"
	"github.com/milosgajdos/go-ssm/estimate"
	"github.com/milosgajdos/go-ssm/kalman"
	"github.com/milosgajdos/go-ssm/matrix"
	"github.com/milosgajdos/go-ssm/missing"
	"gonum.org/v1/gonum/mat"
)

// phase is the filter prediction mode
type phase int

const (
	// uninitialized filter predicts from the model initial condition
	uninitialized phase = iota
	// running filter predicts from the previous a-posteriori estimate
	running
)

// KF is Kalman Filter of a linear state-space model with missing observations.
// KF owns its state exclusively: it must not be stepped from multiple goroutines.
// Independent KFs may share the same read-only model.
type KF struct {
	// m is filtered model
	m ssm.Model
	// t is the current period
	t int
	// phase is the prediction mode
	phase phase
	// xPrior and pPrior are a-priori state mean and covariance
	xPrior *mat.VecDense
	pPrior *mat.SymDense
	// xPost and pPost are a-posteriori state mean and covariance
	xPost *mat.VecDense
	pPost *mat.SymDense
	// e is innovation vector
	e *mat.VecDense
	// invF is inverse innovation covariance
	invF *mat.Dense
	// l is gain complement I - P*B'*inv(F)*B
	l *mat.Dense
	// loglik is accumulated log-likelihood
	loglik float64
	// hist is filter history; nil if the model does not store it
	hist *History
	// err is the error of the failed step; once set every Step returns it
	err error
}

// New creates new KF for model m and returns it.
// Both a-priori and a-posteriori estimates are initialized to the model initial condition.
// It returns error if either of the following conditions is met:
//   - invalid model is given: model dimensions must be positive integers
//   - model initial condition dimensions do not match the model state dimension
func New(m ssm.Model) (*KF, error) {
	if m == nil {
		return nil, fmt.Errorf("invalid model: %v", m)
	}

	nx, ny, T := m.Dims()
	if nx <= 0 || ny <= 0 || T <= 0 {
		return nil, fmt.Errorf("invalid model dimensions: [%d x %d x %d]: %w", nx, ny, T, ssm.ErrDims)
	}

	ic := m.InitCond()
	x0, p0 := ic.State(), ic.Cov()
	if x0.Len() != nx || p0.SymmetricDim() != nx {
		return nil, fmt.Errorf("invalid initial condition dimensions: %d, %d: %w", x0.Len(), p0.SymmetricDim(), ssm.ErrDims)
	}

	k := &KF{
		m:      m,
		phase:  uninitialized,
		xPrior: mat.VecDenseCopyOf(x0),
		pPrior: copySym(p0),
		xPost:  mat.VecDenseCopyOf(x0),
		pPost:  copySym(p0),
		e:      mat.NewVecDense(1, nil),
		invF:   mat.NewDense(1, 1, nil),
		l:      matrix.Eye(nx),
	}

	if m.History() {
		k.hist = newHistory(T)
	}

	return k, nil
}

// Run runs full-sample KF over all periods of model m and returns the filter.
// It returns error if the filter fails to be created or any step fails.
func Run(m ssm.Model) (*KF, error) {
	k, err := New(m)
	if err != nil {
		return nil, err
	}

	_, _, T := m.Dims()
	for t := 0; t < T; t++ {
		if err := k.Step(); err != nil {
			return nil, err
		}
	}

	return k, nil
}

// PredictMean propagates state mean x one period forward: C*x.
func PredictMean(m ssm.Model, x mat.Vector) *mat.VecDense {
	xNext := &mat.VecDense{}
	xNext.MulVec(m.Transition(), x)

	return xNext
}

// PredictCov propagates state covariance p one period forward: C*P*C' + DQD.
func PredictCov(m ssm.Model, p mat.Symmetric) *mat.SymDense {
	c := m.Transition()

	cov := &mat.Dense{}
	cov.Product(c, p, c.T())
	cov.Add(cov, m.StateCov())

	return matrix.Sym(cov)
}

// Step advances the filter by one period: it predicts the state of the next period
// and updates the prediction with the observations available in that period.
// Step must not be called more times than there are periods in the model.
// It returns error if the filter is already at the last period
// or if the innovation covariance of the observed measurements is singular.
// A failed update aborts the run: every following Step returns the same error.
func (k *KF) Step() error {
	if k.err != nil {
		return k.err
	}

	_, _, T := k.m.Dims()
	if k.t >= T {
		return fmt.Errorf("step %d of %d: %w", k.t+1, T, ssm.ErrOverflow)
	}
	k.t++

	switch k.phase {
	case uninitialized:
		ic := k.m.InitCond()
		k.xPrior = PredictMean(k.m, ic.State())
		k.pPrior = PredictCov(k.m, ic.Cov())
		k.phase = running
	case running:
		k.xPrior = PredictMean(k.m, k.xPost)
		k.pPrior = PredictCov(k.m, k.pPost)
	}

	o := missing.Resolve(k.m, k.t)
	if err := k.update(o); err != nil {
		k.err = err
		return err
	}

	if k.hist != nil {
		k.hist.append(o.Rows(), k.xPrior, k.xPost, k.pPrior, k.pPost, k.e, k.invF, k.l)
	}

	return nil
}

// update corrects the a-priori estimate using the measurements observed in o.
// If nothing was observed the a-posteriori estimate equals the a-priori one.
func (k *KF) update(o missing.Observation) error {
	nx, _, _ := k.m.Dims()

	if !o.Observed() {
		k.xPost = mat.VecDenseCopyOf(k.xPrior)
		k.pPost = copySym(k.pPrior)
		k.e = mat.NewVecDense(1, nil)
		k.invF = mat.NewDense(1, 1, nil)
		k.l = matrix.Eye(nx)
		return nil
	}

	rows := o.Rows()
	y := matrix.SubCol(k.m.Data(), k.t-1, rows)
	b := matrix.SubRows(k.m.Loading(), rows)
	r := matrix.SubSym(k.m.ObsCov(), rows)

	// innovation vector: y - B*x
	e := &mat.VecDense{}
	e.MulVec(b, k.xPrior)
	e.SubVec(y, e)

	// P*B'
	pb := &mat.Dense{}
	pb.Mul(k.pPrior, b.T())

	// innovation covariance: B*P*B' + R
	f := &mat.Dense{}
	f.Mul(b, pb)
	f.Add(f, r)

	invF := &mat.Dense{}
	if err := invF.Inverse(matrix.Sym(f)); err != nil {
		return fmt.Errorf("failed to invert innovation covariance in period %d: %v: %w", k.t, err, ssm.ErrSingular)
	}

	// Kalman gain
	gain := &mat.Dense{}
	gain.Mul(pb, invF)

	// gain complement: I - P*B'*inv(F)*B
	bfb := &mat.Dense{}
	bfb.Product(b.T(), invF, b)
	l := &mat.Dense{}
	l.Mul(k.pPrior, matrix.Sym(bfb))
	l.Sub(matrix.Eye(nx), l)

	// update state x
	x := &mat.VecDense{}
	x.MulVec(gain, e)
	x.AddVec(k.xPrior, x)

	// Joseph form update: L*P*L' + K*R*K'
	p := &mat.Dense{}
	p.Product(l, k.pPrior, l.T())
	krk := &mat.Dense{}
	krk.Product(gain, r, gain.T())
	p.Add(p, krk)

	if k.m.LogLik() {
		ll, err := logLik(e, invF)
		if err != nil {
			return fmt.Errorf("failed to compute log-likelihood in period %d: %w", k.t, err)
		}
		k.loglik += ll
	}

	k.xPost = x
	k.pPost = matrix.Sym(p)
	k.e = e
	k.invF = invF
	k.l = l

	return nil
}

// logLik returns Gaussian log-density of innovation e with inverse covariance invF
// without the constant 2*pi term.
func logLik(e mat.Vector, invF mat.Matrix) (float64, error) {
	logDet, err := matrix.LogDet(invF)
	if err != nil {
		return 0, err
	}

	return -0.5 * (-logDet + mat.Inner(e, invF, e)), nil
}

// Model returns filtered model
func (k *KF) Model() ssm.Model {
	return k.m
}

// T returns the number of periods filtered so far
func (k *KF) T() int {
	return k.t
}

// Prior returns a-priori estimate of the current period
func (k *KF) Prior() ssm.Estimate {
	return newEstimate(k.xPrior, k.pPrior)
}

// Posterior returns a-posteriori estimate of the current period
func (k *KF) Posterior() ssm.Estimate {
	return newEstimate(k.xPost, k.pPost)
}

// newEstimate returns estimate with mean x and covariance p.
// It panics if x and p dimensions differ: KF keeps both at the model state dimension.
func newEstimate(x *mat.VecDense, p *mat.SymDense) ssm.Estimate {
	est, err := estimate.New(x, p)
	if err != nil {
		panic(err)
	}

	return est
}

// Innovation returns innovation vector of the current period.
// It is a zero vector of length 1 if nothing was observed.
func (k *KF) Innovation() mat.Vector {
	return mat.VecDenseCopyOf(k.e)
}

// InvInnovCov returns inverse innovation covariance of the current period.
// It is a 1x1 zero matrix if nothing was observed.
func (k *KF) InvInnovCov() mat.Matrix {
	return mat.DenseCopyOf(k.invF)
}

// GainComplement returns I - P*B'*inv(F)*B of the current period.
func (k *KF) GainComplement() mat.Matrix {
	return mat.DenseCopyOf(k.l)
}

// LogLik returns log-likelihood accumulated over the filtered periods.
// It returns error if the model does not compute log-likelihood.
func (k *KF) LogLik() (float64, error) {
	if !k.m.LogLik() {
		return 0, ssm.ErrNoLogLik
	}

	return k.loglik, nil
}

// History returns filter history.
// It returns error if the model does not store history.
func (k *KF) History() (kalman.History, error) {
	if k.hist == nil {
		return nil, ssm.ErrNoHistory
	}

	return k.hist, nil
}

func copySym(s mat.Symmetric) *mat.SymDense {
	c := mat.NewSymDense(s.SymmetricDim(), nil)
	c.CopySym(s)

	return c
}
