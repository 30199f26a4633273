package rts

import (
	"errors"
	"math"
	"os"
	"testing"

	ssm "github.com/milosgajdos/go-ssm"
	"github.com/milosgajdos/go-ssm/kalman"
	"github.com/milosgajdos/go-ssm/kalman/kf"
	"github.com/milosgajdos/go-ssm/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

var (
	ar1 *model.Config
	biv *model.Config
)

func setup() {
	nan := math.NaN()

	ar1 = &model.Config{
		C:       mat.NewDense(1, 1, []float64{0.5}),
		B:       mat.NewDense(1, 1, []float64{1.0}),
		R:       mat.NewSymDense(1, []float64{1.0}),
		DQD:     mat.NewSymDense(1, []float64{1.0}),
		X0:      mat.NewVecDense(1, []float64{0.0}),
		P0:      mat.NewSymDense(1, []float64{10.0}),
		Y:       mat.NewDense(1, 1, []float64{1.0}),
		LogLik:  true,
		History: true,
	}

	biv = &model.Config{
		C:   mat.NewDense(2, 2, []float64{0.9, 0.2, 0.0, 0.7}),
		B:   mat.NewDense(2, 2, []float64{1.0, 0.0, 0.5, 1.0}),
		R:   mat.NewSymDense(2, []float64{0.5, 0.1, 0.1, 0.8}),
		DQD: mat.NewSymDense(2, []float64{0.3, 0.05, 0.05, 0.1}),
		X0:  mat.NewVecDense(2, []float64{1.0, 0.5}),
		P0:  mat.NewSymDense(2, []float64{2.0, 0.0, 0.0, 2.0}),
		Y: mat.NewDense(2, 10, []float64{
			1.2, 0.9, nan, 0.4, nan, -0.3, 0.1, nan, nan, 0.6,
			1.0, nan, nan, 0.8, 0.6, nan, -0.2, 0.3, nan, nan,
		}),
		History: true,
	}
}

func TestMain(m *testing.M) {
	// set up tests
	setup()
	// run the tests
	retCode := m.Run()
	// call with result of m.Run()
	os.Exit(retCode)
}

func run(t *testing.T, c *model.Config) *kf.KF {
	m, err := model.NewFixed(c)
	require.NoError(t, err)

	f, err := kf.Run(m)
	require.NoError(t, err)

	return f
}

// classic returns smoothed estimates computed by the textbook RTS recursion
// over filtered a-posteriori estimates.
func classic(t *testing.T, f kalman.Filter) ([]mat.Vector, []mat.Symmetric, mat.Vector, mat.Symmetric) {
	h, err := f.History()
	require.NoError(t, err)

	c := f.Model().Transition()
	T := h.Len()
	xs := make([]mat.Vector, T)
	ps := make([]mat.Symmetric, T)
	xs[T-1], ps[T-1] = h.XPost(T), h.PPost(T)

	step := func(x mat.Vector, p mat.Symmetric, next int) (mat.Vector, mat.Symmetric) {
		pInv := &mat.Dense{}
		require.NoError(t, pInv.Inverse(h.PPrior(next)))

		g := &mat.Dense{}
		g.Product(p, c.T(), pInv)

		dx := &mat.VecDense{}
		dx.SubVec(xs[next-1], h.XPrior(next))
		xNext := &mat.VecDense{}
		xNext.MulVec(g, dx)
		xNext.AddVec(x, xNext)

		dp := &mat.Dense{}
		dp.Sub(ps[next-1], h.PPrior(next))
		pNext := &mat.Dense{}
		pNext.Product(g, dp, g.T())
		pNext.Add(p, pNext)

		sym := mat.NewSymDense(pNext.RawMatrix().Rows, nil)
		for i := 0; i < sym.SymmetricDim(); i++ {
			for j := i; j < sym.SymmetricDim(); j++ {
				sym.SetSym(i, j, pNext.At(i, j))
			}
		}

		return xNext, sym
	}

	for i := T - 1; i >= 1; i-- {
		xs[i-1], ps[i-1] = step(h.XPost(i), h.PPost(i), i+1)
	}

	ic := f.Model().InitCond()
	x0, p0 := step(ic.State(), ic.Cov(), 1)

	return xs, ps, x0, p0
}

func TestSmoothBoundary(t *testing.T) {
	assert := assert.New(t)

	f := run(t, ar1)

	xs, ps, x0, p0, err := Smooth(f)
	assert.NoError(err)
	assert.Len(xs, 1)
	assert.Len(ps, 1)
	assert.NotNil(x0)
	assert.NotNil(p0)

	post := f.Posterior()
	assert.InDelta(post.Val().AtVec(0), xs[0].AtVec(0), 1e-12)
	assert.InDelta(post.Cov().At(0, 0), ps[0].At(0, 0), 1e-12)
	assert.InDelta(3.5/4.5, xs[0].AtVec(0), 1e-12)
}

func TestSmoothLastPeriod(t *testing.T) {
	assert := assert.New(t)

	f := run(t, biv)

	xs, ps, _, _, err := Smooth(f)
	require.NoError(t, err)

	T := f.T()
	assert.Len(xs, T)
	assert.Len(ps, T)
	assert.True(mat.EqualApprox(f.Posterior().Val(), xs[T-1], 1e-10))
	assert.True(mat.EqualApprox(f.Posterior().Cov(), ps[T-1], 1e-10))
}

func TestSmoothClassic(t *testing.T) {
	assert := assert.New(t)

	for _, c := range []*model.Config{ar1, biv} {
		f := run(t, c)

		xs, ps, x0, p0, err := Smooth(f)
		require.NoError(t, err)

		cxs, cps, cx0, cp0 := classic(t, f)
		for i := range xs {
			assert.True(mat.EqualApprox(cxs[i], xs[i], 1e-8), "period %d", i+1)
			assert.True(mat.EqualApprox(cps[i], ps[i], 1e-8), "period %d", i+1)
		}
		assert.True(mat.EqualApprox(cx0, x0, 1e-8))
		assert.True(mat.EqualApprox(cp0, p0, 1e-8))
	}
}

func TestSmoothVariance(t *testing.T) {
	assert := assert.New(t)

	f := run(t, biv)
	h, err := f.History()
	require.NoError(t, err)

	_, ps, _, p0, err := Smooth(f)
	require.NoError(t, err)

	// smoothing never increases state variance
	for i := range ps {
		for j := 0; j < ps[i].SymmetricDim(); j++ {
			assert.LessOrEqual(ps[i].At(j, j), h.PPost(i+1).At(j, j)+1e-10)
		}
	}
	for j := 0; j < p0.SymmetricDim(); j++ {
		assert.LessOrEqual(p0.At(j, j), biv.P0.At(j, j)+1e-10)
	}
}

func TestSmoothReadOnly(t *testing.T) {
	assert := assert.New(t)

	f := run(t, biv)
	post := f.Posterior()
	h, err := f.History()
	require.NoError(t, err)
	xPrior := h.XPrior(3)

	_, _, _, _, err = Smooth(f)
	require.NoError(t, err)

	// smoothing twice gives the same result
	xs1, _, _, _, err := Smooth(f)
	require.NoError(t, err)
	xs2, _, _, _, err := Smooth(f)
	require.NoError(t, err)
	for i := range xs1 {
		assert.True(mat.Equal(xs1[i], xs2[i]))
	}

	assert.Equal(f.T(), h.Len())
	assert.True(mat.Equal(post.Val(), f.Posterior().Val()))
	assert.True(mat.Equal(post.Cov(), f.Posterior().Cov()))
	assert.True(mat.Equal(xPrior, h.XPrior(3)))
}

func TestSmoothMisuse(t *testing.T) {
	assert := assert.New(t)

	m, err := model.NewFixed(ar1)
	require.NoError(t, err)
	f, err := kf.New(m)
	require.NoError(t, err)

	_, _, _, _, err = Smooth(f)
	assert.True(errors.Is(err, ssm.ErrNotStarted))

	c := *ar1
	c.History = false
	_, _, _, _, err = Smooth(run(t, &c))
	assert.True(errors.Is(err, ssm.ErrNoHistory))
}

func TestSmoothChangedData(t *testing.T) {
	assert := assert.New(t)

	m, err := model.NewMutable(biv)
	require.NoError(t, err)

	f, err := kf.Run(m)
	require.NoError(t, err)

	// period 1 loses a measurement and period 3 gains both
	y := mat.DenseCopyOf(biv.Y)
	y.Set(1, 0, math.NaN())
	y.Set(0, 2, 0.5)
	y.Set(1, 2, 0.5)
	require.NoError(t, m.SetData(y))

	var xs []mat.Vector
	assert.NotPanics(func() {
		xs, _, _, _, err = Smooth(f)
	})
	assert.Nil(xs)
	assert.True(errors.Is(err, ssm.ErrDims))

	// filtering the new data makes the filter and the model agree again
	f, err = kf.Run(m)
	require.NoError(t, err)
	_, _, _, _, err = Smooth(f)
	assert.NoError(err)
}
