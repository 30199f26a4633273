package kf

import (
	"errors"
	"testing"

	ssm "github.com/milosgajdos/go-ssm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestPredict(t *testing.T) {
	assert := assert.New(t)

	m := newModel(t, biv)
	x := mat.NewVecDense(2, []float64{1.0, 2.0})
	p := mat.NewSymDense(2, []float64{1.0, 0.5, 0.5, 2.0})

	assert.True(mat.EqualApprox(mat.NewVecDense(2, []float64{3.0, 2.0}), PredictMean(m, x), 1e-12))

	// C*P*C' + DQD
	want := mat.NewSymDense(2, []float64{
		1.0 + 0.5 + 0.5 + 2.0 + 0.3, 0.5 + 2.0 + 0.05,
		0.5 + 2.0 + 0.05, 2.0 + 0.1,
	})
	assert.True(mat.EqualApprox(want, PredictCov(m, p), 1e-12))
}

func TestForecast(t *testing.T) {
	assert := assert.New(t)

	m := newModel(t, biv)
	f, err := Run(m)
	require.NoError(t, err)

	post := f.Posterior()

	xs, err := f.Forecast(1)
	assert.NoError(err)
	assert.Len(xs, 1)
	assert.True(mat.Equal(PredictMean(m, post.Val()), xs[0]))

	xs, ps, err := f.ForecastCov(1)
	assert.NoError(err)
	assert.Len(xs, 1)
	assert.Len(ps, 1)
	assert.True(mat.Equal(PredictMean(m, post.Val()), xs[0]))
	assert.True(mat.Equal(PredictCov(m, post.Cov()), ps[0]))

	// forecasts are chronological
	h := 5
	xs, ps, err = f.ForecastCov(h)
	assert.NoError(err)
	assert.Len(xs, h)
	assert.Len(ps, h)
	x, p := post.Val(), post.Cov()
	for i := 0; i < h; i++ {
		x = PredictMean(m, x)
		p = PredictCov(m, p)
		assert.True(mat.Equal(x, xs[i]))
		assert.True(mat.Equal(p, ps[i]))
	}

	means, err := Forecast(m, post.Val(), h)
	assert.NoError(err)
	for i := range means {
		assert.True(mat.Equal(xs[i], means[i]))
	}

	// forecasting does not change the filter
	assert.True(mat.Equal(post.Val(), f.Posterior().Val()))
}

func TestForecastInvalid(t *testing.T) {
	assert := assert.New(t)

	m := newModel(t, biv)
	x := mat.NewVecDense(2, nil)
	p := mat.NewSymDense(2, nil)

	xs, err := Forecast(m, x, 0)
	assert.NoError(err)
	assert.Empty(xs)

	xs, err = Forecast(m, x, -1)
	assert.Nil(xs)
	assert.True(errors.Is(err, ssm.ErrHorizon))

	xs, ps, err := ForecastCov(m, x, p, -1)
	assert.Nil(xs)
	assert.Nil(ps)
	assert.True(errors.Is(err, ssm.ErrHorizon))

	_, err = Forecast(m, mat.NewVecDense(3, nil), 1)
	assert.True(errors.Is(err, ssm.ErrDims))

	_, _, err = ForecastCov(m, x, mat.NewSymDense(3, nil), 1)
	assert.True(errors.Is(err, ssm.ErrDims))
}
