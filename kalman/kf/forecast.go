package kf

import (
	"fmt"

	ssm "github.com/milosgajdos/go-ssm"
	"gonum.org/v1/gonum/mat"
)

// Forecast returns state means forecast h periods ahead of state x using model m.
// Forecasts are ordered chronologically: the i-th element is the forecast i+1 periods ahead.
// It returns error if h is negative or x dimension does not match the model.
func Forecast(m ssm.Model, x mat.Vector, h int) ([]mat.Vector, error) {
	if err := checkForecast(m, x, h); err != nil {
		return nil, err
	}

	xs := make([]mat.Vector, h)
	var xNext mat.Vector = x
	for i := 0; i < h; i++ {
		xNext = PredictMean(m, xNext)
		xs[i] = xNext
	}

	return xs, nil
}

// ForecastCov returns state means and covariances forecast h periods ahead
// of state x with covariance p using model m.
// Forecasts are ordered chronologically: the i-th element is the forecast i+1 periods ahead.
// It returns error if h is negative or x and p dimensions do not match the model.
func ForecastCov(m ssm.Model, x mat.Vector, p mat.Symmetric, h int) ([]mat.Vector, []mat.Symmetric, error) {
	if err := checkForecast(m, x, h); err != nil {
		return nil, nil, err
	}

	if nx, _, _ := m.Dims(); p == nil || p.SymmetricDim() != nx {
		return nil, nil, fmt.Errorf("invalid covariance dimensions: %w", ssm.ErrDims)
	}

	xs := make([]mat.Vector, h)
	ps := make([]mat.Symmetric, h)
	var xNext mat.Vector = x
	var pNext mat.Symmetric = p
	for i := 0; i < h; i++ {
		xNext = PredictMean(m, xNext)
		pNext = PredictCov(m, pNext)
		xs[i] = xNext
		ps[i] = pNext
	}

	return xs, ps, nil
}

// Forecast returns state means forecast h periods ahead of the current a-posteriori estimate.
func (k *KF) Forecast(h int) ([]mat.Vector, error) {
	return Forecast(k.m, k.xPost, h)
}

// ForecastCov returns state means and covariances forecast h periods ahead
// of the current a-posteriori estimate.
func (k *KF) ForecastCov(h int) ([]mat.Vector, []mat.Symmetric, error) {
	return ForecastCov(k.m, k.xPost, k.pPost, h)
}

func checkForecast(m ssm.Model, x mat.Vector, h int) error {
	if h < 0 {
		return fmt.Errorf("horizon %d: %w", h, ssm.ErrHorizon)
	}

	if nx, _, _ := m.Dims(); x == nil || x.Len() != nx {
		return fmt.Errorf("invalid state dimensions: %w", ssm.ErrDims)
	}

	return nil
}
