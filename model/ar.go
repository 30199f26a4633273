package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// AR returns config of autoregressive model of order p = len(phi) observed with additive noise:
//
//	z[t] = phi[0]*z[t-1] + ... + phi[p-1]*z[t-p] + u[t],  u ~ N(0, sigma2)
//	y[t] = z[t] + v[t],                                  v ~ N(0, r)
//
// The state vector stacks (z[t], ..., z[t-p+1]) so C is the companion matrix of phi.
// Initial condition is the stationary distribution of the state.
// The returned config has no data: Y must be set before a model is created from it.
// It returns error if phi is empty, sigma2 is non-positive, r is negative
// or if phi does not describe a stationary process.
func AR(phi []float64, sigma2, r float64) (*Config, error) {
	p := len(phi)
	if p == 0 {
		return nil, fmt.Errorf("invalid AR coefficients: %v", phi)
	}

	if sigma2 <= 0 || r < 0 {
		return nil, fmt.Errorf("invalid AR noise variances: sigma2=%f r=%f", sigma2, r)
	}

	c := mat.NewDense(p, p, nil)
	c.SetRow(0, phi)
	for i := 1; i < p; i++ {
		c.Set(i, i-1, 1.0)
	}

	b := mat.NewDense(1, p, nil)
	b.Set(0, 0, 1.0)

	dqd := mat.NewSymDense(p, nil)
	dqd.SetSym(0, 0, sigma2)

	if !stationary(c) {
		return nil, fmt.Errorf("non-stationary AR coefficients: %v", phi)
	}

	init, err := StationaryInitCond(c, dqd)
	if err != nil {
		return nil, err
	}

	return &Config{
		C:   c,
		B:   b,
		R:   mat.NewSymDense(1, []float64{r}),
		DQD: dqd,
		X0:  init.State(),
		P0:  init.Cov(),
	}, nil
}

// stationary returns true if all eigenvalues of c lie strictly inside the unit circle.
func stationary(c mat.Matrix) bool {
	var eig mat.Eigen
	if ok := eig.Factorize(c, mat.EigenNone); !ok {
		return false
	}

	for _, v := range eig.Values(nil) {
		if real(v)*real(v)+imag(v)*imag(v) >= 1.0 {
			return false
		}
	}

	return true
}
