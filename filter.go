package ssm

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Model is a linear Gaussian state-space model together with the data it is filtered on:
//
//	x[t] = C*x[t-1] + w[t],  w ~ N(0, DQD)
//	y[t] = B*x[t] + v[t],    v ~ N(0, R)
//
// Model is read-only for the duration of a filtering run.
type Model interface {
	// Dims returns state dimension m, measurement dimension n and number of periods T
	Dims() (m, n, T int)
	// Transition returns state transition matrix C [m x m]
	Transition() mat.Matrix
	// Loading returns observation loading matrix B [n x m]
	Loading() mat.Matrix
	// ObsCov returns observation noise covariance R [n x n]
	ObsCov() mat.Symmetric
	// StateCov returns process noise covariance mapped into state space DQD' [m x m]
	StateCov() mat.Symmetric
	// InitCond returns time-zero prior
	InitCond() InitCond
	// Data returns observations Y [n x T]; missing entries are NaN
	Data() mat.Matrix
	// LogLik reports whether the filter accumulates log-likelihood
	LogLik() bool
	// History reports whether the filter retains per-step history
	History() bool
}

// InitCond is initial state condition of the filter
type InitCond interface {
	// State returns initial filter state
	State() mat.Vector
	// Cov returns initial state covariance
	Cov() mat.Symmetric
}

// Estimate is state estimate
type Estimate interface {
	// Val returns estimate value
	Val() mat.Vector
	// Cov returns estimate covariance
	Cov() mat.Symmetric
}

// Noise is dynamical system noise
type Noise interface {
	// Mean returns noise mean
	Mean() []float64
	// Cov returns covariance matrix of the noise
	Cov() mat.Symmetric
	// Sample returns a sample of the noise
	Sample() mat.Vector
}

// Missing returns the value which marks an observation as missing.
func Missing() float64 {
	return math.NaN()
}

// IsMissing returns true if v marks a missing observation.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}
