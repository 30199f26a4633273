package kalman

import (
	ssm "github.com/milosgajdos/go-ssm"
	"gonum.org/v1/gonum/mat"
)

// Filter is Kalman filter of a linear state-space model advanced one period at a time
type Filter interface {
	// Model returns filtered model
	Model() ssm.Model
	// Step advances the filter by one period
	Step() error
	// T returns the number of periods filtered so far
	T() int
	// Prior returns a-priori estimate of the current period
	Prior() ssm.Estimate
	// Posterior returns a-posteriori estimate of the current period
	Posterior() ssm.Estimate
	// LogLik returns log-likelihood accumulated so far
	LogLik() (float64, error)
	// History returns filter history
	History() (History, error)
}

// History is per-period filter history.
// Periods are numbered from 1 to Len() in chronological order.
type History interface {
	// Len returns the number of stored periods
	Len() int
	// Rows returns measurement rows observed in period t
	Rows(t int) []int
	// XPrior returns a-priori state mean of period t
	XPrior(t int) mat.Vector
	// XPost returns a-posteriori state mean of period t
	XPost(t int) mat.Vector
	// PPrior returns a-priori state covariance of period t
	PPrior(t int) mat.Symmetric
	// PPost returns a-posteriori state covariance of period t
	PPost(t int) mat.Symmetric
	// Innovation returns innovation vector of period t
	Innovation(t int) mat.Vector
	// InvInnovCov returns inverse innovation covariance of period t
	InvInnovCov(t int) mat.Matrix
	// GainComplement returns I - P*B'*inv(F)*B of period t
	GainComplement(t int) mat.Matrix
}
