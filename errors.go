package ssm

import "errors"

var (
	// ErrDims is returned when model matrices have inconsistent dimensions.
	ErrDims = errors.New("inconsistent model dimensions")
	// ErrSingular is returned when a matrix which must be inverted is singular.
	ErrSingular = errors.New("singular matrix")
	// ErrOverflow is returned when the filter is stepped past the last period.
	ErrOverflow = errors.New("filter stepped past the last period")
	// ErrNoLogLik is returned when log-likelihood is read but was not computed.
	ErrNoLogLik = errors.New("log-likelihood not computed")
	// ErrNoHistory is returned when filter history is requested but was not stored.
	ErrNoHistory = errors.New("filter history not stored")
	// ErrNotStarted is returned when an operation requires at least one filter step.
	ErrNotStarted = errors.New("filter has not been stepped")
	// ErrHorizon is returned for negative forecast horizons.
	ErrHorizon = errors.New("invalid forecast horizon")
)
