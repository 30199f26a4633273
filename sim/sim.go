// Package sim simulates linear Gaussian state-space models and plots filtered series.
package sim

import (
	"fmt"

	ssm "github.com/milosgajdos/go-ssm"
	"github.com/milosgajdos/go-ssm/model"
	"github.com/milosgajdos/go-ssm/noise"
	"github.com/milosgajdos/go-ssm/rnd"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

const (
	// obsNoiseStream is the random stream of observation noise
	obsNoiseStream uint64 = iota + 1
	// MaskStream is the random stream for Mask of simulated data
	MaskStream
)

// SubSeed derives non-zero seed of random stream from seed.
// Different streams derived from the same seed are not correlated.
func SubSeed(seed, stream uint64) uint64 {
	// splitmix64
	z := seed + stream*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	z ^= z >> 31
	if z == 0 {
		z = 1
	}

	return z
}

// Config configures simulation
type Config struct {
	// T is the number of simulated periods
	T int
	// Seed seeds all random draws; the same seed produces the same data
	Seed uint64
}

// Simulate draws a state path and observations of T periods from the model described by c.
// The initial state is drawn from N(X0, P0). Y of c is ignored.
// It returns states [m x T] and observations [n x T] stored in columns.
// It returns error if c is invalid or if the noise distributions can't be created.
func Simulate(c *model.Config, cfg Config) (states, obs *mat.Dense, err error) {
	if c == nil {
		return nil, nil, fmt.Errorf("invalid config: %v", c)
	}

	if cfg.T <= 0 {
		return nil, nil, fmt.Errorf("invalid number of periods: %d", cfg.T)
	}

	sys, err := NewSystem(c.C, c.B)
	if err != nil {
		return nil, nil, err
	}
	nx, ny := sys.SystemDims()

	if c.X0 == nil || c.P0 == nil || c.DQD == nil || c.R == nil ||
		c.X0.Len() != nx || c.P0.SymmetricDim() != nx || c.DQD.SymmetricDim() != nx || c.R.SymmetricDim() != ny {
		return nil, nil, fmt.Errorf("invalid noise or initial condition dimensions: %w", ssm.ErrDims)
	}

	src := rand.New(rand.NewSource(cfg.Seed))

	x0, err := rnd.WithCovN(c.P0, 1, src)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to draw initial state: %w", err)
	}
	x := &mat.VecDense{}
	x.AddVec(c.X0, x0.ColView(0))

	w, err := rnd.WithCovN(c.DQD, cfg.T, src)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to draw state noise: %w", err)
	}

	v, err := newObsNoise(c.R, SubSeed(cfg.Seed, obsNoiseStream))
	if err != nil {
		return nil, nil, err
	}

	states = mat.NewDense(nx, cfg.T, nil)
	obs = mat.NewDense(ny, cfg.T, nil)

	var xNext, y mat.Vector = x, nil
	for t := 0; t < cfg.T; t++ {
		xNext, err = sys.Propagate(xNext, w.ColView(t))
		if err != nil {
			return nil, nil, err
		}

		y, err = sys.Observe(xNext, v.Sample())
		if err != nil {
			return nil, nil, err
		}

		states.SetCol(t, mat.Col(nil, 0, xNext))
		obs.SetCol(t, mat.Col(nil, 0, y))
	}

	return states, obs, nil
}

// newObsNoise returns observation noise with covariance r.
// Zero noise is returned if r is a zero matrix.
func newObsNoise(r mat.Symmetric, seed uint64) (ssm.Noise, error) {
	n := r.SymmetricDim()
	if mat.Equal(r, mat.NewSymDense(n, nil)) {
		z, err := noise.NewZero(n)
		if err != nil {
			return nil, err
		}
		return z, nil
	}

	g, err := noise.NewGaussian(make([]float64, n), r, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to create observation noise: %w", err)
	}

	return g, nil
}

// Mask returns a copy of y with every entry marked missing with probability rate.
// It returns error if rate is outside [0, 1].
func Mask(y mat.Matrix, rate float64, seed uint64) (*mat.Dense, error) {
	if rate < 0 || rate > 1 {
		return nil, fmt.Errorf("invalid missing rate: %f", rate)
	}

	src := rand.New(rand.NewSource(seed))

	masked := mat.DenseCopyOf(y)
	rows, cols := masked.Dims()
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			if src.Float64() < rate {
				masked.Set(i, j, ssm.Missing())
			}
		}
	}

	return masked, nil
}
