package matrix

import (
	"errors"
	"math"
	"testing"

	ssm "github.com/milosgajdos/go-ssm"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestEye(t *testing.T) {
	assert := assert.New(t)

	eye := Eye(3)
	r, c := eye.Dims()
	assert.Equal(3, r)
	assert.Equal(3, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if i == j {
				assert.Equal(1.0, eye.At(i, j))
				continue
			}
			assert.Equal(0.0, eye.At(i, j))
		}
	}

	assert.Panics(func() { Eye(0) })
}

func TestSym(t *testing.T) {
	assert := assert.New(t)

	m := mat.NewDense(2, 2, []float64{1.0, 2.0, 2.0000001, 4.0})
	s := Sym(m)
	assert.Equal(2, s.SymmetricDim())
	assert.Equal(2.0, s.At(0, 1))
	assert.Equal(2.0, s.At(1, 0))
	assert.Equal(4.0, s.At(1, 1))

	assert.Panics(func() { Sym(mat.NewDense(2, 3, nil)) })
}

func TestSub(t *testing.T) {
	assert := assert.New(t)

	m := mat.NewDense(3, 2, []float64{
		1.0, 2.0,
		3.0, 4.0,
		5.0, 6.0,
	})
	idx := []int{0, 2}

	rows := SubRows(m, idx)
	assert.True(mat.Equal(rows, mat.NewDense(2, 2, []float64{1.0, 2.0, 5.0, 6.0})))

	col := SubCol(m, 1, idx)
	assert.InDeltaSlice([]float64{2.0, 6.0}, col.RawVector().Data, 1e-12)

	s := mat.NewSymDense(3, []float64{
		1.0, 0.1, 0.2,
		0.1, 2.0, 0.3,
		0.2, 0.3, 3.0,
	})
	sub := SubSym(s, idx)
	assert.True(mat.Equal(sub, mat.NewSymDense(2, []float64{1.0, 0.2, 0.2, 3.0})))
}

func TestLogDet(t *testing.T) {
	assert := assert.New(t)

	m := mat.NewDense(2, 2, []float64{2.0, 0.0, 0.0, 3.0})
	ld, err := LogDet(m)
	assert.NoError(err)
	assert.InDelta(math.Log(6.0), ld, 1e-12)

	_, err = LogDet(mat.NewDense(2, 2, []float64{1.0, 1.0, 1.0, 1.0}))
	assert.Error(err)
	assert.True(errors.Is(err, ssm.ErrSingular))

	_, err = LogDet(mat.NewDense(1, 1, []float64{-1.0}))
	assert.Error(err)
}
