package matrix

import (
	"fmt"
	"math"

	ssm "github.com/milosgajdos/go-ssm"
	gomatrix "github.com/milosgajdos/matrix"
	"gonum.org/v1/gonum/mat"
)

// Eye returns n x n identity matrix.
// It panics if n is non-positive.
func Eye(n int) *mat.Dense {
	eye, err := gomatrix.NewDenseValIdentity(n, 1.0)
	if err != nil {
		panic(err)
	}

	return eye
}

// Sym returns symmetric matrix built from the upper triangle of square matrix m.
// It panics if m is not square.
func Sym(m mat.Matrix) *mat.SymDense {
	r, c := m.Dims()
	if r != c {
		panic(mat.ErrShape)
	}

	s := mat.NewSymDense(r, nil)
	for i := 0; i < r; i++ {
		for j := i; j < r; j++ {
			s.SetSym(i, j, m.At(i, j))
		}
	}

	return s
}

// SubRows returns a copy of the rows of m indexed by idx.
func SubRows(m mat.Matrix, idx []int) *mat.Dense {
	_, c := m.Dims()
	sub := mat.NewDense(len(idx), c, nil)
	for i, r := range idx {
		for j := 0; j < c; j++ {
			sub.Set(i, j, m.At(r, j))
		}
	}

	return sub
}

// SubSym returns a copy of the rows and columns of s indexed by idx.
func SubSym(s mat.Symmetric, idx []int) *mat.SymDense {
	sub := mat.NewSymDense(len(idx), nil)
	for i := range idx {
		for j := i; j < len(idx); j++ {
			sub.SetSym(i, j, s.At(idx[i], idx[j]))
		}
	}

	return sub
}

// SubCol returns a copy of the entries of column j of m whose rows are indexed by idx.
func SubCol(m mat.Matrix, j int, idx []int) *mat.VecDense {
	sub := mat.NewVecDense(len(idx), nil)
	for i, r := range idx {
		sub.SetVec(i, m.At(r, j))
	}

	return sub
}

// LogDet returns the natural logarithm of the determinant of square matrix m.
// It returns error if the determinant is not positive.
func LogDet(m mat.Matrix) (float64, error) {
	var lu mat.LU
	lu.Factorize(m)

	det, sign := lu.LogDet()
	if sign <= 0 || math.IsInf(det, -1) {
		return 0, fmt.Errorf("non-positive determinant: %w", ssm.ErrSingular)
	}

	return det, nil
}
