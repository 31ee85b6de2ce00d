// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package block

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrExternalSingular is returned when gonum's LU factorization reports a
// (near-)singular matrix.
var ErrExternalSingular = errors.New("block: external factorization found a singular matrix")

// External defers factorization to gonum's mat.LU, playing the role the
// spec reserves for a pluggable third-party dense linear-algebra backend
// (the original design names this slot after the Eigen C++ library; since
// there is no Go binding for it anywhere in the retrieved corpus, gonum's
// own LU factorization fills the same role).
//
// VectorD reports the signed diagonal of the U factor as an approximation
// of the LDLT pivot signature: LU pivoting does not track inertia the way
// a true LDLT does, so callers that need an exact signature should use
// Blocked or Dense instead. This backend exists to exercise a second,
// independently-sourced dense solve path.
type External struct {
	n  int
	lu mat.LU
	d  []float64
}

// NewExternal returns an empty External LDLT-compatible factorization sized for an n×n matrix.
func NewExternal(n int) *External {
	if n <= 0 {
		panic("bound check error")
	}
	return &External{n: n, d: make([]float64, n)}
}

func (e *External) Compute(k *mat.Dense) error {
	if r, c := k.Dims(); r != e.n || c != e.n {
		panic("bound check error")
	}
	e.lu.Factorize(k)
	if cond := e.lu.Cond(); cond == 0 || math.IsInf(cond, 1) {
		return ErrExternalSingular
	}
	var u mat.TriDense
	e.lu.UTo(&u)
	for i := 0; i < e.n; i++ {
		e.d[i] = u.At(i, i)
	}
	return nil
}

func (e *External) SolveInPlace(rhs []float64) error {
	if len(rhs) != e.n {
		panic("bound check error")
	}
	b := mat.NewVecDense(e.n, append([]float64(nil), rhs...))
	var x mat.VecDense
	if err := e.lu.SolveVecTo(&x, false, b); err != nil {
		return err
	}
	for i := 0; i < e.n; i++ {
		rhs[i] = x.AtVec(i)
	}
	return nil
}

func (e *External) MatrixLDLT() *mat.Dense {
	var l, u mat.TriDense
	e.lu.LTo(&l)
	e.lu.UTo(&u)
	packed := mat.NewDense(e.n, e.n, nil)
	for i := 0; i < e.n; i++ {
		for j := 0; j < e.n; j++ {
			if j < i {
				packed.Set(i, j, l.At(i, j))
			} else {
				packed.Set(i, j, u.At(i, j))
			}
		}
	}
	return packed
}

func (e *External) VectorD() []float64 { return e.d }

func (e *External) Rcond() float64 {
	c := e.lu.Cond()
	if c > 0 && !math.IsInf(c, 1) {
		return 1 / c
	}
	return 0
}
