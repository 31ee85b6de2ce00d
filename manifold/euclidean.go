// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manifold

import "gonum.org/v1/gonum/mat"

// Euclidean is the trivial vector-space manifold ℝⁿ: Nx == NDx == n,
// Integrate is vector addition and Difference is vector subtraction.
type Euclidean struct {
	n int
}

// NewEuclidean returns the n-dimensional Euclidean manifold.
func NewEuclidean(n int) *Euclidean {
	if n <= 0 {
		panic("manifold dimension must be greater than 0")
	}
	return &Euclidean{n: n}
}

func (e *Euclidean) Nx() int  { return e.n }
func (e *Euclidean) NDx() int { return e.n }

func (e *Euclidean) Neutral(out []float64) {
	e.checkLen(out, e.n)
	for i := range out {
		out[i] = 0
	}
}

func (e *Euclidean) Integrate(x, v, out []float64) {
	e.checkLen(x, e.n)
	e.checkLen(v, e.n)
	e.checkLen(out, e.n)
	for i := range out {
		out[i] = x[i] + v[i]
	}
}

func (e *Euclidean) Difference(x, y, out []float64) {
	e.checkLen(x, e.n)
	e.checkLen(y, e.n)
	e.checkLen(out, e.n)
	for i := range out {
		out[i] = y[i] - x[i]
	}
}

func (e *Euclidean) JDifferenceFirst(x, y []float64, jac *mat.Dense) {
	e.checkSquare(jac, e.n)
	jac.Zero()
	for i := 0; i < e.n; i++ {
		jac.Set(i, i, -1)
	}
}

func (e *Euclidean) JDifferenceSecond(x, y []float64, jac *mat.Dense) {
	e.checkSquare(jac, e.n)
	jac.Zero()
	for i := 0; i < e.n; i++ {
		jac.Set(i, i, 1)
	}
}

func (e *Euclidean) checkLen(v []float64, n int) {
	if len(v) != n {
		panic("bound check error")
	}
}

func (e *Euclidean) checkSquare(m *mat.Dense, n int) {
	r, c := m.Dims()
	if r != n || c != n {
		panic("bound check error")
	}
}
