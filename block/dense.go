// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package block

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrSingularPivot is returned when a factorization encounters an exactly
// zero (or numerically indistinguishable from zero) diagonal pivot.
var ErrSingularPivot = errors.New("block: singular pivot encountered")

// Dense is the reference LDLT backend: a plain, unpivoted symmetric
// elimination over the whole matrix, ignoring any block structure. It is
// the fallback the solver uses when no symbolic structure is supplied.
type Dense struct {
	n int
	l *mat.Dense // strict lower triangle holds L, diagonal holds D
	d []float64

	// SolveInPlace scratch, preallocated once and overwritten every call.
	y, x []float64
}

// NewDense returns an empty Dense LDLT sized for an n×n matrix.
func NewDense(n int) *Dense {
	if n <= 0 {
		panic("bound check error")
	}
	return &Dense{
		n: n,
		l: mat.NewDense(n, n, nil),
		d: make([]float64, n),
		y: make([]float64, n),
		x: make([]float64, n),
	}
}

func (b *Dense) Compute(k *mat.Dense) error {
	r, c := k.Dims()
	if r != b.n || c != b.n {
		panic("bound check error")
	}
	b.l.Copy(k)
	n := b.n
	for p := 0; p < n; p++ {
		d := b.l.At(p, p)
		if math.Abs(d) < minPivot {
			return ErrSingularPivot
		}
		b.d[p] = d
		invd := 1 / d
		for i := p + 1; i < n; i++ {
			b.l.Set(i, p, b.l.At(i, p)*invd)
		}
		for i := p + 1; i < n; i++ {
			lip := b.l.At(i, p)
			for j := p + 1; j <= i; j++ {
				b.l.Set(i, j, b.l.At(i, j)-lip*d*b.l.At(j, p))
			}
		}
	}
	return nil
}

func (b *Dense) SolveInPlace(rhs []float64) error {
	if len(rhs) != b.n {
		panic("bound check error")
	}
	n := b.n
	y, x := b.y, b.x
	for i := 0; i < n; i++ {
		s := rhs[i]
		for j := 0; j < i; j++ {
			s -= b.l.At(i, j) * y[j]
		}
		y[i] = s
	}
	for i := 0; i < n; i++ {
		if b.d[i] == 0 {
			return ErrSingularPivot
		}
		y[i] /= b.d[i]
	}
	for i := n - 1; i >= 0; i-- {
		s := y[i]
		for j := i + 1; j < n; j++ {
			s -= b.l.At(j, i) * x[j]
		}
		x[i] = s
	}
	copy(rhs, x)
	return nil
}

func (b *Dense) MatrixLDLT() *mat.Dense { return b.l }

func (b *Dense) VectorD() []float64 { return b.d }

func (b *Dense) Rcond() float64 {
	return rcondFromDiag(b.d)
}

const minPivot = 1e-300

func rcondFromDiag(d []float64) float64 {
	if len(d) == 0 {
		return 0
	}
	lo, hi := math.Abs(d[0]), math.Abs(d[0])
	for _, v := range d[1:] {
		av := math.Abs(v)
		lo = math.Min(lo, av)
		hi = math.Max(hi, av)
	}
	if hi == 0 {
		return 0
	}
	return lo / hi
}
