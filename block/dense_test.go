// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package block

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func symmetricIndefinite3x3() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		4, 2, 0,
		2, 3, 1,
		0, 1, -2,
	})
}

func TestDenseSolveRecoversKnownSolution(t *testing.T) {
	a := symmetricIndefinite3x3()
	xKnown := mat.NewVecDense(3, []float64{1, -2, 3})
	var b mat.VecDense
	b.MulVec(a, xKnown)

	d := NewDense(3)
	require.NoError(t, d.Compute(a))

	rhs := append([]float64(nil), b.RawVector().Data...)
	require.NoError(t, d.SolveInPlace(rhs))

	for i := 0; i < 3; i++ {
		require.InDelta(t, xKnown.AtVec(i), rhs[i], 1e-9)
	}
}

func TestDenseVectorDSignatureMatchesInertia(t *testing.T) {
	a := symmetricIndefinite3x3()
	d := NewDense(3)
	require.NoError(t, d.Compute(a))

	pos, neg := 0, 0
	for _, v := range d.VectorD() {
		if v > 0 {
			pos++
		} else if v < 0 {
			neg++
		}
	}
	require.Equal(t, 3, pos+neg)
	// D = (4, 2, -2.5): two positive pivots and one negative.
	require.Equal(t, 2, pos)
	require.Equal(t, 1, neg)
}

func TestDenseComputeRejectsWrongDimension(t *testing.T) {
	d := NewDense(3)
	require.Panics(t, func() {
		_ = d.Compute(mat.NewDense(2, 2, nil))
	})
}

func TestDenseRcondIsOneForIdentity(t *testing.T) {
	d := NewDense(2)
	require.NoError(t, d.Compute(mat.NewDense(2, 2, []float64{1, 0, 0, 1})))
	require.InDelta(t, 1.0, d.Rcond(), 1e-12)
}
