// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package block

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestExternalSolveRecoversKnownSolution(t *testing.T) {
	a := symmetricIndefinite3x3()
	xKnown := mat.NewVecDense(3, []float64{2, 0, -3})
	var b mat.VecDense
	b.MulVec(a, xKnown)

	e := NewExternal(3)
	require.NoError(t, e.Compute(a))

	rhs := append([]float64(nil), b.RawVector().Data...)
	require.NoError(t, e.SolveInPlace(rhs))

	for i := 0; i < 3; i++ {
		require.InDelta(t, xKnown.AtVec(i), rhs[i], 1e-9)
	}
}

func TestExternalRejectsSingularMatrix(t *testing.T) {
	singular := mat.NewDense(2, 2, []float64{1, 2, 2, 4})
	e := NewExternal(2)
	require.Error(t, e.Compute(singular))
}

func TestExternalMatrixLDLTHasCorrectDims(t *testing.T) {
	a := symmetricIndefinite3x3()
	e := NewExternal(3)
	require.NoError(t, e.Compute(a))
	r, c := e.MatrixLDLT().Dims()
	require.Equal(t, 3, r)
	require.Equal(t, 3, c)
}
