// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package block

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// arrowheadMatrix builds a 4x4 symmetric matrix with a 2x2 hub block densely
// coupled to two 1x1 leaf blocks that do not couple to each other, matching
// the Symbolic shape DefaultStructure(2, []int{1,1}) describes.
func arrowheadMatrix() *mat.Dense {
	return mat.NewDense(4, 4, []float64{
		4, 1, 1, 0.2,
		1, 3, 0.5, 1,
		1, 0.5, 5, 0,
		0.2, 1, 0, 6,
	})
}

func TestBlockedSolveAgreesWithDenseOnArrowheadMatrix(t *testing.T) {
	a := arrowheadMatrix()
	xKnown := mat.NewVecDense(4, []float64{1, 2, -1, 0.5})
	var b mat.VecDense
	b.MulVec(a, xKnown)
	rawB := append([]float64(nil), b.RawVector().Data...)

	sym := DefaultStructure(2, []int{1, 1})
	blocked := NewBlocked(sym)
	require.NoError(t, blocked.Compute(a))

	blockedRHS := append([]float64(nil), rawB...)
	require.NoError(t, blocked.SolveInPlace(blockedRHS))

	dense := NewDense(4)
	require.NoError(t, dense.Compute(a))
	denseRHS := append([]float64(nil), rawB...)
	require.NoError(t, dense.SolveInPlace(denseRHS))

	for i := 0; i < 4; i++ {
		require.InDelta(t, denseRHS[i], blockedRHS[i], 1e-9)
		require.InDelta(t, xKnown.AtVec(i), blockedRHS[i], 1e-9)
	}
}

func TestNewBlockedPanicsOnUnsupportedStructure(t *testing.T) {
	// A fully-coupled 3-block matrix: whichever block is chosen as hub, the
	// remaining two blocks still couple to each other, which Blocked cannot
	// represent.
	sym := NewSymbolic([]int{1, 1, 1})
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			sym.Kinds[i][j] = DenseKind
		}
	}

	require.Panics(t, func() {
		NewBlocked(sym)
	})
}

func TestBlockedVectorDHasHubLengthPlusLeafLength(t *testing.T) {
	a := arrowheadMatrix()
	sym := DefaultStructure(2, []int{1, 1})
	blocked := NewBlocked(sym)
	require.NoError(t, blocked.Compute(a))
	require.Len(t, blocked.VectorD(), 4)
}
