// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cone

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestBoxProjectionPlusNormalConeReconstructsInput(t *testing.T) {
	b := NewBox([]float64{-1, 0}, []float64{1, 2})
	z := []float64{2.5, -3.0}

	proj := make([]float64, 2)
	normal := make([]float64, 2)
	b.Projection(z, proj)
	b.NormalConeProjection(z, normal)

	for i := range z {
		require.InDelta(t, z[i], proj[i]+normal[i], 1e-12)
	}
}

func TestBoxProjectionIsIdempotent(t *testing.T) {
	b := NewBox([]float64{-1, 0}, []float64{1, 2})
	z := []float64{2.5, -3.0}

	once := make([]float64, 2)
	twice := make([]float64, 2)
	b.Projection(z, once)
	b.Projection(once, twice)

	require.Equal(t, once, twice)
}

func TestBoxActiveSetMatchesBinding(t *testing.T) {
	b := NewBox([]float64{-1, 0}, []float64{1, 2})
	z := []float64{2.5, 1.0}
	active := make([]bool, 2)
	b.ComputeActiveSet(z, active)
	require.Equal(t, []bool{true, false}, active)
}

func TestBoxJacobianZeroesInactiveRows(t *testing.T) {
	b := NewBox([]float64{-1, -1}, []float64{1, 1})
	z := []float64{2.0, 0.0}
	jac := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	b.ApplyNormalConeProjectionJacobian(z, jac)

	require.Equal(t, 1.0, jac.At(0, 0))
	require.Equal(t, 2.0, jac.At(0, 1))
	require.Equal(t, 0.0, jac.At(1, 0))
	require.Equal(t, 0.0, jac.At(1, 1))
}

func TestNewBoxPanicsOnInfeasibleBounds(t *testing.T) {
	require.Panics(t, func() {
		NewBox([]float64{1}, []float64{0})
	})
}
