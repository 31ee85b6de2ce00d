// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cone

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestZeroProjectionIsAlwaysOrigin(t *testing.T) {
	z := NewZero(3)
	out := make([]float64, 3)
	z.Projection([]float64{1, -2, 3}, out)
	require.Equal(t, []float64{0, 0, 0}, out)
}

func TestZeroNormalConeProjectionIsIdentity(t *testing.T) {
	z := NewZero(3)
	v := []float64{1, -2, 3}
	out := make([]float64, 3)
	z.NormalConeProjection(v, out)
	require.Equal(t, v, out)
}

func TestZeroActiveSetAlwaysTrue(t *testing.T) {
	z := NewZero(2)
	active := make([]bool, 2)
	z.ComputeActiveSet([]float64{0, 100}, active)
	require.Equal(t, []bool{true, true}, active)
}

func TestZeroJacobianPanicsOnDimMismatch(t *testing.T) {
	z := NewZero(2)
	require.Panics(t, func() {
		z.ApplyNormalConeProjectionJacobian([]float64{0, 0}, mat.NewDense(3, 2, nil))
	})
}
