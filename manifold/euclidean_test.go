// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manifold

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestEuclideanRoundTrip(t *testing.T) {
	e := NewEuclidean(3)
	x := []float64{1, -2, 3}
	v := []float64{0.5, 0.25, -1}

	y := make([]float64, 3)
	e.Integrate(x, v, y)

	back := make([]float64, 3)
	e.Difference(x, y, back)
	require.InDeltaSlice(t, v, back, 1e-12)
}

func TestEuclideanNeutralIsIdentity(t *testing.T) {
	e := NewEuclidean(2)
	x := []float64{3, 4}
	zero := make([]float64, 2)
	e.Neutral(zero)

	out := make([]float64, 2)
	e.Integrate(x, zero, out)
	require.Equal(t, x, out)
}

func TestEuclideanDifferenceJacobians(t *testing.T) {
	e := NewEuclidean(2)
	x := []float64{1, 2}
	y := []float64{4, 6}

	j1 := mat.NewDense(2, 2, nil)
	j2 := mat.NewDense(2, 2, nil)

	e.JDifferenceFirst(x, y, j1)
	e.JDifferenceSecond(x, y, j2)

	require.Equal(t, -1.0, j1.At(0, 0))
	require.Equal(t, -1.0, j1.At(1, 1))
	require.Equal(t, 1.0, j2.At(0, 0))
	require.Equal(t, 1.0, j2.At(1, 1))
}
