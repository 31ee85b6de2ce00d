// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manifold

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSO2RoundTrip(t *testing.T) {
	var m SO2
	x := []float64{1, 0}
	v := []float64{0.7}

	y := make([]float64, 2)
	m.Integrate(x, v, y)
	require.InDelta(t, 1.0, y[0]*y[0]+y[1]*y[1], 1e-12)

	back := make([]float64, 1)
	m.Difference(x, y, back)
	require.InDelta(t, v[0], back[0], 1e-12)
}

func TestSO2DifferenceWrapsAroundPi(t *testing.T) {
	var m SO2
	x := []float64{math.Cos(3), math.Sin(3)}
	y := []float64{math.Cos(-3), math.Sin(-3)}

	out := make([]float64, 1)
	m.Difference(x, y, out)
	require.Less(t, math.Abs(out[0]), math.Pi)
}

func TestSO2NeutralIsIdentityElement(t *testing.T) {
	var m SO2
	neutral := make([]float64, 2)
	m.Neutral(neutral)
	require.Equal(t, []float64{1, 0}, neutral)
}
