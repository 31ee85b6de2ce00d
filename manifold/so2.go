// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manifold

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// SO2 is the rotation group in the plane. Points are represented in the
// embedding ℝ² as unit vectors (cosθ, sinθ) so Nx == 2; the tangent space
// is the angle increment so NDx == 1.
type SO2 struct{}

func (SO2) Nx() int  { return 2 }
func (SO2) NDx() int { return 1 }

func (SO2) Neutral(out []float64) {
	checkLen(out, 2)
	out[0], out[1] = 1, 0
}

func (SO2) Integrate(x, v, out []float64) {
	checkLen(x, 2)
	checkLen(v, 1)
	checkLen(out, 2)
	theta := math.Atan2(x[1], x[0]) + v[0]
	out[0], out[1] = math.Cos(theta), math.Sin(theta)
}

func (SO2) Difference(x, y, out []float64) {
	checkLen(x, 2)
	checkLen(y, 2)
	checkLen(out, 1)
	out[0] = wrapAngle(math.Atan2(y[1], y[0]) - math.Atan2(x[1], x[0]))
}

func (SO2) JDifferenceFirst(x, y []float64, jac *mat.Dense) {
	checkSquare1(jac)
	jac.Set(0, 0, -1)
}

func (SO2) JDifferenceSecond(x, y []float64, jac *mat.Dense) {
	checkSquare1(jac)
	jac.Set(0, 0, 1)
}

func wrapAngle(theta float64) float64 {
	theta = math.Mod(theta+math.Pi, 2*math.Pi)
	if theta < 0 {
		theta += 2 * math.Pi
	}
	return theta - math.Pi
}

func checkLen(v []float64, n int) {
	if len(v) != n {
		panic("bound check error")
	}
}

func checkSquare1(m *mat.Dense) {
	r, c := m.Dims()
	if r != 1 || c != 1 {
		panic("bound check error")
	}
}
