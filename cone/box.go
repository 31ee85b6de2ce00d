// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cone

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Box is the per-coordinate box set C = [l,u]^r, with ±Inf bounds allowed.
// It degenerates to the nonpositive/nonnegative orthant when one bound per
// coordinate is infinite, and to Zero when Lower[i] == Upper[i] == 0.
type Box struct {
	Lower, Upper []float64

	// ApplyNormalConeProjectionJacobian scratch, preallocated once and
	// overwritten every call.
	active []bool
}

// NewBox returns the box cone with the given per-coordinate bounds.
func NewBox(lower, upper []float64) *Box {
	if len(lower) != len(upper) || len(lower) == 0 {
		panic("bound check error")
	}
	for i := range lower {
		if lower[i] > upper[i] {
			panic("box cone has no feasible coordinate")
		}
	}
	return &Box{Lower: lower, Upper: upper, active: make([]bool, len(lower))}
}

func (b *Box) Dim() int { return len(b.Lower) }

func (b *Box) Projection(z, out []float64) {
	checkLen(z, b.Dim())
	checkLen(out, b.Dim())
	for i, v := range z {
		out[i] = math.Min(math.Max(v, b.Lower[i]), b.Upper[i])
	}
}

func (b *Box) NormalConeProjection(z, out []float64) {
	checkLen(z, b.Dim())
	checkLen(out, b.Dim())
	for i, v := range z {
		out[i] = v - math.Min(math.Max(v, b.Lower[i]), b.Upper[i])
	}
}

func (b *Box) ApplyNormalConeProjectionJacobian(z []float64, jac *mat.Dense) {
	checkLen(z, b.Dim())
	r, c := jac.Dims()
	if r != b.Dim() {
		panic("bound check error")
	}
	b.ComputeActiveSet(z, b.active)
	for i, a := range b.active {
		if !a {
			for j := 0; j < c; j++ {
				jac.Set(i, j, 0)
			}
		}
	}
}

// ComputeActiveSet reports the coordinates where z lies outside (Lower, Upper),
// i.e. where the box constraint is binding.
func (b *Box) ComputeActiveSet(z []float64, out []bool) {
	checkLen(z, b.Dim())
	if len(out) != b.Dim() {
		panic("bound check error")
	}
	for i, v := range z {
		out[i] = v <= b.Lower[i] || v >= b.Upper[i]
	}
}

func (b *Box) DisableGaussNewton() bool { return false }

func (b *Box) SetProxParameters(float64) {}
