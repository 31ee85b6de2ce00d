// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cone

import "gonum.org/v1/gonum/mat"

// Zero is the equality constraint set C = {0}^r. Its normal cone at any
// point is all of ℝʳ, so the normal-cone projection is the identity and
// every coordinate is permanently active.
type Zero struct {
	r int
}

// NewZero returns the equality cone of dimension r.
func NewZero(r int) *Zero {
	if r <= 0 {
		panic("cone dimension must be greater than 0")
	}
	return &Zero{r: r}
}

func (z *Zero) Dim() int { return z.r }

func (z *Zero) Projection(_, out []float64) {
	checkLen(out, z.r)
	for i := range out {
		out[i] = 0
	}
}

func (z *Zero) NormalConeProjection(v, out []float64) {
	checkLen(v, z.r)
	checkLen(out, z.r)
	copy(out, v)
}

// ApplyNormalConeProjectionJacobian is a no-op: the normal-cone projection
// onto {0}'s polar is the identity map, so its Jacobian is the identity.
func (z *Zero) ApplyNormalConeProjectionJacobian(v []float64, jac *mat.Dense) {
	checkLen(v, z.r)
	if r, _ := jac.Dims(); r != z.r {
		panic("bound check error")
	}
}

func (z *Zero) ComputeActiveSet(v []float64, out []bool) {
	checkLen(v, z.r)
	if len(out) != z.r {
		panic("bound check error")
	}
	for i := range out {
		out[i] = true
	}
}

func (z *Zero) DisableGaussNewton() bool { return false }

func (z *Zero) SetProxParameters(float64) {}
