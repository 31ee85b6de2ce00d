// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cone models the closed convex sets a constraint function maps
// into: the Euclidean projection onto the set and onto its normal cone,
// plus the small amount of derivative and bookkeeping machinery the inner
// Newton loop needs from each one.
package cone

import "gonum.org/v1/gonum/mat"

// Set is a closed convex set Cᵢ ⊆ ℝʳ equipped with a projection operator.
// Implementations must satisfy the identity z = Projection(z) + NormalConeProjection(z)
// for every z, and both projections must be idempotent and non-expansive.
type Set interface {
	// Dim returns r, the dimension of the set.
	Dim() int
	// Projection writes the Euclidean projection of z onto C into out.
	Projection(z, out []float64)
	// NormalConeProjection writes z - Projection(z) into out.
	NormalConeProjection(z, out []float64)
	// ApplyNormalConeProjectionJacobian left-multiplies jac in place by the
	// (generalized) Jacobian of NormalConeProjection at z.
	ApplyNormalConeProjectionJacobian(z []float64, jac *mat.Dense)
	// ComputeActiveSet writes a per-coordinate active-set indicator at z into out.
	ComputeActiveSet(z []float64, out []bool)
	// DisableGaussNewton hints that the solver should not form the
	// vector-Hessian product for this constraint under Gauss-Newton mode.
	DisableGaussNewton() bool
	// SetProxParameters lets the set rescale any internal state with the
	// current penalty parameter μ.
	SetProxParameters(mu float64)
}

func checkLen(v []float64, n int) {
	if len(v) != n {
		panic("bound check error")
	}
}
