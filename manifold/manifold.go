// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package manifold models the differentiable manifold a solver's primal
// variable lives on: a retraction (Integrate), its local inverse
// (Difference), and the tangent-space Jacobians of Difference.
package manifold

import "gonum.org/v1/gonum/mat"

// Interface is a differentiable manifold M with ambient dimension Nx and
// tangent-space dimension NDx. Implementations must satisfy, for every x, y
// on M and small tangent vector v:
//
//	Integrate(x, zero, out)       ⇒ out == x
//	Difference(x, Integrate(x,v)) ⇒ v
type Interface interface {
	// Nx returns the ambient (embedding) dimension.
	Nx() int
	// NDx returns the tangent-space dimension.
	NDx() int
	// Neutral writes the canonical origin of the manifold into out (len Nx).
	Neutral(out []float64)
	// Integrate computes the retraction x⊕v and writes it into out (len Nx).
	Integrate(x, v, out []float64)
	// Difference computes v = y⊖x, the tangent vector at x pointing to y,
	// and writes it into out (len NDx).
	Difference(x, y, out []float64)
	// JDifferenceFirst writes ∂Difference/∂x into jac (NDx × NDx).
	JDifferenceFirst(x, y []float64, jac *mat.Dense)
	// JDifferenceSecond writes ∂Difference/∂y into jac (NDx × NDx).
	JDifferenceSecond(x, y []float64, jac *mat.Dense)
}
