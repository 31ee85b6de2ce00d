// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proxal

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/curioloop/proxal/manifold"
)

// proxPenalty is ½·d(x,x̄)ᵀ·W·d(x,x̄) = ρ/2·‖d(x,x̄)‖² with d(x,x̄) =
// Difference(x̄, x) and W = ρ·I, matching the solver's choice of a scalar weight. It keeps a
// reference point x̄ on M and is updated to the newly accepted iterate each
// time the outer loop accepts multipliers.
type proxPenalty struct {
	man    manifold.Interface
	xbar   []float64
	rho    float64
	diff   []float64
	jacFst *mat.Dense
}

func newProxPenalty(man manifold.Interface) *proxPenalty {
	p := &proxPenalty{
		man:    man,
		xbar:   make([]float64, man.Nx()),
		diff:   make([]float64, man.NDx()),
		jacFst: mat.NewDense(man.NDx(), man.NDx(), nil),
	}
	man.Neutral(p.xbar)
	return p
}

func (p *proxPenalty) updateTarget(x []float64) { copy(p.xbar, x) }

func (p *proxPenalty) setWeight(rho float64) { p.rho = rho }

// value returns ρ/2·‖d‖² at x.
func (p *proxPenalty) value(x []float64) float64 {
	if p.rho == 0 {
		return 0
	}
	p.man.Difference(p.xbar, x, p.diff)
	return 0.5 * p.rho * floats.Dot(p.diff, p.diff)
}

// gradient writes ρ·J₁ᵗ·d into grad (len NDx), where J₁ = ∂Difference/∂x
// evaluated at (x̄, x).
func (p *proxPenalty) gradient(x []float64, grad []float64) {
	if p.rho == 0 {
		for i := range grad {
			grad[i] = 0
		}
		return
	}
	p.man.Difference(p.xbar, x, p.diff)
	p.man.JDifferenceSecond(p.xbar, x, p.jacFst)
	var g mat.VecDense
	g.MulVec(p.jacFst.T(), mat.NewVecDense(len(p.diff), p.diff))
	for i := range grad {
		grad[i] = p.rho * g.AtVec(i)
	}
}

// hessian overwrites hess with ρ·J₁ᵗ·J₁ (Gauss-Newton approximation of the
// proximal Hessian, exact when M is Euclidean).
func (p *proxPenalty) hessian(x []float64, hess *mat.Dense) {
	hess.Zero()
	if p.rho == 0 {
		return
	}
	p.man.JDifferenceSecond(p.xbar, x, p.jacFst)
	hess.Mul(p.jacFst.T(), p.jacFst)
	hess.Scale(p.rho, hess)
}
