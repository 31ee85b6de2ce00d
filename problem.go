// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package proxal implements a primal-dual augmented Lagrangian solver with
// proximal regularization for problems of the form
//
//	minimize   f(x)
//	subject to c_i(x) ∈ C_i,   i = 1..m,
//	x ∈ M (a differentiable manifold)
//
// The outer Bound-Constrained Lagrangian (BCL) loop adapts the penalty and
// tolerance schedule; the inner Newton loop builds and solves a regularized
// KKT system with inertia correction, iterative refinement and an Armijo
// line search on the augmented-Lagrangian merit function.
package proxal

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/curioloop/proxal/cone"
	"github.com/curioloop/proxal/manifold"
)

// Cost is the objective f : M → ℝ, evaluated and differentiated in the
// tangent space of M (dimension NDx).
type Cost interface {
	// Value returns f(x).
	Value(x []float64) float64
	// Gradient writes ∇f(x) (len NDx) into grad.
	Gradient(x []float64, grad []float64)
	// Hessian writes ∇²f(x) (NDx × NDx) into hess.
	Hessian(x []float64, hess *mat.Dense)
}

// ConstraintFunc is a twice-differentiable map gᵢ : M → ℝ^{rᵢ}.
type ConstraintFunc interface {
	// Dim returns rᵢ.
	Dim() int
	// Value writes gᵢ(x) into out (len rᵢ).
	Value(x []float64, out []float64)
	// Jacobian writes ∂gᵢ/∂x (rᵢ × NDx) into jac.
	Jacobian(x []float64, jac *mat.Dense)
	// VectorHessianProduct writes ⟨v, ∇²gᵢ(x)⟩ (NDx × NDx) into out,
	// overwriting it: the solver does not clear out between calls.
	VectorHessianProduct(x []float64, v []float64, out *mat.Dense)
}

// Constraint pairs a constraint function with the set its value must lie in.
type Constraint struct {
	Func ConstraintFunc
	Set  cone.Set
}

// Problem is the immutable description of a nonlinear program: an objective,
// an ordered set of constraints, and the manifold the primal variable lives
// on. Once constructed it is shared by reference between the solver and its
// sub-objects (merit function, proximal penalty) for the lifetime of the
// longest-lived holder.
type Problem struct {
	Cost        Cost
	Constraints []Constraint
	Manifold    manifold.Interface

	index   []int
	numdual int
}

// ErrNoCost is returned by NewProblem when no cost is supplied.
var ErrNoCost = errors.New("proxal: cost is required")

// ErrNoManifold is returned by NewProblem when no manifold is supplied.
var ErrNoManifold = errors.New("proxal: manifold is required")

// NewProblem validates and constructs a Problem, precomputing the prefix-sum
// index into the concatenated dual-variable buffer.
func NewProblem(cost Cost, constraints []Constraint, man manifold.Interface) (*Problem, error) {
	if cost == nil {
		return nil, ErrNoCost
	}
	if man == nil {
		return nil, ErrNoManifold
	}
	for i, c := range constraints {
		if c.Func == nil {
			return nil, fmt.Errorf("proxal: constraint function at %d is required", i)
		}
		if c.Set == nil {
			return nil, fmt.Errorf("proxal: constraint set at %d is required", i)
		}
		if c.Func.Dim() != c.Set.Dim() {
			return nil, fmt.Errorf("proxal: constraint %d function/set dimension mismatch", i)
		}
	}

	index := make([]int, len(constraints)+1)
	for i, c := range constraints {
		index[i+1] = index[i] + c.Func.Dim()
	}

	return &Problem{
		Cost:        cost,
		Constraints: append([]Constraint(nil), constraints...),
		Manifold:    man,
		index:       index,
		numdual:     index[len(constraints)],
	}, nil
}

// NumConstraints returns the number of constraint blocks m.
func (p *Problem) NumConstraints() int { return len(p.Constraints) }

// ConstraintDim returns rᵢ, the dimension of constraint i.
func (p *Problem) ConstraintDim(i int) int { return p.Constraints[i].Func.Dim() }

// Index returns the offset of constraint i's segment in the concatenated
// dual-variable buffer. Index(0) == 0 and Index(i)+ConstraintDim(i) == Index(i+1).
func (p *Problem) Index(i int) int { return p.index[i] }

// NumDual returns Σrᵢ, the total number of dual variables.
func (p *Problem) NumDual() int { return p.numdual }

// Nx returns the manifold's ambient dimension.
func (p *Problem) Nx() int { return p.Manifold.Nx() }

// NDx returns the manifold's tangent dimension.
func (p *Problem) NDx() int { return p.Manifold.NDx() }

// Evaluate fills ws's constraint-value and stacked-Jacobian buffers from x.
func (p *Problem) Evaluate(x []float64, ws *Workspace) {
	if len(x) != p.Nx() {
		panic("bound check error")
	}
	for i, c := range p.Constraints {
		lo, hi := p.index[i], p.index[i+1]
		c.Func.Value(x, ws.c[lo:hi])
		jac := ws.jacobianView(lo, hi)
		c.Func.Jacobian(x, jac)
	}
}
