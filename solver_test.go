// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proxal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/curioloop/proxal/cone"
	"github.com/curioloop/proxal/manifold"
	"github.com/curioloop/proxal/numdiff"
)

// quadraticCost is f(x) = ‖x - center‖², a smooth strongly-convex fixture.
type quadraticCost struct {
	center []float64
}

func (c *quadraticCost) Value(x []float64) float64 {
	s := 0.0
	for i, v := range x {
		d := v - c.center[i]
		s += d * d
	}
	return s
}

func (c *quadraticCost) Gradient(x []float64, grad []float64) {
	for i, v := range x {
		grad[i] = 2 * (v - c.center[i])
	}
}

func (c *quadraticCost) Hessian(x []float64, hess *mat.Dense) {
	hess.Zero()
	for i := range x {
		hess.Set(i, i, 2)
	}
}

// linearConstraint is a·x - b, a single scalar affine constraint.
type linearConstraint struct {
	a []float64
	b float64
}

func (l *linearConstraint) Dim() int { return 1 }

func (l *linearConstraint) Value(x []float64, out []float64) {
	s := 0.0
	for i, v := range x {
		s += l.a[i] * v
	}
	out[0] = s - l.b
}

func (l *linearConstraint) Jacobian(x []float64, jac *mat.Dense) {
	for j, v := range l.a {
		jac.Set(0, j, v)
	}
}

func (l *linearConstraint) VectorHessianProduct(x []float64, v []float64, out *mat.Dense) {
	out.Zero()
}

func TestQuadraticCostGradientMatchesFiniteDifference(t *testing.T) {
	c := &quadraticCost{center: []float64{1, 2}}
	x := []float64{-0.3, 4.1}

	spec := numdiff.ApproxSpec{
		N: 2, M: 1,
		Object: func(x, y []float64) { y[0] = c.Value(x) },
		Method: numdiff.Central,
	}
	fd := make([]float64, 2)
	require.NoError(t, spec.Diff(x, fd))

	analytic := make([]float64, 2)
	c.Gradient(x, analytic)

	require.InDelta(t, analytic[0], fd[0], 1e-5)
	require.InDelta(t, analytic[1], fd[1], 1e-5)
}

func TestLinearConstraintJacobianMatchesFiniteDifference(t *testing.T) {
	l := &linearConstraint{a: []float64{2, -3}, b: 1}
	x := []float64{0.5, -1.2}

	spec := numdiff.ApproxSpec{
		N: 2, M: 1,
		Object: func(x, y []float64) { l.Value(x, y) },
		Method: numdiff.Central,
	}
	fd := make([]float64, 2)
	require.NoError(t, spec.Diff(x, fd))

	jac := mat.NewDense(1, 2, nil)
	l.Jacobian(x, jac)

	require.InDelta(t, jac.At(0, 0), fd[0], 1e-5)
	require.InDelta(t, jac.At(0, 1), fd[1], 1e-5)
}

// buildEqualityProblem constructs minimize ‖x-center‖² s.t. a·x == b.
func buildEqualityProblem(t *testing.T, center, a []float64, b float64) *Problem {
	t.Helper()
	cost := &quadraticCost{center: center}
	cst := Constraint{
		Func: &linearConstraint{a: a, b: b},
		Set:  cone.NewZero(1),
	}
	p, err := NewProblem(cost, []Constraint{cst}, manifold.NewEuclidean(len(center)))
	require.NoError(t, err)
	return p
}

func TestSolveSatisfiesEqualityConstraintAtOptimum(t *testing.T) {
	p := buildEqualityProblem(t, []float64{1, 2}, []float64{1, 1}, 1)

	s, err := p.New(Options{MaxIters: 500, TargetTol: 1e-8})
	require.NoError(t, err)

	results, err := s.Solve([]float64{0, 0})
	require.NoError(t, err)

	require.InDelta(t, 0, results.XOpt[0], 1e-3)
	require.InDelta(t, 1, results.XOpt[1], 1e-3)
	require.InDelta(t, 0, results.ConstraintViolations[0], 1e-6)
}

func TestNewProblemRejectsDimensionMismatch(t *testing.T) {
	cost := &quadraticCost{center: []float64{0, 0}}
	cst := Constraint{
		Func: &linearConstraint{a: []float64{1, 0}, b: 0},
		Set:  cone.NewZero(2),
	}
	_, err := NewProblem(cost, []Constraint{cst}, manifold.NewEuclidean(2))
	require.Error(t, err)
}

func TestOptionsValidateRejectsBadMuInit(t *testing.T) {
	opts := Options{MuInit: -1}
	opts.fillDefaults()
	require.Error(t, opts.validate())
}

func TestOptionsValidateRejectsMuUpperBelowMuInit(t *testing.T) {
	opts := Options{MuInit: 1, MuUpper: 0.5}
	opts.fillDefaults()
	require.Error(t, opts.validate())
}

// TestUseVHPDefaultsToFullNewton checks use_vhp's §4.7 formula directly:
// vector-Hessian products are included whenever Gauss-Newton mode is off,
// and also when it is on but the constraint does not opt out.
func TestUseVHPDefaultsToFullNewton(t *testing.T) {
	cst := Constraint{Set: cone.NewZero(1)}

	s := &Solver{useGaussNewton: false}
	require.True(t, s.useVHP(cst))

	s.useGaussNewton = true
	require.True(t, s.useVHP(cst), "cone.Zero never opts out of Gauss-Newton")
}

// nanCost reports a non-finite gradient so innerSolve's NaN guard fires.
type nanCost struct{ center []float64 }

func (c *nanCost) Value(x []float64) float64 { return (&quadraticCost{center: c.center}).Value(x) }

func (c *nanCost) Gradient(x []float64, grad []float64) {
	for i := range grad {
		grad[i] = math.NaN()
	}
}

func (c *nanCost) Hessian(x []float64, hess *mat.Dense) {
	(&quadraticCost{center: c.center}).Hessian(x, hess)
}

func TestSolveReturnsErrNaNOnNonFiniteGradient(t *testing.T) {
	cost := &nanCost{center: []float64{1, 2}}
	cst := Constraint{
		Func: &linearConstraint{a: []float64{1, 1}, b: 1},
		Set:  cone.NewZero(1),
	}
	p, err := NewProblem(cost, []Constraint{cst}, manifold.NewEuclidean(2))
	require.NoError(t, err)

	s, err := p.New(Options{MaxIters: 10})
	require.NoError(t, err)

	_, err = s.Solve([]float64{0, 0})
	require.ErrorIs(t, err, ErrNaN)
}
