// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proxal

import (
	"math"
	"os"

	"github.com/curioloop/proxal/block"
)

// Solver drives the outer Bound-Constrained Lagrangian loop and the inner
// Newton loop against one Problem. It is built once via (*Problem).New and
// reused across any number of Solve calls; Solve itself is not safe to call
// concurrently on the same Solver, matching the teacher optimizers'
// "one Optimizer, one workspace, one goroutine" contract.
type Solver struct {
	p    *Problem
	opts Options

	ws   *Workspace
	prox *proxPenalty
	ldlt block.LDLT

	mu, rho        float64
	useGaussNewton bool

	deltaLast float64
	itersLeft int

	callbacks []func(*Results) bool
}

// New validates opts and constructs a Solver for p.
func (p *Problem) New(opts Options) (*Solver, error) {
	opts.fillDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	ndx := p.NDx()
	dualDims := make([]int, p.NumConstraints())
	for i := range dualDims {
		dualDims[i] = p.ConstraintDim(i)
	}

	var ldlt block.LDLT
	switch opts.LDLTKind {
	case block.KindDense:
		ldlt = block.NewDense(ndx + p.NumDual())
	case block.KindBlocked:
		ldlt = block.NewBlocked(block.DefaultStructure(ndx, dualDims))
	case block.KindExternal:
		ldlt = block.NewExternal(ndx + p.NumDual())
	default:
		return nil, errInvalidOption("unknown LDLT backend kind")
	}

	prox := newProxPenalty(p.Manifold)
	prox.setWeight(opts.RhoInit)

	if opts.Logger == nil && opts.Verbose > LogNoop {
		opts.Logger = &Logger{Level: opts.Verbose, Msg: os.Stdout, Out: os.Stderr}
	}

	return &Solver{
		p:              p,
		opts:           opts,
		ws:             NewWorkspace(p),
		prox:           prox,
		ldlt:           ldlt,
		mu:             opts.MuInit,
		rho:            opts.RhoInit,
		useGaussNewton: opts.UseGaussNewton,
	}, nil
}

func (s *Solver) logger() *Logger {
	if s.opts.Logger != nil {
		return s.opts.Logger
	}
	return nil
}

// SetPenalty overrides the current outer-loop penalty parameter μ.
func (s *Solver) SetPenalty(mu float64) {
	if mu <= 0 {
		panic("bound check error")
	}
	s.mu = mu
}

// SetProxParameter overrides the current proximal regularization weight ρ.
func (s *Solver) SetProxParameter(rho float64) {
	if rho < 0 {
		panic("bound check error")
	}
	s.rho = rho
	s.prox.setWeight(rho)
}

// SetTolerance overrides the target convergence tolerance.
func (s *Solver) SetTolerance(tol float64) {
	if tol < 0 {
		panic("bound check error")
	}
	s.opts.TargetTol = tol
}

// SetMaxIters overrides the global inner-iteration budget.
func (s *Solver) SetMaxIters(n int) {
	if n <= 0 {
		panic("bound check error")
	}
	s.opts.MaxIters = n
}

// UseGaussNewton toggles Gauss-Newton mode: when enabled, the vector-Hessian
// products of constraints whose set reports DisableGaussNewton are left out
// of the KKT matrix's primal-primal block; all others are always included.
func (s *Solver) UseGaussNewton(enable bool) { s.useGaussNewton = enable }

// RegisterCallback appends a function invoked after every outer BCL
// iteration with the in-progress Results; returning false stops the solve
// early with ConvergenceFlag MaxItersReached.
func (s *Solver) RegisterCallback(cb func(*Results) bool) {
	s.callbacks = append(s.callbacks, cb)
}

// ClearCallbacks removes every registered callback.
func (s *Solver) ClearCallbacks() { s.callbacks = s.callbacks[:0] }

// Solve runs the full BCL/Newton solve from x0 with zero initial multipliers.
func (s *Solver) Solve(x0 []float64) (*Results, error) {
	lam0 := make([]float64, s.p.NumDual())
	return s.SolveLambda(x0, lam0)
}

// SolveLambda runs the full solve from x0 and a flat (len NumDual) initial
// multiplier vector.
func (s *Solver) SolveLambda(x0, lam0 []float64) (*Results, error) {
	if len(lam0) != s.p.NumDual() {
		return nil, ErrLambdaDimension
	}
	return s.run(x0, lam0)
}

// SolveLambdaPerConstraint runs the full solve from x0 and a per-constraint
// initial multiplier vector (one segment per Problem.Constraints entry).
func (s *Solver) SolveLambdaPerConstraint(x0 []float64, lam0 [][]float64) (*Results, error) {
	if len(lam0) != s.p.NumConstraints() {
		return nil, ErrLambdaDimension
	}
	flat := make([]float64, s.p.NumDual())
	for i, seg := range lam0 {
		lo, hi := s.p.Index(i), s.p.Index(i)+s.p.ConstraintDim(i)
		if len(seg) != hi-lo {
			return nil, ErrLambdaDimension
		}
		copy(flat[lo:hi], seg)
	}
	return s.run(x0, flat)
}

// run implements the outer BCL loop: it adapts mu and the primal/dual
// tolerance schedule between successive calls to innerSolve. On acceptance
// the tolerances contract by a fixed (mu/MuUpper) ratio; on failure mu
// shrinks (or resets to MuInit if it was already pinned at MuLower) and the
// tolerances are recomputed from the original eta0/omega0 baselines. This
// asymmetry between the two branches is intentional, not an oversight — see
// DESIGN.md.
func (s *Solver) run(x0, lam0 []float64) (*Results, error) {
	if len(x0) != s.p.Nx() {
		panic("bound check error")
	}

	x := append([]float64(nil), x0...)
	lam := append([]float64(nil), lam0...)
	lamPrev := append([]float64(nil), lam0...)

	s.mu = s.opts.MuInit
	s.rho = s.opts.RhoInit
	s.prox.setWeight(s.rho)
	s.prox.updateTarget(x)
	s.deltaLast = 0
	s.itersLeft = s.opts.MaxIters

	eta0 := math.Pow(s.mu, s.opts.PrimAlpha)
	omega0 := math.Max(s.opts.InnerTolMin, math.Pow(s.mu, s.opts.DualAlpha))
	eta, omega := eta0, omega0

	results := NewResults(s.p)
	results.Mu, results.Rho = s.mu, s.rho

	for s.itersLeft > 0 {
		inner, err := s.innerSolve(x, lam, lamPrev, omega)
		results.NumIters += inner.iters
		results.PrimInfeas, results.DualInfeas = inner.primInfeas, inner.dualInfeas
		results.Merit = inner.merit
		results.Mu, results.Rho = s.mu, s.rho

		if err != nil {
			s.fillResults(results, x, lam)
			return results, err
		}

		if inner.primInfeas < eta {
			s.prox.updateTarget(x)
			copy(lamPrev, lam) // accept multipliers

			if inner.primInfeas < s.opts.TargetTol && inner.dualInfeas < s.opts.TargetTol {
				results.Converged = Success
				s.fillResults(results, x, lam)
				return results, nil
			}

			ratio := s.mu / s.opts.MuUpper
			eta = math.Max(s.opts.TargetTol, eta*math.Pow(ratio, s.opts.PrimBeta))
			omega = math.Max(s.opts.InnerTolMin, omega*math.Pow(ratio, s.opts.DualBeta))
		} else {
			if s.mu == s.opts.MuLower {
				s.mu = s.opts.MuInit
			} else {
				s.mu = math.Max(s.mu*s.opts.MuUpdateFactor, s.opts.MuLower)
			}
			eta = math.Max(s.opts.TargetTol, eta0*math.Pow(s.mu, s.opts.PrimAlpha))
			omega = math.Max(s.opts.InnerTolMin, omega0*math.Pow(s.mu, s.opts.DualAlpha))
		}

		s.rho *= s.opts.RhoUpdateFactor
		s.prox.setWeight(s.rho)

		stop := false
		for _, cb := range s.callbacks {
			if !cb(results) {
				stop = true
				break
			}
		}
		if stop {
			break
		}
	}

	if results.Converged == Uninitialized {
		results.Converged = MaxItersReached
	}
	s.fillResults(results, x, lam)
	return results, nil
}

// fillResults copies the final iterate, multipliers, constraint violations
// and active sets into results.
func (s *Solver) fillResults(results *Results, x, lam []float64) {
	copy(results.XOpt, x)
	copy(results.LamOptData, lam)

	ws := s.ws
	for i, cst := range s.p.Constraints {
		c := ws.C(i)
		proj := make([]float64, len(c))
		cst.Set.Projection(c, proj)
		maxAbs := 0.0
		for k := range c {
			if a := math.Abs(c[k] - proj[k]); a > maxAbs {
				maxAbs = a
			}
		}
		results.ConstraintViolations[i] = maxAbs
		cst.Set.ComputeActiveSet(c, results.ActiveSet[i])
	}
}
