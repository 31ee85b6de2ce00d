// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proxal

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Canonical IPOPT-style inertia-correction constants (§4.7 step 7).
const (
	deltaNonzeroInit = 1e-4
	deltaMin         = 1e-20
	deltaMax         = 1e40
	deltaDecK        = 1.0 / 3.0
	deltaIncBig      = 100.0
	deltaIncK        = 8.0

	refineMaxIters = 5
	refineTol      = 1e-13
)

// evaluateAt fills ws's cost and constraint buffers (gradient, Hessian,
// Jacobian, value) at x, plus the proximal penalty contribution centered at
// the solver's current target.
func (s *Solver) evaluateAt(x []float64, ws *Workspace) float64 {
	f := s.p.Cost.Value(x)
	s.p.Cost.Gradient(x, ws.objGrad)
	s.p.Cost.Hessian(x, ws.objHess)
	s.p.Evaluate(x, ws)

	s.prox.gradient(x, ws.proxGrad)
	s.prox.hessian(x, ws.proxHess)
	f += s.prox.value(x)
	return f
}

// useVHP reports whether constraint i's vector-Hessian product should be
// folded into the KKT top-left block: always, unless Gauss-Newton mode is
// on and the constraint opts out of it via DisableGaussNewton.
func (s *Solver) useVHP(cst Constraint) bool {
	return !(s.useGaussNewton && cst.Set.DisableGaussNewton())
}

// computeVHP fills ws.vhp with each applicable constraint's vector-Hessian
// product against the just-computed λ_pdal. Must run after
// computeMultipliers has refreshed ws.lamPdalData for the current iterate.
func (s *Solver) computeVHP(x []float64, ws *Workspace) {
	for i, cst := range s.p.Constraints {
		if !s.useVHP(cst) {
			continue
		}
		cst.Func.VectorHessianProduct(x, ws.LamPdal(i), ws.vhp[i])
	}
}

// assembleJacProj copies ws.jac into ws.jacProj and left-multiplies each
// constraint's row block by the normal-cone projection Jacobian at its
// shifted value, per §4.7 step 3.
func (s *Solver) assembleJacProj(ws *Workspace) {
	ws.jacProj.Copy(ws.jac)
	for i, cst := range s.p.Constraints {
		lo, hi := s.p.Index(i), s.p.Index(i)+s.p.ConstraintDim(i)
		view := ws.jacProjView(lo, hi)
		cst.Set.ApplyNormalConeProjectionJacobian(ws.ShiftC(i), view)
	}
}

// assembleRHS builds the KKT right-hand side into ws.kktRHS (§4.7 step 2):
// the upper block is -(∇f+∇prox+Jᵗ·λ), using the raw (unprojected) Jacobian
// and the current multipliers λ — not the projected Jacobian or λ_pdal,
// which only enter the KKT matrix's coupling block and the merit gradient
// respectively. The lower block is -dual_prox_err: the whole RHS is the
// negated KKT residual, since SolveInPlace's step is applied additively to
// both x and λ. It has no delta-dependence, so it is assembled once per
// inner iteration, before the inertia-correction loop that may re-assemble
// the matrix several times.
func (s *Solver) assembleRHS(ws *Workspace, lam []float64) {
	ndx, numdual := s.p.NDx(), s.p.NumDual()

	var jtlam mat.VecDense
	jtlam.MulVec(ws.jac.T(), mat.NewVecDense(numdual, lam))
	for i := 0; i < ndx; i++ {
		ws.kktRHS[i] = -(ws.objGrad[i] + ws.proxGrad[i] + jtlam.AtVec(i))
	}
	for i := 0; i < numdual; i++ {
		ws.kktRHS[ndx+i] = -ws.dualProxErr[i]
	}
}

// assembleMatrix builds the regularized arrowhead KKT matrix into
// ws.kktMatrix (§4.7 steps 3-4).
func (s *Solver) assembleMatrix(ws *Workspace, delta, deltaDual float64) {
	ndx, numdual := s.p.NDx(), s.p.NumDual()

	ws.kktMatrix.Zero()

	top := ws.kktMatrix.Slice(0, ndx, 0, ndx).(*mat.Dense)
	top.Add(ws.objHess, ws.proxHess)
	for i, cst := range s.p.Constraints {
		if !s.useVHP(cst) {
			continue
		}
		top.Add(top, ws.vhp[i])
	}
	for i := 0; i < ndx; i++ {
		top.Set(i, i, top.At(i, i)+delta)
	}

	for i := 0; i < numdual; i++ {
		ws.kktMatrix.Set(ndx+i, ndx+i, -(s.mu + deltaDual))
	}

	for ci := range s.p.Constraints {
		lo, hi := s.p.Index(ci), s.p.Index(ci)+s.p.ConstraintDim(ci)
		jp := ws.jacProjView(lo, hi)
		for r := 0; r < hi-lo; r++ {
			for c := 0; c < ndx; c++ {
				v := jp.At(r, c)
				ws.kktMatrix.Set(ndx+lo+r, c, v)
				ws.kktMatrix.Set(c, ndx+lo+r, v)
			}
		}
	}
}

// computeInertia classifies the LDLT's pivot-diagonal sign pattern against
// the KKT matrix's expected signature: ndx positive pivots, numdual negative.
// It records each pivot's sign (-1, 0, or +1) into signature for diagnostic
// logging at LogVery. A non-finite pivot — which a pluggable block.LDLT
// backend could in principle report — is a contract violation rather than
// a classifiable sign, and returns ErrBadSignature.
func computeInertia(d []float64, signature []int, ndx, numdual int) (InertiaFlag, error) {
	pos, neg, zero := 0, 0, 0
	for i, v := range d {
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			return InertiaBad, ErrBadSignature
		case v > 0:
			signature[i] = 1
			pos++
		case v < 0:
			signature[i] = -1
			neg++
		default:
			signature[i] = 0
			zero++
		}
	}
	if zero > 0 {
		return InertiaHasZeros, nil
	}
	if pos != ndx || neg != numdual {
		return InertiaBad, nil
	}
	return InertiaOK, nil
}

// factorizeWithInertiaCorrection assembles and factors the KKT matrix,
// escalating the primal regularization delta (added to the first ndx
// diagonal entries only; the dual block stays -mu*I) per the canonical
// IPOPT-style schedule until the factorization reports the expected
// inertia or delta exceeds deltaMax.
func (s *Solver) factorizeWithInertiaCorrection(ws *Workspace) (delta float64, err error) {
	ndx, numdual := s.p.NDx(), s.p.NumDual()

	delta = 0
	for {
		s.assembleMatrix(ws, delta, 0)

		computeErr := s.ldlt.Compute(ws.kktMatrix)
		flag := InertiaBad
		if computeErr == nil {
			var sigErr error
			flag, sigErr = computeInertia(s.ldlt.VectorD(), ws.signature, ndx, numdual)
			if sigErr != nil {
				return delta, sigErr
			}
		}
		if computeErr == nil && flag == InertiaOK {
			s.deltaLast = delta
			return delta, nil
		}

		// The escalation factor is keyed on delta_last, the previous call's
		// accepted delta, not on position within this escalation sequence: it
		// stays fixed for every step of this loop.
		if delta == 0 {
			if s.deltaLast == 0 {
				delta = deltaNonzeroInit
			} else {
				delta = math.Max(deltaMin, deltaDecK*s.deltaLast)
			}
		} else if s.deltaLast == 0 {
			delta *= deltaIncBig
		} else {
			delta *= deltaIncK
		}

		if delta > deltaMax {
			return delta, ErrInertiaUncorrectable
		}
	}
}

// refine runs iterative refinement on ws.pdStep against the just-factored
// KKT matrix and RHS, up to refineMaxIters steps or until the residual's
// infinity norm drops below refineTol.
func (s *Solver) refine(ws *Workspace) error {
	n := len(ws.kktRHS)
	for iter := 0; iter < refineMaxIters; iter++ {
		var residual mat.VecDense
		residual.MulVec(ws.kktMatrix, mat.NewVecDense(n, ws.pdStep))
		maxAbs := 0.0
		for i := 0; i < n; i++ {
			ws.refineRes[i] = ws.kktRHS[i] - residual.AtVec(i)
			if a := math.Abs(ws.refineRes[i]); a > maxAbs {
				maxAbs = a
			}
		}
		if maxAbs < refineTol {
			return nil
		}
		copy(ws.refineCorrection, ws.refineRes)
		if err := s.ldlt.SolveInPlace(ws.refineCorrection); err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			ws.pdStep[i] += ws.refineCorrection[i]
		}
	}
	return nil
}

// stationarityNorm returns the infinity norm of the Lagrangian gradient
// objGrad + jacᵗ·λ (raw Jacobian, current multipliers), the
// dual-infeasibility measure: the RHS top block with the proximal gradient
// left out.
func stationarityNorm(ws *Workspace, lam []float64) float64 {
	ndx := ws.ndx
	var jtlam mat.VecDense
	jtlam.MulVec(ws.jac.T(), mat.NewVecDense(ws.numdual, lam))
	maxAbs := 0.0
	for i := 0; i < ndx; i++ {
		v := ws.objGrad[i] + jtlam.AtVec(i)
		if a := math.Abs(v); a > maxAbs {
			maxAbs = a
		}
	}
	return maxAbs
}

// constraintViolationNorm returns the infinity norm, over all constraints,
// of c(x) - Projection_C(s), where s = c(x) + μ·λ_prev is the shifted value
// computeMultipliers left in ws.shiftC.
func (s *Solver) constraintViolationNorm(ws *Workspace) float64 {
	maxAbs := 0.0
	for i, cst := range s.p.Constraints {
		lo, hi := s.p.Index(i), s.p.Index(i)+s.p.ConstraintDim(i)
		c := ws.C(i)
		proj := ws.violProj[lo:hi]
		cst.Set.Projection(ws.ShiftC(i), proj)
		for k := range c {
			if a := math.Abs(c[k] - proj[k]); a > maxAbs {
				maxAbs = a
			}
		}
	}
	return maxAbs
}

// innerResult reports one inner Newton loop's outcome back to the outer BCL loop.
type innerResult struct {
	iters      int
	primInfeas float64
	dualInfeas float64
	merit      float64
	converged  bool
}

// innerSolve runs the Newton loop (§4.7) to approximately minimize the
// augmented-Lagrangian merit function at the current mu/rho, starting from
// and mutating x and lam in place, until the inner stationarity measure
// drops below omega or the global iteration budget s.itersLeft is spent.
// lamPrev is the outer loop's accepted multiplier vector, used as the pdal
// shift basis (§4.6); it is snapshotted into the workspace once on entry and
// held fixed through every Newton step of this call — only the outer BCL
// loop's accept-multipliers step (run, on primal success) ever moves it.
func (s *Solver) innerSolve(x, lam, lamPrev []float64, omega float64) (innerResult, error) {
	ws := s.ws
	p := s.p
	copy(ws.lamPrevData, lamPrev)

	var res innerResult
	for res.iters = 0; s.itersLeft > 0; res.iters++ {
		f := s.evaluateAt(x, ws)
		computeMultipliers(p, ws, s.mu, lam)
		s.assembleJacProj(ws)
		s.computeVHP(x, ws)
		s.assembleRHS(ws, lam)
		if hasNaN(ws.proxGrad) || hasNaN(ws.kktRHS) {
			return res, ErrNaN
		}

		res.dualInfeas = stationarityNorm(ws, lam)
		res.primInfeas = s.constraintViolationNorm(ws)
		res.merit = meritAt(p, ws, f, ws.c, s.mu, lam)
		if math.IsNaN(res.merit) || math.IsInf(res.merit, 0) {
			return res, ErrNaN
		}

		if math.Max(res.primInfeas, res.dualInfeas) <= s.opts.TargetTol || infNorm(ws.kktRHS) <= omega {
			res.converged = true
			return res, nil
		}

		delta, err := s.factorizeWithInertiaCorrection(ws)
		if err != nil {
			return res, err
		}
		copy(ws.pdStep, ws.kktRHS)
		if err := s.ldlt.SolveInPlace(ws.pdStep); err != nil {
			return res, err
		}
		if err := s.refine(ws); err != nil {
			return res, err
		}
		if hasNaN(ws.pdStep) {
			return res, ErrNaN
		}

		dx := ws.PrimStep()
		dlam := ws.DualStep()

		// merit_gradient = ∇f + ∇prox + Jᵗ·λ_pdal, raw Jacobian (§4.7 step 9).
		var jtlamDir mat.VecDense
		jtlamDir.MulVec(ws.jac.T(), mat.NewVecDense(p.NumDual(), ws.lamPdalData))
		dmeritDir := 0.0
		for i := 0; i < ws.ndx; i++ {
			dmeritDir += (ws.objGrad[i] + ws.proxGrad[i] + jtlamDir.AtVec(i)) * dx[i]
		}
		for i := range ws.dualProxErr {
			dmeritDir -= ws.dualProxErr[i] * dlam[i]
		}

		phi := func(alpha float64) float64 {
			scaled(dx, alpha, ws.stepScratch)
			p.Manifold.Integrate(x, ws.stepScratch, ws.xTrial)
			trialF := p.Cost.Value(ws.xTrial) + s.prox.value(ws.xTrial)
			for i, cst := range p.Constraints {
				lo, hi := p.Index(i), p.Index(i)+p.ConstraintDim(i)
				cst.Func.Value(ws.xTrial, ws.trialC[lo:hi])
			}
			for i := range lam {
				ws.lamTrialData[i] = lam[i] + alpha*dlam[i]
			}
			return meritAt(p, ws, trialF, ws.trialC, s.mu, ws.lamTrialData)
		}

		alpha, _, lsErr := armijoLineSearch(phi, res.merit, dmeritDir, s.opts.LineSearch)
		if lsErr == ErrAscentDirection {
			s.logger().out("proxal: inner iter %d: %v\n", res.iters, lsErr)
		}
		if math.IsNaN(alpha) || math.IsInf(alpha, 0) {
			return res, ErrNaN
		}

		scaled(dx, alpha, ws.stepScratch)
		p.Manifold.Integrate(x, ws.stepScratch, ws.xTrial)
		if hasNaN(ws.xTrial) {
			return res, ErrNaN
		}
		copy(x, ws.xTrial)
		for i := range lam {
			lam[i] += alpha * dlam[i]
		}
		if hasNaN(lam) {
			return res, ErrNaN
		}

		s.logger().record(LogRecord{
			Iter:       res.iters,
			Alpha:      alpha,
			InnerCrit:  math.Max(res.primInfeas, res.dualInfeas),
			PrimInfeas: res.primInfeas,
			DualInfeas: res.dualInfeas,
			Delta:      delta,
			DMeritDir:  dmeritDir,
			Merit:      res.merit,
			Step:       ws.stepScratch,
			Lambda:     lam,
			Signature:  ws.signature,
		})

		s.itersLeft--
	}
	return res, nil
}

// scaled writes alpha*v into out and returns out.
func scaled(v []float64, alpha float64, out []float64) []float64 {
	for i := range v {
		out[i] = alpha * v[i]
	}
	return out[:len(v)]
}

// infNorm returns the infinity norm of v.
func infNorm(v []float64) float64 {
	maxAbs := 0.0
	for _, x := range v {
		if a := math.Abs(x); a > maxAbs {
			maxAbs = a
		}
	}
	return maxAbs
}

// hasNaN reports whether any entry of v is NaN or ±Inf.
func hasNaN(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return true
		}
	}
	return false
}
