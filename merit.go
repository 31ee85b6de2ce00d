// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proxal

import "gonum.org/v1/gonum/floats"

// computeMultipliers is the primal-dual augmented Lagrangian (pdal)
// construction (§4.6):
//
//	sᵢ        ← cᵢ(x) + μ·λ_prev,i
//	λ_plus,i  ← Π_{N_Cᵢ}(sᵢ) / μ
//	dualErr   ← μ·(λ_plus − λ)
//	λ_pdal,i  ← 2·λ_plus,i − λᵢ
//
// It reads the constraint values already evaluated into ws.c and the
// trial multipliers lam (len numdual), and fills ws's shiftC, λ_plus,
// λ_pdal and dualProxErr buffers.
func computeMultipliers(p *Problem, ws *Workspace, mu float64, lam []float64) {
	if len(lam) != p.NumDual() {
		panic("bound check error")
	}
	for i, cst := range p.Constraints {
		lo, hi := p.Index(i), p.Index(i)+p.ConstraintDim(i)
		s := ws.ShiftC(i)
		c := ws.C(i)
		lamPrev := ws.LamPrev(i)
		for k := range s {
			s[k] = c[k] + mu*lamPrev[k]
		}

		lamPlus := ws.LamPlus(i)
		cst.Set.NormalConeProjection(s, lamPlus)
		floats.Scale(1/mu, lamPlus)

		lamTrial := lam[lo:hi]
		dualErr := ws.DualProxErr(i)
		lamPdal := ws.LamPdal(i)
		for k := range lamPlus {
			dualErr[k] = mu * (lamPlus[k] - lamTrial[k])
			lamPdal[k] = 2*lamPlus[k] - lamTrial[k]
		}
	}
}

// meritAt evaluates the augmented-Lagrangian merit function
//
//	Φ(x,λ) = f(x) + Σᵢ (1/μ)·‖Π_{N_Cᵢ}(sᵢ)‖² − λᵢᵗ·sᵢ,   sᵢ = cᵢ(x) + μ·λᵢ
//
// at an arbitrary (x, lam) pair, using cVals (len numdual, already evaluated
// at x) and the workspace's trial scratch buffers. lam plays both roles the
// formula needs: the shift basis and the linear term. This closed form is
// constructed so that ∂Φ/∂x = Jᵗ·λ_pdal exactly, matching §4.4's contract;
// it is only ever consumed as a scalar inside the line search.
func meritAt(p *Problem, ws *Workspace, f float64, cVals []float64, mu float64, lam []float64) float64 {
	if len(cVals) != p.NumDual() || len(lam) != p.NumDual() {
		panic("bound check error")
	}
	total := f
	for i, cst := range p.Constraints {
		lo, hi := p.Index(i), p.Index(i)+p.ConstraintDim(i)
		c := cVals[lo:hi]
		lamSeg := lam[lo:hi]
		s := ws.trialShiftC[lo:hi]
		for k := range s {
			s[k] = c[k] + mu*lamSeg[k]
		}
		proj := ws.meritProj[lo:hi]
		cst.Set.NormalConeProjection(s, proj)
		total += floats.Dot(proj, proj) / mu
		total -= floats.Dot(lam[lo:hi], s)
	}
	return total
}
