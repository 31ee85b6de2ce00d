// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proxal

import "gonum.org/v1/gonum/mat"

// Workspace holds every scratch buffer the solver touches while solving one
// Problem. It is allocated once from the problem's dimensions and reused
// across outer and inner iterations; its buffers are never reallocated.
// The inner loop still creates small temporaries each iteration (the
// mat.VecDense wrappers and products in assembleRHS, stationarityNorm,
// refine and the merit-gradient computation). Segment views (e.g. per-constraint multiplier slices) are
// modeled explicitly as slices of the backing flat buffers rather than as
// independently owned copies, so every write through a view is a write
// through the buffer it aliases.
//
// A Workspace is owned by the Solver that created it and reused by each of
// that Solver's Solve calls; running solves on it concurrently is
// undefined, matching the "one workspace
// per goroutine" discipline the teacher optimizers use for their own
// Workspace types.
type Workspace struct {
	nx, ndx, numdual int
	index            []int

	xTrial []float64

	lamPrevData, lamTrialData, lamPlusData, lamPdalData []float64

	c, shiftC []float64

	jac, jacProj *mat.Dense
	vhp          []*mat.Dense

	objGrad  []float64
	objHess  *mat.Dense
	proxGrad []float64
	proxHess *mat.Dense

	kktRHS    []float64
	kktMatrix *mat.Dense

	pdStep    []float64
	signature []int

	dualProxErr []float64
	refineRes   []float64

	trialC, trialShiftC []float64

	meritProj []float64

	violProj         []float64
	refineCorrection []float64

	stepScratch []float64
}

// NewWorkspace allocates a Workspace sized for p.
func NewWorkspace(p *Problem) *Workspace {
	nx, ndx, numdual := p.Nx(), p.NDx(), p.NumDual()
	n := ndx + numdual

	w := &Workspace{
		nx: nx, ndx: ndx, numdual: numdual,
		index: append([]int(nil), p.index...),

		xTrial: make([]float64, nx),

		lamPrevData:  make([]float64, numdual),
		lamTrialData: make([]float64, numdual),
		lamPlusData:  make([]float64, numdual),
		lamPdalData:  make([]float64, numdual),

		c:      make([]float64, numdual),
		shiftC: make([]float64, numdual),

		jac:     mat.NewDense(max(numdual, 1), max(ndx, 1), nil),
		jacProj: mat.NewDense(max(numdual, 1), max(ndx, 1), nil),

		objGrad:  make([]float64, ndx),
		objHess:  mat.NewDense(ndx, ndx, nil),
		proxGrad: make([]float64, ndx),
		proxHess: mat.NewDense(ndx, ndx, nil),

		kktRHS:    make([]float64, n),
		kktMatrix: mat.NewDense(n, n, nil),

		pdStep:    make([]float64, n),
		signature: make([]int, n),

		dualProxErr: make([]float64, numdual),
		refineRes:   make([]float64, n),

		trialC:      make([]float64, numdual),
		trialShiftC: make([]float64, numdual),

		meritProj: make([]float64, numdual),

		violProj:         make([]float64, numdual),
		refineCorrection: make([]float64, n),

		stepScratch: make([]float64, ndx),
	}

	w.vhp = make([]*mat.Dense, p.NumConstraints())
	for i := range w.vhp {
		w.vhp[i] = mat.NewDense(ndx, ndx, nil)
	}

	return w
}

func (w *Workspace) segment(i int) (lo, hi int) { return w.index[i], w.index[i+1] }

// LamPrev returns the segment view of the previous (accepted) multipliers
// for constraint i.
func (w *Workspace) LamPrev(i int) []float64 { lo, hi := w.segment(i); return w.lamPrevData[lo:hi] }

// LamTrial returns the segment view of the trial multipliers for constraint i.
func (w *Workspace) LamTrial(i int) []float64 { lo, hi := w.segment(i); return w.lamTrialData[lo:hi] }

// LamPlus returns the segment view of λ_plus for constraint i.
func (w *Workspace) LamPlus(i int) []float64 { lo, hi := w.segment(i); return w.lamPlusData[lo:hi] }

// LamPdal returns the segment view of λ_pdal for constraint i.
func (w *Workspace) LamPdal(i int) []float64 { lo, hi := w.segment(i); return w.lamPdalData[lo:hi] }

// C returns the segment view of cᵢ(x).
func (w *Workspace) C(i int) []float64 { lo, hi := w.segment(i); return w.c[lo:hi] }

// ShiftC returns the segment view of the shifted constraint sᵢ = cᵢ(x) + μ·λ_prev,i.
func (w *Workspace) ShiftC(i int) []float64 { lo, hi := w.segment(i); return w.shiftC[lo:hi] }

// DualProxErr returns the segment view of the dual proximal error for constraint i.
func (w *Workspace) DualProxErr(i int) []float64 { lo, hi := w.segment(i); return w.dualProxErr[lo:hi] }

// jacobianView returns the (hi-lo) × ndx slice of the stacked Jacobian
// buffer as a matrix view sharing the same backing storage.
func (w *Workspace) jacobianView(lo, hi int) *mat.Dense {
	return w.jac.Slice(lo, hi, 0, w.ndx).(*mat.Dense)
}

// jacProjView mirrors jacobianView over the projected-Jacobian buffer.
func (w *Workspace) jacProjView(lo, hi int) *mat.Dense {
	return w.jacProj.Slice(lo, hi, 0, w.ndx).(*mat.Dense)
}

// PrimStep returns the primal segment of the last computed pd_step.
func (w *Workspace) PrimStep() []float64 { return w.pdStep[:w.ndx] }

// DualStep returns the dual segment of the last computed pd_step.
func (w *Workspace) DualStep() []float64 { return w.pdStep[w.ndx:] }
