// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proxal

// ConvergenceFlag reports why a solve stopped.
type ConvergenceFlag int

const (
	// Uninitialized is the value of Results.Converged before a solve runs.
	Uninitialized ConvergenceFlag = -1
	// Success means both the primal and dual residuals met target_tol.
	Success ConvergenceFlag = 0
	// MaxItersReached means the global iteration counter hit max_iters
	// before convergence.
	MaxItersReached ConvergenceFlag = 1
)

func (c ConvergenceFlag) String() string {
	switch c {
	case Uninitialized:
		return "Uninitialized"
	case Success:
		return "Success"
	case MaxItersReached:
		return "MaxItersReached"
	default:
		return "Unknown"
	}
}

// InertiaFlag classifies the sign-signature of a factorized KKT matrix.
type InertiaFlag int

const (
	// InertiaOK means exactly NDx positive and NumDual negative pivots.
	InertiaOK InertiaFlag = iota
	// InertiaBad means the signature does not match the expected counts.
	InertiaBad
	// InertiaHasZeros means at least one pivot is (numerically) zero.
	InertiaHasZeros
)

func (f InertiaFlag) String() string {
	switch f {
	case InertiaOK:
		return "OK"
	case InertiaBad:
		return "Bad"
	case InertiaHasZeros:
		return "HasZeros"
	default:
		return "Unknown"
	}
}

// Results is the solver's output, mutated only by Solve. Every Solve call
// allocates and returns a new Results.
type Results struct {
	XOpt []float64

	LamOptData []float64

	ConstraintViolations []float64
	ActiveSet            [][]bool

	PrimInfeas float64
	DualInfeas float64
	Merit      float64
	Mu         float64
	Rho        float64
	NumIters   int
	Converged  ConvergenceFlag

	index []int
}

// NewResults allocates a Results sized for p, with Converged == Uninitialized.
func NewResults(p *Problem) *Results {
	r := &Results{
		XOpt:                 make([]float64, p.Nx()),
		LamOptData:           make([]float64, p.NumDual()),
		ConstraintViolations: make([]float64, p.NumConstraints()),
		ActiveSet:            make([][]bool, p.NumConstraints()),
		Converged:            Uninitialized,
		index:                append([]int(nil), p.index...),
	}
	for i, c := range p.Constraints {
		r.ActiveSet[i] = make([]bool, c.Func.Dim())
	}
	return r
}

// LamOpt returns the segment view of the optimal multipliers for constraint i.
func (r *Results) LamOpt(i int) []float64 {
	return r.LamOptData[r.index[i]:r.index[i+1]]
}
