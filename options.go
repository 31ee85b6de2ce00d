// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proxal

import (
	"math"

	"github.com/curioloop/proxal/block"
)

// Options configures a Solver at construction time.
type Options struct {
	// TargetTol is the final convergence tolerance on both primal and dual
	// residuals (default 1e-6).
	TargetTol float64
	// MuInit is the initial penalty parameter (default 1e-2).
	MuInit float64
	// RhoInit is the initial proximal weight (default 0: no regularization).
	RhoInit float64
	// Verbose controls the solver's logging level (default LogQuiet).
	Verbose LogLevel
	// Logger overrides the default stdout/stderr sinks if non-nil.
	Logger *Logger
	// MuLower is the floor the penalty is not allowed to shrink past on
	// outer-loop failure (default 1e-9).
	MuLower float64
	// MuUpper is the fixed reference penalty used to scale the tolerance
	// contraction ratio (mu/MuUpper) on outer-loop success (default 1; must
	// be >= MuInit).
	MuUpper float64
	// PrimAlpha, PrimBeta, DualAlpha, DualBeta are the BCL exponents.
	PrimAlpha, PrimBeta, DualAlpha, DualBeta float64
	// MuUpdateFactor shrinks μ on outer failure (default 0.1).
	MuUpdateFactor float64
	// RhoUpdateFactor scales ρ after every inner solve, unconditionally
	// (default 1: no decay). See DESIGN.md for the "unconditional ρ
	// multiplication" open question this preserves as specified.
	RhoUpdateFactor float64
	// InnerTolMin floors the inner tolerance ω (default 1e-10).
	InnerTolMin float64
	// LineSearch configures the Armijo backtracking search.
	LineSearch LineSearchOptions
	// LDLTKind selects the KKT factorization backend (default block.KindDense).
	LDLTKind block.LDLTKind
	// MaxIters bounds the total number of inner iterations across the
	// whole outer loop (default 100).
	MaxIters int
	// UseGaussNewton, when true, drops the vector-Hessian products of
	// constraints whose set reports DisableGaussNewton; those of every other
	// constraint are always formed.
	UseGaussNewton bool
}

func (o *Options) fillDefaults() {
	if o.TargetTol == 0 {
		o.TargetTol = 1e-6
	}
	if o.MuInit == 0 {
		o.MuInit = 1e-2
	}
	if o.MuLower == 0 {
		o.MuLower = 1e-9
	}
	if o.MuUpper == 0 {
		o.MuUpper = 1
	}
	if o.PrimAlpha == 0 {
		o.PrimAlpha = 0.1
	}
	if o.PrimBeta == 0 {
		o.PrimBeta = 0.9
	}
	if o.DualAlpha == 0 {
		o.DualAlpha = 1.0
	}
	if o.DualBeta == 0 {
		o.DualBeta = 1.0
	}
	if o.MuUpdateFactor == 0 {
		o.MuUpdateFactor = 0.1
	}
	if o.RhoUpdateFactor == 0 {
		o.RhoUpdateFactor = 1
	}
	if o.InnerTolMin == 0 {
		o.InnerTolMin = 1e-10
	}
	if o.MaxIters == 0 {
		o.MaxIters = 100
	}
}

func (o *Options) validate() error {
	switch {
	case o.TargetTol < 0:
		return errInvalidOption("target tolerance must not be less than 0")
	case o.MuInit <= 0:
		return errInvalidOption("initial penalty must be greater than 0")
	case o.RhoInit < 0:
		return errInvalidOption("initial proximal weight must not be less than 0")
	case o.MuLower <= 0 || o.MuLower > o.MuInit:
		return errInvalidOption("mu lower bound must be in (0, mu_init]")
	case o.MuUpper < o.MuInit:
		return errInvalidOption("mu upper bound must be greater than or equal to mu_init")
	case o.MaxIters <= 0:
		return errInvalidOption("max iterations must be greater than 0")
	case math.IsNaN(o.MuUpdateFactor) || o.MuUpdateFactor <= 0 || o.MuUpdateFactor >= 1:
		return errInvalidOption("mu update factor must be in (0, 1)")
	case math.IsNaN(o.RhoUpdateFactor) || o.RhoUpdateFactor <= 0 || o.RhoUpdateFactor > 1:
		return errInvalidOption("rho update factor must be in (0, 1]")
	}
	return nil
}
