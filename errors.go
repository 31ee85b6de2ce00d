// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proxal

import "errors"

// Dimension and contract errors returned from (*Problem).New / Solver
// construction / Solve, when the mismatch can only be known from runtime
// values. Mismatches the caller could have checked statically (workspace
// built from a different Problem, wrong-length x0) panic instead, matching
// the teacher's own "... dimension not match spec" convention.
var (
	ErrLambdaDimension = errors.New("proxal: initial multiplier vector length does not match constraint count")
	// ErrBadSignature is returned when a pluggable block.LDLT backend's
	// VectorD reports a non-finite pivot, which cannot be classified as
	// positive, negative or zero.
	ErrBadSignature = errors.New("proxal: kkt pivot diagonal contains a non-finite entry")
)

// Numerical-issue errors.
var (
	// ErrNaN is returned when a solver-internal buffer (the RHS, the
	// Newton step, the accepted step length, or the merit value) goes
	// non-finite mid-solve.
	ErrNaN = errors.New("proxal: NaN or Inf encountered during solve")
	// ErrInertiaUncorrectable is returned when the inertia-correction delta
	// escalates past deltaMax without the KKT factorization reporting the
	// expected pivot signature.
	ErrInertiaUncorrectable = errors.New("proxal: inertia could not be corrected within delta_max")
)

// errInvalidOption reports a constructor-time Options validation failure.
func errInvalidOption(msg string) error {
	return errors.New("proxal: invalid option: " + msg)
}
