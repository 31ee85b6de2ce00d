// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package block

import "gonum.org/v1/gonum/mat"

// Kind of LDLT backend the solver was constructed with. The set is closed:
// adding a fourth backend means extending this package, not the interface.
type LDLTKind int

const (
	// KindDense factorizes the full matrix, ignoring any symbolic structure.
	KindDense LDLTKind = iota
	// KindBlocked factorizes respecting a Symbolic matrix's tags.
	KindBlocked
	// KindExternal defers to gonum's mat.LU, standing in for a third-party
	// dense linear-algebra backend.
	KindExternal
)

// LDLT factorizes a symmetric indefinite matrix into L·D·Lᵀ (or, for
// KindExternal, an equivalent dense factorization) and solves linear
// systems against it. All three backends share this interface so the
// solver can swap them at construction time.
type LDLT interface {
	// Compute factorizes the symmetric matrix k into the backend's own
	// storage; k itself is left unchanged.
	Compute(k *mat.Dense) error
	// SolveInPlace solves k·x = b, overwriting b with the solution x.
	SolveInPlace(b []float64) error
	// MatrixLDLT returns the packed L/D (or backend-equivalent) working matrix.
	MatrixLDLT() *mat.Dense
	// Rcond estimates the reciprocal condition number for diagnostics/logging.
	Rcond() float64
	// VectorD returns the diagonal of D used for the inertia signature.
	VectorD() []float64
}
