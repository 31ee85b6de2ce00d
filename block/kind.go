// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package block implements a symbolic block-structured matrix with
// fill-reducing permutation search, and the numeric LDLT factorizations
// (blocked, dense and an externally-backed variant) that consume it.
//
// # Reference
//
// The block-kind algebra and symbolic LLᵀ recursion follow the structure
// described for proxnlp's block_chol namespace.
package block

// Kind tags the sparsity pattern of one block in a Symbolic matrix.
type Kind int

const (
	// Zero is an all-zero block; never read or written numerically.
	Zero Kind = iota
	// Diag is a diagonal block; only its diagonal entries are populated.
	Diag
	// TriL is a lower-triangular block.
	TriL
	// TriU is an upper-triangular block.
	TriU
	// DenseKind is a fully populated block.
	DenseKind
)

func (k Kind) String() string {
	switch k {
	case Zero:
		return "Zero"
	case Diag:
		return "Diag"
	case TriL:
		return "TriL"
	case TriU:
		return "TriU"
	case DenseKind:
		return "Dense"
	default:
		return "Unknown"
	}
}

// trans returns the kind of the transpose of a block tagged a.
func trans(a Kind) Kind {
	switch a {
	case TriL:
		return TriU
	case TriU:
		return TriL
	default:
		return a
	}
}

// add returns the kind of the sum of two blocks tagged a and b.
func add(a, b Kind) Kind {
	if a == DenseKind || b == DenseKind {
		return DenseKind
	}
	if (a == TriL && b == TriU) || (a == TriU && b == TriL) {
		return DenseKind
	}
	if a > b {
		return a
	}
	return b
}

// mul returns the kind of the product of two blocks tagged a and b.
func mul(a, b Kind) Kind {
	if a == Zero || b == Zero {
		return Zero
	}
	return add(a, b)
}
