// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package block

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// ErrUnsupportedStructure is the value NewBlocked panics with when a
// Symbolic matrix is not the
// arrowhead shape Blocked knows how to exploit: one hub block densely
// coupled to every other block, and Zero (or Diag, on the diagonal only)
// blocks among the remaining ("leaf") blocks.
var ErrUnsupportedStructure = errors.New("block: unsupported symbolic structure")

// Blocked factorizes a symmetric matrix whose sparsity is described by a
// Symbolic arrowhead structure — one hub block (e.g. the KKT matrix's
// primal-primal block) densely coupled to a set of leaf blocks (e.g. one
// per constraint's dual variables) that do not couple to each other. It
// eliminates the hub first, forms the (generally dense) Schur complement
// over the leaves, and factors that with the same dense kernel as Dense.
type Blocked struct {
	sym     *Symbolic
	rowPerm []int // rowPerm[permuted row] = original row
	hubLen  int
	leafLen int

	hubFactor *Dense
	y         *mat.Dense // hubLen × leafLen, A⁻¹·B
	schur     *Dense
	d         []float64

	// Compute scratch, preallocated once and overwritten every call.
	a         *mat.Dense // hubLen × hubLen
	bCoupling *mat.Dense // hubLen × leafLen
	schurMat  *mat.Dense // leafLen × leafLen
	update    *mat.Dense // leafLen × leafLen, Bᵗ·A⁻¹·B
	colRHS    []float64  // hubLen, one coupling column at a time

	// SolveInPlace scratch, preallocated once and overwritten every call.
	permRHS, r1, t1, z2, x2, x1 []float64
	byt, yx2                    *mat.VecDense
}

// NewBlocked builds a Blocked factorization engine for the given symbolic
// structure. It panics if the structure is not a supported arrowhead shape.
func NewBlocked(sym *Symbolic) *Blocked {
	n := sym.N()
	hub := -1
	bestCoupling := -1
	for i := 0; i < n; i++ {
		coupling := 0
		for j := 0; j < n; j++ {
			if j != i && sym.Kinds[i][j] != Zero {
				coupling++
			}
		}
		if coupling > bestCoupling {
			bestCoupling, hub = coupling, i
		}
	}
	for i := 0; i < n; i++ {
		if i == hub {
			continue
		}
		for j := 0; j < n; j++ {
			if j == hub || j == i {
				continue
			}
			if sym.Kinds[i][j] != Zero {
				panic(ErrUnsupportedStructure)
			}
		}
	}

	order := make([]int, 0, n)
	order = append(order, hub)
	for i := 0; i < n; i++ {
		if i != hub {
			order = append(order, i)
		}
	}

	rowPerm := make([]int, 0, sym.Total())
	for _, blk := range order {
		off := sym.Offset(blk)
		for r := 0; r < sym.Segments[blk]; r++ {
			rowPerm = append(rowPerm, off+r)
		}
	}

	hubLen := sym.Segments[hub]
	leafLen := sym.Total() - hubLen
	dim := hubLen + leafLen

	return &Blocked{
		sym:       sym,
		rowPerm:   rowPerm,
		hubLen:    hubLen,
		leafLen:   leafLen,
		hubFactor: NewDense(hubLen),
		y:         mat.NewDense(hubLen, leafLen, nil),
		schur:     NewDense(leafLen),
		d:         make([]float64, dim),

		a:         mat.NewDense(hubLen, hubLen, nil),
		bCoupling: mat.NewDense(hubLen, leafLen, nil),
		schurMat:  mat.NewDense(leafLen, leafLen, nil),
		update:    mat.NewDense(leafLen, leafLen, nil),
		colRHS:    make([]float64, hubLen),

		permRHS:  make([]float64, dim),
		r1:       make([]float64, hubLen),
		t1:       make([]float64, hubLen),
		z2:       make([]float64, leafLen),
		x2:       make([]float64, leafLen),
		x1:       make([]float64, hubLen),
		byt:      mat.NewVecDense(leafLen, nil),
		yx2:      mat.NewVecDense(hubLen, nil),
	}
}

func (b *Blocked) permuted(k *mat.Dense, i, j int) float64 {
	return k.At(b.rowPerm[i], b.rowPerm[j])
}

func (b *Blocked) Compute(k *mat.Dense) error {
	n := b.hubLen + b.leafLen
	if r, c := k.Dims(); r != n || c != n {
		panic("bound check error")
	}

	for i := 0; i < b.hubLen; i++ {
		for j := 0; j < b.hubLen; j++ {
			b.a.Set(i, j, b.permuted(k, i, j))
		}
	}
	if err := b.hubFactor.Compute(b.a); err != nil {
		return err
	}

	for i := 0; i < b.hubLen; i++ {
		for j := 0; j < b.leafLen; j++ {
			b.bCoupling.Set(i, j, b.permuted(k, i, b.hubLen+j))
		}
	}

	for col := 0; col < b.leafLen; col++ {
		for i := range b.colRHS {
			b.colRHS[i] = b.bCoupling.At(i, col)
		}
		if err := b.hubFactor.SolveInPlace(b.colRHS); err != nil {
			return err
		}
		for i := range b.colRHS {
			b.y.Set(i, col, b.colRHS[i])
		}
	}

	for i := 0; i < b.leafLen; i++ {
		for j := 0; j < b.leafLen; j++ {
			b.schurMat.Set(i, j, b.permuted(k, b.hubLen+i, b.hubLen+j))
		}
	}
	b.update.Mul(b.bCoupling.T(), b.y)
	b.schurMat.Sub(b.schurMat, b.update)

	if err := b.schur.Compute(b.schurMat); err != nil {
		return err
	}

	copy(b.d[:b.hubLen], b.hubFactor.VectorD())
	copy(b.d[b.hubLen:], b.schur.VectorD())
	return nil
}

func (b *Blocked) SolveInPlace(rhs []float64) error {
	n := b.hubLen + b.leafLen
	if len(rhs) != n {
		panic("bound check error")
	}
	for i, orig := range b.rowPerm {
		b.permRHS[i] = rhs[orig]
	}

	copy(b.r1, b.permRHS[:b.hubLen])
	r2 := b.permRHS[b.hubLen:]

	copy(b.t1, b.r1)
	if err := b.hubFactor.SolveInPlace(b.t1); err != nil {
		return err
	}

	copy(b.z2, r2)
	// z2 = r2 - Bᵗ·t1. Since A is symmetric and y = A⁻¹B, Bᵗ·t1 = yᵗ·A·t1 = yᵗ·r1.
	b.byt.MulVec(b.y.T(), mat.NewVecDense(b.hubLen, b.r1))
	for i := range b.z2 {
		b.z2[i] -= b.byt.AtVec(i)
	}

	copy(b.x2, b.z2)
	if err := b.schur.SolveInPlace(b.x2); err != nil {
		return err
	}

	b.yx2.MulVec(b.y, mat.NewVecDense(b.leafLen, b.x2))
	for i := range b.x1 {
		b.x1[i] = b.t1[i] - b.yx2.AtVec(i)
	}

	for i, orig := range b.rowPerm {
		if i < b.hubLen {
			rhs[orig] = b.x1[i]
		} else {
			rhs[orig] = b.x2[i-b.hubLen]
		}
	}
	return nil
}

// MatrixLDLT returns the packed L/D matrix of the hub block only
// (hubLen × hubLen); the Schur-complement factor over the leaf blocks is
// not included.
func (b *Blocked) MatrixLDLT() *mat.Dense { return b.hubFactor.MatrixLDLT() }

func (b *Blocked) VectorD() []float64 { return b.d }

func (b *Blocked) Rcond() float64 { return rcondFromDiag(b.d) }
