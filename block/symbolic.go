// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package block

// permCeiling bounds the brute-force permutation search: above this many
// blocks the factorial blow-up (O(n!·n²)) is no longer safe and the
// identity permutation is used instead.
const permCeiling = 8

// Symbolic is a square grid of block-kind tags over a partition of an
// n_total × n_total matrix into segments of the given lengths.
type Symbolic struct {
	Kinds    [][]Kind
	Segments []int
}

// NewSymbolic builds a Symbolic matrix of all-Zero blocks for the given
// segment lengths.
func NewSymbolic(segments []int) *Symbolic {
	n := len(segments)
	if n == 0 {
		panic("bound check error")
	}
	for _, l := range segments {
		if l <= 0 {
			panic("segment length must be greater than 0")
		}
	}
	kinds := make([][]Kind, n)
	for i := range kinds {
		kinds[i] = make([]Kind, n)
	}
	return &Symbolic{Kinds: kinds, Segments: append([]int(nil), segments...)}
}

// DefaultStructure builds the arrowhead structure the solver uses for its
// KKT matrix: a dense primal-primal block, dense primal-dual(i) coupling,
// diagonal dual(i)-dual(i) blocks and zero dual(i)-dual(j) blocks for i≠j.
func DefaultStructure(ndx int, dualDims []int) *Symbolic {
	segments := make([]int, 1+len(dualDims))
	segments[0] = ndx
	copy(segments[1:], dualDims)
	s := NewSymbolic(segments)
	n := len(segments)
	s.Kinds[0][0] = DenseKind
	for i := 1; i < n; i++ {
		s.Kinds[0][i] = DenseKind
		s.Kinds[i][0] = DenseKind
		s.Kinds[i][i] = Diag
	}
	return s
}

// N returns the number of blocks (not the total matrix dimension).
func (s *Symbolic) N() int { return len(s.Segments) }

// Total returns the sum of segment lengths, i.e. the full matrix dimension.
func (s *Symbolic) Total() int {
	t := 0
	for _, l := range s.Segments {
		t += l
	}
	return t
}

// Offset returns the starting row/column of block i in the full matrix.
func (s *Symbolic) Offset(i int) int {
	o := 0
	for k := 0; k < i; k++ {
		o += s.Segments[k]
	}
	return o
}

func (s *Symbolic) deepCopy() *Symbolic {
	kinds := make([][]Kind, len(s.Kinds))
	for i, row := range s.Kinds {
		kinds[i] = append([]Kind(nil), row...)
	}
	return &Symbolic{Kinds: kinds, Segments: append([]int(nil), s.Segments...)}
}

// LLTInPlace attempts the symbolic Cholesky-like recursion, mutating Kinds
// into the fill pattern of the factor L. It returns false if some pivot
// block along the recursion is Zero, TriL or TriU (un-factorizable).
func (s *Symbolic) LLTInPlace() bool {
	n := s.N()
	k := s.Kinds
	for p := 0; p < n; p++ {
		switch k[p][p] {
		case DenseKind:
			k[p][p] = TriL
		case Zero, TriL, TriU:
			return false
		case Diag:
			// stays Diag
		}
		for i := p + 1; i < n; i++ {
			switch k[i][p] {
			case Zero, Diag:
				k[i][p] = TriU
			case TriL:
				k[i][p] = DenseKind
			}
			k[p][i] = trans(k[i][p])
		}
		for i := p + 1; i < n; i++ {
			for j := i; j < n; j++ {
				k[i][j] = add(k[i][j], mul(k[i][p], trans(k[j][p])))
				k[j][i] = trans(k[i][j])
			}
		}
	}
	return true
}

// CountNNZ sums the number of stored entries implied by the current tags
// and segment lengths: Zero→0, Diag→ℓᵢ, TriL/TriU→ℓᵢ(ℓᵢ+1)/2, Dense→ℓᵢ·ℓⱼ.
func (s *Symbolic) CountNNZ() int {
	nnz := 0
	for i, row := range s.Kinds {
		li := s.Segments[i]
		for j, kind := range row {
			lj := s.Segments[j]
			switch kind {
			case Zero:
			case Diag:
				nnz += li
			case TriL, TriU:
				nnz += li * (li + 1) / 2
			case DenseKind:
				nnz += li * lj
			}
		}
	}
	return nnz
}

// permute returns a new Symbolic with blocks reordered by perm: block i of
// the result is block perm[i] of s.
func (s *Symbolic) permute(perm []int) *Symbolic {
	n := s.N()
	segments := make([]int, n)
	for i, p := range perm {
		segments[i] = s.Segments[p]
	}
	out := NewSymbolic(segments)
	for i, pi := range perm {
		for j, pj := range perm {
			out.Kinds[i][j] = s.Kinds[pi][pj]
		}
	}
	return out
}

// BruteForceBestPermutation enumerates every ordering of the n blocks,
// attempts the symbolic LLᵀ on each, and returns the permutation minimizing
// the resulting nnz along with that nnz. Above permCeiling blocks it skips
// the search and returns the identity permutation.
func (s *Symbolic) BruteForceBestPermutation() (perm []int, nnz int) {
	n := s.N()
	identity := make([]int, n)
	for i := range identity {
		identity[i] = i
	}

	if n > permCeiling {
		return identity, -1
	}

	bestPerm := identity
	bestNNZ := -1

	current := append([]int(nil), identity...)
	var permute func(k int)
	permute = func(k int) {
		if k == n {
			candidate := s.permute(current)
			if candidate.LLTInPlace() {
				if nz := candidate.CountNNZ(); bestNNZ < 0 || nz < bestNNZ {
					bestNNZ = nz
					bestPerm = append([]int(nil), current...)
				}
			}
			return
		}
		for i := k; i < n; i++ {
			current[k], current[i] = current[i], current[k]
			permute(k + 1)
			current[k], current[i] = current[i], current[k]
		}
	}
	permute(0)

	if bestNNZ < 0 {
		return identity, -1
	}
	return bestPerm, bestNNZ
}
