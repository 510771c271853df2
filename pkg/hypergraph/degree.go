package hypergraph

import (
	"slices"
	"strconv"
	"strings"

	errs "github.com/matzehuels/hyperkey/pkg/errors"
)

// DegreeVector holds one non-negative counter per vertex.
//
// During a realization it tracks the residual degree still to be covered:
// choosing an edge removes it, backtracking adds it back. Removal is
// all-or-nothing so a failed removal never leaves the vector half-updated.
type DegreeVector struct {
	d []int
}

// NewDegreeVector returns a vector with the given counters. It fails with
// INVALID_INPUT when no counters are given or any counter is negative.
func NewDegreeVector(degrees ...int) (*DegreeVector, error) {
	if err := errs.RequireNotEmpty("degree sequence", degrees); err != nil {
		return nil, err
	}
	for i, d := range degrees {
		if d < 0 {
			return nil, errs.New(errs.ErrCodeInvalidInput, "degree of vertex %d is negative (%d)", i, d)
		}
	}
	return &DegreeVector{d: slices.Clone(degrees)}, nil
}

func zeroDegrees(n int) *DegreeVector {
	return &DegreeVector{d: make([]int, n)}
}

// Len returns the number of vertices.
func (v *DegreeVector) Len() int { return len(v.d) }

// At returns the counter of vertex i. It panics if i is out of range.
func (v *DegreeVector) At(i int) int { return v.d[i] }

// Values returns a copy of the counters.
func (v *DegreeVector) Values() []int { return slices.Clone(v.d) }

// Sum returns the total of all counters.
func (v *DegreeVector) Sum() int {
	s := 0
	for _, d := range v.d {
		s += d
	}
	return s
}

// Max returns the largest counter.
func (v *DegreeVector) Max() int { return slices.Max(v.d) }

// IsZero reports whether every counter is zero.
func (v *DegreeVector) IsZero() bool {
	return !slices.ContainsFunc(v.d, func(d int) bool { return d != 0 })
}

// FirstPositive returns the smallest vertex with a positive counter, or -1.
func (v *DegreeVector) FirstPositive() int {
	return slices.IndexFunc(v.d, func(d int) bool { return d > 0 })
}

func (v *DegreeVector) checkEdge(e Edge) error {
	for _, u := range e {
		if err := errs.RequireIndex("vertex", u, len(v.d)); err != nil {
			return err
		}
	}
	return nil
}

// AddEdge increments the counter of every member of e. It fails with
// OUT_OF_RANGE, before touching any counter, if a member is not a vertex.
func (v *DegreeVector) AddEdge(e Edge) error {
	if err := v.checkEdge(e); err != nil {
		return err
	}
	for _, u := range e {
		v.d[u]++
	}
	return nil
}

// RemoveEdge decrements the counter of every member of e. It fails with
// OUT_OF_RANGE for a bad member and DEGREE_UNDERFLOW if any member would
// drop below zero; in both cases nothing is changed.
func (v *DegreeVector) RemoveEdge(e Edge) error {
	if err := v.checkEdge(e); err != nil {
		return err
	}
	if i := v.take(e); i < len(e) {
		return errs.New(errs.ErrCodeDegreeUnderflow, "vertex %d has no degree left for edge {%s}", e[i], e)
	}
	return nil
}

// TryRemoveEdge is RemoveEdge for the search loop: it reports whether the
// removal happened instead of allocating an error.
func (v *DegreeVector) TryRemoveEdge(e Edge) bool {
	for _, u := range e {
		if u < 0 || u >= len(v.d) {
			return false
		}
	}
	return v.take(e) == len(e)
}

// take decrements the members of e in order. If a counter is already zero
// at member i, the first i decrements are undone and i is returned; a
// repeated member therefore needs one unit per occurrence.
func (v *DegreeVector) take(e Edge) int {
	for i, u := range e {
		if v.d[u] == 0 {
			for _, w := range e[:i] {
				v.d[w]++
			}
			return i
		}
		v.d[u]--
	}
	return len(e)
}

// Clone returns an independent copy.
func (v *DegreeVector) Clone() *DegreeVector {
	return &DegreeVector{d: slices.Clone(v.d)}
}

// Equal reports whether both vectors hold the same counters.
func (v *DegreeVector) Equal(other *DegreeVector) bool {
	return slices.Equal(v.d, other.d)
}

// String renders the vector as "[ 1, 2, 3 ]".
func (v *DegreeVector) String() string {
	var sb strings.Builder
	sb.WriteString("[ ")
	for i, d := range v.d {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa(d))
	}
	sb.WriteString(" ]")
	return sb.String()
}
