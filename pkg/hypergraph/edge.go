package hypergraph

import (
	"slices"
	"strconv"
	"strings"

	errs "github.com/matzehuels/hyperkey/pkg/errors"
)

// Edge is a hyperedge: a sorted set of distinct vertices.
//
// Edges returned by this package are always sorted and owned by the caller.
// Edges built by hand should go through NewEdge.
type Edge []int

// NewEdge returns the sorted edge over vs. It fails with INVALID_EDGE when
// vs is empty, holds a negative vertex, or repeats a vertex. The input slice
// is not modified.
func NewEdge(vs ...int) (Edge, error) {
	if len(vs) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidEdge, "edge cannot be empty")
	}
	e := slices.Clone(vs)
	slices.Sort(e)
	if e[0] < 0 {
		return nil, errs.New(errs.ErrCodeInvalidEdge, "negative vertex %d", e[0])
	}
	for i := 1; i < len(e); i++ {
		if e[i] == e[i-1] {
			return nil, errs.New(errs.ErrCodeInvalidEdge, "vertex %d repeated", e[i])
		}
	}
	return Edge(e), nil
}

// String renders the edge as "v1, v2, ...".
func (e Edge) String() string {
	var sb strings.Builder
	for i, v := range e {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa(v))
	}
	return sb.String()
}

// Contains reports whether v is a member of the edge.
func (e Edge) Contains(v int) bool {
	_, ok := slices.BinarySearch(e, v)
	return ok
}

// Equal reports whether both edges hold the same vertices.
func (e Edge) Equal(other Edge) bool {
	return slices.Equal(e, other)
}
