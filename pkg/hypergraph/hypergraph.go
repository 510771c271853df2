package hypergraph

import (
	"iter"
	"slices"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"github.com/matzehuels/hyperkey/pkg/combin"
	"github.com/matzehuels/hyperkey/pkg/dsu"
	errs "github.com/matzehuels/hyperkey/pkg/errors"
)

// Hypergraph is a k-uniform hypergraph on n labeled vertices.
//
// Every possible edge is identified by its rank under the combinatorial
// number system, and the hypergraph stores one presence bit per rank. The
// zero value is not usable; construct with New or one of the From
// functions. A Hypergraph is not safe for concurrent mutation.
type Hypergraph struct {
	idx  *combin.Indexer
	bits *bitset.BitSet
}

// New returns the empty k-uniform hypergraph on n vertices. It fails with
// INVALID_DIMENSION unless n >= 1 and 1 <= k <= n, and with TOO_LARGE when
// C(n, k) exceeds combin.MaxRanks.
func New(n, k int) (*Hypergraph, error) {
	idx, err := combin.NewIndexer(n, k)
	if err != nil {
		return nil, err
	}
	return WithIndexer(idx), nil
}

// WithIndexer returns an empty hypergraph sharing idx. Indexers are
// immutable, so many hypergraphs of the same shape can share one.
func WithIndexer(idx *combin.Indexer) *Hypergraph {
	return &Hypergraph{
		idx:  idx,
		bits: bitset.New(uint(idx.Count())),
	}
}

// FromEdges returns the hypergraph on n vertices holding edges. Each edge
// may be given in any vertex order; duplicates collapse.
func FromEdges(n, k int, edges ...Edge) (*Hypergraph, error) {
	h, err := New(n, k)
	if err != nil {
		return nil, err
	}
	for _, e := range edges {
		if err := h.Set(e, true); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// FromRanks returns the hypergraph on n vertices holding the given ranks.
func FromRanks(n, k int, ranks ...int) (*Hypergraph, error) {
	h, err := New(n, k)
	if err != nil {
		return nil, err
	}
	for _, r := range ranks {
		if err := h.SetRank(r, true); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// FromBitmap rebuilds a hypergraph from the words returned by Bitmap. It
// fails with INVALID_FORMAT if the word count does not match C(n, k) or a
// bit beyond the last rank is set. words is copied.
func FromBitmap(n, k int, bitmap []uint64) (*Hypergraph, error) {
	h, err := New(n, k)
	if err != nil {
		return nil, err
	}
	want := len(h.bits.Words())
	if len(bitmap) != want {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "bitmap has %d words, want %d", len(bitmap), want)
	}
	if tail := h.idx.Count() % 64; tail != 0 && bitmap[len(bitmap)-1]>>tail != 0 {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "bitmap sets ranks beyond %d", h.idx.Count()-1)
	}
	h.bits = bitset.FromWithLength(uint(h.idx.Count()), slices.Clone(bitmap))
	return h, nil
}

// N returns the number of vertices.
func (h *Hypergraph) N() int { return h.idx.N() }

// K returns the edge size.
func (h *Hypergraph) K() int { return h.idx.K() }

// Cap returns C(n, k), the number of possible edges.
func (h *Hypergraph) Cap() int { return h.idx.Count() }

// Indexer returns the rank indexer backing the hypergraph.
func (h *Hypergraph) Indexer() *combin.Indexer { return h.idx }

// Len returns the number of edges present.
func (h *Hypergraph) Len() int {
	return int(h.bits.Count())
}

// ContainsRank reports whether the edge with the given rank is present.
// Out-of-range ranks are never present.
func (h *Hypergraph) ContainsRank(rank int) bool {
	if rank < 0 || rank >= h.idx.Count() {
		return false
	}
	return h.bits.Test(uint(rank))
}

// Contains reports whether e is present. Edges that are not valid
// k-subsets of the vertex set are never present.
func (h *Hypergraph) Contains(e Edge) bool {
	rank, err := h.idx.SubsetToRank(e)
	if err != nil {
		return false
	}
	return h.ContainsRank(rank)
}

// SetRank adds or removes the edge with the given rank. It fails with
// OUT_OF_RANGE unless 0 <= rank < Cap().
func (h *Hypergraph) SetRank(rank int, present bool) error {
	if err := errs.RequireIndex("rank", rank, h.idx.Count()); err != nil {
		return err
	}
	h.bits.SetTo(uint(rank), present)
	return nil
}

// Set adds or removes e. It fails with INVALID_EDGE unless e holds exactly
// k distinct vertices in [0, n).
func (h *Hypergraph) Set(e Edge, present bool) error {
	rank, err := h.idx.SubsetToRank(e)
	if err != nil {
		return err
	}
	return h.SetRank(rank, present)
}

// Ranks yields the ranks of present edges in increasing order.
func (h *Hypergraph) Ranks() iter.Seq[int] {
	return func(yield func(int) bool) {
		for r, ok := h.bits.NextSet(0); ok; r, ok = h.bits.NextSet(r + 1) {
			if !yield(int(r)) {
				return
			}
		}
	}
}

// Edges yields the present edges in increasing rank order, which is
// lexicographic order. Each yielded edge is a fresh slice.
func (h *Hypergraph) Edges() iter.Seq[Edge] {
	return func(yield func(Edge) bool) {
		for r := range h.Ranks() {
			if !yield(h.idx.Unrank(make(Edge, h.idx.K()), r)) {
				return
			}
		}
	}
}

// EdgeList collects Edges into a slice.
func (h *Hypergraph) EdgeList() []Edge {
	return slices.Collect(h.Edges())
}

// incident walks every k-subset containing v in increasing rank order and
// calls fn for those present. The partial edge always contains v and is kept
// sorted; membership is only tested once it reaches size k.
func (h *Hypergraph) incident(v int, fn func(rank int, e Edge)) error {
	if err := errs.RequireIndex("vertex", v, h.N()); err != nil {
		return err
	}
	n, k := h.N(), h.K()
	partial := make(Edge, 1, k)
	partial[0] = v

	var extend func(next int)
	extend = func(next int) {
		if len(partial) == k {
			if r := h.idx.Rank(partial); h.ContainsRank(r) {
				fn(r, partial)
			}
			return
		}
		for w := next; w < n; w++ {
			if w == v {
				continue
			}
			at, _ := slices.BinarySearch(partial, w)
			partial = slices.Insert(partial, at, w)
			extend(w + 1)
			partial = slices.Delete(partial, at, at+1)
		}
	}
	extend(0)
	return nil
}

// IncidentEdges returns the present edges containing v, in rank order. It
// fails with OUT_OF_RANGE unless v is a vertex.
func (h *Hypergraph) IncidentEdges(v int) ([]Edge, error) {
	var out []Edge
	err := h.incident(v, func(_ int, e Edge) {
		out = append(out, slices.Clone(e))
	})
	return out, err
}

// IncidentRanks returns the ranks of the present edges containing v.
func (h *Hypergraph) IncidentRanks(v int) ([]int, error) {
	var out []int
	err := h.incident(v, func(r int, _ Edge) {
		out = append(out, r)
	})
	return out, err
}

// Neighbors returns the vertices sharing at least one edge with v, sorted.
func (h *Hypergraph) Neighbors(v int) ([]int, error) {
	seen := make([]bool, h.N())
	err := h.incident(v, func(_ int, e Edge) {
		for _, u := range e {
			seen[u] = true
		}
	})
	if err != nil {
		return nil, err
	}
	var out []int
	for u, ok := range seen {
		if ok && u != v {
			out = append(out, u)
		}
	}
	return out, nil
}

// Degrees returns the degree of every vertex in the hypergraph.
func (h *Hypergraph) Degrees() *DegreeVector {
	dv := zeroDegrees(h.N())
	for e := range h.Edges() {
		for _, u := range e {
			dv.d[u]++
		}
	}
	return dv
}

// Components returns the connected components of the vertex set, each
// sorted, ordered by smallest member. Isolated vertices form singletons.
func (h *Hypergraph) Components() [][]int {
	d := dsu.New(h.N())
	for e := range h.Edges() {
		d.UnionAll(e)
	}
	var out [][]int
	for _, members := range d.Groups() {
		out = append(out, members)
	}
	slices.SortFunc(out, func(a, b []int) int { return a[0] - b[0] })
	return out
}

// Connected reports whether the hypergraph has a single component.
func (h *Hypergraph) Connected() bool {
	d := dsu.New(h.N())
	for e := range h.Edges() {
		d.UnionAll(e)
	}
	return d.Count() == 1
}

// Bitmap returns a copy of the presence bits, 64 ranks per word with rank r
// at bit r%64 of word r/64.
func (h *Hypergraph) Bitmap() []uint64 {
	return slices.Clone(h.bits.Words())
}

// Clone returns an independent copy sharing the immutable indexer.
func (h *Hypergraph) Clone() *Hypergraph {
	return &Hypergraph{idx: h.idx, bits: h.bits.Clone()}
}

// Equal reports whether both hypergraphs have the same shape and edges.
func (h *Hypergraph) Equal(other *Hypergraph) bool {
	return h.N() == other.N() && h.K() == other.K() && h.bits.Equal(other.bits)
}

// String renders the edges as "{0, 1} {2, 3}".
func (h *Hypergraph) String() string {
	var sb strings.Builder
	for e := range h.Edges() {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte('{')
		sb.WriteString(e.String())
		sb.WriteByte('}')
	}
	return sb.String()
}
