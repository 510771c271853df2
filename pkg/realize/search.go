package realize

import (
	"context"

	"github.com/tidwall/btree"

	"github.com/matzehuels/hyperkey/pkg/combin"
	errs "github.com/matzehuels/hyperkey/pkg/errors"
	"github.com/matzehuels/hyperkey/pkg/hypergraph"
)

// search is the mutable state of one walk over the search tree.
//
// A node of the tree is the set of edges chosen so far; its children add
// one edge of higher rank than any already chosen, so each edge set is
// reached exactly once. residual holds the degree still to be covered and
// a node is a realization when residual is all zero.
//
// Only edges whose smallest member is the first vertex u with positive
// residual can extend a node: vertices before u are saturated, and an edge
// starting after u can never cover u. Candidates are therefore scanned in
// rank order and the scan stops at the first edge starting after u.
type search struct {
	idx      *combin.Indexer
	residual *hypergraph.DegreeVector
	scratch  hypergraph.Edge
	stats    Stats

	progress func(Stats)
	every    int64
}

func (r *Realizer) newSearch(p *problem) *search {
	s := &search{
		idx:      p.idx,
		residual: p.target.Clone(),
		scratch:  make(hypergraph.Edge, p.idx.K()),
		progress: r.Progress,
		every:    int64(r.ProgressEvery),
	}
	if s.every <= 0 {
		s.every = DefaultProgressEvery
	}
	return s
}

// candidate examines rank as an extension of the current node. It reports
// whether the scan at this depth is over, and whether the edge was taken
// (its members already removed from residual).
func (s *search) candidate(rank, u int) (stop, taken bool) {
	s.stats.Explored++
	if s.progress != nil && s.stats.Explored%s.every == 0 {
		s.progress(s.stats)
	}
	e := s.idx.Unrank(s.scratch, rank)
	if e[0] > u {
		return true, false
	}
	return false, s.residual.TryRemoveEdge(e)
}

// restore gives back the degree taken by rank.
func (s *search) restore(rank int) {
	// Members of a ranked edge are always valid vertices.
	_ = s.residual.AddEdge(s.idx.Unrank(s.scratch, rank))
}

func (s *search) emit(ranks func(yield func(int) bool)) *hypergraph.Hypergraph {
	h := hypergraph.WithIndexer(s.idx)
	ranks(func(r int) bool {
		_ = h.SetRank(r, true)
		return true
	})
	s.stats.Yielded++
	return h
}

// recurse runs the recursive strategy. The chosen edges live in an ordered
// set keyed by rank, so a realization is emitted by a single in-order scan.
func (s *search) recurse(ctx context.Context, start int, yield func(*hypergraph.Hypergraph, error) bool) {
	chosen := btree.NewBTreeG[int](func(a, b int) bool { return a < b })

	var walk func(start int) bool
	walk = func(start int) bool {
		u := s.residual.FirstPositive()
		if u < 0 {
			return yield(s.emit(chosen.Scan), nil)
		}
		for rank := start; rank < s.idx.Count(); rank++ {
			if ctx.Err() != nil {
				yield(nil, errs.Cancelled(ctx))
				return false
			}
			stop, taken := s.candidate(rank, u)
			if stop {
				break
			}
			if !taken {
				continue
			}
			chosen.Set(rank)
			if !walk(rank + 1) {
				return false
			}
			chosen.Delete(rank)
			s.restore(rank)
		}
		return true
	}
	walk(start)
}
