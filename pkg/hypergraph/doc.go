// Package hypergraph provides k-uniform hypergraphs stored as rank bitmaps.
//
// # Overview
//
// A k-uniform hypergraph on n vertices is a set of k-subsets (edges) of
// {0, ..., n-1}. Package combin numbers all C(n, k) possible edges in
// lexicographic order; a [Hypergraph] stores one presence bit per rank.
// This makes membership a single bit test and gives every hypergraph a
// canonical edge order:
//
//	h, _ := hypergraph.FromEdges(4, 2, hypergraph.Edge{0, 1}, hypergraph.Edge{2, 3})
//	h.Contains(hypergraph.Edge{3, 2})   // true
//	for e := range h.Edges() {          // {0, 1} then {2, 3}
//	    fmt.Println(e)
//	}
//
// # Degrees
//
// [DegreeVector] holds per-vertex counters. The realizer uses it as the
// residual degree still to be covered: removing an edge decrements every
// member, and [DegreeVector.RemoveEdge] refuses (DEGREE_UNDERFLOW) rather
// than drive a counter negative. [DegreeVector.TryRemoveEdge] is the
// allocation-free probe used inside search loops.
//
// # Rendering
//
// [Hypergraph.ToDOT] and [Hypergraph.RenderSVG] draw the incidence graph
// (vertices plus one box per edge) through Graphviz.
//
// # Limits
//
// The bitmap is materialized in full, so C(n, k) is capped by
// combin.MaxRanks. This package targets small n.
package hypergraph
