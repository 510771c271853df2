// Package realize enumerates k-uniform hypergraphs with a prescribed degree
// sequence.
//
// # Overview
//
// Given degrees d_0, ..., d_{n-1} and an edge size k, a realization is a set
// of distinct k-subsets of {0, ..., n-1} in which vertex i lies in exactly
// d_i edges. The package explores every realization by backtracking over
// edge ranks (see package combin): edges are only ever added in increasing
// rank order, so no edge set is visited twice.
//
//	seq, err := new(realize.Realizer).Realize(ctx, []int{1, 1, 1, 1}, 2)
//	if err != nil {
//		return err // INVALID_*, DEGREE_TOO_LARGE or NOT_DIVISIBLE
//	}
//	for h, err := range seq {
//		if err != nil {
//			return err // CANCELLED
//		}
//		fmt.Println(h) // {0, 1} {2, 3}, then {0, 2} {1, 3}, then {0, 3} {1, 2}
//	}
//
// # Forms
//
// The same search is offered three ways:
//
//   - [Realizer.Realize] returns an iter.Seq2 driven by the range loop
//   - [Cursor] is an explicit state machine advanced with Next
//   - [Realizer.Stream] runs the search on a goroutine behind a channel
//
// All three are lazy: no branch is explored beyond what the consumer asked
// for, and work stops as soon as the consumer does.
//
// # Cancellation
//
// The context is consulted before each candidate edge. A cancelled search
// reports exactly one CANCELLED error and produces nothing after it.
//
// # Feasibility
//
// [Validate] rejects sequences that can never be realized: a degree larger
// than C(n-1, k-1), the number of edges through a single vertex, or a
// degree sum that is not a multiple of k. Sequences that pass may still
// have no realization, in which case the search yields nothing.
package realize
