// Package combin provides arbitrary-precision combinatorics and the
// combinatorial number system used to address hyperedges by rank.
//
// # Overview
//
// A k-uniform hypergraph on n vertices has C(n, k) possible edges. Rather
// than storing edges as vertex lists, higher layers store one bit per edge
// and address it by rank. [Indexer] is the bijection between those ranks
// and sorted k-subsets:
//
//	x, _ := combin.NewIndexer(4, 2)
//	x.Count()                    // 6
//	x.RankToSubset(3)            // [1 2]
//	x.SubsetToRank([]int{2, 0})  // 1
//
// Rank order is lexicographic order of the sorted subsets, so iterating
// ranks 0, 1, 2, ... visits {0,1}, {0,2}, {0,3}, {1,2}, ...
//
// # Size Limits
//
// C(n, k) is computed with math/big. [NewIndexer] refuses any (n, k) whose
// rank space exceeds [MaxRanks]; everything downstream (bitmaps, searches)
// relies on ranks fitting a machine int.
//
// # Helpers
//
// [Factorial], [Binomial], [GCD] and [LCM] work on *big.Int and never
// overflow.
package combin
