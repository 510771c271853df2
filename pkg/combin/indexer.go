package combin

import (
	"math"
	"slices"

	errs "github.com/matzehuels/hyperkey/pkg/errors"
)

// MaxRanks bounds C(n, k) for any Indexer. Hypergraphs materialize one bit
// per rank, so this also bounds bitmap size (256 MiB).
const MaxRanks = 1 << 31

// Indexer maps ranks in [0, C(n,k)) to sorted k-subsets of {0, ..., n-1}
// and back. Rank order is lexicographic order of the subsets.
//
// An Indexer is immutable after construction and safe for concurrent use.
type Indexer struct {
	n, k  int
	count int
	// binom[i][j] = C(i, j) for 0 <= i <= n, 0 <= j <= k, saturated at
	// math.MaxInt. Entries consulted by Rank and Unrank never exceed count.
	binom [][]int
}

// NewIndexer returns an indexer for k-subsets of n vertices.
//
// It fails with INVALID_DIMENSION unless n >= 1 and 1 <= k <= n, and with
// TOO_LARGE when C(n, k) exceeds MaxRanks.
func NewIndexer(n, k int) (*Indexer, error) {
	if err := errs.RequireDimension(n, k, 1); err != nil {
		return nil, err
	}
	count := Binomial(n, k)
	if !count.IsInt64() || count.Int64() > MaxRanks {
		return nil, errs.New(errs.ErrCodeTooLarge, "C(%d, %d) = %s exceeds %d ranks", n, k, count, MaxRanks)
	}
	return &Indexer{
		n:     n,
		k:     k,
		count: int(count.Int64()),
		binom: pascal(n, k),
	}, nil
}

// pascal builds the saturated binomial table by Pascal's rule.
func pascal(n, k int) [][]int {
	t := make([][]int, n+1)
	for i := range t {
		t[i] = make([]int, k+1)
		t[i][0] = 1
		for j := 1; j <= k && j <= i; j++ {
			a, b := t[i-1][j-1], t[i-1][j]
			if a > math.MaxInt-b {
				t[i][j] = math.MaxInt
			} else {
				t[i][j] = a + b
			}
		}
	}
	return t
}

// N returns the number of vertices.
func (x *Indexer) N() int { return x.n }

// K returns the subset size.
func (x *Indexer) K() int { return x.k }

// Count returns C(n, k), the number of valid ranks.
func (x *Indexer) Count() int { return x.count }

// choose returns C(a, b) from the table, zero outside it.
func (x *Indexer) choose(a, b int) int {
	if a < 0 || b < 0 || b > a {
		return 0
	}
	return x.binom[a][b]
}

// RankToSubset returns the sorted k-subset with the given rank.
// It fails with OUT_OF_RANGE unless 0 <= rank < Count().
func (x *Indexer) RankToSubset(rank int) ([]int, error) {
	if err := errs.RequireIndex("rank", rank, x.count); err != nil {
		return nil, err
	}
	return x.Unrank(make([]int, x.k), rank), nil
}

// Unrank decodes rank into dst and returns it. dst must have length k and
// rank must be in range; Unrank does not check either.
//
// At each position the smallest vertex v is chosen for which the number of
// subsets continuing with a larger first free vertex, C(n-v-1, slots left),
// exceeds the residual rank; smaller candidates consume their count.
func (x *Indexer) Unrank(dst []int, rank int) []int {
	r := rank
	v := 0
	for i := 0; i < x.k; i++ {
		rest := x.k - i - 1
		for {
			c := x.choose(x.n-v-1, rest)
			if r < c {
				break
			}
			r -= c
			v++
		}
		dst[i] = v
		v++
	}
	return dst
}

// SubsetToRank returns the rank of subset. The input may be in any order;
// it is not modified. It fails with INVALID_EDGE unless subset holds exactly
// k distinct vertices in [0, n).
func (x *Indexer) SubsetToRank(subset []int) (int, error) {
	if len(subset) != x.k {
		return 0, errs.New(errs.ErrCodeInvalidEdge, "subset has %d vertices, want %d", len(subset), x.k)
	}
	sorted := slices.Clone(subset)
	slices.Sort(sorted)
	if err := errs.RequireStrictlyIncreasing(sorted, x.n); err != nil {
		return 0, err
	}
	return x.Rank(sorted), nil
}

// Rank encodes a sorted, valid k-subset without checking it.
//
// The complement sum over C(n-v-1, k-i) counts the subsets ranked after
// the input; subtracting it from C(n,k)-1 gives lexicographic rank.
func (x *Indexer) Rank(sorted []int) int {
	after := 0
	for i, v := range sorted {
		after += x.choose(x.n-v-1, x.k-i)
	}
	return x.count - 1 - after
}
