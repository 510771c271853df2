package realize

import (
	"context"
	"iter"
	"math/big"
	"strings"

	"github.com/matzehuels/hyperkey/pkg/combin"
	errs "github.com/matzehuels/hyperkey/pkg/errors"
	"github.com/matzehuels/hyperkey/pkg/hypergraph"
)

// Strategy selects how the search tree is walked. Both strategies produce
// the same realizations in the same order.
type Strategy string

const (
	// Recursive walks the tree on the call stack. Depth equals the number
	// of edges in a realization.
	Recursive Strategy = "recursive"
	// Iterative walks the tree with an explicit stack (see Cursor).
	Iterative Strategy = "iterative"
)

// ParseStrategy converts a name to a Strategy. The empty string selects
// Recursive.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(s)) {
	case "", Recursive:
		return Recursive, nil
	case Iterative:
		return Iterative, nil
	default:
		return "", errs.New(errs.ErrCodeInvalidInput, "unknown strategy %q (want recursive or iterative)", s)
	}
}

// DefaultProgressEvery is the reporting interval used when a Progress
// callback is set without ProgressEvery.
const DefaultProgressEvery = 10_000

// Stats counts the work done by one search.
type Stats struct {
	Explored int64 // candidate edges examined
	Yielded  int64 // realizations produced
}

// Realizer enumerates the k-uniform hypergraphs with a prescribed degree
// sequence. The zero value is ready to use and walks the tree recursively.
type Realizer struct {
	Strategy Strategy

	// Progress, if set, is called from the search goroutine every
	// ProgressEvery candidate edges.
	Progress      func(Stats)
	ProgressEvery int

	// Done, if set, receives the final counts when a walk ends, whether
	// exhausted, cancelled or stopped by the consumer.
	Done func(Stats)
}

// Validate checks that target can possibly be realized with edges of size
// k. Checks run in a fixed order and the first failure is returned:
//
//   - INVALID_INPUT: empty sequence or negative degree
//   - INVALID_DIMENSION: k outside [2, n]
//   - DEGREE_TOO_LARGE: a degree above C(n-1, k-1)
//   - NOT_DIVISIBLE: the degree sum is not a multiple of k
//
// Passing Validate does not guarantee a realization exists; the search
// then simply yields nothing.
func Validate(target []int, k int) error {
	_, err := validate(target, k)
	return err
}

func validate(target []int, k int) (*hypergraph.DegreeVector, error) {
	dv, err := hypergraph.NewDegreeVector(target...)
	if err != nil {
		return nil, err
	}
	n := dv.Len()
	if err := errs.RequireDimension(n, k, 2); err != nil {
		return nil, err
	}
	limit := combin.Binomial(n-1, k-1)
	for v := range n {
		if big.NewInt(int64(dv.At(v))).Cmp(limit) > 0 {
			return nil, errs.New(errs.ErrCodeDegreeTooLarge,
				"degree %d of vertex %d exceeds C(%d, %d) = %s", dv.At(v), v, n-1, k-1, limit)
		}
	}
	if sum := dv.Sum(); sum%k != 0 {
		return nil, errs.New(errs.ErrCodeNotDivisible, "degree sum %d is not divisible by %d", sum, k)
	}
	return dv, nil
}

// problem is a validated request. It is immutable and every search over it
// starts from a fresh clone of target.
type problem struct {
	idx    *combin.Indexer
	target *hypergraph.DegreeVector
}

func newProblem(target []int, k int) (*problem, error) {
	dv, err := validate(target, k)
	if err != nil {
		return nil, err
	}
	idx, err := combin.NewIndexer(dv.Len(), k)
	if err != nil {
		return nil, err
	}
	return &problem{idx: idx, target: dv}, nil
}

// Realize validates the request and returns a lazy sequence of its
// realizations in increasing lexicographic order of their rank lists.
//
// Validation errors are returned immediately, before any sequence exists.
// The sequence does no work until ranged over and stops exploring as soon
// as the loop body breaks. ctx is checked before every candidate edge; on
// cancellation the sequence yields a single (nil, CANCELLED) pair and ends.
// Every other pair carries a fresh hypergraph and a nil error.
//
// Each range over the returned sequence restarts the search.
func (r *Realizer) Realize(ctx context.Context, target []int, k int) (iter.Seq2[*hypergraph.Hypergraph, error], error) {
	p, err := newProblem(target, k)
	if err != nil {
		return nil, err
	}
	switch r.Strategy {
	case "", Recursive:
		return func(yield func(*hypergraph.Hypergraph, error) bool) {
			s := r.newSearch(p)
			defer r.finish(s)
			s.recurse(ctx, 0, yield)
		}, nil
	case Iterative:
		return func(yield func(*hypergraph.Hypergraph, error) bool) {
			c := &Cursor{s: r.newSearch(p)}
			defer r.finish(c.s)
			for c.Next(ctx) {
				if !yield(c.Hypergraph(), nil) {
					return
				}
			}
			if err := c.Err(); err != nil {
				yield(nil, err)
			}
		}, nil
	default:
		return nil, errs.New(errs.ErrCodeInvalidInput, "unknown strategy %q", r.Strategy)
	}
}

func (r *Realizer) finish(s *search) {
	if r.Done != nil {
		r.Done(s.stats)
	}
}

// All returns the realizations of target without cancellation.
func All(target []int, k int) (iter.Seq[*hypergraph.Hypergraph], error) {
	var r Realizer
	seq, err := r.Realize(context.Background(), target, k)
	if err != nil {
		return nil, err
	}
	return func(yield func(*hypergraph.Hypergraph) bool) {
		for h := range seq {
			if !yield(h) {
				return
			}
		}
	}, nil
}

// Count counts realizations of target, stopping at limit when limit > 0.
func Count(ctx context.Context, target []int, k, limit int) (int, error) {
	var r Realizer
	seq, err := r.Realize(ctx, target, k)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, err := range seq {
		if err != nil {
			return n, err
		}
		n++
		if limit > 0 && n >= limit {
			break
		}
	}
	return n, nil
}
