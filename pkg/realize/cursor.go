package realize

import (
	"context"
	"slices"

	errs "github.com/matzehuels/hyperkey/pkg/errors"
	"github.com/matzehuels/hyperkey/pkg/hypergraph"
)

// Cursor walks the search tree with an explicit stack, one realization per
// call to Next:
//
//	c, err := realize.NewCursor(degrees, 3)
//	if err != nil {
//		return err
//	}
//	for c.Next(ctx) {
//		use(c.Hypergraph())
//	}
//	if err := c.Err(); err != nil {
//		return err // CANCELLED
//	}
//
// Exhaustion ends with Next returning false and Err returning nil. A Cursor
// is not safe for concurrent use.
type Cursor struct {
	s *search

	stack []int // chosen ranks, strictly increasing
	next  int   // next candidate rank at the current depth

	cur    *hypergraph.Hypergraph
	err    error
	done   bool
	atLeaf bool
}

// NewCursor validates the request like Realize and returns a cursor
// positioned before the first realization.
func NewCursor(target []int, k int) (*Cursor, error) {
	p, err := newProblem(target, k)
	if err != nil {
		return nil, err
	}
	var r Realizer
	return &Cursor{s: r.newSearch(p)}, nil
}

// Next advances to the next realization and reports whether there is one.
// ctx is checked before every candidate edge; on cancellation Next returns
// false and Err reports CANCELLED. Once Next returns false it keeps
// returning false.
func (c *Cursor) Next(ctx context.Context) bool {
	if c.done {
		return false
	}
	c.cur = nil
	if c.atLeaf {
		c.atLeaf = false
		if !c.backtrack() {
			return false
		}
	}

	s := c.s
	for {
		u := s.residual.FirstPositive()
		if u < 0 {
			c.cur = s.emit(slices.Values(c.stack))
			c.atLeaf = true
			return true
		}

		descended := false
		for c.next < s.idx.Count() {
			if ctx.Err() != nil {
				c.err = errs.Cancelled(ctx)
				c.done = true
				return false
			}
			rank := c.next
			c.next++
			stop, taken := s.candidate(rank, u)
			if stop {
				break
			}
			if taken {
				c.stack = append(c.stack, rank)
				c.next = rank + 1
				descended = true
				break
			}
		}
		if !descended && !c.backtrack() {
			return false
		}
	}
}

// backtrack undoes the deepest choice and resumes its siblings. It returns
// false, marking the cursor done, when the stack is empty.
func (c *Cursor) backtrack() bool {
	if len(c.stack) == 0 {
		c.done = true
		return false
	}
	rank := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	c.s.restore(rank)
	c.next = rank + 1
	return true
}

// Hypergraph returns the realization found by the last successful Next.
// The caller owns it.
func (c *Cursor) Hypergraph() *hypergraph.Hypergraph { return c.cur }

// Err returns the error that stopped the cursor, or nil on exhaustion.
func (c *Cursor) Err() error { return c.err }

// Stats returns the work done so far.
func (c *Cursor) Stats() Stats { return c.s.stats }
