package realize

import (
	"context"

	errs "github.com/matzehuels/hyperkey/pkg/errors"
	"github.com/matzehuels/hyperkey/pkg/hypergraph"
)

// Result is one item of a Stream: a realization, or the error that ended
// the stream.
type Result struct {
	Hypergraph *hypergraph.Hypergraph
	Err        error
}

// Stream runs the search on its own goroutine and delivers realizations
// over a channel holding up to buffer items (at least one). The producer
// blocks while the channel is full, so at most buffer realizations are
// computed ahead of the consumer.
//
// The channel is closed on exhaustion or cancellation. When ctx is
// cancelled the producer discards every realization still queued and the
// last item before close is a Result carrying CANCELLED. Consumers that
// stop reading must cancel ctx so the producer can exit; the producer
// never blocks after cancellation.
func (r *Realizer) Stream(ctx context.Context, target []int, k, buffer int) (<-chan Result, error) {
	seq, err := r.Realize(ctx, target, k)
	if err != nil {
		return nil, err
	}
	ch := make(chan Result, max(buffer, 1))

	go func() {
		defer close(ch)
		for h, err := range seq {
			if err != nil {
				finish(ch, Result{Err: err})
				return
			}
			if ctx.Err() != nil {
				finish(ch, Result{Err: errs.Cancelled(ctx)})
				return
			}
			select {
			case ch <- Result{Hypergraph: h}:
			case <-ctx.Done():
				finish(ch, Result{Err: errs.Cancelled(ctx)})
				return
			}
		}
	}()
	return ch, nil
}

// finish empties ch and sends the terminal result. ch has only this
// producer as sender, so once it is empty the send cannot block.
func finish(ch chan Result, res Result) {
	for empty := false; !empty; {
		select {
		case <-ch:
		default:
			empty = true
		}
	}
	ch <- res
}
