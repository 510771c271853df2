package realize

import (
	"context"
	"testing"
	"time"

	errs "github.com/matzehuels/hyperkey/pkg/errors"
)

func TestStreamDeliversAll(t *testing.T) {
	ch, err := new(Realizer).Stream(context.Background(), []int{2, 2, 2, 2, 2}, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	n := 0
	for res := range ch {
		if res.Err != nil {
			t.Fatal(res.Err)
		}
		n++
	}
	if n != 12 {
		t.Errorf("got %d realizations, want 12", n)
	}
}

func TestStreamValidationError(t *testing.T) {
	_, err := new(Realizer).Stream(context.Background(), []int{1, 1, 1}, 2, 1)
	if !errs.Is(err, errs.ErrCodeNotDivisible) {
		t.Errorf("error = %v, want NOT_DIVISIBLE", err)
	}
}

func TestStreamCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ch, err := (&Realizer{Strategy: Iterative}).Stream(ctx, []int{1, 1, 1, 1}, 2, 1)
	if err != nil {
		t.Fatal(err)
	}

	var got []Result
	timeout := time.After(5 * time.Second)
	for {
		select {
		case res, ok := <-ch:
			if !ok {
				if len(got) != 1 || !errs.Is(got[0].Err, errs.ErrCodeCancelled) {
					t.Fatalf("got %v, want a single CANCELLED result", got)
				}
				return
			}
			got = append(got, res)
		case <-timeout:
			t.Fatal("stream did not close after cancellation")
		}
	}
}

func TestStreamConsumerStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := new(Realizer).Stream(ctx, []int{2, 2, 2, 2, 2, 2}, 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	if res := <-ch; res.Err != nil || res.Hypergraph == nil {
		t.Fatalf("first result = %+v", res)
	}
	cancel()

	// The producer must close the channel rather than block forever.
	timeout := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("producer did not exit after cancel")
		}
	}
}

func TestStreamCancelledMidStream(t *testing.T) {
	for range 20 {
		ctx, cancel := context.WithCancel(context.Background())
		ch, err := new(Realizer).Stream(ctx, []int{2, 2, 2, 2, 2, 2}, 2, 1)
		if err != nil {
			t.Fatal(err)
		}
		if res := <-ch; res.Err != nil || res.Hypergraph == nil {
			t.Fatalf("first result = %+v", res)
		}
		// Let the producer fill the buffer and block.
		time.Sleep(5 * time.Millisecond)
		cancel()

		var got []Result
		timeout := time.After(5 * time.Second)
	drain:
		for {
			select {
			case res, ok := <-ch:
				if !ok {
					break drain
				}
				got = append(got, res)
			case <-timeout:
				t.Fatal("stream did not close after cancellation")
			}
		}

		if len(got) == 0 {
			t.Fatal("channel closed without a CANCELLED result")
		}
		last := got[len(got)-1]
		if !errs.Is(last.Err, errs.ErrCodeCancelled) {
			t.Fatalf("last result = %+v, want CANCELLED", last)
		}
		if len(got) > 2 {
			t.Errorf("got %d results after cancel, want at most one queued realization and the error", len(got))
		}
	}
}
