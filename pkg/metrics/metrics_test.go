package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	errs "github.com/matzehuels/hyperkey/pkg/errors"
	"github.com/matzehuels/hyperkey/pkg/observability"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{errs.New(errs.ErrCodeNotDivisible, "x"), "NOT_DIVISIBLE"},
		{errors.New("plain"), "error"},
	}
	for _, tt := range tests {
		if got := status(tt.err); got != tt.want {
			t.Errorf("status(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestRealizeHooks(t *testing.T) {
	ctx := context.Background()
	h := PipelineHooks{}

	before := testutil.ToFloat64(realizeFound.WithLabelValues("7"))
	h.OnRealizeStart(ctx, 9, 7)
	if got := testutil.ToFloat64(realizeInFlight); got < 1 {
		t.Errorf("in flight = %v during enumeration", got)
	}
	h.OnRealizeComplete(ctx, 9, 7, 3, 120, time.Millisecond, nil)

	if got := testutil.ToFloat64(realizeFound.WithLabelValues("7")) - before; got != 3 {
		t.Errorf("realizations delta = %v, want 3", got)
	}
	if got := testutil.ToFloat64(realizeExplored.WithLabelValues("7")); got < 120 {
		t.Errorf("explored = %v, want >= 120", got)
	}
}

func TestCacheHooks(t *testing.T) {
	ctx := context.Background()
	c := CacheHooks{}
	hit := cacheRequests.WithLabelValues("test", "hit")
	miss := cacheRequests.WithLabelValues("test", "miss")
	h0, m0 := testutil.ToFloat64(hit), testutil.ToFloat64(miss)

	c.OnCacheHit(ctx, "test")
	c.OnCacheHit(ctx, "test")
	c.OnCacheMiss(ctx, "test")
	c.OnCacheSet(ctx, "test", 512)

	if d := testutil.ToFloat64(hit) - h0; d != 2 {
		t.Errorf("hits delta = %v, want 2", d)
	}
	if d := testutil.ToFloat64(miss) - m0; d != 1 {
		t.Errorf("misses delta = %v, want 1", d)
	}
	if got := testutil.ToFloat64(cacheWriteBytes.WithLabelValues("test")); got < 512 {
		t.Errorf("write bytes = %v", got)
	}
}

func TestHTTPHooks(t *testing.T) {
	ctx := context.Background()
	c := httpRequests.WithLabelValues("GET", "/test", "404")
	before := testutil.ToFloat64(c)

	HTTPHooks{}.OnResponse(ctx, "GET", "/test", 404, time.Millisecond)

	if d := testutil.ToFloat64(c) - before; d != 1 {
		t.Errorf("requests delta = %v, want 1", d)
	}
}

func TestRegister(t *testing.T) {
	defer observability.Reset()
	Register()

	if _, ok := observability.Pipeline().(PipelineHooks); !ok {
		t.Error("pipeline hooks not registered")
	}
	if _, ok := observability.Cache().(CacheHooks); !ok {
		t.Error("cache hooks not registered")
	}
	if _, ok := observability.HTTP().(HTTPHooks); !ok {
		t.Error("http hooks not registered")
	}
}
