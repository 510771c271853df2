package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/hyperkey/pkg/cache"
	errs "github.com/matzehuels/hyperkey/pkg/errors"
	"github.com/matzehuels/hyperkey/pkg/hypergraph"
	hio "github.com/matzehuels/hyperkey/pkg/io"
	"github.com/matzehuels/hyperkey/pkg/keygen"
	"github.com/matzehuels/hyperkey/pkg/observability"
	"github.com/matzehuels/hyperkey/pkg/realize"
)

// Cache key types reported to observability hooks.
const (
	keyTypeRealize = "realize"
	keyTypeRender  = "render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger, so multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Realize collects up to opts.Limit realizations of the degree sequence.
//
// Complete listings are cached by degree sequence, k and limit. A
// cancelled run returns the CANCELLED error and caches nothing.
func (r *Runner) Realize(ctx context.Context, opts RealizeOptions) (*RealizeResult, error) {
	r.applyLogger(&opts.Logger)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	res := &RealizeResult{ID: uuid.NewString()}
	logger := opts.Logger.With("run", res.ID)
	key := r.Keyer.RealizationKey(opts.Degrees, opts.K, cache.RealizationKeyOpts{Limit: opts.Limit})
	start := time.Now()

	if !opts.Refresh {
		if hs, truncated, ok := r.cachedListing(ctx, key); ok {
			res.Hypergraphs, res.Truncated, res.CacheHit = hs, truncated, true
			res.Duration = time.Since(start)
			logger.Debug("realizations from cache", "count", len(hs))
			return res, nil
		}
	}

	seq, done, err := r.search(ctx, opts)
	if err != nil {
		return nil, err
	}
	for h, err := range seq {
		if err != nil {
			res.Stats = done()
			return nil, err
		}
		if len(res.Hypergraphs) == opts.Limit {
			res.Truncated = true
			break
		}
		res.Hypergraphs = append(res.Hypergraphs, h)
	}
	res.Stats = done()
	res.Duration = time.Since(start)

	logger.Info("realized",
		"n", len(opts.Degrees),
		"k", opts.K,
		"count", len(res.Hypergraphs),
		"truncated", res.Truncated,
		"explored", res.Stats.Explored,
		"duration", res.Duration)

	r.storeListing(ctx, key, res.Hypergraphs, res.Truncated)
	return res, nil
}

// Stream returns the realizations of opts lazily, stopping after
// opts.Limit. It bypasses the cache; the HTTP API uses it to write each
// realization as soon as it is found.
func (r *Runner) Stream(ctx context.Context, opts RealizeOptions) (iter.Seq2[*hypergraph.Hypergraph, error], error) {
	r.applyLogger(&opts.Logger)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	seq, done, err := r.search(ctx, opts)
	if err != nil {
		return nil, err
	}
	return func(yield func(*hypergraph.Hypergraph, error) bool) {
		defer done()
		n := 0
		for h, err := range seq {
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(h, nil) {
				return
			}
			if n++; n == opts.Limit {
				return
			}
		}
	}, nil
}

// search wraps the realizer with observability hooks. done reports the
// final search statistics and must be called once when the caller stops
// ranging.
func (r *Runner) search(ctx context.Context, opts RealizeOptions) (iter.Seq2[*hypergraph.Hypergraph, error], func() realize.Stats, error) {
	n := len(opts.Degrees)
	var (
		stats realize.Stats
		found int
		last  error
	)
	rz := realize.Realizer{
		Strategy: realize.Strategy(opts.Strategy),
		Progress: opts.Progress,
		Done:     func(s realize.Stats) { stats = s },
	}
	seq, err := rz.Realize(ctx, opts.Degrees, opts.K)
	if err != nil {
		return nil, nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRealizeStart(ctx, n, opts.K)
	start := time.Now()

	wrapped := func(yield func(*hypergraph.Hypergraph, error) bool) {
		for h, err := range seq {
			if err != nil {
				last = err
			} else {
				found++
			}
			if !yield(h, err) {
				return
			}
		}
	}
	done := func() realize.Stats {
		hooks.OnRealizeComplete(ctx, n, opts.K, found, stats.Explored, time.Since(start), last)
		return stats
	}
	return wrapped, done, nil
}

func (r *Runner) cachedListing(ctx context.Context, key string) ([]*hypergraph.Hypergraph, bool, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit || len(data) == 0 {
		observability.Cache().OnCacheMiss(ctx, keyTypeRealize)
		return nil, false, false
	}
	truncated := data[0] == '+'
	hs, err := hio.ReadAll(bytes.NewReader(data[1:]))
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, keyTypeRealize)
		return nil, false, false
	}
	observability.Cache().OnCacheHit(ctx, keyTypeRealize)
	return hs, truncated, true
}

// storeListing caches a listing behind a one-byte truncation marker.
func (r *Runner) storeListing(ctx context.Context, key string, hs []*hypergraph.Hypergraph, truncated bool) {
	var buf bytes.Buffer
	if truncated {
		buf.WriteByte('+')
	} else {
		buf.WriteByte('=')
	}
	if err := hio.WriteAll(hs, &buf); err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, buf.Bytes(), cache.TTLRealization); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyTypeRealize, buf.Len())
}

// RealizeBatch runs several realizations concurrently with at most
// workers in flight (DefaultWorkers when workers <= 0). Results keep the
// order of opts. The first failure cancels the remaining runs.
func (r *Runner) RealizeBatch(ctx context.Context, opts []RealizeOptions, workers int) ([]*RealizeResult, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	results := make([]*RealizeResult, len(opts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, o := range opts {
		g.Go(func() error {
			res, err := r.Realize(gctx, o)
			if err != nil {
				return fmt.Errorf("batch item %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// GenerateKey derives a connected key hypergraph from opts.Secret. Keys
// are never cached.
func (r *Runner) GenerateKey(ctx context.Context, opts KeyOptions) (*keygen.Result, error) {
	if ctx.Err() != nil {
		return nil, errs.Cancelled(ctx)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts.Logger)

	gen := keygen.Generator{N: opts.N, K: opts.K, Stream: keygen.StreamKind(opts.Stream), Logger: opts.Logger}
	start := time.Now()
	res, err := gen.Generate(opts.Secret)

	edges, added := 0, 0
	if res != nil {
		edges, added = res.Key.Len(), len(res.Added)
	}
	observability.Pipeline().OnKeyGenerated(ctx, opts.N, opts.K, edges, added, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	opts.Logger.Info("generated key",
		"n", opts.N,
		"k", opts.K,
		"edges", edges,
		"repaired", added,
		"duration", time.Since(start))
	return res, nil
}

// Render draws h in the requested format. SVG output is cached by
// hypergraph content.
func (r *Runner) Render(ctx context.Context, h *hypergraph.Hypergraph, opts RenderOptions) ([]byte, error) {
	if err := opts.Validate(h.N()); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Format)
	start := time.Now()
	data, err := r.render(ctx, h, opts)
	hooks.OnRenderComplete(ctx, opts.Format, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", opts.Format, err)
	}
	return data, nil
}

func (r *Runner) render(ctx context.Context, h *hypergraph.Hypergraph, opts RenderOptions) ([]byte, error) {
	switch opts.Format {
	case FormatJSON:
		var buf bytes.Buffer
		if err := hio.WriteJSON(h, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatDOT:
		return []byte(h.ToDOT(opts.Labels)), nil
	}

	key := r.Keyer.RenderKey(contentHash(h, opts.Labels), opts.Format)
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, keyTypeRender)
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeRender)

	data, err := h.RenderSVG(ctx, opts.Labels)
	if err != nil {
		return nil, err
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLRender); err == nil {
		observability.Cache().OnCacheSet(ctx, keyTypeRender, len(data))
	}
	return data, nil
}

// contentHash identifies a drawing: the hypergraph and its labels.
func contentHash(h *hypergraph.Hypergraph, labels []string) string {
	var buf bytes.Buffer
	_ = hio.WriteJSON(h, &buf)
	for _, l := range labels {
		buf.WriteString(l)
		buf.WriteByte(0)
	}
	return cache.Hash(buf.Bytes())
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger fills an unset per-call logger with the runner's.
func (r *Runner) applyLogger(l **log.Logger) {
	if *l == nil {
		*l = r.Logger
	}
}
