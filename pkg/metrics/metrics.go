// Package metrics exports pipeline, cache and HTTP events as Prometheus
// metrics by implementing the hooks of package observability.
//
// Collectors are registered with the default registry on import. Call
// [Register] once at startup to route hook events to them, and serve
// promhttp.Handler() to expose them.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	errs "github.com/matzehuels/hyperkey/pkg/errors"
	"github.com/matzehuels/hyperkey/pkg/observability"
)

const namespace = "hyperkey"

// =============================================================================
// Collectors
// =============================================================================

var (
	// realizeDuration measures full enumerations.
	// Labels: k, status (ok or an error code)
	realizeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "realize",
		Name:      "duration_seconds",
		Help:      "Realization enumeration latency in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
	}, []string{"k", "status"})

	realizeFound = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "realize",
		Name:      "realizations_total",
		Help:      "Realizations yielded",
	}, []string{"k"})

	realizeExplored = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "realize",
		Name:      "nodes_explored_total",
		Help:      "Search nodes visited while enumerating",
	}, []string{"k"})

	realizeInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "realize",
		Name:      "in_flight",
		Help:      "Enumerations currently running",
	})

	keysGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "keygen",
		Name:      "keys_total",
		Help:      "Key hypergraphs generated",
	}, []string{"k", "status"})

	// keyRepairEdges records how many edges repair had to add per key.
	keyRepairEdges = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "keygen",
		Name:      "repair_edges",
		Help:      "Edges added to connect a sampled key",
		Buckets:   []float64{0, 1, 2, 4, 8, 16, 32},
	})

	renderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "render",
		Name:      "duration_seconds",
		Help:      "Render latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"format", "status"})

	cacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "requests_total",
		Help:      "Cache lookups by key type and result",
	}, []string{"key_type", "result"})

	cacheWriteBytes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "write_bytes_total",
		Help:      "Bytes written to the cache",
	}, []string{"key_type"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route and status code",
	}, []string{"method", "route", "code"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	httpErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "errors_total",
		Help:      "Requests that failed before a response was written",
	}, []string{"method", "route"})
)

// Register routes observability hooks to the Prometheus collectors.
func Register() {
	observability.SetPipelineHooks(PipelineHooks{})
	observability.SetCacheHooks(CacheHooks{})
	observability.SetHTTPHooks(HTTPHooks{})
}

// status is the label value for an outcome: "ok", or the error code.
func status(err error) string {
	if err == nil {
		return "ok"
	}
	if code := errs.GetCode(err); code != "" {
		return string(code)
	}
	return "error"
}

// =============================================================================
// Hook implementations
// =============================================================================

// PipelineHooks records realize, keygen and render events.
type PipelineHooks struct{}

func (PipelineHooks) OnRealizeStart(context.Context, int, int) { realizeInFlight.Inc() }

func (PipelineHooks) OnRealizeComplete(_ context.Context, _, k, found int, explored int64, d time.Duration, err error) {
	realizeInFlight.Dec()
	kl := strconv.Itoa(k)
	realizeDuration.WithLabelValues(kl, status(err)).Observe(d.Seconds())
	realizeFound.WithLabelValues(kl).Add(float64(found))
	realizeExplored.WithLabelValues(kl).Add(float64(explored))
}

func (PipelineHooks) OnKeyGenerated(_ context.Context, _, k, _, added int, _ time.Duration, err error) {
	keysGenerated.WithLabelValues(strconv.Itoa(k), status(err)).Inc()
	if err == nil {
		keyRepairEdges.Observe(float64(added))
	}
}

func (PipelineHooks) OnRenderStart(context.Context, string) {}

func (PipelineHooks) OnRenderComplete(_ context.Context, format string, d time.Duration, err error) {
	renderDuration.WithLabelValues(format, status(err)).Observe(d.Seconds())
}

// CacheHooks records cache hits, misses and writes.
type CacheHooks struct{}

func (CacheHooks) OnCacheHit(_ context.Context, keyType string) {
	cacheRequests.WithLabelValues(keyType, "hit").Inc()
}

func (CacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	cacheRequests.WithLabelValues(keyType, "miss").Inc()
}

func (CacheHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	cacheWriteBytes.WithLabelValues(keyType).Add(float64(size))
}

// HTTPHooks records server traffic.
type HTTPHooks struct{}

func (HTTPHooks) OnRequest(context.Context, string, string) {}

func (HTTPHooks) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (HTTPHooks) OnError(_ context.Context, method, route string, _ error) {
	httpErrors.WithLabelValues(method, route).Inc()
}

var (
	_ observability.PipelineHooks = PipelineHooks{}
	_ observability.CacheHooks    = CacheHooks{}
	_ observability.HTTPHooks     = HTTPHooks{}
)
