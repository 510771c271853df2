// Package pipeline runs realization, key generation and rendering with
// caching and instrumentation.
//
// The CLI and the HTTP server both go through a [Runner], so cache keys,
// defaults, logging and metrics are the same for every entry point.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Realize(ctx, pipeline.RealizeOptions{
//	    Degrees: []int{2, 2, 2, 2, 2, 2},
//	    K:       3,
//	})
//	for _, h := range res.Hypergraphs {
//	    fmt.Println(h)
//	}
//
// Generate a key and render it:
//
//	key, err := runner.GenerateKey(ctx, pipeline.KeyOptions{N: 8, K: 3, Secret: secret})
//	svg, err := runner.Render(ctx, key.Key, pipeline.RenderOptions{Format: pipeline.FormatSVG})
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/hyperkey/pkg/errors"
	"github.com/matzehuels/hyperkey/pkg/hypergraph"
	"github.com/matzehuels/hyperkey/pkg/keygen"
	"github.com/matzehuels/hyperkey/pkg/realize"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultLimit caps how many realizations Realize collects. Degree
	// sequences with many realizations would otherwise exhaust memory.
	DefaultLimit = 1000

	// MaxLimit is the largest accepted Limit.
	MaxLimit = 1_000_000

	// DefaultWorkers bounds RealizeBatch concurrency.
	DefaultWorkers = 4

	// DefaultStrategy is the search strategy used when none is given.
	DefaultStrategy = realize.Recursive

	// DefaultStream is the keystream used when none is given.
	DefaultStream = keygen.StreamLCG
)

// Format constants for render output.
const (
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported render formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidInput, "invalid format: %q (must be one of: svg, dot, json)", format)
	}
	return nil
}

// =============================================================================
// Realize
// =============================================================================

// RealizeOptions configures a realization run.
type RealizeOptions struct {
	Degrees  []int  `json:"degrees"`
	K        int    `json:"k"`
	Strategy string `json:"strategy,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Refresh  bool   `json:"refresh,omitempty"` // bypass the cache

	Logger *log.Logger `json:"-"`

	// Progress, if set, receives search counts periodically while the
	// search runs. It is not called for cached listings.
	Progress func(realize.Stats) `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks the degree sequence and applies defaults.
// It is idempotent.
func (o *RealizeOptions) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := realize.Validate(o.Degrees, o.K); err != nil {
		return err
	}
	s, err := realize.ParseStrategy(o.Strategy)
	if err != nil {
		return err
	}
	o.Strategy = string(s)
	switch {
	case o.Limit == 0:
		o.Limit = DefaultLimit
	case o.Limit < 0 || o.Limit > MaxLimit:
		return errs.New(errs.ErrCodeInvalidInput, "limit %d outside [1, %d]", o.Limit, MaxLimit)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// RealizeResult holds the realizations found by one run.
type RealizeResult struct {
	// ID identifies the run in logs.
	ID string

	// Hypergraphs are the realizations in canonical order.
	Hypergraphs []*hypergraph.Hypergraph

	// Truncated is set when more realizations exist beyond Limit.
	Truncated bool

	// CacheHit is set when the listing came from the cache.
	CacheHit bool

	// Stats is zero on a cache hit.
	Stats    realize.Stats
	Duration time.Duration
}

// =============================================================================
// Keygen
// =============================================================================

// KeyOptions configures key generation.
type KeyOptions struct {
	N      int    `json:"n"`
	K      int    `json:"k"`
	Stream string `json:"stream,omitempty"`
	Secret []byte `json:"-"`

	Logger *log.Logger `json:"-"`
}

// Validate checks the key shape and stream and applies defaults.
func (o *KeyOptions) Validate() error {
	if err := errs.RequireDimension(o.N, o.K, 2); err != nil {
		return err
	}
	if err := errs.RequireNotEmpty("secret", o.Secret); err != nil {
		return err
	}
	s, err := keygen.ParseStreamKind(o.Stream)
	if err != nil {
		return err
	}
	o.Stream = string(s)
	return nil
}

// =============================================================================
// Render
// =============================================================================

// RenderOptions configures rendering.
type RenderOptions struct {
	Format string   `json:"format,omitempty"`
	Labels []string `json:"labels,omitempty"` // vertex labels; indices when empty
}

// SetDefaults selects SVG when no format is given.
func (o *RenderOptions) SetDefaults() {
	if o.Format == "" {
		o.Format = FormatSVG
	}
}

// Validate applies defaults and checks the format.
func (o *RenderOptions) Validate(n int) error {
	o.SetDefaults()
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if len(o.Labels) > 0 && len(o.Labels) != n {
		return errs.New(errs.ErrCodeInvalidInput, "%d labels for %d vertices", len(o.Labels), n)
	}
	return nil
}
