package keygen

import (
	"math/rand/v2"
	"strings"

	errs "github.com/matzehuels/hyperkey/pkg/errors"
)

// Stream is the pseudo-random source driving generation. Both parties must
// draw from identical streams, so every implementation is deterministic in
// its seed. *rand.Rand satisfies Stream.
type Stream interface {
	Float64() float64
	IntN(n int) int
}

// StreamKind names a Stream algorithm.
type StreamKind string

const (
	// StreamLCG is the reference stream: a 32-bit linear congruential
	// generator (Numerical Recipes constants).
	StreamLCG StreamKind = "lcg"
	// StreamJSF is Bob Jenkins' small fast generator.
	StreamJSF StreamKind = "jsf"
	// StreamChaCha8 is the standard library ChaCha8 generator keyed with
	// the whole seed.
	StreamChaCha8 StreamKind = "chacha8"
)

// StreamKinds lists the supported kinds, reference first.
var StreamKinds = []StreamKind{StreamLCG, StreamJSF, StreamChaCha8}

// ParseStreamKind converts a name to a StreamKind. The empty string
// selects StreamLCG.
func ParseStreamKind(s string) (StreamKind, error) {
	kind := StreamKind(strings.ToLower(s))
	switch kind {
	case "":
		return StreamLCG, nil
	case StreamLCG, StreamJSF, StreamChaCha8:
		return kind, nil
	default:
		return "", errs.New(errs.ErrCodeInvalidInput, "unknown stream %q (want lcg, jsf or chacha8)", s)
	}
}

// NewStream returns a stream of the given kind seeded with seed.
func NewStream(kind StreamKind, seed Seed) (Stream, error) {
	switch kind {
	case "", StreamLCG:
		return NewLCG(seed.Uint64()), nil
	case StreamJSF:
		return rand.New(NewJSF(uint32(seed.Uint64()))), nil
	case StreamChaCha8:
		return rand.New(rand.NewChaCha8(seed)), nil
	default:
		return nil, errs.New(errs.ErrCodeInvalidInput, "unknown stream %q", kind)
	}
}

const (
	lcgA = 1664525
	lcgC = 1013904223
)

// LCG is the linear congruential generator x' = (a*x + c) mod 2^32.
//
// Its Float64 is x'/2^32, one step per draw, rather than the 53-bit
// construction of math/rand, so LCG implements Stream itself. It also
// implements rand.Source for use with rand.New.
type LCG struct {
	state uint32
}

// NewLCG returns an LCG whose state is seed mod 2^32.
func NewLCG(seed uint64) *LCG {
	return &LCG{state: uint32(seed)}
}

func (g *LCG) next() uint32 {
	g.state = lcgA*g.state + lcgC
	return g.state
}

// Float64 returns the next state scaled into [0, 1).
func (g *LCG) Float64() float64 {
	return float64(g.next()) / (1 << 32)
}

// IntN returns a value in [0, n) from one step by multiply-shift.
// It panics if n <= 0 or n > 2^32.
func (g *LCG) IntN(n int) int {
	if n <= 0 || uint64(n) > 1<<32 {
		panic("keygen: invalid argument to LCG.IntN")
	}
	return int(uint64(g.next()) * uint64(n) >> 32)
}

// Uint64 joins two consecutive states, the first in the high word.
func (g *LCG) Uint64() uint64 {
	hi := uint64(g.next())
	return hi<<32 | uint64(g.next())
}

// JSF is Bob Jenkins' small fast 32-bit generator. It implements
// rand.Source.
type JSF struct {
	a, b, c, d uint32
}

// jsfWarmup is the number of outputs discarded after seeding.
const jsfWarmup = 20

// NewJSF returns a JSF generator seeded with seed.
func NewJSF(seed uint32) *JSF {
	g := &JSF{a: 0xf1ea5eed, b: seed, c: seed, d: seed}
	for range jsfWarmup {
		g.next()
	}
	return g
}

func rotl(x uint32, k uint) uint32 { return x<<k | x>>(32-k) }

func (g *JSF) next() uint32 {
	e := g.a - rotl(g.b, 27)
	g.a = g.b ^ rotl(g.c, 17)
	g.b = g.c + g.d
	g.c = g.d + e
	g.d = e + g.a
	return g.d
}

// Uint64 joins two consecutive outputs, the first in the high word.
func (g *JSF) Uint64() uint64 {
	hi := uint64(g.next())
	return hi<<32 | uint64(g.next())
}
