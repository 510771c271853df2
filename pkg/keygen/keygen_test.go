package keygen

import (
	"bytes"
	"math/big"
	"math/rand/v2"
	"slices"
	"testing"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	errs "github.com/matzehuels/hyperkey/pkg/errors"
	"github.com/matzehuels/hyperkey/pkg/hypergraph"
)

// gonumComponents counts components of the 2-section of h with gonum.
func gonumComponents(h *hypergraph.Hypergraph) int {
	g := simple.NewUndirectedGraph()
	for v := 0; v < h.N(); v++ {
		g.AddNode(simple.Node(v))
	}
	for e := range h.Edges() {
		for _, v := range e[1:] {
			g.SetEdge(g.NewEdge(simple.Node(e[0]), simple.Node(v)))
		}
	}
	return len(topo.ConnectedComponents(g))
}

func TestLCGReferenceSequence(t *testing.T) {
	g := NewLCG(0)
	want := []uint32{1013904223, 1196435762, 3519870697, 2868466484}
	for i, w := range want {
		if got := g.Float64(); got != float64(w)/(1<<32) {
			t.Errorf("draw %d = %v, want %d/2^32", i, got, w)
		}
	}

	// Seeds are taken mod 2^32.
	a, b := NewLCG(7), NewLCG(7+1<<32)
	if a.Float64() != b.Float64() {
		t.Error("seeds equal mod 2^32 should give equal streams")
	}

	for range 1000 {
		if v := g.IntN(10); v < 0 || v >= 10 {
			t.Fatalf("IntN(10) = %d", v)
		}
	}
}

func TestJSFReference(t *testing.T) {
	g := NewJSF(1)
	if got := g.Uint64(); got != 0xa25132f41efa0761 {
		t.Errorf("first Uint64 after warm-up = %#x", got)
	}
	r := rand.New(NewJSF(42))
	for range 1000 {
		if f := r.Float64(); f < 0 || f >= 1 {
			t.Fatalf("Float64() = %v", f)
		}
	}
}

func TestParseStreamKind(t *testing.T) {
	for in, want := range map[string]StreamKind{"": StreamLCG, "LCG": StreamLCG, "jsf": StreamJSF, "chacha8": StreamChaCha8} {
		got, err := ParseStreamKind(in)
		if err != nil || got != want {
			t.Errorf("ParseStreamKind(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseStreamKind("mt19937"); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("unknown stream error = %v", err)
	}
}

func TestDeriveSeed(t *testing.T) {
	secret := []byte("shared secret")
	a, err := DeriveSeed(secret, 6, 3)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := DeriveSeed(secret, 6, 3)
	if a != b {
		t.Error("DeriveSeed is not deterministic")
	}
	if c, _ := DeriveSeed(secret, 6, 4); c == a {
		t.Error("seed does not depend on k")
	}
	if c, _ := DeriveSeed([]byte("other"), 6, 3); c == a {
		t.Error("seed does not depend on the secret")
	}
	if len(a.String()) != 64 {
		t.Errorf("String() = %q", a.String())
	}
	if _, err := DeriveSeed(nil, 6, 3); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("empty secret error = %v", err)
	}
}

func TestGenerateIsConnectedAndDeterministic(t *testing.T) {
	shapes := [][2]int{{5, 3}, {6, 2}, {8, 3}, {9, 4}, {12, 2}}
	for _, kind := range StreamKinds {
		for _, nk := range shapes {
			g := Generator{N: nk[0], K: nk[1], Stream: kind}
			secret := []byte{byte(nk[0]), byte(nk[1]), 0xAB}

			res, err := g.Generate(secret)
			if err != nil {
				t.Fatalf("%s %v: %v", kind, nk, err)
			}
			if n := gonumComponents(res.Key); n != 1 {
				t.Errorf("%s %v: key has %d components", kind, nk, n)
			}
			if !res.Key.Connected() {
				t.Errorf("%s %v: Connected() = false", kind, nk)
			}
			if res.Key.Len() != res.Sampled+len(res.Added) {
				t.Errorf("%s %v: Len %d != sampled %d + added %d", kind, nk, res.Key.Len(), res.Sampled, len(res.Added))
			}

			again, _ := g.Generate(secret)
			if !again.Key.Equal(res.Key) || again.Seed != res.Seed {
				t.Errorf("%s %v: same secret gave different keys", kind, nk)
			}
		}
	}
}

func TestRepairIsSuperset(t *testing.T) {
	// A sparse sample that is certainly disconnected.
	h, _ := hypergraph.FromEdges(10, 3, hypergraph.Edge{0, 1, 2}, hypergraph.Edge{5, 6, 7})
	before := h.Clone()

	added, err := Repair(h, NewLCG(99))
	if err != nil {
		t.Fatal(err)
	}
	if len(added) == 0 {
		t.Fatal("Repair added nothing to a disconnected hypergraph")
	}
	if gonumComponents(h) != 1 {
		t.Error("Repair left the hypergraph disconnected")
	}
	for e := range before.Edges() {
		if !h.Contains(e) {
			t.Errorf("Repair removed %v", e)
		}
	}
	for _, e := range added {
		if before.Contains(e) {
			t.Errorf("Repair re-added existing edge %v", e)
		}
	}
	if h.Len() != before.Len()+len(added) {
		t.Errorf("Len = %d, want %d", h.Len(), before.Len()+len(added))
	}

	// Same stream, same repair.
	h2 := before.Clone()
	added2, _ := Repair(h2, NewLCG(99))
	if !slices.EqualFunc(added, added2, hypergraph.Edge.Equal) {
		t.Error("Repair is not reproducible for a fixed stream")
	}
}

func TestRepairConnectedIsNoop(t *testing.T) {
	h, _ := hypergraph.FromEdges(4, 2, hypergraph.Edge{0, 1}, hypergraph.Edge{1, 2}, hypergraph.Edge{2, 3})
	added, err := Repair(h, NewLCG(1))
	if err != nil || len(added) != 0 {
		t.Errorf("Repair(connected) = %v, %v", added, err)
	}

	single, _ := hypergraph.New(3, 1)
	if _, err := Repair(single, NewLCG(1)); !errs.Is(err, errs.ErrCodeInvalidDimension) {
		t.Errorf("Repair(k=1) error = %v", err)
	}
}

func TestSampleMatchesStream(t *testing.T) {
	g := Generator{N: 7, K: 3}
	res, err := g.Generate([]byte("sample"))
	if err != nil {
		t.Fatal(err)
	}

	stream := NewLCG(res.Seed.Uint64())
	sample, _ := hypergraph.New(7, 3)
	for r := range sample.Cap() {
		if stream.Float64() < 0.5 {
			_ = sample.SetRank(r, true)
		}
	}
	if sample.Len() != res.Sampled {
		t.Fatalf("replayed sample has %d edges, result says %d", sample.Len(), res.Sampled)
	}
	for e := range sample.Edges() {
		if !res.Key.Contains(e) {
			t.Errorf("key lost sampled edge %v", e)
		}
	}
	if got := len(sample.Components()); got != res.InitialComponents {
		t.Errorf("InitialComponents = %d, replay has %d", res.InitialComponents, got)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name string
		g    Generator
		code errs.Code
	}{
		{"k above n", Generator{N: 3, K: 4}, errs.ErrCodeInvalidDimension},
		{"k one", Generator{N: 3, K: 1}, errs.ErrCodeInvalidDimension},
		{"bad stream", Generator{N: 4, K: 2, Stream: "xorshift"}, errs.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		if _, err := tt.g.Generate([]byte{1}); !errs.Is(err, tt.code) {
			t.Errorf("%s: error = %v, want %s", tt.name, err, tt.code)
		}
	}
	if _, err := (&Generator{N: 4, K: 2}).Generate(nil); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("empty secret error = %v", err)
	}
}

func TestDH(t *testing.T) {
	// RFC 3526 would be realistic; a small prime keeps the test fast.
	dh, err := NewDH(big.NewInt(5), big.NewInt(2147483647))
	if err != nil {
		t.Fatal(err)
	}
	rng := bytes.NewReader(bytes.Repeat([]byte{0x5a, 0x13, 0xc7, 0x2e}, 64))

	a, err := dh.NewPrivate(rng)
	if err != nil {
		t.Fatal(err)
	}
	b, err := dh.NewPrivate(rng)
	if err != nil {
		t.Fatal(err)
	}
	ka, err := dh.Shared(a, dh.Public(b))
	if err != nil {
		t.Fatal(err)
	}
	kb, err := dh.Shared(b, dh.Public(a))
	if err != nil {
		t.Fatal(err)
	}
	if ka.Cmp(kb) != 0 {
		t.Errorf("shared secrets differ: %s vs %s", ka, kb)
	}

	if _, err := dh.Shared(a, big.NewInt(1)); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("trivial peer error = %v", err)
	}
	if _, err := NewDH(big.NewInt(9), big.NewInt(7)); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("generator above modulus error = %v", err)
	}
	if k, err := dh.Exchange(nil); err != nil || k.Sign() <= 0 {
		t.Errorf("Exchange() = %v, %v", k, err)
	}
}

func TestTransformerFunc(t *testing.T) {
	key, _ := hypergraph.FromEdges(3, 2, hypergraph.Edge{0, 1})
	var xor Transformer = TransformerFunc(func(key *hypergraph.Hypergraph, _ int, _ Mode, _ Direction, _, buf []byte) error {
		for i := range buf {
			buf[i] ^= byte(key.Len())
		}
		return nil
	})

	buf := []byte{1, 2, 3}
	_ = xor.Transform(key, 1, ModeECB, Encrypt, nil, buf)
	_ = xor.Transform(key, 1, ModeECB, Decrypt, nil, buf)
	if !bytes.Equal(buf, []byte{1, 2, 3}) {
		t.Errorf("round trip = %v", buf)
	}
	if Decrypt.String() != "decrypt" {
		t.Errorf("Decrypt.String() = %q", Decrypt.String())
	}
}
