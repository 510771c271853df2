package keygen

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hyperkey/pkg/dsu"
	errs "github.com/matzehuels/hyperkey/pkg/errors"
	"github.com/matzehuels/hyperkey/pkg/hypergraph"
)

// Generator derives connected k-uniform hypergraphs on N vertices from
// shared secrets.
type Generator struct {
	N, K   int
	Stream StreamKind  // empty selects StreamLCG
	Logger *log.Logger // optional
}

// Result is a generated key and how it was obtained.
type Result struct {
	Key  *hypergraph.Hypergraph
	Seed Seed

	Sampled           int               // edges kept by the initial sample
	InitialComponents int               // components after sampling
	Added             []hypergraph.Edge // edges added by repair, in order
}

// Generate derives the key for secret. Equal secrets and configurations
// always give equal keys.
//
// Every one of the C(N, K) possible edges is kept independently with
// probability 1/2, in rank order. If the sample leaves the vertex set
// disconnected, Repair adds absent edges drawn from the same stream until
// it is connected.
func (g *Generator) Generate(secret []byte) (*Result, error) {
	if err := errs.RequireDimension(g.N, g.K, 2); err != nil {
		return nil, err
	}
	seed, err := DeriveSeed(secret, g.N, g.K)
	if err != nil {
		return nil, err
	}
	stream, err := NewStream(g.Stream, seed)
	if err != nil {
		return nil, err
	}
	h, err := hypergraph.New(g.N, g.K)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	for rank := range h.Cap() {
		if stream.Float64() < 0.5 {
			_ = h.SetRank(rank, true)
		}
	}
	res := &Result{Key: h, Seed: seed, Sampled: h.Len()}

	d := components(h)
	res.InitialComponents = d.Count()
	added, err := repair(h, d, stream)
	if err != nil {
		return nil, err
	}
	res.Added = added

	if g.Logger != nil {
		for _, e := range added {
			g.Logger.Debug("repair edge", "edge", e.String())
		}
		g.Logger.Debug("key generated",
			"n", g.N, "k", g.K,
			"stream", string(orLCG(g.Stream)),
			"sampled", res.Sampled,
			"components", res.InitialComponents,
			"added", len(added),
			"duration", time.Since(start))
	}
	return res, nil
}

func orLCG(k StreamKind) StreamKind {
	if k == "" {
		return StreamLCG
	}
	return k
}

// components unions the members of every edge of h, pivoting on the
// smallest member.
func components(h *hypergraph.Hypergraph) *dsu.DSU {
	d := dsu.New(h.N())
	for e := range h.Edges() {
		d.UnionAll(e)
	}
	return d
}

// Repair makes h connected by adding absent edges chosen uniformly by
// rank from stream, and returns the added edges. Edges are only ever
// added. It fails with INVALID_DIMENSION when h has single-vertex edges
// and more than one vertex, since such a hypergraph can never connect.
func Repair(h *hypergraph.Hypergraph, stream Stream) ([]hypergraph.Edge, error) {
	return repair(h, components(h), stream)
}

func repair(h *hypergraph.Hypergraph, d *dsu.DSU, stream Stream) ([]hypergraph.Edge, error) {
	if d.Count() > 1 && h.K() < 2 {
		return nil, errs.New(errs.ErrCodeInvalidDimension, "edges of size %d cannot connect %d vertices", h.K(), h.N())
	}
	var added []hypergraph.Edge
	for d.Count() > 1 {
		rank := stream.IntN(h.Cap())
		if h.ContainsRank(rank) {
			continue
		}
		_ = h.SetRank(rank, true)
		e, _ := h.Indexer().RankToSubset(rank)
		d.UnionAll(e)
		added = append(added, e)
	}
	return added, nil
}
