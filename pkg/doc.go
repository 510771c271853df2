// Package pkg provides the core libraries for hyperkey.
//
// # Overview
//
// Hyperkey works with k-uniform hypergraphs on n labelled vertices. It
// answers two questions:
//
//  1. Which hypergraphs have a given degree sequence? [realize] lists them
//     all, lazily and in a canonical order.
//  2. How do two parties who share a secret agree on a hypergraph? [keygen]
//     derives a connected one from the secret deterministically.
//
// # Architecture
//
// The typical data flow through hyperkey:
//
//	degree sequence + k                 shared secret + (n, k)
//	         ↓                                   ↓
//	    [realize] backtracking search       [keygen] seeded sample + repair
//	         ↓                                   ↓
//	         └──────── [hypergraph] ─────────────┘
//	                        ↓
//	           [io] JSON · DOT · SVG ([pipeline] caches and instruments)
//
// # Quick Start
//
// List the perfect matchings of K4:
//
//	seq, _ := realize.All([]int{1, 1, 1, 1}, 2)
//	for h := range seq {
//	    fmt.Println(h) // {0, 1} {2, 3}, then {0, 2} {1, 3}, then {0, 3} {1, 2}
//	}
//
// Derive a key:
//
//	gen := keygen.Generator{N: 8, K: 3}
//	res, _ := gen.Generate(secret)
//	fmt.Println(res.Key.Connected()) // true
//
// # Main Packages
//
// ## Core Domain Logic
//
// [combin] - Binomial coefficients and the combinatorial number system.
// [combin.Indexer] maps k-subsets of {0..n-1} to ranks in [0, C(n,k)) and
// back, in lexicographic order.
//
// [hypergraph] - A k-uniform hypergraph stored as a bitmap over edge ranks,
// plus [hypergraph.DegreeVector] for degree bookkeeping.
//
// [dsu] - Disjoint-set union with union by rank and path compression.
//
// [realize] - Enumeration of all hypergraphs with a prescribed degree
// sequence. Recursive and iterative strategies produce identical output;
// both honor context cancellation.
//
// [keygen] - Shared secret to stream seed (HKDF-SHA256), keystreams (LCG,
// JSF, ChaCha8), sampling with connectivity repair, and a small
// Diffie-Hellman helper.
//
// ## Infrastructure
//
// [pipeline] - Realization, key generation and rendering behind one
// [pipeline.Runner] used by both the CLI and the HTTP API.
//
// [cache] - Result cache with file, Redis and MongoDB backends.
//
// [config] - TOML or YAML configuration with environment overrides.
//
// [errors] - Coded errors grouped into precondition, infeasible, underflow
// and cancelled categories.
//
// [observability] and [metrics] - Hook interfaces and their Prometheus
// implementation.
//
// ## Serialization
//
// [io] - The JSON hypergraph document {"vertices", "dimension", "edges"}.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/realize/...            # Specific package
//	go test -run Example ./pkg/...       # Examples only
//
// Redis and MongoDB cache tests run when HYPERKEY_TEST_REDIS_URL or
// HYPERKEY_TEST_MONGO_URI is set.
//
// [combin]: https://pkg.go.dev/github.com/matzehuels/hyperkey/pkg/combin
// [combin.Indexer]: https://pkg.go.dev/github.com/matzehuels/hyperkey/pkg/combin#Indexer
// [hypergraph]: https://pkg.go.dev/github.com/matzehuels/hyperkey/pkg/hypergraph
// [hypergraph.DegreeVector]: https://pkg.go.dev/github.com/matzehuels/hyperkey/pkg/hypergraph#DegreeVector
// [dsu]: https://pkg.go.dev/github.com/matzehuels/hyperkey/pkg/dsu
// [realize]: https://pkg.go.dev/github.com/matzehuels/hyperkey/pkg/realize
// [keygen]: https://pkg.go.dev/github.com/matzehuels/hyperkey/pkg/keygen
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/hyperkey/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/hyperkey/pkg/pipeline#Runner
// [cache]: https://pkg.go.dev/github.com/matzehuels/hyperkey/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/hyperkey/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/hyperkey/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/hyperkey/pkg/observability
// [metrics]: https://pkg.go.dev/github.com/matzehuels/hyperkey/pkg/metrics
// [io]: https://pkg.go.dev/github.com/matzehuels/hyperkey/pkg/io
package pkg
