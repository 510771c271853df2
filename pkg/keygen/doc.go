// Package keygen derives hypergraph key material from a shared secret.
//
// Two parties holding the same secret (for example from the [DH] exchange)
// run the same [Generator] and obtain the same connected k-uniform
// hypergraph, which a block cipher ([Transformer]) then uses as its key
// schedule.
//
// # Derivation
//
//  1. The secret is expanded into a 256-bit [Seed] with HKDF-SHA256; the
//     info string binds n and k.
//  2. The seed keys a deterministic [Stream]. The reference stream is a
//     32-bit LCG; JSF and ChaCha8 are alternatives.
//  3. Each of the C(n, k) possible edges is kept with probability 1/2, in
//     rank order.
//  4. A disjoint-set union over the vertices merges the members of every
//     kept edge.
//  5. While more than one component remains, [Repair] draws ranks from
//     the same stream, skips those already present and adds the rest.
//
// Because repair reuses the seeded stream, the whole derivation is
// reproducible. The streams are not cryptographically strong; the security
// of the scheme rests on the secret, not on the generator.
package keygen
