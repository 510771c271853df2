package keygen

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	errs "github.com/matzehuels/hyperkey/pkg/errors"
)

// Seed is the 256-bit seed of a generation stream.
type Seed [32]byte

// seedInfo binds derived seeds to the hypergraph shape, so one secret
// yields unrelated streams for different (n, k).
const seedInfo = "hyperkey/keygen/v1 n=%d k=%d"

// DeriveSeed expands a shared secret into a stream seed with HKDF-SHA256.
// The secret is opaque; any byte encoding agreed by both parties works.
func DeriveSeed(secret []byte, n, k int) (Seed, error) {
	var s Seed
	if err := errs.RequireNotEmpty("shared secret", secret); err != nil {
		return s, err
	}
	r := hkdf.New(sha256.New, secret, nil, fmt.Appendf(nil, seedInfo, n, k))
	if _, err := io.ReadFull(r, s[:]); err != nil {
		return s, errs.Wrap(errs.ErrCodeInternal, err, "derive seed")
	}
	return s, nil
}

// Uint64 returns the first eight bytes of the seed, little endian.
func (s Seed) Uint64() uint64 {
	return binary.LittleEndian.Uint64(s[:8])
}

// String returns the seed in hex.
func (s Seed) String() string {
	return hex.EncodeToString(s[:])
}
