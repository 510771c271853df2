package keygen

import (
	"crypto/rand"
	"io"
	"math/big"

	errs "github.com/matzehuels/hyperkey/pkg/errors"
)

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// DH is finite-field Diffie-Hellman over the group generated by G modulo
// P. It only performs the modular exponentiations; choosing safe
// parameters is the caller's business.
type DH struct {
	G, P *big.Int
}

// NewDH returns DH parameters after checking P > 3 and 1 < G < P.
func NewDH(g, p *big.Int) (*DH, error) {
	if g == nil || p == nil {
		return nil, errs.New(errs.ErrCodeInvalidInput, "generator and modulus are required")
	}
	if p.Cmp(big.NewInt(3)) <= 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "modulus %s must exceed 3", p)
	}
	if g.Cmp(one) <= 0 || g.Cmp(p) >= 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "generator %s not in (1, %s)", g, p)
	}
	return &DH{G: g, P: p}, nil
}

// NewPrivate draws a private exponent uniformly from [1, P-2] using r, or
// crypto/rand when r is nil.
func (dh *DH) NewPrivate(r io.Reader) (*big.Int, error) {
	if r == nil {
		r = rand.Reader
	}
	x, err := rand.Int(r, new(big.Int).Sub(dh.P, two))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "draw private exponent")
	}
	return x.Add(x, one), nil
}

// Public returns G^priv mod P.
func (dh *DH) Public(priv *big.Int) *big.Int {
	return new(big.Int).Exp(dh.G, priv, dh.P)
}

// Shared returns peer^priv mod P. It fails with INVALID_INPUT unless
// 1 < peer < P-1, which rejects the trivial subgroup.
func (dh *DH) Shared(priv, peer *big.Int) (*big.Int, error) {
	pm1 := new(big.Int).Sub(dh.P, one)
	if peer.Cmp(one) <= 0 || peer.Cmp(pm1) >= 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "peer public value %s not in (1, %s)", peer, pm1)
	}
	return new(big.Int).Exp(peer, priv, dh.P), nil
}

// maxExchangeAttempts bounds redraws in Exchange for generators of tiny
// order.
const maxExchangeAttempts = 64

// Exchange runs both sides of an exchange locally and returns the agreed
// secret. It is a convenience for demos and tests.
func (dh *DH) Exchange(r io.Reader) (*big.Int, error) {
	for range maxExchangeAttempts {
		a, err := dh.NewPrivate(r)
		if err != nil {
			return nil, err
		}
		b, err := dh.NewPrivate(r)
		if err != nil {
			return nil, err
		}
		k, err := dh.Shared(a, dh.Public(b))
		if errs.Is(err, errs.ErrCodeInvalidInput) {
			// b landed in a trivial subgroup; draw again.
			continue
		}
		return k, err
	}
	return nil, errs.New(errs.ErrCodeInvalidInput, "generator %s only reaches trivial public values mod %s", dh.G, dh.P)
}
