package combin

import (
	"math"
	"math/big"

	errs "github.com/matzehuels/hyperkey/pkg/errors"
)

// Factorial returns n! as an arbitrary-precision integer.
// Factorial(0) is 1. Negative n fails with INVALID_INPUT.
func Factorial(n int) (*big.Int, error) {
	if err := errs.RequireNonNegative("n", n); err != nil {
		return nil, err
	}
	return new(big.Int).MulRange(1, int64(n)), nil
}

// Binomial returns C(n, k), the number of k-element subsets of an n-element
// set. It is zero when k < 0, k > n or n < 0.
func Binomial(n, k int) *big.Int {
	if n < 0 || k < 0 || k > n {
		return new(big.Int)
	}
	return new(big.Int).Binomial(int64(n), int64(k))
}

// BinomialInt returns C(n, k) as an int and reports whether it fits.
func BinomialInt(n, k int) (int, bool) {
	b := Binomial(n, k)
	if !b.IsInt64() || b.Int64() > math.MaxInt {
		return 0, false
	}
	return int(b.Int64()), true
}

// GCD returns the greatest common divisor of |a| and |b|. GCD(0, 0) is 0.
func GCD(a, b *big.Int) *big.Int {
	x := new(big.Int).Abs(a)
	y := new(big.Int).Abs(b)
	return new(big.Int).GCD(nil, nil, x, y)
}

// LCM returns the least common multiple of |a| and |b|.
// LCM is zero when either argument is zero.
func LCM(a, b *big.Int) *big.Int {
	if a.Sign() == 0 || b.Sign() == 0 {
		return new(big.Int)
	}
	prod := new(big.Int).Mul(a, b)
	prod.Abs(prod)
	return prod.Quo(prod, GCD(a, b))
}
