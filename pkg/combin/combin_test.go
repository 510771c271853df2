package combin

import (
	"math/big"
	"testing"

	gonum "gonum.org/v1/gonum/stat/combin"

	errs "github.com/matzehuels/hyperkey/pkg/errors"
)

func TestFactorial(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "1"},
		{1, "1"},
		{5, "120"},
		{25, "15511210043330985984000000"},
	}

	for _, tt := range tests {
		got, err := Factorial(tt.n)
		if err != nil {
			t.Fatalf("Factorial(%d) error: %v", tt.n, err)
		}
		if got.String() != tt.want {
			t.Errorf("Factorial(%d) = %s, want %s", tt.n, got, tt.want)
		}
	}

	if _, err := Factorial(-1); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("Factorial(-1) error = %v, want INVALID_INPUT", err)
	}
}

func TestBinomialMatchesGonum(t *testing.T) {
	for n := 0; n <= 30; n++ {
		for k := 0; k <= n; k++ {
			want := gonum.Binomial(n, k)
			if got := Binomial(n, k); got.Int64() != int64(want) {
				t.Errorf("Binomial(%d, %d) = %s, want %d", n, k, got, want)
			}
		}
	}
}

func TestBinomialOutsideDomain(t *testing.T) {
	for _, tt := range [][2]int{{3, 4}, {3, -1}, {-2, 1}} {
		if got := Binomial(tt[0], tt[1]); got.Sign() != 0 {
			t.Errorf("Binomial(%d, %d) = %s, want 0", tt[0], tt[1], got)
		}
	}
}

func TestBinomialInt(t *testing.T) {
	if got, ok := BinomialInt(10, 3); !ok || got != 120 {
		t.Errorf("BinomialInt(10, 3) = %d, %v", got, ok)
	}
	if _, ok := BinomialInt(200, 100); ok {
		t.Error("BinomialInt(200, 100) should not fit in an int")
	}
}

func TestGCDLCM(t *testing.T) {
	tests := []struct {
		a, b     int64
		gcd, lcm int64
	}{
		{12, 18, 6, 36},
		{-4, 6, 2, 12},
		{7, 13, 1, 91},
		{0, 5, 5, 0},
		{0, 0, 0, 0},
	}

	for _, tt := range tests {
		a, b := big.NewInt(tt.a), big.NewInt(tt.b)
		if got := GCD(a, b); got.Int64() != tt.gcd {
			t.Errorf("GCD(%d, %d) = %s, want %d", tt.a, tt.b, got, tt.gcd)
		}
		if got := LCM(a, b); got.Int64() != tt.lcm {
			t.Errorf("LCM(%d, %d) = %s, want %d", tt.a, tt.b, got, tt.lcm)
		}
	}
}
