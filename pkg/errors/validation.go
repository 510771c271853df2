package errors

// Precondition checks. Each returns nil or a single typed *Error; callers
// chain them with ordinary if-statements.

// RequirePositive fails with INVALID_INPUT unless v > 0.
func RequirePositive(name string, v int) error {
	if v <= 0 {
		return New(ErrCodeInvalidInput, "%s must be positive, got %d", name, v)
	}
	return nil
}

// RequireNonNegative fails with INVALID_INPUT unless v >= 0.
func RequireNonNegative(name string, v int) error {
	if v < 0 {
		return New(ErrCodeInvalidInput, "%s must not be negative, got %d", name, v)
	}
	return nil
}

// RequireIndex fails with OUT_OF_RANGE unless 0 <= i < n.
func RequireIndex(name string, i, n int) error {
	if i < 0 || i >= n {
		return New(ErrCodeOutOfRange, "%s %d not in [0, %d)", name, i, n)
	}
	return nil
}

// RequireDimension fails with INVALID_DIMENSION unless n >= 1 and
// minK <= k <= n.
func RequireDimension(n, k, minK int) error {
	if n <= 0 {
		return New(ErrCodeInvalidDimension, "vertex count must be positive, got %d", n)
	}
	if k < minK {
		return New(ErrCodeInvalidDimension, "edge dimension must be at least %d, got %d", minK, k)
	}
	if k > n {
		return New(ErrCodeInvalidDimension, "edge dimension %d exceeds vertex count %d", k, n)
	}
	return nil
}

// RequireNotEmpty fails with INVALID_INPUT when the slice is empty.
func RequireNotEmpty[T any](name string, s []T) error {
	if len(s) == 0 {
		return New(ErrCodeInvalidInput, "%s cannot be empty", name)
	}
	return nil
}

// RequireStrictlyIncreasing fails with INVALID_EDGE unless every member of
// vs lies in [0, n) and vs is sorted without duplicates.
func RequireStrictlyIncreasing(vs []int, n int) error {
	for i, v := range vs {
		if v < 0 || v >= n {
			return New(ErrCodeInvalidEdge, "vertex %d not in [0, %d)", v, n)
		}
		if i > 0 && vs[i-1] >= v {
			return New(ErrCodeInvalidEdge, "vertices must be distinct, got %v", vs)
		}
	}
	return nil
}
