package cache

// ScopedKeyer prefixes every key of an inner Keyer, giving each deployment
// or tenant its own namespace in a shared backend:
//
//	keyer := cache.NewScopedKeyer(nil, "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or a DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// RealizationKey returns the prefixed inner key.
func (k *ScopedKeyer) RealizationKey(degrees []int, dim int, opts RealizationKeyOpts) string {
	return k.prefix + k.inner.RealizationKey(degrees, dim, opts)
}

// RenderKey returns the prefixed inner key.
func (k *ScopedKeyer) RenderKey(graphHash, format string) string {
	return k.prefix + k.inner.RenderKey(graphHash, format)
}
