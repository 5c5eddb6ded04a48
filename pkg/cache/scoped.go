package cache

// ScopedKeyer wraps a Keyer with a prefix so multiple projects can
// share one cache backend without key collisions.
//
// Example usage:
//
//	// Per-project keys on a shared Redis
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "site-ams1:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// CatalogKey generates a prefixed key for catalog caching.
func (k *ScopedKeyer) CatalogKey(contentHash string) string {
	return k.prefix + k.inner.CatalogKey(contentHash)
}

// SceneKey generates a prefixed key for scene caching.
func (k *ScopedKeyer) SceneKey(rackHash string, opts SceneKeyOpts) string {
	return k.prefix + k.inner.SceneKey(rackHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(sceneHash, opts)
}
