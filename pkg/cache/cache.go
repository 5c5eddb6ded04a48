// Package cache provides byte caches used to memoize pipeline stages:
// parsed catalogs, composed scenes, and converted artifacts.
//
// Backends: [FileCache] for CLI usage, [RedisCache] for the preview
// server, and [NullCache] to disable caching. Keys are produced by a
// [Keyer] so every backend sees the same namespace layout.
package cache

import (
	"context"
	"time"
)

// Default TTLs per stage. Catalog entries change when files change and
// are keyed by content hash, so they can live long; artifacts are
// cheap to rebuild from a cached scene.
const (
	CatalogTTL  = 24 * time.Hour
	SceneTTL    = 12 * time.Hour
	ArtifactTTL = 6 * time.Hour
)

// Cache is a byte store with per-entry TTL. A zero TTL means no
// expiration. Get reports a miss with found=false and a nil error;
// errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, found bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// SceneKeyOpts captures every input that changes a composed scene.
type SceneKeyOpts struct {
	Theme      string
	Zoom       float64
	Views      []string
	Projection bool
	Legend     bool
	Labels     bool
}

// ArtifactKeyOpts captures conversion parameters for rendered output.
type ArtifactKeyOpts struct {
	Format string // "svg", "json", "png", "pdf"
	Scale  float64
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// CatalogKey keys a parsed catalog by the content hash of its
	// source files.
	CatalogKey(contentHash string) string
	// SceneKey keys a composed scene by the rack content hash and the
	// compose options.
	SceneKey(rackHash string, opts SceneKeyOpts) string
	// ArtifactKey keys converted output by the scene hash and format.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes all key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

func (k *DefaultKeyer) CatalogKey(contentHash string) string {
	return hashKey("catalog", contentHash)
}

func (k *DefaultKeyer) SceneKey(rackHash string, opts SceneKeyOpts) string {
	return hashKey("scene", rackHash, opts)
}

func (k *DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneHash, opts)
}
