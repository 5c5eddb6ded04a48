package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rackworks/rackviz/pkg/cache"
	"github.com/rackworks/rackviz/pkg/observability"
	"github.com/rackworks/rackviz/pkg/rack"
	"github.com/rackworks/rackviz/pkg/render/elevation"
	"github.com/rackworks/rackviz/pkg/render/elevation/sink"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → compose → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	observability.Pipeline().OnLoadStart(ctx, opts.RackFile)
	rk, cat, catalogHit, err := r.LoadWithCacheInfo(ctx, opts)
	loadTime := time.Since(loadStart)
	if err != nil {
		observability.Pipeline().OnLoadComplete(ctx, opts.RackFile, 0, loadTime, err)
		return nil, fmt.Errorf("load: %w", err)
	}
	observability.Pipeline().OnLoadComplete(ctx, opts.RackFile, len(rk.Devices), loadTime, nil)
	result.Rack = rk
	result.Catalog = cat
	result.Stats.LoadTime = loadTime
	result.Stats.DeviceCount = len(rk.Devices)
	result.CacheInfo.CatalogHit = catalogHit

	// Compute rack hash for cache keys and API responses
	if rackData, err := json.Marshal(rk); err == nil {
		result.RackHash = cache.Hash(rackData)
	}

	r.Logger.Info("loaded rack",
		"rack", rk.Name,
		"devices", len(rk.Devices),
		"device_types", cat.Len(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Compose
	composeStart := time.Now()
	observability.Pipeline().OnComposeStart(ctx, rk.Name, len(rk.Devices))
	scene, sceneHit, err := r.ComposeWithCacheInfo(ctx, rk, cat, opts)
	composeTime := time.Since(composeStart)
	if err != nil {
		observability.Pipeline().OnComposeComplete(ctx, rk.Name, 0, composeTime, err)
		return nil, fmt.Errorf("compose: %w", err)
	}
	observability.Pipeline().OnComposeComplete(ctx, rk.Name, len(scene.Elements), composeTime, nil)
	result.Scene = scene
	result.Stats.ComposeTime = composeTime
	result.Stats.ElementCount = len(scene.Elements)
	result.CacheInfo.SceneHit = sceneHit

	if sceneData, err := sink.RenderJSON(scene); err == nil {
		result.SceneHash = cache.Hash(sceneData)
	}

	r.Logger.Info("composed scene",
		"elements", len(scene.Elements),
		"duration", result.Stats.ComposeTime)

	// Stage 3: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, scene, opts)
	renderTime := time.Since(renderStart)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, renderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = renderTime
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadWithCacheInfo loads the catalog and rack with catalog caching and
// returns cache hit info. The rack is validated against the catalog.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (*rack.Rack, *rack.Catalog, bool, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, nil, false, err
	}
	r.applyLogger(&opts)

	cat, catalogHit, err := r.loadCatalog(ctx, opts)
	if err != nil {
		return nil, nil, false, err
	}

	rk, err := rack.LoadRackFile(opts.RackFile)
	if err != nil {
		return nil, nil, false, err
	}
	if err := rk.Validate(cat); err != nil {
		return nil, nil, false, err
	}

	return rk, cat, catalogHit, nil
}

// Load is a convenience wrapper that calls LoadWithCacheInfo and discards the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) (*rack.Rack, *rack.Catalog, error) {
	rk, cat, _, err := r.LoadWithCacheInfo(ctx, opts)
	return rk, cat, err
}

// loadCatalog loads the device type catalog, keyed by the content hash
// of every YAML file under the catalog directory.
func (r *Runner) loadCatalog(ctx context.Context, opts Options) (*rack.Catalog, bool, error) {
	contentHash, err := hashCatalogDir(opts.CatalogDir)
	if err != nil {
		return nil, false, err
	}
	cacheKey := r.Keyer.CatalogKey(contentHash)

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cat, err := unmarshalCatalog(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "catalog")
				return cat, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "catalog")
	}

	cat, err := rack.LoadCatalogDir(opts.CatalogDir)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(cat.Types()); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.CatalogTTL)
		observability.Cache().OnCacheSet(ctx, "catalog", len(data))
	}

	return cat, false, nil
}

// ComposeWithCacheInfo composes the scene with caching and returns cache hit info.
func (r *Runner) ComposeWithCacheInfo(ctx context.Context, rk *rack.Rack, cat *rack.Catalog, opts Options) (*elevation.Scene, bool, error) {
	if err := opts.ValidateForCompose(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key
	rackData, err := json.Marshal(rk)
	if err != nil {
		return nil, false, fmt.Errorf("serialize rack for cache key: %w", err)
	}
	rackHash := cache.Hash(rackData)
	cacheKey := r.Keyer.SceneKey(rackHash, opts.SceneKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if scene, err := sink.ParseScene(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "scene")
				return scene, true, nil
			}
			// If deserialization fails, fall through to recompose
		}
		observability.Cache().OnCacheMiss(ctx, "scene")
	}

	composeOpts, err := opts.ComposeOptions()
	if err != nil {
		return nil, false, err
	}
	scene, err := elevation.Compose(rk, cat, composeOpts...)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if data, err := sink.RenderJSON(scene); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.SceneTTL)
		observability.Cache().OnCacheSet(ctx, "scene", len(data))
	}

	return scene, false, nil
}

// Compose is a convenience wrapper that calls ComposeWithCacheInfo and discards the cache hit info.
func (r *Runner) Compose(ctx context.Context, rk *rack.Rack, cat *rack.Catalog, opts Options) (*elevation.Scene, error) {
	scene, _, err := r.ComposeWithCacheInfo(ctx, rk, cat, opts)
	return scene, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, scene *elevation.Scene, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from scene data
	sceneData, err := sink.RenderJSON(scene)
	if err != nil {
		return nil, false, fmt.Errorf("serialize scene for cache key: %w", err)
	}
	sceneHash := cache.Hash(sceneData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	// Render all formats
	rendered := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(scene, format, opts.Scale)
		if err != nil {
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		rendered[format] = data
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.ArtifactTTL)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, scene *elevation.Scene, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, scene, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// renderFormat serializes the scene to a single output format.
func renderFormat(scene *elevation.Scene, format string, scale float64) ([]byte, error) {
	switch format {
	case FormatSVG:
		return sink.RenderSVG(scene), nil
	case FormatJSON:
		return sink.RenderJSON(scene)
	case FormatPNG:
		return sink.RenderPNG(scene, sink.WithScale(scale))
	case FormatPDF:
		return sink.RenderPDF(scene)
	default:
		return nil, fmt.Errorf("invalid format: %q", format)
	}
}

// hashCatalogDir hashes every YAML file under dir, path and content,
// in lexical walk order. The hash changes when any definition file is
// added, removed, renamed, or edited.
func hashCatalogDir(dir string) (string, error) {
	var buf bytes.Buffer
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isYAMLPath(path) {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		buf.WriteString(path)
		buf.WriteByte(0)
		buf.Write(data)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("hash catalog dir: %w", err)
	}
	return cache.Hash(buf.Bytes()), nil
}

func isYAMLPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// unmarshalCatalog rebuilds a catalog from its cached device type list.
func unmarshalCatalog(data []byte) (*rack.Catalog, error) {
	var types []rack.DeviceType
	if err := json.Unmarshal(data, &types); err != nil {
		return nil, err
	}
	cat := rack.NewCatalog()
	for _, dt := range types {
		if err := cat.Add(dt); err != nil {
			return nil, err
		}
	}
	return cat, nil
}
