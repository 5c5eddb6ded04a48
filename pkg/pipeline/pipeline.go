// Package pipeline provides the core rendering pipeline for rackviz.
//
// This package implements the complete load → compose → render pipeline
// that can be used by CLI and server components. By centralizing this
// logic, we ensure consistent behavior across all entry points and avoid
// code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Parse the device type catalog and the rack definition
//  2. Compose: Build the drawing scene (geometry, ports, labels, legend)
//  3. Render: Serialize the scene to output formats (SVG, PNG, PDF, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    CatalogDir: "catalog/",
//	    RackFile:   "racks/row-a-01.yaml",
//	    Formats:    []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Load only
//	rk, cat, err := runner.Load(ctx, opts)
//
//	// Compose with existing inputs
//	scene, err := runner.Compose(ctx, rk, cat, opts)
//
//	// Render an existing scene
//	artifacts, err := runner.Render(ctx, scene, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rackworks/rackviz/pkg/cache"
	"github.com/rackworks/rackviz/pkg/rack"
	"github.com/rackworks/rackviz/pkg/render/elevation"
	"github.com/rackworks/rackviz/pkg/render/elevation/styles"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultZoom is the default scale factor for composed scenes.
	DefaultZoom = 1.0

	// DefaultScale is the default supersampling factor for PNG output.
	DefaultScale = 2.0
)

// DefaultTheme is the default color theme name.
var DefaultTheme = styles.DefaultTheme().Name

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ValidViews is the set of supported view faces.
var ValidViews = map[string]bool{
	string(rack.FaceFront): true,
	string(rack.FaceRear):  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the rendering pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	CatalogDir string `json:"catalog_dir,omitempty"`
	RackFile   string `json:"rack_file,omitempty"`
	Refresh    bool   `json:"refresh,omitempty"`

	// Compose options
	Theme      string   `json:"theme,omitempty"`
	Zoom       float64  `json:"zoom,omitempty"`
	Views      []string `json:"views,omitempty"` // Face order; empty = front (+rear when the rack requests it)
	Projection bool     `json:"projection,omitempty"`
	Legend     bool     `json:"legend,omitempty"`
	NoLabels   bool     `json:"no_labels,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Scale   float64  `json:"scale,omitempty"` // PNG supersampling factor

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Rack is the loaded, validated rack definition.
	Rack *rack.Rack

	// Catalog is the loaded device type catalog.
	Catalog *rack.Catalog

	// RackHash is the content hash of the rack definition.
	RackHash string

	// Scene is the composed drawing scene.
	Scene *elevation.Scene

	// SceneHash is the content hash of the composed scene.
	SceneHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	DeviceCount  int
	ElementCount int
	LoadTime     time.Duration
	ComposeTime  time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	CatalogHit bool // Whether the parsed catalog came from cache
	SceneHit   bool // Whether the composed scene came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateTheme checks that a theme name is valid.
func ValidateTheme(theme string) error {
	_, err := styles.ThemeByName(theme)
	return err
}

// ValidateViews checks that all view faces are valid.
func ValidateViews(views []string) error {
	for _, v := range views {
		if !ValidViews[v] {
			return fmt.Errorf("invalid view: %q (must be one of: front, rear)", v)
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForCompose(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for loading.
func (o *Options) ValidateForLoad() error {
	if o.CatalogDir == "" {
		return fmt.Errorf("catalog_dir is required")
	}
	if o.RackFile == "" {
		return fmt.Errorf("rack_file is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetComposeDefaults sets default values for scene composition.
func (o *Options) SetComposeDefaults() {
	if o.Theme == "" {
		o.Theme = DefaultTheme
	}
	if o.Zoom == 0 {
		o.Zoom = DefaultZoom
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForCompose validates and sets defaults for scene composition.
func (o *Options) ValidateForCompose() error {
	o.SetComposeDefaults()
	if o.Zoom < 0 {
		return fmt.Errorf("invalid zoom: %g (must be positive)", o.Zoom)
	}
	if err := ValidateTheme(o.Theme); err != nil {
		return err
	}
	return ValidateViews(o.Views)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if o.Scale < 0 {
		return fmt.Errorf("invalid scale: %g (must be positive)", o.Scale)
	}
	return ValidateFormats(o.Formats)
}

// ComposeOptions translates pipeline options into elevation compose options.
func (o *Options) ComposeOptions() ([]elevation.Option, error) {
	theme, err := styles.ThemeByName(o.Theme)
	if err != nil {
		return nil, err
	}

	opts := []elevation.Option{
		elevation.WithTheme(theme),
		elevation.WithZoom(o.Zoom),
	}
	if len(o.Views) > 0 {
		faces := make([]rack.Face, len(o.Views))
		for i, v := range o.Views {
			faces[i] = rack.Face(v)
		}
		opts = append(opts, elevation.WithViews(faces...))
	}
	if o.Projection {
		opts = append(opts, elevation.WithProjection())
	}
	if o.Legend {
		opts = append(opts, elevation.WithLegend())
	}
	if o.NoLabels {
		opts = append(opts, elevation.WithoutLabels())
	}
	return opts, nil
}

// SceneKeyOpts returns cache key options for scene composition.
func (o *Options) SceneKeyOpts() cache.SceneKeyOpts {
	return cache.SceneKeyOpts{
		Theme:      o.Theme,
		Zoom:       o.Zoom,
		Views:      o.Views,
		Projection: o.Projection,
		Legend:     o.Legend,
		Labels:     !o.NoLabels,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	if format == FormatPNG {
		opts.Scale = o.Scale
	}
	return opts
}
