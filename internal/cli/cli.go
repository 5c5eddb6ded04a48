// Package cli implements the rackviz command-line interface.
//
// This package provides commands for validating rack definitions,
// rendering elevation diagrams, exporting cabling topology, browsing
// the device type catalog, running the preview server, and managing
// the render cache. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - render: Generate SVG, PNG, PDF, or JSON elevation diagrams
//   - validate: Check a rack definition against the catalog
//   - topology: Export the cabling graph via Graphviz
//   - catalog: List or interactively browse device types
//   - serve: Run the preview server
//   - cache: Manage the render cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers
// are passed through context.Context so command helpers share one
// configured logger.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/rackworks/rackviz/pkg/buildinfo"
	"github.com/rackworks/rackviz/pkg/cache"
	"github.com/rackworks/rackviz/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "rackviz"

	// defaultCatalogDir is where device type definitions are looked up
	// when --catalog is not given.
	defaultCatalogDir = "catalog"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "rackviz",
		Short:        "Rackviz renders rack elevation diagrams",
		Long:         `Rackviz is a CLI tool for turning declarative rack definitions into elevation diagrams: front and rear views, isometric projection, port maps, and cabling topology.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.topologyCommand())
	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/rackviz/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the configuration directory using XDG standard
// (~/.config/rackviz/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// parseViews parses a comma-separated view string into a slice.
// An empty string means the rack decides (front, plus rear if requested).
func parseViews(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
