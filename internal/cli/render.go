package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rackworks/rackviz/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	catalog    string  // device type catalog directory
	output     string  // output file path (or base path for multiple formats)
	theme      string  // color theme: "light" or "dark"
	zoom       float64 // scale factor
	views      string  // comma-separated faces: "front", "rear"
	projection bool    // isometric device boxes
	legend     bool    // append device type legend
	noLabels   bool    // suppress device name labels
	scale      float64 // PNG supersampling factor
	profile    string  // named render profile from profiles.toml
	refresh    bool    // bypass cached scenes and artifacts
	noCache    bool    // disable the cache entirely
}

// renderCommand creates the render command for generating elevation diagrams.
//
// Default settings:
//   - theme: light
//   - zoom: 1.0
//   - views: front (plus rear when the rack definition requests it)
//   - format: svg
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		catalog: defaultCatalogDir,
		zoom:    pipeline.DefaultZoom,
		scale:   pipeline.DefaultScale,
	}

	cmd := &cobra.Command{
		Use:   "render [rack file]",
		Short: "Render a rack definition to elevation diagram(s)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			return c.runRender(cmd, args[0], formats, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.catalog, "catalog", opts.catalog, "device type catalog directory")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, pdf, png (comma-separated)")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "color theme: light (default), dark")
	cmd.Flags().Float64Var(&opts.zoom, "zoom", opts.zoom, "scale factor")
	cmd.Flags().StringVar(&opts.views, "views", "", "faces to render: front, rear (comma-separated)")
	cmd.Flags().BoolVar(&opts.projection, "projection", false, "render isometric device boxes")
	cmd.Flags().BoolVar(&opts.legend, "legend", false, "append a device type legend")
	cmd.Flags().BoolVar(&opts.noLabels, "no-labels", false, "suppress device name labels")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG supersampling factor")
	cmd.Flags().StringVar(&opts.profile, "profile", "", "named render profile from profiles.toml")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute cached scenes and artifacts")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")

	return cmd
}

// runRender executes the full pipeline for one rack file and writes the
// requested artifacts.
func (c *CLI) runRender(cmd *cobra.Command, rackFile string, formats []string, opts *renderOpts) error {
	ctx := cmd.Context()

	pipelineOpts := pipeline.Options{
		CatalogDir: opts.catalog,
		RackFile:   rackFile,
		Theme:      opts.theme,
		Zoom:       opts.zoom,
		Views:      parseViews(opts.views),
		Projection: opts.projection,
		Legend:     opts.legend,
		NoLabels:   opts.noLabels,
		Formats:    formats,
		Scale:      opts.scale,
		Refresh:    opts.refresh,
		Logger:     c.Logger,
	}
	if opts.profile != "" {
		if err := applyProfile(&pipelineOpts, opts.profile); err != nil {
			return err
		}
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	p := newProgress(c.Logger)
	spin := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s", rackFile))
	spin.Start()

	result, err := runner.Execute(ctx, pipelineOpts)
	if err != nil {
		spin.StopWithError(fmt.Sprintf("Render failed: %v", err))
		return err
	}
	spin.StopWithSuccess(fmt.Sprintf("Rendered %s", result.Rack.Name))
	printStats(result.Stats.DeviceCount, result.Stats.ElementCount, result.CacheInfo.SceneHit)

	if err := writeArtifacts(result.Artifacts, formats, opts.output, rackFile); err != nil {
		return err
	}
	p.done(fmt.Sprintf("Wrote %d file(s)", len(formats)))
	return nil
}

// writeArtifacts writes each rendered format to its output path.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, input string) error {
	if len(formats) == 1 {
		path := output
		if path == "" {
			path = basePath("", input) + "." + formats[0]
		}
		return writeArtifact(path, artifacts[formats[0]])
	}

	base := basePath(output, input)
	for _, format := range formats {
		path := fmt.Sprintf("%s.%s", base, format)
		if err := writeArtifact(path, artifacts[format]); err != nil {
			return err
		}
	}
	return nil
}

func writeArtifact(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printFile(path)
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output ends in a known format extension, that extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
