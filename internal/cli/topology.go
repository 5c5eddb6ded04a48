package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rackworks/rackviz/pkg/pipeline"
	"github.com/rackworks/rackviz/pkg/rack"
	"github.com/rackworks/rackviz/pkg/render/topology"
)

// topologyOpts holds the command-line flags for the topology command.
type topologyOpts struct {
	catalog  string
	output   string
	format   string
	detailed bool
	scale    float64
}

// topologyCommand creates the topology command for exporting the
// cabling graph. DOT output goes through Graphviz for image formats.
func (c *CLI) topologyCommand() *cobra.Command {
	opts := topologyOpts{
		catalog: defaultCatalogDir,
		format:  "svg",
		scale:   pipeline.DefaultScale,
	}

	cmd := &cobra.Command{
		Use:   "topology [rack file]",
		Short: "Export the cabling topology as DOT or a rendered graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTopology(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVar(&opts.catalog, "catalog", opts.catalog, "device type catalog directory")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: derived from the rack file)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), png, pdf, dot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include position and model details in node labels")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG supersampling factor")

	return cmd
}

func runTopology(cmd *cobra.Command, rackFile string, opts *topologyOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cat, err := rack.LoadCatalogDir(opts.catalog)
	if err != nil {
		return err
	}
	rk, err := rack.LoadRackFile(rackFile)
	if err != nil {
		return err
	}
	if len(rk.Cables) == 0 {
		printWarning("Rack %s has no cables; topology will only show nodes", rk.Name)
	}

	dot := topology.ToDOT(rk, cat, topology.Options{Detailed: opts.detailed})
	logger.Debugf("Generated DOT: %d bytes", len(dot))

	var data []byte
	switch opts.format {
	case "dot":
		data = []byte(dot)
	case "svg":
		data, err = topology.RenderSVG(ctx, dot)
	case "png":
		data, err = topology.RenderPNG(ctx, dot, opts.scale)
	case "pdf":
		data, err = topology.RenderPDF(ctx, dot)
	default:
		return fmt.Errorf("invalid format: %s (must be 'svg', 'png', 'pdf', or 'dot')", opts.format)
	}
	if err != nil {
		return err
	}

	path := opts.output
	if path == "" {
		path = basePath("", rackFile) + "_topology." + opts.format
	}
	if err := writeArtifact(path, data); err != nil {
		return err
	}
	printSuccess("Exported topology for %s (%d cables)", rk.Name, len(rk.Cables))
	return nil
}
