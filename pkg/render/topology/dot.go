// Package topology renders rack cabling as node-link diagrams using
// Graphviz. Devices appear as boxes; cables as colored edges labeled
// with their endpoints' interfaces.
package topology

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rackworks/rackviz/pkg/rack"
	"github.com/rackworks/rackviz/pkg/render/elevation/styles"
)

// Options configures DOT generation.
type Options struct {
	// Detailed includes device type and position in node labels.
	// When false, only the placement label is shown.
	Detailed bool
	// Theme supplies cable colors. Zero value uses the default theme.
	Theme styles.Theme
}

// ToDOT converts a rack's devices and cables to Graphviz DOT. Devices
// without cables are included so the diagram shows the full rack. The
// resulting DOT string can be rendered with [RenderSVG], [RenderPDF],
// or [RenderPNG].
func ToDOT(r *rack.Rack, cat *rack.Catalog, opts Options) string {
	theme := opts.Theme
	if theme.Name == "" {
		theme = styles.DefaultTheme()
	}

	var buf bytes.Buffer
	buf.WriteString("graph rack {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("\n")

	for _, p := range r.Devices {
		label := nodeLabel(cat, p, opts.Detailed)
		attrs := []string{fmt.Sprintf("label=%q", label)}
		if dt, ok := cat.Get(p.DeviceType); ok {
			fill := theme.DeviceFill(p.ColourOverride, dt.Colour, dt.Category)
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fill), `fontcolor="white"`)
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", p.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, c := range r.Cables {
		attrs := []string{
			fmt.Sprintf("label=%q", c.A.Interface+" / "+c.B.Interface),
			fmt.Sprintf("color=%q", theme.CableColor(c.Type)),
		}
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n", c.A.Device, c.B.Device, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(cat *rack.Catalog, p rack.PlacedDevice, detailed bool) string {
	label := p.Label()
	if !detailed {
		return label
	}
	parts := []string{label}
	if dt, ok := cat.Get(p.DeviceType); ok {
		parts = append(parts, dt.DisplayName())
	}
	parts = append(parts, fmt.Sprintf("U%g %s", p.Position, p.Face))
	return strings.Join(parts, "\n")
}
