package sink

import (
	"github.com/rackworks/rackviz/pkg/render"
	"github.com/rackworks/rackviz/pkg/render/elevation"
)

// RenderPDF renders the scene as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(s *elevation.Scene) ([]byte, error) {
	return render.ToPDF(RenderSVG(s))
}
