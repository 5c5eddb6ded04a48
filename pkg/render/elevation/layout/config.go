// Package layout computes pixel geometry for rack elevations: unit-to-
// pixel mapping, per-device rectangles, and the isometric projection
// used for pseudo-3D output.
//
// All functions are pure. Geometry constants live in [Config] values
// passed explicitly by the caller, so multiple configurations (screen
// vs. export DPI) can coexist without cross-contamination. Pixel values
// stay in floating point end to end; rounding happens only when a sink
// serializes the scene.
package layout

import "github.com/rackworks/rackviz/pkg/rack"

// Config holds the geometry constants for elevation layout.
// DefaultConfig returns the screen profile; export profiles override
// individual fields (typically UnitHeightPx and the port thresholds).
type Config struct {
	// Vertical size of one rack unit in pixels.
	UnitHeightPx float64

	// Width of each mounting rail in pixels. The device interior width
	// is the rack width minus both rails.
	RailWidthPx float64

	// Vertical offset of unit 1's top edge from the frame top.
	RailOffsetPx float64

	// Horizontal extrusion depth for isometric side/top faces.
	DepthPx float64

	// Gap between the front and rear views in dual-view composition.
	ViewGapPx float64

	// Port packing.
	PortRadiusPx     float64 // default port circle radius
	MinPortRadiusPx  float64 // reduced radius tried before grouping
	MinPortSpacingPx float64 // spacing floor for individual layout
	PortRowGapPx     float64 // vertical gap between port rows
	PortYOffsetPx    float64 // inset from the device rect top

	// Zoom thresholds for port rendering density.
	HideZoom   float64 // below this, ports are not rendered at all
	DetailZoom float64 // at or above this, rows may pack tighter

	// Label fitting.
	MaxFontSize    float64
	MinFontSize    float64
	CharWidthRatio float64
}

// DefaultConfig returns the standard screen-rendering profile.
func DefaultConfig() Config {
	return Config{
		UnitHeightPx:     22,
		RailWidthPx:      10,
		RailOffsetPx:     4,
		DepthPx:          30,
		ViewGapPx:        40,
		PortRadiusPx:     3,
		MinPortRadiusPx:  2,
		MinPortSpacingPx: 2,
		PortRowGapPx:     2,
		PortYOffsetPx:    4,
		HideZoom:         0.5,
		DetailZoom:       1.5,
		MaxFontSize:      13,
		MinFontSize:      9,
		CharWidthRatio:   0.58,
	}
}

// rackWidths maps nominal width classes to frame widths in pixels.
// The 19" class matches the conventional 206px elevation frame; the
// others scale with physical width.
var rackWidths = map[rack.WidthClass]float64{
	rack.Width10: 102,
	rack.Width19: 206,
	rack.Width21: 226,
	rack.Width23: 246,
}

// RackWidthPx returns the full frame width for a width class.
// Unknown classes fall back to the 19" frame.
func (c Config) RackWidthPx(w rack.WidthClass) float64 {
	if px, ok := rackWidths[w]; ok {
		return px
	}
	return rackWidths[rack.Width19]
}

// InteriorWidthPx returns the usable device width between the rails.
func (c Config) InteriorWidthPx(w rack.WidthClass) float64 {
	return c.RackWidthPx(w) - 2*c.RailWidthPx
}

// FrameHeightPx returns the full frame height for a rack, including the
// rail offset at top and bottom.
func (c Config) FrameHeightPx(r *rack.Rack) float64 {
	return float64(r.Height)*c.UnitHeightPx + 2*c.RailOffsetPx
}
