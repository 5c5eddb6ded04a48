package layout

import (
	"github.com/rackworks/rackviz/pkg/errors"
	"github.com/rackworks/rackviz/pkg/rack"
)

// Rect is an axis-aligned rectangle in top-left-origin pixel space.
type Rect struct {
	X, Y, W, H float64
}

// Right returns the X coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the Y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// CenterX returns the horizontal center point.
func (r Rect) CenterX() float64 { return r.X + r.W/2 }

// CenterY returns the vertical center point.
func (r Rect) CenterY() float64 { return r.Y + r.H/2 }

// DeviceRect maps a placement to its pixel rectangle within the rack
// frame. Unit positions are 1-based from the rack bottom; pixel Y grows
// downward from the frame top, so:
//
//	y = (height − position − deviceUnits + 1) × unitHeightPx + railOffset
//
// The result stays in floating point; callers round only at
// serialization so stacked devices never accumulate rounding error.
//
// Returns an OUT_OF_BOUNDS error if the occupied range exceeds the
// rack's declared height. The range is never silently clamped.
func DeviceRect(cfg Config, r *rack.Rack, p rack.PlacedDevice, dt *rack.DeviceType) (Rect, error) {
	if p.Position < 1 || p.Position+dt.UHeight > float64(r.Height)+1 {
		return Rect{}, errors.New(errors.ErrCodeOutOfBounds,
			"placement %s: units [%.1f, %.1f] exceed rack height %d",
			p.ID, p.Position, p.Position+dt.UHeight-1, r.Height)
	}

	y := (float64(r.Height)-p.Position-dt.UHeight+1)*cfg.UnitHeightPx + cfg.RailOffsetPx
	return Rect{
		X: cfg.RailWidthPx,
		Y: y,
		W: cfg.InteriorWidthPx(r.Width),
		H: dt.UHeight * cfg.UnitHeightPx,
	}, nil
}

// UnitLabelY returns the pixel Y center for a unit number label.
// Descending-numbered racks flip which unit the label names, not the
// geometry, so the caller passes the display number separately.
func UnitLabelY(cfg Config, r *rack.Rack, unit int) float64 {
	return (float64(r.Height)-float64(unit))*cfg.UnitHeightPx + cfg.RailOffsetPx + cfg.UnitHeightPx/2
}
