// Package ports packs interface markers into a device rectangle.
//
// The packer always returns a usable layout. When individual circles
// cannot fit it degrades to grouped badges, and below the hide zoom
// threshold it skips ports entirely. It never fails.
package ports

import (
	"math"

	"github.com/rackworks/rackviz/pkg/rack"
	"github.com/rackworks/rackviz/pkg/render/elevation/layout"
)

// Kind describes how ports are rendered for one device.
type Kind string

const (
	// KindHidden renders no ports. Used below the hide zoom threshold
	// or when the device has no interfaces.
	KindHidden Kind = "hidden"
	// KindGrouped renders one badge per interface type with a count.
	KindGrouped Kind = "grouped"
	// KindIndividual renders one circle per interface.
	KindIndividual Kind = "individual"
)

// Position is one port circle, relative to the device rect origin.
type Position struct {
	X, Y float64
	// Iface indexes into the interface slice the layout was built from.
	Iface int
}

// Badge summarizes one interface type in grouped mode.
type Badge struct {
	Type  string
	Count int
}

// Layout is the packing result for one device.
type Layout struct {
	Kind      Kind
	Rows      int
	PerRow    int
	Radius    float64
	Spacing   float64
	Positions []Position // individual mode only
	Badges    []Badge    // grouped mode only
}

// Calculate packs ifaces into a device rect of deviceW × deviceH pixels
// (already zoom-scaled by the caller). The packing degrades gracefully:
// individual circles at the default radius, then at the reduced radius,
// then grouped badges. Row count is capped by the device height:
//
//	maxRows = floor((deviceH − yOffset) / (2·radius + rowGap))
//
// and spacing distributes the horizontal slack evenly:
//
//	spacing = (deviceW − perRow·2·radius) / (perRow + 1)
//
// so the row footprint always equals deviceW exactly. Individual mode
// never uses a spacing below cfg.MinPortSpacingPx.
func Calculate(cfg layout.Config, deviceW, deviceH float64, ifaces []rack.Interface, zoom float64) Layout {
	if len(ifaces) == 0 || zoom < cfg.HideZoom {
		return Layout{Kind: KindHidden}
	}

	// Above the detail zoom the row gap tightens from the configured
	// value to 1px. This raises maxRows beyond what the plain formula
	// below would give at the default gap; zoomed-in views stay dense
	// where a grouped fallback would otherwise kick in.
	rowGap := cfg.PortRowGapPx
	if zoom >= cfg.DetailZoom && rowGap > 1 {
		rowGap = 1
	}

	// Row capacity is fixed by the default radius. The reduced-radius
	// retry below only buys horizontal room; rows do not reshuffle.
	maxRows := int(math.Floor((deviceH - cfg.PortYOffsetPx) / (2*cfg.PortRadiusPx + rowGap)))
	if maxRows < 1 {
		return Layout{Kind: KindGrouped, Badges: groupByType(ifaces)}
	}
	perRow := int(math.Ceil(float64(len(ifaces)) / float64(maxRows)))
	rows := int(math.Ceil(float64(len(ifaces)) / float64(perRow)))

	for _, radius := range []float64{cfg.PortRadiusPx, cfg.MinPortRadiusPx} {
		spacing := (deviceW - float64(perRow)*2*radius) / float64(perRow+1)
		if spacing < cfg.MinPortSpacingPx {
			continue
		}
		return Layout{
			Kind:      KindIndividual,
			Rows:      rows,
			PerRow:    perRow,
			Radius:    radius,
			Spacing:   spacing,
			Positions: positions(cfg, len(ifaces), perRow, radius, spacing, rowGap),
		}
	}

	return Layout{Kind: KindGrouped, Badges: groupByType(ifaces)}
}

// positions lays circles out row-major, left to right, top to bottom.
func positions(cfg layout.Config, n, perRow int, radius, spacing, rowGap float64) []Position {
	out := make([]Position, n)
	for i := 0; i < n; i++ {
		row := i / perRow
		col := i % perRow
		out[i] = Position{
			X:     spacing + float64(col)*(2*radius+spacing) + radius,
			Y:     cfg.PortYOffsetPx + float64(row)*(2*radius+rowGap) + radius,
			Iface: i,
		}
	}
	return out
}

// groupByType collapses interfaces into per-type badges, preserving
// first-appearance order.
func groupByType(ifaces []rack.Interface) []Badge {
	idx := make(map[string]int)
	var badges []Badge
	for _, ifc := range ifaces {
		if i, ok := idx[ifc.Type]; ok {
			badges[i].Count++
			continue
		}
		idx[ifc.Type] = len(badges)
		badges = append(badges, Badge{Type: ifc.Type, Count: 1})
	}
	return badges
}
