package ports

import (
	"fmt"
	"math"
	"testing"

	"github.com/rackworks/rackviz/pkg/rack"
	"github.com/rackworks/rackviz/pkg/render/elevation/layout"
)

func nPorts(n int) []rack.Interface {
	out := make([]rack.Interface, n)
	for i := range out {
		out[i] = rack.Interface{Name: fmt.Sprintf("eth%d", i), Type: "1000base-t"}
	}
	return out
}

// A 48-port 1U switch in a 19" frame: two rows of 24 at the reduced
// radius, with spacing comfortably above the floor.
func TestCalculate48PortSwitch(t *testing.T) {
	cfg := layout.DefaultConfig()
	got := Calculate(cfg, 186, 22, nPorts(48), 1.2)

	if got.Kind != KindIndividual {
		t.Fatalf("Kind = %s, want individual", got.Kind)
	}
	if got.Rows != 2 || got.PerRow != 24 {
		t.Errorf("grid = %dx%d, want 2x24", got.Rows, got.PerRow)
	}
	if got.Radius != cfg.MinPortRadiusPx {
		t.Errorf("Radius = %g, want reduced %g", got.Radius, cfg.MinPortRadiusPx)
	}
	if got.Spacing < cfg.MinPortSpacingPx {
		t.Errorf("Spacing = %g below floor %g", got.Spacing, cfg.MinPortSpacingPx)
	}
	if len(got.Positions) != 48 {
		t.Fatalf("Positions = %d", len(got.Positions))
	}
}

// The same switch in a 10" frame cannot fit individual circles and
// degrades to grouped badges.
func TestCalculateGroupedFallback(t *testing.T) {
	cfg := layout.DefaultConfig()
	ifaces := append(nPorts(47), rack.Interface{Name: "mgmt0", Type: "mgmt", MgmtOnly: true})

	got := Calculate(cfg, 82, 22, ifaces, 1.2)
	if got.Kind != KindGrouped {
		t.Fatalf("Kind = %s, want grouped", got.Kind)
	}
	if len(got.Badges) != 2 {
		t.Fatalf("Badges = %+v", got.Badges)
	}
	if got.Badges[0].Type != "1000base-t" || got.Badges[0].Count != 47 {
		t.Errorf("badge[0] = %+v", got.Badges[0])
	}
	if got.Badges[1].Type != "mgmt" || got.Badges[1].Count != 1 {
		t.Errorf("badge[1] = %+v", got.Badges[1])
	}
}

func TestCalculateHidden(t *testing.T) {
	cfg := layout.DefaultConfig()
	if got := Calculate(cfg, 186, 22, nPorts(48), 0.3); got.Kind != KindHidden {
		t.Errorf("zoom 0.3: Kind = %s, want hidden", got.Kind)
	}
	if got := Calculate(cfg, 186, 22, nil, 1.0); got.Kind != KindHidden {
		t.Errorf("no interfaces: Kind = %s, want hidden", got.Kind)
	}
}

// Few ports on a wide device fit at the default radius, spread evenly
// across the rows the device height allows.
func TestCalculateDefaultRadius(t *testing.T) {
	cfg := layout.DefaultConfig()
	got := Calculate(cfg, 186, 22, nPorts(8), 1.0)

	if got.Kind != KindIndividual {
		t.Fatalf("Kind = %s", got.Kind)
	}
	if got.Radius != cfg.PortRadiusPx {
		t.Errorf("Radius = %g, want default %g", got.Radius, cfg.PortRadiusPx)
	}
	if got.Rows != 2 || got.PerRow != 4 {
		t.Errorf("grid = %dx%d, want 2x4", got.Rows, got.PerRow)
	}
}

// The row footprint identity: perRow·2r + (perRow+1)·spacing == deviceW.
func TestCalculateFootprint(t *testing.T) {
	cfg := layout.DefaultConfig()
	for _, n := range []int{1, 8, 24, 48} {
		got := Calculate(cfg, 186, 44, nPorts(n), 1.0)
		if got.Kind != KindIndividual {
			t.Fatalf("n=%d: Kind = %s", n, got.Kind)
		}
		footprint := float64(got.PerRow)*2*got.Radius + float64(got.PerRow+1)*got.Spacing
		if math.Abs(footprint-186) > 1e-9 {
			t.Errorf("n=%d: footprint = %g, want 186", n, footprint)
		}
		for _, p := range got.Positions {
			if p.X-got.Radius < 0 || p.X+got.Radius > 186 {
				t.Errorf("n=%d: port at X=%g overflows", n, p.X)
			}
		}
	}
}

func TestCalculatePositionsRowMajor(t *testing.T) {
	cfg := layout.DefaultConfig()
	got := Calculate(cfg, 186, 22, nPorts(48), 1.2)
	if got.Kind != KindIndividual {
		t.Fatal(got.Kind)
	}

	first := got.Positions[0]
	wantX := got.Spacing + got.Radius
	wantY := cfg.PortYOffsetPx + got.Radius
	if math.Abs(first.X-wantX) > 1e-9 || math.Abs(first.Y-wantY) > 1e-9 {
		t.Errorf("first port = (%g, %g), want (%g, %g)", first.X, first.Y, wantX, wantY)
	}

	// Port 24 starts the second row at the same X as port 0.
	second := got.Positions[24]
	if math.Abs(second.X-first.X) > 1e-9 {
		t.Errorf("row 2 X = %g, want %g", second.X, first.X)
	}
	if second.Y <= first.Y {
		t.Errorf("row 2 Y = %g not below row 1 Y = %g", second.Y, first.Y)
	}

	// X grows monotonically within a row.
	for i := 1; i < got.PerRow; i++ {
		if got.Positions[i].X <= got.Positions[i-1].X {
			t.Fatalf("port %d X not increasing", i)
		}
	}
}

// Very short devices (half-U) have no room for even one row and group.
func TestCalculateTooShort(t *testing.T) {
	cfg := layout.DefaultConfig()
	got := Calculate(cfg, 186, 7, nPorts(4), 1.0)
	if got.Kind != KindGrouped {
		t.Errorf("Kind = %s, want grouped", got.Kind)
	}
}
