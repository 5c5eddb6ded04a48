package sink

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rackworks/rackviz/pkg/rack"
	"github.com/rackworks/rackviz/pkg/render/elevation"
	"github.com/rackworks/rackviz/pkg/render/elevation/layout"
)

func testScene(t *testing.T) *elevation.Scene {
	t.Helper()
	cat := rack.NewCatalog()
	if err := cat.Add(rack.DeviceType{Slug: "server-2u", Model: "App Server", UHeight: 2, IsFullDepth: true, Colour: "#4caf50"}); err != nil {
		t.Fatal(err)
	}
	r := &rack.Rack{Name: "row-a-01", Height: 12, Width: rack.Width19, Devices: []rack.PlacedDevice{
		{ID: "srv", DeviceType: "server-2u", Position: 1, Face: rack.FaceFront, Name: "db <master>"},
	}}
	s, err := elevation.Compose(r, cat)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRenderSVG(t *testing.T) {
	svg := RenderSVG(testScene(t))

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg"`,
		`<title>row-a-01</title>`,
		`class="frame"`,
		`class="device"`,
		`id="device-srv"`,
		"</svg>",
	} {
		if !bytes.Contains(svg, []byte(want)) {
			t.Errorf("SVG missing %q", want)
		}
	}

	// Labels with XML metacharacters must be escaped.
	if bytes.Contains(svg, []byte("<master>")) {
		t.Error("unescaped label in SVG output")
	}
	if !bytes.Contains(svg, []byte("&lt;master&gt;")) {
		t.Error("escaped label missing from SVG output")
	}
}

func TestRenderSVGWellFormed(t *testing.T) {
	svg := RenderSVG(testScene(t))
	dec := xml.NewDecoder(bytes.NewReader(svg))
	for {
		if _, err := dec.Token(); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			t.Fatalf("SVG is not well-formed XML: %v", err)
		}
	}
}

func TestRenderSVGAllPrimitives(t *testing.T) {
	s := &elevation.Scene{Width: 100, Height: 50, Background: "#ffffff"}
	s.Add(
		elevation.Rect{X: 1, Y: 2, W: 3, H: 4, Fill: "#111111"},
		elevation.Polygon{Points: []layout.Point{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 5, Y: 5}}, Fill: "#222222"},
		elevation.Circle{CX: 10, CY: 10, R: 2, Fill: "#333333"},
		elevation.Line{X1: 0, Y1: 0, X2: 9, Y2: 9, Stroke: "#444444", StrokeWidth: 1},
		elevation.Text{X: 5, Y: 5, Content: "hi", FontSize: 9, Fill: "#555555", Anchor: "middle"},
		elevation.Badge{X: 0, Y: 20, W: 30, H: 12, Fill: "#666666", TextFill: "#777777", Label: "1000base-t ×48", FontSize: 9},
	)

	out := string(RenderSVG(s))
	for _, tag := range []string{"<rect", "<polygon", "<circle", "<line", "<text"} {
		if !strings.Contains(out, tag) {
			t.Errorf("SVG missing %s element", tag)
		}
	}
	if !strings.Contains(out, "1000base-t ×48") {
		t.Error("badge label missing")
	}
	// Paint order is scene order.
	if strings.Index(out, "<rect") > strings.Index(out, "<polygon") {
		t.Error("elements out of paint order")
	}
}
