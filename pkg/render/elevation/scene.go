// Package elevation composes rack elevation scenes.
//
// Compose turns a rack plus a device type catalog into a flat Scene of
// drawing primitives. Sinks (SVG, JSON, PNG, PDF) serialize the scene
// without re-deriving any geometry, so every output format agrees on
// pixel positions by construction.
package elevation

import "github.com/rackworks/rackviz/pkg/render/elevation/layout"

// Scene is an ordered list of primitives in top-left-origin pixel
// space. Order is paint order: later elements draw on top.
type Scene struct {
	Width      float64   `json:"width"`
	Height     float64   `json:"height"`
	Background string    `json:"background"`
	Title      string    `json:"title,omitempty"`
	Elements   []Element `json:"elements"`
}

// Element is one drawable primitive. The concrete types are Rect,
// Polygon, Circle, Line, Text, and Badge.
type Element interface {
	element()
}

// Rect is an axis-aligned filled rectangle.
type Rect struct {
	X, Y, W, H  float64
	Rx          float64 // corner radius, 0 for sharp corners
	Fill        string
	Stroke      string
	StrokeWidth float64
	Class       string // semantic class carried into SVG output
	ID          string // stable identifier, e.g. the placement ID
}

// Polygon is a closed filled polygon, used for projected device faces.
type Polygon struct {
	Points      []layout.Point
	Fill        string
	Stroke      string
	StrokeWidth float64
	Class       string
}

// Circle is a filled circle, used for individual ports.
type Circle struct {
	CX, CY, R   float64
	Fill        string
	Stroke      string
	StrokeWidth float64
	Class       string
}

// Line is a stroked segment, used for rails and separators.
type Line struct {
	X1, Y1, X2, Y2 float64
	Stroke         string
	StrokeWidth    float64
	Class          string
}

// Text is a single line of text. Anchor follows SVG semantics
// ("start", "middle", "end"); Y is the baseline.
type Text struct {
	X, Y     float64
	Content  string
	FontSize float64
	Fill     string
	Anchor   string
	Class    string
}

// Badge is a rounded pill with a short label, used for grouped port
// summaries and legend swatches.
type Badge struct {
	X, Y, W, H float64
	Fill       string
	TextFill   string
	Label      string
	FontSize   float64
	Class      string
}

func (Rect) element()    {}
func (Polygon) element() {}
func (Circle) element()  {}
func (Line) element()    {}
func (Text) element()    {}
func (Badge) element()   {}

// Add appends elements in paint order.
func (s *Scene) Add(els ...Element) {
	s.Elements = append(s.Elements, els...)
}
