package elevation

import (
	"encoding/json"
	"fmt"

	"github.com/rackworks/rackviz/pkg/render/elevation/layout"
)

// elementEnvelope is the tagged wire form of an Element, so scenes can
// round-trip through JSON for caching and external tooling.
type elementEnvelope struct {
	Kind string `json:"kind"`

	X  float64 `json:"x,omitempty"`
	Y  float64 `json:"y,omitempty"`
	W  float64 `json:"width,omitempty"`
	H  float64 `json:"height,omitempty"`
	Rx float64 `json:"rx,omitempty"`

	CX float64 `json:"cx,omitempty"`
	CY float64 `json:"cy,omitempty"`
	R  float64 `json:"r,omitempty"`

	X1 float64 `json:"x1,omitempty"`
	Y1 float64 `json:"y1,omitempty"`
	X2 float64 `json:"x2,omitempty"`
	Y2 float64 `json:"y2,omitempty"`

	Points [][2]float64 `json:"points,omitempty"`

	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"stroke_width,omitempty"`
	TextFill    string  `json:"text_fill,omitempty"`

	Content  string  `json:"content,omitempty"`
	FontSize float64 `json:"font_size,omitempty"`
	Anchor   string  `json:"anchor,omitempty"`

	Class string `json:"class,omitempty"`
	ID    string `json:"id,omitempty"`
}

type sceneJSON struct {
	Width      float64           `json:"width"`
	Height     float64           `json:"height"`
	Background string            `json:"background"`
	Title      string            `json:"title,omitempty"`
	Elements   []elementEnvelope `json:"elements"`
}

// MarshalJSON encodes the scene with kind-tagged elements.
func (s Scene) MarshalJSON() ([]byte, error) {
	out := sceneJSON{
		Width:      s.Width,
		Height:     s.Height,
		Background: s.Background,
		Title:      s.Title,
		Elements:   make([]elementEnvelope, 0, len(s.Elements)),
	}
	for _, el := range s.Elements {
		env, err := envelope(el)
		if err != nil {
			return nil, err
		}
		out.Elements = append(out.Elements, env)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a kind-tagged scene produced by MarshalJSON.
func (s *Scene) UnmarshalJSON(data []byte) error {
	var in sceneJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	out := Scene{
		Width:      in.Width,
		Height:     in.Height,
		Background: in.Background,
		Title:      in.Title,
	}
	for _, env := range in.Elements {
		el, err := fromEnvelope(env)
		if err != nil {
			return err
		}
		out.Elements = append(out.Elements, el)
	}
	*s = out
	return nil
}

func envelope(el Element) (elementEnvelope, error) {
	switch e := el.(type) {
	case Rect:
		return elementEnvelope{
			Kind: "rect",
			X:    e.X, Y: e.Y, W: e.W, H: e.H, Rx: e.Rx,
			Fill: e.Fill, Stroke: e.Stroke, StrokeWidth: e.StrokeWidth,
			Class: e.Class, ID: e.ID,
		}, nil
	case Polygon:
		points := make([][2]float64, len(e.Points))
		for i, p := range e.Points {
			points[i] = [2]float64{p.X, p.Y}
		}
		return elementEnvelope{
			Kind:   "polygon",
			Points: points,
			Fill:   e.Fill, Stroke: e.Stroke, StrokeWidth: e.StrokeWidth,
			Class: e.Class,
		}, nil
	case Circle:
		return elementEnvelope{
			Kind: "circle",
			CX:   e.CX, CY: e.CY, R: e.R,
			Fill: e.Fill, Stroke: e.Stroke, StrokeWidth: e.StrokeWidth,
			Class: e.Class,
		}, nil
	case Line:
		return elementEnvelope{
			Kind: "line",
			X1:   e.X1, Y1: e.Y1, X2: e.X2, Y2: e.Y2,
			Stroke: e.Stroke, StrokeWidth: e.StrokeWidth,
			Class: e.Class,
		}, nil
	case Text:
		return elementEnvelope{
			Kind: "text",
			X:    e.X, Y: e.Y,
			Content: e.Content, FontSize: e.FontSize,
			Fill: e.Fill, Anchor: e.Anchor,
			Class: e.Class,
		}, nil
	case Badge:
		return elementEnvelope{
			Kind: "badge",
			X:    e.X, Y: e.Y, W: e.W, H: e.H,
			Fill: e.Fill, TextFill: e.TextFill,
			Content: e.Label, FontSize: e.FontSize,
			Class: e.Class,
		}, nil
	default:
		return elementEnvelope{}, fmt.Errorf("unknown element type %T", el)
	}
}

func fromEnvelope(env elementEnvelope) (Element, error) {
	switch env.Kind {
	case "rect":
		return Rect{
			X: env.X, Y: env.Y, W: env.W, H: env.H, Rx: env.Rx,
			Fill: env.Fill, Stroke: env.Stroke, StrokeWidth: env.StrokeWidth,
			Class: env.Class, ID: env.ID,
		}, nil
	case "polygon":
		points := make([]layout.Point, len(env.Points))
		for i, p := range env.Points {
			points[i] = layout.Point{X: p[0], Y: p[1]}
		}
		return Polygon{
			Points: points,
			Fill:   env.Fill, Stroke: env.Stroke, StrokeWidth: env.StrokeWidth,
			Class: env.Class,
		}, nil
	case "circle":
		return Circle{
			CX: env.CX, CY: env.CY, R: env.R,
			Fill: env.Fill, Stroke: env.Stroke, StrokeWidth: env.StrokeWidth,
			Class: env.Class,
		}, nil
	case "line":
		return Line{
			X1: env.X1, Y1: env.Y1, X2: env.X2, Y2: env.Y2,
			Stroke: env.Stroke, StrokeWidth: env.StrokeWidth,
			Class: env.Class,
		}, nil
	case "text":
		return Text{
			X: env.X, Y: env.Y,
			Content: env.Content, FontSize: env.FontSize,
			Fill: env.Fill, Anchor: env.Anchor,
			Class: env.Class,
		}, nil
	case "badge":
		return Badge{
			X: env.X, Y: env.Y, W: env.W, H: env.H,
			Fill: env.Fill, TextFill: env.TextFill,
			Label: env.Content, FontSize: env.FontSize,
			Class: env.Class,
		}, nil
	default:
		return nil, fmt.Errorf("unknown element kind %q", env.Kind)
	}
}
