// Package sink serializes elevation scenes to output formats.
//
// Formats:
//   - SVG: primary vector output
//   - JSON: scene interchange for external tooling
//   - PDF: print-ready output (requires rsvg-convert)
//   - PNG: raster output (requires rsvg-convert)
//
// Sinks only serialize; all geometry decisions happen in
// [elevation.Compose]. Rounding to one decimal place happens here, at
// the very end of the pipeline.
package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/rackworks/rackviz/pkg/render/elevation"
)

// RenderSVG serializes a scene to standalone SVG. Elements are written
// in scene order, which is paint order.
func RenderSVG(s *elevation.Scene) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		s.Width, s.Height, s.Width, s.Height)

	if s.Title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(s.Title))
	}
	if s.Background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill=%q/>`+"\n", s.Background)
	}

	for _, el := range s.Elements {
		writeElement(&buf, el)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func writeElement(buf *bytes.Buffer, el elevation.Element) {
	switch e := el.(type) {
	case elevation.Rect:
		buf.WriteString("  <rect")
		writeAttr(buf, "x", e.X)
		writeAttr(buf, "y", e.Y)
		writeAttr(buf, "width", e.W)
		writeAttr(buf, "height", e.H)
		if e.Rx > 0 {
			writeAttr(buf, "rx", e.Rx)
		}
		writePaint(buf, e.Fill, e.Stroke, e.StrokeWidth)
		writeClassID(buf, e.Class, e.ID)
		buf.WriteString("/>\n")

	case elevation.Polygon:
		points := make([]string, len(e.Points))
		for i, p := range e.Points {
			points[i] = fmt.Sprintf("%.1f,%.1f", p.X, p.Y)
		}
		fmt.Fprintf(buf, "  <polygon points=%q", strings.Join(points, " "))
		writePaint(buf, e.Fill, e.Stroke, e.StrokeWidth)
		writeClassID(buf, e.Class, "")
		buf.WriteString("/>\n")

	case elevation.Circle:
		buf.WriteString("  <circle")
		writeAttr(buf, "cx", e.CX)
		writeAttr(buf, "cy", e.CY)
		writeAttr(buf, "r", e.R)
		writePaint(buf, e.Fill, e.Stroke, e.StrokeWidth)
		writeClassID(buf, e.Class, "")
		buf.WriteString("/>\n")

	case elevation.Line:
		buf.WriteString("  <line")
		writeAttr(buf, "x1", e.X1)
		writeAttr(buf, "y1", e.Y1)
		writeAttr(buf, "x2", e.X2)
		writeAttr(buf, "y2", e.Y2)
		writePaint(buf, "", e.Stroke, e.StrokeWidth)
		writeClassID(buf, e.Class, "")
		buf.WriteString("/>\n")

	case elevation.Text:
		buf.WriteString("  <text")
		writeAttr(buf, "x", e.X)
		writeAttr(buf, "y", e.Y)
		fmt.Fprintf(buf, ` font-size="%.1f" font-family="sans-serif"`, e.FontSize)
		if e.Fill != "" {
			fmt.Fprintf(buf, " fill=%q", e.Fill)
		}
		if e.Anchor != "" {
			fmt.Fprintf(buf, " text-anchor=%q", e.Anchor)
		}
		writeClassID(buf, e.Class, "")
		fmt.Fprintf(buf, ">%s</text>\n", escapeXML(e.Content))

	case elevation.Badge:
		// A badge is a rounded pill plus centered label.
		buf.WriteString("  <rect")
		writeAttr(buf, "x", e.X)
		writeAttr(buf, "y", e.Y)
		writeAttr(buf, "width", e.W)
		writeAttr(buf, "height", e.H)
		writeAttr(buf, "rx", e.H/2)
		writePaint(buf, e.Fill, "", 0)
		writeClassID(buf, e.Class, "")
		buf.WriteString("/>\n")
		if e.Label != "" {
			fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="%.1f" font-family="sans-serif" fill=%q text-anchor="middle">%s</text>`+"\n",
				e.X+e.W/2, e.Y+e.H/2+e.FontSize*0.35, e.FontSize, e.TextFill, escapeXML(e.Label))
		}
	}
}

func writeAttr(buf *bytes.Buffer, name string, v float64) {
	fmt.Fprintf(buf, ` %s="%.1f"`, name, v)
}

func writePaint(buf *bytes.Buffer, fill, stroke string, width float64) {
	if fill != "" {
		fmt.Fprintf(buf, " fill=%q", fill)
	} else {
		buf.WriteString(` fill="none"`)
	}
	if stroke != "" {
		fmt.Fprintf(buf, ` stroke=%q stroke-width="%.1f"`, stroke, width)
	}
}

func writeClassID(buf *bytes.Buffer, class, id string) {
	if class != "" {
		fmt.Fprintf(buf, " class=%q", class)
	}
	if id != "" {
		fmt.Fprintf(buf, ` id="device-%s"`, escapeXML(id))
	}
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
