// Package render provides format conversion shared by the visualization
// renderers.
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats
// using the external rsvg-convert tool (from librsvg). Both the
// elevation and topology renderers emit SVG first and go through these
// for raster and print output.
//
//	svg := sink.RenderSVG(scene)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// Elevation scenes live in the [elevation] subpackage; cabling diagrams
// in [topology].
//
// [elevation]: github.com/rackworks/rackviz/pkg/render/elevation
// [topology]: github.com/rackworks/rackviz/pkg/render/topology
package render
