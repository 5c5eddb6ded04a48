package layout

import "math"

// Point is a 2D coordinate in layout or projected space.
type Point struct {
	X, Y float64
}

// Projection angle for the isometric transform.
const isoAngle = 30 * math.Pi / 180

var (
	isoCos = math.Cos(isoAngle)
	isoSin = math.Sin(isoAngle)
)

// Project maps a flat layout point to its isometric screen position
// under a fixed 30° shear:
//
//	x' = (x − y)·cos30
//	y' = (x + y)·sin30
//
// The transform is linear, so straight edges stay straight and the
// renderer only needs to project polygon vertices.
func Project(p Point) Point {
	return Point{
		X: (p.X - p.Y) * isoCos,
		Y: (p.X + p.Y) * isoSin,
	}
}

// ProjectAll projects every point in ps, returning a fresh slice.
func ProjectAll(ps []Point) []Point {
	out := make([]Point, len(ps))
	for i, p := range ps {
		out[i] = Project(p)
	}
	return out
}

// Corners returns the rectangle's corners in clockwise order starting
// at the top-left.
func Corners(r Rect) []Point {
	return []Point{
		{r.X, r.Y},
		{r.X + r.W, r.Y},
		{r.X + r.W, r.Y + r.H},
		{r.X, r.Y + r.H},
	}
}

// FrontFace returns the projected front face polygon of a device box.
func FrontFace(r Rect) []Point {
	return ProjectAll(Corners(r))
}

// SideFace returns the projected right side face of a device box
// extruded by depth. In the flat pre-projection space the side face is
// the right edge swept along the depth axis, which the shear maps to a
// parallelogram.
func SideFace(r Rect, depth float64) []Point {
	return ProjectAll([]Point{
		{r.X + r.W, r.Y},
		{r.X + r.W + depth, r.Y - depth},
		{r.X + r.W + depth, r.Y + r.H - depth},
		{r.X + r.W, r.Y + r.H},
	})
}

// TopFace returns the projected top face of a device box extruded by
// depth.
func TopFace(r Rect, depth float64) []Point {
	return ProjectAll([]Point{
		{r.X, r.Y},
		{r.X + depth, r.Y - depth},
		{r.X + r.W + depth, r.Y - depth},
		{r.X + r.W, r.Y},
	})
}

// Bounds returns the axis-aligned bounding box of ps.
func Bounds(ps []Point) Rect {
	if len(ps) == 0 {
		return Rect{}
	}
	minX, minY := ps[0].X, ps[0].Y
	maxX, maxY := minX, minY
	for _, p := range ps[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}
