package elevation

import (
	"sort"
	"strconv"

	"github.com/rackworks/rackviz/pkg/errors"
	"github.com/rackworks/rackviz/pkg/rack"
	"github.com/rackworks/rackviz/pkg/render/elevation/layout"
	"github.com/rackworks/rackviz/pkg/render/elevation/ports"
	"github.com/rackworks/rackviz/pkg/render/elevation/styles"
)

const (
	labelPadPx   = 8
	legendRowPx  = 20
	legendPadPx  = 12
	viewLabelPx  = 16
	sideShade    = 0.15
	topShade     = 0.10
	rearShade    = 0.15
	badgeHPx     = 12
	badgePadPx   = 6
	badgeGapPx   = 4
	badgeInsetPx = 3
)

// Option configures a Compose call.
type Option func(*composer)

type composer struct {
	cfg        layout.Config
	theme      styles.Theme
	zoom       float64
	views      []rack.Face
	projection bool
	legend     bool
	labels     bool
}

// WithConfig overrides the geometry profile.
func WithConfig(c layout.Config) Option { return func(o *composer) { o.cfg = c } }

// WithTheme selects the color theme.
func WithTheme(t styles.Theme) Option { return func(o *composer) { o.theme = t } }

// WithZoom sets the scale factor. Non-positive values are ignored.
func WithZoom(z float64) Option {
	return func(o *composer) {
		if z > 0 {
			o.zoom = z
		}
	}
}

// WithViews overrides which faces are rendered and in what order.
// Without it, the front view is rendered, plus the rear when the rack
// requests it.
func WithViews(faces ...rack.Face) Option {
	return func(o *composer) { o.views = faces }
}

// WithProjection renders isometric device boxes instead of flat rects.
func WithProjection() Option { return func(o *composer) { o.projection = true } }

// WithLegend appends a device type legend below the frames.
func WithLegend() Option { return func(o *composer) { o.legend = true } }

// WithoutLabels suppresses device name labels.
func WithoutLabels() Option { return func(o *composer) { o.labels = false } }

// resolved pairs a placement with its catalog entry.
type resolved struct {
	p  rack.PlacedDevice
	dt *rack.DeviceType
}

// Compose builds the drawing scene for a rack. The output is
// deterministic: the same rack, catalog, and options always produce an
// identical scene.
//
// Placement conflicts are not re-checked here; an overlapping rack
// renders with overlapping rects. Only structural failures (unknown
// device type, placement outside the frame) return errors.
func Compose(r *rack.Rack, cat *rack.Catalog, opts ...Option) (*Scene, error) {
	c := composer{
		cfg:    layout.DefaultConfig(),
		theme:  styles.DefaultTheme(),
		zoom:   1,
		labels: true,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if len(c.views) == 0 {
		c.views = []rack.Face{rack.FaceFront}
		if r.ShowRear {
			c.views = append(c.views, rack.FaceRear)
		}
	}

	devices, err := resolveDevices(r, cat)
	if err != nil {
		return nil, err
	}

	// Descending position, draw order bottom of the list last, so lower
	// (nearer) devices paint over higher ones under projection. Ties
	// break on ID to keep the scene stable.
	sort.SliceStable(devices, func(i, j int) bool {
		if devices[i].p.Position != devices[j].p.Position {
			return devices[i].p.Position > devices[j].p.Position
		}
		return devices[i].p.ID < devices[j].p.ID
	})

	z := c.zoom
	frameW := c.cfg.RackWidthPx(r.Width) * z
	frameH := c.cfg.FrameHeightPx(r) * z

	scene := &Scene{
		Background: c.theme.Background,
		Title:      r.Name,
	}

	for i, face := range c.views {
		offX := float64(i) * (frameW + c.cfg.ViewGapPx*z)
		c.composeView(scene, r, devices, face, offX)
	}

	nViews := float64(len(c.views))
	scene.Width = nViews*frameW + (nViews-1)*c.cfg.ViewGapPx*z
	scene.Height = frameH + viewLabelPx*z
	if c.projection {
		// Extruded faces spill above and to the right of the frame.
		depth := c.cfg.DepthPx * z
		scene.Width += depth
		scene.Height += depth
	}

	if c.legend {
		scene.Height += c.composeLegend(scene, devices, scene.Height)
	}
	return scene, nil
}

func resolveDevices(r *rack.Rack, cat *rack.Catalog) ([]resolved, error) {
	out := make([]resolved, 0, len(r.Devices))
	for _, p := range r.Devices {
		dt, ok := cat.Get(p.DeviceType)
		if !ok {
			return nil, errors.New(errors.ErrCodeDeviceTypeNotFound,
				"placement %s: unknown device type %q", p.ID, p.DeviceType)
		}
		out = append(out, resolved{p: p, dt: dt})
	}
	return out, nil
}

// composeView emits one face of the rack at the given X offset.
func (c *composer) composeView(scene *Scene, r *rack.Rack, devices []resolved, face rack.Face, offX float64) {
	z := c.zoom
	frameW := c.cfg.RackWidthPx(r.Width) * z
	frameH := c.cfg.FrameHeightPx(r) * z
	projOffY := 0.0
	if c.projection {
		projOffY = c.cfg.DepthPx * z
	}

	scene.Add(Rect{
		X: offX, Y: projOffY, W: frameW, H: frameH,
		Fill:        c.theme.Background,
		Stroke:      c.theme.Frame,
		StrokeWidth: 1.5,
		Class:       "frame",
	})

	railW := c.cfg.RailWidthPx * z
	for _, rx := range []float64{offX, offX + frameW - railW} {
		scene.Add(Rect{
			X: rx, Y: projOffY, W: railW, H: frameH,
			Fill:  c.theme.RailFill,
			Class: "rail",
		})
	}

	if c.zoom >= c.cfg.HideZoom {
		c.composeUnitLabels(scene, r, offX, projOffY)
	}

	for _, d := range devices {
		if !visibleOn(d, face) {
			continue
		}
		c.composeDevice(scene, r, d, face, offX, projOffY)
	}

	scene.Add(Text{
		X:        offX + frameW/2,
		Y:        projOffY + frameH + viewLabelPx*z*0.75,
		Content:  string(face),
		FontSize: c.cfg.MinFontSize * z,
		Fill:     c.theme.UnitText,
		Anchor:   "middle",
		Class:    "view-label",
	})
}

// visibleOn reports whether a placement appears on a view face.
// Full-depth devices and Face "both" show on either side; half-depth
// devices only on their mounted face.
func visibleOn(d resolved, face rack.Face) bool {
	return d.dt.IsFullDepth || d.p.Face == face || d.p.Face == rack.FaceBoth
}

func (c *composer) composeUnitLabels(scene *Scene, r *rack.Rack, offX, offY float64) {
	z := c.zoom
	size := c.cfg.MinFontSize * z
	for unit := 1; unit <= r.Height; unit++ {
		display := unit
		if r.DescUnits {
			display = r.Height - unit + 1
		}
		y := layout.UnitLabelY(c.cfg, r, unit)*z + offY
		scene.Add(Text{
			X:        offX + c.cfg.RailWidthPx*z/2,
			Y:        y + size*0.35,
			Content:  strconv.Itoa(display),
			FontSize: size,
			Fill:     c.theme.UnitText,
			Anchor:   "middle",
			Class:    "unit",
		})
	}
}

func (c *composer) composeDevice(scene *Scene, r *rack.Rack, d resolved, face rack.Face, offX, offY float64) {
	z := c.zoom
	rect, err := layout.DeviceRect(c.cfg, r, d.p, d.dt)
	if err != nil {
		// Out-of-bounds placements were rejected upstream; an invalid
		// one slipping through is skipped rather than aborting the
		// whole scene.
		return
	}
	scaled := layout.Rect{X: rect.X*z + offX, Y: rect.Y*z + offY, W: rect.W * z, H: rect.H * z}

	fill := c.theme.DeviceFill(d.p.ColourOverride, d.dt.Colour, d.dt.Category)
	if face == rack.FaceRear && d.dt.IsFullDepth && d.p.Face == rack.FaceFront {
		// Seen from behind.
		if shaded, err := styles.Darken(fill, rearShade); err == nil {
			fill = shaded
		}
	}

	if c.projection {
		c.composeProjected(scene, scaled, d, fill)
		return
	}

	scene.Add(Rect{
		X: scaled.X, Y: scaled.Y, W: scaled.W, H: scaled.H,
		Rx:          1 * z,
		Fill:        fill,
		Stroke:      c.theme.Stroke,
		StrokeWidth: 1,
		Class:       "device",
		ID:          d.p.ID,
	})

	c.composePorts(scene, scaled, d)

	if c.labels {
		c.composeLabel(scene, scaled, d.p.Label())
	}
}

// composeProjected draws the isometric box for one device: front face,
// then side and top faces extruded by the device depth. Half-depth
// devices extrude half as far.
func (c *composer) composeProjected(scene *Scene, scaled layout.Rect, d resolved, fill string) {
	depth := c.cfg.DepthPx * c.zoom
	if !d.dt.IsFullDepth {
		depth /= 2
	}

	sideFill := fill
	if shaded, err := styles.Darken(fill, sideShade); err == nil {
		sideFill = shaded
	}
	topFill := fill
	if shaded, err := styles.Lighten(fill, topShade); err == nil {
		topFill = shaded
	}

	stroke := c.theme.Stroke
	scene.Add(
		Polygon{Points: layout.TopFace(scaled, depth), Fill: topFill, Stroke: stroke, StrokeWidth: 1, Class: "device-top"},
		Polygon{Points: layout.SideFace(scaled, depth), Fill: sideFill, Stroke: stroke, StrokeWidth: 1, Class: "device-side"},
		Polygon{Points: layout.FrontFace(scaled), Fill: fill, Stroke: stroke, StrokeWidth: 1, Class: "device-front"},
	)

	if c.labels {
		center := layout.Project(layout.Point{X: scaled.CenterX(), Y: scaled.CenterY()})
		fit := styles.FitText(d.p.Label(), scaled.W-labelPadPx, c.cfg.MaxFontSize*c.zoom, c.cfg.MinFontSize*c.zoom, c.cfg.CharWidthRatio)
		scene.Add(Text{
			X: center.X, Y: center.Y + fit.FontSize*0.35,
			Content:  fit.Text,
			FontSize: fit.FontSize,
			Fill:     c.theme.DeviceText,
			Anchor:   "middle",
			Class:    "device-label",
		})
	}
}

func (c *composer) composePorts(scene *Scene, scaled layout.Rect, d resolved) {
	pl := ports.Calculate(c.cfg, scaled.W, scaled.H, d.dt.Interfaces, c.zoom)
	switch pl.Kind {
	case ports.KindIndividual:
		for _, p := range pl.Positions {
			scene.Add(Circle{
				CX: scaled.X + p.X, CY: scaled.Y + p.Y, R: pl.Radius,
				Fill:        c.theme.PortFill,
				Stroke:      c.theme.PortStroke,
				StrokeWidth: 0.5,
				Class:       "port",
			})
		}
	case ports.KindGrouped:
		// Badge metrics scale with zoom like the device rect they sit
		// in, so capacity stays the same at every zoom level.
		z := c.zoom
		size := c.cfg.MinFontSize * z
		x := scaled.X + badgeInsetPx*z
		y := scaled.Bottom() - (badgeHPx+badgeInsetPx)*z
		for _, b := range pl.Badges {
			label := b.Type + " ×" + strconv.Itoa(b.Count)
			w := float64(len([]rune(label)))*size*c.cfg.CharWidthRatio + 2*badgePadPx*z
			if x+w > scaled.Right()-badgeInsetPx*z {
				break
			}
			scene.Add(Badge{
				X: x, Y: y, W: w, H: badgeHPx * z,
				Fill:     c.theme.PortFill,
				TextFill: c.theme.PortStroke,
				Label:    label,
				FontSize: size,
				Class:    "port-group",
			})
			x += w + badgeGapPx*z
		}
	}
}

func (c *composer) composeLabel(scene *Scene, scaled layout.Rect, label string) {
	fit := styles.FitText(label, scaled.W-labelPadPx, c.cfg.MaxFontSize*c.zoom, c.cfg.MinFontSize*c.zoom, c.cfg.CharWidthRatio)
	if fit.Text == "" {
		return
	}
	scene.Add(Text{
		X:        scaled.CenterX(),
		Y:        scaled.CenterY() + fit.FontSize*0.35,
		Content:  fit.Text,
		FontSize: fit.FontSize,
		Fill:     c.theme.DeviceText,
		Anchor:   "middle",
		Class:    "device-label",
	})
}

// composeLegend appends one row per distinct device type, in first-use
// order, and returns the added height.
func (c *composer) composeLegend(scene *Scene, devices []resolved, startY float64) float64 {
	seen := make(map[string]bool)
	var entries []resolved
	for _, d := range devices {
		if seen[d.dt.Slug] {
			continue
		}
		seen[d.dt.Slug] = true
		entries = append(entries, d)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].dt.Slug < entries[j].dt.Slug })

	y := startY + legendPadPx
	for _, d := range entries {
		fill := c.theme.DeviceFill("", d.dt.Colour, d.dt.Category)
		scene.Add(
			Badge{X: 0, Y: y, W: 14, H: 14, Fill: fill, Class: "legend-swatch"},
			Text{
				X: 20, Y: y + 11,
				Content:  d.dt.DisplayName(),
				FontSize: c.cfg.MinFontSize,
				Fill:     c.theme.UnitText,
				Anchor:   "start",
				Class:    "legend-label",
			},
		)
		y += legendRowPx
	}
	return y - startY + legendPadPx
}
