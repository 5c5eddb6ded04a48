// Package rack defines the data model for racks, device types, and
// placements, along with catalog loading and placement validation.
//
// The model follows the NetBox devicetype-library field conventions
// (slug, u_height, is_full_depth, mgmt_only) so existing catalog YAML
// can be consumed without translation. All types are plain values:
// the rendering packages only read them and never mutate them.
package rack

import (
	"fmt"
	"math"

	"github.com/rackworks/rackviz/pkg/errors"
)

// Face identifies which side of the rack a placement occupies.
type Face string

// Rack faces.
const (
	FaceFront Face = "front"
	FaceRear  Face = "rear"
	FaceBoth  Face = "both"
)

// Valid reports whether f is a known face value.
func (f Face) Valid() bool {
	return f == FaceFront || f == FaceRear || f == FaceBoth
}

// Opposite returns the opposing face. FaceBoth is its own opposite.
func (f Face) Opposite() Face {
	switch f {
	case FaceFront:
		return FaceRear
	case FaceRear:
		return FaceFront
	default:
		return FaceBoth
	}
}

// WidthClass is the nominal rack width in inches.
type WidthClass int

// Supported rack width classes.
const (
	Width10 WidthClass = 10
	Width19 WidthClass = 19
	Width21 WidthClass = 21
	Width23 WidthClass = 23
)

// Valid reports whether w is a supported width class.
func (w WidthClass) Valid() bool {
	switch w {
	case Width10, Width19, Width21, Width23:
		return true
	}
	return false
}

// Interface is a named port on a device type, tagged with a physical
// type (copper/fiber/speed class, e.g. "1000base-t", "10gbase-x-sfpp").
type Interface struct {
	Name     string `yaml:"name" json:"name"`
	Type     string `yaml:"type" json:"type"`
	MgmtOnly bool   `yaml:"mgmt_only,omitempty" json:"mgmt_only,omitempty"`
}

// DeviceType is a catalog entry describing a class of equipment.
// Entries are referenced by slug from placements and are read-only to
// the layout and rendering code.
type DeviceType struct {
	Slug         string      `yaml:"slug" json:"slug"`
	Manufacturer string      `yaml:"manufacturer,omitempty" json:"manufacturer,omitempty"`
	Model        string      `yaml:"model,omitempty" json:"model,omitempty"`
	UHeight      float64     `yaml:"u_height" json:"u_height"`
	IsFullDepth  bool        `yaml:"is_full_depth,omitempty" json:"is_full_depth,omitempty"`
	Colour       string      `yaml:"colour,omitempty" json:"colour,omitempty"`
	Category     string      `yaml:"category,omitempty" json:"category,omitempty"`
	Interfaces   []Interface `yaml:"interfaces,omitempty" json:"interfaces,omitempty"`
}

// Height limits for device types, in rack units.
const (
	MinUHeight = 0.5
	MaxUHeight = 42
)

// Validate checks the device type's slug and height constraints.
// Heights must fall in [0.5, 42] in 0.5U increments.
func (d *DeviceType) Validate() error {
	if err := errors.ValidateSlug(d.Slug); err != nil {
		return err
	}
	if d.UHeight < MinUHeight || d.UHeight > MaxUHeight {
		return errors.New(errors.ErrCodeInvalidInput,
			"device type %s: u_height %.1f outside [%.1f, %d]", d.Slug, d.UHeight, MinUHeight, MaxUHeight)
	}
	if !isHalfStep(d.UHeight) {
		return errors.New(errors.ErrCodeInvalidInput,
			"device type %s: u_height %.2f is not a 0.5U increment", d.Slug, d.UHeight)
	}
	return nil
}

// DisplayName returns a human-readable name for the device type.
func (d *DeviceType) DisplayName() string {
	if d.Model != "" {
		return d.Model
	}
	return d.Slug
}

// PlacedDevice is an instance of a DeviceType placed into a rack.
// Position is the bottom-most occupied unit, 1-based, in 0.5U steps.
type PlacedDevice struct {
	ID             string  `yaml:"id,omitempty" json:"id,omitempty"`
	DeviceType     string  `yaml:"device_type" json:"device_type"`
	Position       float64 `yaml:"position" json:"position"`
	Face           Face    `yaml:"face" json:"face"`
	ColourOverride string  `yaml:"colour_override,omitempty" json:"colour_override,omitempty"`
	Name           string  `yaml:"name,omitempty" json:"name,omitempty"`
	Notes          string  `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// Label returns the text shown on the device in rendered output:
// the per-instance name when set, otherwise the device type slug.
func (p *PlacedDevice) Label() string {
	if p.Name != "" {
		return p.Name
	}
	return p.DeviceType
}

// CableEnd identifies one termination of a cable: a placement ID and
// an interface name on that placement's device type.
type CableEnd struct {
	Device    string `yaml:"device" json:"device"`
	Interface string `yaml:"interface" json:"interface"`
}

// Cable connects two device interfaces. Cables do not participate in
// elevation layout; they feed the topology export.
type Cable struct {
	A    CableEnd `yaml:"a" json:"a"`
	B    CableEnd `yaml:"b" json:"b"`
	Type string   `yaml:"type,omitempty" json:"type,omitempty"`
}

// Rack is a container of placed devices.
type Rack struct {
	ID        string         `yaml:"id,omitempty" json:"id,omitempty"`
	Name      string         `yaml:"name" json:"name"`
	Height    int            `yaml:"height" json:"height"`
	Width     WidthClass     `yaml:"width" json:"width"`
	DescUnits bool           `yaml:"desc_units,omitempty" json:"desc_units,omitempty"`
	ShowRear  bool           `yaml:"show_rear,omitempty" json:"show_rear,omitempty"`
	Devices   []PlacedDevice `yaml:"devices,omitempty" json:"devices,omitempty"`
	Cables    []Cable        `yaml:"cables,omitempty" json:"cables,omitempty"`
}

// Rack height limits, in rack units.
const (
	MinRackHeight = 1
	MaxRackHeight = 100
)

// Normalize fills in the defaults the decoders leave empty: a missing
// face becomes front, and a placement without an ID gets a stable
// synthetic one derived from its type and position. When two entries
// would derive the same ID the later one gets an index suffix, so
// every placement stays individually addressable and the self-skip in
// ValidatePlacement never pairs two distinct entries.
func (r *Rack) Normalize() {
	used := make(map[string]bool, len(r.Devices))
	for i := range r.Devices {
		if id := r.Devices[i].ID; id != "" {
			used[id] = true
		}
	}
	for i := range r.Devices {
		p := &r.Devices[i]
		if p.Face == "" {
			p.Face = FaceFront
		}
		if p.ID != "" {
			continue
		}
		id := fmt.Sprintf("%s@%g", p.DeviceType, p.Position)
		for n := 2; used[id]; n++ {
			id = fmt.Sprintf("%s@%g#%d", p.DeviceType, p.Position, n)
		}
		p.ID = id
		used[id] = true
	}
}

// Validate checks the rack's own fields and every placement against the
// catalog: device type references must resolve, placement IDs must be
// unique, positions must be in bounds, and no two placements may
// collide under the face-blocking rule.
func (r *Rack) Validate(cat *Catalog) error {
	if r.Height < MinRackHeight || r.Height > MaxRackHeight {
		return errors.New(errors.ErrCodeInvalidRack,
			"rack %s: height %d outside [%d, %d]", r.Name, r.Height, MinRackHeight, MaxRackHeight)
	}
	if !r.Width.Valid() {
		return errors.New(errors.ErrCodeInvalidRack,
			"rack %s: unsupported width class %d (must be 10, 19, 21 or 23)", r.Name, int(r.Width))
	}

	// A shared ID would make ValidatePlacement treat each duplicate as
	// the other's self and skip the collision check entirely.
	seen := make(map[string]bool, len(r.Devices))
	for i := range r.Devices {
		id := r.Devices[i].ID
		if id == "" {
			continue
		}
		if seen[id] {
			return errors.New(errors.ErrCodeInvalidRack,
				"rack %s: duplicate placement ID %q", r.Name, id)
		}
		seen[id] = true
	}

	// Re-validate each placement against the others by checking it as a
	// candidate; ValidatePlacement skips the entry with the matching ID.
	for i := range r.Devices {
		p := &r.Devices[i]
		res, err := ValidatePlacement(r, *p, cat)
		if err != nil {
			return err
		}
		if !res.OK {
			return errors.New(errors.ErrCodeConflict,
				"rack %s: placement %s collides with %v", r.Name, p.ID, res.Conflicts)
		}
	}
	return nil
}

// Device returns the placement with the given ID, or nil.
func (r *Rack) Device(id string) *PlacedDevice {
	for i := range r.Devices {
		if r.Devices[i].ID == id {
			return &r.Devices[i]
		}
	}
	return nil
}

func isHalfStep(v float64) bool {
	scaled := v * 2
	return math.Abs(scaled-math.Round(scaled)) < 1e-9
}
