package rack

import (
	"github.com/rackworks/rackviz/pkg/errors"
)

// faceSet is the effective face occupancy of a placement as a bitmask.
// A full-depth device occupies both faces regardless of its declared
// face; a half-depth device occupies only the face it was placed on.
type faceSet uint8

const (
	occFront faceSet = 1 << iota
	occRear
)

func (s faceSet) intersects(o faceSet) bool { return s&o != 0 }

// occupancy computes the effective face set for a placement.
func occupancy(face Face, fullDepth bool) faceSet {
	if fullDepth || face == FaceBoth {
		return occFront | occRear
	}
	if face == FaceRear {
		return occRear
	}
	return occFront
}

// Result is the outcome of a placement validation. Conflicts carries the
// IDs of every existing placement the candidate collides with, so an
// editing surface can explain exactly what is in the way. Conflicts are
// ordinary values, not errors: they are an expected outcome of editing.
type Result struct {
	OK        bool
	Conflicts []string
}

// ValidatePlacement checks whether candidate can legally occupy its
// position in r. It returns an error for precondition violations
// (unknown device type, invalid face, out-of-bounds range) and a
// Result value for the collision outcome.
//
// Two placements collide iff their occupied unit ranges intersect AND
// their effective face sets intersect. A full-depth device blocks both
// faces over its range; two half-depth devices on opposite faces at the
// same position do not collide.
//
// An existing placement with the same ID as the candidate is skipped,
// so move and resize operations can re-validate in place.
func ValidatePlacement(r *Rack, candidate PlacedDevice, cat *Catalog) (Result, error) {
	dt, ok := cat.Get(candidate.DeviceType)
	if !ok {
		return Result{}, errors.New(errors.ErrCodeDeviceTypeNotFound,
			"placement %s references unknown device type %q", candidate.ID, candidate.DeviceType)
	}
	if !candidate.Face.Valid() {
		return Result{}, errors.New(errors.ErrCodeInvalidInput,
			"placement %s: invalid face %q", candidate.ID, candidate.Face)
	}
	if !isHalfStep(candidate.Position) {
		return Result{}, errors.New(errors.ErrCodeInvalidInput,
			"placement %s: position %.2f is not a 0.5U increment", candidate.ID, candidate.Position)
	}

	lo, hi := unitRange(candidate.Position, dt.UHeight)
	if lo < 1 || hi > float64(r.Height)+1 {
		return Result{}, errors.New(errors.ErrCodeOutOfBounds,
			"placement %s: units [%.1f, %.1f] exceed rack height %d",
			candidate.ID, lo, hi-1, r.Height)
	}

	faces := occupancy(candidate.Face, dt.IsFullDepth)

	var conflicts []string
	for i := range r.Devices {
		other := &r.Devices[i]
		if other.ID != "" && other.ID == candidate.ID {
			continue
		}
		odt, ok := cat.Get(other.DeviceType)
		if !ok {
			return Result{}, errors.New(errors.ErrCodeDeviceTypeNotFound,
				"placement %s references unknown device type %q", other.ID, other.DeviceType)
		}

		olo, ohi := unitRange(other.Position, odt.UHeight)
		if lo >= ohi || olo >= hi {
			continue
		}
		if faces.intersects(occupancy(other.Face, odt.IsFullDepth)) {
			conflicts = append(conflicts, other.ID)
		}
	}

	return Result{OK: len(conflicts) == 0, Conflicts: conflicts}, nil
}

// unitRange returns the half-open occupied unit interval [lo, hi) for a
// placement starting at position with the given height. A 2U device at
// position 1 occupies [1, 3), i.e. units 1 and 2.
func unitRange(position, height float64) (lo, hi float64) {
	return position, position + height
}
