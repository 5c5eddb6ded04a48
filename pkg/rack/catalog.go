package rack

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rackworks/rackviz/pkg/errors"
)

// Catalog is an ordered, slug-indexed collection of device types.
// Order is preserved from load order so listings are stable.
type Catalog struct {
	types map[string]*DeviceType
	order []string
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{types: make(map[string]*DeviceType)}
}

// Add validates and inserts a device type. Duplicate slugs are rejected.
func (c *Catalog) Add(dt DeviceType) error {
	if err := dt.Validate(); err != nil {
		return err
	}
	if _, exists := c.types[dt.Slug]; exists {
		return errors.New(errors.ErrCodeInvalidInput, "duplicate device type slug %q", dt.Slug)
	}
	c.types[dt.Slug] = &dt
	c.order = append(c.order, dt.Slug)
	return nil
}

// Get returns the device type for slug, if present.
func (c *Catalog) Get(slug string) (*DeviceType, bool) {
	dt, ok := c.types[slug]
	return dt, ok
}

// Slugs returns all slugs in load order.
func (c *Catalog) Slugs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of device types in the catalog.
func (c *Catalog) Len() int { return len(c.order) }

// Types returns all device types in load order. Used to serialize a
// catalog for caching.
func (c *Catalog) Types() []DeviceType {
	out := make([]DeviceType, 0, len(c.order))
	for _, slug := range c.order {
		out = append(out, *c.types[slug])
	}
	return out
}

// LoadCatalogDir loads every *.yaml / *.yml file under dir as a device
// type definition, one definition per file (the devicetype-library
// layout). Files are visited in lexical order.
func LoadCatalogDir(dir string) (*Catalog, error) {
	if err := errors.ValidatePath(dir); err != nil {
		return nil, err
	}

	cat := NewCatalog()
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isYAML(path) {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		defer f.Close()

		dt, err := ParseDeviceType(f)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		return cat.Add(dt)
	})
	if err != nil {
		return nil, err
	}
	return cat, nil
}

// ParseDeviceType decodes a single device type definition from r.
func ParseDeviceType(r io.Reader) (DeviceType, error) {
	var dt DeviceType
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&dt); err != nil {
		return DeviceType{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode device type")
	}
	return dt, nil
}

// LoadRackFile loads a rack definition (rack metadata plus placements
// and cables) from a YAML file.
func LoadRackFile(path string) (*Rack, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	defer f.Close()
	return ParseRack(f)
}

// ParseRack decodes a rack definition from r and normalizes it:
// placements without an ID are assigned a stable synthetic one so
// conflict reports can always name the colliding entry.
func ParseRack(r io.Reader) (*Rack, error) {
	var rk Rack
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&rk); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRack, err, "decode rack")
	}
	rk.Normalize()
	return &rk, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
