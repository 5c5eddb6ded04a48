package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/rackworks/rackviz/pkg/pipeline"
)

// profilesFileName is the render profile file inside the config dir.
const profilesFileName = "profiles.toml"

// renderProfile is a named bundle of render settings, loaded from
// ~/.config/rackviz/profiles.toml. Pointer fields distinguish "unset"
// from an explicit false/zero, so profiles only override what they name.
//
//	[profile.print]
//	theme = "light"
//	zoom = 1.5
//	views = ["front", "rear"]
//	legend = true
//	labels = false
//	formats = ["svg", "pdf"]
type renderProfile struct {
	Theme      string   `toml:"theme"`
	Zoom       float64  `toml:"zoom"`
	Views      []string `toml:"views"`
	Projection *bool    `toml:"projection"`
	Legend     *bool    `toml:"legend"`
	Labels     *bool    `toml:"labels"`
	Formats    []string `toml:"formats"`
	Scale      float64  `toml:"scale"`
}

// profilesFile is the on-disk layout of profiles.toml.
type profilesFile struct {
	Profile map[string]renderProfile `toml:"profile"`
}

// loadProfiles reads and decodes a profiles file.
func loadProfiles(path string) (map[string]renderProfile, error) {
	var pf profilesFile
	if _, err := toml.DecodeFile(path, &pf); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return pf.Profile, nil
}

// profilesPath returns the default profiles.toml location.
func profilesPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, profilesFileName), nil
}

// applyProfile merges the named profile into opts. Profile values win
// over flag values for the fields the profile sets.
func applyProfile(opts *pipeline.Options, name string) error {
	path, err := profilesPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("no profiles file at %s", path)
	}

	profiles, err := loadProfiles(path)
	if err != nil {
		return err
	}
	profile, ok := profiles[name]
	if !ok {
		names := make([]string, 0, len(profiles))
		for n := range profiles {
			names = append(names, n)
		}
		sort.Strings(names)
		return fmt.Errorf("unknown profile %q (have: %v)", name, names)
	}

	mergeProfile(opts, profile)
	return nil
}

// mergeProfile overlays set profile fields onto opts.
func mergeProfile(opts *pipeline.Options, p renderProfile) {
	if p.Theme != "" {
		opts.Theme = p.Theme
	}
	if p.Zoom > 0 {
		opts.Zoom = p.Zoom
	}
	if len(p.Views) > 0 {
		opts.Views = p.Views
	}
	if p.Projection != nil {
		opts.Projection = *p.Projection
	}
	if p.Legend != nil {
		opts.Legend = *p.Legend
	}
	if p.Labels != nil {
		opts.NoLabels = !*p.Labels
	}
	if len(p.Formats) > 0 {
		opts.Formats = p.Formats
	}
	if p.Scale > 0 {
		opts.Scale = p.Scale
	}
}
