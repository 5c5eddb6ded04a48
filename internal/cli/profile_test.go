package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rackworks/rackviz/pkg/pipeline"
)

const testProfilesTOML = `
[profile.print]
theme = "light"
zoom = 1.5
views = ["front", "rear"]
legend = true
labels = false
formats = ["svg", "pdf"]

[profile.thumb]
zoom = 0.4
`

func writeProfiles(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), profilesFileName)
	if err := os.WriteFile(path, []byte(testProfilesTOML), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadProfiles(t *testing.T) {
	profiles, err := loadProfiles(writeProfiles(t))
	if err != nil {
		t.Fatal(err)
	}
	if len(profiles) != 2 {
		t.Fatalf("profiles = %d, want 2", len(profiles))
	}

	print := profiles["print"]
	if print.Theme != "light" || print.Zoom != 1.5 {
		t.Errorf("print profile = %+v", print)
	}
	if print.Legend == nil || !*print.Legend {
		t.Error("legend should be set true")
	}
	if print.Labels == nil || *print.Labels {
		t.Error("labels should be set false")
	}
	if print.Projection != nil {
		t.Error("projection should stay unset")
	}
}

func TestMergeProfile(t *testing.T) {
	profiles, err := loadProfiles(writeProfiles(t))
	if err != nil {
		t.Fatal(err)
	}

	opts := pipeline.Options{Theme: "dark", Zoom: 1, Projection: true}
	mergeProfile(&opts, profiles["print"])

	if opts.Theme != "light" {
		t.Errorf("theme = %q", opts.Theme)
	}
	if opts.Zoom != 1.5 {
		t.Errorf("zoom = %g", opts.Zoom)
	}
	if !reflect.DeepEqual(opts.Views, []string{"front", "rear"}) {
		t.Errorf("views = %v", opts.Views)
	}
	if !opts.Legend {
		t.Error("legend should be enabled")
	}
	if !opts.NoLabels {
		t.Error("labels=false should disable labels")
	}
	if !opts.Projection {
		t.Error("unset projection must not override the flag")
	}
	if !reflect.DeepEqual(opts.Formats, []string{"svg", "pdf"}) {
		t.Errorf("formats = %v", opts.Formats)
	}
}

func TestMergeProfilePartial(t *testing.T) {
	profiles, err := loadProfiles(writeProfiles(t))
	if err != nil {
		t.Fatal(err)
	}

	opts := pipeline.Options{Theme: "dark", Zoom: 2}
	mergeProfile(&opts, profiles["thumb"])

	if opts.Theme != "dark" {
		t.Errorf("theme = %q, profile without theme must not clear it", opts.Theme)
	}
	if opts.Zoom != 0.4 {
		t.Errorf("zoom = %g", opts.Zoom)
	}
}
