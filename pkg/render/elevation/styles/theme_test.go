package styles

import (
	"testing"

	"github.com/rackworks/rackviz/pkg/errors"
)

func TestThemeByName(t *testing.T) {
	for _, name := range ThemeNames() {
		th, err := ThemeByName(name)
		if err != nil {
			t.Errorf("ThemeByName(%s): %v", name, err)
		}
		if th.Name != name {
			t.Errorf("theme %s has Name %s", name, th.Name)
		}
		for field, v := range map[string]string{
			"Background": th.Background,
			"Frame":      th.Frame,
			"Fallback":   th.Fallback,
		} {
			if !hexRe.MatchString(v) {
				t.Errorf("theme %s: %s = %q is not canonical hex", name, field, v)
			}
		}
	}

	if _, err := ThemeByName("solarized"); !errors.Is(err, errors.ErrCodeInvalidTheme) {
		t.Errorf("unknown theme err = %v, want INVALID_THEME", err)
	}
}

func TestDeviceFill(t *testing.T) {
	th := DefaultTheme()

	if got := th.DeviceFill("#ABC", "#2196f3", "switch"); got != "#aabbcc" {
		t.Errorf("override should win, got %s", got)
	}
	if got := th.DeviceFill("", "#2196f3", "switch"); got != "#2196f3" {
		t.Errorf("type colour should win, got %s", got)
	}
	if got := th.DeviceFill("", "", "server"); got != categoryColors["server"] {
		t.Errorf("category default, got %s", got)
	}
	if got := th.DeviceFill("", "", "mystery"); got != th.Fallback {
		t.Errorf("unknown category should use fallback, got %s", got)
	}
	// An unparseable colour degrades to the category default instead of
	// failing the render.
	if got := th.DeviceFill("not-a-color", "", "switch"); got != categoryColors["switch"] {
		t.Errorf("bad override should degrade, got %s", got)
	}
}

func TestCableColor(t *testing.T) {
	th := DefaultTheme()
	if got := th.CableColor("CAT6"); got != "#f44336" {
		t.Errorf("cat6 = %s", got)
	}
	if got := th.CableColor("unknown-medium"); got != th.Frame {
		t.Errorf("unknown medium = %s, want frame color", got)
	}
}
