package styles

import (
	"strings"

	"github.com/rackworks/rackviz/pkg/errors"
)

// Theme is a named color palette for elevation rendering.
type Theme struct {
	Name       string
	Background string
	Frame      string // rack outline and rails
	RailFill   string
	UnitText   string // unit number labels
	DeviceText string
	Stroke     string // device rect outline
	Fallback   string // device fill when no colour is set
	PortFill   string
	PortStroke string
}

var themes = map[string]Theme{
	"light": {
		Name:       "light",
		Background: "#ffffff",
		Frame:      "#37474f",
		RailFill:   "#eceff1",
		UnitText:   "#78909c",
		DeviceText: "#ffffff",
		Stroke:     "#263238",
		Fallback:   "#9e9e9e",
		PortFill:   "#eceff1",
		PortStroke: "#455a64",
	},
	"dark": {
		Name:       "dark",
		Background: "#1c1e22",
		Frame:      "#90a4ae",
		RailFill:   "#2b2f36",
		UnitText:   "#78909c",
		DeviceText: "#eceff1",
		Stroke:     "#0c0e10",
		Fallback:   "#546e7a",
		PortFill:   "#2b2f36",
		PortStroke: "#b0bec5",
	},
}

// DefaultTheme is used when the caller does not pick one.
func DefaultTheme() Theme { return themes["light"] }

// ThemeByName resolves a theme by its lowercase name.
func ThemeByName(name string) (Theme, error) {
	if t, ok := themes[strings.ToLower(name)]; ok {
		return t, nil
	}
	return Theme{}, errors.New(errors.ErrCodeInvalidTheme, "unknown theme %q (valid: %s)", name, strings.Join(ThemeNames(), ", "))
}

// ThemeNames lists the available themes in stable order.
func ThemeNames() []string { return []string{"dark", "light"} }

// categoryColors maps device categories to default fills, used when a
// device type carries no colour of its own.
var categoryColors = map[string]string{
	"switch":      "#2196f3",
	"router":      "#3f51b5",
	"firewall":    "#f44336",
	"server":      "#4caf50",
	"storage":     "#ff9800",
	"patch-panel": "#795548",
	"pdu":         "#607d8b",
	"ups":         "#9c27b0",
	"blank":       "#bdbdbd",
}

// CategoryColor returns the default fill for a device category, or the
// theme fallback for unknown categories.
func (t Theme) CategoryColor(category string) string {
	if c, ok := categoryColors[strings.ToLower(category)]; ok {
		return c
	}
	return t.Fallback
}

// cableColors follows the NetBox convention of per-medium cable colors.
var cableColors = map[string]string{
	"cat5e": "#4caf50",
	"cat6":  "#f44336",
	"cat6a": "#ffeb3b",
	"cat7":  "#ff9800",
	"dac":   "#000000",
	"fiber": "#00bcd4",
	"om3":   "#00bcd4",
	"om4":   "#2196f3",
	"os2":   "#9c27b0",
	"power": "#616161",
}

// CableColor returns the conventional color for a cable medium, or the
// theme frame color when the medium is unknown.
func (t Theme) CableColor(cableType string) string {
	if c, ok := cableColors[strings.ToLower(cableType)]; ok {
		return c
	}
	return t.Frame
}

// DeviceFill resolves the fill color for a placement: an explicit
// per-placement override wins, then the device type colour, then the
// category default. The returned value is normalized; an unparseable
// colour falls back to the category default rather than failing the
// render.
func (t Theme) DeviceFill(override, typeColour, category string) string {
	for _, c := range []string{override, typeColour} {
		if c == "" {
			continue
		}
		if n, err := Normalize(c); err == nil {
			return n
		}
	}
	return t.CategoryColor(category)
}
