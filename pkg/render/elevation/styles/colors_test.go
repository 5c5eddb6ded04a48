package styles

import (
	"regexp"
	"testing"

	"github.com/rackworks/rackviz/pkg/errors"
)

var hexRe = regexp.MustCompile(`^#[0-9a-f]{6}$`)

func TestParseHex(t *testing.T) {
	cases := []struct {
		in      string
		r, g, b uint8
		ok      bool
	}{
		{"#2196f3", 0x21, 0x96, 0xf3, true},
		{"2196F3", 0x21, 0x96, 0xf3, true},
		{"#f00", 0xff, 0, 0, true},
		{" #abc ", 0xaa, 0xbb, 0xcc, true},
		{"", 0, 0, 0, false},
		{"#12345", 0, 0, 0, false},
		{"#gggggg", 0, 0, 0, false},
		{"red", 0, 0, 0, false},
	}
	for _, tc := range cases {
		r, g, b, err := ParseHex(tc.in)
		if tc.ok {
			if err != nil {
				t.Errorf("ParseHex(%q): %v", tc.in, err)
				continue
			}
			if r != tc.r || g != tc.g || b != tc.b {
				t.Errorf("ParseHex(%q) = %02x%02x%02x", tc.in, r, g, b)
			}
		} else if !errors.Is(err, errors.ErrCodeInvalidColor) {
			t.Errorf("ParseHex(%q) err = %v, want INVALID_COLOR_FORMAT", tc.in, err)
		}
	}
}

func TestDarkenLighten(t *testing.T) {
	dark, err := Darken("#2196f3", 0.15)
	if err != nil {
		t.Fatal(err)
	}
	if !hexRe.MatchString(dark) {
		t.Errorf("Darken output %q is not canonical hex", dark)
	}

	light, err := Lighten("#2196f3", 0.15)
	if err != nil {
		t.Fatal(err)
	}

	// Lightness must move in the right direction while staying the same hue
	// family: darker sum of channels below, lighter above.
	sum := func(s string) int {
		r, g, b, perr := ParseHex(s)
		if perr != nil {
			t.Fatal(perr)
		}
		return int(r) + int(g) + int(b)
	}
	base := sum("#2196f3")
	if sum(dark) >= base {
		t.Errorf("Darken did not darken: %s vs #2196f3", dark)
	}
	if sum(light) <= base {
		t.Errorf("Lighten did not lighten: %s vs #2196f3", light)
	}
}

// Shading scales lightness instead of subtracting it, so a mid grey
// darkened by half lands halfway to black rather than at black.
func TestShadeScalesLightness(t *testing.T) {
	half, err := Darken("#808080", 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if half != "#404040" {
		t.Errorf("Darken(#808080, 0.5) = %s, want #404040", half)
	}

	up, err := Lighten("#808080", 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if up != "#c0c0c0" {
		t.Errorf("Lighten(#808080, 0.5) = %s, want #c0c0c0", up)
	}

	// A darken fraction larger than the lightness must not clamp to
	// black; scaling always leaves a proportional remainder.
	dim, err := Darken("#202020", 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if dim == "#000000" {
		t.Error("Darken(#202020, 0.5) clamped to black")
	}
	if dim != "#101010" {
		t.Errorf("Darken(#202020, 0.5) = %s, want #101010", dim)
	}
}

func TestDarkenClamps(t *testing.T) {
	black, err := Darken("#102030", 1.0)
	if err != nil {
		t.Fatal(err)
	}
	if black != "#000000" {
		t.Errorf("full darken = %s, want #000000", black)
	}

	white, err := Lighten("#e0e0e0", 1.0)
	if err != nil {
		t.Fatal(err)
	}
	if white != "#ffffff" {
		t.Errorf("full lighten = %s, want #ffffff", white)
	}
}

func TestShiftPreservesGrey(t *testing.T) {
	// Greys have zero saturation; shading must keep them grey.
	out, err := Darken("#808080", 0.1)
	if err != nil {
		t.Fatal(err)
	}
	r, g, b, _ := ParseHex(out)
	if r != g || g != b {
		t.Errorf("Darken(#808080) = %s is not grey", out)
	}
}

func TestRGBHSLRoundTrip(t *testing.T) {
	for _, hex := range []string{"#2196f3", "#f44336", "#4caf50", "#000000", "#ffffff", "#123456"} {
		r, g, b, err := ParseHex(hex)
		if err != nil {
			t.Fatal(err)
		}
		h, s, l := rgbToHSL(r, g, b)
		nr, ng, nb := hslToRGB(h, s, l)
		if dr, dg, db := int(nr)-int(r), int(ng)-int(g), int(nb)-int(b); abs(dr) > 1 || abs(dg) > 1 || abs(db) > 1 {
			t.Errorf("round trip %s -> #%02x%02x%02x", hex, nr, ng, nb)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
