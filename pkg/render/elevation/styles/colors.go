// Package styles provides colors, themes, and text fitting for
// elevation rendering. Colors travel as lowercase "#rrggbb" strings;
// shading goes through HSL so hue is preserved.
package styles

import (
	"fmt"
	"math"
	"strings"

	"github.com/rackworks/rackviz/pkg/errors"
)

// ParseHex parses "#rgb" or "#rrggbb" (case-insensitive, leading '#'
// optional) into 8-bit channels. Anything else is an
// INVALID_COLOR_FORMAT error.
func ParseHex(s string) (r, g, b uint8, err error) {
	hex := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return 0, 0, 0, errors.New(errors.ErrCodeInvalidColor, "invalid color %q", s)
	}
	var rv, gv, bv int
	if _, serr := fmt.Sscanf(hex, "%02x%02x%02x", &rv, &gv, &bv); serr != nil {
		return 0, 0, 0, errors.New(errors.ErrCodeInvalidColor, "invalid color %q", s)
	}
	return uint8(rv), uint8(gv), uint8(bv), nil
}

// Normalize returns the canonical lowercase "#rrggbb" form.
func Normalize(s string) (string, error) {
	r, g, b, err := ParseHex(s)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("#%02x%02x%02x", r, g, b), nil
}

// Darken scales the HSL lightness by (1 − fraction): Darken(c, 0.5)
// halves the lightness. Clamped at black.
func Darken(s string, fraction float64) (string, error) {
	return scaleLightness(s, -fraction)
}

// Lighten scales the HSL lightness by (1 + fraction), clamped at white.
func Lighten(s string, fraction float64) (string, error) {
	return scaleLightness(s, fraction)
}

// scaleLightness is multiplicative, not additive: shading moves a color
// proportionally toward black or white, so a dark color darkened by 0.5
// lands halfway to black instead of clamping straight to it.
func scaleLightness(s string, delta float64) (string, error) {
	r, g, b, err := ParseHex(s)
	if err != nil {
		return "", err
	}
	h, sat, l := rgbToHSL(r, g, b)
	l = clamp01(l * (1 + delta))
	nr, ng, nb := hslToRGB(h, sat, l)
	return fmt.Sprintf("#%02x%02x%02x", nr, ng, nb), nil
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// rgbToHSL converts 8-bit RGB to HSL with h in [0,360), s and l in [0,1].
func rgbToHSL(r8, g8, b8 uint8) (h, s, l float64) {
	r := float64(r8) / 255
	g := float64(g8) / 255
	b := float64(b8) / 255

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	l = (maxC + minC) / 2

	if maxC == minC {
		return 0, 0, l
	}

	d := maxC - minC
	if l > 0.5 {
		s = d / (2 - maxC - minC)
	} else {
		s = d / (maxC + minC)
	}

	switch maxC {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return h * 60, s, l
}

func hslToRGB(h, s, l float64) (uint8, uint8, uint8) {
	if s == 0 {
		v := uint8(math.Round(l * 255))
		return v, v, v
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	hn := h / 360

	conv := func(t float64) uint8 {
		if t < 0 {
			t++
		}
		if t > 1 {
			t--
		}
		var v float64
		switch {
		case t < 1.0/6:
			v = p + (q-p)*6*t
		case t < 1.0/2:
			v = q
		case t < 2.0/3:
			v = p + (q-p)*(2.0/3-t)*6
		default:
			v = p
		}
		return uint8(math.Round(v * 255))
	}
	return conv(hn + 1.0/3), conv(hn), conv(hn - 1.0/3)
}
