package render

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ToPNG converts SVG bytes to PNG at the given scale factor. A scale of
// 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install
// librsvg2-bin (Linux).
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	args := []string{"--format", "png"}
	if scale > 0 && scale != 1 {
		args = append(args, "--zoom", strconv.FormatFloat(scale, 'f', -1, 64))
	}
	return rsvgConvert(svg, args)
}

// ToPDF converts SVG bytes to a single-page PDF.
//
// Requires librsvg: brew install librsvg (macOS), apt install
// librsvg2-bin (Linux).
func ToPDF(svg []byte) ([]byte, error) {
	return rsvgConvert(svg, []string{"--format", "pdf"})
}

func rsvgConvert(svg []byte, args []string) ([]byte, error) {
	cmd := exec.Command("rsvg-convert", args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("rsvg-convert not found: install librsvg (brew install librsvg / apt install librsvg2-bin)")
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("rsvg-convert: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("rsvg-convert: %w", err)
	}
	return out.Bytes(), nil
}
