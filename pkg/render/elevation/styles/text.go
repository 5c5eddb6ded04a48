package styles

import "math"

const ellipsis = "…"

// TextFit is the result of fitting a label into a horizontal budget.
type TextFit struct {
	Text     string
	FontSize float64
}

// FitText finds the largest font size in [minSize, maxSize] at which
// label fits in availWidth, estimating rendered width as
// len × fontSize × charWidthRatio. The search walks downward in
// half-point steps. If the label does not fit even at minSize it is
// truncated with a trailing ellipsis at minSize.
//
// Degenerate inputs have fixed answers rather than errors: an empty
// label fits at maxSize, and a non-positive width yields a bare
// ellipsis at minSize.
func FitText(label string, availWidth, maxSize, minSize, charWidthRatio float64) TextFit {
	if label == "" {
		return TextFit{Text: "", FontSize: maxSize}
	}
	if availWidth <= 0 {
		return TextFit{Text: ellipsis, FontSize: minSize}
	}

	runes := []rune(label)
	n := float64(len(runes))
	for size := maxSize; size >= minSize; size -= 0.5 {
		if n*size*charWidthRatio <= availWidth {
			return TextFit{Text: label, FontSize: size}
		}
	}

	// Truncate at the minimum size, reserving room for the ellipsis.
	maxChars := int(math.Floor(availWidth/(minSize*charWidthRatio))) - 1
	if maxChars < 1 {
		return TextFit{Text: ellipsis, FontSize: minSize}
	}
	return TextFit{Text: string(runes[:maxChars]) + ellipsis, FontSize: minSize}
}
