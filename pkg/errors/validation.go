package errors

import (
	"strings"
	"unicode"
)

// ValidateSlug validates a device-type slug for safety and correctness.
// Slugs reference catalog entries from rack files and URLs, so the rules
// are intentionally conservative:
//   - No empty slugs
//   - Maximum length of 100 characters
//   - Lowercase letters, digits, hyphens and underscores only
//   - Must not begin or end with a separator
func ValidateSlug(slug string) error {
	if slug == "" {
		return New(ErrCodeInvalidSlug, "slug cannot be empty")
	}

	if len(slug) > 100 {
		return New(ErrCodeInvalidSlug, "slug too long (max 100 characters)")
	}

	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.':
		default:
			return New(ErrCodeInvalidSlug, "slug contains invalid character %q", r)
		}
	}

	if strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-") {
		return New(ErrCodeInvalidSlug, "slug cannot begin or end with a hyphen")
	}

	return nil
}

// ValidatePath validates a catalog or rack file path for safety.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid control characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain traversal sequences")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
