package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// puzzleIDRegex matches identifiers safe to use as output file stems.
var puzzleIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidatePuzzleID validates a puzzle identifier before it is turned into an
// output file name such as "<id>.png".
//
// The validation rules are intentionally conservative:
//   - No empty IDs
//   - Maximum length of 128 characters
//   - No control characters, path separators or traversal sequences
//   - Must start with a letter or digit
func ValidatePuzzleID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidPath, "puzzle id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidPath, "puzzle id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "puzzle id contains invalid control characters")
		}
	}

	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidPath, "puzzle id cannot contain path traversal sequences (..)")
	}

	if !puzzleIDRegex.MatchString(id) {
		return New(ErrCodeInvalidPath, "invalid puzzle id: %q", id)
	}

	return nil
}

// ValidatePath validates an output path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
