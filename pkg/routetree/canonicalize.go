package routetree

import (
	"errors"
	"strings"
)

// Path canonicalization errors.
var (
	ErrBackslashInPath      = errors.New("path contains backslash")
	ErrNullByteInPath       = errors.New("path contains null byte")
	ErrInvalidPercentEscape = errors.New("invalid percent escape sequence")
	ErrPathEscapesRoot      = errors.New("path escapes root via ..")
)

// Canonicalize normalizes a URL path into the canonical cache-key form.
//
// The following transformations are applied:
//   - Drop the query string (cache keys exclude query parameters)
//   - Remove trailing slash (except for root "/")
//   - Collapse multiple slashes (/blog//post -> /blog/post)
//   - Remove "." segments (/blog/./post -> /blog/post)
//   - Resolve ".." segments (/blog/../other -> /other)
//
// The following inputs are rejected with an error:
//   - Paths containing backslash (\)
//   - Paths containing NUL (literal or %00)
//   - Invalid percent-escapes (e.g., %GG, %2)
//   - ".." that would escape root (e.g., /../secret)
func Canonicalize(input string) (string, error) {
	if input == "" {
		return "/", nil
	}

	path, _, _ := strings.Cut(input, "?")

	// SECURITY: Reject backslash.
	if strings.Contains(path, "\\") {
		return "", ErrBackslashInPath
	}

	// SECURITY: Reject NUL byte (both literal and encoded).
	if strings.Contains(path, "\x00") || strings.Contains(strings.ToUpper(path), "%00") {
		return "", ErrNullByteInPath
	}

	if strings.Contains(path, "%") {
		if err := validatePercentEscapes(path); err != nil {
			return "", err
		}
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}

	segments := strings.Split(path, "/")
	var result []string

	for _, seg := range segments {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(result) > 0 {
				result = result[:len(result)-1]
			} else {
				// SECURITY: ".." escapes root.
				return "", ErrPathEscapesRoot
			}
		default:
			result = append(result, seg)
		}
	}

	path = "/" + strings.Join(result, "/")

	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}

	return path, nil
}

// validatePercentEscapes checks that all percent-escapes are valid.
// Valid escapes are %XX where X is a hex digit (0-9, a-f, A-F).
func validatePercentEscapes(path string) error {
	i := 0
	for i < len(path) {
		if path[i] == '%' {
			if i+2 >= len(path) {
				return ErrInvalidPercentEscape
			}
			if !isHexDigit(path[i+1]) || !isHexDigit(path[i+2]) {
				return ErrInvalidPercentEscape
			}
			i += 3
		} else {
			i++
		}
	}
	return nil
}

// isHexDigit returns true if c is a valid hex digit.
func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
