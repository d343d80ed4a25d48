package base

import (
	"strings"
	"unsafe"
)

/***************************************
 * Zero-copy conversions
 ***************************************/

func UnsafeBytesFromString(in string) []byte {
	return unsafe.Slice(unsafe.StringData(in), len(in))
}
func UnsafeStringFromBytes(raw []byte) string {
	return unsafe.String(unsafe.SliceData(raw), len(raw))
}

/***************************************
 * Identifiers
 ***************************************/

func IsIdentifierRune(ch rune, first bool) bool {
	switch {
	case ch == '_':
		return true
	case 'a' <= ch && ch <= 'z', 'A' <= ch && ch <= 'Z':
		return true
	case '0' <= ch && ch <= '9':
		return !first
	default:
		return false
	}
}

// IsIdentifier tells if in is a valid C identifier.
func IsIdentifier(in string) bool {
	if len(in) == 0 {
		return false
	}
	for i, ch := range in {
		if !IsIdentifierRune(ch, i == 0) {
			return false
		}
	}
	return true
}

// SanitizeIdentifier replaces every rune outside [A-Za-z0-9_] with exactly one
// underscore, and prefixes an underscore when the result starts with a digit.
// Runs of invalid runes are not collapsed.
func SanitizeIdentifier(in string) string {
	sb := strings.Builder{}
	sb.Grow(len(in) + 1)
	for i, ch := range in {
		if i == 0 && '0' <= ch && ch <= '9' {
			sb.WriteRune('_')
		}
		if IsIdentifierRune(ch, false) {
			sb.WriteRune(ch)
		} else {
			sb.WriteRune('_')
		}
	}
	return sb.String()
}
