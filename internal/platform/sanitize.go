package platform

import "strings"

// DefaultMaxNameLength bounds sanitized filenames.
const DefaultMaxNameLength = 60

// SanitizeFilename makes a raw title safe for common filesystems, bounded to
// DefaultMaxNameLength characters.
func SanitizeFilename(name string) string {
	return SanitizeFilenameN(name, DefaultMaxNameLength)
}

// SanitizeFilenameN replaces characters that are forbidden on common
// filesystems with underscores, trims surrounding whitespace and dots, and
// truncates to maxLength characters. It is total: any input yields a valid
// (possibly empty) result.
func SanitizeFilenameN(name string, maxLength int) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch r {
		case '\\', '/', ':', '*', '?', '"', '<', '>', '|', '\n', '\r', '\t':
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}

	clean := strings.TrimSpace(b.String())
	clean = strings.Trim(clean, ".")

	if runes := []rune(clean); maxLength > 0 && len(runes) > maxLength {
		clean = string(runes[:maxLength])
	}
	return clean
}
