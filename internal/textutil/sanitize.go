package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// illegalReplacement substitutes every character a filesystem rejects.
const illegalReplacement = '_'

// SanitizeFileName replaces characters that are illegal in a file name on
// Windows, macOS, or Linux with an underscore. Control characters count as
// illegal. The rune count and every legal rune position are preserved, so the
// result may still be empty or carry surrounding whitespace.
func SanitizeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		if isIllegalFileNameRune(r) {
			return illegalReplacement
		}
		return r
	}, name)
}

func isIllegalFileNameRune(r rune) bool {
	if r < 0x20 {
		return true
	}
	switch r {
	case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
		return true
	}
	return false
}

// NormalizeTitle composes a remote title to NFC and trims surrounding space.
// Apply it before sanitizing so visually identical titles map to one file name.
func NormalizeTitle(title string) string {
	return strings.TrimSpace(norm.NFC.String(title))
}
