// Package storage keeps uploaded affiliate photos.
package storage

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// SanitizeFilename reduces a client-supplied filename to a safe single path
// component made of ASCII letters, digits, '_', '-' and '.'. It returns "" when
// nothing usable is left.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	// Non-ASCII runes go first so whitespace around them collapses together;
	// accents decompose into base letter + combining mark and the mark is dropped.
	ascii := strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, norm.NFKD.String(name))
	name = strings.Join(strings.Fields(ascii), "_")

	var b strings.Builder
	for _, r := range name {
		if r == '.' || r == '_' || r == '-' ||
			('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9') {
			b.WriteRune(r)
		}
	}

	return strings.Trim(b.String(), "._")
}
