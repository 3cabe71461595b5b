package blog

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var lower = cases.Lower(language.Mongolian)

// Slugify converts a title to a URL-safe slug. ASCII letters and digits,
// every rune of the Cyrillic block (U+0400 to U+04FF) and hyphens survive; whitespace and underscores become
// hyphens; everything else is dropped.
func Slugify(s string) string {
	s = lower.String(norm.NFC.String(strings.TrimSpace(s)))
	var b strings.Builder
	pendingHyphen := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r), r == '_', r == '-':
			pendingHyphen = true
		case keepRune(r):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		}
	}
	return b.String()
}

func keepRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r >= 0x0400 && r <= 0x04FF:
		return true
	}
	return false
}

// UniqueSlug returns base, or base with the first free numeric suffix
// ("-2", "-3", ...) when taken reports it in use. An empty base becomes
// "post".
func UniqueSlug(base string, taken func(string) bool) string {
	if base == "" {
		base = "post"
	}
	if taken == nil || !taken(base) {
		return base
	}
	for n := 2; ; n++ {
		candidate := base + "-" + strconv.Itoa(n)
		if !taken(candidate) {
			return candidate
		}
	}
}
