package main

import (
	"regexp"
	"strings"
)

var (
	tagPattern   = regexp.MustCompile(`<[^>]+>`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// normalizeText strips leftover tag-like text, replaces everything that is
// not a CJK ideograph (U+4E00..U+9FA5) or an ASCII letter or digit with a
// space, collapses whitespace runs and trims.
func normalizeText(text string) string {
	text = tagPattern.ReplaceAllString(text, "")
	text = strings.Map(func(r rune) rune {
		if keepRune(r) {
			return r
		}
		return ' '
	}, text)
	text = spacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func keepRune(r rune) bool {
	switch {
	case r >= 0x4e00 && r <= 0x9fa5:
		return true
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return false
}
