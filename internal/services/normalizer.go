package services

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

var (
	newlineRunRe    = regexp.MustCompile(`\n+`)
	whitespaceRunRe = regexp.MustCompile(`[ \t\r\f\v]{2,}`)
	dividerLineRe   = regexp.MustCompile(`^[-_=]{3,}$`)
)

// Drops everything outside 7-bit ASCII plus ASCII control characters that
// are not whitespace. Malformed UTF-8 decodes to utf8.RuneError and is
// dropped with the rest.
var asciiOnly = runes.Remove(runes.Predicate(func(r rune) bool {
	if r >= utf8.RuneSelf {
		return true
	}
	switch r {
	case '\t', '\n', '\v', '\f', '\r':
		return false
	}
	return r < 0x20 || r == 0x7f
}))

// NormalizeText turns extracted resume text into its canonical form:
// ASCII only, single newlines, single spaces, no near-empty lines and no
// decorative divider lines. NormalizeText(NormalizeText(s)) == NormalizeText(s).
func NormalizeText(raw string) string {
	text, _, err := transform.String(asciiOnly, raw)
	if err != nil {
		text = stripNonASCII(raw)
	}

	text = newlineRunRe.ReplaceAllString(text, "\n")
	text = whitespaceRunRe.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	cleanedLines := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) < 2 {
			continue
		}
		if dividerLineRe.MatchString(line) {
			continue
		}
		cleanedLines = append(cleanedLines, line)
	}

	return strings.TrimSpace(strings.Join(cleanedLines, "\n"))
}

// stripNonASCII is the byte-level equivalent of asciiOnly.
func stripNonASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= utf8.RuneSelf {
			continue
		}
		if (c < 0x20 && c != '\t' && c != '\n' && c != '\v' && c != '\f' && c != '\r') || c == 0x7f {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
