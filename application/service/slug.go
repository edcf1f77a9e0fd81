package service

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fallbackSlug is used when a title produces no usable slug characters.
const fallbackSlug = "opera"

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// asciiFold decomposes accented characters and strips the combining marks,
// so "Città" folds to "Citta".
var asciiFold = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify converts a title into a URL-safe artwork identifier: accents are
// folded to ASCII, everything non-alphanumeric collapses to single hyphens.
func Slugify(text string) string {
	if text == "" {
		return fallbackSlug
	}

	folded, _, err := transform.String(asciiFold, text)
	if err != nil {
		folded = text
	}

	var b strings.Builder
	for _, r := range folded {
		if r < 128 {
			b.WriteRune(r)
		}
	}

	s := nonAlnum.ReplaceAllString(strings.ToLower(b.String()), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return fallbackSlug
	}
	return s
}
