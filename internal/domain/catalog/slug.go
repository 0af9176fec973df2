// internal/domain/catalog/slug.go
package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SlugPrefix is prepended to every generated product identifier.
const SlugPrefix = "tapete"

// GenerateSlug derives the content-addressed product identifier from brand
// and model: lowercase, diacritics stripped, runs of non-alphanumerics
// collapsed to single hyphens. Two products with the same brand+model text
// produce the same id.
func GenerateSlug(brand, model string) string {
	return slugify(SlugPrefix + " " + brand + " " + model)
}

func slugify(s string) string {
	s = stripDiacritics(strings.ToLower(s))

	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}

func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
