package taxonomy

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// deaccent strips combining marks after canonical decomposition, so that
// å/ä become a, ö becomes o, and é becomes e.
var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify converts a Swedish display name into a URL-friendly slug:
// lowercase ASCII with runs of non-alphanumerics collapsed to single hyphens.
// "Mjukvaru- och systemutvecklare" -> "mjukvaru-och-systemutvecklare".
func Slugify(name string) string {
	ascii, _, err := transform.String(deaccent, name)
	if err != nil {
		ascii = name
	}
	ascii = strings.ToLower(ascii)

	var b strings.Builder
	b.Grow(len(ascii))
	pendingHyphen := false
	for _, r := range ascii {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}
