package schema

import (
	"strings"
	"unicode"
)

// DisplayName turns a field name into the label shown to users:
// underscores become spaces, then each letter run is title-cased
// ("On-board service" -> "On-Board Service").
func DisplayName(field string) string {
	return titleCase(strings.ReplaceAll(field, "_", " "))
}

func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}
