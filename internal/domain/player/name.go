package player

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nameSuffixes = map[string]struct{}{
	"jr":  {},
	"sr":  {},
	"ii":  {},
	"iii": {},
	"iv":  {},
	"v":   {},
}

// NormalizeName folds a free-text player name into a lookup key.
// Diacritics, punctuation and generational suffixes are dropped.
func NormalizeName(name string) string {
	stripped, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), name)
	if err != nil {
		stripped = name
	}

	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range strings.ToLower(stripped) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r), r == '-':
			b.WriteRune(' ')
		}
	}

	fields := strings.Fields(b.String())
	for len(fields) > 1 {
		if _, ok := nameSuffixes[fields[len(fields)-1]]; !ok {
			break
		}
		fields = fields[:len(fields)-1]
	}
	return strings.Join(fields, " ")
}

var teamAbbrevAliases = map[string]string{
	"LAR": "LA",
	"JAC": "JAX",
	"WSH": "WAS",
}

// NormalizeTeam maps the league's NFL team abbreviations onto stats-feed codes.
func NormalizeTeam(abbrev string) string {
	value := strings.ToUpper(strings.TrimSpace(abbrev))
	if alias, ok := teamAbbrevAliases[value]; ok {
		return alias
	}
	return value
}
