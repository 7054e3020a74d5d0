package assistant

import "strings"

// synonym maps a surface phrase to its canonical token. The table is ordered
// longest-phrase-first so that "pollution level" is collapsed before
// "pollution" gets a chance to match inside it.
type synonym struct {
	phrase    string
	canonical string
}

var synonyms = []synonym{
	{"pollution level", "aq"},
	{"air quality", "aq"},
	{"pollution", "aq"},
	{"pm2.5", "aq"},
	{"pm25", "aq"},
	{"pm10", "aq"},
	{"particulates", "aq"},
	{"the air", "aq"},
	{"currently", "current"},
	{"right now", "now"},
	{"this week", "week"},
	{"weekly", "week"},
	{"peak", "highest"},
	{"maximum", "highest"},
	{"max", "highest"},
	{"worst", "highest"},
	{"spiked", "spike"},
	{"spikes", "spike"},
}

// Normalize lowercases text, collapses known synonyms to canonical tokens,
// strips punctuation (keeping digits and decimal points inside numbers) and
// splits on whitespace. Empty input yields an empty slice.
func Normalize(text string) []string {
	s := strings.ToLower(text)

	for _, syn := range synonyms {
		s = strings.ReplaceAll(s, syn.phrase, syn.canonical)
	}

	var b strings.Builder
	b.Grow(len(s))
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' && i > 0 && i < len(runes)-1 && isDigit(runes[i-1]) && isDigit(runes[i+1]):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	return strings.Fields(b.String())
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
