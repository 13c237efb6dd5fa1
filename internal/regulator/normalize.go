package regulator

import "strings"

// NormalizeName canonicalizes a beach name for the fuzzy join between the
// registry and the regulator listing: lower-case, punctuation stripped,
// whitespace collapsed, and a leading or trailing "beach" token removed.
// Interim strategy until a persistent identifier crosswalk exists.
func NormalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '-', r == '_':
			b.WriteRune(' ')
		}
		// Everything else (punctuation) drops.
	}

	tokens := strings.Fields(b.String())
	if len(tokens) > 1 && tokens[0] == "beach" {
		tokens = tokens[1:]
	}
	if len(tokens) > 1 && tokens[len(tokens)-1] == "beach" {
		tokens = tokens[:len(tokens)-1]
	}

	return strings.Join(tokens, " ")
}

// NamesMatch reports whether two beach names refer to the same beach:
// normalized equality or substring containment in either direction.
func NamesMatch(a, b string) bool {
	na := NormalizeName(a)
	nb := NormalizeName(b)
	if na == "" || nb == "" {
		return false
	}
	return na == nb || strings.Contains(na, nb) || strings.Contains(nb, na)
}
