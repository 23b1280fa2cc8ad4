package keywords

import "strings"

// StripModifiers recovers the bare words of an encoded keyword so it can be
// compared against positive keywords. A single outer pair of brackets or
// quotes is removed; otherwise every '"' and '+' is dropped. Whitespace is
// collapsed in both cases.
func StripModifiers(encoded string) string {
	s := strings.TrimSpace(encoded)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '[' && last == ']') || (first == '"' && last == '"') {
			return collapseSpaces(s[1 : len(s)-1])
		}
	}
	s = strings.NewReplacer(`"`, " ", "+", " ").Replace(s)
	return collapseSpaces(s)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
