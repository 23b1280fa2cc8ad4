package keywords

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfiguration is returned when a pass is configured with values
// the engine cannot act on, e.g. an unknown match type.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// MatchType is one of the four notations a negative keyword can be submitted in.
type MatchType int

const (
	Broad MatchType = iota
	BMM
	Phrase
	Exact
)

// ParseMatchType parses a match type setting, ignoring case and surrounding spaces.
func ParseMatchType(s string) (MatchType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "broad":
		return Broad, nil
	case "bmm":
		return BMM, nil
	case "phrase":
		return Phrase, nil
	case "exact":
		return Exact, nil
	}
	return Broad, fmt.Errorf("%w: match type %q not recognised, use one of Broad, BMM, Exact or Phrase", ErrInvalidConfiguration, s)
}

func (m MatchType) String() string {
	switch m {
	case Broad:
		return "broad"
	case BMM:
		return "bmm"
	case Phrase:
		return "phrase"
	case Exact:
		return "exact"
	}
	return fmt.Sprintf("MatchType(%d)", int(m))
}

// PlatformMatchType is the match type the advertising platform reports for
// keywords encoded with m. Modified broad match is stored as BROAD.
func (m MatchType) PlatformMatchType() string {
	switch m {
	case Phrase:
		return "PHRASE"
	case Exact:
		return "EXACT"
	default:
		return "BROAD"
	}
}

// Encode applies the match type notation to term.
func (m MatchType) Encode(term string) string {
	term = strings.TrimSpace(term)
	switch m {
	case BMM:
		words := strings.Split(term, " ")
		out := make([]string, 0, len(words))
		for _, w := range words {
			if w == "" {
				continue
			}
			out = append(out, "+"+w)
		}
		return strings.Join(out, " ")
	case Phrase:
		return `"` + term + `"`
	case Exact:
		return "[" + term + "]"
	default:
		return term
	}
}

// Encode parses matchType and encodes term with it.
func Encode(term, matchType string) (string, error) {
	m, err := ParseMatchType(matchType)
	if err != nil {
		return "", err
	}
	return m.Encode(term), nil
}

// PlatformMatchTypeOf infers the platform match type from an encoded keyword.
func PlatformMatchTypeOf(encoded string) string {
	s := strings.TrimSpace(encoded)
	if len(s) >= 2 {
		switch {
		case s[0] == '[' && s[len(s)-1] == ']':
			return Exact.PlatformMatchType()
		case s[0] == '"' && s[len(s)-1] == '"':
			return Phrase.PlatformMatchType()
		}
	}
	return Broad.PlatformMatchType()
}
