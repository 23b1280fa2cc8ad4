package keywords

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripModifiers(t *testing.T) {
	tests := map[string]string{
		"[running shoes]":   "running shoes",
		"+running +shoes":   "running shoes",
		`"running shoes"`:   "running shoes",
		"running shoes":     "running shoes",
		"[shoes":            "[shoes",
		`"shoes]`:           "shoes]",
		`[say "hi"]`:        `say "hi"`,
		"+red+shoes":        "red shoes",
		"  [ red  shoes ] ": "red shoes",
		"":                  "",
		"[]":                "",
	}

	for in, want := range tests {
		assert.Equalf(t, want, StripModifiers(in), "StripModifiers(%q)", in)
	}
}

func TestStripModifiers_MatchesEncodedTerms(t *testing.T) {
	for _, m := range []MatchType{Broad, BMM, Phrase, Exact} {
		assert.Equal(t, "running shoes", StripModifiers(m.Encode("running shoes")), m.String())
	}
}
