package keywords

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContains(t *testing.T) {
	tests := []struct {
		query   string
		keyword string
		want    bool
	}{
		{"red shoes", "red", true},
		{"red shoes", "red shoe", false},
		{"shoes", "red", false},
		{"red", "red", true},
		{"bored", "red", false},
		{"bored red", "red", false},
		{"big red shoes", "red", true},
		{"big red shoes", "red shoes", true},
		{"big red shoes", "big shoes", false},
		{"shoes red", "red shoes", false},
		{"reddish shoes", "red", false},
		{"red-ish shoes", "red", false},
		{"", "red", false},
		{"red shoes", "", false},
		{"", "", true},
	}

	for _, tc := range tests {
		assert.Equalf(t, tc.want, Contains(tc.query, tc.keyword), "Contains(%q, %q)", tc.query, tc.keyword)
	}
}

func TestContains_FirstOccurrenceOnly(t *testing.T) {
	// Only the first substring occurrence is checked for word edges.
	assert.False(t, Contains("bored red", "red red"))
	assert.False(t, Contains("redd red", "red"))
}

func TestCountMatches(t *testing.T) {
	positives := []string{"red", "running", "red"}

	assert.Equal(t, 2, CountMatches("red running shoes", positives, 2))
	assert.Equal(t, 3, CountMatches("red running shoes", positives, 5), "duplicates count once per occurrence")
	assert.Equal(t, 1, CountMatches("red running shoes", positives, 1), "stops at the threshold")
	assert.Equal(t, 0, CountMatches("blue shoes", positives, 2))
	assert.Equal(t, 0, CountMatches("red running shoes", positives, 0))
	assert.Equal(t, 0, CountMatches("red", nil, 1))
}
