package keywords

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcess_Threshold(t *testing.T) {
	res, err := Process(Pass{
		Campaign:         "Shoes",
		MatchThreshold:   2,
		MatchType:        "exact",
		PositiveKeywords: []string{"red", "running"},
		Queries:          []string{"red running shoes", "red shoes"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"[red shoes]"}, res.NegativesToAdd)
	assert.Empty(t, res.NegativesToRemove)
	assert.Empty(t, res.Warnings)
}

func TestProcess_DuplicatePositivesCountTwice(t *testing.T) {
	res, err := Process(Pass{
		MatchThreshold:   2,
		MatchType:        "broad",
		PositiveKeywords: []string{"red", "red"},
		Queries:          []string{"red shoes", "blue shoes"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"blue shoes"}, res.NegativesToAdd)
}

func TestProcess_Idempotent(t *testing.T) {
	pass := Pass{
		Campaign:         "Shoes",
		AdGroup:          "Running",
		MatchThreshold:   1,
		MatchType:        "bmm",
		PositiveKeywords: []string{"running"},
		Queries:          []string{"cheap boots", "running shoes", "leather sandals"},
	}

	first, err := Process(pass)
	require.NoError(t, err)
	require.Equal(t, []string{"+cheap +boots", "+leather +sandals"}, first.NegativesToAdd)

	for _, neg := range first.NegativesToAdd {
		pass.ExistingNegatives = append(pass.ExistingNegatives, ExistingNegative{Text: neg, MatchType: "BROAD"})
	}

	second, err := Process(pass)
	require.NoError(t, err)
	assert.Empty(t, second.NegativesToAdd)
	assert.Empty(t, second.NegativesToRemove)
}

func TestProcess_RemovalAndWarning(t *testing.T) {
	res, err := Process(Pass{
		MatchThreshold:   1,
		MatchType:        "Exact",
		PositiveKeywords: []string{"red"},
		Queries:          []string{"red", "blue"},
		ExistingNegatives: []ExistingNegative{
			{ID: "1", Text: "[red]", MatchType: "EXACT"},
			{ID: "2", Text: "[red]", MatchType: "EXACT", ListName: "SharedList1"},
			{ID: "3", Text: "[blue]", MatchType: "EXACT"},
		},
	})

	require.NoError(t, err)
	require.Len(t, res.NegativesToRemove, 1)
	assert.Equal(t, "1", res.NegativesToRemove[0].Negative.ID)
	assert.Equal(t, "red", res.NegativesToRemove[0].Canonical)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "SharedList1")
	assert.Empty(t, res.NegativesToAdd)
}

func TestProcess_RemovalMatchTypeOverride(t *testing.T) {
	res, err := Process(Pass{
		MatchThreshold:    1,
		MatchType:         "exact",
		RemovalMatchType:  "PHRASE",
		PositiveKeywords:  []string{"red"},
		ExistingNegatives: []ExistingNegative{{Text: `"red"`, MatchType: "PHRASE"}, {Text: "[red]", MatchType: "EXACT"}},
	})

	require.NoError(t, err)
	require.Len(t, res.NegativesToRemove, 1)
	assert.Equal(t, `"red"`, res.NegativesToRemove[0].Negative.Text)
	assert.Len(t, res.Warnings, 1)
}

func TestProcess_InvalidMatchType(t *testing.T) {
	res, err := Process(Pass{
		MatchThreshold:    1,
		MatchType:         "loose",
		PositiveKeywords:  []string{"red"},
		Queries:           []string{"blue shoes"},
		ExistingNegatives: []ExistingNegative{{Text: "red", MatchType: "BROAD"}},
	})

	require.ErrorIs(t, err, ErrInvalidConfiguration)
	require.NotNil(t, res)
	assert.Empty(t, res.NegativesToAdd)
	assert.Empty(t, res.NegativesToRemove)
}

func TestProcess_DeduplicatesBatch(t *testing.T) {
	res, err := Process(Pass{
		MatchThreshold:   1,
		MatchType:        "phrase",
		PositiveKeywords: []string{"red"},
		Queries:          []string{"blue shoes", "green shoes", " blue shoes", "blue shoes"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{`"blue shoes"`, `"green shoes"`}, res.NegativesToAdd)
}

func TestProcess_EmptyInputs(t *testing.T) {
	res, err := Process(Pass{MatchThreshold: 1, MatchType: "broad"})
	require.NoError(t, err)
	assert.Empty(t, res.NegativesToAdd)
	assert.Empty(t, res.NegativesToRemove)
	assert.Empty(t, res.Warnings)

	// With no positive keywords every query is excluded.
	res, err = Process(Pass{MatchThreshold: 1, MatchType: "broad", Queries: []string{"anything"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"anything"}, res.NegativesToAdd)
}

func TestProcess_ZeroThresholdKeepsEverything(t *testing.T) {
	res, err := Process(Pass{MatchThreshold: 0, MatchType: "broad", Queries: []string{"anything"}})
	require.NoError(t, err)
	assert.Empty(t, res.NegativesToAdd)
}
