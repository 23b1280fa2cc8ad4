package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sw33tLie/autoneg/pkg/keywords"
	"github.com/sw33tLie/autoneg/pkg/platforms"
)

func TestFindTarget(t *testing.T) {
	p := New()
	p.AddCampaign(platforms.Text, "Shoes", "Running")
	ctx := context.Background()

	tg, err := p.FindTarget(ctx, platforms.Lookup{Campaign: "Shoes", AdGroup: "Running", CampaignType: platforms.Text})
	require.NoError(t, err)
	assert.Equal(t, "Shoes > Running", tg.Name())

	tg, err = p.FindTarget(ctx, platforms.Lookup{Campaign: "Shoes", AdGroup: "ignored", CampaignType: platforms.Text, CampaignLevel: true})
	require.NoError(t, err)
	assert.Equal(t, "Shoes", tg.Name())

	_, err = p.FindTarget(ctx, platforms.Lookup{Campaign: "Shoes", AdGroup: "Running", CampaignType: platforms.Shopping})
	assert.ErrorIs(t, err, platforms.ErrNotFound)

	_, err = p.FindTarget(ctx, platforms.Lookup{Campaign: "Shoes", CampaignType: platforms.Text})
	assert.ErrorIs(t, err, platforms.ErrNotFound)
}

func TestSearchQueries(t *testing.T) {
	p := New()
	p.AddQueries(
		QueryRow{Campaign: "Shoes", AdGroup: "Running", Query: "running shoes", Clicks: 10},
		QueryRow{Campaign: "Shoes", AdGroup: "Running", Query: "cheap shoes", Clicks: 1},
		QueryRow{Campaign: "Shoes", AdGroup: "Boots", Query: "boots", Clicks: 10, Conversions: 3},
		QueryRow{Campaign: "Hats", AdGroup: "Running", Query: "hat", Clicks: 10},
	)
	ctx := context.Background()

	got, err := p.SearchQueries(ctx, platforms.ReportQuery{Campaign: "Shoes"})
	require.NoError(t, err)
	assert.Equal(t, []string{"running shoes", "cheap shoes", "boots"}, got)

	got, err = p.SearchQueries(ctx, platforms.ReportQuery{Campaign: "Shoes", AdGroup: "Running", MinClicks: "5"})
	require.NoError(t, err)
	assert.Equal(t, []string{"running shoes"}, got)

	got, err = p.SearchQueries(ctx, platforms.ReportQuery{Campaign: "Shoes", MaxConversions: "1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"running shoes", "cheap shoes"}, got)

	_, err = p.SearchQueries(ctx, platforms.ReportQuery{Campaign: "Shoes", MinClicks: "x"})
	assert.Error(t, err)
}

func TestNegativeKeywords(t *testing.T) {
	p := New()
	p.AddCampaign(platforms.Text, "Shoes", "Running")
	p.AddNegatives(platforms.Text, "Shoes", "Running", "[red]", "+cheap")
	p.AttachSharedList(platforms.Text, "Shoes", "Global", `"free"`)
	ctx := context.Background()

	tg, err := p.FindTarget(ctx, platforms.Lookup{Campaign: "Shoes", AdGroup: "Running", CampaignType: platforms.Text})
	require.NoError(t, err)

	negs, err := tg.NegativeKeywords(ctx)
	require.NoError(t, err)
	require.Len(t, negs, 3)
	assert.Equal(t, keywords.ExistingNegative{ID: "1", Text: "[red]", MatchType: "EXACT"}, negs[0])
	assert.Equal(t, "BROAD", negs[1].MatchType)
	assert.Equal(t, "Global", negs[2].ListName)
	assert.Equal(t, "PHRASE", negs[2].MatchType)

	require.NoError(t, tg.AddNegativeKeyword(ctx, "[boots]"))
	require.NoError(t, tg.RemoveNegativeKeyword(ctx, negs[0]))
	assert.Equal(t, []string{"+cheap", "[boots]"}, p.Negatives(platforms.Text, "Shoes", "Running"))

	assert.Error(t, tg.RemoveNegativeKeyword(ctx, negs[2]), "shared list keywords are read-only")
	assert.ErrorIs(t, tg.RemoveNegativeKeyword(ctx, negs[0]), platforms.ErrNotFound)
}
