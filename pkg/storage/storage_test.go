package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "autoneg.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSheetTimestamps(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	got, err := db.SheetTimestamps(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	first := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(48 * time.Hour)
	require.NoError(t, db.MarkSheetProcessed(ctx, "Shoes", first))
	require.NoError(t, db.MarkSheetProcessed(ctx, "Boots", first))
	require.NoError(t, db.MarkSheetProcessed(ctx, "Shoes", second))

	got, err = db.SheetTimestamps(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got["Shoes"].Equal(second))
	assert.True(t, got["Boots"].Equal(first))
}

func TestLogAndListChanges(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	runID := NewRunID()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	changes := []Change{
		{OccurredAt: base, RunID: runID, Sheet: "S", Campaign: "Shoes", AdGroup: "Running", CampaignType: "Text", Keyword: "[cheap boots]", MatchType: "EXACT", ChangeType: ChangeAdded},
		{OccurredAt: base.Add(time.Second), RunID: runID, Sheet: "S", Campaign: "Shoes", AdGroup: "Running", CampaignType: "Text", Keyword: "[red]", MatchType: "EXACT", ChangeType: ChangeRemoved},
		{OccurredAt: base.Add(2 * time.Second), RunID: "other", Sheet: "S", Campaign: "Boots", CampaignType: "Shopping", Keyword: "[red]", ChangeType: ChangeConflict, Detail: "SharedList1"},
	}
	require.NoError(t, db.LogChanges(ctx, changes))
	require.NoError(t, db.LogChanges(ctx, nil))

	all, err := db.ListRecentChanges(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Boots", all[0].Campaign)
	assert.Equal(t, "SharedList1", all[0].Detail)
	assert.Empty(t, all[0].AdGroup)
	assert.True(t, all[2].OccurredAt.Equal(base))

	byRun, err := db.ListRecentChanges(ctx, ListOptions{RunID: runID})
	require.NoError(t, err)
	assert.Len(t, byRun, 2)

	byCampaign, err := db.ListRecentChanges(ctx, ListOptions{Campaign: "Shoes", Limit: 1})
	require.NoError(t, err)
	require.Len(t, byCampaign, 1)
	assert.Equal(t, ChangeRemoved, byCampaign[0].ChangeType)

	since, err := db.ListRecentChanges(ctx, ListOptions{Since: base.Add(time.Second)})
	require.NoError(t, err)
	assert.Len(t, since, 2)
}

func TestGetStats(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.LogChanges(ctx, []Change{
		{RunID: "r", Sheet: "S", Campaign: "Shoes", CampaignType: "Text", Keyword: "a", ChangeType: ChangeAdded},
		{RunID: "r", Sheet: "S", Campaign: "Shoes", CampaignType: "Text", Keyword: "b", ChangeType: ChangeAdded},
		{RunID: "r", Sheet: "S", Campaign: "Shoes", CampaignType: "Text", Keyword: "c", ChangeType: ChangeRemoved},
		{RunID: "r", Sheet: "S", Campaign: "Boots", CampaignType: "Text", Keyword: "d", ChangeType: ChangeConflict},
	}))

	stats, err := db.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, []CampaignStats{
		{Campaign: "Boots", Conflicts: 1},
		{Campaign: "Shoes", Added: 2, Removed: 1},
	}, stats)
}

func TestLogChanges_RejectsUnknownType(t *testing.T) {
	db := openTestDB(t)
	err := db.LogChanges(context.Background(), []Change{{RunID: "r", Sheet: "S", Campaign: "C", CampaignType: "Text", Keyword: "k", ChangeType: "renamed"}})
	require.Error(t, err)

	all, err := db.ListRecentChanges(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, all)
}
