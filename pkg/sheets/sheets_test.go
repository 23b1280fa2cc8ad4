package sheets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shoesCSV = `Campaign,Min clicks,Max conversions,Date range,Match type,Campaign level queries,Last run
Shoes,5,1,LAST_30_DAYS,Exact,No
,,,,,
Min matches,1,2,
Ad group,Running,Boots
Keywords,running,boots
,trainers,leather
,,boots
`

func TestParse(t *testing.T) {
	s, err := Parse("shoes", strings.NewReader(shoesCSV))
	require.NoError(t, err)

	assert.Equal(t, "shoes", s.Name)
	assert.Equal(t, Settings{
		CampaignName:        "Shoes",
		MinQueryClicks:      "5",
		MaxQueryConversions: "1",
		DateRange:           "LAST_30_DAYS",
		NegativeMatchType:   "Exact",
	}, s.Settings)

	require.Len(t, s.Columns, 2)
	assert.Equal(t, Column{Letter: "B", MinKeywordMatches: 1, AdGroup: "Running", Keywords: []string{"running", "trainers"}}, s.Columns[0])
	// Duplicates are kept: each occurrence counts as a separate match.
	assert.Equal(t, Column{Letter: "C", MinKeywordMatches: 2, AdGroup: "Boots", Keywords: []string{"boots", "leather", "boots"}}, s.Columns[1])
}

func TestParse_Defaults(t *testing.T) {
	csv := "h\nShoes,,,,bmm,Yes\n,\n,3\n"
	s, err := Parse("x", strings.NewReader(csv))
	require.NoError(t, err)

	assert.True(t, s.Settings.CampaignLevelQueries)
	assert.Equal(t, AllTime, s.Settings.DateRange)
	assert.Empty(t, s.Settings.MinQueryClicks)
	require.Len(t, s.Columns, 1)
	assert.Empty(t, s.Columns[0].AdGroup)
	assert.Empty(t, s.Columns[0].Keywords)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse("x", strings.NewReader("h\n,1,1,ALL_TIME,exact,No\n"))
	require.ErrorIs(t, err, ErrNoCampaign)

	_, err = Parse("x", strings.NewReader("h\nShoes,many,1,ALL_TIME,exact,No\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min query clicks")
}

func TestParse_InvalidColumnIsKept(t *testing.T) {
	s, err := Parse("x", strings.NewReader("h\nShoes\n,\n,two,1.0,-1\n,A,B,C\n"))
	require.NoError(t, err)
	require.Len(t, s.Columns, 3)

	assert.Error(t, s.Columns[0].Err)
	assert.NoError(t, s.Columns[1].Err)
	assert.Equal(t, 1, s.Columns[1].MinKeywordMatches)
	assert.Error(t, s.Columns[2].Err)
}

func TestParse_ZeroMatchCountEndsColumns(t *testing.T) {
	s, err := Parse("x", strings.NewReader("h\nShoes\n,\n,1,0,2\n,Running,Boots,Sandals\n"))
	require.NoError(t, err)
	require.Len(t, s.Columns, 1)
	assert.Equal(t, "Running", s.Columns[0].AdGroup)

	assert.True(t, endOfColumns("0.0"))
	assert.False(t, endOfColumns("-1"))
	assert.False(t, endOfColumns("two"))
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b-boots.csv"), []byte("h\nBoots\n,\n,1\n,All\n,boots\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a-shoes.csv"), []byte(shoesCSV), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	sheets, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, sheets, 2)
	assert.Equal(t, "a-shoes", sheets[0].Name)
	assert.Equal(t, "b-boots", sheets[1].Name)
	assert.Equal(t, filepath.Join(dir, "b-boots.csv"), sheets[1].Path)
}

func TestColumnLetter(t *testing.T) {
	assert.Equal(t, "A", columnLetter(1))
	assert.Equal(t, "Z", columnLetter(26))
	assert.Equal(t, "AA", columnLetter(27))
	assert.Equal(t, "AB", columnLetter(28))
}
