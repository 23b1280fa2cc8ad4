package platforms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sw33tLie/autoneg/pkg/sheets"
)

func TestReportQueryString(t *testing.T) {
	tests := []struct {
		name string
		q    ReportQuery
		want string
	}{
		{
			name: "all filters",
			q:    ReportQuery{Campaign: "Shoes", AdGroup: "Running", MinClicks: "5", MaxConversions: "1", DateRange: "LAST_30_DAYS"},
			want: "SELECT Query FROM SEARCH_QUERY_PERFORMANCE_REPORT WHERE CampaignName = 'Shoes' AND Clicks > 5 AND Conversions < 1 AND AdGroupName = 'Running' DURING LAST_30_DAYS",
		},
		{
			name: "all time without filters",
			q:    ReportQuery{Campaign: "Shoes", DateRange: sheets.AllTime},
			want: "SELECT Query FROM SEARCH_QUERY_PERFORMANCE_REPORT WHERE CampaignName = 'Shoes'",
		},
		{
			name: "quotes are escaped",
			q:    ReportQuery{Campaign: "Bob's", AdGroup: "Kid's"},
			want: `SELECT Query FROM SEARCH_QUERY_PERFORMANCE_REPORT WHERE CampaignName = 'Bob\'s' AND AdGroupName = 'Kid\'s'`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.q.String())
		})
	}
}

func TestNewReportQuery(t *testing.T) {
	s := sheets.Settings{CampaignName: "Shoes", MinQueryClicks: "2", DateRange: "YESTERDAY"}

	q := NewReportQuery(s, "Running")
	assert.Equal(t, ReportQuery{Campaign: "Shoes", AdGroup: "Running", MinClicks: "2", DateRange: "YESTERDAY"}, q)

	s.CampaignLevelQueries = true
	q = NewReportQuery(s, "Running")
	assert.Empty(t, q.AdGroup)
}

func TestParseCampaignType(t *testing.T) {
	ct, err := ParseCampaignType(" shopping ")
	require.NoError(t, err)
	assert.Equal(t, Shopping, ct)

	ct, err = ParseCampaignType("Text")
	require.NoError(t, err)
	assert.Equal(t, Text, ct)

	_, err = ParseCampaignType("video")
	assert.Error(t, err)
}

func TestLookupString(t *testing.T) {
	l := Lookup{Campaign: "Shoes", AdGroup: "Running", CampaignType: Text}
	assert.Equal(t, "ad group 'Running' in campaign 'Shoes' (campaign type Text)", l.String())

	l.CampaignLevel = true
	assert.Equal(t, "campaign 'Shoes' (campaign type Text)", l.String())
}
