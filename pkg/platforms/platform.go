package platforms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sw33tLie/autoneg/pkg/keywords"
	"github.com/sw33tLie/autoneg/pkg/sheets"
)

// ErrNotFound is returned when a campaign or ad group does not exist.
var ErrNotFound = errors.New("not found")

// CampaignType selects the kind of campaign a lookup searches in. A campaign
// name is assumed to exist for one type only.
type CampaignType string

const (
	Shopping CampaignType = "Shopping"
	Text     CampaignType = "Text"
)

// DefaultCampaignTypes are tried, in order, for every sheet column.
var DefaultCampaignTypes = []CampaignType{Shopping, Text}

// ParseCampaignType parses a campaign type name, ignoring case.
func ParseCampaignType(s string) (CampaignType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "shopping":
		return Shopping, nil
	case "text", "search":
		return Text, nil
	}
	return "", fmt.Errorf("unknown campaign type %q", s)
}

// AuthConfig carries optional authentication inputs.
type AuthConfig struct {
	Token      string
	CustomerID string
	Proxy      string
}

// Lookup identifies the campaign or ad group negative keywords are applied to.
type Lookup struct {
	Campaign     string
	AdGroup      string
	CampaignType CampaignType
	// CampaignLevel targets the campaign itself and ignores AdGroup.
	CampaignLevel bool
}

func (l Lookup) String() string {
	if l.CampaignLevel {
		return fmt.Sprintf("campaign '%s' (campaign type %s)", l.Campaign, l.CampaignType)
	}
	return fmt.Sprintf("ad group '%s' in campaign '%s' (campaign type %s)", l.AdGroup, l.Campaign, l.CampaignType)
}

// ReportQuery selects rows of the search query performance report.
type ReportQuery struct {
	Campaign string
	// AdGroup restricts the report to one ad group; empty for campaign level queries.
	AdGroup        string
	MinClicks      string
	MaxConversions string
	DateRange      string
}

// NewReportQuery builds the report query for a sheet and ad group.
func NewReportQuery(s sheets.Settings, adGroup string) ReportQuery {
	q := ReportQuery{
		Campaign:       s.CampaignName,
		MinClicks:      s.MinQueryClicks,
		MaxConversions: s.MaxQueryConversions,
		DateRange:      s.DateRange,
	}
	if !s.CampaignLevelQueries {
		q.AdGroup = adGroup
	}
	return q
}

// String renders the query in the platform's report query language.
func (q ReportQuery) String() string {
	var b strings.Builder
	b.WriteString("SELECT Query FROM SEARCH_QUERY_PERFORMANCE_REPORT WHERE CampaignName = '")
	b.WriteString(escapeQuote(q.Campaign))
	b.WriteString("'")
	if q.MinClicks != "" {
		b.WriteString(" AND Clicks > " + q.MinClicks)
	}
	if q.MaxConversions != "" {
		b.WriteString(" AND Conversions < " + q.MaxConversions)
	}
	if q.AdGroup != "" {
		b.WriteString(" AND AdGroupName = '" + escapeQuote(q.AdGroup) + "'")
	}
	if q.DateRange != "" && q.DateRange != sheets.AllTime {
		b.WriteString(" DURING " + q.DateRange)
	}
	return b.String()
}

func escapeQuote(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}

// Target is a campaign or ad group that owns negative keywords.
type Target interface {
	Name() string
	// NegativeKeywords returns the target's own negatives followed by the
	// ones inherited from shared lists (with ListName set).
	NegativeKeywords(ctx context.Context) ([]keywords.ExistingNegative, error)
	AddNegativeKeyword(ctx context.Context, text string) error
	RemoveNegativeKeyword(ctx context.Context, neg keywords.ExistingNegative) error
}

// Platform abstracts the advertising platform: campaign discovery, query
// reports and negative keyword management.
type Platform interface {
	Name() string
	// Authenticate configures the platform with credentials, if needed.
	// Implementations that don't require auth should return nil.
	Authenticate(ctx context.Context, cfg AuthConfig) error
	// FindTarget returns ErrNotFound when the campaign or ad group does not exist.
	FindTarget(ctx context.Context, l Lookup) (Target, error)
	SearchQueries(ctx context.Context, q ReportQuery) ([]string, error)
}
