package storage

import "time"

// Change types recorded in the change log.
const (
	ChangeAdded    = "added"
	ChangeRemoved  = "removed"
	ChangeConflict = "conflict"
)

// Change captures a single negative keyword change for auditing or printing.
type Change struct {
	OccurredAt time.Time
	RunID      string

	// Where the keyword lives
	Sheet        string
	Campaign     string
	AdGroup      string
	CampaignType string

	// Keyword info
	Keyword    string
	MatchType  string
	ChangeType string // added | removed | conflict
	Detail     string
}

// SheetRun records when a sheet was last processed.
type SheetRun struct {
	Sheet       string
	ProcessedAt time.Time
}

// CampaignStats aggregates the change log per campaign.
type CampaignStats struct {
	Campaign  string
	Added     int
	Removed   int
	Conflicts int
}
