package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS sheet_runs (
  sheet         TEXT PRIMARY KEY,
  processed_at  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS keyword_changes (
  id            INTEGER PRIMARY KEY,
  run_id        TEXT NOT NULL,
  occurred_at   TEXT NOT NULL,
  sheet         TEXT NOT NULL,
  campaign      TEXT NOT NULL,
  ad_group      TEXT,
  campaign_type TEXT NOT NULL,
  keyword       TEXT NOT NULL,
  match_type    TEXT,
  change_type   TEXT NOT NULL CHECK (change_type IN ('added','removed','conflict')),
  detail        TEXT
);
CREATE INDEX IF NOT EXISTS idx_changes_time ON keyword_changes(occurred_at);
CREATE INDEX IF NOT EXISTS idx_changes_campaign ON keyword_changes(campaign, occurred_at);
    `); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// NewRunID returns an identifier grouping the changes of one run.
func NewRunID() string {
	return uuid.NewString()
}

// SheetTimestamps returns the last processing time of every known sheet.
func (d *DB) SheetTimestamps(ctx context.Context) (map[string]time.Time, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT sheet, processed_at FROM sheet_runs")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]time.Time)
	for rows.Next() {
		var sheet, at string
		if err := rows.Scan(&sheet, &at); err != nil {
			return nil, err
		}
		out[sheet] = parseTime(at)
	}
	return out, rows.Err()
}

// MarkSheetProcessed stores the processing time of a sheet.
func (d *DB) MarkSheetProcessed(ctx context.Context, sheet string, at time.Time) error {
	_, err := d.sql.ExecContext(ctx, `INSERT INTO sheet_runs(sheet, processed_at) VALUES(?, ?)
ON CONFLICT(sheet) DO UPDATE SET processed_at = excluded.processed_at`, sheet, formatTime(at))
	return err
}

// LogChanges appends changes to the change log in one transaction.
func (d *DB) LogChanges(ctx context.Context, changes []Change) (err error) {
	if len(changes) == 0 {
		return nil
	}

	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO keyword_changes(run_id, occurred_at, sheet, campaign, ad_group, campaign_type, keyword, match_type, change_type, detail) VALUES(?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range changes {
		occurredAt := c.OccurredAt
		if occurredAt.IsZero() {
			occurredAt = time.Now()
		}
		if _, err = stmt.ExecContext(ctx, c.RunID, formatTime(occurredAt), c.Sheet, c.Campaign, nullIfEmpty(c.AdGroup), c.CampaignType, c.Keyword, nullIfEmpty(c.MatchType), c.ChangeType, nullIfEmpty(c.Detail)); err != nil {
			return fmt.Errorf("log %s change for '%s': %w", c.ChangeType, c.Keyword, err)
		}
	}

	return tx.Commit()
}

// ListOptions controls selection when listing changes.
type ListOptions struct {
	Campaign string
	RunID    string
	Since    time.Time
	Limit    int
}

// ListRecentChanges returns the most recent changes matching opts, newest first.
func (d *DB) ListRecentChanges(ctx context.Context, opts ListOptions) ([]Change, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	where := "WHERE 1=1"
	args := []interface{}{}
	if opts.Campaign != "" {
		where += " AND campaign = ?"
		args = append(args, opts.Campaign)
	}
	if opts.RunID != "" {
		where += " AND run_id = ?"
		args = append(args, opts.RunID)
	}
	if !opts.Since.IsZero() {
		where += " AND occurred_at >= ?"
		args = append(args, formatTime(opts.Since))
	}
	args = append(args, limit)

	q := "SELECT run_id, occurred_at, sheet, campaign, ad_group, campaign_type, keyword, match_type, change_type, detail FROM keyword_changes " + where + " ORDER BY occurred_at DESC, id DESC LIMIT ?"
	rows, err := d.sql.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	changes := []Change{}
	for rows.Next() {
		var c Change
		var occurredAt string
		var adGroup, matchType, detail sql.NullString
		if err := rows.Scan(&c.RunID, &occurredAt, &c.Sheet, &c.Campaign, &adGroup, &c.CampaignType, &c.Keyword, &matchType, &c.ChangeType, &detail); err != nil {
			return nil, err
		}
		c.OccurredAt = parseTime(occurredAt)
		c.AdGroup = adGroup.String
		c.MatchType = matchType.String
		c.Detail = detail.String
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return changes, nil
}

func (d *DB) GetStats(ctx context.Context) ([]CampaignStats, error) {
	query := `
		SELECT
			campaign,
			SUM(CASE WHEN change_type = 'added' THEN 1 ELSE 0 END),
			SUM(CASE WHEN change_type = 'removed' THEN 1 ELSE 0 END),
			SUM(CASE WHEN change_type = 'conflict' THEN 1 ELSE 0 END)
		FROM
			keyword_changes
		GROUP BY
			campaign
		ORDER BY
			campaign;
	`
	rows, err := d.sql.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []CampaignStats
	for rows.Next() {
		var s CampaignStats
		if err := rows.Scan(&s.Campaign, &s.Added, &s.Removed, &s.Conflicts); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
