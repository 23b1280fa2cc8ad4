// Package runner applies the negative keyword engine to every sheet column
// and campaign type of an account.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sw33tLie/autoneg/pkg/keywords"
	"github.com/sw33tLie/autoneg/pkg/metrics"
	"github.com/sw33tLie/autoneg/pkg/platforms"
	"github.com/sw33tLie/autoneg/pkg/sheets"
	"github.com/sw33tLie/autoneg/pkg/storage"
)

// Logger abstracts logging so callers can use logrus, stdlib log, or any
// other logger that satisfies this interface.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// nopLogger silently discards all messages.
type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}

// Config holds everything Run needs.
type Config struct {
	Platform platforms.Platform
	Sheets   []*sheets.Sheet
	DB       *storage.DB // optional; nil = file order, no change log

	CampaignTypes         []platforms.CampaignType // defaults to platforms.DefaultCampaignTypes
	CampaignLevelKeywords bool
	// RemovalMatchType overrides the platform match type existing negatives
	// must have to be removed.
	RemovalMatchType string
	DryRun           bool

	Metrics *metrics.Recorder // optional
	Log     Logger            // optional; nil = no logging
	Now     func() time.Time  // defaults to time.Now

	// OnPassDone is called after every pass that found its target.
	OnPassDone func(PassResult)
}

// PassResult is the outcome of one campaign or ad group pass.
type PassResult struct {
	Sheet    string
	Lookup   platforms.Lookup
	Added    []string
	Removed  []keywords.Removal
	Warnings []string
	Err      error
}

// Result aggregates a whole run.
type Result struct {
	RunID   string
	Passes  []PassResult
	Skipped int
	Errors  []error // non-fatal errors
}

// Processed returns the number of passes that completed without error.
func (r *Result) Processed() int {
	n := 0
	for _, p := range r.Passes {
		if p.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the number of passes that stopped with an error.
func (r *Result) Failed() int {
	return len(r.Passes) - r.Processed()
}

func (r *Result) Added() int {
	n := 0
	for _, p := range r.Passes {
		n += len(p.Added)
	}
	return n
}

func (r *Result) Removed() int {
	n := 0
	for _, p := range r.Passes {
		n += len(p.Removed)
	}
	return n
}

func (r *Result) Warnings() []string {
	var out []string
	for _, p := range r.Passes {
		out = append(out, p.Warnings...)
	}
	return out
}

type runner struct {
	cfg   Config
	log   Logger
	now   func() time.Time
	types []platforms.CampaignType
	runID string
	res   *Result
}

// Run processes the configured sheets, least recently processed first. Only
// a missing platform or a cancelled context stop the run; every other error
// is collected in Result.Errors.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.Platform == nil {
		return nil, errors.New("runner: no platform configured")
	}
	r := &runner{
		cfg:   cfg,
		log:   cfg.Log,
		now:   cfg.Now,
		types: cfg.CampaignTypes,
		runID: storage.NewRunID(),
	}
	if r.log == nil {
		r.log = nopLogger{}
	}
	if r.now == nil {
		r.now = time.Now
	}
	if len(r.types) == 0 {
		r.types = platforms.DefaultCampaignTypes
	}
	r.res = &Result{RunID: r.runID}

	var timestamps map[string]time.Time
	if cfg.DB != nil {
		var err error
		timestamps, err = cfg.DB.SheetTimestamps(ctx)
		if err != nil {
			r.log.Warnf("Could not read sheet timestamps: %v", err)
		}
	}

	for _, sheet := range orderSheets(cfg.Sheets, timestamps, r.now()) {
		if err := ctx.Err(); err != nil {
			return r.res, err
		}
		if err := r.processSheet(ctx, sheet); err != nil {
			return r.res, err
		}
	}

	cfg.Metrics.Finish(r.now())
	return r.res, nil
}

// orderSheets sorts sheets by last processing time. Sheets never processed
// get a time far in the past so they come first, in their given order.
func orderSheets(in []*sheets.Sheet, timestamps map[string]time.Time, now time.Time) []*sheets.Sheet {
	type entry struct {
		sheet *sheets.Sheet
		at    time.Time
	}
	entries := make([]entry, 0, len(in))
	for i, s := range in {
		at, ok := timestamps[s.Name]
		if !ok {
			at = now.AddDate(0, 0, -(1000 + len(in) - i))
		}
		entries = append(entries, entry{s, at})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].at.Before(entries[j].at) })

	out := make([]*sheets.Sheet, len(entries))
	for i, e := range entries {
		out[i] = e.sheet
	}
	return out
}

func (r *runner) processSheet(ctx context.Context, sheet *sheets.Sheet) error {
	settings := sheet.Settings
	r.log.Infof("Processing sheet '%s' (campaign '%s')", sheet.Name, settings.CampaignName)

	campaignLevel := settings.CampaignLevelQueries && r.cfg.CampaignLevelKeywords
	for _, col := range sheet.Columns {
		if col.Err != nil {
			err := fmt.Errorf("sheet '%s' column %s: %w", sheet.Name, col.Letter, col.Err)
			r.log.Errorf("%v", err)
			r.res.Errors = append(r.res.Errors, err)
			r.cfg.Metrics.Pass(metrics.OutcomeFailed)
			continue
		}

		for _, ct := range r.types {
			if err := ctx.Err(); err != nil {
				return err
			}
			lookup := platforms.Lookup{
				Campaign:      settings.CampaignName,
				AdGroup:       col.AdGroup,
				CampaignType:  ct,
				CampaignLevel: campaignLevel,
			}
			if campaignLevel {
				lookup.AdGroup = ""
			}
			r.runPass(ctx, sheet, col, lookup)
		}

		if campaignLevel {
			r.log.Debugf("Campaign level keywords enabled for '%s': only the first column is used", settings.CampaignName)
			break
		}
	}

	if r.cfg.DryRun || r.cfg.DB == nil {
		return nil
	}
	if err := r.cfg.DB.MarkSheetProcessed(ctx, sheet.Name, r.now()); err != nil {
		r.log.Warnf("Could not save processing time of sheet '%s': %v", sheet.Name, err)
	}
	return nil
}

func (r *runner) runPass(ctx context.Context, sheet *sheets.Sheet, col sheets.Column, lookup platforms.Lookup) {
	target, err := r.cfg.Platform.FindTarget(ctx, lookup)
	if errors.Is(err, platforms.ErrNotFound) {
		r.log.Warnf("No %s found in the account. Check the campaign and ad group names in sheet '%s'.", lookup, sheet.Name)
		r.res.Skipped++
		r.cfg.Metrics.Pass(metrics.OutcomeSkipped)
		return
	}

	pr := PassResult{Sheet: sheet.Name, Lookup: lookup}
	defer func() {
		r.finishPass(pr)
	}()
	if err != nil {
		pr.Err = fmt.Errorf("finding %s: %w", lookup, err)
		return
	}

	r.log.Infof("Checking %s", target.Name())
	r.log.Debugf("Got %d positive keywords from sheet: %v", len(col.Keywords), col.Keywords)

	queries, err := r.cfg.Platform.SearchQueries(ctx, platforms.NewReportQuery(sheet.Settings, col.AdGroup))
	if err != nil {
		pr.Err = fmt.Errorf("fetching search queries for %s: %w", lookup, err)
		return
	}
	existing, err := target.NegativeKeywords(ctx)
	if err != nil {
		pr.Err = fmt.Errorf("fetching negative keywords of %s: %w", lookup, err)
		return
	}

	res, err := keywords.Process(keywords.Pass{
		Campaign:          lookup.Campaign,
		AdGroup:           lookup.AdGroup,
		MatchThreshold:    col.MinKeywordMatches,
		MatchType:         sheet.Settings.NegativeMatchType,
		RemovalMatchType:  r.cfg.RemovalMatchType,
		PositiveKeywords:  col.Keywords,
		Queries:           queries,
		ExistingNegatives: existing,
	})
	if err != nil {
		pr.Err = fmt.Errorf("%s: %w", lookup, err)
		return
	}
	pr.Warnings = res.Warnings

	var changes []storage.Change
	change := func(changeType, keyword, matchType, detail string) storage.Change {
		return storage.Change{
			OccurredAt:   r.now(),
			RunID:        r.runID,
			Sheet:        sheet.Name,
			Campaign:     lookup.Campaign,
			AdGroup:      lookup.AdGroup,
			CampaignType: string(lookup.CampaignType),
			Keyword:      keyword,
			MatchType:    matchType,
			ChangeType:   changeType,
			Detail:       detail,
		}
	}

	for _, c := range res.Conflicts {
		changes = append(changes, change(storage.ChangeConflict, c.Negative.Text, c.Negative.MatchType, c.Warning()))
	}

	for _, rm := range res.NegativesToRemove {
		r.log.Infof("Removing negative keyword '%s' from %s: it blocks positive keyword '%s'", rm.Negative.Text, target.Name(), rm.Positive)
		if !r.cfg.DryRun {
			if err := target.RemoveNegativeKeyword(ctx, rm.Negative); err != nil {
				pr.Err = fmt.Errorf("removing '%s' from %s: %w", rm.Negative.Text, lookup, err)
				break
			}
		}
		pr.Removed = append(pr.Removed, rm)
		changes = append(changes, change(storage.ChangeRemoved, rm.Negative.Text, rm.Negative.MatchType, "blocks positive keyword '"+rm.Positive+"'"))
	}

	if pr.Err == nil {
		if len(res.NegativesToAdd) == 0 {
			r.log.Infof("Found no new negative keywords to add.")
		} else {
			r.log.Infof("Adding a total of %d negative keywords to %s", len(res.NegativesToAdd), target.Name())
		}
		for _, text := range res.NegativesToAdd {
			if !r.cfg.DryRun {
				if err := target.AddNegativeKeyword(ctx, text); err != nil {
					pr.Err = fmt.Errorf("adding '%s' to %s: %w", text, lookup, err)
					break
				}
			}
			pr.Added = append(pr.Added, text)
			changes = append(changes, change(storage.ChangeAdded, text, keywords.PlatformMatchTypeOf(text), ""))
		}
	}

	if r.cfg.DryRun || r.cfg.DB == nil || len(changes) == 0 {
		return
	}
	if err := r.cfg.DB.LogChanges(ctx, changes); err != nil {
		r.log.Warnf("Could not log changes for %s: %v", lookup, err)
	}
}

func (r *runner) finishPass(pr PassResult) {
	r.res.Passes = append(r.res.Passes, pr)
	r.cfg.Metrics.Added(len(pr.Added))
	r.cfg.Metrics.Removed(len(pr.Removed))
	r.cfg.Metrics.Conflicts(len(pr.Warnings))
	if pr.Err != nil {
		r.log.Errorf("%v", pr.Err)
		r.res.Errors = append(r.res.Errors, pr.Err)
		r.cfg.Metrics.Pass(metrics.OutcomeFailed)
	} else {
		r.cfg.Metrics.Pass(metrics.OutcomeProcessed)
	}
	if r.cfg.OnPassDone != nil {
		r.cfg.OnPassDone(pr)
	}
}
