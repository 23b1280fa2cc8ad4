package keywords

import (
	"github.com/sw33tLie/autoneg/internal/utils"
)

// Process classifies the queries of a pass. It validates the configuration
// before doing anything else, so an invalid pass yields no additions and no
// removals.
func Process(p Pass) (*Result, error) {
	matchType, err := ParseMatchType(p.MatchType)
	if err != nil {
		return &Result{}, err
	}

	removalMatchType := p.RemovalMatchType
	if removalMatchType == "" {
		removalMatchType = matchType.PlatformMatchType()
	}

	rec := Reconcile(p.ExistingNegatives, p.PositiveKeywords, removalMatchType)

	return &Result{
		NegativesToAdd:    Classify(p.Queries, p.PositiveKeywords, p.MatchThreshold, matchType, rec),
		NegativesToRemove: rec.Removals,
		Conflicts:         rec.Conflicts,
		Warnings:          rec.Warnings,
	}, nil
}

// Classify returns the encoded queries that contain fewer than threshold
// positive keywords and are not already excluded. The order is the order of
// queries; repeated queries are returned once.
func Classify(queries, positives []string, threshold int, matchType MatchType, rec *Reconciliation) []string {
	negs := []string{}
	queued := make(map[string]struct{})

	for _, q := range queries {
		encoded := matchType.Encode(q)
		if rec != nil && rec.Has(encoded) {
			traceLog("Query '%s' is already a negative keyword.", q)
			continue
		}
		if _, ok := queued[encoded]; ok {
			continue
		}

		if CountMatches(q, positives, threshold) >= threshold {
			continue
		}

		utils.Log.Debugf("Query '%s' will be added as negative keyword.", q)
		queued[encoded] = struct{}{}
		negs = append(negs, encoded)
	}
	return negs
}

func traceLog(format string, args ...interface{}) {
	utils.Log.Tracef(format, args...)
}
