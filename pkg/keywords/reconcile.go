package keywords

import (
	"strings"

	"github.com/sw33tLie/autoneg/internal/utils"
)

// Reconciliation holds the decisions taken for the existing negatives of a pass.
type Reconciliation struct {
	// Lookup contains the text of every existing negative that stays in place.
	Lookup    map[string]bool
	Removals  []Removal
	Conflicts []Conflict
	Warnings  []string
}

// Has reports whether encoded is already an existing negative.
func (r *Reconciliation) Has(encoded string) bool {
	return r.Lookup[encoded]
}

// Reconcile cross-references existing negatives against the positive
// keywords. A negative whose bare words are contained in a positive keyword
// blocks that keyword: it is marked for removal when it is owned directly and
// has removalMatchType, and reported as a conflict otherwise.
//
// Reconcile performs no removal itself.
func Reconcile(existing []ExistingNegative, positives []string, removalMatchType string) *Reconciliation {
	r := &Reconciliation{Lookup: make(map[string]bool, len(existing))}

	for _, neg := range existing {
		canonical := StripModifiers(neg.Text)

		positive, found := "", false
		for _, kw := range positives {
			if Contains(kw, canonical) {
				positive, found = kw, true
				break
			}
		}

		if !found {
			r.Lookup[neg.Text] = true
			continue
		}

		if !neg.FromList() && strings.EqualFold(neg.MatchType, removalMatchType) {
			utils.Log.Debugf("Negative keyword '%s' blocks positive keyword '%s'; removing.", neg.Text, positive)
			r.Removals = append(r.Removals, Removal{Negative: neg, Canonical: canonical, Positive: positive})
			continue
		}

		conflict := Conflict{Negative: neg, Positive: positive}
		utils.Log.Warn(conflict.Warning())
		r.Conflicts = append(r.Conflicts, conflict)
		r.Warnings = append(r.Warnings, conflict.Warning())
		r.Lookup[neg.Text] = true
	}

	return r
}
