package keywords

import "fmt"

// ExistingNegative is a negative keyword already present on the platform,
// either owned by the campaign/ad group or inherited from a shared list.
type ExistingNegative struct {
	ID        string `yaml:"id,omitempty" json:"id,omitempty"`
	Text      string `yaml:"text" json:"text"`
	MatchType string `yaml:"match_type" json:"match_type"`
	// ListName is set when the keyword comes from a shared negative keyword
	// list. Such keywords are never removed.
	ListName string `yaml:"list_name,omitempty" json:"list_name,omitempty"`
}

// FromList reports whether the keyword is inherited from a shared list.
func (n ExistingNegative) FromList() bool {
	return n.ListName != ""
}

// Pass is the input for one campaign or ad group.
type Pass struct {
	Campaign       string `yaml:"campaign"`
	AdGroup        string `yaml:"ad_group,omitempty"`
	MatchThreshold int    `yaml:"match_threshold"`
	MatchType      string `yaml:"match_type"`
	// RemovalMatchType is the platform match type an existing negative must
	// have to be removed. Empty means the platform match type of MatchType.
	RemovalMatchType  string             `yaml:"removal_match_type,omitempty"`
	PositiveKeywords  []string           `yaml:"positive_keywords"`
	Queries           []string           `yaml:"queries"`
	ExistingNegatives []ExistingNegative `yaml:"existing_negatives"`
}

// Removal is an existing negative keyword that blocks a positive keyword and
// can be removed.
type Removal struct {
	Negative  ExistingNegative
	Canonical string
	Positive  string
}

// Conflict is an existing negative keyword that blocks a positive keyword but
// cannot be removed automatically.
type Conflict struct {
	Negative ExistingNegative
	Positive string
}

// Warning describes the conflict for the account owner.
func (c Conflict) Warning() string {
	if c.Negative.FromList() {
		return fmt.Sprintf("Positive keyword '%s' conflicts with negative keyword '%s' from shared list '%s'; remove it from the list manually.", c.Positive, c.Negative.Text, c.Negative.ListName)
	}
	return fmt.Sprintf("Positive keyword '%s' conflicts with negative keyword '%s' (match type %s); not removing.", c.Positive, c.Negative.Text, c.Negative.MatchType)
}

// Result is the outcome of one pass.
type Result struct {
	NegativesToAdd    []string
	NegativesToRemove []Removal
	Conflicts         []Conflict
	Warnings          []string
}
