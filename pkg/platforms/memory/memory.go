// Package memory is an in-memory advertising platform. It is used by tests
// and for trying sheets without touching a real account.
package memory

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sw33tLie/autoneg/pkg/keywords"
	"github.com/sw33tLie/autoneg/pkg/platforms"
)

// QueryRow is one row of the search query performance report.
type QueryRow struct {
	Campaign    string
	AdGroup     string
	Query       string
	Clicks      int
	Conversions float64
}

type targetKey struct {
	campaignType platforms.CampaignType
	campaign     string
	adGroup      string
}

type target struct {
	key       targetKey
	negatives []keywords.ExistingNegative
	// shared lists are attached to campaigns only
	sharedLists []string
}

type Platform struct {
	targets     map[targetKey]*target
	sharedLists map[string][]keywords.ExistingNegative
	rows        []QueryRow
	nextID      int
}

var _ platforms.Platform = (*Platform)(nil)

func New() *Platform {
	return &Platform{
		targets:     map[targetKey]*target{},
		sharedLists: map[string][]keywords.ExistingNegative{},
	}
}

func (p *Platform) Name() string { return "memory" }

// Authenticate is a no-op for the memory platform.
func (p *Platform) Authenticate(ctx context.Context, cfg platforms.AuthConfig) error { return nil }

// AddCampaign creates a campaign with the given ad groups.
func (p *Platform) AddCampaign(ct platforms.CampaignType, campaign string, adGroups ...string) {
	p.ensure(targetKey{ct, campaign, ""})
	for _, ag := range adGroups {
		p.ensure(targetKey{ct, campaign, ag})
	}
}

// AddQueries appends rows to the query report.
func (p *Platform) AddQueries(rows ...QueryRow) {
	p.rows = append(p.rows, rows...)
}

// AddNegatives adds negatives owned by the campaign (adGroup == "") or ad group.
func (p *Platform) AddNegatives(ct platforms.CampaignType, campaign, adGroup string, texts ...string) {
	t := p.ensure(targetKey{ct, campaign, adGroup})
	for _, text := range texts {
		t.negatives = append(t.negatives, p.newNegative(text))
	}
}

// AttachSharedList attaches a shared negative keyword list to a campaign. Ad
// groups of the campaign inherit it.
func (p *Platform) AttachSharedList(ct platforms.CampaignType, campaign, listName string, texts ...string) {
	t := p.ensure(targetKey{ct, campaign, ""})
	t.sharedLists = append(t.sharedLists, listName)
	for _, text := range texts {
		neg := p.newNegative(text)
		neg.ListName = listName
		p.sharedLists[listName] = append(p.sharedLists[listName], neg)
	}
}

// Negatives returns the negatives owned by a campaign or ad group.
func (p *Platform) Negatives(ct platforms.CampaignType, campaign, adGroup string) []string {
	t, ok := p.targets[targetKey{ct, campaign, adGroup}]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(t.negatives))
	for _, n := range t.negatives {
		out = append(out, n.Text)
	}
	return out
}

func (p *Platform) ensure(k targetKey) *target {
	t, ok := p.targets[k]
	if !ok {
		t = &target{key: k}
		p.targets[k] = t
	}
	return t
}

func (p *Platform) newNegative(text string) keywords.ExistingNegative {
	p.nextID++
	return keywords.ExistingNegative{
		ID:        strconv.Itoa(p.nextID),
		Text:      text,
		MatchType: keywords.PlatformMatchTypeOf(text),
	}
}

func (p *Platform) FindTarget(ctx context.Context, l platforms.Lookup) (platforms.Target, error) {
	k := targetKey{l.CampaignType, l.Campaign, l.AdGroup}
	if l.CampaignLevel {
		k.adGroup = ""
	} else if l.AdGroup == "" {
		return nil, fmt.Errorf("%s: %w", l, platforms.ErrNotFound)
	}
	t, ok := p.targets[k]
	if !ok {
		return nil, fmt.Errorf("%s: %w", l, platforms.ErrNotFound)
	}
	return &memTarget{p: p, t: t}, nil
}

func (p *Platform) SearchQueries(ctx context.Context, q platforms.ReportQuery) ([]string, error) {
	minClicks, err := parseOptional(q.MinClicks)
	if err != nil {
		return nil, err
	}
	maxConversions, err := parseOptional(q.MaxConversions)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, r := range p.rows {
		if r.Campaign != q.Campaign {
			continue
		}
		if q.AdGroup != "" && r.AdGroup != q.AdGroup {
			continue
		}
		if minClicks != nil && !(float64(r.Clicks) > *minClicks) {
			continue
		}
		if maxConversions != nil && !(r.Conversions < *maxConversions) {
			continue
		}
		out = append(out, r.Query)
	}
	return out, nil
}

func parseOptional(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid report filter %q: %w", s, err)
	}
	return &f, nil
}

type memTarget struct {
	p *Platform
	t *target
}

func (m *memTarget) Name() string {
	if m.t.key.adGroup == "" {
		return m.t.key.campaign
	}
	return m.t.key.campaign + " > " + m.t.key.adGroup
}

func (m *memTarget) NegativeKeywords(ctx context.Context) ([]keywords.ExistingNegative, error) {
	out := append([]keywords.ExistingNegative{}, m.t.negatives...)

	campaign := m.p.targets[targetKey{m.t.key.campaignType, m.t.key.campaign, ""}]
	if campaign != nil {
		for _, name := range campaign.sharedLists {
			out = append(out, m.p.sharedLists[name]...)
		}
	}
	return out, nil
}

func (m *memTarget) AddNegativeKeyword(ctx context.Context, text string) error {
	m.t.negatives = append(m.t.negatives, m.p.newNegative(text))
	return nil
}

func (m *memTarget) RemoveNegativeKeyword(ctx context.Context, neg keywords.ExistingNegative) error {
	if neg.FromList() {
		return fmt.Errorf("negative keyword '%s' belongs to shared list '%s'", neg.Text, neg.ListName)
	}
	for i, n := range m.t.negatives {
		if (neg.ID != "" && n.ID == neg.ID) || (neg.ID == "" && n.Text == neg.Text && n.MatchType == neg.MatchType) {
			m.t.negatives = append(m.t.negatives[:i], m.t.negatives[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("negative keyword '%s': %w", neg.Text, platforms.ErrNotFound)
}
