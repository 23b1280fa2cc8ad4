package adsapi

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/sw33tLie/autoneg/internal/utils"
	"github.com/sw33tLie/autoneg/pkg/keywords"
	"github.com/sw33tLie/autoneg/pkg/platforms"
)

const (
	campaignsKind = "campaigns"
	adGroupsKind  = "adGroups"
)

func (c *Client) FindTarget(ctx context.Context, l platforms.Lookup) (platforms.Target, error) {
	campaignID, err := c.findID(ctx, c.customerPath(campaignsKind)+"?"+url.Values{
		"name": {l.Campaign},
		"type": {strings.ToUpper(string(l.CampaignType))},
	}.Encode(), "campaigns", l.Campaign)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l, err)
	}

	if l.CampaignLevel {
		return &target{c: c, kind: campaignsKind, id: campaignID, campaignID: campaignID, name: l.Campaign}, nil
	}

	adGroupID, err := c.findID(ctx, c.customerPath(campaignsKind, campaignID, adGroupsKind)+"?"+url.Values{
		"name": {l.AdGroup},
	}.Encode(), "adGroups", l.AdGroup)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l, err)
	}
	return &target{c: c, kind: adGroupsKind, id: adGroupID, campaignID: campaignID, name: l.Campaign + " > " + l.AdGroup}, nil
}

// findID returns the id of the first element of listKey whose name matches exactly.
func (c *Client) findID(ctx context.Context, rawURL, listKey, name string) (string, error) {
	body, err := c.do(ctx, "GET", rawURL, nil)
	if err != nil {
		return "", err
	}
	for _, item := range gjson.Get(body, listKey).Array() {
		if item.Get("name").String() == name {
			return item.Get("id").String(), nil
		}
	}
	return "", platforms.ErrNotFound
}

// SearchQueries runs the report query and returns the Query column of every
// row, following pagination.
func (c *Client) SearchQueries(ctx context.Context, q platforms.ReportQuery) ([]string, error) {
	query := q.String()
	utils.Log.Tracef("Query: %s", query)

	var out []string
	pageToken := ""
	for {
		reqBody, err := sjson.SetBytes([]byte(`{}`), "query", query)
		if err != nil {
			return nil, err
		}
		if pageToken != "" {
			if reqBody, err = sjson.SetBytes(reqBody, "pageToken", pageToken); err != nil {
				return nil, err
			}
		}

		body, err := c.do(ctx, "POST", c.customerPath("reports:search"), reqBody)
		if err != nil {
			return nil, fmt.Errorf("search query report for campaign '%s': %w", q.Campaign, err)
		}

		for _, row := range gjson.Get(body, "rows").Array() {
			out = append(out, row.Get("query").String())
		}

		pageToken = gjson.Get(body, "nextPageToken").String()
		if pageToken == "" {
			return out, nil
		}
	}
}

type target struct {
	c          *Client
	kind       string
	id         string
	campaignID string
	name       string
}

func (t *target) Name() string { return t.name }

func (t *target) keywordsURL(segments ...string) string {
	return t.c.customerPath(append([]string{t.kind, t.id, "negativeKeywords"}, segments...)...)
}

func (t *target) NegativeKeywords(ctx context.Context) ([]keywords.ExistingNegative, error) {
	var out []keywords.ExistingNegative

	pageToken := ""
	for {
		rawURL := t.keywordsURL()
		if pageToken != "" {
			rawURL += "?" + url.Values{"pageToken": {pageToken}}.Encode()
		}
		body, err := t.c.do(ctx, "GET", rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("negative keywords of %s: %w", t.name, err)
		}
		for _, kw := range gjson.Get(body, "negativeKeywords").Array() {
			out = append(out, parseNegative(kw, ""))
		}
		pageToken = gjson.Get(body, "nextPageToken").String()
		if pageToken == "" {
			break
		}
	}

	body, err := t.c.do(ctx, "GET", t.c.customerPath(campaignsKind, t.campaignID, "sharedNegativeLists"), nil)
	if err != nil {
		return nil, fmt.Errorf("shared negative lists of %s: %w", t.name, err)
	}
	for _, list := range gjson.Get(body, "lists").Array() {
		listName := list.Get("name").String()
		for _, kw := range list.Get("keywords").Array() {
			out = append(out, parseNegative(kw, listName))
		}
	}
	return out, nil
}

func parseNegative(kw gjson.Result, listName string) keywords.ExistingNegative {
	neg := keywords.ExistingNegative{
		ID:        kw.Get("id").String(),
		Text:      kw.Get("text").String(),
		MatchType: strings.ToUpper(kw.Get("matchType").String()),
		ListName:  listName,
	}
	if neg.MatchType == "" {
		neg.MatchType = keywords.PlatformMatchTypeOf(neg.Text)
	}
	return neg
}

func (t *target) AddNegativeKeyword(ctx context.Context, text string) error {
	reqBody, err := sjson.SetBytes([]byte(`{}`), "text", text)
	if err != nil {
		return err
	}
	if _, err := t.c.do(ctx, "POST", t.keywordsURL(), reqBody); err != nil {
		return fmt.Errorf("add negative keyword '%s' to %s: %w", text, t.name, err)
	}
	return nil
}

func (t *target) RemoveNegativeKeyword(ctx context.Context, neg keywords.ExistingNegative) error {
	if neg.FromList() {
		return fmt.Errorf("negative keyword '%s' belongs to shared list '%s'", neg.Text, neg.ListName)
	}
	if neg.ID == "" {
		return fmt.Errorf("negative keyword '%s' has no id", neg.Text)
	}
	if _, err := t.c.do(ctx, "DELETE", t.keywordsURL(neg.ID), nil); err != nil {
		return fmt.Errorf("remove negative keyword '%s' from %s: %w", neg.Text, t.name, err)
	}
	return nil
}
