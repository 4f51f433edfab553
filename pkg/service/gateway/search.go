package gateway

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/christlutheran/kbchat/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// SiteResult holds the candidate links found on one site. A failing or slow
// endpoint contributes an empty link list.
type SiteResult struct {
	Site  string   `json:"site"`
	Base  string   `json:"base"`
	Links []string `json:"links"`
}

// SearchResult is the payload returned to the model for one search call. It
// is always OK: the fan-out is best effort and partial results are expected.
type SearchResult struct {
	OK      bool         `json:"ok"`
	Query   string       `json:"query"`
	Results []SiteResult `json:"results"`
}

// SearchSites queries every configured endpoint concurrently, each with its
// own deadline, and collects same-site candidate links. Results arrive in
// endpoint order regardless of completion order.
func (c *Client) SearchSites(ctx context.Context, query string) SearchResult {
	results := make([]SiteResult, len(c.endpoints))

	g, ctx := errgroup.WithContext(ctx)
	for i, ep := range c.endpoints {
		g.Go(func() error {
			results[i] = c.searchOne(ctx, ep, query)
			return nil
		})
	}
	// searchOne never returns an error; the join is for completion only
	_ = g.Wait()

	return SearchResult{OK: true, Query: query, Results: results}
}

func (c *Client) searchOne(ctx context.Context, ep Endpoint, query string) SiteResult {
	empty := SiteResult{Site: ep.Name, Base: ep.Base, Links: []string{}}

	ctx, cancel := context.WithTimeout(ctx, c.searchTimeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return empty
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ep.SearchURL(query), nil)
	if err != nil {
		return empty
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.From(ctx).Debug("site search failed", "site", ep.Name, "error", err)
		return empty
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return empty
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return empty
	}

	links := ExtractLinks(string(body), ep.Base)
	if len(links) > linksPerSite {
		links = links[:linksPerSite]
	}
	return SiteResult{Site: ep.Name, Base: ep.Base, Links: links}
}

func wordpressSearch(base string) func(term string) string {
	return func(term string) string {
		return base + "/?s=" + url.QueryEscape(term)
	}
}
