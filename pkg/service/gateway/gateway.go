// Package gateway is the sole permitted path for outbound web access,
// restricted to a fixed set of allow-listed origins.
package gateway

import (
	"net/http"
	"regexp"
	"time"

	"golang.org/x/time/rate"
)

const (
	userAgent = "CLC-Chatbot/1.0"

	// Fetched pages are stripped to plain text and capped at this many
	// characters before being handed to the model.
	defaultFetchCap = 22000

	defaultFetchTimeout  = 4500 * time.Millisecond
	defaultSearchTimeout = 4 * time.Second

	// raw anchors scanned per page before dedup, and links kept per site
	rawLinkCap   = 10
	linksPerSite = 5
)

// Endpoint is one allow-listed site with its search URL.
type Endpoint struct {
	Name string
	Base string
	// SearchURL builds the site search URL for a term.
	SearchURL func(term string) string
}

// defaultAllowlist matches the three permitted origins. Query strings are
// rejected so the model cannot smuggle parameters into fetched pages.
var defaultAllowlist = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^https?://(www\.)?wels\.net/[^?]*$`),
	regexp.MustCompile(`(?i)^https?://(www\.)?wisluthsem\.org/[^?]*$`),
	regexp.MustCompile(`(?i)^https?://(www\.)?christlutheran\.com/[^?]*$`),
}

// Client performs time-bounded, allow-listed fetch and search requests. All
// operations are read-only and idempotent; redirects leaving the allow-list
// abort the request.
type Client struct {
	httpClient    *http.Client
	limiter       *rate.Limiter
	allowed       []*regexp.Regexp
	endpoints     []Endpoint
	searchTimeout time.Duration
	fetchCap      int
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The allow-list
// redirect check is still enforced.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithAllowlist replaces the allow-list patterns. Intended for tests; the
// production set is fixed.
func WithAllowlist(patterns ...*regexp.Regexp) Option {
	return func(c *Client) {
		c.allowed = patterns
	}
}

// WithEndpoints replaces the search endpoints. Intended for tests.
func WithEndpoints(endpoints ...Endpoint) Option {
	return func(c *Client) {
		c.endpoints = endpoints
	}
}

// WithSearchTimeout sets the per-endpoint search deadline.
func WithSearchTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.searchTimeout = d
	}
}

// WithRateLimit bounds outbound request rate across all operations.
func WithRateLimit(limiter *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = limiter
	}
}

// New creates a gateway client for the fixed allow-listed sites.
func New(opts ...Option) *Client {
	c := &Client{
		limiter:       rate.NewLimiter(rate.Limit(5), 5),
		allowed:       defaultAllowlist,
		endpoints:     DefaultEndpoints(),
		searchTimeout: defaultSearchTimeout,
		fetchCap:      defaultFetchCap,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	c.httpClient.CheckRedirect = c.checkRedirect

	return c
}

// DefaultEndpoints returns the three fixed search endpoints.
func DefaultEndpoints() []Endpoint {
	return []Endpoint{
		{
			Name:      "wels",
			Base:      "https://wels.net",
			SearchURL: wordpressSearch("https://wels.net"),
		},
		{
			Name:      "wisluthsem",
			Base:      "https://www.wisluthsem.org",
			SearchURL: wordpressSearch("https://www.wisluthsem.org"),
		},
		{
			Name:      "clc",
			Base:      "https://www.christlutheran.com",
			SearchURL: wordpressSearch("https://www.christlutheran.com"),
		},
	}
}
