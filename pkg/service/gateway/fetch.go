package gateway

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/christlutheran/kbchat/pkg/utils/logging"
)

// FetchResult is the payload returned to the model for one page fetch.
// Failures are encoded in the payload, never raised as process faults.
type FetchResult struct {
	OK    bool   `json:"ok"`
	URL   string `json:"url,omitempty"`
	Bytes int    `json:"bytes,omitempty"`
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// FetchPage retrieves one allow-listed page, strips it to plain text and caps
// the size. Disallowed URLs are rejected before any network I/O. Each call
// carries its own deadline; expiry fails only this call.
func (c *Client) FetchPage(ctx context.Context, rawURL string, timeout time.Duration) FetchResult {
	if !c.Allowed(rawURL) {
		return FetchResult{OK: false, Error: "URL not allowed", URL: rawURL}
	}
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return FetchResult{OK: false, Error: err.Error(), URL: rawURL}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return FetchResult{OK: false, Error: err.Error(), URL: rawURL}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.From(ctx).Debug("page fetch failed", "url", rawURL, "error", err)
		return FetchResult{OK: false, Error: err.Error(), URL: rawURL}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return FetchResult{OK: false, Error: "HTTP " + strconv.Itoa(resp.StatusCode), URL: rawURL}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return FetchResult{OK: false, Error: err.Error(), URL: rawURL}
	}

	text := ExtractText(string(body))
	if len(text) > c.fetchCap {
		text = text[:c.fetchCap]
	}

	return FetchResult{OK: true, URL: rawURL, Bytes: len(text), Text: text}
}
