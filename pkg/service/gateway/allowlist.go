package gateway

import (
	"net/http"

	"github.com/m-mizutani/goerr/v2"
)

// Allowed reports whether the URL matches one of the allow-list patterns.
func (c *Client) Allowed(rawURL string) bool {
	for _, pattern := range c.allowed {
		if pattern.MatchString(rawURL) {
			return true
		}
	}
	return false
}

// checkRedirect refuses to follow redirects whose target leaves the
// allow-list. The gateway never contacts any other origin, not even by
// following a Location header.
func (c *Client) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= 5 {
		return goerr.New("too many redirects")
	}
	if !c.Allowed(req.URL.String()) {
		return goerr.New("redirect target not allowed", goerr.V("url", req.URL.String()))
	}
	return nil
}
