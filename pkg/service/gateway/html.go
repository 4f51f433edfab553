package gateway

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var whitespacePattern = regexp.MustCompile(`\s+`)

// ExtractText strips script and style blocks plus all remaining markup and
// collapses whitespace. Input that fails to parse as HTML falls back to a
// crude tag strip so a fetch never fails on malformed markup.
func ExtractText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return collapse(stripTags(html))
	}

	doc.Find("script, style, noscript").Remove()
	return collapse(doc.Text())
}

// ExtractLinks collects anchor targets that are absolute URLs on the given
// base with no fragment. The first rawLinkCap matches are considered, then
// de-duplicated preserving order.
func ExtractLinks(html, base string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return []string{}
	}

	var links []string
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		if !ok {
			return true
		}
		lower := strings.ToLower(href)
		if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
			return true
		}
		if !strings.HasPrefix(href, base) {
			return true
		}
		if strings.Contains(href, "#") {
			return true
		}
		links = append(links, href)
		return len(links) < rawLinkCap
	})

	return dedupe(links)
}

var tagPattern = regexp.MustCompile(`</?[^>]+>`)

func stripTags(html string) string {
	return tagPattern.ReplaceAllString(html, " ")
}

func collapse(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

func dedupe(links []string) []string {
	seen := make(map[string]bool, len(links))
	out := make([]string, 0, len(links))
	for _, link := range links {
		if seen[link] {
			continue
		}
		seen[link] = true
		out = append(out, link)
	}
	return out
}
