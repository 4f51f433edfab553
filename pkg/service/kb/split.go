// Package kb turns the raw document corpus into scored, selectable context
// sections for the model prompt.
package kb

import (
	"regexp"
	"strings"

	"github.com/christlutheran/kbchat/pkg/model"
)

var headingPattern = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*$`)

// Split decomposes a document into heading-delimited sections. The body
// before the first heading becomes an "(intro)" section; a document with no
// headings yields exactly that one section. Sections whose accumulated body
// is blank are dropped. Document order is preserved so titles are stable
// across runs.
func Split(doc model.Document) []model.Section {
	var sections []model.Section

	title := doc.Name + ": (intro)"
	var body []string

	push := func() {
		text := strings.TrimSpace(strings.Join(body, "\n"))
		if text != "" {
			sections = append(sections, model.Section{
				Source: doc.Name,
				Title:  title,
				Text:   text,
			})
		}
	}

	for _, line := range strings.Split(doc.Text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if m := headingPattern.FindStringSubmatch(line); m != nil {
			push()
			title = doc.Name + ": " + m[1] + " " + m[2]
			body = body[:0]
			continue
		}
		body = append(body, line)
	}
	push()

	return sections
}

// SplitAll splits every document in corpus order.
func SplitAll(docs []model.Document) []model.Section {
	var sections []model.Section
	for _, doc := range docs {
		sections = append(sections, Split(doc)...)
	}
	return sections
}
