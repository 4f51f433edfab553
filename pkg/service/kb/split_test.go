package kb_test

import (
	"strings"
	"testing"

	"github.com/christlutheran/kbchat/pkg/model"
	"github.com/christlutheran/kbchat/pkg/service/kb"
	"github.com/m-mizutani/gt"
)

func TestSplitHeadings(t *testing.T) {
	doc := model.Document{
		Name: "faq",
		Text: strings.Join([]string{
			"Welcome to our FAQ.",
			"",
			"## Baptism",
			"Baptism is a means of grace.",
			"",
			"### Infant Baptism",
			"Yes, we baptize infants.",
			"",
			"## Service Times",
			"Sunday at 9:30 AM.",
		}, "\n"),
	}

	sections := kb.Split(doc)
	gt.Equal(t, len(sections), 4)

	gt.Equal(t, sections[0].Title, "faq: (intro)")
	gt.Equal(t, sections[0].Text, "Welcome to our FAQ.")

	gt.Equal(t, sections[1].Title, "faq: ## Baptism")
	gt.Equal(t, sections[2].Title, "faq: ### Infant Baptism")

	gt.Equal(t, sections[3].Title, "faq: ## Service Times")
	gt.Equal(t, sections[3].Text, "Sunday at 9:30 AM.")

	for _, sec := range sections {
		gt.Equal(t, sec.Source, "faq")
		gt.True(t, sec.Text != "")
	}
}

func TestSplitNoHeadings(t *testing.T) {
	doc := model.Document{Name: "notes", Text: "  just a plain body\nwith two lines  \n"}

	sections := kb.Split(doc)
	gt.Equal(t, len(sections), 1)
	gt.Equal(t, sections[0].Title, "notes: (intro)")
	gt.Equal(t, sections[0].Text, "just a plain body\nwith two lines")
}

func TestSplitDropsBlankSections(t *testing.T) {
	doc := model.Document{
		Name: "sparse",
		Text: "## Empty\n\n   \n## Filled\ncontent here\n",
	}

	sections := kb.Split(doc)
	gt.Equal(t, len(sections), 1)
	gt.Equal(t, sections[0].Title, "sparse: ## Filled")
}

func TestSplitCRLF(t *testing.T) {
	doc := model.Document{Name: "dos", Text: "## A\r\nline one\r\nline two\r\n"}

	sections := kb.Split(doc)
	gt.Equal(t, len(sections), 1)
	gt.Equal(t, sections[0].Text, "line one\nline two")
}

func TestSplitAllPreservesOrder(t *testing.T) {
	docs := []model.Document{
		{Name: "a", Text: "## One\nfirst"},
		{Name: "b", Text: "## Two\nsecond"},
	}

	sections := kb.SplitAll(docs)
	gt.Equal(t, len(sections), 2)
	gt.Equal(t, sections[0].Source, "a")
	gt.Equal(t, sections[1].Source, "b")
}
