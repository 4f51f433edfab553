package answer

import (
	"fmt"
	"strings"

	"github.com/christlutheran/kbchat/pkg/model"
)

// noContextSentinel keeps the prompt well formed when nothing matched; the
// model sees an explicit empty-context marker rather than a missing block.
const noContextSentinel = "SELECTED CONTEXT: (none matched closely)"

// buildContext assembles the selected-context block for the prompt. Topic
// override sections come first, ahead of and in addition to the generic
// top-N picks, then the combined list is capped by the profile.
func (x *UseCase) buildContext(query string, sections []model.Section, topics model.TopicSet, mode Mode) (string, []string) {
	profile := x.selector.Profile(mode.Deep)

	maxSections := profile.MaxSections
	if topics.Has(model.TopicCivic) {
		maxSections = profile.MaxSectionsCivic
	}

	var picked []model.Section
	if topics.Has(model.TopicCivic) {
		picked = append(picked, x.selector.OverrideSections(sections)...)
	}
	picked = append(picked, x.selector.SelectTop(query, sections, maxSections, profile.MaxChars)...)

	if len(picked) > profile.CombinedCap {
		picked = picked[:profile.CombinedCap]
	}

	if len(picked) == 0 {
		return noContextSentinel, nil
	}

	titles := make([]string, 0, len(picked))
	chunks := make([]string, 0, len(picked))
	for _, sec := range picked {
		titles = append(titles, sec.Title)
		chunks = append(chunks, sec.Chunk())
	}

	block := fmt.Sprintf("SELECTED CONTEXT (top %d sections):\n\n%s",
		len(picked), strings.Join(chunks, "\n\n---\n\n"))
	return block, titles
}
