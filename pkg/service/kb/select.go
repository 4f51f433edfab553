package kb

import (
	"regexp"
	"sort"

	"github.com/christlutheran/kbchat/pkg/model"
)

// Selector scores sections against a query and picks a bounded context set.
type Selector struct {
	tun             Tunables
	overrideSources *regexp.Regexp
}

// NewSelector creates a selector with the given tunables.
func NewSelector(tun Tunables) *Selector {
	return &Selector{
		tun:             tun,
		overrideSources: regexp.MustCompile(`(?i)` + tun.Override.SourcePattern),
	}
}

// Tunables returns the active tunables.
func (x *Selector) Tunables() Tunables {
	return x.tun
}

// Score rates a section against a query: distinct query tokens found in the
// body, plus a boost per query token found in the title, minus a penalty for
// very long sections so short focused sections are not crowded out.
func (x *Selector) Score(query string, sec model.Section) float64 {
	q := Tokenize(query)
	body := Tokenize(sec.Text)
	if len(q) == 0 || len(body) == 0 {
		return 0
	}

	bodySet := tokenSet(body)
	titleSet := tokenSet(Tokenize(sec.Title))

	var overlap, titleBoost float64
	seen := make(map[string]bool, len(q))
	for _, w := range q {
		if seen[w] {
			continue
		}
		seen[w] = true
		if bodySet[w] {
			overlap++
		}
		if titleSet[w] {
			titleBoost += x.tun.TitleBoost
		}
	}

	penalty := float64(len(body)-x.tun.LengthPenaltyAt) / float64(x.tun.LengthPenaltyAt)
	if penalty < 0 {
		penalty = 0
	}

	return overlap + titleBoost - penalty
}

// SelectTop picks the best-scoring sections in descending score order,
// greedily taking sections that fit under the character budget. A section
// whose rendered chunk would overflow the budget is skipped, never truncated,
// and selection continues with the next candidate. Ties keep source order.
func (x *Selector) SelectTop(query string, sections []model.Section, maxSections, maxChars int) []model.Section {
	scored := make([]model.ScoredSection, 0, len(sections))
	for _, sec := range sections {
		if score := x.Score(query, sec); score > 0 {
			scored = append(scored, model.ScoredSection{Section: sec, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	var picked []model.Section
	var charCount int
	for _, s := range scored {
		chunk := s.Section.Chunk()
		if charCount+len(chunk) > maxChars {
			continue
		}
		picked = append(picked, s.Section)
		charCount += len(chunk)
		if len(picked) >= maxSections {
			break
		}
	}
	return picked
}

// OverrideSections force-includes sections from the designated trusted
// sources, up to the override's own section and per-chunk size caps. These
// are prepended ahead of the generically scored picks regardless of keyword
// score.
func (x *Selector) OverrideSections(sections []model.Section) []model.Section {
	var picked []model.Section
	for _, sec := range sections {
		if !x.overrideSources.MatchString(sec.Source) {
			continue
		}
		if len(sec.Chunk()) > x.tun.Override.MaxChunkChars {
			continue
		}
		picked = append(picked, sec)
		if len(picked) >= x.tun.Override.MaxSections {
			break
		}
	}
	return picked
}

// Profile returns the selection profile for the given mode.
func (x *Selector) Profile(deep bool) Profile {
	if deep {
		return x.tun.Deep
	}
	return x.tun.Standard
}
