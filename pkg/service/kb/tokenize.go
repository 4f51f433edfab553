package kb

import (
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// stopWords are dropped before scoring so function words do not count as
// topical overlap.
var stopWords = map[string]bool{
	"the": true, "and": true, "or": true, "a": true, "an": true, "of": true,
	"to": true, "for": true, "in": true, "on": true, "at": true, "is": true,
	"are": true, "be": true, "with": true, "by": true, "it": true, "we": true,
	"you": true, "our": true, "from": true, "as": true, "that": true,
	"this": true, "these": true, "those": true,
}

// Tokenize lowercases the input, extracts alphanumeric runs and drops stop
// words.
func Tokenize(s string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(s), -1)
	tokens := make([]string, 0, len(raw))
	for _, w := range raw {
		if !stopWords[w] {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

func tokenSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, w := range tokens {
		set[w] = true
	}
	return set
}
