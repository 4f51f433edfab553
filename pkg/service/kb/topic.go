package kb

import (
	"regexp"

	"github.com/christlutheran/kbchat/pkg/model"
)

// topicPatterns are the fixed classification tables. Civic questions must be
// grounded in the congregation's own doctrinal sources; theology questions
// trigger the deep-dive offer; the deep-dive pattern detects an in-text
// request for thoroughness.
var topicPatterns = map[model.Topic]*regexp.Regexp{
	model.TopicCivic: regexp.MustCompile(
		`(?i)\b(vote|voting|election|candidate|president|governor|mayor|senator|trump|biden|party|republican|democrat|politic|policy|platform)\b`),
	model.TopicTheology: regexp.MustCompile(
		`(?i)\b(baptis|communion|eucharist|lord['’]?s supper|sacrament|justif|sanctif|atonement|trinity|triune|scripture|bible|means of grace|law and gospel|sin|grace|church|ministry|eschatology|return of jesus|heaven|hell|marriage|sexual|sanctity of life|abortion|conscience)\b`),
	model.TopicDeepDive: regexp.MustCompile(
		`(?i)\b(deep dive|take your time|very thorough|research this|go deeper|dig deeper|summarize (?:wels|wisluthsem|wisconsin lutheran seminary))\b`),
}

// Classifier assigns topic categories to a question from fixed pattern
// tables. It is a pure function of its input and can be swapped in tests.
type Classifier struct {
	patterns map[model.Topic]*regexp.Regexp
}

// NewClassifier creates a classifier with the built-in pattern tables.
func NewClassifier() *Classifier {
	return &Classifier{patterns: topicPatterns}
}

// Classify returns the set of topics the question matches, possibly empty.
func (x *Classifier) Classify(question string) model.TopicSet {
	topics := make(model.TopicSet)
	for topic, pattern := range x.patterns {
		if pattern.MatchString(question) {
			topics[topic] = true
		}
	}
	return topics
}
