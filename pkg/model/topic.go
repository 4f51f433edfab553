package model

// Topic is a category assigned to an incoming question by the pattern
// classifier. A question may match zero or more topics.
type Topic string

const (
	// TopicCivic marks questions touching elections, candidates or public
	// policy. Answers to these must be grounded in the congregation's own
	// doctrinal sources regardless of keyword score.
	TopicCivic Topic = "civic"

	// TopicTheology marks doctrinal questions, used to offer a deep dive.
	TopicTheology Topic = "theology"

	// TopicDeepDive marks an explicit in-text request for a thorough answer.
	TopicDeepDive Topic = "deep_dive"
)

// TopicSet is the classifier result with set-membership lookups.
type TopicSet map[Topic]bool

func (s TopicSet) Has(t Topic) bool { return s[t] }
