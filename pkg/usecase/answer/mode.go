package answer

import (
	"time"

	"github.com/christlutheran/kbchat/pkg/model"
)

// ModelTiers names the upstream model serving each mode. Either tier can be
// overridden from configuration.
type ModelTiers struct {
	Standard string
	Deep     string
}

// DefaultModelTiers returns the default tier assignment.
func DefaultModelTiers() ModelTiers {
	return ModelTiers{
		Standard: "gpt-4o-mini",
		Deep:     "gpt-4o",
	}
}

// Mode is the request-wide deep-dive decision and everything it controls:
// selection profile, tool-round budget, sampling temperature, model tier,
// per-fetch deadline and response length cap. It is decided once per request
// and never changes the conversation protocol itself.
type Mode struct {
	Deep         bool
	MaxRounds    int
	Temperature  float64
	Model        string
	MaxTokens    int
	FetchTimeout time.Duration
}

// decideMode resolves the deep-dive boolean from the explicit caller flag or
// an in-text request for thoroughness, then derives the mode parameters.
func decideMode(explicit bool, topics model.TopicSet, tiers ModelTiers) Mode {
	if explicit || topics.Has(model.TopicDeepDive) {
		return Mode{
			Deep:         true,
			MaxRounds:    6,
			Temperature:  0.40,
			Model:        tiers.Deep,
			MaxTokens:    2048,
			FetchTimeout: 6 * time.Second,
		}
	}
	return Mode{
		Deep:         false,
		MaxRounds:    2,
		Temperature:  0.36,
		Model:        tiers.Standard,
		MaxTokens:    1024,
		FetchTimeout: 4500 * time.Millisecond,
	}
}
