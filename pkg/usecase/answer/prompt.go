package answer

import (
	_ "embed"
	"strings"
)

//go:embed prompt/system.md
var systemPrompt string

//go:embed prompt/style.md
var styleGuide string

//go:embed prompt/deepdive.md
var deepDiveGuide string

//go:embed prompt/fewshot.md
var fewShot string

//go:embed prompt/compose.md
var composeInstruction string

// RefusalLine is the fixed, verbatim fallback answer signaling insufficient
// grounding. The prompt instructs the model to use it unchanged; the server
// also substitutes it when the model returns an empty answer.
const RefusalLine = "I’m not sure how to answer that. Would you like to chat with a person?"

// DeepDiveHint is offered to the client UI when a theology question was
// answered in standard mode.
const DeepDiveHint = "Would you like me to dig deeper into this topic for a more thorough answer?"

func refusalInstruction() string {
	return strings.Join([]string{
		"Use this exact refusal line when needed:",
		RefusalLine,
	}, "\n")
}
