package tool

import (
	"context"

	"github.com/christlutheran/kbchat/pkg/model"
)

// Tool represents an external capability the model may invoke during the
// orchestration loop.
type Tool interface {
	// Spec returns the tool declaration sent to the model.
	Spec() model.ToolSpec

	// Execute runs the tool for one requested call. Tool-level failures are
	// encoded in the Result payload, not returned as errors; an error from
	// Execute means the call could not be attempted at all.
	Execute(ctx context.Context, call model.ToolCall) Result

	// Prompt returns additional guidance to be added to the system prompt.
	// Returns empty string if no additional prompt is needed.
	Prompt(ctx context.Context) string
}

// Result is the outcome of one tool call. Payload is marshaled verbatim into
// the tool turn; OK and Note feed the activity log.
type Result struct {
	Payload any
	OK      bool
	Note    string
}
