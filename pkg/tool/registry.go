package tool

import (
	"context"
	"strings"

	"github.com/christlutheran/kbchat/pkg/model"
)

// Registry manages the tools available to the model and dispatches requested
// calls by function name. Unknown names are rejected here, centrally, so no
// call site needs its own fallback.
type Registry struct {
	tools map[string]Tool
	order []Tool
}

// New creates a new tool registry with the given tools. Declaration order is
// preserved in Specs so the capability list sent to the model is stable.
func New(tools ...Tool) *Registry {
	r := &Registry{
		tools: make(map[string]Tool, len(tools)),
		order: tools,
	}
	for _, t := range tools {
		r.tools[t.Spec().Function.Name] = t
	}
	return r
}

// Specs returns all tool declarations in registration order.
func (r *Registry) Specs() []model.ToolSpec {
	specs := make([]model.ToolSpec, 0, len(r.order))
	for _, t := range r.order {
		specs = append(specs, t.Spec())
	}
	return specs
}

// Prompts returns all tool prompts concatenated.
func (r *Registry) Prompts(ctx context.Context) string {
	var prompts []string
	for _, t := range r.order {
		if prompt := t.Prompt(ctx); prompt != "" {
			prompts = append(prompts, prompt)
		}
	}
	return strings.Join(prompts, "\n\n")
}

// Dispatch executes one requested call. An unknown tool name yields a
// structured failure payload rather than an error.
func (r *Registry) Dispatch(ctx context.Context, call model.ToolCall) Result {
	t, ok := r.tools[call.Function.Name]
	if !ok {
		return Result{
			Payload: map[string]any{"ok": false, "error": "Unknown tool"},
			OK:      false,
		}
	}
	return t.Execute(ctx, call)
}
