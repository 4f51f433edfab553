// Package webfetch exposes the allow-listed page fetch to the model.
package webfetch

import (
	"context"
	"encoding/json"
	"time"

	"github.com/christlutheran/kbchat/pkg/model"
	"github.com/christlutheran/kbchat/pkg/service/gateway"
	"github.com/christlutheran/kbchat/pkg/tool"
)

// Name is the function name declared to the model.
const Name = "fetch_approved"

type fetchInput struct {
	URL string `json:"url"`
}

type webFetch struct {
	gateway *gateway.Client
	timeout time.Duration
}

// New creates the fetch tool. The timeout is chosen per request by the
// deep-dive decision and bounds each individual page fetch.
func New(gw *gateway.Client, timeout time.Duration) tool.Tool {
	return &webFetch{gateway: gw, timeout: timeout}
}

func (x *webFetch) Spec() model.ToolSpec {
	return model.ToolSpec{
		Type: "function",
		Function: model.FunctionSpec{
			Name:        Name,
			Description: "Fetch an allow-listed web page (wels.net, wisluthsem.org, christlutheran.com), strip HTML to clean text, and return up to ~22k characters.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"url": map[string]any{
						"type":        "string",
						"description": "Absolute URL to fetch (must be allow-listed).",
					},
				},
				"required": []string{"url"},
			},
		},
	}
}

func (x *webFetch) Prompt(ctx context.Context) string {
	return "You may use fetch_approved to open pages on the allowed domains. Never browse beyond those domains or follow links automatically."
}

func (x *webFetch) Execute(ctx context.Context, call model.ToolCall) tool.Result {
	var input fetchInput
	_ = json.Unmarshal([]byte(call.Function.Arguments), &input)

	result := x.gateway.FetchPage(ctx, input.URL, x.timeout)
	return tool.Result{
		Payload: result,
		OK:      result.OK,
		Note:    result.URL,
	}
}
