// Package websearch exposes the allow-listed site search to the model.
package websearch

import (
	"context"
	"encoding/json"

	"github.com/christlutheran/kbchat/pkg/model"
	"github.com/christlutheran/kbchat/pkg/service/gateway"
	"github.com/christlutheran/kbchat/pkg/tool"
)

// Name is the function name declared to the model.
const Name = "search_approved"

type searchInput struct {
	Query string `json:"query"`
}

type webSearch struct {
	gateway *gateway.Client
}

// New creates the search tool.
func New(gw *gateway.Client) tool.Tool {
	return &webSearch{gateway: gw}
}

func (x *webSearch) Spec() model.ToolSpec {
	return model.ToolSpec{
		Type: "function",
		Function: model.FunctionSpec{
			Name:        Name,
			Description: "Search allowed domains (wels.net, wisluthsem.org, christlutheran.com) and return candidate URLs.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "Search terms to use on allowed sites.",
					},
				},
				"required": []string{"query"},
			},
		},
	}
}

func (x *webSearch) Prompt(ctx context.Context) string {
	return "You may use search_approved to find candidate pages on the allowed domains before fetching them."
}

func (x *webSearch) Execute(ctx context.Context, call model.ToolCall) tool.Result {
	var input searchInput
	_ = json.Unmarshal([]byte(call.Function.Arguments), &input)

	result := x.gateway.SearchSites(ctx, input.Query)
	return tool.Result{
		Payload: result,
		OK:      result.OK,
		Note:    result.Query,
	}
}
