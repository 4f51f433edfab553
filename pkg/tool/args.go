package tool

import (
	"encoding/json"

	"github.com/christlutheran/kbchat/pkg/model"
)

// DecodeArgs parses a call's raw JSON arguments. A malformed argument string
// yields an empty map; tools then fail on their own required-field checks.
func DecodeArgs(call model.ToolCall) map[string]any {
	args := map[string]any{}
	if raw := call.Function.Arguments; raw != "" {
		_ = json.Unmarshal([]byte(raw), &args)
	}
	return args
}
