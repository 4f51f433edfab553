package model

// ToolActivity records one dispatched tool call for observability. It is
// returned to the caller alongside the answer and never drives control flow.
type ToolActivity struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args"`
	OK   bool           `json:"ok"`
	Note string         `json:"note,omitempty"`
}
