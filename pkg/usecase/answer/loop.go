package answer

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/christlutheran/kbchat/pkg/adapter"
	"github.com/christlutheran/kbchat/pkg/model"
	"github.com/christlutheran/kbchat/pkg/tool"
	"github.com/christlutheran/kbchat/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// loopState enumerates the orchestration state machine. Modeling the round
// bound and the forced-termination fallback as explicit states keeps them
// testable without the network layer.
type loopState int

const (
	stateAwaitingModel loopState = iota
	stateDispatching
	stateDone
	stateFailed
)

// loop drives a bounded number of model rounds, dispatching requested tool
// calls between them. Rounds are strictly sequential; tool calls within one
// round are dispatched and appended in request order.
type loop struct {
	openai   adapter.OpenAI
	registry *tool.Registry
	mode     Mode

	conversation []model.Message
	activity     []model.ToolActivity
	rounds       int
}

func newLoop(openai adapter.OpenAI, registry *tool.Registry, mode Mode, conversation []model.Message) *loop {
	return &loop{
		openai:       openai,
		registry:     registry,
		mode:         mode,
		conversation: conversation,
		activity:     []model.ToolActivity{},
	}
}

// run executes the state machine until a terminal state and returns the
// final answer text. A tool-level failure never reaches here; only upstream
// model errors terminate the loop with an error.
func (l *loop) run(ctx context.Context) (string, error) {
	logger := logging.From(ctx)

	st := stateAwaitingModel
	var last *model.Message
	var failure error

	for {
		switch st {
		case stateAwaitingModel:
			msg, err := l.openai.ChatCompletion(ctx, adapter.ChatInput{
				Model:       l.mode.Model,
				Temperature: l.mode.Temperature,
				MaxTokens:   l.mode.MaxTokens,
				Messages:    l.conversation,
				Tools:       l.registry.Specs(),
			})
			if err != nil {
				failure = err
				st = stateFailed
				continue
			}
			last = msg

			if len(msg.ToolCalls) > 0 && l.rounds < l.mode.MaxRounds {
				st = stateDispatching
				continue
			}
			if len(msg.ToolCalls) > 0 {
				logger.Warn("tool round budget exhausted, forcing final answer",
					"rounds", l.rounds, "requested", len(msg.ToolCalls))
			}
			st = stateDone

		case stateDispatching:
			l.conversation = append(l.conversation, *last)
			for _, call := range last.ToolCalls {
				result := l.registry.Dispatch(ctx, call)

				payload, err := json.Marshal(result.Payload)
				if err != nil {
					// encode even the marshal failure as a tool-level payload
					payload = []byte(`{"ok":false,"error":"tool result not serializable"}`)
				}
				l.conversation = append(l.conversation, model.Message{
					Role:       model.RoleTool,
					ToolCallID: call.ID,
					Content:    string(payload),
				})
				l.activity = append(l.activity, model.ToolActivity{
					Tool: call.Function.Name,
					Args: tool.DecodeArgs(call),
					OK:   result.OK,
					Note: result.Note,
				})
				logger.Debug("tool dispatched",
					"tool", call.Function.Name, "ok", result.OK, "note", result.Note)
			}
			l.rounds++

			// Deep-dive rounds end with an instruction to compose, which
			// prevents unbounded tool-call chaining on thorough questions.
			if l.mode.Deep {
				l.conversation = append(l.conversation, model.NewSystemMessage(composeInstruction))
			}
			st = stateAwaitingModel

		case stateDone:
			text := ""
			if last != nil {
				text = strings.TrimSpace(last.Content)
			}
			if text == "" {
				text = RefusalLine
			}
			return text, nil

		case stateFailed:
			return "", failure

		default:
			return "", goerr.New("invalid loop state", goerr.V("state", int(st)))
		}
	}
}
