package answer_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/christlutheran/kbchat/pkg/adapter"
	"github.com/christlutheran/kbchat/pkg/model"
	"github.com/christlutheran/kbchat/pkg/repository"
	"github.com/christlutheran/kbchat/pkg/service/gateway"
	"github.com/christlutheran/kbchat/pkg/usecase/answer"
	"github.com/m-mizutani/gt"
)

// fakeOpenAI replays scripted assistant messages and records every
// invocation it receives.
type fakeOpenAI struct {
	responses []*model.Message
	calls     []adapter.ChatInput
	err       error
}

func (f *fakeOpenAI) ChatCompletion(_ context.Context, input adapter.ChatInput) (*model.Message, error) {
	f.calls = append(f.calls, input)
	if f.err != nil {
		return nil, f.err
	}
	idx := len(f.calls) - 1
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	return f.responses[idx], nil
}

func textMessage(content string) *model.Message {
	return &model.Message{Role: model.RoleAssistant, Content: content}
}

func toolCallMessage(content string, calls ...model.ToolCall) *model.Message {
	return &model.Message{Role: model.RoleAssistant, Content: content, ToolCalls: calls}
}

func fetchCall(id, url string) model.ToolCall {
	return model.ToolCall{
		ID:   id,
		Type: "function",
		Function: model.FunctionCall{
			Name:      "fetch_approved",
			Arguments: `{"url":"` + url + `"}`,
		},
	}
}

func writeCorpus(t *testing.T, files map[string]string) *repository.Corpus {
	t.Helper()
	dir := t.TempDir()
	for name, text := range files {
		gt.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(text), 0644))
	}
	return repository.NewCorpus(dir)
}

func newUseCase(t *testing.T, openai adapter.OpenAI, corpus *repository.Corpus) *answer.UseCase {
	t.Helper()
	uc, err := answer.New(answer.NewInput{
		Corpus:  corpus,
		OpenAI:  openai,
		Gateway: gateway.New(),
	})
	gt.NoError(t, err)
	return uc
}

func TestAskGroundsServiceTimes(t *testing.T) {
	corpus := writeCorpus(t, map[string]string{
		"times.md": "## Service Times\nServices are Sunday at 9:30 AM.\n\n## Location\nEden Prairie, MN.",
	})
	fake := &fakeOpenAI{responses: []*model.Message{
		textMessage("Services are Sunday at 9:30 AM. I can share more details if you'd like."),
	}}

	uc := newUseCase(t, fake, corpus)
	out, err := uc.Ask(context.Background(), answer.Input{Text: "What time are services?"})
	gt.NoError(t, err)

	gt.True(t, out.Reply != "")
	gt.False(t, out.Handoff)
	gt.Equal(t, out.ContextSectionsUsed, 1)
	gt.Equal(t, out.PickedTitles, []string{"times: ## Service Times"})

	// The selected section reached the model
	var contextSeen bool
	for _, msg := range fake.calls[0].Messages {
		if msg.Role == model.RoleSystem && strings.Contains(msg.Content, "9:30 AM") {
			contextSeen = true
		}
	}
	gt.True(t, contextSeen)
}

func TestAskCivicOverride(t *testing.T) {
	corpus := writeCorpus(t, map[string]string{
		"churchandstate.md": "## Church and State\nDoctrine on the two kingdoms.",
		"faq.md":            "## Elections\nWe encourage members to vote according to conscience.",
	})
	fake := &fakeOpenAI{responses: []*model.Message{textMessage("answer")}}

	uc := newUseCase(t, fake, corpus)
	out, err := uc.Ask(context.Background(), answer.Input{Text: "Anything about the election?"})
	gt.NoError(t, err)

	// Override sections come first even though their keyword score is low
	gt.True(t, len(out.PickedTitles) >= 1)
	gt.Equal(t, out.PickedTitles[0], "churchandstate: ## Church and State")
}

func TestAskNoContextSentinel(t *testing.T) {
	corpus := writeCorpus(t, map[string]string{
		"faq.md": "## Parking\nPark behind the building.",
	})
	fake := &fakeOpenAI{responses: []*model.Message{textMessage("reply")}}

	uc := newUseCase(t, fake, corpus)
	out, err := uc.Ask(context.Background(), answer.Input{Text: "zebra quantum entanglement"})
	gt.NoError(t, err)
	gt.Equal(t, out.ContextSectionsUsed, 0)

	var sentinelSeen bool
	for _, msg := range fake.calls[0].Messages {
		if strings.Contains(msg.Content, "(none matched closely)") {
			sentinelSeen = true
		}
	}
	gt.True(t, sentinelSeen)
}

func TestAskEmptyQuestion(t *testing.T) {
	corpus := writeCorpus(t, nil)
	fake := &fakeOpenAI{responses: []*model.Message{textMessage("x")}}

	uc := newUseCase(t, fake, corpus)
	_, err := uc.Ask(context.Background(), answer.Input{Text: "   "})
	gt.Error(t, err)
}

func TestAskEmptyAnswerFallsBackToRefusal(t *testing.T) {
	corpus := writeCorpus(t, nil)
	fake := &fakeOpenAI{responses: []*model.Message{textMessage("  \n ")}}

	uc := newUseCase(t, fake, corpus)
	out, err := uc.Ask(context.Background(), answer.Input{Text: "hello there"})
	gt.NoError(t, err)
	gt.Equal(t, out.Reply, answer.RefusalLine)
	gt.True(t, out.Handoff)
}

func TestAskToolDispatchOrderAndResults(t *testing.T) {
	corpus := writeCorpus(t, nil)
	fake := &fakeOpenAI{responses: []*model.Message{
		toolCallMessage("",
			fetchCall("call_a", "https://evil.example.com/x"),
			fetchCall("call_b", "https://also.evil.example.com/y"),
		),
		textMessage("final answer"),
	}}

	uc := newUseCase(t, fake, corpus)
	out, err := uc.Ask(context.Background(), answer.Input{Text: "please fetch something"})
	gt.NoError(t, err)
	gt.Equal(t, out.Reply, "final answer")

	// One activity entry per call, in request order, with tool-level failures
	gt.Equal(t, len(out.ToolActivity), 2)
	gt.Equal(t, out.ToolActivity[0].Tool, "fetch_approved")
	gt.False(t, out.ToolActivity[0].OK)
	gt.False(t, out.ToolActivity[1].OK)

	// Second model call sees the assistant turn plus one tool turn per call,
	// positionally matched by id.
	msgs := fake.calls[1].Messages
	n := len(msgs)
	gt.True(t, n >= 3)
	gt.Equal(t, msgs[n-3].Role, model.RoleAssistant)
	gt.Equal(t, len(msgs[n-3].ToolCalls), 2)
	gt.Equal(t, msgs[n-2].Role, model.RoleTool)
	gt.Equal(t, msgs[n-2].ToolCallID, "call_a")
	gt.S(t, msgs[n-2].Content).Contains("URL not allowed")
	gt.Equal(t, msgs[n-1].Role, model.RoleTool)
	gt.Equal(t, msgs[n-1].ToolCallID, "call_b")
}

func TestAskRoundBudgetForcedTermination(t *testing.T) {
	corpus := writeCorpus(t, nil)

	// The model requests tools on every round; standard budget is 2 rounds.
	always := toolCallMessage("partial text so far",
		fetchCall("call_1", "https://evil.example.com/a"),
		fetchCall("call_2", "https://evil.example.com/b"),
		fetchCall("call_3", "https://evil.example.com/c"),
	)
	fake := &fakeOpenAI{responses: []*model.Message{always}}

	uc := newUseCase(t, fake, corpus)
	out, err := uc.Ask(context.Background(), answer.Input{Text: "keep digging"})
	gt.NoError(t, err)

	// 2 dispatch rounds, then the third response is forced terminal
	gt.Equal(t, len(fake.calls), 3)
	gt.Equal(t, len(out.ToolActivity), 6)
	gt.Equal(t, out.Reply, "partial text so far")
}

func TestAskUnknownToolRejectedCentrally(t *testing.T) {
	corpus := writeCorpus(t, nil)
	fake := &fakeOpenAI{responses: []*model.Message{
		toolCallMessage("", model.ToolCall{
			ID:       "call_x",
			Type:     "function",
			Function: model.FunctionCall{Name: "delete_everything", Arguments: `{}`},
		}),
		textMessage("done"),
	}}

	uc := newUseCase(t, fake, corpus)
	out, err := uc.Ask(context.Background(), answer.Input{Text: "try a bad tool"})
	gt.NoError(t, err)

	gt.Equal(t, len(out.ToolActivity), 1)
	gt.False(t, out.ToolActivity[0].OK)

	msgs := fake.calls[1].Messages
	gt.S(t, msgs[len(msgs)-1].Content).Contains("Unknown tool")
}

func TestAskDeepDiveMode(t *testing.T) {
	corpus := writeCorpus(t, nil)
	fake := &fakeOpenAI{responses: []*model.Message{
		toolCallMessage("", fetchCall("call_1", "https://evil.example.com/a")),
		textMessage("thorough answer"),
	}}

	uc := newUseCase(t, fake, corpus)
	out, err := uc.Ask(context.Background(), answer.Input{Text: "ordinary question", DeepDive: true})
	gt.NoError(t, err)
	gt.True(t, out.DeepDive)
	gt.False(t, out.OfferDeepDive)

	// Deep mode selects the deep tier and appends the compose instruction
	// after the tool turns.
	gt.Equal(t, fake.calls[0].Model, answer.DefaultModelTiers().Deep)
	msgs := fake.calls[1].Messages
	gt.Equal(t, msgs[len(msgs)-1].Role, model.RoleSystem)
	gt.S(t, msgs[len(msgs)-1].Content).Contains("Compose the final answer")
}

func TestAskDeepDiveFromText(t *testing.T) {
	corpus := writeCorpus(t, nil)
	fake := &fakeOpenAI{responses: []*model.Message{textMessage("ok")}}

	uc := newUseCase(t, fake, corpus)
	out, err := uc.Ask(context.Background(), answer.Input{Text: "Please do a deep dive on communion"})
	gt.NoError(t, err)
	gt.True(t, out.DeepDive)
}

func TestAskOfferDeepDiveForTheology(t *testing.T) {
	corpus := writeCorpus(t, nil)
	fake := &fakeOpenAI{responses: []*model.Message{textMessage("ok")}}

	uc := newUseCase(t, fake, corpus)
	out, err := uc.Ask(context.Background(), answer.Input{Text: "What do we believe about baptism?"})
	gt.NoError(t, err)
	gt.False(t, out.DeepDive)
	gt.True(t, out.OfferDeepDive)
}

func TestAskUpstreamErrorSurfaces(t *testing.T) {
	corpus := writeCorpus(t, nil)
	fake := &fakeOpenAI{err: &adapter.UpstreamError{Status: 500, Body: "boom"}}

	uc := newUseCase(t, fake, corpus)
	_, err := uc.Ask(context.Background(), answer.Input{Text: "hello"})
	gt.Error(t, err)
}
