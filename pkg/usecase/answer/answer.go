// Package answer grounds one end-user question in the local knowledge base
// and drives the tool-orchestration loop to a final reply.
package answer

import (
	"context"
	"strings"

	"github.com/christlutheran/kbchat/pkg/adapter"
	"github.com/christlutheran/kbchat/pkg/model"
	"github.com/christlutheran/kbchat/pkg/repository"
	"github.com/christlutheran/kbchat/pkg/service/gateway"
	"github.com/christlutheran/kbchat/pkg/service/kb"
	"github.com/christlutheran/kbchat/pkg/tool"
	"github.com/christlutheran/kbchat/pkg/tool/webfetch"
	"github.com/christlutheran/kbchat/pkg/tool/websearch"
	"github.com/christlutheran/kbchat/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// UseCase answers questions. It is constructed once at startup and shared
// across requests; everything request-scoped lives on the stack of Ask.
type UseCase struct {
	corpus     *repository.Corpus
	openai     adapter.OpenAI
	gateway    *gateway.Client
	selector   *kb.Selector
	classifier *kb.Classifier
	tiers      ModelTiers
}

// NewInput contains the collaborators for a new UseCase.
type NewInput struct {
	Corpus     *repository.Corpus
	OpenAI     adapter.OpenAI
	Gateway    *gateway.Client
	Selector   *kb.Selector
	Classifier *kb.Classifier
	Tiers      ModelTiers
}

func New(input NewInput) (*UseCase, error) {
	if input.Corpus == nil {
		return nil, goerr.New("corpus is required")
	}
	if input.OpenAI == nil {
		return nil, goerr.New("openai adapter is required")
	}
	if input.Gateway == nil {
		return nil, goerr.New("gateway is required")
	}

	uc := &UseCase{
		corpus:     input.Corpus,
		openai:     input.OpenAI,
		gateway:    input.Gateway,
		selector:   input.Selector,
		classifier: input.Classifier,
		tiers:      input.Tiers,
	}
	if uc.selector == nil {
		uc.selector = kb.NewSelector(kb.DefaultTunables())
	}
	if uc.classifier == nil {
		uc.classifier = kb.NewClassifier()
	}
	if uc.tiers == (ModelTiers{}) {
		uc.tiers = DefaultModelTiers()
	}
	return uc, nil
}

// Input is one question.
type Input struct {
	Text     string
	DeepDive bool
}

// Output carries the final reply plus the diagnostic metadata returned to
// the caller.
type Output struct {
	Reply               string
	Handoff             bool
	DeepDive            bool
	OfferDeepDive       bool
	ContextSectionsUsed int
	PickedTitles        []string
	ToolActivity        []model.ToolActivity
}

// Ask grounds the question in the corpus, declares the gateway tools to the
// model and runs the orchestration loop until a final answer.
func (x *UseCase) Ask(ctx context.Context, input Input) (*Output, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, goerr.New("question text is empty")
	}

	topics := x.classifier.Classify(input.Text)
	mode := decideMode(input.DeepDive, topics, x.tiers)

	docs := x.corpus.Load(ctx)
	sections := kb.SplitAll(docs)

	contextBlock, titles := x.buildContext(input.Text, sections, topics, mode)

	registry := tool.New(
		websearch.New(x.gateway),
		webfetch.New(x.gateway, mode.FetchTimeout),
	)

	conversation := x.buildConversation(ctx, input.Text, contextBlock, mode, registry)

	logging.From(ctx).Info("answering question",
		"deepDive", mode.Deep,
		"model", mode.Model,
		"contextSections", len(titles),
		"topics", len(topics))

	l := newLoop(x.openai, registry, mode, conversation)
	reply, err := l.run(ctx)
	if err != nil {
		return nil, err
	}

	return &Output{
		Reply:               reply,
		Handoff:             containsRefusal(reply),
		DeepDive:            mode.Deep,
		OfferDeepDive:       !mode.Deep && topics.Has(model.TopicTheology),
		ContextSectionsUsed: len(titles),
		PickedTitles:        titles,
		ToolActivity:        l.activity,
	}, nil
}

func (x *UseCase) buildConversation(ctx context.Context, text, contextBlock string, mode Mode, registry *tool.Registry) []model.Message {
	msgs := []model.Message{
		model.NewSystemMessage(systemPrompt),
		model.NewSystemMessage(styleGuide),
	}
	if mode.Deep {
		msgs = append(msgs, model.NewSystemMessage(deepDiveGuide))
	}
	msgs = append(msgs, model.NewSystemMessage(fewShot))
	if prompts := registry.Prompts(ctx); prompts != "" {
		msgs = append(msgs, model.NewSystemMessage(prompts))
	}
	msgs = append(msgs,
		model.NewSystemMessage(refusalInstruction()),
		model.NewSystemMessage("If sources/context are insufficient, use the refusal line verbatim. Do not improvise."),
		model.NewSystemMessage(contextBlock),
		model.NewUserMessage(text),
	)
	return msgs
}

// containsRefusal reports whether the reply carries the refusal sentence.
// Containment rather than equality: the prompt appends a fixed footer to
// every answer, including refusals.
func containsRefusal(reply string) bool {
	return strings.Contains(strings.ToLower(reply), strings.ToLower(RefusalLine))
}
