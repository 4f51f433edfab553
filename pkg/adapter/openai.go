package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/christlutheran/kbchat/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultTimeout = 60 * time.Second

	// Upstream error bodies are truncated before being surfaced in
	// diagnostics to keep responses and logs bounded.
	maxErrorBody = 1200
)

// OpenAI is the interface for the chat completions API client
type OpenAI interface {
	ChatCompletion(ctx context.Context, input ChatInput) (*model.Message, error)
}

// ChatInput carries one model invocation: the conversation so far, the
// declared tools, and the sampling parameters chosen by the caller.
type ChatInput struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Messages    []model.Message
	Tools       []model.ToolSpec
}

// UpstreamError reports a non-2xx or unparsable response from the chat
// completions API. The loop treats it as terminal and the HTTP layer maps it
// to a 502-class response with the status and truncated body attached.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("openai: HTTP %d", e.Status)
}

type OpenAIClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

type OpenAIOption func(*OpenAIClient)

// WithBaseURL overrides the API endpoint, used for compatible APIs and tests.
func WithBaseURL(url string) OpenAIOption {
	return func(c *OpenAIClient) {
		c.baseURL = url
	}
}

func WithHTTPClient(client *http.Client) OpenAIOption {
	return func(c *OpenAIClient) {
		c.httpClient = client
	}
}

// NewOpenAI creates a new chat completions API client
func NewOpenAI(apiKey string, opts ...OpenAIOption) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, goerr.New("openai api key is required")
	}

	c := &OpenAIClient{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// chatCompletionRequest is the /chat/completions request format.
type chatCompletionRequest struct {
	Model       string           `json:"model"`
	Temperature float64          `json:"temperature,omitempty"`
	MaxTokens   int              `json:"max_tokens,omitempty"`
	Messages    []model.Message  `json:"messages"`
	Tools       []model.ToolSpec `json:"tools,omitempty"`
	ToolChoice  string           `json:"tool_choice,omitempty"`
}

// chatCompletionResponse is the /chat/completions response format.
type chatCompletionResponse struct {
	Choices []struct {
		Message      model.Message `json:"message"`
		FinishReason string        `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func (c *OpenAIClient) ChatCompletion(ctx context.Context, input ChatInput) (*model.Message, error) {
	reqBody := chatCompletionRequest{
		Model:       input.Model,
		Temperature: input.Temperature,
		MaxTokens:   input.MaxTokens,
		Messages:    input.Messages,
		Tools:       input.Tools,
	}
	if len(input.Tools) > 0 {
		reqBody.ToolChoice = "auto"
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal chat completion request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to call chat completions API")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{
			Status: resp.StatusCode,
			Body:   truncate(string(body), maxErrorBody),
		}
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, &UpstreamError{
			Status: resp.StatusCode,
			Body:   truncate(string(body), maxErrorBody),
		}
	}

	if chatResp.Error != nil {
		return nil, goerr.New("chat completions API returned error",
			goerr.V("type", chatResp.Error.Type),
			goerr.V("message", chatResp.Error.Message))
	}

	if len(chatResp.Choices) == 0 {
		return nil, goerr.New("chat completions API returned no choices")
	}

	msg := chatResp.Choices[0].Message
	return &msg, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
