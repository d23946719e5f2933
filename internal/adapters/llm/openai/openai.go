// Package openai adapts the OpenAI chat completions API to llm.Provider
package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"postcraft/internal/adapters/llm"
	pstrings "postcraft/internal/platform/strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultModel is used when the config leaves the model empty
const DefaultModel = "gpt-4o-mini"

// completionsAPI is the slice of the SDK client the adapter calls
type completionsAPI interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Provider talks to OpenAI or any API compatible with its chat completions endpoint
type Provider struct {
	chat  completionsAPI
	model string
}

var _ llm.Provider = (*Provider)(nil)

// New builds the client; retries are disabled so the caller owns retry policy
func New(cfg llm.Config) (*Provider, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, llm.ErrMissingCredential
	}
	opts := []option.RequestOption{
		option.WithAPIKey(key),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	}
	client := openai.NewClient(opts...)

	model := pstrings.Or(cfg.Model, DefaultModel)
	return &Provider{chat: &client.Chat.Completions, model: model}, nil
}

// Name returns the provider name
func (p *Provider) Name() string { return llm.OpenAI }

// Complete sends a system and a user message
func (p *Provider) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	model := p.model
	if req.Model != "" {
		model = req.Model
	}
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if s := strings.TrimSpace(req.System); s != "" {
		msgs = append(msgs, openai.SystemMessage(s))
	}
	msgs = append(msgs, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Messages:    msgs,
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(req.MaxTokens))
	}

	resp, err := p.chat.New(ctx, params)
	if err != nil {
		return llm.Response{}, classify(err)
	}

	var text string
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Message.Content
	}
	return llm.Response{
		Text:             text,
		Model:            resp.Model,
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
		TotalTokens:      int(resp.Usage.TotalTokens),
	}, nil
}

func classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return llm.Classify(llm.OpenAI, apiErr.StatusCode, err)
	}
	return llm.Classify(llm.OpenAI, 0, err)
}
