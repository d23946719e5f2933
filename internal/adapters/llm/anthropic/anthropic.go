// Package anthropic adapts the Anthropic Messages API to llm.Provider
package anthropic

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"postcraft/internal/adapters/llm"
	pstrings "postcraft/internal/platform/strings"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
)

// DefaultModel is used when the config leaves the model empty
const DefaultModel = "claude-sonnet-4-5"

// messagesAPI is the slice of the SDK client the adapter calls
type messagesAPI interface {
	New(ctx context.Context, params anthropicsdk.MessageNewParams, opts ...option.RequestOption) (*anthropicsdk.Message, error)
}

// Provider talks to Anthropic
type Provider struct {
	msgs  messagesAPI
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
	client := anthropicsdk.NewClient(opts...)

	model := pstrings.Or(cfg.Model, DefaultModel)
	return &Provider{msgs: &client.Messages, model: model}, nil
}

// Name returns the provider name
func (p *Provider) Name() string { return llm.Anthropic }

// Complete sends one user turn with the system prompt
func (p *Provider) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	model := p.model
	if req.Model != "" {
		model = req.Model
	}
	params := anthropicsdk.MessageNewParams{
		Model:     anthropicsdk.Model(model),
		MaxTokens: int64(req.MaxTokens),
		Messages: []anthropicsdk.MessageParam{
			anthropicsdk.NewUserMessage(anthropicsdk.NewTextBlock(req.Prompt)),
		},
		Temperature: param.NewOpt(req.Temperature),
	}
	if s := strings.TrimSpace(req.System); s != "" {
		params.System = []anthropicsdk.TextBlockParam{{Text: s}}
	}

	msg, err := p.msgs.New(ctx, params)
	if err != nil {
		return llm.Response{}, classify(err)
	}

	var parts []string
	for _, block := range msg.Content {
		if block.Type == "text" && block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	in, out := int(msg.Usage.InputTokens), int(msg.Usage.OutputTokens)
	return llm.Response{
		Text:             strings.Join(parts, ""),
		Model:            string(msg.Model),
		PromptTokens:     in,
		CompletionTokens: out,
		TotalTokens:      in + out,
	}, nil
}

func classify(err error) error {
	var apiErr *anthropicsdk.Error
	if errors.As(err, &apiErr) {
		return llm.Classify(llm.Anthropic, apiErr.StatusCode, err)
	}
	return llm.Classify(llm.Anthropic, 0, err)
}
