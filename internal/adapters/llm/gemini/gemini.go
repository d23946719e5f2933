// Package gemini adapts the Google Gen AI SDK to llm.Provider
package gemini

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"postcraft/internal/adapters/llm"
	pstrings "postcraft/internal/platform/strings"

	"google.golang.org/genai"
)

// DefaultModel is used when the config leaves the model empty
const DefaultModel = "gemini-2.5-flash"

// modelsAPI is the slice of the SDK client the adapter calls
type modelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Provider talks to the Gemini API
type Provider struct {
	models modelsAPI
	model  string
}

var _ llm.Provider = (*Provider)(nil)

// New builds the client against the Gemini API backend
func New(ctx context.Context, cfg llm.Config) (*Provider, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, llm.ErrMissingCredential
	}
	cc := &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		cc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, llm.Classify(llm.Gemini, 0, err)
	}

	model := pstrings.Or(cfg.Model, DefaultModel)
	return &Provider{models: client.Models, model: model}, nil
}

// Name returns the provider name
func (p *Provider) Name() string { return llm.Gemini }

// Complete sends the prompt as one user turn with a system instruction
func (p *Provider) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	model := p.model
	if req.Model != "" {
		model = req.Model
	}
	gc := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.MaxTokens > 0 {
		gc.MaxOutputTokens = int32(req.MaxTokens)
	}
	if s := strings.TrimSpace(req.System); s != "" {
		gc.SystemInstruction = genai.NewContentFromText(s, genai.RoleUser)
	}

	resp, err := p.models.GenerateContent(ctx, model, genai.Text(req.Prompt), gc)
	if err != nil {
		return llm.Response{}, classify(err)
	}

	out := llm.Response{Text: resp.Text(), Model: model}
	if resp.ModelVersion != "" {
		out.Model = resp.ModelVersion
	}
	if u := resp.UsageMetadata; u != nil {
		out.PromptTokens = int(u.PromptTokenCount)
		out.CompletionTokens = int(u.CandidatesTokenCount)
		out.TotalTokens = int(u.TotalTokenCount)
	}
	return out, nil
}

func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return llm.Classify(llm.Gemini, apiErr.Code, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return llm.Classify(llm.Gemini, apiErrPtr.Code, err)
	}
	return llm.Classify(llm.Gemini, 0, err)
}
