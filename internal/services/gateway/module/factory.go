package module

import (
	"context"
	"fmt"

	"postcraft/internal/adapters/llm"
	"postcraft/internal/adapters/llm/anthropic"
	"postcraft/internal/adapters/llm/gemini"
	"postcraft/internal/adapters/llm/openai"
	"postcraft/internal/services/gateway/service"
)

// ProviderFactory returns the lazy constructor for the configured vendor
func ProviderFactory(cfg llm.Config) service.Factory {
	return func(ctx context.Context) (llm.Provider, error) {
		var (
			p   llm.Provider
			err error
		)
		switch llm.Normalize(cfg.Provider) {
		case llm.Anthropic, "":
			var a *anthropic.Provider
			if a, err = anthropic.New(cfg); err == nil {
				p = a
			}
		case llm.OpenAI:
			var o *openai.Provider
			if o, err = openai.New(cfg); err == nil {
				p = o
			}
		case llm.Gemini:
			var g *gemini.Provider
			if g, err = gemini.New(ctx, cfg); err == nil {
				p = g
			}
		default:
			err = fmt.Errorf("unknown llm provider %q", cfg.Provider)
		}
		if err != nil {
			return nil, err
		}
		return p, nil
	}
}
