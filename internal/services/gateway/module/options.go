package module

import (
	"time"

	"postcraft/internal/adapters/llm"
	"postcraft/internal/core/ratelimit"
	"postcraft/internal/platform/config"
	"postcraft/internal/services/gateway/service"
)

// Options controls the provider client and the shared quota
type Options struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64

	RequestsPerMinute int
	TokensPerMinute   int
}

// FromConfig reads CORE_LLM_* and CORE_RATELIMIT_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	lc := cfg.Prefix("CORE_LLM_")
	rc := cfg.Prefix("CORE_RATELIMIT_")
	return Options{
		Provider:    llm.Normalize(lc.MayEnum("PROVIDER", llm.Anthropic, llm.Names()...)),
		APIKey:      lc.MayString("API_KEY", ""),
		Model:       lc.MayString("MODEL", ""),
		BaseURL:     lc.MayString("BASE_URL", ""),
		Timeout:     lc.MayDuration("TIMEOUT", 60*time.Second),
		MaxTokens:   lc.MayPositiveInt("MAX_TOKENS", service.DefaultMaxTokens),
		Temperature: lc.MayFloat64("TEMPERATURE", service.DefaultTemperature),

		RequestsPerMinute: rc.MayPositiveInt("REQUESTS_PER_MINUTE", ratelimit.DefaultRequestsPerMinute),
		TokensPerMinute:   rc.MayPositiveInt("TOKENS_PER_MINUTE", ratelimit.DefaultTokensPerMinute),
	}
}

// merge lets non zero overrides win over config values
func (o Options) merge(over Options) Options {
	if over.Provider != "" {
		o.Provider = llm.Normalize(over.Provider)
	}
	if over.APIKey != "" {
		o.APIKey = over.APIKey
	}
	if over.Model != "" {
		o.Model = over.Model
	}
	if over.BaseURL != "" {
		o.BaseURL = over.BaseURL
	}
	if over.Timeout != 0 {
		o.Timeout = over.Timeout
	}
	if over.MaxTokens != 0 {
		o.MaxTokens = over.MaxTokens
	}
	if over.Temperature != 0 {
		o.Temperature = over.Temperature
	}
	if over.RequestsPerMinute != 0 {
		o.RequestsPerMinute = over.RequestsPerMinute
	}
	if over.TokensPerMinute != 0 {
		o.TokensPerMinute = over.TokensPerMinute
	}
	return o
}

func (o Options) llmConfig() llm.Config {
	return llm.Config{
		Provider: o.Provider,
		APIKey:   o.APIKey,
		Model:    o.Model,
		BaseURL:  o.BaseURL,
		Timeout:  o.Timeout,
	}
}
