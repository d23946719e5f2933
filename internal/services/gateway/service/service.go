// Package service implements the rate limited gateway to the configured LLM provider
package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"postcraft/internal/adapters/llm"
	"postcraft/internal/core/ratelimit"
	perr "postcraft/internal/platform/errors"
	"postcraft/internal/platform/logger"
	"postcraft/internal/services/gateway/domain"
)

// Defaults applied when neither the request nor the config sets a value
const (
	DefaultMaxTokens   = 1024
	DefaultTemperature = 0.7
)

// Factory builds the provider client; it is called lazily and only cached on success
type Factory func(ctx context.Context) (llm.Provider, error)

// Config carries per call defaults
type Config struct {
	ProviderName string
	Model        string
	MaxTokens    int
	Temperature  float64
}

// Service implements domain.ServicePort
type Service struct {
	limiter *ratelimit.Limiter
	factory Factory
	cfg     Config

	mu       sync.Mutex
	provider llm.Provider
}

var _ domain.ServicePort = (*Service)(nil)

// New constructs the gateway around a process wide limiter
func New(limiter *ratelimit.Limiter, factory Factory, cfg Config) *Service {
	if limiter == nil {
		panic("gateway.Service requires a non nil Limiter")
	}
	if factory == nil {
		panic("gateway.Service requires a non nil provider Factory")
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = DefaultTemperature
	}
	return &Service{limiter: limiter, factory: factory, cfg: cfg}
}

// Complete runs one completion under the shared quota
// the request slot is reserved before dispatch and only kept when the provider answered with text
func (s *Service) Complete(ctx context.Context, req domain.Request) (domain.Completion, error) {
	const op = "gateway.complete"
	log := logger.C(ctx)

	res, err := s.limiter.Reserve()
	if err != nil {
		log.Warn().Int("retry_after_seconds", perr.RetryAfterOf(err)).Msg("gateway: quota exceeded")
		return domain.Completion{}, perr.WithOp(err, op)
	}
	defer res.Release()

	p, err := s.client(ctx)
	if err != nil {
		log.Error().Err(err).Str("provider", s.cfg.ProviderName).Msg("gateway: provider client unavailable")
		return domain.Completion{}, perr.WithOp(err, op)
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = s.cfg.MaxTokens
	}
	temp := s.cfg.Temperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}

	log.Debug().
		Str("provider", p.Name()).
		Int("max_tokens", maxTokens).
		Float64("temperature", temp).
		Int("prompt_chars", len(req.Prompt)).
		Msg("gateway: dispatch")

	resp, err := p.Complete(ctx, llm.Request{
		System:      req.System,
		Prompt:      req.Prompt,
		Model:       s.cfg.Model,
		MaxTokens:   maxTokens,
		Temperature: temp,
	})
	if err != nil {
		out := translate(err)
		log.Warn().Err(err).Str("provider", p.Name()).Str("code", perr.CodeOf(out).String()).Msg("gateway: provider call failed")
		return domain.Completion{}, perr.WithOp(out, op)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		log.Warn().Str("provider", p.Name()).Msg("gateway: empty completion")
		return domain.Completion{}, perr.WithOp(perr.Newf(perr.ErrorCodeEmptyCompletion, "%s returned no text", p.Name()), op)
	}

	pt, ct, total := resp.Usage()
	res.Commit(total)

	return domain.Completion{
		Text:     text,
		Usage:    domain.Usage{PromptTokens: pt, CompletionTokens: ct, TotalTokens: total},
		Provider: p.Name(),
		Model:    resp.Model,
	}, nil
}

// Status reports the remaining quota of the current window
func (s *Service) Status() domain.Status { return s.limiter.Status() }

// client returns the cached provider or builds it; failed builds are retried on the next call
func (s *Service) client(ctx context.Context) (llm.Provider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.provider != nil {
		return s.provider, nil
	}
	p, err := s.factory(ctx)
	if err != nil {
		if _, ok := perr.As(err); ok {
			return nil, err
		}
		if errors.Is(err, llm.ErrMissingCredential) {
			return nil, perr.Wrapf(err, perr.ErrorCodeProviderConfig, "no api key configured for %q", s.cfg.ProviderName)
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeProviderConfig, "build %q client", s.cfg.ProviderName)
	}
	s.provider = p
	return p, nil
}

// translate maps a provider failure onto the gateway taxonomy
func translate(err error) error {
	switch llm.KindOf(err) {
	case llm.KindAuth:
		return perr.Wrap(err, perr.ErrorCodeProviderConfig, "provider rejected the configured credentials")
	case llm.KindUnavailable:
		return perr.Wrap(err, perr.ErrorCodeProviderUnavailable, "provider unavailable")
	case llm.KindUpstream:
		return perr.Wrap(err, perr.ErrorCodeProviderError, "provider returned an error")
	}
	if errors.Is(err, context.Canceled) {
		return perr.Wrap(err, perr.ErrorCodeGenerationFailed, "generation canceled")
	}
	return perr.Wrap(err, perr.ErrorCodeGenerationFailed, "generation failed")
}
