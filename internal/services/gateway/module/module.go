// Package module wires the gateway into the modkit registry
package module

import (
	"postcraft/internal/core/ratelimit"
	"postcraft/internal/modkit"
	"postcraft/internal/modkit/httpkit"
	"postcraft/internal/platform/logger"
	"postcraft/internal/services/gateway/domain"
	"postcraft/internal/services/gateway/service"
)

// Ports exposed by the gateway module
type Ports struct {
	Gateway domain.ServicePort
}

// Module implements modkit.Module; it has no routes of its own
type Module struct {
	name    string
	ports   Ports
	limiter *ratelimit.Limiter
}

// New constructs the gateway with one limiter for the lifetime of the module
// WithPorts(service.Factory) replaces the provider factory, mainly for tests
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("gateway")}, opts...)...)

	cfg := FromConfig(deps.Cfg).merge(overrides)

	factory := ProviderFactory(cfg.llmConfig())
	if f, ok := b.Ports.(service.Factory); ok && f != nil {
		factory = f
	}

	limiter := ratelimit.New(ratelimit.Limits{
		RequestsPerMinute: cfg.RequestsPerMinute,
		TokensPerMinute:   cfg.TokensPerMinute,
	})
	svc := service.New(limiter, factory, service.Config{
		ProviderName: cfg.Provider,
		Model:        cfg.Model,
		MaxTokens:    cfg.MaxTokens,
		Temperature:  cfg.Temperature,
	})

	logger.Named("gateway").Info().
		Str("provider", cfg.Provider).
		Bool("api_key_set", cfg.APIKey != "").
		Int("requests_per_minute", cfg.RequestsPerMinute).
		Int("tokens_per_minute", cfg.TokensPerMinute).
		Msg("gateway configured")

	return &Module{name: b.Name, ports: Ports{Gateway: svc}, limiter: limiter}
}

// Limiter exposes the shared window, e.g. for an operator reset
func (m *Module) Limiter() *ratelimit.Limiter { return m.limiter }

// Name satisfies modkit.Module
func (m *Module) Name() string { return m.name }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(_ httpkit.Router) {}
