// Package module wires the usage ledger using modkit
package module

import (
	"context"

	"postcraft/internal/modkit"
	"postcraft/internal/modkit/httpkit"
	"postcraft/internal/platform/config"
	"postcraft/internal/platform/logger"
	postsdom "postcraft/internal/services/posts/domain"
	usagehttp "postcraft/internal/services/usage/http"
	usagerepo "postcraft/internal/services/usage/repo"
	usagesvc "postcraft/internal/services/usage/service"
)

// Options controls the ledger table
type Options struct {
	Table string
}

// FromConfig reads CORE_USAGE_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	return Options{Table: cfg.Prefix("CORE_USAGE_").MayString("TABLE", usagerepo.DefaultTable)}
}

// Ports exposed by the usage module
type Ports struct {
	Recorder postsdom.UsageRecorderPort
	Usage    usagesvc.Service
}

// Module implements the usage ledger module
type Module struct {
	built modkit.Built
	repo  *usagerepo.CH
	ports Ports
}

// New builds the ledger on Deps.CH; without ClickHouse it falls back to a no-op ledger
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("usage"),
		modkit.WithPrefix("/usage"),
	}, opts...)...)

	cfg := FromConfig(deps.Cfg)
	m := &Module{built: b}
	log := logger.Named("usage")

	if deps.CH == nil {
		m.ports = Ports{Recorder: usagesvc.Nop{}, Usage: usagesvc.Nop{}}
		log.Info().Msg("usage ledger disabled; clickhouse not configured")
		return m
	}
	repo, err := usagerepo.NewCH(deps.CH, cfg.Table)
	if err != nil {
		panic(err)
	}
	svc := usagesvc.New(repo, usagesvc.Options{})
	m.repo = repo
	m.ports = Ports{Recorder: svc, Usage: svc}
	log.Info().Str("table", cfg.Table).Msg("usage ledger configured")
	return m
}

// Enabled reports whether events reach ClickHouse
func (m *Module) Enabled() bool { return m.repo != nil }

// Migrate creates the ledger table when the ledger is enabled
func (m *Module) Migrate(ctx context.Context) error {
	if m.repo == nil {
		return nil
	}
	return m.repo.Migrate(ctx)
}

// Recorder returns the port the posts module consumes
func (m *Module) Recorder() postsdom.UsageRecorderPort { return m.ports.Recorder }

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) { usagehttp.Register(rr, m.ports.Usage) })
}

// Name returns the module name
func (m *Module) Name() string { return m.built.Name }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return m.built.Prefix }
