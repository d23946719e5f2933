// Package module wires post generation and revision into the API using modkit
package module

import (
	"context"
	"fmt"
	"os"

	"postcraft/internal/modkit"
	"postcraft/internal/modkit/httpkit"
	"postcraft/internal/modkit/repokit"
	"postcraft/internal/platform/logger"
	gatewaydom "postcraft/internal/services/gateway/domain"
	"postcraft/internal/services/posts/domain"
	postshttp "postcraft/internal/services/posts/http"
	postsrepo "postcraft/internal/services/posts/repo"
	postssvc "postcraft/internal/services/posts/service"
)

// Ports declares what this module needs injected; Usage may be nil
type Ports struct {
	Gateway gatewaydom.ServicePort
	Usage   domain.UsageRecorderPort
}

// Module implements the posts API module
type Module struct {
	built modkit.Built
	opts  Options
	ports any

	db   repokit.TxRunner
	port domain.ServicePort
}

// New constructs the posts module; it panics without a gateway port or a usable store
func New(deps modkit.Deps, overrides *Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("posts"),
		modkit.WithPrefix("/posts"),
	}, opts...)...)

	cfg := FromConfig(deps.Cfg)
	if overrides != nil {
		cfg = *overrides
	}

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Gateway == nil {
		panic("posts module requires a Gateway port (from services/gateway)")
	}

	db, binder := storeFor(deps, cfg)
	svc := postssvc.New(db, binder, injected.Gateway, injected.Usage, cfg.serviceConfig())

	logger.Named("posts").Info().
		Str("store", cfg.Store).
		Strs("supported_platforms", cfg.SupportedPlatforms).
		Int("max_examples", cfg.MaxExamples).
		Bool("include_fallback", cfg.IncludeFallback).
		Msg("posts configured")

	m := &Module{built: b, opts: cfg, db: db, port: adaptPostsPort{svc: svc}}
	m.ports = m.port
	return m
}

func storeFor(deps modkit.Deps, cfg Options) (repokit.TxRunner, repokit.Binder[postsrepo.Repo]) {
	if cfg.Store == StoreMemory {
		mem := postsrepo.NewMemory()
		if cfg.SeedFile != "" {
			if err := loadSeed(mem, cfg.SeedFile); err != nil {
				panic(fmt.Sprintf("posts module: %v", err))
			}
		}
		return mem, mem
	}
	if deps.PG == nil {
		panic("posts module with the pg store requires Deps.PG")
	}
	return repokit.WithBeginHooks(deps.PG, repokit.StatementTimeout(cfg.StatementTimeout)), postsrepo.NewPG()
}

func loadSeed(mem *postsrepo.Memory, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open seed: %w", err)
	}
	defer f.Close()
	s, err := postsrepo.ReadSeed(f)
	if err != nil {
		return err
	}
	return mem.Load(s)
}

// Migrate applies the embedded schema when the pg store is in use
func (m *Module) Migrate(ctx context.Context) error {
	if m.opts.Store != StorePG {
		return nil
	}
	if err := postsrepo.Migrate(ctx, m.db); err != nil {
		return err
	}
	logger.C(ctx).Info().Str("module", m.built.Name).Msg("schema applied")
	return nil
}

// Options returns the effective options
func (m *Module) Options() Options { return m.opts }

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) { postshttp.Register(rr, m.port) })
}

// Name returns the module name
func (m *Module) Name() string { return m.built.Name }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return m.built.Prefix }
