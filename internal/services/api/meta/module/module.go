// Package module mounts the meta endpoints
package module

import (
	"time"

	"postcraft/internal/modkit"
	"postcraft/internal/modkit/httpkit"
	metahttp "postcraft/internal/services/api/meta/http"
)

// Module serves health, readiness and version under /meta
type Module struct {
	built modkit.Built
	deps  metahttp.Deps
}

// New constructs a meta module; service names the binary in health and version payloads
func New(deps modkit.Deps, service string, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)
	if service == "" {
		service = "postcraft-api"
	}
	return &Module{built: b, deps: metahttp.Deps{
		ServiceName: service,
		StartedAt:   time.Now(),
		PG:          deps.PG,
		CH:          deps.CH,
	}}
}

func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) { metahttp.Register(rr, m.deps) })
}

func (m *Module) Name() string   { return m.built.Name }
func (m *Module) Prefix() string { return m.built.Prefix }
func (m *Module) Ports() any     { return nil }
