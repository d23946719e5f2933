// Package api provides the HTTP API for the application
package api

import (
	"context"

	"postcraft/internal/platform/config"
	"postcraft/internal/platform/logger"
	phttp "postcraft/internal/platform/net/http"
	"postcraft/internal/platform/store"

	"postcraft/internal/modkit"
	"postcraft/internal/modkit/httpkit"
	"postcraft/internal/modkit/module"
	"postcraft/internal/modkit/swaggerkit"

	metamod "postcraft/internal/services/api/meta/module"
	gatewaymod "postcraft/internal/services/gateway/module"
	postsmod "postcraft/internal/services/posts/module"
	usagemod "postcraft/internal/services/usage/module"
)

// Options are the API options
type Options struct {
	// Config is the unprefixed process config; modules read their own prefixes
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool

	// Auth overrides the CORE_API_TOKENS bearer map, mainly for tests
	Auth *httpkit.Port
	// Gateway overrides the gateway module options
	Gateway gatewaymod.Options
	// GatewayOpts are passed to the gateway module, e.g. a provider factory port
	GatewayOpts []modkit.Option
	// Posts overrides CORE_POSTS_* when set
	Posts *postsmod.Options
}

// API holds the constructed modules so callers can migrate and reach the ports
type API struct {
	deps modkit.Deps

	Gateway *gatewaymod.Module
	Usage   *usagemod.Module
	Posts   *postsmod.Module
}

// Migrate applies the posts schema and the usage ledger table when enabled
func (a *API) Migrate(ctx context.Context) error {
	if err := a.Posts.Migrate(ctx); err != nil {
		return err
	}
	return a.Usage.Migrate(ctx)
}

// Build constructs the gateway, usage and posts modules on shared deps
func Build(opt Options) *API {
	deps := modkit.Deps{Cfg: opt.Config}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
		deps.CH = opt.Store.CH
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	// gateway owns the single provider client and the shared quota window
	gateway := gatewaymod.New(deps, opt.Gateway, opt.GatewayOpts...)
	usage := usagemod.New(deps)

	// posts consumes both ports
	posts := postsmod.New(deps, opt.Posts, modkit.WithPorts(postsmod.Ports{
		Gateway: module.MustPortsOf[gatewaymod.Ports](gateway).Gateway,
		Usage:   usage.Recorder(),
	}))

	return &API{deps: deps, Gateway: gateway, Usage: usage, Posts: posts}
}

// Mount builds the modules and mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) *API {
	a := Build(opt)

	auth := opt.Auth
	if auth == nil {
		auth = httpkit.NewPortFunc(httpkit.StaticTokens(opt.Config.Prefix("CORE_API_").MayPairs("TOKENS")))
	}

	public := []module.Module{metamod.New(a.deps, "postcraft-api"), a.Gateway}
	protected := []module.Module{a.Posts, a.Usage}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(httpkit.StackFromConfig(opt.Config.Prefix("CORE_API_"))), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range public {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}

		// every posts and usage route resolves the owner from the bearer token
		httpkit.Protected(api, auth, func(sec httpkit.Router) {
			for _, m := range protected {
				module.Register(m.Name(), m.Ports())
				m.MountRoutes(sec)
			}
		})
	})

	return a
}
