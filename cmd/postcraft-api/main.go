// @title         Postcraft API
// @version       0.1.0
// @description   Generate, revise and version social media posts
// @BasePath      /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"postcraft/internal/platform/config"
	"postcraft/internal/platform/logger"
	phttp "postcraft/internal/platform/net/http"
	"postcraft/internal/platform/store"

	"postcraft/internal/services/api"
	postsmod "postcraft/internal/services/posts/module"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// unprefixed root; modules read CORE_POSTS_*, CORE_LLM_* and friends themselves
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	// bring up logging early
	l := logger.Get()

	// postgres backs the posts store unless CORE_POSTS_STORE=memory; clickhouse is optional
	storeCfg := store.FromConfig(root, "postcraft-api")
	posts := postsmod.FromConfig(root)
	if posts.Store == postsmod.StorePG && !storeCfg.PG.Enabled {
		l.Fatal().Msg("SERVICE_PGSQL_DBURL is required when CORE_POSTS_STORE=pg")
	}

	st, err := store.Open(ctx, storeCfg, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	guardCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := st.Guard(guardCtx); err != nil {
		cancel()
		l.Panic().Err(err).Msg("store guard failed")
	}
	cancel()

	// http server (reads API_PORT)
	srv := phttp.NewServer(root)

	// mount our API
	a := api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
			Posts:          &posts,
		},
	)

	if posts.AutoMigrate {
		if err := a.Migrate(ctx); err != nil {
			l.Panic().Err(err).Msg("migrate failed")
		}
		l.Info().Msg("schema migrated")
	}

	// serve until SIGINT/SIGTERM, then drain
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
