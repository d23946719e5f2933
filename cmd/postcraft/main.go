// Command postcraft drives the post workflows from a terminal against the configured store
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"postcraft/internal/core/format"
	"postcraft/internal/modkit/module"
	"postcraft/internal/platform/config"
	"postcraft/internal/platform/logger"
	"postcraft/internal/platform/store"
	"postcraft/internal/services/api"
	postsdom "postcraft/internal/services/posts/domain"
	postsmod "postcraft/internal/services/posts/module"
	usagemod "postcraft/internal/services/usage/module"
	usagesvc "postcraft/internal/services/usage/service"
)

// app is what every subcommand runs against
type app struct {
	posts postsdom.ServicePort
	usage usagesvc.Service
	close func()
}

// builder opens the app; tests swap it for an in memory one
type builder func(ctx context.Context) (*app, error)

func main() {
	if err := newRootCmd(openApp).Execute(); err != nil {
		os.Exit(1)
	}
}

// openApp wires the same modules as the API from process config
func openApp(ctx context.Context) (*app, error) {
	root := config.New()
	l := logger.Get()

	storeCfg := store.FromConfig(root, "postcraft-cli")
	posts := postsmod.FromConfig(root)
	if posts.Store == postsmod.StorePG && !storeCfg.PG.Enabled {
		return nil, fmt.Errorf("SERVICE_PGSQL_DBURL is required when CORE_POSTS_STORE=pg")
	}

	st, err := store.Open(ctx, storeCfg, store.WithLogger(*l))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	a := api.Build(api.Options{Config: root, Store: st, Logger: l, Posts: &posts})
	if posts.AutoMigrate {
		if err := a.Migrate(ctx); err != nil {
			_ = st.Close(ctx)
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return &app{
		posts: a.Posts.Service(),
		usage: module.MustPortsOf[usagemod.Ports](a.Usage).Usage,
		close: func() {
			if err := st.Close(context.Background()); err != nil {
				l.Error().Err(err).Msg("failed to close store")
			}
		},
	}, nil
}

func newRootCmd(build builder) *cobra.Command {
	var owner string

	rootCmd := &cobra.Command{
		Use:          "postcraft",
		Short:        "postcraft - generate and revise social media posts",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&owner, "owner",
		config.New().MayString("CORE_CLI_OWNER", "local"), "owner id every record is scoped to")

	// run opens the app, calls fn and prints its result as indented JSON
	run := func(cmd *cobra.Command, fn func(context.Context, *app) (any, error)) error {
		ctx := logger.WithRequest(cmd.Context(), "", owner)
		a, err := build(ctx)
		if err != nil {
			return err
		}
		if a.close != nil {
			defer a.close()
		}
		out, err := fn(ctx, a)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), out)
	}

	var gen postsdom.GenerateInput
	var variants int
	var fmtName string
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Draft a new post from a raw idea",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, a *app) (any, error) {
				in := gen
				in.OwnerID = owner
				in.Format = format.Format(fmtName)
				if variants > 0 {
					return a.posts.GenerateVariants(ctx, in, variants)
				}
				return a.posts.Generate(ctx, in)
			})
		},
	}
	generateCmd.Flags().StringVar(&gen.RawIdea, "idea", "", "the raw idea to write about")
	generateCmd.Flags().StringVar(&gen.Goal, "goal", "", "what the post should achieve")
	generateCmd.Flags().StringVar(&gen.PersonaID, "persona", "", "persona id")
	generateCmd.Flags().StringVar(&gen.ProjectID, "project", "", "project id")
	generateCmd.Flags().StringVar(&gen.PlatformID, "platform", "", "platform id")
	generateCmd.Flags().StringVar(&fmtName, "format", "", "story, contrarian-opinion or debate; empty picks one")
	generateCmd.Flags().IntVar(&variants, "variants", 0, "draft this many stylistic variants instead of one post")
	_ = generateCmd.MarkFlagRequired("idea")

	var iter postsdom.IterateInput
	iterateCmd := &cobra.Command{
		Use:   "iterate <artifact-id>",
		Short: "Revise the selected version of an artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *app) (any, error) {
				in := iter
				in.OwnerID, in.ArtifactID = owner, args[0]
				return a.posts.Iterate(ctx, in)
			})
		},
	}
	iterateCmd.Flags().StringVar(&iter.Type, "type", "", "iteration type, e.g. shorter or custom")
	iterateCmd.Flags().StringVar(&iter.Feedback, "feedback", "", "free form feedback for the revision")
	_ = iterateCmd.MarkFlagRequired("type")

	versionsCmd := &cobra.Command{
		Use:   "versions <artifact-id>",
		Short: "List the versions of an artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *app) (any, error) {
				return a.posts.ListVersions(ctx, owner, args[0])
			})
		},
	}

	selectCmd := &cobra.Command{
		Use:   "select <artifact-id> <version-id>",
		Short: "Make a version the current one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *app) (any, error) {
				return a.posts.SelectVersion(ctx, owner, args[0], args[1])
			})
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <artifact-id>",
		Short: "Show an artifact with its current text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *app) (any, error) {
				return a.posts.GetArtifact(ctx, owner, args[0])
			})
		},
	}

	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the newest artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, a *app) (any, error) {
				return a.posts.ListArtifacts(ctx, owner, limit)
			})
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 20, "maximum artifacts to list")

	quotaCmd := &cobra.Command{
		Use:   "quota",
		Short: "Show the remaining provider quota in this process",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(_ context.Context, a *app) (any, error) {
				return a.posts.RateLimitStatus(), nil
			})
		},
	}

	var since time.Duration
	usageCmd := &cobra.Command{
		Use:   "usage",
		Short: "Show generation events and tokens per kind",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, a *app) (any, error) {
				var from time.Time
				if since > 0 {
					from = time.Now().Add(-since)
				}
				return a.usage.Totals(ctx, owner, from)
			})
		},
	}
	usageCmd.Flags().DurationVar(&since, "since", 0, "only count events newer than this, e.g. 24h; zero means all time")

	rootCmd.AddCommand(generateCmd, iterateCmd, versionsCmd, selectCmd, showCmd, listCmd, quotaCmd, usageCmd)
	return rootCmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
