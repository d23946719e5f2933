package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"postcraft/internal/core/prompt"
	"postcraft/internal/core/variant"
	"postcraft/internal/modkit/repokit"
	perr "postcraft/internal/platform/errors"
	"postcraft/internal/platform/logger"
	gatewaydom "postcraft/internal/services/gateway/domain"
	"postcraft/internal/services/posts/domain"
)

// GenerateVariants fans out one gateway call per approach and persists the batch only if every call succeeded
// count is clamped to 1..4 and the format is detected once for the whole batch
func (s *Svc) GenerateVariants(ctx context.Context, in domain.GenerateInput, count int) ([]domain.Variant, error) {
	const op = "posts.generate_variants"
	ctx = logger.WithOp(ctx, op)

	_, pc, err := s.prepare(ctx, in)
	if err != nil {
		return nil, perr.WithOp(err, op)
	}

	plan := variant.Plan(count)
	prompts := make([]string, len(plan))
	for i, ap := range plan {
		vc := pc
		vc.Directive = ap.Directive
		if prompts[i], err = prompt.Build(vc); err != nil {
			return nil, perr.WithOp(err, op)
		}
	}

	completions := make([]gatewaydom.Completion, len(plan))
	g, gctx := errgroup.WithContext(ctx)
	for i, ap := range plan {
		g.Go(func() error {
			c, err := s.gw.Complete(gctx, gatewaydom.Request{
				System:      prompt.System,
				Prompt:      prompts[i],
				Temperature: gatewaydom.Temp(ap.Temperature),
			})
			if err != nil {
				return err
			}
			completions[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.C(ctx).Warn().Err(err).Int("count", len(plan)).Msg("posts: variant batch failed")
		return nil, err
	}

	out := make([]domain.Variant, len(plan))
	artifacts := make([]domain.Artifact, len(plan))
	versions := make([]domain.Version, len(plan))
	for i, ap := range plan {
		artifacts[i], versions[i] = s.newArtifact(in, pc.Format, ap.Name, completions[i])
	}
	err = s.db.Tx(ctx, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		for i := range plan {
			if err := createWithFirstVersion(ctx, r, artifacts[i], versions[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, perr.WithOp(err, op)
	}

	events := make([]domain.UsageEvent, len(plan))
	for i, ap := range plan {
		a, v := artifacts[i], versions[i]
		out[i] = domain.Variant{
			Position:   i + 1,
			ArtifactID: a.ID,
			VersionID:  v.ID,
			Approach:   ap.Name,
			Format:     pc.Format,
			Text:       v.Text,
			Usage:      v.Usage,
		}
		events[i] = domain.UsageEvent{
			OwnerID: a.OwnerID, ArtifactID: a.ID, VersionID: v.ID,
			Kind: domain.KindVariant, Approach: ap.Name, Format: string(pc.Format), Usage: v.Usage,
		}
	}
	s.usage.Record(ctx, events...)
	logger.C(ctx).Info().Int("count", len(out)).Str("format", string(pc.Format)).Msg("posts: variants generated")
	return out, nil
}
