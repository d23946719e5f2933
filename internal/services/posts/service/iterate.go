package service

import (
	"context"

	"postcraft/internal/core/prompt"
	"postcraft/internal/modkit/repokit"
	perr "postcraft/internal/platform/errors"
	"postcraft/internal/platform/logger"
	gatewaydom "postcraft/internal/services/gateway/domain"
	"postcraft/internal/services/posts/domain"
)

// Iterate revises the currently selected version and records the result as the new selected version
// nothing is written unless the gateway call succeeded
func (s *Svc) Iterate(ctx context.Context, in domain.IterateInput) (domain.IterateResult, error) {
	const op = "posts.iterate"
	ctx = logger.WithOp(ctx, op)

	if err := checkID("artifact_id", in.ArtifactID); err != nil {
		return domain.IterateResult{}, perr.WithOp(err, op)
	}
	t, ok := prompt.ParseIterationType(in.Type)
	if !ok {
		t = prompt.IterationType(in.Type)
	}
	instruction, err := prompt.ResolveInstruction(t, in.Feedback)
	if err != nil {
		return domain.IterateResult{}, perr.WithOp(err, op)
	}

	var (
		art  domain.Artifact
		prev domain.Version
		l    loaded
	)
	err = s.db.Tx(ctx, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		var err error
		if art, err = r.GetArtifact(ctx, in.OwnerID, in.ArtifactID, false); err != nil {
			return err
		}
		if prev, err = r.SelectedVersion(ctx, art.ID); err != nil {
			return err
		}
		l, err = s.load(ctx, r, in.OwnerID, art.PersonaID, art.ProjectID, art.PlatformID, false)
		return err
	})
	if err != nil {
		return domain.IterateResult{}, perr.WithOp(err, op)
	}
	if err := s.supported(l.platform); err != nil {
		return domain.IterateResult{}, perr.WithOp(err, op)
	}

	pc := l.promptContext(art.Goal, art.RawIdea)
	pc.Format = art.Format
	text, err := prompt.BuildIteration(pc, prev.Text, instruction)
	if err != nil {
		return domain.IterateResult{}, perr.WithOp(err, op)
	}

	c, err := s.gw.Complete(ctx, gatewaydom.Request{System: prompt.System, Prompt: text})
	if err != nil {
		return domain.IterateResult{}, err
	}

	var v domain.Version
	err = s.db.Tx(ctx, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		// re-read under lock; a concurrent iteration may have bumped the total
		locked, err := r.GetArtifact(ctx, in.OwnerID, in.ArtifactID, true)
		if err != nil {
			return err
		}
		now := s.cfg.Now().UTC()
		v = domain.Version{
			ID:              s.cfg.NewID(),
			ArtifactID:      locked.ID,
			Number:          locked.TotalVersions + 1,
			Text:            c.Text,
			IterationPrompt: &instruction,
			IsSelected:      false,
			Usage:           c.Usage,
			CreatedAt:       now,
		}
		if err := r.InsertVersion(ctx, v); err != nil {
			return err
		}
		if err := r.MarkSelected(ctx, locked.ID, v.ID); err != nil {
			return err
		}
		v.IsSelected = true
		return r.UpdateArtifactPointer(ctx, locked.ID, v.ID, v.Text, v.Number, now)
	})
	if err != nil {
		return domain.IterateResult{}, perr.WithOp(err, op)
	}

	s.usage.Record(ctx, domain.UsageEvent{
		OwnerID: in.OwnerID, ArtifactID: art.ID, VersionID: v.ID,
		Kind: domain.KindIterate, Approach: art.Approach, Format: string(art.Format), Usage: v.Usage,
	})
	logger.C(ctx).Info().
		Str("artifact_id", art.ID).
		Int("version", v.Number).
		Str("type", string(t)).
		Msg("posts: iterated")

	return domain.IterateResult{
		VersionID:     v.ID,
		VersionNumber: v.Number,
		Text:          v.Text,
		Usage:         v.Usage,
	}, nil
}
