package service

import (
	"context"
	"strings"

	"postcraft/internal/core/format"
	"postcraft/internal/core/prompt"
	"postcraft/internal/core/selector"
	"postcraft/internal/modkit/repokit"
	perr "postcraft/internal/platform/errors"
	"postcraft/internal/platform/logger"
	gatewaydom "postcraft/internal/services/gateway/domain"
	"postcraft/internal/services/posts/domain"
	"postcraft/internal/services/posts/repo"
)

// loaded is the authoring context fetched for one request
type loaded struct {
	persona  *domain.Persona
	project  *domain.Project
	platform *domain.Platform
	examples []selector.Scored
}

// load fetches the optional context entities and selects examples under the token budget
func (s *Svc) load(ctx context.Context, r repo.Repo, ownerID, personaID, projectID, platformID string, withExamples bool) (loaded, error) {
	var l loaded
	if personaID != "" {
		p, err := r.GetPersona(ctx, ownerID, personaID)
		if err != nil {
			return l, err
		}
		l.persona = &p
	}
	if projectID != "" {
		p, err := r.GetProject(ctx, ownerID, projectID)
		if err != nil {
			return l, err
		}
		l.project = &p
	}
	if platformID != "" {
		p, err := r.GetPlatform(ctx, ownerID, platformID)
		if err != nil {
			return l, err
		}
		l.platform = &p
	}
	if !withExamples {
		return l, nil
	}
	cands, err := r.ListExamples(ctx, ownerID, personaID, s.cfg.ExamplePool)
	if err != nil {
		return l, err
	}
	l.examples = selector.SelectWithTokenBudget(cands, selector.Options{
		MaxCount:         s.cfg.MaxExamples,
		TargetPlatformID: platformID,
		IncludeFallback:  s.cfg.IncludeFallback,
		Now:              s.cfg.Now(),
	}, s.cfg.ExampleTokenBudget)
	return l, nil
}

// prepare validates the input and loads its context inside one read transaction
func (s *Svc) prepare(ctx context.Context, in domain.GenerateInput) (loaded, prompt.Context, error) {
	if strings.TrimSpace(in.RawIdea) == "" {
		return loaded{}, prompt.Context{}, perr.WithField(perr.Validationf("raw idea must not be empty"), "raw_idea")
	}
	for _, ref := range [...][2]string{{"persona_id", in.PersonaID}, {"project_id", in.ProjectID}, {"platform_id", in.PlatformID}} {
		if ref[1] == "" {
			continue
		}
		if err := checkID(ref[0], ref[1]); err != nil {
			return loaded{}, prompt.Context{}, err
		}
	}
	if in.Format != "" {
		if _, ok := format.Parse(string(in.Format)); !ok {
			return loaded{}, prompt.Context{}, perr.WithField(perr.Validationf("unknown format %q", in.Format), "format")
		}
	}

	var l loaded
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		l, err = s.load(ctx, s.binder.Bind(q), in.OwnerID, in.PersonaID, in.ProjectID, in.PlatformID, true)
		return err
	})
	if err != nil {
		return loaded{}, prompt.Context{}, err
	}
	if err := s.supported(l.platform); err != nil {
		return loaded{}, prompt.Context{}, err
	}

	pc := l.promptContext(in.Goal, in.RawIdea)
	if in.Format != "" {
		pc.Format, _ = format.Parse(string(in.Format))
	}
	pc.Format = pc.ResolveFormat()
	return l, pc, nil
}

// Generate builds a prompt, calls the gateway and records v1 of a new artifact
func (s *Svc) Generate(ctx context.Context, in domain.GenerateInput) (domain.GenerateResult, error) {
	const op = "posts.generate"
	ctx = logger.WithOp(ctx, op)

	_, pc, err := s.prepare(ctx, in)
	if err != nil {
		return domain.GenerateResult{}, perr.WithOp(err, op)
	}
	text, err := prompt.Build(pc)
	if err != nil {
		return domain.GenerateResult{}, perr.WithOp(err, op)
	}

	c, err := s.gw.Complete(ctx, gatewaydom.Request{System: prompt.System, Prompt: text})
	if err != nil {
		return domain.GenerateResult{}, err
	}

	a, v := s.newArtifact(in, pc.Format, "", c)
	err = s.db.Tx(ctx, func(q repokit.Queryer) error {
		return createWithFirstVersion(ctx, s.binder.Bind(q), a, v)
	})
	if err != nil {
		return domain.GenerateResult{}, perr.WithOp(err, op)
	}

	s.usage.Record(ctx, domain.UsageEvent{
		OwnerID: a.OwnerID, ArtifactID: a.ID, VersionID: v.ID,
		Kind: domain.KindGenerate, Format: string(a.Format), Usage: v.Usage,
	})
	logger.C(ctx).Info().
		Str("artifact_id", a.ID).
		Str("format", string(a.Format)).
		Int("examples", len(pc.Examples)).
		Int("total_tokens", v.Usage.TotalTokens).
		Msg("posts: generated")

	return domain.GenerateResult{
		ArtifactID: a.ID,
		VersionID:  v.ID,
		Format:     a.Format,
		Text:       v.Text,
		Usage:      v.Usage,
	}, nil
}

// newArtifact builds the artifact and its selected v1 from a completion
func (s *Svc) newArtifact(in domain.GenerateInput, f format.Format, approach string, c gatewaydom.Completion) (domain.Artifact, domain.Version) {
	now := s.cfg.Now().UTC()
	a := domain.Artifact{
		ID:            s.cfg.NewID(),
		OwnerID:       in.OwnerID,
		PersonaID:     in.PersonaID,
		ProjectID:     in.ProjectID,
		PlatformID:    in.PlatformID,
		Goal:          strings.TrimSpace(in.Goal),
		RawIdea:       strings.TrimSpace(in.RawIdea),
		Format:        f,
		Approach:      approach,
		CurrentText:   c.Text,
		TotalVersions: 1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	v := domain.Version{
		ID:         s.cfg.NewID(),
		ArtifactID: a.ID,
		Number:     1,
		Text:       c.Text,
		IsSelected: true,
		Usage:      c.Usage,
		CreatedAt:  now,
	}
	a.CurrentVersionID = v.ID
	return a, v
}

// createWithFirstVersion persists the artifact row, then v1, then the pointer
func createWithFirstVersion(ctx context.Context, r repo.Repo, a domain.Artifact, v domain.Version) error {
	pointer, text := a.CurrentVersionID, a.CurrentText
	// the version row references the artifact, so the pointer is set after it exists
	a.CurrentVersionID, a.CurrentText, a.TotalVersions = "", "", 0
	if err := r.CreateArtifact(ctx, a); err != nil {
		return err
	}
	if err := r.InsertVersion(ctx, v); err != nil {
		return err
	}
	return r.UpdateArtifactPointer(ctx, a.ID, pointer, text, 1, a.CreatedAt)
}
