// Package service contains the post generation and revision workflows
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"postcraft/internal/core/prompt"
	"postcraft/internal/core/ratelimit"
	"postcraft/internal/core/selector"
	"postcraft/internal/modkit/repokit"
	perr "postcraft/internal/platform/errors"
	"postcraft/internal/platform/logger"
	gatewaydom "postcraft/internal/services/gateway/domain"
	"postcraft/internal/services/posts/domain"
	"postcraft/internal/services/posts/repo"
)

// Service defines the service contract for posts
type Service interface{ domain.ServicePort }

// Config tunes example selection and the supported platform set
type Config struct {
	MaxExamples        int
	ExamplePool        int
	ExampleTokenBudget int
	IncludeFallback    bool
	// SupportedPlatforms are platform slugs; empty means every platform is accepted
	SupportedPlatforms []string

	Now   func() time.Time
	NewID func() string
}

// Svc implements the Service interface
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	gw     gatewaydom.ServicePort
	usage  domain.UsageRecorderPort
	cfg    Config
}

var _ Service = (*Svc)(nil)

// New creates a new posts service; usage may be nil
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], gw gatewaydom.ServicePort, usage domain.UsageRecorderPort, cfg Config) *Svc {
	if db == nil {
		panic("posts.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("posts.Service requires a non nil Repo binder")
	}
	if gw == nil {
		panic("posts.Service requires a non nil gateway")
	}
	if usage == nil {
		usage = nopUsage{}
	}
	if cfg.MaxExamples <= 0 {
		cfg.MaxExamples = selector.DefaultMaxCount
	}
	if cfg.ExamplePool <= 0 {
		cfg.ExamplePool = 100
	}
	if cfg.ExampleTokenBudget <= 0 {
		cfg.ExampleTokenBudget = selector.DefaultTokenBudget
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = func() string { return uuid.NewString() }
	}
	supported := make([]string, 0, len(cfg.SupportedPlatforms))
	for _, p := range cfg.SupportedPlatforms {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			supported = append(supported, p)
		}
	}
	cfg.SupportedPlatforms = supported
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db, gw: gw, usage: usage, cfg: cfg}
}

// RateLimitStatus reports the remaining provider quota
func (s *Svc) RateLimitStatus() ratelimit.Status { return s.gw.Status() }

// GetArtifact returns the artifact with its current text
func (s *Svc) GetArtifact(ctx context.Context, ownerID, artifactID string) (domain.ArtifactView, error) {
	const op = "posts.get_artifact"
	if err := checkID("artifact_id", artifactID); err != nil {
		return domain.ArtifactView{}, perr.WithOp(err, op)
	}
	var a domain.Artifact
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		a, err = s.binder.Bind(q).GetArtifact(ctx, ownerID, artifactID, false)
		return err
	})
	if err != nil {
		return domain.ArtifactView{}, perr.WithOp(err, op)
	}
	return a.View(), nil
}

// ListArtifacts returns the owner's newest artifacts
func (s *Svc) ListArtifacts(ctx context.Context, ownerID string, limit int) ([]domain.ArtifactView, error) {
	var as []domain.Artifact
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		as, err = s.binder.Bind(q).ListArtifacts(ctx, ownerID, limit)
		return err
	})
	if err != nil {
		return nil, perr.WithOp(err, "posts.list_artifacts")
	}
	out := make([]domain.ArtifactView, 0, len(as))
	for _, a := range as {
		out = append(out, a.View())
	}
	return out, nil
}

// ListVersions returns the version summaries ordered by version number
func (s *Svc) ListVersions(ctx context.Context, ownerID, artifactID string) ([]domain.VersionSummary, error) {
	const op = "posts.list_versions"
	if err := checkID("artifact_id", artifactID); err != nil {
		return nil, perr.WithOp(err, op)
	}
	var vs []domain.Version
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		if _, err := r.GetArtifact(ctx, ownerID, artifactID, false); err != nil {
			return err
		}
		var err error
		vs, err = r.ListVersions(ctx, artifactID)
		return err
	})
	if err != nil {
		return nil, perr.WithOp(err, op)
	}
	out := make([]domain.VersionSummary, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Summary())
	}
	return out, nil
}

// SelectVersion makes versionID the current version; moving backwards is allowed
func (s *Svc) SelectVersion(ctx context.Context, ownerID, artifactID, versionID string) (domain.VersionSummary, error) {
	const op = "posts.select_version"
	if err := checkID("artifact_id", artifactID); err != nil {
		return domain.VersionSummary{}, perr.WithOp(err, op)
	}
	if err := checkID("version_id", versionID); err != nil {
		return domain.VersionSummary{}, perr.WithOp(err, op)
	}

	var v domain.Version
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		a, err := r.GetArtifact(ctx, ownerID, artifactID, true)
		if err != nil {
			return err
		}
		if v, err = r.GetVersion(ctx, artifactID, versionID); err != nil {
			return err
		}
		if err := r.MarkSelected(ctx, artifactID, versionID); err != nil {
			return err
		}
		v.IsSelected = true
		return r.UpdateArtifactPointer(ctx, artifactID, v.ID, v.Text, a.TotalVersions, s.cfg.Now().UTC())
	})
	if err != nil {
		return domain.VersionSummary{}, perr.WithOp(err, op)
	}

	logger.C(ctx).Info().
		Str("artifact_id", artifactID).
		Int("version", v.Number).
		Msg("posts: version selected")
	return v.Summary(), nil
}

// checkID rejects identifiers that are not uuids
func checkID(field, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return perr.WithField(perr.Validationf("%s must be a uuid", field), field)
	}
	return nil
}

// supported reports whether the platform may be generated for
func (s *Svc) supported(p *domain.Platform) error {
	if p == nil || len(s.cfg.SupportedPlatforms) == 0 {
		return nil
	}
	slug := strings.ToLower(strings.TrimSpace(p.Slug))
	for _, sp := range s.cfg.SupportedPlatforms {
		if sp == slug {
			return nil
		}
	}
	return perr.WithField(
		perr.Unsupportedf(s.cfg.SupportedPlatforms, "platform %q is not supported yet", p.Slug),
		"platform_id",
	)
}

type nopUsage struct{}

func (nopUsage) Record(context.Context, ...domain.UsageEvent) {}

// promptContext turns loaded entities into the prompt builder input
func (l loaded) promptContext(goal, idea string) prompt.Context {
	return prompt.Context{
		Persona:  l.persona.PromptPersona(),
		Project:  l.project.PromptProject(),
		Platform: l.platform.PromptPlatform(),
		Goal:     goal,
		RawIdea:  idea,
		Examples: l.examples,
	}
}
