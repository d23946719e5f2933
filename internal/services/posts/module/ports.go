package module

import (
	"context"

	"postcraft/internal/core/ratelimit"
	"postcraft/internal/services/posts/domain"
	postssvc "postcraft/internal/services/posts/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Service returns the posts port, for in-process callers such as the CLI
func (m *Module) Service() domain.ServicePort { return m.port }

// adaptPostsPort adapts the posts service to the domain port interface
type adaptPostsPort struct{ svc postssvc.Service }

var _ domain.ServicePort = adaptPostsPort{}

func (a adaptPostsPort) Generate(ctx context.Context, in domain.GenerateInput) (domain.GenerateResult, error) {
	return a.svc.Generate(ctx, in)
}

func (a adaptPostsPort) GenerateVariants(ctx context.Context, in domain.GenerateInput, count int) ([]domain.Variant, error) {
	return a.svc.GenerateVariants(ctx, in, count)
}

func (a adaptPostsPort) Iterate(ctx context.Context, in domain.IterateInput) (domain.IterateResult, error) {
	return a.svc.Iterate(ctx, in)
}

func (a adaptPostsPort) ListVersions(ctx context.Context, ownerID, artifactID string) ([]domain.VersionSummary, error) {
	return a.svc.ListVersions(ctx, ownerID, artifactID)
}

func (a adaptPostsPort) SelectVersion(ctx context.Context, ownerID, artifactID, versionID string) (domain.VersionSummary, error) {
	return a.svc.SelectVersion(ctx, ownerID, artifactID, versionID)
}

func (a adaptPostsPort) GetArtifact(ctx context.Context, ownerID, artifactID string) (domain.ArtifactView, error) {
	return a.svc.GetArtifact(ctx, ownerID, artifactID)
}

func (a adaptPostsPort) ListArtifacts(ctx context.Context, ownerID string, limit int) ([]domain.ArtifactView, error) {
	return a.svc.ListArtifacts(ctx, ownerID, limit)
}

func (a adaptPostsPort) RateLimitStatus() ratelimit.Status { return a.svc.RateLimitStatus() }
