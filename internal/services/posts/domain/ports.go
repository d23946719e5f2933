package domain

import (
	"context"

	"postcraft/internal/core/ratelimit"
)

// ServicePort is the generation and revision contract
type ServicePort interface {
	Generate(ctx context.Context, in GenerateInput) (GenerateResult, error)
	GenerateVariants(ctx context.Context, in GenerateInput, count int) ([]Variant, error)
	Iterate(ctx context.Context, in IterateInput) (IterateResult, error)
	ListVersions(ctx context.Context, ownerID, artifactID string) ([]VersionSummary, error)
	SelectVersion(ctx context.Context, ownerID, artifactID, versionID string) (VersionSummary, error)
	GetArtifact(ctx context.Context, ownerID, artifactID string) (ArtifactView, error)
	ListArtifacts(ctx context.Context, ownerID string, limit int) ([]ArtifactView, error)
	RateLimitStatus() ratelimit.Status
}

// UsageEvent is one persisted generation or iteration
type UsageEvent struct {
	OwnerID    string
	ArtifactID string
	VersionID  string
	Kind       string
	Approach   string
	Format     string
	Usage      Usage
}

// Usage event kinds
const (
	KindGenerate = "generate"
	KindVariant  = "variant"
	KindIterate  = "iterate"
)

// UsageRecorderPort receives usage events after commit; failures never fail the caller
type UsageRecorderPort interface {
	Record(ctx context.Context, events ...UsageEvent)
}
