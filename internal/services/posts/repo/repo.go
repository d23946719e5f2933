// Package repo provides storage for artifacts, versions and read only authoring context
package repo

import (
	"context"
	_ "embed"
	"time"

	"postcraft/internal/core/selector"
	"postcraft/internal/services/posts/domain"
)

// Schema is the postgres DDL, safe to apply repeatedly
//
//go:embed schema.sql
var Schema string

// Repo defines the repository contract for posts
// every lookup is owner scoped; a row owned by someone else is not found
type Repo interface {
	GetPersona(ctx context.Context, ownerID, id string) (domain.Persona, error)
	GetProject(ctx context.Context, ownerID, id string) (domain.Project, error)
	GetPlatform(ctx context.Context, ownerID, id string) (domain.Platform, error)
	// ListExamples returns the newest examples of the owner, narrowed to a persona when personaID is set
	ListExamples(ctx context.Context, ownerID, personaID string, limit int) ([]selector.Example, error)

	CreateArtifact(ctx context.Context, a domain.Artifact) error
	// GetArtifact locks the row for the rest of the transaction when forUpdate is set
	GetArtifact(ctx context.Context, ownerID, id string, forUpdate bool) (domain.Artifact, error)
	// ListArtifacts returns the owner's artifacts, newest first
	ListArtifacts(ctx context.Context, ownerID string, limit int) ([]domain.Artifact, error)
	UpdateArtifactPointer(ctx context.Context, artifactID, versionID, text string, total int, at time.Time) error

	InsertVersion(ctx context.Context, v domain.Version) error
	ListVersions(ctx context.Context, artifactID string) ([]domain.Version, error)
	GetVersion(ctx context.Context, artifactID, versionID string) (domain.Version, error)
	SelectedVersion(ctx context.Context, artifactID string) (domain.Version, error)
	// MarkSelected deselects every other version of the artifact, then selects versionID
	MarkSelected(ctx context.Context, artifactID, versionID string) error
}
