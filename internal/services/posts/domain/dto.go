// Package domain holds DTOs and ports for post generation and revision
package domain

import (
	"time"

	"postcraft/internal/core/format"
)

// GenerateInput asks for a new post; context ids are optional and owner scoped
type GenerateInput struct {
	OwnerID    string        `json:"-"`
	PersonaID  string        `json:"persona_id,omitempty" validate:"omitempty,uuid" example:"7b0c4a9e-2f0d-4c43-9a37-0a4f4bb9f6d1"`
	ProjectID  string        `json:"project_id,omitempty" validate:"omitempty,uuid" example:"0d3f0e0a-8e6b-4a8b-9a41-5f1f6c0f3b22"`
	PlatformID string        `json:"platform_id,omitempty" validate:"omitempty,uuid" example:"c6a1d7a2-52f4-4d0f-8d7b-0c3e3f2a9b10"`
	Goal       string        `json:"goal,omitempty" validate:"omitempty,max=500" example:"start a discussion with engineering managers"`
	RawIdea    string        `json:"raw_idea" validate:"required,notblank,max=4000" example:"what I learned migrating 40 services to one deploy pipeline"`
	Format     format.Format `json:"format,omitempty" validate:"omitempty,oneof=story contrarian-opinion debate" example:"story"`
}

// VariantsInput asks for up to four stylistic variants; Count is clamped to 1..4
type VariantsInput struct {
	GenerateInput
	Count int `json:"count,omitempty" validate:"omitempty,min=0" example:"3"`
}

// IterateInput asks for a revision of the currently selected version
type IterateInput struct {
	OwnerID    string `json:"-"`
	ArtifactID string `json:"-"`
	Type       string `json:"type" validate:"required,max=32" example:"shorter"`
	Feedback   string `json:"feedback,omitempty" validate:"omitempty,max=2000" example:"keep the numbers"`
}

// GenerateResult is v1 of a new artifact
type GenerateResult struct {
	ArtifactID string        `json:"artifact_id"`
	VersionID  string        `json:"version_id"`
	Format     format.Format `json:"format"`
	Text       string        `json:"text"`
	Usage      Usage         `json:"usage"`
}

// Variant is one member of a variant batch, Position is 1 based
type Variant struct {
	Position   int           `json:"position"`
	ArtifactID string        `json:"artifact_id"`
	VersionID  string        `json:"version_id"`
	Approach   string        `json:"approach"`
	Format     format.Format `json:"format"`
	Text       string        `json:"text"`
	Usage      Usage         `json:"usage"`
}

// IterateResult is the new selected version
type IterateResult struct {
	VersionID     string `json:"version_id"`
	VersionNumber int    `json:"version_number"`
	Text          string `json:"text"`
	Usage         Usage  `json:"usage"`
}

// VersionSummary is the listing shape of a version
type VersionSummary struct {
	ID              string    `json:"id"`
	VersionNumber   int       `json:"version_number"`
	Text            string    `json:"text"`
	IterationPrompt *string   `json:"iteration_prompt"`
	IsSelected      bool      `json:"is_selected"`
	Usage           Usage     `json:"usage"`
	CreatedAt       time.Time `json:"created_at"`
}

// ArtifactView is the read shape of an artifact
type ArtifactView struct {
	ID               string        `json:"id"`
	PersonaID        string        `json:"persona_id,omitempty"`
	ProjectID        string        `json:"project_id,omitempty"`
	PlatformID       string        `json:"platform_id,omitempty"`
	Goal             string        `json:"goal,omitempty"`
	RawIdea          string        `json:"raw_idea"`
	Format           format.Format `json:"format"`
	Approach         string        `json:"approach,omitempty"`
	CurrentVersionID string        `json:"current_version_id"`
	CurrentText      string        `json:"current_text"`
	TotalVersions    int           `json:"total_versions"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// Summary converts a version to its listing shape
func (v Version) Summary() VersionSummary {
	return VersionSummary{
		ID:              v.ID,
		VersionNumber:   v.Number,
		Text:            v.Text,
		IterationPrompt: v.IterationPrompt,
		IsSelected:      v.IsSelected,
		Usage:           v.Usage,
		CreatedAt:       v.CreatedAt,
	}
}

// View converts an artifact to its read shape
func (a Artifact) View() ArtifactView {
	return ArtifactView{
		ID:               a.ID,
		PersonaID:        a.PersonaID,
		ProjectID:        a.ProjectID,
		PlatformID:       a.PlatformID,
		Goal:             a.Goal,
		RawIdea:          a.RawIdea,
		Format:           a.Format,
		Approach:         a.Approach,
		CurrentVersionID: a.CurrentVersionID,
		CurrentText:      a.CurrentText,
		TotalVersions:    a.TotalVersions,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}
