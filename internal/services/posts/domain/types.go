package domain

import (
	"time"

	"postcraft/internal/core/format"
	"postcraft/internal/core/prompt"
	gatewaydom "postcraft/internal/services/gateway/domain"
)

// Usage is the token snapshot recorded on every version
type Usage = gatewaydom.Usage

// Persona is the stored author voice
type Persona struct {
	ID        string
	OwnerID   string
	Name      string
	Bio       string
	ToneTags  []string
	DoRules   []string
	DontRules []string
}

// Project is the stored campaign context
type Project struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	Audience    string
	KeyMessages []string
}

// Platform is a publishing surface; Slug is what the supported set is matched against
type Platform struct {
	ID              string
	OwnerID         string
	Slug            string
	Name            string
	StyleGuidelines string
	MaxLength       int
}

// Artifact is one logical generated post
// CurrentVersionID and CurrentText mirror the selected version
type Artifact struct {
	ID               string
	OwnerID          string
	PersonaID        string
	ProjectID        string
	PlatformID       string
	Goal             string
	RawIdea          string
	Format           format.Format
	Approach         string
	CurrentVersionID string
	CurrentText      string
	TotalVersions    int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Version is immutable except for IsSelected
type Version struct {
	ID              string
	ArtifactID      string
	Number          int
	Text            string
	IterationPrompt *string
	IsSelected      bool
	Usage           Usage
	CreatedAt       time.Time
}

// PromptPersona converts to the prompt builder shape, nil stays nil
func (p *Persona) PromptPersona() *prompt.Persona {
	if p == nil {
		return nil
	}
	return &prompt.Persona{Name: p.Name, Bio: p.Bio, ToneTags: p.ToneTags, DoRules: p.DoRules, DontRules: p.DontRules}
}

// PromptProject converts to the prompt builder shape, nil stays nil
func (p *Project) PromptProject() *prompt.Project {
	if p == nil {
		return nil
	}
	return &prompt.Project{Name: p.Name, Description: p.Description, Audience: p.Audience, KeyMessages: p.KeyMessages}
}

// PromptPlatform converts to the prompt builder shape, nil stays nil
func (p *Platform) PromptPlatform() *prompt.Platform {
	if p == nil {
		return nil
	}
	return &prompt.Platform{ID: p.ID, Name: p.Name, StyleGuidelines: p.StyleGuidelines, MaxLength: p.MaxLength}
}
