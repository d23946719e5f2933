package repo

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"postcraft/internal/core/selector"
	"postcraft/internal/services/posts/domain"
)

// Seed is the YAML document accepted by the memory store
//
//	owner: me
//	personas:
//	  - id: 7b0c...
//	    name: Ada
//	    tone: [direct, warm]
//	examples:
//	  - persona: 7b0c...
//	    content: "..."
//	    likes: 10
type Seed struct {
	Owner     string        `yaml:"owner"`
	Personas  []seedPersona `yaml:"personas"`
	Projects  []seedProject `yaml:"projects"`
	Platforms []seedPlat    `yaml:"platforms"`
	Examples  []seedExample `yaml:"examples"`
}

type seedPersona struct {
	ID    string   `yaml:"id"`
	Name  string   `yaml:"name"`
	Bio   string   `yaml:"bio"`
	Tone  []string `yaml:"tone"`
	Do    []string `yaml:"do"`
	Dont  []string `yaml:"dont"`
	Owner string   `yaml:"owner"`
}

type seedProject struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Audience    string   `yaml:"audience"`
	KeyMessages []string `yaml:"key_messages"`
	Owner       string   `yaml:"owner"`
}

type seedPlat struct {
	ID         string `yaml:"id"`
	Slug       string `yaml:"slug"`
	Name       string `yaml:"name"`
	Guidelines string `yaml:"guidelines"`
	MaxLength  int    `yaml:"max_length"`
	Owner      string `yaml:"owner"`
}

type seedExample struct {
	ID          string     `yaml:"id"`
	Persona     string     `yaml:"persona"`
	Platform    string     `yaml:"platform"`
	Content     string     `yaml:"content"`
	PublishedAt *time.Time `yaml:"published_at"`
	Likes       *int64     `yaml:"likes"`
	Comments    int64      `yaml:"comments"`
	Shares      int64      `yaml:"shares"`
	Views       int64      `yaml:"views"`
	Owner       string     `yaml:"owner"`
}

// ReadSeed decodes a seed document; entries without an owner inherit the top level one
func ReadSeed(r io.Reader) (Seed, error) {
	var s Seed
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && err != io.EOF {
		return Seed{}, fmt.Errorf("decode seed: %w", err)
	}
	return s, nil
}

// Load adds every seeded entity to the store
func (m *Memory) Load(s Seed) error {
	owner := func(o string) string {
		if o != "" {
			return o
		}
		return s.Owner
	}
	for i, p := range s.Personas {
		if p.ID == "" {
			return fmt.Errorf("seed persona %d: missing id", i)
		}
		m.AddPersona(domain.Persona{ID: p.ID, OwnerID: owner(p.Owner), Name: p.Name, Bio: p.Bio, ToneTags: p.Tone, DoRules: p.Do, DontRules: p.Dont})
	}
	for i, p := range s.Projects {
		if p.ID == "" {
			return fmt.Errorf("seed project %d: missing id", i)
		}
		m.AddProject(domain.Project{ID: p.ID, OwnerID: owner(p.Owner), Name: p.Name, Description: p.Description, Audience: p.Audience, KeyMessages: p.KeyMessages})
	}
	for i, p := range s.Platforms {
		if p.ID == "" || p.Slug == "" {
			return fmt.Errorf("seed platform %d: missing id or slug", i)
		}
		m.AddPlatform(domain.Platform{ID: p.ID, OwnerID: owner(p.Owner), Slug: p.Slug, Name: p.Name, StyleGuidelines: p.Guidelines, MaxLength: p.MaxLength})
	}
	for i, e := range s.Examples {
		if e.Content == "" {
			return fmt.Errorf("seed example %d: missing content", i)
		}
		id := e.ID
		if id == "" {
			id = fmt.Sprintf("seed-%d", i+1)
		}
		ex := selector.Example{ID: id, Content: e.Content, PublishedAt: e.PublishedAt, PlatformID: e.Platform}
		// engagement is present only when likes is given
		if e.Likes != nil {
			ex.Engagement = &selector.Engagement{Likes: *e.Likes, Comments: e.Comments, Shares: e.Shares, Views: e.Views}
		}
		m.AddExample(owner(e.Owner), e.Persona, ex)
	}
	return nil
}
