package repo

import (
	"context"
	"time"

	"postcraft/internal/core/format"
	"postcraft/internal/core/selector"
	"postcraft/internal/modkit/repokit"
	perr "postcraft/internal/platform/errors"
	"postcraft/internal/platform/store"
	pstrings "postcraft/internal/platform/strings"
	"postcraft/internal/services/posts/domain"
)

type (
	// PG implements the Repo interface using Postgres
	PG struct{}

	// queries holds the database query methods
	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

// Migrate applies Schema in one transaction
func Migrate(ctx context.Context, db repokit.TxRunner) error {
	return db.Tx(ctx, func(q repokit.Queryer) error {
		if _, err := q.Exec(ctx, Schema); err != nil {
			return perr.FromPostgres(err, "apply posts schema")
		}
		return nil
	})
}

// notFound turns the store sentinel into a descriptive not found error
func notFound(err error, what, id string) error {
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		return perr.NotFoundf("%s %s not found", what, id)
	}
	return perr.FromPostgresf(err, "load %s %s", what, id)
}

func (r *queries) GetPersona(ctx context.Context, ownerID, id string) (domain.Persona, error) {
	const sql = `
select id::text, owner_id, name, bio, tone_tags, do_rules, dont_rules
from personas
where id = $1::uuid and owner_id = $2
`
	p, err := store.One(ctx, r.q, func(row store.Row) (domain.Persona, error) {
		var p domain.Persona
		err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Bio, &p.ToneTags, &p.DoRules, &p.DontRules)
		return p, err
	}, sql, id, ownerID)
	if err != nil {
		return domain.Persona{}, notFound(err, "persona", id)
	}
	return p, nil
}

func (r *queries) GetProject(ctx context.Context, ownerID, id string) (domain.Project, error) {
	const sql = `
select id::text, owner_id, name, description, audience, key_messages
from projects
where id = $1::uuid and owner_id = $2
`
	p, err := store.One(ctx, r.q, func(row store.Row) (domain.Project, error) {
		var p domain.Project
		err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.Audience, &p.KeyMessages)
		return p, err
	}, sql, id, ownerID)
	if err != nil {
		return domain.Project{}, notFound(err, "project", id)
	}
	return p, nil
}

func (r *queries) GetPlatform(ctx context.Context, ownerID, id string) (domain.Platform, error) {
	const sql = `
select id::text, owner_id, slug, name, style_guidelines, coalesce(max_length, 0)
from platforms
where id = $1::uuid and owner_id = $2
`
	p, err := store.One(ctx, r.q, func(row store.Row) (domain.Platform, error) {
		var p domain.Platform
		err := row.Scan(&p.ID, &p.OwnerID, &p.Slug, &p.Name, &p.StyleGuidelines, &p.MaxLength)
		return p, err
	}, sql, id, ownerID)
	if err != nil {
		return domain.Platform{}, notFound(err, "platform", id)
	}
	return p, nil
}

func (r *queries) ListExamples(ctx context.Context, ownerID, personaID string, limit int) ([]selector.Example, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	const sql = `
select id::text, content, published_at, coalesce(platform_id::text, ''),
likes, comments, shares, views
from historical_examples
where owner_id = $1
and ($2 = '' or persona_id = nullif($2, '')::uuid)
order by coalesce(published_at, created_at) desc
limit $3
`
	out, err := store.Many(ctx, r.q, func(row store.Row) (selector.Example, error) {
		var (
			ex                             selector.Example
			published                      *time.Time
			likes, comments, shares, views *int64
		)
		if err := row.Scan(&ex.ID, &ex.Content, &published, &ex.PlatformID, &likes, &comments, &shares, &views); err != nil {
			return ex, err
		}
		ex.PublishedAt = published
		if likes != nil || comments != nil || shares != nil || views != nil {
			ex.Engagement = &selector.Engagement{
				Likes:    deref(likes),
				Comments: deref(comments),
				Shares:   deref(shares),
				Views:    deref(views),
			}
		}
		return ex, nil
	}, sql, ownerID, personaID, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "list historical examples")
	}
	return out, nil
}

func (r *queries) CreateArtifact(ctx context.Context, a domain.Artifact) error {
	const sql = `
insert into artifacts (id, owner_id, persona_id, project_id, platform_id, goal, raw_idea, format, approach,
current_version_id, current_text, total_versions, created_at, updated_at)
values ($1::uuid, $2, $3::uuid, $4::uuid, $5::uuid, $6, $7, $8, $9,
nullif($10, '')::uuid, $11, $12, $13, $13)
`
	err := store.ExecOne(ctx, r.q, sql,
		a.ID, a.OwnerID, pstrings.NullIfBlank(a.PersonaID), pstrings.NullIfBlank(a.ProjectID), pstrings.NullIfBlank(a.PlatformID),
		a.Goal, a.RawIdea, string(a.Format), a.Approach, a.CurrentVersionID, a.CurrentText, a.TotalVersions, a.CreatedAt,
	)
	return perr.FromPostgresWithField(err, "create artifact")
}

const artifactSelect = `
select id::text, owner_id, coalesce(persona_id::text, ''), coalesce(project_id::text, ''),
coalesce(platform_id::text, ''), goal, raw_idea, format, approach,
coalesce(current_version_id::text, ''), current_text, total_versions, created_at, updated_at
from artifacts`

func scanArtifact(row store.Row) (domain.Artifact, error) {
	var (
		a domain.Artifact
		f string
	)
	err := row.Scan(&a.ID, &a.OwnerID, &a.PersonaID, &a.ProjectID, &a.PlatformID, &a.Goal, &a.RawIdea, &f,
		&a.Approach, &a.CurrentVersionID, &a.CurrentText, &a.TotalVersions, &a.CreatedAt, &a.UpdatedAt)
	a.Format = format.Format(f)
	return a, err
}

func (r *queries) GetArtifact(ctx context.Context, ownerID, id string, forUpdate bool) (domain.Artifact, error) {
	sql := artifactSelect + `
where id = $1::uuid and owner_id = $2
`
	if forUpdate {
		sql += "for update\n"
	}
	a, err := store.One(ctx, r.q, scanArtifact, sql, id, ownerID)
	if err != nil {
		return domain.Artifact{}, notFound(err, "artifact", id)
	}
	return a, nil
}

func (r *queries) ListArtifacts(ctx context.Context, ownerID string, limit int) ([]domain.Artifact, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	sql := artifactSelect + `
where owner_id = $1
order by created_at desc, id
limit $2
`
	out, err := store.Many(ctx, r.q, scanArtifact, sql, ownerID, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "list artifacts")
	}
	return out, nil
}

func (r *queries) UpdateArtifactPointer(ctx context.Context, artifactID, versionID, text string, total int, at time.Time) error {
	const sql = `
update artifacts
set current_version_id = $2::uuid, current_text = $3, total_versions = $4, updated_at = $5
where id = $1::uuid
`
	tag, err := r.q.Exec(ctx, sql, artifactID, versionID, text, total, at)
	if err != nil {
		return perr.FromPostgres(err, "update artifact pointer")
	}
	if tag.RowsAffected() != 1 {
		return perr.NotFoundf("artifact %s not found", artifactID)
	}
	return nil
}

func (r *queries) InsertVersion(ctx context.Context, v domain.Version) error {
	const sql = `
insert into artifact_versions (id, artifact_id, version_number, generated_text, iteration_prompt, is_selected,
prompt_tokens, completion_tokens, total_tokens, created_at)
values ($1::uuid, $2::uuid, $3, $4, $5, $6, $7, $8, $9, $10)
`
	err := store.ExecOne(ctx, r.q, sql,
		v.ID, v.ArtifactID, v.Number, v.Text, v.IterationPrompt, v.IsSelected,
		v.Usage.PromptTokens, v.Usage.CompletionTokens, v.Usage.TotalTokens, v.CreatedAt,
	)
	return perr.FromPostgresWithField(err, "insert version")
}

const versionCols = `
id::text, artifact_id::text, version_number, generated_text, iteration_prompt, is_selected,
prompt_tokens, completion_tokens, total_tokens, created_at
`

func scanVersion(row store.Row) (domain.Version, error) {
	var v domain.Version
	err := row.Scan(&v.ID, &v.ArtifactID, &v.Number, &v.Text, &v.IterationPrompt, &v.IsSelected,
		&v.Usage.PromptTokens, &v.Usage.CompletionTokens, &v.Usage.TotalTokens, &v.CreatedAt)
	return v, err
}

func (r *queries) ListVersions(ctx context.Context, artifactID string) ([]domain.Version, error) {
	sql := `select ` + versionCols + ` from artifact_versions where artifact_id = $1::uuid order by version_number`
	out, err := store.Many(ctx, r.q, scanVersion, sql, artifactID)
	if err != nil {
		return nil, perr.FromPostgres(err, "list versions")
	}
	return out, nil
}

func (r *queries) GetVersion(ctx context.Context, artifactID, versionID string) (domain.Version, error) {
	sql := `select ` + versionCols + ` from artifact_versions where id = $1::uuid and artifact_id = $2::uuid`
	v, err := store.One(ctx, r.q, scanVersion, sql, versionID, artifactID)
	if err != nil {
		return domain.Version{}, notFound(err, "version", versionID)
	}
	return v, nil
}

func (r *queries) SelectedVersion(ctx context.Context, artifactID string) (domain.Version, error) {
	sql := `select ` + versionCols + ` from artifact_versions where artifact_id = $1::uuid and is_selected`
	v, err := store.One(ctx, r.q, scanVersion, sql, artifactID)
	if err != nil {
		return domain.Version{}, notFound(err, "selected version of artifact", artifactID)
	}
	return v, nil
}

func (r *queries) MarkSelected(ctx context.Context, artifactID, versionID string) error {
	const deselect = `
update artifact_versions set is_selected = false
where artifact_id = $1::uuid and is_selected and id <> $2::uuid
`
	if _, err := r.q.Exec(ctx, deselect, artifactID, versionID); err != nil {
		return perr.FromPostgres(err, "deselect versions")
	}
	const sel = `update artifact_versions set is_selected = true where id = $1::uuid and artifact_id = $2::uuid`
	tag, err := r.q.Exec(ctx, sel, versionID, artifactID)
	if err != nil {
		return perr.FromPostgres(err, "select version")
	}
	if tag.RowsAffected() != 1 {
		return perr.NotFoundf("version %s not found", versionID)
	}
	return nil
}

func deref(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}
