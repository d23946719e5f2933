package repo

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"postcraft/internal/core/selector"
	"postcraft/internal/modkit/repokit"
	perr "postcraft/internal/platform/errors"
	"postcraft/internal/platform/store"
	"postcraft/internal/services/posts/domain"
)

// ErrNoSQL is returned when something tries to run sql against the memory store
var ErrNoSQL = errors.New("memory store does not execute sql")

// Memory is an in process store for development and tests
// it is both the TxRunner and the Binder; a Tx holds the lock and rolls back to a snapshot on error
type Memory struct {
	mu sync.Mutex
	st memState
}

type memExample struct {
	OwnerID   string
	PersonaID string
	Example   selector.Example
}

type memState struct {
	personas  map[string]domain.Persona
	projects  map[string]domain.Project
	platforms map[string]domain.Platform
	examples  []memExample
	artifacts map[string]domain.Artifact
	versions  map[string][]domain.Version
}

var (
	_ repokit.TxRunner     = (*Memory)(nil)
	_ repokit.Binder[Repo] = (*Memory)(nil)
)

// NewMemory returns an empty store
func NewMemory() *Memory {
	return &Memory{st: memState{
		personas:  map[string]domain.Persona{},
		projects:  map[string]domain.Project{},
		platforms: map[string]domain.Platform{},
		artifacts: map[string]domain.Artifact{},
		versions:  map[string][]domain.Version{},
	}}
}

// AddPersona stores p
func (m *Memory) AddPersona(p domain.Persona) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.personas[p.ID] = p
}

// AddProject stores p
func (m *Memory) AddProject(p domain.Project) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.projects[p.ID] = p
}

// AddPlatform stores p
func (m *Memory) AddPlatform(p domain.Platform) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.platforms[p.ID] = p
}

// AddExample stores ex for the owner, optionally tied to a persona
func (m *Memory) AddExample(ownerID, personaID string, ex selector.Example) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.examples = append(m.st.examples, memExample{OwnerID: ownerID, PersonaID: personaID, Example: ex})
}

// Tx runs fn under the store lock; any error restores the state seen at entry
func (m *Memory) Tx(ctx context.Context, fn func(q repokit.Queryer) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := m.st.clone()
	if err := fn(memTx{}); err != nil {
		m.st = snap
		return err
	}
	return nil
}

// Exec implements store.RowQuerier and always fails
func (m *Memory) Exec(context.Context, string, ...any) (store.CommandTag, error) {
	return nil, ErrNoSQL
}

// Query implements store.RowQuerier and always fails
func (m *Memory) Query(context.Context, string, ...any) (store.Rows, error) { return nil, ErrNoSQL }

// QueryRow implements store.RowQuerier and always fails on Scan
func (m *Memory) QueryRow(context.Context, string, ...any) store.Row { return errRow{} }

// Bind returns a repo over the memory state; inside Tx the lock is already held
func (m *Memory) Bind(q repokit.Queryer) Repo {
	_, inTx := q.(memTx)
	return &memRepo{m: m, locked: inTx}
}

// memTx marks the queryer handed out by Tx
type memTx struct{}

func (memTx) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, ErrNoSQL }
func (memTx) Query(context.Context, string, ...any) (store.Rows, error)      { return nil, ErrNoSQL }
func (memTx) QueryRow(context.Context, string, ...any) store.Row             { return errRow{} }

type errRow struct{}

func (errRow) Scan(...any) error { return ErrNoSQL }

func (s memState) clone() memState {
	c := memState{
		personas:  make(map[string]domain.Persona, len(s.personas)),
		projects:  make(map[string]domain.Project, len(s.projects)),
		platforms: make(map[string]domain.Platform, len(s.platforms)),
		examples:  append([]memExample(nil), s.examples...),
		artifacts: make(map[string]domain.Artifact, len(s.artifacts)),
		versions:  make(map[string][]domain.Version, len(s.versions)),
	}
	for k, v := range s.personas {
		c.personas[k] = v
	}
	for k, v := range s.projects {
		c.projects[k] = v
	}
	for k, v := range s.platforms {
		c.platforms[k] = v
	}
	for k, v := range s.artifacts {
		c.artifacts[k] = v
	}
	for k, v := range s.versions {
		c.versions[k] = append([]domain.Version(nil), v...)
	}
	return c
}

type memRepo struct {
	m      *Memory
	locked bool
}

func (r *memRepo) with(fn func(st *memState) error) error {
	if !r.locked {
		r.m.mu.Lock()
		defer r.m.mu.Unlock()
	}
	return fn(&r.m.st)
}

func (r *memRepo) GetPersona(_ context.Context, ownerID, id string) (out domain.Persona, err error) {
	err = r.with(func(st *memState) error {
		p, ok := st.personas[id]
		if !ok || p.OwnerID != ownerID {
			return perr.NotFoundf("persona %s not found", id)
		}
		out = p
		return nil
	})
	return out, err
}

func (r *memRepo) GetProject(_ context.Context, ownerID, id string) (out domain.Project, err error) {
	err = r.with(func(st *memState) error {
		p, ok := st.projects[id]
		if !ok || p.OwnerID != ownerID {
			return perr.NotFoundf("project %s not found", id)
		}
		out = p
		return nil
	})
	return out, err
}

func (r *memRepo) GetPlatform(_ context.Context, ownerID, id string) (out domain.Platform, err error) {
	err = r.with(func(st *memState) error {
		p, ok := st.platforms[id]
		if !ok || p.OwnerID != ownerID {
			return perr.NotFoundf("platform %s not found", id)
		}
		out = p
		return nil
	})
	return out, err
}

func (r *memRepo) ListExamples(_ context.Context, ownerID, personaID string, limit int) (out []selector.Example, err error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	err = r.with(func(st *memState) error {
		// newest first, like the sql ordering
		for i := len(st.examples) - 1; i >= 0 && len(out) < limit; i-- {
			e := st.examples[i]
			if e.OwnerID != ownerID || (personaID != "" && e.PersonaID != personaID) {
				continue
			}
			out = append(out, e.Example)
		}
		return nil
	})
	return out, err
}

func (r *memRepo) CreateArtifact(_ context.Context, a domain.Artifact) error {
	return r.with(func(st *memState) error {
		if _, dup := st.artifacts[a.ID]; dup {
			return perr.DuplicateKeyf("artifact %s already exists", a.ID)
		}
		a.UpdatedAt = a.CreatedAt
		st.artifacts[a.ID] = a
		return nil
	})
}

func (r *memRepo) GetArtifact(_ context.Context, ownerID, id string, _ bool) (out domain.Artifact, err error) {
	err = r.with(func(st *memState) error {
		a, ok := st.artifacts[id]
		if !ok || a.OwnerID != ownerID {
			return perr.NotFoundf("artifact %s not found", id)
		}
		out = a
		return nil
	})
	return out, err
}

func (r *memRepo) ListArtifacts(_ context.Context, ownerID string, limit int) (out []domain.Artifact, err error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	err = r.with(func(st *memState) error {
		for _, a := range st.artifacts {
			if a.OwnerID == ownerID {
				out = append(out, a)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

func (r *memRepo) UpdateArtifactPointer(_ context.Context, artifactID, versionID, text string, total int, at time.Time) error {
	return r.with(func(st *memState) error {
		a, ok := st.artifacts[artifactID]
		if !ok {
			return perr.NotFoundf("artifact %s not found", artifactID)
		}
		a.CurrentVersionID, a.CurrentText, a.TotalVersions, a.UpdatedAt = versionID, text, total, at
		st.artifacts[artifactID] = a
		return nil
	})
}

func (r *memRepo) InsertVersion(_ context.Context, v domain.Version) error {
	return r.with(func(st *memState) error {
		if _, ok := st.artifacts[v.ArtifactID]; !ok {
			return perr.InvalidArgf("artifact %s does not exist", v.ArtifactID)
		}
		for _, x := range st.versions[v.ArtifactID] {
			if x.Number == v.Number || x.ID == v.ID {
				return perr.DuplicateKeyf("version %d of artifact %s already exists", v.Number, v.ArtifactID)
			}
			if x.IsSelected && v.IsSelected {
				return perr.DuplicateKeyf("artifact %s already has a selected version", v.ArtifactID)
			}
		}
		st.versions[v.ArtifactID] = append(st.versions[v.ArtifactID], v)
		sort.SliceStable(st.versions[v.ArtifactID], func(i, j int) bool {
			return st.versions[v.ArtifactID][i].Number < st.versions[v.ArtifactID][j].Number
		})
		return nil
	})
}

func (r *memRepo) ListVersions(_ context.Context, artifactID string) (out []domain.Version, err error) {
	err = r.with(func(st *memState) error {
		out = append([]domain.Version(nil), st.versions[artifactID]...)
		return nil
	})
	return out, err
}

func (r *memRepo) GetVersion(_ context.Context, artifactID, versionID string) (out domain.Version, err error) {
	err = r.with(func(st *memState) error {
		for _, v := range st.versions[artifactID] {
			if v.ID == versionID {
				out = v
				return nil
			}
		}
		return perr.NotFoundf("version %s not found", versionID)
	})
	return out, err
}

func (r *memRepo) SelectedVersion(_ context.Context, artifactID string) (out domain.Version, err error) {
	err = r.with(func(st *memState) error {
		for _, v := range st.versions[artifactID] {
			if v.IsSelected {
				out = v
				return nil
			}
		}
		return perr.NotFoundf("selected version of artifact %s not found", artifactID)
	})
	return out, err
}

func (r *memRepo) MarkSelected(_ context.Context, artifactID, versionID string) error {
	return r.with(func(st *memState) error {
		vs := st.versions[artifactID]
		found := false
		for i := range vs {
			if vs[i].ID == versionID {
				found = true
			}
		}
		if !found {
			return perr.NotFoundf("version %s not found", versionID)
		}
		for i := range vs {
			vs[i].IsSelected = vs[i].ID == versionID
		}
		return nil
	})
}
