// Package http provides http transport for post generation and revision
package http

import (
	stdhttp "net/http"

	"postcraft/internal/modkit/httpkit"
	"postcraft/internal/services/posts/domain"
)

// defaultListLimit caps GET /posts when no limit is given
const defaultListLimit = 20

// Register mounts the posts endpoints; every route needs an authenticated owner
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.GenerateInput](r, "/generate", h.generate)
	httpkit.PostJSON[domain.VariantsInput](r, "/variants", h.variants)
	httpkit.Get(r, "/rate-limit", h.rateLimit)
	httpkit.Get(r, "/", h.list)
	httpkit.Get(r, "/{artifactID}", h.get)
	httpkit.PostJSON[domain.IterateInput](r, "/{artifactID}/iterate", h.iterate)
	httpkit.Get(r, "/{artifactID}/versions", h.versions)
	httpkit.Post(r, "/{artifactID}/versions/{versionID}/select", h.selectVersion)
}

type handlers struct{ svc domain.ServicePort }

// swagger:route POST /posts/generate Posts postsGenerate
// @Summary Generate the first version of a new post
// @Tags Posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body domain.GenerateInput true "Generate"
// @Success 201 {object} domain.GenerateResult "created"
// @Failure 400 {object} httpkit.Envelope "validation"
// @Failure 404 {object} httpkit.Envelope "context not found"
// @Failure 429 {object} httpkit.Envelope "quota exceeded"
// @Failure 502 {object} httpkit.Envelope "provider error"
// @Router /posts/generate [post]
func (h *handlers) generate(r *stdhttp.Request, in domain.GenerateInput) (any, error) {
	owner, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	in.OwnerID = owner
	out, err := h.svc.Generate(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(out), nil
}

// swagger:route POST /posts/variants Posts postsVariants
// @Summary Generate up to four stylistic variants in one batch
// @Tags Posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body domain.VariantsInput true "Variants"
// @Success 201 {array} domain.Variant "created"
// @Failure 429 {object} httpkit.Envelope "quota exceeded"
// @Router /posts/variants [post]
func (h *handlers) variants(r *stdhttp.Request, in domain.VariantsInput) (any, error) {
	owner, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	in.OwnerID = owner
	out, err := h.svc.GenerateVariants(r.Context(), in.GenerateInput, in.Count)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(out), nil
}

// swagger:route GET /posts Posts postsList
// @Summary Recent artifacts, newest first
// @Tags Posts
// @Produce json
// @Security BearerAuth
// @Param limit query int false "max items"
// @Success 200 {array} domain.ArtifactView "ok"
// @Router /posts [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	owner, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	limit, err := httpkit.QueryInt(r, "limit", defaultListLimit)
	if err != nil {
		return nil, err
	}
	return h.svc.ListArtifacts(r.Context(), owner, limit)
}

// swagger:route GET /posts/{artifactID} Posts postsGet
// @Summary One artifact with its current text
// @Tags Posts
// @Produce json
// @Security BearerAuth
// @Param artifactID path string true "artifact id"
// @Success 200 {object} domain.ArtifactView "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /posts/{artifactID} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	owner, id, err := ownerAndArtifact(r)
	if err != nil {
		return nil, err
	}
	return h.svc.GetArtifact(r.Context(), owner, id)
}

// swagger:route POST /posts/{artifactID}/iterate Posts postsIterate
// @Summary Revise the selected version into a new selected version
// @Tags Posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param artifactID path string true "artifact id"
// @Param payload body domain.IterateInput true "Iterate"
// @Success 201 {object} domain.IterateResult "created"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Failure 429 {object} httpkit.Envelope "quota exceeded"
// @Router /posts/{artifactID}/iterate [post]
func (h *handlers) iterate(r *stdhttp.Request, in domain.IterateInput) (any, error) {
	owner, id, err := ownerAndArtifact(r)
	if err != nil {
		return nil, err
	}
	in.OwnerID, in.ArtifactID = owner, id
	out, err := h.svc.Iterate(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(out), nil
}

// swagger:route GET /posts/{artifactID}/versions Posts postsVersions
// @Summary Version history ordered by version number
// @Tags Posts
// @Produce json
// @Security BearerAuth
// @Param artifactID path string true "artifact id"
// @Success 200 {array} domain.VersionSummary "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /posts/{artifactID}/versions [get]
func (h *handlers) versions(r *stdhttp.Request) (any, error) {
	owner, id, err := ownerAndArtifact(r)
	if err != nil {
		return nil, err
	}
	return h.svc.ListVersions(r.Context(), owner, id)
}

// swagger:route POST /posts/{artifactID}/versions/{versionID}/select Posts postsSelect
// @Summary Make an earlier version the current one
// @Tags Posts
// @Produce json
// @Security BearerAuth
// @Param artifactID path string true "artifact id"
// @Param versionID path string true "version id"
// @Success 200 {object} domain.VersionSummary "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /posts/{artifactID}/versions/{versionID}/select [post]
func (h *handlers) selectVersion(r *stdhttp.Request) (any, error) {
	owner, id, err := ownerAndArtifact(r)
	if err != nil {
		return nil, err
	}
	vid, err := httpkit.URLParam(r, "versionID")
	if err != nil {
		return nil, err
	}
	return h.svc.SelectVersion(r.Context(), owner, id, vid)
}

// swagger:route GET /posts/rate-limit Posts postsRateLimit
// @Summary Remaining provider quota in the current window
// @Tags Posts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ratelimit.Status "ok"
// @Router /posts/rate-limit [get]
func (h *handlers) rateLimit(r *stdhttp.Request) (any, error) {
	if _, err := httpkit.User(r); err != nil {
		return nil, err
	}
	return h.svc.RateLimitStatus(), nil
}

func ownerAndArtifact(r *stdhttp.Request) (string, string, error) {
	owner, err := httpkit.User(r)
	if err != nil {
		return "", "", err
	}
	id, err := httpkit.URLParam(r, "artifactID")
	if err != nil {
		return "", "", err
	}
	return owner, id, nil
}
