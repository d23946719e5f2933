package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"postcraft/internal/core/ratelimit"
	perr "postcraft/internal/platform/errors"
	pnet "postcraft/internal/platform/net"
	phttp "postcraft/internal/platform/net/http"
	"postcraft/internal/services/posts/domain"
)

type fakeSvc struct {
	gen     domain.GenerateInput
	count   int
	iter    domain.IterateInput
	sel     [3]string
	limit   int
	genErr  error
	iterErr error
}

func (f *fakeSvc) Generate(_ context.Context, in domain.GenerateInput) (domain.GenerateResult, error) {
	f.gen = in
	if f.genErr != nil {
		return domain.GenerateResult{}, f.genErr
	}
	return domain.GenerateResult{ArtifactID: "a1", VersionID: "v1", Format: "story", Text: "hello"}, nil
}

func (f *fakeSvc) GenerateVariants(_ context.Context, in domain.GenerateInput, count int) ([]domain.Variant, error) {
	f.gen, f.count = in, count
	return []domain.Variant{{Position: 1, ArtifactID: "a1"}, {Position: 2, ArtifactID: "a2"}}, nil
}

func (f *fakeSvc) Iterate(_ context.Context, in domain.IterateInput) (domain.IterateResult, error) {
	f.iter = in
	if f.iterErr != nil {
		return domain.IterateResult{}, f.iterErr
	}
	return domain.IterateResult{VersionID: "v2", VersionNumber: 2, Text: "shorter"}, nil
}

func (f *fakeSvc) ListVersions(_ context.Context, owner, artifactID string) ([]domain.VersionSummary, error) {
	if artifactID != "a1" {
		return nil, perr.NotFoundf("artifact not found")
	}
	return []domain.VersionSummary{{ID: "v1", VersionNumber: 1, IsSelected: true}}, nil
}

func (f *fakeSvc) SelectVersion(_ context.Context, owner, artifactID, versionID string) (domain.VersionSummary, error) {
	f.sel = [3]string{owner, artifactID, versionID}
	return domain.VersionSummary{ID: versionID, IsSelected: true}, nil
}

func (f *fakeSvc) GetArtifact(_ context.Context, owner, artifactID string) (domain.ArtifactView, error) {
	return domain.ArtifactView{ID: artifactID, CurrentText: "hello"}, nil
}

func (f *fakeSvc) ListArtifacts(_ context.Context, owner string, limit int) ([]domain.ArtifactView, error) {
	f.limit = limit
	return []domain.ArtifactView{}, nil
}

func (f *fakeSvc) RateLimitStatus() ratelimit.Status {
	return ratelimit.Status{RequestsRemaining: 3, TokensRemaining: 100, WindowResetInSeconds: 12}
}

// server mounts the handlers under /posts with an optional fixed owner on the context
func server(t *testing.T, svc domain.ServicePort, owner string) *httptest.Server {
	t.Helper()
	mux := chi.NewMux()
	r := phttp.AdaptChi(mux)
	r.Route("/posts", func(sub phttp.Router) {
		sub.Use(func(next stdhttp.Handler) stdhttp.Handler {
			return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, req *stdhttp.Request) {
				next.ServeHTTP(w, req.WithContext(pnet.WithOwner(req.Context(), owner)))
			})
		})
		Register(sub, svc)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type envelope struct {
	StatusCode int             `json:"status_code"`
	Code       perr.ErrorCode  `json:"code"`
	Error      string          `json:"error"`
	RetryAfter int             `json:"retry_after_seconds"`
	Data       json.RawMessage `json:"data"`
}

func do(t *testing.T, method, url, body string) (*stdhttp.Response, envelope) {
	t.Helper()
	req, err := stdhttp.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := stdhttp.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp, env
}

func TestGenerate_Created(t *testing.T) {
	svc := &fakeSvc{}
	srv := server(t, svc, "owner-1")

	resp, env := do(t, stdhttp.MethodPost, srv.URL+"/posts/generate", `{"raw_idea":"ship it","format":"story"}`)
	if resp.StatusCode != stdhttp.StatusCreated {
		t.Fatalf("status = %d (%s)", resp.StatusCode, env.Error)
	}
	var out domain.GenerateResult
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatal(err)
	}
	if out.ArtifactID != "a1" || out.Text != "hello" {
		t.Fatalf("out = %+v", out)
	}
	if svc.gen.OwnerID != "owner-1" || svc.gen.RawIdea != "ship it" {
		t.Fatalf("input = %+v", svc.gen)
	}
}

func TestGenerate_ValidationAndAuth(t *testing.T) {
	svc := &fakeSvc{}
	srv := server(t, svc, "owner-1")

	resp, _ := do(t, stdhttp.MethodPost, srv.URL+"/posts/generate", `{"goal":"x"}`)
	if resp.StatusCode != stdhttp.StatusBadRequest {
		t.Fatalf("missing raw_idea status = %d", resp.StatusCode)
	}
	resp, _ = do(t, stdhttp.MethodPost, srv.URL+"/posts/generate", `{"raw_idea":"x","format":"haiku"}`)
	if resp.StatusCode != stdhttp.StatusBadRequest {
		t.Fatalf("bad format status = %d", resp.StatusCode)
	}

	anon := server(t, svc, "")
	resp, _ = do(t, stdhttp.MethodPost, anon.URL+"/posts/generate", `{"raw_idea":"x"}`)
	if resp.StatusCode != stdhttp.StatusUnauthorized {
		t.Fatalf("anonymous status = %d", resp.StatusCode)
	}
}

func TestGenerate_QuotaSetsRetryAfter(t *testing.T) {
	svc := &fakeSvc{genErr: perr.QuotaExceeded(42, "rate limit exceeded")}
	srv := server(t, svc, "owner-1")

	resp, env := do(t, stdhttp.MethodPost, srv.URL+"/posts/generate", `{"raw_idea":"x"}`)
	if resp.StatusCode != stdhttp.StatusTooManyRequests {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Retry-After"); got != "42" {
		t.Fatalf("Retry-After = %q", got)
	}
	if env.RetryAfter != 42 || env.Code != perr.ErrorCodeTooManyRequests {
		t.Fatalf("env = %+v", env)
	}
}

func TestVariants_PassesCount(t *testing.T) {
	svc := &fakeSvc{}
	srv := server(t, svc, "owner-1")

	resp, env := do(t, stdhttp.MethodPost, srv.URL+"/posts/variants", `{"raw_idea":"x","count":3}`)
	if resp.StatusCode != stdhttp.StatusCreated {
		t.Fatalf("status = %d (%s)", resp.StatusCode, env.Error)
	}
	if svc.count != 3 || svc.gen.RawIdea != "x" || svc.gen.OwnerID != "owner-1" {
		t.Fatalf("count=%d gen=%+v", svc.count, svc.gen)
	}
	var out []domain.Variant
	if err := json.Unmarshal(env.Data, &out); err != nil || len(out) != 2 {
		t.Fatalf("out = %v %v", out, err)
	}
}

func TestIterate_UsesPathID(t *testing.T) {
	svc := &fakeSvc{}
	srv := server(t, svc, "owner-1")

	resp, _ := do(t, stdhttp.MethodPost, srv.URL+"/posts/a1/iterate", `{"type":"shorter","feedback":"keep numbers"}`)
	if resp.StatusCode != stdhttp.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if svc.iter.ArtifactID != "a1" || svc.iter.OwnerID != "owner-1" || svc.iter.Type != "shorter" {
		t.Fatalf("iter = %+v", svc.iter)
	}

	resp, _ = do(t, stdhttp.MethodPost, srv.URL+"/posts/a1/iterate", `{"feedback":"x"}`)
	if resp.StatusCode != stdhttp.StatusBadRequest {
		t.Fatalf("missing type status = %d", resp.StatusCode)
	}
}

func TestReadRoutes(t *testing.T) {
	svc := &fakeSvc{}
	srv := server(t, svc, "owner-1")

	resp, _ := do(t, stdhttp.MethodGet, srv.URL+"/posts/a1/versions", "")
	if resp.StatusCode != stdhttp.StatusOK {
		t.Fatalf("versions status = %d", resp.StatusCode)
	}
	resp, env := do(t, stdhttp.MethodGet, srv.URL+"/posts/nope/versions", "")
	if resp.StatusCode != stdhttp.StatusNotFound || env.Code != perr.ErrorCodeNotFound {
		t.Fatalf("missing versions status = %d code = %v", resp.StatusCode, env.Code)
	}

	resp, _ = do(t, stdhttp.MethodPost, srv.URL+"/posts/a1/versions/v9/select", "")
	if resp.StatusCode != stdhttp.StatusOK {
		t.Fatalf("select status = %d", resp.StatusCode)
	}
	if svc.sel != [3]string{"owner-1", "a1", "v9"} {
		t.Fatalf("select args = %v", svc.sel)
	}

	resp, env = do(t, stdhttp.MethodGet, srv.URL+"/posts/rate-limit", "")
	if resp.StatusCode != stdhttp.StatusOK {
		t.Fatalf("rate-limit status = %d", resp.StatusCode)
	}
	var st ratelimit.Status
	if err := json.Unmarshal(env.Data, &st); err != nil || st.RequestsRemaining != 3 {
		t.Fatalf("status = %+v %v", st, err)
	}

	resp, _ = do(t, stdhttp.MethodGet, srv.URL+"/posts/a1", "")
	if resp.StatusCode != stdhttp.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}

	resp, _ = do(t, stdhttp.MethodGet, srv.URL+"/posts/?limit=5", "")
	if resp.StatusCode != stdhttp.StatusOK || svc.limit != 5 {
		t.Fatalf("list status = %d limit = %d", resp.StatusCode, svc.limit)
	}
	resp, _ = do(t, stdhttp.MethodGet, srv.URL+"/posts/?limit=abc", "")
	if resp.StatusCode != stdhttp.StatusBadRequest {
		t.Fatalf("bad limit status = %d", resp.StatusCode)
	}
}
