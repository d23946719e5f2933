package httpkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"postcraft/internal/modkit/swaggerkit"
	"postcraft/internal/platform/config"
	perrs "postcraft/internal/platform/errors"
	phttp "postcraft/internal/platform/net/http"
)

type ideaIn struct {
	RawIdea string `json:"raw_idea" validate:"required"`
}

func newAPI(t *testing.T) *chi.Mux {
	t.Helper()
	swaggerkit.Reset()
	t.Cleanup(swaggerkit.Reset)

	mux := chi.NewMux()
	auth := NewPortFunc(StaticTokens(map[string]string{"tok-1": "owner-1"}))
	MountAPIV1(phttp.AdaptChi(mux), CommonStack(StackOptions{}), func(api Router) {
		api.Route("/meta", func(r Router) {
			Get(r, "/health", func(*http.Request) (any, error) { return "ok", nil })
		})
		Protected(api, auth, func(sec Router) {
			sec.Route("/posts", func(r Router) {
				Get(r, "/", func(r *http.Request) (any, error) { return User(r) })
				PostJSON(r, "/generate", func(r *http.Request, in ideaIn) (any, error) {
					return Created(in.RawIdea), nil
				})
				Post(r, "/{artifactID}/select", func(r *http.Request) (any, error) { return URLParam(r, "artifactID") })
				Delete(r, "/{artifactID}", func(*http.Request) (any, error) { return NoContent(), nil })
			})
		})
	})
	return mux
}

func do(t *testing.T, mux http.Handler, method, path, token, body string) (int, Envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	var env Envelope
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec.Code, env
}

func TestMountAPIV1_PublicAndProtected(t *testing.T) {
	mux := newAPI(t)

	cases := []struct {
		method, path, token, body string
		status                    int
		data                      any
	}{
		{"GET", "/api/v1/meta/health", "", "", 200, "ok"},
		{"GET", "/api/v1/posts", "", "", 401, nil},
		{"GET", "/api/v1/posts", "nope", "", 401, nil},
		{"GET", "/api/v1/posts", "tok-1", "", 200, "owner-1"},
		{"GET", "/api/v1/posts/", "tok-1", "", 200, "owner-1"},
		{"POST", "/api/v1/posts/generate", "tok-1", `{"raw_idea":"beta"}`, 201, "beta"},
		{"POST", "/api/v1/posts/generate", "tok-1", `{}`, 400, nil},
		{"POST", "/api/v1/posts/a-1/select", "tok-1", "", 200, "a-1"},
		{"DELETE", "/api/v1/posts/a-1", "tok-1", "", 204, nil},
	}
	for _, tc := range cases {
		code, env := do(t, mux, tc.method, tc.path, tc.token, tc.body)
		if code != tc.status {
			t.Fatalf("%s %s = %d, want %d (%+v)", tc.method, tc.path, code, tc.status, env)
		}
		if tc.data != nil && env.Data != tc.data {
			t.Fatalf("%s %s data = %v, want %v", tc.method, tc.path, env.Data, tc.data)
		}
		if code >= 400 && env.Error == "" {
			t.Fatalf("%s %s error envelope missing message", tc.method, tc.path)
		}
	}
}

func TestMountAPIV1_RecordsDoc(t *testing.T) {
	newAPI(t)

	spec, err := swaggerkit.Doc()
	if err != nil {
		t.Fatal(err)
	}
	paths := spec["paths"].(map[string]any)
	for path, secured := range map[string]bool{
		"/meta/health":               false,
		"/posts":                     true,
		"/posts/generate":            true,
		"/posts/{artifactID}/select": true,
	} {
		item, ok := paths[path].(map[string]any)
		if !ok {
			t.Fatalf("%s not documented: %v", path, paths)
		}
		for _, op := range item {
			_, has := op.(map[string]any)["security"]
			if has != secured {
				t.Fatalf("%s secured = %v, want %v", path, has, secured)
			}
		}
	}
}

func TestUser_Anonymous(t *testing.T) {
	t.Parallel()

	_, err := User(httptest.NewRequest("GET", "/", nil))
	if perrs.CodeOf(err) != perrs.ErrorCodeUnauthorized {
		t.Fatalf("err = %v", err)
	}
}

func TestStackFromConfig(t *testing.T) {
	t.Setenv("PC_STACK_CORS_ORIGINS", "https://app.example.com")
	t.Setenv("PC_STACK_MAX_INFLIGHT", "8")
	t.Setenv("PC_STACK_REQUEST_TIMEOUT", "45s")

	o := StackFromConfig(config.New().Prefix("PC_STACK_"))
	if len(o.CORSOrigins) != 1 || o.MaxInFlight != 8 || o.Timeout != 45*time.Second || o.Backlog != 64 {
		t.Fatalf("options = %+v", o)
	}
	if n := len(CommonStack(o)); n == 0 {
		t.Fatalf("empty stack")
	}
}
