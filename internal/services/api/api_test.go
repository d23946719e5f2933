package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"postcraft/internal/adapters/llm"
	"postcraft/internal/modkit"
	"postcraft/internal/modkit/httpkit"
	"postcraft/internal/modkit/module"
	"postcraft/internal/platform/config"
	phttp "postcraft/internal/platform/net/http"
	gatewaymod "postcraft/internal/services/gateway/module"
	"postcraft/internal/services/gateway/service"
	postsmod "postcraft/internal/services/posts/module"
	usagemod "postcraft/internal/services/usage/module"
)

type echoProvider struct{}

func (echoProvider) Name() string { return "echo" }
func (echoProvider) Complete(context.Context, llm.Request) (llm.Response, error) {
	return llm.Response{Text: "a post about the beta", TotalTokens: 7}, nil
}

func newServer(t *testing.T) (*httptest.Server, *API) {
	t.Helper()
	var factory service.Factory = func(context.Context) (llm.Provider, error) { return echoProvider{}, nil }

	mux := chi.NewMux()
	a := Mount(phttp.AdaptChi(mux), Options{
		Config:      config.New(),
		Auth:        httpkit.NewPortFunc(httpkit.StaticTokens(map[string]string{"tok-1": "owner-1", "tok-2": "owner-2"})),
		Gateway:     gatewaymod.Options{RequestsPerMinute: 10},
		GatewayOpts: []modkit.Option{modkit.WithPorts(factory)},
		Posts:       &postsmod.Options{Store: postsmod.StoreMemory, IncludeFallback: true},
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, a
}

func call(t *testing.T, method, url, token, body string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestMount_PublicAndProtected(t *testing.T) {
	srv, a := newServer(t)
	if err := a.Migrate(context.Background()); err != nil {
		t.Fatalf("memory migrate: %v", err)
	}
	if a.Usage.Enabled() {
		t.Fatalf("usage ledger should be disabled without clickhouse")
	}
	if _, ok := module.PortsAs[usagemod.Ports]("usage"); !ok {
		t.Fatalf("usage ports should be registered once mounted")
	}

	if code, _ := call(t, http.MethodGet, srv.URL+"/api/v1/meta/health", "", ""); code != http.StatusOK {
		t.Fatalf("health = %d", code)
	}
	if code, _ := call(t, http.MethodGet, srv.URL+"/api/v1/posts/rate-limit", "", ""); code != http.StatusUnauthorized {
		t.Fatalf("anonymous rate-limit = %d", code)
	}
	if code, _ := call(t, http.MethodGet, srv.URL+"/api/v1/posts/rate-limit", "nope", ""); code != http.StatusUnauthorized {
		t.Fatalf("bad token rate-limit = %d", code)
	}
	if code, _ := call(t, http.MethodGet, srv.URL+"/api/v1/posts/rate-limit", "tok-1", ""); code != http.StatusOK {
		t.Fatalf("rate-limit = %d", code)
	}
}

func TestMount_GenerateIterateSelect(t *testing.T) {
	srv, _ := newServer(t)
	base := srv.URL + "/api/v1/posts"

	code, env := call(t, http.MethodPost, base+"/generate", "tok-1", `{"raw_idea":"we shipped the beta today"}`)
	if code != http.StatusCreated {
		t.Fatalf("generate = %d %v", code, env)
	}
	data := env["data"].(map[string]any)
	artifactID := data["artifact_id"].(string)
	firstVersion := data["version_id"].(string)

	code, env = call(t, http.MethodPost, base+"/"+artifactID+"/iterate", "tok-1", `{"type":"shorter"}`)
	if code != http.StatusCreated {
		t.Fatalf("iterate = %d %v", code, env)
	}

	code, env = call(t, http.MethodGet, base+"/"+artifactID+"/versions", "tok-1", "")
	if code != http.StatusOK || len(env["data"].([]any)) != 2 {
		t.Fatalf("versions = %d %v", code, env)
	}

	code, env = call(t, http.MethodPost, base+"/"+artifactID+"/versions/"+firstVersion+"/select", "tok-1", "")
	if code != http.StatusOK {
		t.Fatalf("select = %d %v", code, env)
	}

	code, env = call(t, http.MethodGet, base+"/"+artifactID, "tok-1", "")
	if code != http.StatusOK || env["data"].(map[string]any)["current_version_id"] != firstVersion {
		t.Fatalf("get after select = %d %v", code, env)
	}

	// another owner cannot see the artifact
	code, _ = call(t, http.MethodGet, base+"/"+artifactID, "tok-2", "")
	if code != http.StatusNotFound {
		t.Fatalf("foreign get = %d", code)
	}
}

func TestMount_UsageWithoutLedger(t *testing.T) {
	srv, _ := newServer(t)
	code, _ := call(t, http.MethodGet, srv.URL+"/api/v1/usage/totals", "tok-1", "")
	if code != http.StatusServiceUnavailable {
		t.Fatalf("usage totals without clickhouse = %d", code)
	}
}
