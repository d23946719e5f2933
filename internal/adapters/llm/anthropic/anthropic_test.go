package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"postcraft/internal/adapters/llm"
)

func TestNew_RequiresKey(t *testing.T) {
	if _, err := New(llm.Config{APIKey: "  "}); !errors.Is(err, llm.ErrMissingCredential) {
		t.Fatalf("err = %v", err)
	}
	p, err := New(llm.Config{APIKey: "k"})
	if err != nil {
		t.Fatal(err)
	}
	if p.Name() != llm.Anthropic || p.model != DefaultModel {
		t.Fatalf("got %s %s", p.Name(), p.model)
	}
}

func TestComplete(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %s", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-test",
			"content": [{"type": "text", "text": "Hello "}, {"type": "text", "text": "there"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 12, "output_tokens": 7}
		}`)
	}))
	defer srv.Close()

	p, err := New(llm.Config{APIKey: "k", BaseURL: srv.URL, Model: "claude-test"})
	if err != nil {
		t.Fatal(err)
	}
	resp, err := p.Complete(context.Background(), llm.Request{
		System:      "be brief",
		Prompt:      "write",
		MaxTokens:   256,
		Temperature: 0.5,
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Text != "Hello there" || resp.PromptTokens != 12 || resp.CompletionTokens != 7 || resp.TotalTokens != 19 {
		t.Fatalf("resp = %+v", resp)
	}
	if body["model"] != "claude-test" || body["max_tokens"] != float64(256) {
		t.Fatalf("body = %v", body)
	}
	if _, ok := body["system"]; !ok {
		t.Fatalf("system prompt not sent")
	}
}

func TestComplete_ClassifiesStatus(t *testing.T) {
	for status, want := range map[int]llm.Kind{
		http.StatusUnauthorized:       llm.KindAuth,
		http.StatusTooManyRequests:    llm.KindUnavailable,
		http.StatusServiceUnavailable: llm.KindUnavailable,
		http.StatusBadRequest:         llm.KindUpstream,
	} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = io.WriteString(w, `{"type":"error","error":{"type":"api_error","message":"nope"}}`)
		}))
		p, _ := New(llm.Config{APIKey: "k", BaseURL: srv.URL})
		_, err := p.Complete(context.Background(), llm.Request{Prompt: "x", MaxTokens: 10})
		srv.Close()
		if got := llm.KindOf(err); got != want {
			t.Fatalf("status %d: kind = %s want %s (%v)", status, got, want, err)
		}
	}
}
