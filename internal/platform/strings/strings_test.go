package strings

import "testing"

func TestIfEmpty(t *testing.T) {
	def := []string{"Authorization"}
	if got := IfEmpty(nil, def); len(got) != 1 || got[0] != "Authorization" {
		t.Fatalf("nil = %v", got)
	}
	if got := IfEmpty([]string{"X-Request-ID"}, def); got[0] != "X-Request-ID" {
		t.Fatalf("set = %v", got)
	}
}

func TestOr(t *testing.T) {
	cases := map[string]string{
		"":               "claude-default",
		"   ":            "claude-default",
		" gpt-4o-mini ":  "gpt-4o-mini",
		"gemini-2.0-pro": "gemini-2.0-pro",
	}
	for in, want := range cases {
		if got := Or(in, "claude-default"); got != want {
			t.Fatalf("Or(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNullIfBlank(t *testing.T) {
	if NullIfBlank(" \t") != nil {
		t.Fatalf("blank should be nil")
	}
	if got := NullIfBlank("6a1f"); got != "6a1f" {
		t.Fatalf("got %v", got)
	}
}
