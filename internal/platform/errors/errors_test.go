package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestErrorCode_StatusAndName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code   ErrorCode
		name   string
		status int
	}{
		{ErrorCodeNotFound, "not_found", http.StatusNotFound},
		{ErrorCodeValidation, "validation", http.StatusBadRequest},
		{ErrorCodeUnsupported, "unsupported", http.StatusUnprocessableEntity},
		{ErrorCodeTooManyRequests, "quota_exceeded", http.StatusTooManyRequests},
		{ErrorCodeProviderUnavailable, "provider_unavailable", http.StatusServiceUnavailable},
		{ErrorCodeEmptyCompletion, "empty_completion", http.StatusBadGateway},
		{ErrorCodeProviderConfig, "provider_config", http.StatusInternalServerError},
		{ErrorCode(999), "unknown", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if tc.code.String() != tc.name || tc.code.Status() != tc.status {
			t.Fatalf("%d = %s/%d, want %s/%d", tc.code, tc.code, tc.code.Status(), tc.name, tc.status)
		}
	}
	for c := range codes {
		if c.String() == "" || c.Status() < 400 {
			t.Fatalf("code %d lacks a name or an error status", c)
		}
	}
}

func TestWrapAndChain(t *testing.T) {
	t.Parallel()

	cause := stderrs.New("connection reset")
	err := fmt.Errorf("iterate: %w", Wrapf(cause, ErrorCodeProviderUnavailable, "provider %s unreachable", "anthropic"))

	if got := err.Error(); got != "iterate: provider anthropic unreachable: connection reset" {
		t.Fatalf("text = %q", got)
	}
	if !stderrs.Is(err, cause) || Root(err) != cause {
		t.Fatalf("cause lost")
	}
	if !IsCode(err, ErrorCodeProviderUnavailable) || HTTPStatus(err) != http.StatusServiceUnavailable {
		t.Fatalf("code = %v", CodeOf(err))
	}
	if CodeOf(cause) != ErrorCodeUnknown || CodeOf(nil) != ErrorCodeUnknown {
		t.Fatalf("foreign errors are unknown")
	}
}

func TestWithHelpersCopy(t *testing.T) {
	t.Parallel()

	base := Validationf("raw_idea is required")
	tagged := WithOp(WithField(base, "raw_idea"), "posts.generate")

	e, _ := As(tagged)
	if e.Field() != "raw_idea" || e.Op() != "posts.generate" {
		t.Fatalf("tagged = %+v", e)
	}
	if orig, _ := As(base); orig.Field() != "" || orig.Op() != "" {
		t.Fatalf("base mutated: %+v", orig)
	}

	foreign := stderrs.New("plain")
	if WithField(foreign, "x") != foreign {
		t.Fatalf("foreign errors pass through")
	}
}

func TestWireFrom(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want Wire
	}{
		{"nil", nil, Wire{}},
		{"foreign", stderrs.New("boom"), Wire{Code: ErrorCodeUnknown, Message: "boom"}},
		{
			"quota",
			QuotaExceeded(42, "request quota exhausted"),
			Wire{Code: ErrorCodeTooManyRequests, Message: "request quota exhausted", RetryAfter: 42},
		},
		{
			"unsupported",
			Unsupportedf([]string{"linkedin"}, "platform %q is not supported", "tiktok"),
			Wire{Code: ErrorCodeUnsupported, Message: `platform "tiktok" is not supported`, Details: []string{"linkedin"}},
		},
		{
			"cause hidden",
			WithField(Wrap(stderrs.New("pq: secret"), ErrorCodeDB, "save version"), "text"),
			Wire{Code: ErrorCodeDB, Message: "save version", Field: "text"},
		},
	}
	for _, tc := range cases {
		if diff := cmp.Diff(tc.want, WireFrom(tc.err)); diff != "" {
			t.Fatalf("%s (-want +got):\n%s", tc.name, diff)
		}
	}
	if RetryAfterOf(QuotaExceeded(7, "x")) != 7 || RetryAfterOf(stderrs.New("x")) != 0 {
		t.Fatalf("RetryAfterOf")
	}
}

func TestRetryable(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		err  error
		want bool
	}{
		"nil":            {nil, false},
		"quota":          {QuotaExceeded(1, "full"), true},
		"provider down":  {New(ErrorCodeProviderUnavailable, "overloaded"), true},
		"empty":          {New(ErrorCodeEmptyCompletion, "no text"), true},
		"credential":     {New(ErrorCodeProviderConfig, "bad key"), false},
		"validation":     {Validationf("bad"), false},
		"commit text":    {stderrs.New("commit unexpectedly resulted in rollback"), true},
		"context cancel": {fmt.Errorf("tx: %w", context.Canceled), false},
	}
	for name, tc := range cases {
		if got := Retryable(tc.err); got != tc.want {
			t.Fatalf("%s: Retryable = %v", name, got)
		}
	}
}
