// Package llm is the provider-neutral completion seam shared by the vendor adapters
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

// Provider names
const (
	Anthropic = "anthropic"
	OpenAI    = "openai"
	Gemini    = "gemini"
)

// Request is one single-turn completion
type Request struct {
	System      string
	Prompt      string
	Model       string
	MaxTokens   int
	Temperature float64
}

// Response is the provider's text and token accounting
type Response struct {
	Text             string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Provider completes prompts against one vendor API
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (Response, error)
}

// Config is what every adapter needs to build its client
type Config struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
}

// ErrMissingCredential is returned by adapter constructors without an api key
var ErrMissingCredential = errors.New("llm: api key not configured")

// Kind classifies a provider failure
type Kind uint8

// Failure kinds
const (
	KindUnknown Kind = iota
	KindAuth
	KindUnavailable
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindUnavailable:
		return "unavailable"
	case KindUpstream:
		return "upstream"
	default:
		return "unknown"
	}
}

// Error is a classified provider failure
type Error struct {
	Provider string
	Kind     Kind
	Status   int
	Err      error
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s: %s (status %d): %v", e.Provider, e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOfStatus maps an HTTP status from a vendor API to a failure kind
// provider-side throttling counts as unavailable, not as our quota
func KindOfStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusTooManyRequests || status == http.StatusRequestTimeout || status >= 500:
		return KindUnavailable
	case status >= 400:
		return KindUpstream
	default:
		return KindUnknown
	}
}

// Classify wraps err as an *Error; status is the vendor HTTP status or zero when unknown
// transport failures and timeouts are unavailable, anything else without a status is unknown
func Classify(provider string, status int, err error) error {
	if err == nil {
		return nil
	}
	var already *Error
	if errors.As(err, &already) {
		return err
	}
	kind := KindOfStatus(status)
	if kind == KindUnknown {
		var netErr net.Error
		switch {
		case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr):
			kind = KindUnavailable
		case errors.Is(err, ErrMissingCredential):
			kind = KindAuth
		}
	}
	return &Error{Provider: provider, Kind: kind, Status: status, Err: err}
}

// KindOf returns the classification of err, KindUnknown when it is not an *Error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Normalize lowercases and trims a provider name
func Normalize(name string) string { return strings.ToLower(strings.TrimSpace(name)) }

// Names lists supported providers
func Names() []string { return []string{Anthropic, OpenAI, Gemini} }

// Usage fills TotalTokens when a vendor leaves it out
func (r Response) Usage() (prompt, completion, total int) {
	total = r.TotalTokens
	if total == 0 {
		total = r.PromptTokens + r.CompletionTokens
	}
	return r.PromptTokens, r.CompletionTokens, total
}
