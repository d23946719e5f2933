// Package ratelimit holds the fixed-window quota shared by every provider call in the process
package ratelimit

import (
	"sync"
	"time"

	perr "postcraft/internal/platform/errors"
)

// Window is the length of one quota window
const Window = 60 * time.Second

// Defaults used when a limit is left at zero
const (
	DefaultRequestsPerMinute = 50
	DefaultTokensPerMinute   = 40000
)

// Limits are the per-window ceilings
type Limits struct {
	RequestsPerMinute int
	TokensPerMinute   int
}

// Status is a read-only snapshot of the current window
type Status struct {
	RequestsRemaining    int `json:"requests_remaining" example:"48"`
	TokensRemaining      int `json:"tokens_remaining" example:"38112"`
	WindowResetInSeconds int `json:"window_reset_in_seconds" example:"37"`
}

// Option mutates a Limiter during New
type Option func(*Limiter)

// WithClock swaps the time source, used by tests to step through windows
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

// Limiter guards the window counters behind a single mutex
// inflight counts reserved request slots whose provider call has not returned yet
type Limiter struct {
	mu          sync.Mutex
	limits      Limits
	now         func() time.Time
	windowStart time.Time
	requests    int
	tokens      int
	inflight    int
}

// New builds a Limiter; zero limits fall back to the defaults
func New(l Limits, opts ...Option) *Limiter {
	if l.RequestsPerMinute <= 0 {
		l.RequestsPerMinute = DefaultRequestsPerMinute
	}
	if l.TokensPerMinute <= 0 {
		l.TokensPerMinute = DefaultTokensPerMinute
	}
	lim := &Limiter{limits: l, now: time.Now}
	for _, o := range opts {
		o(lim)
	}
	lim.windowStart = lim.now()
	return lim
}

// Limits returns the configured ceilings
func (l *Limiter) Limits() Limits { return l.limits }

// Reservation is a held request slot; exactly one of Commit or Release must follow
type Reservation struct {
	l    *Limiter
	once sync.Once
}

// Reserve checks the window and holds one request slot
// it fails with a quota error, without waiting, when either ceiling is already met
func (l *Limiter) Reserve() (*Reservation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.rollLocked(now)

	if l.requests+l.inflight >= l.limits.RequestsPerMinute {
		return nil, perr.QuotaExceeded(l.retryAfterLocked(now),
			"request quota of %d per minute exhausted", l.limits.RequestsPerMinute)
	}
	if l.tokens >= l.limits.TokensPerMinute {
		return nil, perr.QuotaExceeded(l.retryAfterLocked(now),
			"token quota of %d per minute exhausted", l.limits.TokensPerMinute)
	}

	l.inflight++
	return &Reservation{l: l}, nil
}

// Commit turns the held slot into a counted request and adds its token usage
func (r *Reservation) Commit(tokens int) {
	if r == nil {
		return
	}
	r.once.Do(func() {
		l := r.l
		l.mu.Lock()
		defer l.mu.Unlock()
		l.rollLocked(l.now())
		l.inflight--
		l.requests++
		if tokens > 0 {
			l.tokens += tokens
		}
	})
}

// Release gives the slot back without counting it
func (r *Reservation) Release() {
	if r == nil {
		return
	}
	r.once.Do(func() {
		r.l.mu.Lock()
		r.l.inflight--
		r.l.mu.Unlock()
	})
}

// Status reports what is left in the current window, never negative
func (l *Limiter) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.rollLocked(now)
	return Status{
		RequestsRemaining:    clamp(l.limits.RequestsPerMinute - l.requests - l.inflight),
		TokensRemaining:      clamp(l.limits.TokensPerMinute - l.tokens),
		WindowResetInSeconds: clamp(l.retryAfterLocked(now)),
	}
}

// Reset starts a fresh window now
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.windowStart = l.now()
	l.requests, l.tokens = 0, 0
}

// rollLocked opens a new window once the current one has fully elapsed
func (l *Limiter) rollLocked(now time.Time) {
	if now.Sub(l.windowStart) >= Window {
		l.windowStart = now
		l.requests, l.tokens = 0, 0
	}
}

// retryAfterLocked is ceil((window - elapsed) / 1s) for the current window
func (l *Limiter) retryAfterLocked(now time.Time) int {
	left := Window - now.Sub(l.windowStart)
	if left <= 0 {
		return 0
	}
	return int((left + time.Second - 1) / time.Second)
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
