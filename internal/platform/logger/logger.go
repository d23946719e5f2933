// Package logger owns the process zerolog logger and the request fields it carries
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"

	"postcraft/internal/platform/config/raw"
)

// Logger is the logging type every package takes
type Logger = zerolog.Logger

// Options configures the root logger
type Options struct {
	Level      string
	Format     string // console or json
	Service    string
	WithCaller bool
	Writer     io.Writer
}

// FromEnv reads LOG_LEVEL, LOG_FORMAT, LOG_SERVICE and LOG_CALLER
// it uses the raw env view because config logs through this package
func FromEnv() Options {
	rc := raw.New().Prefix("LOG_")
	return Options{
		Level:      rc.Get("LEVEL", "info"),
		Format:     strings.ToLower(rc.Get("FORMAT", "console")),
		Service:    rc.Get("SERVICE", "postcraft"),
		WithCaller: rc.GetBool("CALLER", false),
	}
}

var (
	initOnce sync.Once
	root     atomic.Pointer[Logger]
)

// Get returns the root logger, configuring it from the environment on first use
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	Init(FromEnv())
	return root.Load()
}

// Init builds the root logger once; later calls are ignored
func Init(opt Options) {
	initOnce.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano
		l := New(opt)
		root.CompareAndSwap(nil, &l)
	})
}

// New builds a logger from opt without touching the root
func New(opt Options) Logger {
	var w io.Writer = os.Stdout
	if opt.Writer != nil {
		w = opt.Writer
	}
	if opt.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	c := zerolog.New(w).Level(parseLevel(opt.Level)).With().Timestamp()
	if opt.Service != "" {
		c = c.Str("service", opt.Service)
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		c = c.Str("go_version", bi.GoVersion)
	}
	if opt.WithCaller {
		c = c.Caller()
	}
	return c.Logger()
}

// Set replaces the root logger; tests use it to capture output
func Set(l Logger) {
	root.Store(&l)
}

func parseLevel(s string) zerolog.Level {
	if s = strings.ToLower(strings.TrimSpace(s)); s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

type ctxKey uint8

const (
	keyRequestID ctxKey = iota
	keyOwnerID
	keyOp
)

var ctxFields = [...]struct {
	key   ctxKey
	field string
}{
	{keyRequestID, "request_id"},
	{keyOwnerID, "owner_id"},
	{keyOp, "op"},
}

// WithRequest stores the request id and owner for every logger derived from ctx
func WithRequest(ctx context.Context, reqID, ownerID string) context.Context {
	if reqID != "" {
		ctx = context.WithValue(ctx, keyRequestID, reqID)
	}
	if ownerID != "" {
		ctx = context.WithValue(ctx, keyOwnerID, ownerID)
	}
	return ctx
}

// WithOp tags ctx with the generation operation in flight (generate, iterate, variants)
func WithOp(ctx context.Context, op string) context.Context {
	if op == "" {
		return ctx
	}
	return context.WithValue(ctx, keyOp, op)
}

// C returns the root logger with the ctx fields attached
func C(ctx context.Context) *Logger {
	l := Enrich(ctx, *Get())
	return &l
}

// Enrich copies the ctx fields onto l
func Enrich(ctx context.Context, l Logger) Logger {
	b := l.With()
	for _, f := range ctxFields {
		if s, ok := ctx.Value(f.key).(string); ok && s != "" {
			b = b.Str(f.field, s)
		}
	}
	return b.Logger()
}

// Named returns the root logger with a component field
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}
