package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"postcraft/internal/platform/config"
	"postcraft/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	CORSOrigins []string
	// MaxInFlight bounds concurrent requests; zero means unbounded
	MaxInFlight int
	// Backlog is how many requests may wait for a slot, and for how long
	Backlog     int
	BacklogWait time.Duration
	// SlowRequest logs requests at or over this at warn
	SlowRequest time.Duration
	// Timeout cancels the request context; generation calls run inside it
	Timeout time.Duration
}

// StackFromConfig reads CORS_ORIGINS, MAX_INFLIGHT, BACKLOG, BACKLOG_WAIT, SLOW_REQUEST and REQUEST_TIMEOUT
func StackFromConfig(c config.Conf) StackOptions {
	return StackOptions{
		CORSOrigins: c.MayCSV("CORS_ORIGINS", []string{"*"}),
		MaxInFlight: c.MayInt("MAX_INFLIGHT", 0),
		Backlog:     c.MayInt("BACKLOG", 64),
		BacklogWait: c.MayDuration("BACKLOG_WAIT", 30*time.Second),
		SlowRequest: c.MayDuration("SLOW_REQUEST", 10*time.Second),
		Timeout:     c.MayDuration("REQUEST_TIMEOUT", 2*time.Minute),
	}
}

// CommonStack is the middleware every /api/v1 route runs behind
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 2 * time.Minute
	}
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.AccessLog(middleware.AccessLogOptions{Slow: o.SlowRequest}),
		middleware.RecoverJSON,
		middleware.NoCache(),
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.CORSOrigins}),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Throttle(o.MaxInFlight, o.Backlog, o.BacklogWait),
		middleware.Timeout(o.Timeout),
	}
}

// Auth resolves the owner through p and rejects requests it cannot
func Auth(p middleware.AuthPort) func(http.Handler) http.Handler { return middleware.Auth(p) }
