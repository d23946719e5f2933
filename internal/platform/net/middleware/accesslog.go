package middleware

import (
	"context"
	"net/http"
	"time"

	"postcraft/internal/platform/logger"
	pnet "postcraft/internal/platform/net"
)

// AccessLogOptions configures AccessLog
type AccessLogOptions struct {
	// Slow logs requests at or over this duration at warn; zero disables
	Slow time.Duration
}

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// accessRecord lets Auth report the owner back to the access log wrapped around it
type accessRecord struct{ owner string }

type recordKey struct{}

func recordFrom(ctx context.Context) *accessRecord {
	rec, _ := ctx.Value(recordKey{}).(*accessRecord)
	return rec
}

// AccessLog writes one zerolog line per request tagged with request_id and, once Auth ran, owner_id
func AccessLog(opt AccessLogOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			rec := &accessRecord{}
			start := time.Now()

			next.ServeHTTP(sw, r.WithContext(context.WithValue(r.Context(), recordKey{}, rec)))

			elapsed := time.Since(start)
			log := logger.C(logger.WithRequest(r.Context(), pnet.RequestID(r.Context()), rec.owner))
			evt := log.Info()
			if sw.status >= http.StatusInternalServerError || (opt.Slow > 0 && elapsed >= opt.Slow) {
				evt = log.Warn()
			}
			evt.Int("status", sw.status).
				Dur("elapsed", elapsed).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("bytes", sw.bytes).
				Msg("request done")
		})
	}
}
