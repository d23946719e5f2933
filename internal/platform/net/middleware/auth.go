package middleware

import (
	"net/http"

	"postcraft/internal/platform/logger"
	pnet "postcraft/internal/platform/net"
	phttp "postcraft/internal/platform/net/http"
)

// AuthPort resolves the owner behind a request
type AuthPort interface {
	Parse(r *http.Request) (ownerID string, err error)
}

// Auth answers with the error envelope when the port rejects the request
// otherwise the owner goes on the ctx for handlers and loggers; a nil port lets everything through
func Auth(p AuthPort) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			owner, err := p.Parse(r)
			if err != nil {
				phttp.WriteError(w, r, err)
				return
			}
			if rec := recordFrom(r.Context()); rec != nil {
				rec.owner = owner
			}
			rid := pnet.RequestID(r.Context())
			ctx := logger.WithRequest(pnet.WithOwner(r.Context(), owner), rid, owner)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
