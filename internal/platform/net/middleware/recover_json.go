package middleware

import (
	"net/http"
	"runtime/debug"

	perr "postcraft/internal/platform/errors"
	"postcraft/internal/platform/logger"
	pnet "postcraft/internal/platform/net"
	phttp "postcraft/internal/platform/net/http"
)

// RecoverJSON turns a panic into a 500 envelope and logs the stack
// http.ErrAbortHandler is re-raised so the server can drop the connection
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			ctx := r.Context()
			logger.C(logger.WithRequest(ctx, pnet.RequestID(ctx), pnet.OwnerID(ctx))).Error().
				Interface("panic", v).
				Str("stack", string(debug.Stack())).
				Msg("panic recovered")
			phttp.WriteError(w, r, perr.PanicErrf("internal error"))
		}()
		next.ServeHTTP(w, r)
	})
}
