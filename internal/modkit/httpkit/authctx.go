package httpkit

import (
	"net/http"

	perrs "postcraft/internal/platform/errors"
	pnet "postcraft/internal/platform/net"
)

// User returns the owner Auth put on the request, unauthorized when there is none
func User(r *http.Request) (string, error) {
	if owner := pnet.OwnerID(r.Context()); owner != "" {
		return owner, nil
	}
	return "", perrs.Unauthorizedf("missing bearer token")
}
