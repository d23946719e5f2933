// Package httpkit is the handler side toolkit modules mount their routes with
package httpkit

import (
	"crypto/subtle"
	"net/http"
	"strings"

	perrs "postcraft/internal/platform/errors"
)

// TokenFunc resolves a bearer token to the owner every record is scoped to
type TokenFunc func(token string) (ownerID string, err error)

// Port authenticates requests from their Authorization header; it satisfies middleware.AuthPort
type Port struct {
	resolve TokenFunc
}

func NewPortFunc(fn TokenFunc) *Port { return &Port{resolve: fn} }

// Parse accepts "Bearer <token>" with any scheme casing; every failure is unauthorized
func (p *Port) Parse(r *http.Request) (string, error) {
	scheme, token, _ := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	token = strings.TrimSpace(token)
	if !strings.EqualFold(scheme, "bearer") || token == "" {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	if p.resolve == nil {
		return "", perrs.Unauthorizedf("invalid bearer token")
	}
	owner, err := p.resolve(token)
	if err != nil || owner == "" {
		return "", perrs.Unauthorizedf("invalid bearer token")
	}
	return owner, nil
}

// StaticTokens resolves against a fixed token to owner map, e.g. CORE_API_TOKENS
// every entry is compared in constant time so a miss takes as long as a hit
func StaticTokens(tokens map[string]string) TokenFunc {
	type pair struct{ token, owner string }
	pairs := make([]pair, 0, len(tokens))
	for t, o := range tokens {
		if t != "" && o != "" {
			pairs = append(pairs, pair{t, o})
		}
	}
	return func(token string) (string, error) {
		owner := ""
		for _, p := range pairs {
			if subtle.ConstantTimeCompare([]byte(token), []byte(p.token)) == 1 {
				owner = p.owner
			}
		}
		if owner == "" {
			return "", perrs.Unauthorizedf("unknown token")
		}
		return owner, nil
	}
}
