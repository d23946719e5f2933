// Package http provides http transport for the usage ledger
package http

import (
	stdhttp "net/http"
	"strings"
	"time"

	"postcraft/internal/modkit/httpkit"
	perr "postcraft/internal/platform/errors"
	"postcraft/internal/services/usage/service"
)

// Register mounts the usage endpoints
func Register(r httpkit.Router, s service.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/totals", h.totals)
}

type handlers struct{ svc service.Service }

// swagger:route GET /usage/totals Usage usageTotals
// @Summary Events and tokens per kind for the caller
// @Tags Usage
// @Produce json
// @Security BearerAuth
// @Param since query string false "RFC3339 lower bound"
// @Success 200 {array} domain.KindTotal "ok"
// @Failure 503 {object} httpkit.Envelope "ledger not configured"
// @Router /usage/totals [get]
func (h *handlers) totals(r *stdhttp.Request) (any, error) {
	owner, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	var since time.Time
	if raw := strings.TrimSpace(r.URL.Query().Get("since")); raw != "" {
		since, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, perr.WithField(perr.Validationf("since must be RFC3339"), "since")
		}
	}
	return h.svc.Totals(r.Context(), owner, since)
}
