package httpkit

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	perrs "postcraft/internal/platform/errors"
)

// URLParam returns the trimmed path parameter or a validation error when it is blank
func URLParam(r *http.Request, name string) (string, error) {
	v := strings.TrimSpace(chi.URLParam(r, name))
	if v == "" {
		return "", perrs.WithField(perrs.Validationf("missing path parameter %s", name), name)
	}
	return v, nil
}

// QueryInt reads an integer query parameter, def when absent
func QueryInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, perrs.WithField(perrs.Validationf("%s must be an integer", name), name)
	}
	return n, nil
}
