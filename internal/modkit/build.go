package modkit

import (
	"net/http"

	"postcraft/internal/modkit/httpkit"
)

// Built is the result of applying options
type Built struct {
	Name     string
	Prefix   string
	Mw       []func(http.Handler) http.Handler
	Ports    any
	Register func(httpkit.Router)
}

// Build applies opts in order; later options win
func Build(opts ...Option) Built {
	var b Built
	for _, o := range opts {
		o(&b)
	}
	return b
}

// Mount mounts routes under Prefix behind Mw, followed by any WithRegister routes
// an empty Prefix mounts directly on r
func (b Built) Mount(r httpkit.Router, routes func(httpkit.Router)) {
	mount := func(rr httpkit.Router) {
		if len(b.Mw) > 0 {
			rr.Use(b.Mw...)
		}
		if routes != nil {
			routes(rr)
		}
		if b.Register != nil {
			b.Register(rr)
		}
	}
	if b.Prefix == "" {
		r.Group(mount)
		return
	}
	r.Route(b.Prefix, mount)
}
