package httpkit

import (
	"net/http"
	"path"
	"strings"

	"postcraft/internal/modkit/swaggerkit"
	"postcraft/internal/platform/net/middleware"
)

// docRouter records every route it mounts so the served api doc lists it
type docRouter struct {
	Router
	base    string
	secured bool
}

func (d docRouter) join(p string) string {
	j := path.Join(d.base, p)
	if j != "/" {
		j = strings.TrimSuffix(j, "/")
	}
	return j
}

func (d docRouter) Get(p string, h Handler) {
	swaggerkit.Record(http.MethodGet, d.join(p), d.secured)
	d.Router.Get(p, h)
}

func (d docRouter) Post(p string, h Handler) {
	swaggerkit.Record(http.MethodPost, d.join(p), d.secured)
	d.Router.Post(p, h)
}

func (d docRouter) Delete(p string, h Handler) {
	swaggerkit.Record(http.MethodDelete, d.join(p), d.secured)
	d.Router.Delete(p, h)
}

func (d docRouter) Group(fn func(Router)) {
	d.Router.Group(func(sub Router) { fn(docRouter{Router: sub, base: d.base, secured: d.secured}) })
}

func (d docRouter) Route(prefix string, fn func(Router)) {
	d.Router.Route(prefix, func(sub Router) { fn(docRouter{Router: sub, base: d.join(prefix), secured: d.secured}) })
}

// MountAPI mounts routes under /api/{version} behind mw
//
//	httpkit.MountAPI(r, "v1", httpkit.CommonStack(opts), func(api httpkit.Router) {
//		posts.MountRoutes(api)
//	})
func MountAPI(r Router, version string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	prefix := "/api/" + strings.Trim(version, "/")
	r.Route(prefix, func(api Router) {
		api.Use(mw...)
		mount(docRouter{Router: api, base: prefix})
	})
}

// MountAPIV1 is MountAPI for v1
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	MountAPI(r, "v1", mw, mount)
}

// Protected mounts fn's routes behind bearer auth; documented routes are marked as needing it
func Protected(r Router, p middleware.AuthPort, fn func(Router)) {
	r.Group(func(gr Router) {
		gr.Use(Auth(p))
		if d, ok := gr.(docRouter); ok {
			d.secured = true
			gr = d
		}
		fn(gr)
	})
}
