package swaggerkit

import (
	"sort"
	"strings"
	"sync"
)

type route struct {
	method  string
	path    string
	secured bool
}

var (
	mu     sync.Mutex
	routes = map[string]route{}
)

// Record adds a mounted route to the served doc; mounting the same route twice keeps one entry
func Record(method, path string, secured bool) {
	mu.Lock()
	defer mu.Unlock()
	routes[method+" "+path] = route{method: strings.ToLower(method), path: path, secured: secured}
}

// Reset forgets every recorded route
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	routes = map[string]route{}
}

func recorded() []route {
	mu.Lock()
	list := make([]route, 0, len(routes))
	for _, r := range routes {
		list = append(list, r)
	}
	mu.Unlock()
	sort.Slice(list, func(i, j int) bool {
		if list[i].path != list[j].path {
			return list[i].path < list[j].path
		}
		return list[i].method < list[j].method
	})
	return list
}

// documentRoutes reconciles the doc with what is actually mounted
// routes without annotations get a stub operation; auth follows the mount, not the annotation
func documentRoutes(spec map[string]any) {
	paths := child(spec, "paths")
	for _, r := range recorded() {
		p := strings.TrimPrefix(r.path, APIBase)
		if p == "" {
			p = "/"
		}
		item := child(paths, p)
		op, ok := item[r.method].(map[string]any)
		if !ok {
			op = map[string]any{"tags": []any{tagOf(p)}, "responses": map[string]any{}}
			if params := pathParams(p); len(params) > 0 {
				op["parameters"] = params
			}
			item[r.method] = op
		}
		if r.secured {
			op["security"] = []any{map[string]any{bearerScheme: []any{}}}
		} else {
			delete(op, "security")
		}
	}

	schemes := child(child(spec, "components"), "securitySchemes")
	if _, ok := schemes[bearerScheme]; !ok {
		schemes[bearerScheme] = map[string]any{"type": "http", "scheme": "bearer"}
	}
}

// tagOf names the group of a path relative to the api base, e.g. /posts/{id} is Posts
func tagOf(path string) string {
	seg, _, _ := strings.Cut(strings.Trim(path, "/"), "/")
	if seg == "" {
		return "Root"
	}
	return strings.ToUpper(seg[:1]) + seg[1:]
}

func pathParams(path string) []any {
	var out []any
	for _, seg := range strings.Split(path, "/") {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			out = append(out, map[string]any{
				"name":     strings.Trim(seg, "{}"),
				"in":       "path",
				"required": true,
				"schema":   map[string]any{"type": "string"},
			})
		}
	}
	return out
}
