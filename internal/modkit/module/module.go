// Package module is the contract between api mounting and the service modules
package module

import phttp "postcraft/internal/platform/net/http"

// Module mounts its routes and exposes the ports other modules consume
// it lives apart from modkit so a module can export its own Ports type without an import cycle
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
