package modkit

import (
	"net/http"

	"postcraft/internal/modkit/httpkit"
)

// Option adjusts how a module is built
type Option func(*Built)

// WithName names the module in logs and the port registry
func WithName(name string) Option {
	return func(b *Built) { b.Name = name }
}

// WithPrefix mounts the module's routes under prefix
func WithPrefix(prefix string) Option {
	return func(b *Built) { b.Prefix = prefix }
}

// WithMiddlewares runs mw, in order, in front of the module's routes
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Built) { b.Mw = append(b.Mw, mw...) }
}

// WithPorts injects the ports a module consumes; the concrete type belongs to that module
func WithPorts[T any](p T) Option {
	return func(b *Built) { b.Ports = p }
}

// WithRegister mounts extra routes next to the module's own
func WithRegister(fn func(httpkit.Router)) Option {
	return func(b *Built) { b.Register = fn }
}
