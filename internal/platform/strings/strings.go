// Package strings holds the few string helpers shared across layers
package strings

import std "strings"

// IfEmpty returns def when in has no elements
func IfEmpty[T any](in, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// Or returns s trimmed, or def when s is blank
func Or(s, def string) string {
	if s = std.TrimSpace(s); s == "" {
		return def
	}
	return s
}

// NullIfBlank maps blank strings to a nil query arg so optional columns store NULL
func NullIfBlank(s string) any {
	if std.TrimSpace(s) == "" {
		return nil
	}
	return s
}
