package testkit

import (
	"sync"
	"testing"
)

var seamMu sync.Mutex

// Swap points target at replacement until the test ends
func Swap[T any](t testing.TB, target *T, replacement T) {
	t.Helper()
	orig := *target
	*target = replacement
	t.Cleanup(func() { *target = orig })
}

// Serial holds a process wide lock for the rest of the test; use it around Swap on shared seams
func Serial(t testing.TB) {
	t.Helper()
	seamMu.Lock()
	t.Cleanup(seamMu.Unlock)
}
