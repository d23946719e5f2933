package store

import (
	"postcraft/internal/platform/logger"
)

// Option mutates Store during Open
type Option func(*Store) error

// WithLogger tags log with component=store and hands it to the backends
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log.With().Str("component", "store").Logger()
		return nil
	}
}
