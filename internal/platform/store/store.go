// Package store opens the optional postgres and clickhouse backends behind small seams
package store

import (
	"context"
	"errors"
	"fmt"

	"postcraft/internal/platform/logger"
)

// Store holds whichever backends Config enabled; disabled ones stay nil
type Store struct {
	Log logger.Logger
	PG  TxRunner
	CH  Clickhouse
}

// Open connects every enabled backend; on failure nothing stays open
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}

	if cfg.PG.Enabled {
		db, err := openPG(ctx, cfg, s)
		if err != nil {
			return nil, err
		}
		s.PG = db
	}
	if cfg.CH.Enabled {
		ledger, err := openCH(ctx, cfg, s)
		if err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		s.CH = ledger
	}
	return s, nil
}

// Guard pings each open backend and reports every failure
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("store not opened")
	}
	checks := []struct {
		name    string
		backend any
	}{{"pg", s.PG}, {"ch", s.CH}}

	var errs []error
	for _, c := range checks {
		p, ok := c.backend.(Pinger)
		if !ok {
			continue
		}
		if err := p.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
		}
	}
	return errors.Join(errs...)
}

// Close releases the open backends, clickhouse first
func (s *Store) Close(context.Context) error {
	var errs []error
	if s.CH != nil {
		errs = append(errs, s.CH.Close())
	}
	if c, ok := s.PG.(interface{ Close() error }); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
