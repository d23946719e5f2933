// Package service records generation usage and reports per owner totals
package service

import (
	"context"
	"strings"
	"time"

	perr "postcraft/internal/platform/errors"
	"postcraft/internal/platform/logger"
	postsdom "postcraft/internal/services/posts/domain"
	"postcraft/internal/services/usage/domain"
)

// DefaultWriteTimeout bounds one ledger write
const DefaultWriteTimeout = 5 * time.Second

// Service is the usage ledger contract
type Service interface {
	postsdom.UsageRecorderPort
	Totals(ctx context.Context, ownerID string, since time.Time) ([]domain.KindTotal, error)
}

// Options tunes the ledger writer
type Options struct {
	WriteTimeout time.Duration
	Now          func() time.Time
}

// Svc writes usage rows through a StorageRepo
type Svc struct {
	repo domain.StorageRepo
	opts Options
}

var _ Service = (*Svc)(nil)

// New builds the ledger service
func New(repo domain.StorageRepo, opts Options) *Svc {
	if repo == nil {
		panic("usage.Service requires a non nil StorageRepo")
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = DefaultWriteTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Svc{repo: repo, opts: opts}
}

// Record writes events best effort; failures are logged and never returned
// the write outlives a canceled request context
func (s *Svc) Record(ctx context.Context, events ...postsdom.UsageEvent) {
	if len(events) == 0 {
		return
	}
	at := s.opts.Now().UTC()
	rows := make([]domain.Row, 0, len(events))
	for _, e := range events {
		rows = append(rows, domain.Row{
			At:               at,
			OwnerID:          e.OwnerID,
			ArtifactID:       e.ArtifactID,
			VersionID:        e.VersionID,
			Kind:             e.Kind,
			Approach:         e.Approach,
			Format:           e.Format,
			PromptTokens:     e.Usage.PromptTokens,
			CompletionTokens: e.Usage.CompletionTokens,
			TotalTokens:      e.Usage.TotalTokens,
		})
	}

	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.WriteTimeout)
	defer cancel()
	if err := s.repo.Insert(wctx, rows); err != nil {
		logger.C(ctx).Warn().Err(err).Int("events", len(rows)).Msg("usage ledger write failed")
		return
	}
	logger.C(ctx).Debug().Int("events", len(rows)).Msg("usage recorded")
}

// Totals returns the owner's event counts and tokens per kind since the given time
func (s *Svc) Totals(ctx context.Context, ownerID string, since time.Time) ([]domain.KindTotal, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, perr.WithField(perr.Validationf("owner is required"), "owner_id")
	}
	out, err := s.repo.Totals(ctx, domain.TotalsQuery{OwnerID: ownerID, Since: since})
	if err != nil {
		return nil, perr.WithOp(perr.Wrap(err, perr.ErrorCodeUnavailable, "usage ledger query failed"), "usage.totals")
	}
	if out == nil {
		out = []domain.KindTotal{}
	}
	return out, nil
}

// Nop is the ledger used when ClickHouse is not configured
type Nop struct{}

var _ Service = Nop{}

// Record drops the events
func (Nop) Record(context.Context, ...postsdom.UsageEvent) {}

// Totals reports the ledger as unavailable
func (Nop) Totals(context.Context, string, time.Time) ([]domain.KindTotal, error) {
	return nil, perr.Unavailablef("usage ledger is not configured")
}
