// Package domain holds the usage ledger types and ports
package domain

import (
	"context"
	"time"
)

// Row is one ledger line as stored
type Row struct {
	At               time.Time
	OwnerID          string
	ArtifactID       string
	VersionID        string
	Kind             string
	Approach         string
	Format           string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// KindTotal aggregates one event kind for an owner
type KindTotal struct {
	Kind        string `json:"kind" example:"generate"`
	Events      int64  `json:"events" example:"12"`
	TotalTokens int64  `json:"total_tokens" example:"8210"`
}

// TotalsQuery scopes a totals lookup; zero Since means all time
type TotalsQuery struct {
	OwnerID string
	Since   time.Time
}

// StorageRepo is the columnar store seam
type StorageRepo interface {
	Migrate(ctx context.Context) error
	Insert(ctx context.Context, rows []Row) error
	Totals(ctx context.Context, q TotalsQuery) ([]KindTotal, error)
}
