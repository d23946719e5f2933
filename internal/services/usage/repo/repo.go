// Package repo stores usage rows in ClickHouse
package repo

import (
	"context"
	"fmt"
	"regexp"

	"postcraft/internal/platform/store"
	"postcraft/internal/services/usage/domain"
)

// DefaultTable is used when no table is configured
const DefaultTable = "generation_usage"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// CH implements domain.StorageRepo on the clickhouse seam
type CH struct {
	ch    store.Clickhouse
	table string
}

var _ domain.StorageRepo = (*CH)(nil)

// NewCH returns a repo writing to table; the name is interpolated so it must be a plain identifier
func NewCH(ch store.Clickhouse, table string) (*CH, error) {
	if ch == nil {
		return nil, fmt.Errorf("usage repo: nil clickhouse")
	}
	if table == "" {
		table = DefaultTable
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("usage repo: invalid table name %q", table)
	}
	return &CH{ch: ch, table: table}, nil
}

// Migrate creates the ledger table if missing
func (r *CH) Migrate(ctx context.Context) error {
	return r.ch.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS `+r.table+` (
			at                DateTime64(3, 'UTC'),
			owner_id          String,
			artifact_id       String,
			version_id        String,
			kind              LowCardinality(String),
			approach          LowCardinality(String),
			format            LowCardinality(String),
			prompt_tokens     UInt32,
			completion_tokens UInt32,
			total_tokens      UInt32
		)
		ENGINE = MergeTree
		PARTITION BY toYYYYMM(at)
		ORDER BY (owner_id, at)`)
}

// Insert appends rows in one batch
func (r *CH) Insert(ctx context.Context, rows []domain.Row) error {
	if len(rows) == 0 {
		return nil
	}
	data := make([][]any, 0, len(rows))
	for _, row := range rows {
		data = append(data, []any{
			row.At.UTC(),
			row.OwnerID,
			row.ArtifactID,
			row.VersionID,
			row.Kind,
			row.Approach,
			row.Format,
			u32(row.PromptTokens),
			u32(row.CompletionTokens),
			u32(row.TotalTokens),
		})
	}
	return r.ch.Insert(ctx, r.table, data)
}

// Totals groups an owner's events by kind
func (r *CH) Totals(ctx context.Context, q domain.TotalsQuery) ([]domain.KindTotal, error) {
	sql := `
		SELECT
			kind,
			toInt64(count())           AS events,
			toInt64(sum(total_tokens)) AS tokens
		FROM ` + r.table + `
		WHERE owner_id = ? AND at >= ?
		GROUP BY kind
		ORDER BY kind`
	rs, err := r.ch.Query(ctx, sql, q.OwnerID, q.Since.UTC())
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	var out []domain.KindTotal
	for rs.Next() {
		var kt domain.KindTotal
		if err := rs.Scan(&kt.Kind, &kt.Events, &kt.TotalTokens); err != nil {
			return nil, err
		}
		out = append(out, kt)
	}
	return out, rs.Err()
}

func u32(n int) uint32 {
	if n < 0 {
		return 0
	}
	return uint32(n)
}
