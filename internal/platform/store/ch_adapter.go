package store

import (
	"context"
	"fmt"

	"postcraft/internal/platform/store/ch"
)

// chConn is what the ledger needs from *ch.CH
type chConn interface {
	Exec(ctx context.Context, sql string, args ...any) error
	Insert(ctx context.Context, table string, rows [][]any) error
	Query(ctx context.Context, sql string, args ...any) (ch.Rows, error)
	Ping(ctx context.Context) error
	Close() error
}

var (
	_ chConn     = (*ch.CH)(nil)
	_ Clickhouse = (*chLedger)(nil)
	_ Pinger     = (*chLedger)(nil)
)

// chLedger narrows a clickhouse connection to the Clickhouse seam
type chLedger struct{ conn chConn }

func newCHAdapter(c chConn) Clickhouse { return &chLedger{conn: c} }

func (l *chLedger) Exec(ctx context.Context, sql string, args ...any) error {
	return l.conn.Exec(ctx, sql, args...)
}

// Insert takes a batch as [][]any, one slice per row in column order
func (l *chLedger) Insert(ctx context.Context, table string, data any) error {
	batch, ok := data.([][]any)
	if !ok {
		return fmt.Errorf("clickhouse insert into %s: want [][]any, got %T", table, data)
	}
	return l.conn.Insert(ctx, table, batch)
}

func (l *chLedger) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	r, err := l.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return chRows{r}, nil
}

func (l *chLedger) Ping(ctx context.Context) error {
	if l == nil || l.conn == nil {
		return fmt.Errorf("clickhouse not connected")
	}
	return l.conn.Ping(ctx)
}

func (l *chLedger) Close() error { return l.conn.Close() }

// chRows drops the Close error so ch.Rows fits Rows
type chRows struct{ ch.Rows }

func (r chRows) Close() { _ = r.Rows.Close() }
