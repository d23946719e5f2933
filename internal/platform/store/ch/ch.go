// Package ch provides a clickhouse client on clickhouse-go
package ch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"postcraft/internal/core/version"
)

// Config configures clickhouse client
type Config struct {
	URL  string
	Role string // service name reported to the server, e.g. postcraft-api

	DialTimeout time.Duration
}

// Rows is the minimal result set iteration for ch
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
	Columns() []string
}

// batch is the slice of driver.Batch the client uses
type batch interface {
	Append(v ...any) error
	Send() error
	Abort() error
}

// conn is the slice of driver.Conn the client uses
type conn interface {
	prepare(ctx context.Context, query string) (batch, error)
	Exec(ctx context.Context, query string, args ...any) error
	Query(ctx context.Context, query string, args ...any) (driver.Rows, error)
	Ping(ctx context.Context) error
	Close() error
}

type driverConn struct{ driver.Conn }

func (d driverConn) prepare(ctx context.Context, query string) (batch, error) {
	return d.PrepareBatch(ctx, query)
}

// CH is a clickhouse client
type CH struct {
	c conn
}

// clientInfo tags queries with the service name, build version and short commit
func clientInfo(role string) clickhouse.ClientInfo {
	bi := version.Info(strings.TrimSpace(role))
	commit := bi.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	if commit == "" {
		commit = "unknown"
	}
	return clickhouse.ClientInfo{Products: []struct{ Name, Version string }{
		{Name: bi.Service, Version: bi.Version},
		{Name: "commit", Version: commit},
	}}
}

// Open parses the DSN, opens a native connection and pings it
func Open(ctx context.Context, cfg Config) (*CH, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("ch: empty url")
	}
	opts, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("ch: parse dsn: %w", err)
	}
	opts.ClientInfo = clientInfo(cfg.Role)
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	c, err := clickhouse.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("ch: open: %w", err)
	}
	cl := &CH{c: driverConn{c}}
	if err := cl.Ping(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	return cl, nil
}

// Exec runs a statement that returns no rows, DDL included
func (c *CH) Exec(ctx context.Context, query string, args ...any) error {
	return c.c.Exec(ctx, query, args...)
}

// Insert appends rows to table in one batch
func (c *CH) Insert(ctx context.Context, table string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	b, err := c.c.prepare(ctx, "INSERT INTO "+table)
	if err != nil {
		return fmt.Errorf("ch: prepare %s: %w", table, err)
	}
	for i, row := range rows {
		if err := b.Append(row...); err != nil {
			_ = b.Abort()
			return fmt.Errorf("ch: append %s row %d: %w", table, i, err)
		}
	}
	if err := b.Send(); err != nil {
		return fmt.Errorf("ch: send %s: %w", table, err)
	}
	return nil
}

// Query runs a query and returns ch.Rows
func (c *CH) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := c.c.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Ping checks the server is reachable
func (c *CH) Ping(ctx context.Context) error {
	if err := c.c.Ping(ctx); err != nil {
		return fmt.Errorf("ch: ping: %w", err)
	}
	return nil
}

// Close closes resources
func (c *CH) Close() error { return c.c.Close() }
