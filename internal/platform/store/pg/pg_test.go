package pg

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"postcraft/internal/platform/testkit"
)

func TestPoolConfig(t *testing.T) {
	t.Parallel()

	pc, err := poolConfig(Config{
		URL:      "postgres://u:p@db:5432/postcraft?sslmode=disable",
		AppName:  "postcraft-api",
		MaxConns: 6,
		MinConns: 2,
	})
	if err != nil {
		t.Fatalf("poolConfig: %v", err)
	}
	if pc.MaxConns != 6 || pc.MinConns != 2 {
		t.Fatalf("conns = %d/%d", pc.MinConns, pc.MaxConns)
	}
	if got := pc.ConnConfig.RuntimeParams["application_name"]; got != "postcraft-api" {
		t.Fatalf("application_name = %q", got)
	}

	// MinConns above MaxConns is ignored
	pc, err = poolConfig(Config{URL: "postgres://u:p@db:5432/postcraft", MaxConns: 2, MinConns: 5})
	if err != nil {
		t.Fatalf("poolConfig: %v", err)
	}
	if pc.MinConns == 5 {
		t.Fatalf("min conns should not exceed max")
	}

	if _, err := poolConfig(Config{URL: "://bad"}); err == nil {
		t.Fatalf("expected url error")
	}
}

func TestOpen_UsesSeamAndTune(t *testing.T) {
	testkit.Serial(t)

	var seen *pgxpool.Config
	testkit.Swap(t, &newPool, func(_ context.Context, pc *pgxpool.Config) (*pgxpool.Pool, error) {
		seen = pc
		return &pgxpool.Pool{}, nil
	})

	tuned := false
	p, err := Open(context.Background(), Config{URL: "postgres://u:p@db:5432/postcraft", SlowMs: 250}, nil,
		func(*pgxpool.Config) { tuned = true })
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !tuned || seen == nil {
		t.Fatalf("tune=%v seen=%v", tuned, seen != nil)
	}
	if p.SlowMs != 250 || p.Pool == nil {
		t.Fatalf("unexpected PG: %+v", p)
	}
}

func TestOpen_PoolError(t *testing.T) {
	testkit.Serial(t)

	boom := errors.New("boom")
	testkit.Swap(t, &newPool, func(context.Context, *pgxpool.Config) (*pgxpool.Pool, error) {
		return nil, boom
	})
	if _, err := Open(context.Background(), Config{URL: "postgres://u:p@db:5432/postcraft"}, nil, nil); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestClose_NilSafe(t *testing.T) {
	t.Parallel()

	var p *PG
	p.Close()
	(&PG{}).Close()
}
