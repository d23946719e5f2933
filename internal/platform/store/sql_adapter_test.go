package store

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"postcraft/internal/platform/store/pg"
)

type pgxRow struct{ n int }

func (r pgxRow) Scan(dest ...any) error {
	if r.n < 0 {
		return pgx.ErrNoRows
	}
	*(dest[0].(*int)) = r.n
	return nil
}

// pgxRows yields ints from one column named n
type pgxRows struct {
	vals   []int
	i      int
	closed bool
}

func (r *pgxRows) Close()                        { r.closed = true }
func (r *pgxRows) Err() error                    { return nil }
func (r *pgxRows) CommandTag() pgconn.CommandTag { return pgconn.NewCommandTag("SELECT") }
func (r *pgxRows) FieldDescriptions() []pgconn.FieldDescription {
	return []pgconn.FieldDescription{{Name: "n"}}
}
func (r *pgxRows) Next() bool {
	r.i++
	return r.i <= len(r.vals)
}
func (r *pgxRows) Scan(dest ...any) error {
	*(dest[0].(*int)) = r.vals[r.i-1]
	return nil
}
func (r *pgxRows) Values() ([]any, error) { return []any{r.vals[r.i-1]}, nil }
func (r *pgxRows) RawValues() [][]byte    { return nil }
func (r *pgxRows) Conn() *pgx.Conn        { return nil }

// fakeTx records what the adapter did with it; the embedded pgx.Tx is never called
type fakeTx struct {
	pgx.Tx
	execErr    error
	committed  bool
	rolledBack bool
	rollbackOK bool
}

func (f *fakeTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag("UPDATE 1"), f.execErr
}
func (f *fakeTx) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return &pgxRows{vals: []int{4, 5}}, nil
}
func (f *fakeTx) QueryRow(context.Context, string, ...any) pgx.Row { return pgxRow{n: 9} }
func (f *fakeTx) Commit(context.Context) error                     { f.committed = true; return nil }
func (f *fakeTx) Rollback(ctx context.Context) error {
	f.rolledBack = true
	f.rollbackOK = ctx.Err() == nil
	return nil
}

type fakePool struct {
	*fakeTx
	beginErr error
	row      pgxRow
}

func (p *fakePool) Begin(context.Context) (pgx.Tx, error) {
	if p.beginErr != nil {
		return nil, p.beginErr
	}
	return p.fakeTx, nil
}
func (p *fakePool) QueryRow(context.Context, string, ...any) pgx.Row { return p.row }

type recordingTracer struct{ events []pg.QueryEvent }

func (r *recordingTracer) OnQuery(_ context.Context, ev pg.QueryEvent) {
	r.events = append(r.events, ev)
}

func adapterOver(p *fakePool, tr pg.QueryTracer) *pgAdapter {
	return &pgAdapter{traced: traced{db: p, tracer: tr, slowUS: 0}, pool: p}
}

func TestPGAdapter_TracesEveryStatement(t *testing.T) {
	tr := &recordingTracer{}
	a := adapterOver(&fakePool{fakeTx: &fakeTx{}, row: pgxRow{n: 1}}, tr)
	ctx := context.Background()

	tag, err := a.Exec(ctx, "update t set x = $1", 1)
	if err != nil || tag.RowsAffected() != 1 {
		t.Fatalf("exec = %v %v", tag, err)
	}
	rs, err := a.Query(ctx, "select n from t")
	if err != nil {
		t.Fatal(err)
	}
	var got []int
	for rs.Next() {
		var n int
		_ = rs.Scan(&n)
		got = append(got, n)
	}
	rs.Close()
	if len(got) != 2 || rs.Columns()[0] != "n" {
		t.Fatalf("rows = %v cols = %v", got, rs.Columns())
	}
	if err := a.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	if len(tr.events) != 3 {
		t.Fatalf("events = %d", len(tr.events))
	}
	// slowUS 0 marks everything slow
	if !tr.events[0].Slow || tr.events[0].SQL != "update t set x = $1" {
		t.Fatalf("first event = %+v", tr.events[0])
	}
}

func TestPGAdapter_QueryRowTracesScanError(t *testing.T) {
	tr := &recordingTracer{}
	a := adapterOver(&fakePool{fakeTx: &fakeTx{}, row: pgxRow{n: -1}}, tr)

	var n int
	err := a.QueryRow(context.Background(), "select 1").Scan(&n)
	if !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("scan err = %v", err)
	}
	if len(tr.events) != 1 || !errors.Is(tr.events[0].Err, pgx.ErrNoRows) {
		t.Fatalf("events = %+v", tr.events)
	}
}

func TestPGAdapter_TxCommitsAndRollsBack(t *testing.T) {
	tx := &fakeTx{}
	a := adapterOver(&fakePool{fakeTx: tx}, nil)

	err := a.Tx(context.Background(), func(q RowQuerier) error {
		var n int
		if err := q.QueryRow(context.Background(), "select 9").Scan(&n); err != nil || n != 9 {
			t.Fatalf("tx queryrow = %d %v", n, err)
		}
		return ExecOne(context.Background(), q, "update")
	})
	if err != nil || !tx.committed || tx.rolledBack {
		t.Fatalf("commit path: err=%v committed=%v rolledBack=%v", err, tx.committed, tx.rolledBack)
	}

	tx = &fakeTx{}
	a = adapterOver(&fakePool{fakeTx: tx}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	boom := errors.New("boom")
	err = a.Tx(ctx, func(RowQuerier) error {
		cancel()
		return boom
	})
	if !errors.Is(err, boom) || tx.committed || !tx.rolledBack || !tx.rollbackOK {
		t.Fatalf("rollback path: err=%v committed=%v rolledBack=%v live ctx=%v", err, tx.committed, tx.rolledBack, tx.rollbackOK)
	}
}

func TestPGAdapter_BeginError(t *testing.T) {
	boom := errors.New("no conns")
	a := adapterOver(&fakePool{fakeTx: &fakeTx{}, beginErr: boom}, nil)
	called := false
	err := a.Tx(context.Background(), func(RowQuerier) error { called = true; return nil })
	if !errors.Is(err, boom) || called {
		t.Fatalf("begin error = %v called=%v", err, called)
	}
}

func TestPGAdapter_NilPing(t *testing.T) {
	var a *pgAdapter
	if err := a.Ping(context.Background()); err == nil {
		t.Fatalf("nil adapter pinged")
	}
}
