package store

import (
	"context"
	"errors"
	"testing"

	"postcraft/internal/platform/store/ch"
)

type fakeCHRows struct{ n int }

func (r *fakeCHRows) Next() bool { r.n++; return r.n == 1 }
func (r *fakeCHRows) Scan(dest ...any) error {
	*(dest[0].(*int32)) = 1
	return nil
}
func (r *fakeCHRows) Err() error        { return nil }
func (r *fakeCHRows) Close() error      { return nil }
func (r *fakeCHRows) Columns() []string { return []string{"one"} }

type fakeCH struct {
	table   string
	rows    [][]any
	pingErr error
	closed  bool
}

func (f *fakeCH) Exec(context.Context, string, ...any) error { return nil }

func (f *fakeCH) Insert(_ context.Context, table string, rows [][]any) error {
	f.table, f.rows = table, rows
	return nil
}

func (f *fakeCH) Query(context.Context, string, ...any) (ch.Rows, error) {
	return &fakeCHRows{}, nil
}

func (f *fakeCH) Ping(context.Context) error { return f.pingErr }
func (f *fakeCH) Close() error               { f.closed = true; return nil }

func TestCHAdapter_Insert(t *testing.T) {
	t.Parallel()

	f := &fakeCH{}
	a := newCHAdapter(f)
	if err := a.Insert(context.Background(), "usage", [][]any{{1, "x"}}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if f.table != "usage" || len(f.rows) != 1 {
		t.Fatalf("got table=%q rows=%v", f.table, f.rows)
	}
	if err := a.Insert(context.Background(), "usage", struct{}{}); err == nil {
		t.Fatalf("unsupported shape accepted")
	}
}

func TestCHAdapter_QueryWrapsRows(t *testing.T) {
	t.Parallel()

	a := newCHAdapter(&fakeCH{})
	rows, err := a.Query(context.Background(), "SELECT toInt32(1)")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	defer rows.Close()

	if !rows.Next() {
		t.Fatalf("expected one row")
	}
	var one int32
	if err := rows.Scan(&one); err != nil || one != 1 {
		t.Fatalf("scan = %d %v", one, err)
	}
	if rows.Next() || rows.Err() != nil {
		t.Fatalf("expected end of rows")
	}
	if cols := rows.Columns(); len(cols) != 1 || cols[0] != "one" {
		t.Fatalf("columns = %v", cols)
	}
}

func TestCHAdapter_PingAndGuard(t *testing.T) {
	t.Parallel()

	f := &fakeCH{pingErr: errors.New("down")}
	s := &Store{CH: newCHAdapter(f)}
	if err := s.Guard(context.Background()); err == nil {
		t.Fatalf("Guard should surface the ch ping failure")
	}
	f.pingErr = nil
	if err := s.Guard(context.Background()); err != nil {
		t.Fatalf("Guard: %v", err)
	}
	if err := s.Close(context.Background()); err != nil || !f.closed {
		t.Fatalf("Close: %v closed=%v", err, f.closed)
	}

	var nilAdapter *chLedger
	if err := nilAdapter.Ping(context.Background()); err == nil {
		t.Fatalf("nil adapter ping should fail")
	}
}
