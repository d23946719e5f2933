package module

import (
	"strings"
	"sync"
	"testing"

	phttp "postcraft/internal/platform/net/http"
)

type statusPort interface{ Remaining() int }

type quota struct{ left int }

func (q quota) Remaining() int { return q.left }

type stubModule struct {
	name  string
	ports any
}

func (m stubModule) Name() string             { return m.name }
func (m stubModule) Ports() any               { return m.ports }
func (m stubModule) MountRoutes(phttp.Router) {}

func TestPortsOf(t *testing.T) {
	t.Parallel()

	type bundle struct {
		Limit  int
		Status statusPort
		hidden statusPort
	}
	cases := []struct {
		name  string
		ports any
		want  int
		ok    bool
	}{
		{"nil", nil, 0, false},
		{"direct", quota{left: 4}, 4, true},
		{"field", bundle{Limit: 1, Status: quota{left: 9}}, 9, true},
		{"unexported field", bundle{hidden: quota{left: 9}}, 0, false},
		{"scalar", 12, 0, false},
	}
	for _, tc := range cases {
		got, ok := PortsOf[statusPort](stubModule{name: tc.name, ports: tc.ports})
		if ok != tc.ok {
			t.Fatalf("%s: ok = %v", tc.name, ok)
		}
		if ok && got.Remaining() != tc.want {
			t.Fatalf("%s: remaining = %d", tc.name, got.Remaining())
		}
	}
}

func TestMustPortsOf(t *testing.T) {
	t.Parallel()

	if got := MustPortsOf[statusPort](stubModule{ports: quota{left: 2}}); got.Remaining() != 2 {
		t.Fatalf("remaining = %d", got.Remaining())
	}
	defer func() {
		msg, _ := recover().(string)
		if !strings.Contains(msg, "module usage") || !strings.Contains(msg, "statusPort") {
			t.Fatalf("panic = %q", msg)
		}
	}()
	MustPortsOf[statusPort](stubModule{name: "usage"})
}

func TestRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Register("gateway", quota{left: 3})
	if q, ok := PortsAs[quota]("gateway"); !ok || q.left != 3 {
		t.Fatalf("gateway = %+v %v", q, ok)
	}
	if _, ok := PortsAs[string]("gateway"); ok {
		t.Fatalf("wrong type should miss")
	}
	if _, ok := PortsAs[quota]("posts"); ok {
		t.Fatalf("unknown name should miss")
	}

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Register("gateway", quota{left: i})
			_, _ = PortsAs[quota]("gateway")
		}()
	}
	wg.Wait()

	Reset()
	if _, ok := PortsAs[quota]("gateway"); ok {
		t.Fatalf("reset should empty the registry")
	}
}
