package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	kit "postcraft/internal/platform/testkit"
)

func TestPrefix(t *testing.T) {
	t.Parallel()

	if got := New().Prefix("CORE_").Prefix("POSTS_").key("STORE"); got != "CORE_POSTS_STORE" {
		t.Fatalf("key = %q", got)
	}
}

func TestMay(t *testing.T) {
	c := New().Prefix("PC_TEST_")
	t.Setenv("PC_TEST_NAME", "  postcraft ")
	t.Setenv("PC_TEST_WORKERS", "8")
	t.Setenv("PC_TEST_BAD_INT", "eight")
	t.Setenv("PC_TEST_ZERO", "0")
	t.Setenv("PC_TEST_TEMP", "0.7")
	t.Setenv("PC_TEST_ON", "yes")
	t.Setenv("PC_TEST_OFF", "false")
	t.Setenv("PC_TEST_WAIT", "90s")
	t.Setenv("PC_TEST_BAD_WAIT", "soon")
	t.Setenv("PC_TEST_PLATFORMS", " linkedin, ,x ")
	t.Setenv("PC_TEST_BLANKS", " , ")
	t.Setenv("PC_TEST_TOKENS", "tok-1:owner-1, broken ,tok-2:owner-2,:x")

	if got := c.MayString("NAME", "d"); got != "postcraft" {
		t.Fatalf("MayString = %q", got)
	}
	if got := c.MayString("MISSING", "d"); got != "d" {
		t.Fatalf("MayString default = %q", got)
	}
	if c.MayInt("WORKERS", 1) != 8 || c.MayInt("BAD_INT", 3) != 3 {
		t.Fatalf("MayInt")
	}
	if c.MayPositiveInt("ZERO", 4) != 4 || c.MayPositiveInt("WORKERS", 4) != 8 {
		t.Fatalf("MayPositiveInt")
	}
	if c.MayFloat64("TEMP", 1) != 0.7 {
		t.Fatalf("MayFloat64")
	}
	if !c.MayBool("ON", false) || c.MayBool("OFF", true) || !c.MayBool("MISSING", true) {
		t.Fatalf("MayBool")
	}
	if c.MayDuration("WAIT", 0) != 90*time.Second || c.MayDuration("BAD_WAIT", time.Second) != time.Second {
		t.Fatalf("MayDuration")
	}
	if diff := cmp.Diff([]string{"linkedin", "x"}, c.MayCSV("PLATFORMS", nil)); diff != "" {
		t.Fatalf("MayCSV (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"d"}, c.MayCSV("BLANKS", []string{"d"})); diff != "" {
		t.Fatalf("MayCSV blanks (-want +got):\n%s", diff)
	}
	want := map[string]string{"tok-1": "owner-1", "tok-2": "owner-2"}
	if diff := cmp.Diff(want, c.MayPairs("TOKENS")); diff != "" {
		t.Fatalf("MayPairs (-want +got):\n%s", diff)
	}
}

func TestMayEnum(t *testing.T) {
	c := New().Prefix("PC_ENUM_")
	t.Setenv("PC_ENUM_STORE", "MEMORY")
	t.Setenv("PC_ENUM_BAD", "sqlite")

	if got := c.MayEnum("STORE", "pg", "pg", "memory"); got != "MEMORY" {
		t.Fatalf("MayEnum = %q", got)
	}
	if got := c.MayEnum("UNSET", "pg", "pg", "memory"); got != "pg" {
		t.Fatalf("MayEnum default = %q", got)
	}
	kit.MustPanic(t, func() { _ = c.MayEnum("BAD", "pg", "pg", "memory") })
}
