package net

import (
	"context"
	"testing"
)

func TestWithRequest(t *testing.T) {
	t.Parallel()

	ctx := WithRequest(context.Background(), "req-1", "owner-1")
	if RequestID(ctx) != "req-1" || OwnerID(ctx) != "owner-1" {
		t.Fatalf("got %q/%q", RequestID(ctx), OwnerID(ctx))
	}

	base := context.Background()
	if WithRequest(base, "", "") != base {
		t.Fatalf("empty ids should leave ctx untouched")
	}
	if OwnerID(base) != "" || RequestID(base) != "" {
		t.Fatalf("background ctx should be anonymous")
	}
}
