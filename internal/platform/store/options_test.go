package store

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestWithLogger_TagsComponent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s, err := Open(context.Background(), Config{}, WithLogger(zerolog.New(&buf)))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.Log.Info().Msg("ready")
	if !strings.Contains(buf.String(), `"component":"store"`) {
		t.Fatalf("log line = %q", buf.String())
	}
}
