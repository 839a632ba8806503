package debugctx

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestPrintfRespectsEnabled(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := WithWriter(context.Background(), &buf)

	Printf(ctx, "dropped message")
	if buf.Len() != 0 {
		t.Fatalf("expected no output when debug is disabled, got %q", buf.String())
	}

	ctx = WithEnabled(ctx, true)
	Printf(ctx, "value=%d", 7)
	if got := buf.String(); got != "debug: value=7\n" {
		t.Fatalf("unexpected debug line: %q", got)
	}
}

func TestPrintfIncludesRunID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := WithEnabled(WithWriter(context.Background(), &buf), true)
	ctx = WithRunID(ctx, "b2f1")

	Printf(ctx, "gateway request method=GET")
	if got := buf.String(); !strings.HasPrefix(got, "debug: [b2f1] ") {
		t.Fatalf("expected run id prefix, got %q", got)
	}
}

func TestRunIDIgnoresBlank(t *testing.T) {
	t.Parallel()

	ctx := WithRunID(context.Background(), "  ")
	if got := RunID(ctx); got != "" {
		t.Fatalf("expected empty run id, got %q", got)
	}
}
