package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestContextAccumulates(t *testing.T) {
	ctx := WithRunID(context.Background(), "run-1")
	ctx = WithTarget(ctx, "html")
	ctx = WithStage(ctx, "sphinx_build")

	assert.Equal(t, LogContext{RunID: "run-1", Target: "html", Stage: "sphinx_build"}, extractLogContext(ctx))
	assert.Equal(t, LogContext{}, extractLogContext(context.Background()))
}

func TestInfoContextAddsAttrs(t *testing.T) {
	buf := captureLogs(t)
	ctx := WithTarget(WithRunID(context.Background(), "run-2"), "man")

	InfoContext(ctx, "Building", slog.Int("count", 3))
	DebugContext(WithStage(ctx, "post_build"), "Stage starting")

	out := buf.String()
	assert.Contains(t, out, "msg=Building run_id=run-2 target=man count=3")
	assert.Contains(t, out, "stage=post_build")
}

func TestWarnContextWithoutValues(t *testing.T) {
	buf := captureLogs(t)
	WarnContext(context.Background(), "plain")
	assert.Contains(t, buf.String(), "level=WARN msg=plain\n")
}
