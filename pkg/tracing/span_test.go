package tracing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeClock(step time.Duration) func() time.Time {
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func TestSpanTree(t *testing.T) {
	ctx, root := StartSpan(context.Background(), "run", "r-1")
	root.now = fakeClock(time.Millisecond)

	childCtx, child := StartChildSpan(ctx, "dedup")
	assert.Same(t, child, SpanFromContext(childCtx))
	assert.Equal(t, "r-1", child.RunID)
	child.SetAttr("removed", 4)
	assert.Equal(t, time.Millisecond, child.End())

	require.Len(t, root.Children, 1)
	assert.Equal(t, 4, root.Children[0].Attrs["removed"])
}

func TestStartChildSpanWithoutParent(t *testing.T) {
	ctx, span := StartChildSpan(context.Background(), "orphan")
	assert.Empty(t, span.RunID)
	assert.Same(t, span, SpanFromContext(ctx))
	assert.Nil(t, SpanFromContext(context.Background()))
}

func TestRunRecordsError(t *testing.T) {
	ctx, root := StartSpan(context.Background(), "run", "r-2")
	boom := errors.New("boom")

	err := Run(ctx, "queries", func(ctx context.Context) error {
		assert.Equal(t, "queries", SpanFromContext(ctx).Name)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "boom", root.Children[0].Attrs["error"])
}

func TestLogWritesDepthFirst(t *testing.T) {
	ctx, root := StartSpan(context.Background(), "run", "r-3")
	_, a := StartChildSpan(ctx, "seed")
	a.End()
	_, b := StartChildSpan(ctx, "dedup")
	b.End()
	root.End()

	var buf bytes.Buffer
	root.Log(slog.New(slog.NewJSONHandler(&buf, nil)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	var names []string
	for _, line := range lines {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		assert.Equal(t, "r-3", entry["run_id"])
		names = append(names, entry["span"].(string))
	}
	assert.Equal(t, []string{"run", "seed", "dedup"}, names)
}

func TestNilSpanIsNoOp(t *testing.T) {
	span := SpanFromContext(context.Background())
	require.Nil(t, span)

	assert.NotPanics(t, func() {
		span.SetAttr("failed", 1)
		assert.Zero(t, span.End())
		span.Log(slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)))
	})
}
