package profiler

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickReportsOncePerInterval(t *testing.T) {
	now := time.Unix(0, 0)
	p := NewProfiler(WithClock(func() time.Time { return now }), WithInterval(time.Second))

	for i := 0; i < 9; i++ {
		now = now.Add(100 * time.Millisecond)
		_, ok := p.Tick()
		require.False(t, ok, "tick %d", i)
	}

	now = now.Add(100 * time.Millisecond)
	stats, ok := p.Tick()
	require.True(t, ok)
	assert.Equal(t, 10, stats.Renders)
	assert.InDelta(t, 10, stats.PerSecond, 1e-9)

	now = now.Add(100 * time.Millisecond)
	_, ok = p.Tick()
	assert.False(t, ok)
}

func TestTickLogsAtInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	now := time.Unix(0, 0)
	p := NewProfiler(WithClock(func() time.Time { return now }), WithInterval(time.Second), WithLogger(logger))

	now = now.Add(2 * time.Second)
	_, ok := p.Tick()
	require.True(t, ok)
	assert.Contains(t, buf.String(), "render profile")
	assert.Contains(t, buf.String(), "renders=1")
}
