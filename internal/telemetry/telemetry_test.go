package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveTickAggregates(t *testing.T) {
	tm, err := New(true, time.Minute)
	require.NoError(t, err)
	require.True(t, tm.Enabled())

	start := time.Now().Add(-2 * time.Millisecond)
	tm.ObserveTick(start, TickStats{Events: 3, Removals: 1, Entities: 10, Mobs: 4, Sprites: 9})
	tm.ObserveTick(start, TickStats{Events: 2, Entities: 8, Mobs: 3, Sprites: 7})

	s := tm.Snapshot()
	assert.Equal(t, 2, s.Ticks)
	assert.Equal(t, 5, s.Events)
	assert.Equal(t, 1, s.Removals)
	assert.GreaterOrEqual(t, s.MeanTickMs, 2.0)
	assert.GreaterOrEqual(t, s.MaxTickMs, s.MeanTickMs)
	assert.Equal(t, float32(8), s.Gauges["entities"])
	assert.Equal(t, float32(3), s.Gauges["mobs"])
	assert.Equal(t, float32(0), s.Gauges["physics"])

	assert.Contains(t, tm.Summary(), "ticks=2 events=5 removals=1")
	assert.Contains(t, tm.Summary(), "sprites=7")
}

func TestDisabledRecordsNothing(t *testing.T) {
	tm, err := New(false, 0)
	require.NoError(t, err)
	assert.False(t, tm.Enabled())

	tm.ObserveTick(time.Now(), TickStats{Events: 1})
	assert.Zero(t, tm.Snapshot().Ticks)
	assert.Equal(t, "metrics disabled", tm.Summary())
}
