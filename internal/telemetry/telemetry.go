// Package telemetry records per-tick simulation measurements in an in-memory
// go-metrics sink.
package telemetry

import (
	"fmt"
	"strings"
	"time"

	metrics "github.com/armon/go-metrics"
)

const serviceName = "tickworld"

// Metric keys, relative to the service prefix.
var (
	keyTickDuration = []string{"tick", "duration"}
	keyTicks        = []string{"tick", "count"}
	keyEvents       = []string{"events", "drained"}
	keyRemovals     = []string{"entities", "removed"}
	keyEntities     = []string{"store", "entities"}
	keyMobs         = []string{"store", "mobs"}
	keySprites      = []string{"store", "sprites"}
	keyPhysics      = []string{"store", "physics"}
)

// TickStats is what one simulation tick reports.
type TickStats struct {
	Events   int // events drained this tick
	Removals int // entities removed this tick
	Entities int
	Mobs     int
	Sprites  int
	Physics  int
}

// Telemetry is a thin wrapper over a go-metrics instance. A disabled
// Telemetry accepts every call and records nothing.
type Telemetry struct {
	m    *metrics.Metrics
	sink *metrics.InmemSink
}

// New builds a Telemetry aggregating over the given interval. Six intervals
// are retained.
func New(enabled bool, interval time.Duration) (*Telemetry, error) {
	if !enabled {
		return &Telemetry{}, nil
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	sink := metrics.NewInmemSink(interval, 6*interval)

	cfg := metrics.DefaultConfig(serviceName)
	cfg.EnableHostname = false
	cfg.HostName = ""
	cfg.EnableRuntimeMetrics = false
	m, err := metrics.New(cfg, sink)
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}
	return &Telemetry{m: m, sink: sink}, nil
}

func (t *Telemetry) Enabled() bool { return t.m != nil }

// ObserveTick records a finished tick that began at start.
func (t *Telemetry) ObserveTick(start time.Time, stats TickStats) {
	if t.m == nil {
		return
	}
	t.m.MeasureSince(keyTickDuration, start)
	t.m.IncrCounter(keyTicks, 1)
	t.m.IncrCounter(keyEvents, float32(stats.Events))
	t.m.IncrCounter(keyRemovals, float32(stats.Removals))
	t.m.SetGauge(keyEntities, float32(stats.Entities))
	t.m.SetGauge(keyMobs, float32(stats.Mobs))
	t.m.SetGauge(keySprites, float32(stats.Sprites))
	t.m.SetGauge(keyPhysics, float32(stats.Physics))
}

// Snapshot is an aggregate over every retained interval.
type Snapshot struct {
	Ticks      int
	Events     int
	Removals   int
	MeanTickMs float64
	MaxTickMs  float64
	Gauges     map[string]float32 // latest value per store
}

// Snapshot aggregates the retained intervals. It is zero when disabled.
func (t *Telemetry) Snapshot() Snapshot {
	snap := Snapshot{Gauges: map[string]float32{}}
	if t.sink == nil {
		return snap
	}

	var durSum float64
	var durCount int
	for _, iv := range t.sink.Data() {
		iv.RLock()
		if c, ok := iv.Counters[flatten(keyTicks)]; ok {
			snap.Ticks += int(c.Sum)
		}
		if c, ok := iv.Counters[flatten(keyEvents)]; ok {
			snap.Events += int(c.Sum)
		}
		if c, ok := iv.Counters[flatten(keyRemovals)]; ok {
			snap.Removals += int(c.Sum)
		}
		if s, ok := iv.Samples[flatten(keyTickDuration)]; ok {
			durSum += s.Sum
			durCount += s.Count
			if s.Max > snap.MaxTickMs {
				snap.MaxTickMs = s.Max
			}
		}
		for _, key := range [][]string{keyEntities, keyMobs, keySprites, keyPhysics} {
			if g, ok := iv.Gauges[flatten(key)]; ok {
				snap.Gauges[key[1]] = g.Value
			}
		}
		iv.RUnlock()
	}
	if durCount > 0 {
		snap.MeanTickMs = durSum / float64(durCount)
	}
	return snap
}

// Summary renders Snapshot as a single log-friendly line.
func (t *Telemetry) Summary() string {
	if t.m == nil {
		return "metrics disabled"
	}
	s := t.Snapshot()
	var b strings.Builder
	fmt.Fprintf(&b, "ticks=%d events=%d removals=%d tick_mean=%.3fms tick_max=%.3fms",
		s.Ticks, s.Events, s.Removals, s.MeanTickMs, s.MaxTickMs)
	for _, name := range []string{"entities", "mobs", "sprites", "physics"} {
		if v, ok := s.Gauges[name]; ok {
			fmt.Fprintf(&b, " %s=%d", name, int(v))
		}
	}
	return b.String()
}

func flatten(key []string) string {
	return serviceName + "." + strings.Join(key, ".")
}
