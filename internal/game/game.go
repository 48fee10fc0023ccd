// Package game runs the tick loop: input, system updates, aging, terrain
// decay, camera shake, event drain with core reactions, the cascading removal
// worklist and the store sync.
package game

import (
	"time"

	"go.uber.org/zap"

	"github.com/tickworld/server/internal/config"
	"github.com/tickworld/server/internal/core/ecs"
	"github.com/tickworld/server/internal/core/event"
	coresys "github.com/tickworld/server/internal/core/system"
	"github.com/tickworld/server/internal/display"
	"github.com/tickworld/server/internal/geom"
	"github.com/tickworld/server/internal/system"
	"github.com/tickworld/server/internal/telemetry"
	"github.com/tickworld/server/internal/world"
)

// Event log overlay geometry.
const (
	logOverlayLines = 6
	logOverlayWidth = 30
)

// Game owns the world and the systems acting on it.
// Single-goroutine access only.
type Game struct {
	cfg     config.SimConfig
	world   *world.State
	runner  *coresys.Runner
	render  *system.RenderSystem
	display display.Display
	metrics *telemetry.Telemetry
	log     *zap.Logger

	afterTick func(tick int)

	input    []display.Direction
	frame    int
	tick     int
	hitstun  int
	removals []ecs.ID
}

// New wires the mob, physics and render systems, in that order, to ws.
// metrics may be nil.
func New(cfg config.SimConfig, ws *world.State, d display.Display, metrics *telemetry.Telemetry, log *zap.Logger) *Game {
	if metrics == nil {
		metrics, _ = telemetry.New(false, 0)
	}
	g := &Game{
		cfg:      cfg,
		world:    ws,
		runner:   coresys.NewRunner(),
		render:   system.NewRenderSystem(ws),
		display:  d,
		metrics:  metrics,
		log:      log,
		removals: make([]ecs.ID, 0, 64),
	}
	g.runner.RegisterFreezable(system.NewMobSystem(ws))
	g.runner.RegisterFreezable(system.NewPhysicsSystem(ws))
	g.runner.Register(g.render)
	return g
}

func (g *Game) World() *world.State { return g.world }

// Ticks returns how many ticks have completed.
func (g *Game) Ticks() int { return g.tick }

// Hitstun returns the remaining ticks during which mob and physics updates
// are frozen.
func (g *Game) Hitstun() int { return g.hitstun }

// OnTick installs fn to run after every tick, once the stores are synced. It
// receives the number of the tick that just completed. Anything fn creates or
// queues becomes visible on the next tick.
func (g *Game) OnTick(fn func(tick int)) {
	g.afterTick = fn
}

// PushInput queues directional input for the next tick. Only the most recent
// direction is acted on.
func (g *Game) PushInput(dirs ...display.Direction) {
	g.input = append(g.input, dirs...)
}

// Frame advances one presented frame and runs a tick every FrameDivisor
// frames. It reports whether a tick ran.
func (g *Game) Frame() bool {
	g.frame++
	div := g.cfg.FrameDivisor
	if div < 1 {
		div = 1
	}
	if g.frame%div != 0 {
		return false
	}
	g.Tick()
	return true
}

// Tick runs one simulation step.
func (g *Game) Tick() {
	start := time.Now()
	w := g.world

	g.applyInput()

	if g.hitstun > 0 {
		g.hitstun--
		g.runner.UpdateFrozen()
	} else {
		g.runner.Update()
	}

	for _, e := range w.Entities.Values() {
		e.Age++
		if e.Expired() {
			w.QueueEvent(event.Remove{Entity: e.ID})
		}
	}

	w.Terrain.Decay(w.Rand)
	w.Camera.UpdateShake(w.Rand)

	drained := w.Bus.Drain(g.tick, g.dispatch)
	removed := g.flushRemovals()

	w.Sync()
	g.tick++
	w.Bus.Prune(g.tick)

	g.metrics.ObserveTick(start, telemetry.TickStats{
		Events:   drained,
		Removals: removed,
		Entities: w.Entities.Len(),
		Mobs:     w.Mobs.Len(),
		Sprites:  w.Sprites.Len(),
		Physics:  w.Physics.Len(),
	})

	if g.afterTick != nil {
		g.afterTick(g.tick - 1)
	}
}

func directionVec(d display.Direction) geom.Vec2i {
	switch d {
	case display.DirUp:
		return geom.V(0, 1)
	case display.DirDown:
		return geom.V(0, -1)
	case display.DirLeft:
		return geom.V(-1, 0)
	case display.DirRight:
		return geom.V(1, 0)
	}
	return geom.Vec2i{}
}

// applyInput turns the latest queued direction into an Attack on an adjacent
// mob, or a TryWalk into free space.
func (g *Game) applyInput() {
	var move geom.Vec2i
	for _, d := range g.input {
		if v := directionVec(d); !v.IsZero() {
			move = v
		}
	}
	g.input = g.input[:0]
	if move.IsZero() {
		return
	}

	w := g.world
	if !w.Live(w.Player) {
		return
	}
	player, ok := w.PlayerMob()
	if !ok || !player.Alive() {
		return
	}

	to := player.Position.Add(move)
	if target, ok := w.MobAt(to, player.ID); ok {
		w.QueueEvent(event.Attack{Attacker: player.ID, Target: target.ID})
		w.Camera.StartShake(world.ShakeWeak)
		g.hitstun = g.cfg.HitstunTicks
		return
	}
	w.QueueEvent(event.TryWalk{Mob: player.ID, From: player.Position, To: to})
}

// dispatch runs the core reaction to ev, then hands it to every system.
func (g *Game) dispatch(ev event.Event) {
	w := g.world
	g.log.Debug("event", zap.Int("tick", g.tick), zap.Stringer("event", ev))

	switch e := ev.(type) {
	case event.Remove:
		g.removals = append(g.removals, e.Entity)
	case event.KillMob:
		g.killMob(e.Mob)
	case event.SpawnMob:
		if w.Mobs.Len() >= w.Mobs.SoftMax() {
			g.log.Warn("spawn skipped: mob store at capacity",
				zap.String("type", string(e.Type)),
				zap.Int("mobs", w.Mobs.Len()),
			)
			break
		}
		w.CreateMob(e.Type, e.Position)
	case event.Walked:
		if player, ok := w.PlayerMob(); ok && player.ID == e.Mob {
			w.Camera.Track(e.To, g.screenSize())
		}
	case event.TryWalk, event.Attack:
	}

	g.runner.Dispatch(ev)
}

// killMob marks the mob dying, schedules its entity's removal and leaves blood
// and bones behind. A kill in view shakes the camera.
func (g *Game) killMob(id ecs.ID) {
	w := g.world
	m, ok := w.Mob(id)
	if !ok || m.Dying {
		return
	}
	m.Dying = true
	w.QueueEvent(event.Remove{Entity: m.Entity})
	w.CreateBloodSplatter(m.Position)
	w.CreateBones(m)

	if g.onScreen(m.Position) {
		w.Camera.StartShake(world.ShakeStrong)
	}
}

// flushRemovals removes each queued entity with its components and schedules
// its children for removal next tick. It returns how many entities it removed.
func (g *Game) flushRemovals() int {
	w := g.world
	n := 0
	for _, id := range g.removals {
		if !w.Live(id) {
			continue
		}
		e, _ := w.Entity(id)
		w.Mobs.Remove(e.Mob)
		w.Sprites.Remove(e.Sprite)
		w.Physics.Remove(e.Physics)
		for _, child := range e.Children {
			w.QueueEvent(event.Remove{Entity: child})
		}
		e.Children = nil
		w.Entities.Remove(id)
		n++
	}
	g.removals = g.removals[:0]
	if n > 0 {
		g.log.Debug("entities removed", zap.Int("tick", g.tick), zap.Int("count", n))
	}
	return n
}

func (g *Game) screenSize() geom.Vec2i {
	return geom.V(g.display.Width(), g.display.Height())
}

func (g *Game) onScreen(p geom.Vec2i) bool {
	size := g.screenSize()
	sc := g.world.Camera.ScreenCoord(p, size)
	return sc.X >= 0 && sc.Y >= 0 && sc.X < size.X && sc.Y < size.Y
}

// Render draws the world and, when enabled, the most recent event log lines.
func (g *Game) Render() {
	g.display.Clear()
	g.render.Draw(g.display)
	if g.cfg.ShowEventLog {
		g.drawEventLog()
	}
}

func (g *Game) drawEventLog() {
	entries := g.world.Bus.Log()
	if len(entries) > logOverlayLines {
		entries = entries[len(entries)-logOverlayLines:]
	}
	for y, entry := range entries {
		for x, r := range []rune(entry.Text) {
			if x >= logOverlayWidth {
				break
			}
			g.display.Set(x, y, r, display.ColorWhite, display.ColorBlue)
		}
	}
}
