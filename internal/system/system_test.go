package system

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tickworld/server/internal/component"
	"github.com/tickworld/server/internal/config"
	"github.com/tickworld/server/internal/core/event"
	coresys "github.com/tickworld/server/internal/core/system"
	"github.com/tickworld/server/internal/data"
	"github.com/tickworld/server/internal/display"
	"github.com/tickworld/server/internal/geom"
	"github.com/tickworld/server/internal/world"
)

var (
	_ coresys.System = (*MobSystem)(nil)
	_ coresys.System = (*PhysicsSystem)(nil)
	_ coresys.System = (*RenderSystem)(nil)
	_ coresys.Drawer = (*RenderSystem)(nil)
)

func newTestWorld(t *testing.T, mutate func(*config.WorldConfig)) *world.State {
	t.Helper()
	species, err := data.DefaultSpeciesTable()
	require.NoError(t, err)
	cfg := config.Default().World
	if mutate != nil {
		mutate(&cfg)
	}
	return world.NewState(cfg, event.DefaultLogWindow, species, rand.New(rand.NewSource(5)), zap.NewNop())
}

func spawn(t *testing.T, w *world.State, mt data.MobType, p geom.Vec2i) *component.Mob {
	t.Helper()
	m, ok := w.CreateMob(mt, p)
	require.True(t, ok)
	return m
}

// drained returns and consumes everything queued on the bus.
func drained(w *world.State) []event.Event {
	var out []event.Event
	w.Bus.Drain(0, func(ev event.Event) { out = append(out, ev) })
	return out
}

func TestWalkMovesMobAndParts(t *testing.T) {
	w := newTestWorld(t, nil)
	orc := spawn(t, w, data.MobOrcWeak, geom.V(0, 0))
	w.Sync()

	sys := NewMobSystem(w)
	sys.HandleEvent(event.TryWalk{Mob: orc.ID, From: geom.V(0, 0), To: geom.V(1, 0)})

	assert.Equal(t, geom.V(1, 0), orc.Position)
	body, ok := w.MobSprite(orc)
	require.True(t, ok)
	assert.Equal(t, geom.V(1, 0), body.Position)
	left, _ := w.Sprite(orc.ExtraSprite)
	right, _ := w.Sprite(orc.ExtraSprite2)
	assert.Equal(t, geom.V(0, 1), left.Position)
	assert.Equal(t, geom.V(2, 1), right.Position)

	evs := drained(w)
	require.Len(t, evs, 1)
	assert.Equal(t, event.Walked{Mob: orc.ID, From: geom.V(0, 0), To: geom.V(1, 0)}, evs[0])
}

func TestWalkBlocked(t *testing.T) {
	w := newTestWorld(t, nil)
	a := spawn(t, w, data.MobRabbit, geom.V(0, 0))
	b := spawn(t, w, data.MobRabbit, geom.V(1, 0))
	w.Sync()
	sys := NewMobSystem(w)

	sys.HandleEvent(event.TryWalk{Mob: a.ID, From: a.Position, To: b.Position})
	assert.Equal(t, geom.V(0, 0), a.Position, "occupied")

	edge := geom.V(w.Bounds.Right()+1, 0)
	b.Position = geom.V(w.Bounds.Right(), 0)
	sys.HandleEvent(event.TryWalk{Mob: b.ID, From: b.Position, To: edge})
	assert.Equal(t, geom.V(w.Bounds.Right(), 0), b.Position, "outside bounds")

	assert.Empty(t, drained(w))
}

func TestWalkRevalidatesAtResolution(t *testing.T) {
	w := newTestWorld(t, nil)
	a := spawn(t, w, data.MobRabbit, geom.V(0, 0))
	b := spawn(t, w, data.MobRabbit, geom.V(2, 0))
	w.Sync()
	sys := NewMobSystem(w)

	// both were queued while (1,0) was free
	sys.HandleEvent(event.TryWalk{Mob: a.ID, From: a.Position, To: geom.V(1, 0)})
	sys.HandleEvent(event.TryWalk{Mob: b.ID, From: b.Position, To: geom.V(1, 0)})

	assert.Equal(t, geom.V(1, 0), a.Position)
	assert.Equal(t, geom.V(2, 0), b.Position)
	assert.Len(t, drained(w), 1)
}

func TestWalkIgnoresStaleAndDyingMobs(t *testing.T) {
	w := newTestWorld(t, nil)
	a := spawn(t, w, data.MobRabbit, geom.V(0, 0))
	w.Sync()
	sys := NewMobSystem(w)

	a.Dying = true
	sys.HandleEvent(event.TryWalk{Mob: a.ID, From: a.Position, To: geom.V(0, 1)})
	assert.Equal(t, geom.V(0, 0), a.Position)

	id := a.ID
	w.Mobs.Remove(id)
	w.Sync()
	sys.HandleEvent(event.TryWalk{Mob: id, From: geom.V(0, 0), To: geom.V(0, 1)})
	assert.Empty(t, drained(w))
}

func TestAttackFlashesThenKills(t *testing.T) {
	w := newTestWorld(t, nil)
	player := spawn(t, w, data.MobPlayer, geom.V(0, 0))
	orc := spawn(t, w, data.MobOrcStrong, geom.V(1, 0))
	w.Sync()
	sys := NewMobSystem(w)
	hit := event.Attack{Attacker: player.ID, Target: orc.ID}

	sys.HandleEvent(hit)
	assert.Equal(t, 1, orc.Health)
	body, _ := w.MobSprite(orc)
	assert.Equal(t, flashDuration, body.FlashTimer)
	for _, id := range orc.Parts() {
		spr, ok := w.Sprite(id)
		require.True(t, ok)
		assert.Equal(t, flashDuration, spr.FlashTimer)
	}
	assert.Empty(t, drained(w))

	sys.HandleEvent(hit)
	assert.Equal(t, -4, orc.Health)
	assert.Equal(t, []event.Event{event.KillMob{Mob: orc.ID}}, drained(w))

	sys.HandleEvent(hit)
	assert.Equal(t, -4, orc.Health, "dead targets take no damage")
	assert.Empty(t, drained(w))
}

func TestAttackWithoutStrength(t *testing.T) {
	w := newTestWorld(t, nil)
	rabbit := spawn(t, w, data.MobRabbit, geom.V(0, 0))
	player := spawn(t, w, data.MobPlayer, geom.V(1, 0))
	w.Sync()

	NewMobSystem(w).HandleEvent(event.Attack{Attacker: rabbit.ID, Target: player.ID})
	assert.Equal(t, 5, player.Health)
	assert.Empty(t, drained(w))
}

func TestOnlyAttackingSpeciesDealDamage(t *testing.T) {
	w := newTestWorld(t, nil)
	rabbit := spawn(t, w, data.MobRabbit, geom.V(0, 0))
	were := spawn(t, w, data.MobRabbitWere, geom.V(2, 0))
	player := spawn(t, w, data.MobPlayer, geom.V(1, 0))
	w.Sync()
	sys := NewMobSystem(w)

	strong := *rabbit.Species
	strong.Strength = 3
	rabbit.Species = &strong
	require.False(t, strong.Attacks)
	sys.HandleEvent(event.Attack{Attacker: rabbit.ID, Target: player.ID})
	assert.Equal(t, 5, player.Health, "rabbits do not attack")

	require.True(t, were.Species.Attacks)
	sys.HandleEvent(event.Attack{Attacker: were.ID, Target: player.ID})
	assert.Equal(t, 4, player.Health)
}

func TestMobCadence(t *testing.T) {
	w := newTestWorld(t, nil)
	spawn(t, w, data.MobRabbit, geom.V(0, 0))
	spawn(t, w, data.MobPlayer, geom.V(5, 5))
	w.Sync()
	sys := NewMobSystem(w)

	sys.Update()
	assert.Empty(t, drained(w))
	sys.Update()
	assert.Len(t, drained(w), 1, "rabbits act every second update")

	w2 := newTestWorld(t, nil)
	spawn(t, w2, data.MobOrcStrong, geom.V(0, 0))
	w2.Sync()
	orcs := NewMobSystem(w2)
	for i := 1; i < slowEvery; i++ {
		orcs.Update()
	}
	assert.Empty(t, drained(w2))
	orcs.Update()
	evs := drained(w2)
	require.Len(t, evs, 1)
	assert.IsType(t, event.TryWalk{}, evs[0])
}

func TestMobsNearEdgeHeadInward(t *testing.T) {
	w := newTestWorld(t, nil)
	b := w.Bounds
	sys := NewMobSystem(w)
	assert.Equal(t, geom.V(0, -1), sys.towardInterior(geom.V(0, b.Top)))
	assert.Equal(t, geom.V(0, 1), sys.towardInterior(geom.V(0, b.Bottom())))
	assert.Equal(t, geom.V(1, 0), sys.towardInterior(geom.V(b.Left, 0)))
	assert.Equal(t, geom.V(-1, 0), sys.towardInterior(geom.V(b.Right(), 0)))
	assert.True(t, sys.towardInterior(geom.V(0, 0)).IsZero())
}

func TestSnakeFrameFollowsDir(t *testing.T) {
	assert.Equal(t, 0, snakeFrame(geom.V(0, 1)))
	assert.Equal(t, 1, snakeFrame(geom.V(0, -1)))
	assert.Equal(t, 2, snakeFrame(geom.V(1, 0)))
	assert.Equal(t, 3, snakeFrame(geom.V(-1, 0)))
}

func TestPhysicsIntegratesProjectiles(t *testing.T) {
	w := newTestWorld(t, nil)
	require.True(t, w.CreateBloodSplatter(geom.V(0, 0)))
	w.Sync()
	require.NotZero(t, w.Physics.Len())

	ph := w.Physics.Values()[0]
	ph.Velocity = geom.Vec2d{X: 1, Y: -0.4}
	NewPhysicsSystem(w).Update()

	assert.InDelta(t, 1.0, ph.Position.X, 1e-9)
	assert.InDelta(t, -0.4, ph.Position.Y, 1e-9)
	assert.InDelta(t, 0.85, ph.Velocity.X, 1e-9)
	assert.InDelta(t, -0.34, ph.Velocity.Y, 1e-9)

	e, ok := w.Entity(ph.Entity)
	require.True(t, ok)
	spr, ok := w.Sprite(e.Sprite)
	require.True(t, ok)
	assert.Equal(t, geom.V(1, 0), spr.Position)
}

func TestPhysicsLeavesStaticBodies(t *testing.T) {
	w := newTestWorld(t, nil)
	id, ph := w.Physics.Add(component.Physics{Type: component.PhysicsStatic, Velocity: geom.Vec2d{X: 1}})
	ph.ID = id
	w.Sync()
	NewPhysicsSystem(w).Update()
	assert.Equal(t, geom.Vec2d{}, ph.Position)
}

func TestRenderAnimatesEveryThirdUpdate(t *testing.T) {
	w := newTestWorld(t, nil)
	spr, _ := w.CreateSprite(world.SpriteSpec{Frames: "ab", Animated: true, FrameRate: 1}, geom.V(0, 0), display.LayerGroundCover)
	spr.Frame, spr.FrameCounter, spr.FlashTimer = 0, 0, 2
	w.Sync()
	sys := NewRenderSystem(w)

	sys.Update()
	sys.Update()
	assert.Equal(t, 'a', spr.Glyph())
	assert.Equal(t, 2, spr.FlashTimer)
	sys.Update()
	assert.Equal(t, 'b', spr.Glyph())
	assert.Equal(t, 1, spr.FlashTimer)
}

func TestRenderDrawsLayersInOrder(t *testing.T) {
	w := newTestWorld(t, func(c *config.WorldConfig) {
		c.Left, c.Top, c.Width, c.Height = -2, 2, 5, 5
	})
	w.Terrain.Fill(world.TileFlat)
	rabbit := spawn(t, w, data.MobRabbit, geom.V(0, 0))
	w.CreateSprite(world.SpriteSpec{Frames: "%", FG: display.ColorRed}, geom.V(0, 0), display.LayerGround)
	w.CreateSprite(world.SpriteSpec{Frames: "*"}, geom.V(1, 1), display.LayerParticles)
	w.Sync()

	d := display.NewHeadless(20, 10, nil, 0)
	NewRenderSystem(w).Draw(d)

	center := d.At(10, 5)
	assert.Equal(t, 'r', center.Glyph, "mob layer over ground layer")
	assert.Equal(t, display.ColorYellow, center.FG)
	assert.Equal(t, '*', d.At(11, 4).Glyph)
	assert.Equal(t, display.ColorWhite, d.At(11, 4).FG)
	assert.Equal(t, '.', d.At(9, 5).Glyph)
	assert.Equal(t, ' ', d.At(0, 0).Glyph, "outside world bounds")

	body, _ := w.MobSprite(rabbit)
	body.FlashTimer = 1
	d.Clear()
	NewRenderSystem(w).Draw(d)
	assert.Equal(t, display.ColorWhite, d.At(10, 5).FG)
}
