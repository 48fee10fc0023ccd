package world

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tickworld/server/internal/config"
	"github.com/tickworld/server/internal/core/ecs"
	"github.com/tickworld/server/internal/data"
	"github.com/tickworld/server/internal/display"
	"github.com/tickworld/server/internal/geom"
)

func newTestState(t *testing.T, mutate func(*config.WorldConfig)) *State {
	t.Helper()
	species, err := data.DefaultSpeciesTable()
	require.NoError(t, err)
	cfg := config.Default().World
	if mutate != nil {
		mutate(&cfg)
	}
	return NewState(cfg, 20, species, rand.New(rand.NewSource(7)), zap.NewNop())
}

func TestCameraCoordinatesInvert(t *testing.T) {
	screens := []geom.Vec2i{geom.V(80, 30), geom.V(81, 31), geom.V(1, 1)}
	cams := []Camera{
		{},
		{Center: geom.V(5, -3)},
		{Center: geom.V(-12, 40), Shaking: true, ShakeOffset: geom.V(1, -1)},
	}
	for _, size := range screens {
		for i := range cams {
			c := &cams[i]
			for _, p := range []geom.Vec2i{geom.V(0, 0), geom.V(-7, 9), geom.V(33, -21)} {
				assert.Equal(t, p, c.WorldCoord(c.ScreenCoord(p, size), size), "world %s screen %s", p, size)
				assert.Equal(t, p, c.ScreenCoord(c.WorldCoord(p, size), size), "screen %s screen %s", p, size)
			}
		}
	}
}

func TestCameraWorldIsYUp(t *testing.T) {
	c := &Camera{}
	size := geom.V(80, 30)
	assert.Equal(t, geom.V(40, 15), c.ScreenCoord(geom.V(0, 0), size))
	assert.Equal(t, geom.V(40, 14), c.ScreenCoord(geom.V(0, 1), size))
	assert.Equal(t, geom.V(41, 15), c.ScreenCoord(geom.V(1, 0), size))
}

func TestCameraTrackMovesByMargin(t *testing.T) {
	size := geom.V(80, 30)
	c := &Camera{}

	assert.False(t, c.Track(geom.V(0, 0), size))
	assert.Equal(t, geom.V(0, 0), c.Center)

	// screen x = 73, 80-73 < 8
	assert.True(t, c.Track(geom.V(33, 0), size))
	assert.Equal(t, geom.V(8, 0), c.Center)

	c = &Camera{}
	// screen y = 15-12 = 3 < 4
	assert.True(t, c.Track(geom.V(0, 12), size))
	assert.Equal(t, geom.V(0, 4), c.Center)
}

func TestCameraShakeRunsSevenTicks(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	c := &Camera{}
	c.StartShake(ShakeStrong)
	for i := 0; i < shakeDuration; i++ {
		c.UpdateShake(rng)
		require.True(t, c.Shaking, "tick %d", i+1)
		assert.LessOrEqual(t, abs(c.ShakeOffset.X), 1)
		assert.LessOrEqual(t, abs(c.ShakeOffset.Y), 1)
	}
	c.UpdateShake(rng)
	assert.False(t, c.Shaking)
	assert.Equal(t, geom.Vec2i{}, c.ShakeOffset)
	assert.Equal(t, c.Center, c.Final())
}

func TestWeakShakeMovesOneAxis(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	c := &Camera{}
	c.StartShake(ShakeWeak)
	for i := 0; i < shakeDuration; i++ {
		c.UpdateShake(rng)
		assert.True(t, c.ShakeOffset.X == 0 || c.ShakeOffset.Y == 0, "offset %s", c.ShakeOffset)
	}
}

func TestWeakShakeKeepsStrongStrength(t *testing.T) {
	c := &Camera{}
	c.StartShake(ShakeStrong)
	c.ShakeTimer = 5
	c.StartShake(ShakeWeak)
	assert.Equal(t, ShakeStrong, c.Strength)
	assert.Equal(t, 0, c.ShakeTimer)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func TestTerrainDecay(t *testing.T) {
	bounds := geom.Rect{Left: -2, Top: 2, Width: 4, Height: 4}
	tr := NewTerrain(bounds, TileTrampled)
	assert.Equal(t, 16, tr.Count(TileTrampled))
	assert.Equal(t, TileBare, tr.At(geom.V(2, 0)), "outside bounds")

	tr.Set(geom.V(-2, 2), TileGrass)
	assert.Equal(t, rune(TileGrass), tr.At(geom.V(-2, 2)))

	rng := rand.New(rand.NewSource(1))
	total := 0
	for i := 0; i < 2000; i++ {
		total += tr.Decay(rng)
	}
	assert.Equal(t, 15, total)
	assert.Equal(t, 0, tr.Count(TileTrampled))
	assert.Equal(t, rune(TileGrass), tr.At(geom.V(-2, 2)), "only trampled ground regrows")
}

func TestCreateMobWiresParts(t *testing.T) {
	s := newTestState(t, nil)
	m, ok := s.CreateMob(data.MobOrcStrong, geom.V(3, 4))
	require.True(t, ok)

	// usable before sync, invisible to iteration
	assert.Equal(t, 0, s.Mobs.Len())
	e, ok := s.Entity(m.Entity)
	require.True(t, ok)
	assert.Equal(t, m.ID, e.Mob)
	assert.Len(t, e.Children, 2)

	s.Sync()
	assert.Equal(t, 1, s.Mobs.Len())
	assert.Equal(t, 3, s.Sprites.Len())
	assert.Equal(t, 3, s.Entities.Len())
	assert.Equal(t, 6, m.Health)

	body, ok := s.MobSprite(m)
	require.True(t, ok)
	assert.Equal(t, display.LayerMob, body.Layer)
	assert.Equal(t, geom.V(3, 4), body.Position)

	left, ok := s.Sprite(m.ExtraSprite)
	require.True(t, ok)
	assert.Equal(t, geom.V(2, 5), left.Position)
	assert.Equal(t, display.LayerMobBelow, left.Layer)
	right, ok := s.Sprite(m.ExtraSprite2)
	require.True(t, ok)
	assert.Equal(t, geom.V(4, 5), right.Position)

	child, ok := s.Entity(e.Children[0])
	require.True(t, ok)
	assert.Equal(t, m.ExtraSprite, child.Sprite)
}

func TestCreateSnakeHeadFollowsDir(t *testing.T) {
	s := newTestState(t, nil)
	m, ok := s.CreateMob(data.MobSnake, geom.V(0, 0))
	require.True(t, ok)
	assert.False(t, m.Dir.IsZero())
	head, ok := s.Sprite(m.ExtraSprite)
	require.True(t, ok)
	assert.Equal(t, m.Position.Add(m.Dir), head.Position)
	assert.True(t, m.ExtraSprite2.IsZero())
}

func TestCreateMobUnknownSpecies(t *testing.T) {
	s := newTestState(t, nil)
	_, ok := s.CreateMob(data.MobType("dragon"), geom.V(0, 0))
	assert.False(t, ok)
	adds, _ := s.Entities.Pending()
	assert.Equal(t, 0, adds)
}

func TestBloodSplatterRespectsCapacity(t *testing.T) {
	s := newTestState(t, func(c *config.WorldConfig) { c.SoftMaxSprites = 200 })
	require.True(t, s.CreateBloodSplatter(geom.V(0, 0)))
	s.Sync()

	n := s.Sprites.Len()
	assert.GreaterOrEqual(t, n, 10)
	assert.Equal(t, s.Physics.Len(), countLayer(s, display.LayerParticles))
	for _, ph := range s.Physics.Values() {
		speed := ph.Velocity.Length()
		assert.InDelta(t, 0.5, speed, 0.1+1e-9)
	}
	for _, e := range s.Entities.Values() {
		assert.Greater(t, e.Life, 0)
	}

	for !s.SplatterBlocked() {
		s.CreateBloodSplatter(geom.V(0, 0))
		s.Sync()
	}
	before := s.Sprites.Len()
	assert.False(t, s.CreateBloodSplatter(geom.V(0, 0)))
	s.Sync()
	assert.Equal(t, before, s.Sprites.Len())
}

func countLayer(s *State, layer display.Layer) int {
	n := 0
	for _, spr := range s.Sprites.Values() {
		if spr.Layer == layer {
			n++
		}
	}
	return n
}

func TestCreateBonesCopiesGlyph(t *testing.T) {
	s := newTestState(t, nil)
	m, ok := s.CreateMob(data.MobRabbit, geom.V(1, 1))
	require.True(t, ok)
	s.CreateBones(m)
	s.Sync()

	var bones []rune
	for _, spr := range s.Sprites.Values() {
		if spr.Layer == display.LayerGround {
			bones = append(bones, spr.Glyph())
			assert.Equal(t, display.ColorRed, spr.FG)
			e, ok := s.Entity(spr.Entity)
			require.True(t, ok)
			assert.GreaterOrEqual(t, e.Life, bonesLifeMin)
			assert.LessOrEqual(t, e.Life, bonesLifeMax)
		}
	}
	assert.Equal(t, []rune{'r'}, bones)
}

func TestMobAtSeesOnlySyncedLiveMobs(t *testing.T) {
	s := newTestState(t, nil)
	a, _ := s.CreateMob(data.MobRabbit, geom.V(0, 0))
	_, ok := s.MobAt(geom.V(0, 0), ecs.Invalid)
	assert.False(t, ok, "pending mobs are not visible")

	s.Sync()
	got, ok := s.MobAt(geom.V(0, 0), ecs.Invalid)
	require.True(t, ok)
	assert.Equal(t, a.ID, got.ID)

	_, ok = s.MobAt(geom.V(0, 0), a.ID)
	assert.False(t, ok)

	a.Dying = true
	_, ok = s.MobAt(geom.V(0, 0), ecs.Invalid)
	assert.False(t, ok)
}

func TestPopulateDefault(t *testing.T) {
	s := newTestState(t, nil)
	PopulateDefault(s)

	player, ok := s.PlayerMob()
	require.True(t, ok)
	assert.Equal(t, data.MobPlayer, player.Species.Type)
	assert.Equal(t, geom.V(0, 0), s.Camera.Center)
	assert.Greater(t, s.Mobs.Len(), 1)
	for _, m := range s.Mobs.Values() {
		assert.True(t, s.Bounds.Contains(m.Position))
	}
	adds, removes := s.Sprites.Pending()
	assert.Zero(t, adds+removes)
}
