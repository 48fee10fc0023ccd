package world

import (
	"math"

	"go.uber.org/zap"

	"github.com/tickworld/server/internal/core/ecs"
	"github.com/tickworld/server/internal/data"
	"github.com/tickworld/server/internal/display"
	"github.com/tickworld/server/internal/geom"
)

// Flora looks used by the built-in population.
var (
	FloraFlower = SpriteSpec{Frames: "vV", Animated: true, FrameRate: 6, FG: display.ColorMagenta, BG: display.ColorBlack}
	FloraWisp   = SpriteSpec{Frames: `|/-\`, Animated: true, FrameRate: 2, FG: display.ColorYellow, BG: display.ColorBlack}
	FloraCross  = SpriteSpec{Frames: "Xx", Animated: true, FrameRate: 1, FG: display.ColorBlue, BG: display.ColorBlack}
)

// SetPlayer makes the given entity the input-driven one and centers the
// camera on its mob.
func (s *State) SetPlayer(entity ecs.ID, at geom.Vec2i) {
	s.Player = entity
	s.Camera.Center = at
}

// PopulateDefault fills the world with rough ground, a scattering of rabbits
// and orcs, the player at the origin and some decorative flora. It is the
// fallback when no scenario script is configured.
func PopulateDefault(s *State) {
	b := s.Bounds
	s.Terrain.Fill(TileFlat)
	for x := b.Left; x <= b.Right(); x++ {
		for y := b.Bottom(); y <= b.Top; y++ {
			if s.Rand.Intn(7) == 0 {
				s.Terrain.Set(geom.V(x, y), []rune{TileGrass, TileTrampled, TileBare}[s.Rand.Intn(3)])
			}
		}
	}

	numMobs := int(0.5 * math.Sqrt(float64(b.Width*b.Height)))
	kinds := []data.MobType{data.MobRabbit, data.MobOrcStrong}
	for i := 0; i < numMobs; i++ {
		s.CreateMob(kinds[s.Rand.Intn(len(kinds))], s.RandomCell())
		if i%32 == 0 {
			s.Sync()
		}
	}

	if player, ok := s.CreateMob(data.MobPlayer, geom.V(0, 0)); ok {
		s.SetPlayer(player.Entity, player.Position)
	}

	for i := 0; i < numMobs/2; i++ {
		var look SpriteSpec
		switch {
		case s.Rand.Intn(3) != 0:
			look = FloraFlower
		case s.Rand.Intn(2) == 0:
			look = FloraWisp
		default:
			look = FloraCross
		}
		s.CreateSprite(look, s.RandomCell(), display.LayerGroundCover)
		if i%32 == 0 {
			s.Sync()
		}
	}

	s.Sync()
	s.log.Info("world populated",
		zap.Int("mobs", s.Mobs.Len()),
		zap.Int("sprites", s.Sprites.Len()),
		zap.Int("entities", s.Entities.Len()),
	)
}
