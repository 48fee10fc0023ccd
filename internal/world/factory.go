package world

import (
	"math"

	"go.uber.org/zap"

	"github.com/tickworld/server/internal/component"
	"github.com/tickworld/server/internal/data"
	"github.com/tickworld/server/internal/display"
	"github.com/tickworld/server/internal/geom"
)

// SpriteSpec describes the look of a free-standing sprite.
type SpriteSpec struct {
	Frames    string
	Animated  bool
	FrameRate int
	FG, BG    display.Color
}

const (
	splatterRadius   = 3
	particleLifeMin  = 6
	particleLifeMax  = 12
	dropLifeMin      = 200
	dropLifeMax      = 300
	bonesLifeMin     = 100
	bonesLifeMax     = 110
	particleSpeedMin = 0.4
	particleSpeedMax = 0.6
)

// CreateSprite adds an entity owning a single sprite. Both are usable for
// wiring immediately and become visible at the next sync.
func (s *State) CreateSprite(spec SpriteSpec, pos geom.Vec2i, layer display.Layer) (*component.Sprite, *component.Entity) {
	eid, e := s.Entities.Add(component.Entity{})
	e.ID = eid

	sid, spr := s.Sprites.Add(s.newSprite(spec, pos, layer))
	spr.ID = sid
	spr.Entity = eid
	e.Sprite = sid
	return spr, e
}

func (s *State) newSprite(spec SpriteSpec, pos geom.Vec2i, layer display.Layer) component.Sprite {
	spr := component.Sprite{
		Position:  pos,
		Layer:     layer,
		Frames:    []rune(spec.Frames),
		Animated:  spec.Animated,
		FrameRate: spec.FrameRate,
		FG:        spec.FG,
		BG:        spec.BG,
	}
	if spec.Animated && len(spr.Frames) > 0 {
		spr.Frame = s.RandInt(0, min(1, len(spr.Frames)-1))
		spr.FrameCounter = s.RandInt(0, spec.FrameRate)
	}
	return spr
}

// CreateMob adds a mob of the given species with its body sprite and any part
// sprites the species declares. Parts are child entities of the mob's entity.
// Unknown species are skipped.
func (s *State) CreateMob(mt data.MobType, pos geom.Vec2i) (*component.Mob, bool) {
	sp, err := s.Species.Lookup(mt)
	if err != nil {
		s.log.Warn("spawn skipped", zap.Error(err))
		return nil, false
	}

	eid, e := s.Entities.Add(component.Entity{})
	e.ID = eid

	mid, m := s.Mobs.Add(component.Mob{
		Entity:   eid,
		Species:  sp,
		Health:   sp.Health,
		Position: pos,
		Dir:      s.randomHeading(),
	})
	m.ID = mid
	e.Mob = mid

	body := SpriteSpec{
		Frames:    sp.Appearance.Frames,
		Animated:  sp.Appearance.FrameRate > 0,
		FrameRate: sp.Appearance.FrameRate,
		FG:        sp.Appearance.FG,
		BG:        sp.Appearance.BG,
	}
	sid, spr := s.Sprites.Add(s.newSprite(body, pos, display.LayerMob))
	spr.ID = sid
	spr.Entity = eid
	e.Sprite = sid

	for i, part := range sp.Parts {
		spec := SpriteSpec{
			Frames:    part.Frames,
			Animated:  part.Animated,
			FrameRate: part.FrameRate,
			FG:        part.FG,
			BG:        part.BG,
		}
		pspr, pe := s.CreateSprite(spec, PartPosition(m, part), part.Layer)
		e.AddChild(pe.ID)
		switch i {
		case 0:
			m.ExtraSprite = pspr.ID
		case 1:
			m.ExtraSprite2 = pspr.ID
		}
	}
	return m, true
}

// PartPosition is where a species part sits for a mob in its current pose.
func PartPosition(m *component.Mob, part data.Part) geom.Vec2i {
	if part.FollowDir {
		return m.Position.Add(m.Dir)
	}
	return m.Position.Add(geom.V(part.Offset[0], part.Offset[1]))
}

var headings = [...]geom.Vec2i{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}}

func (s *State) randomHeading() geom.Vec2i {
	return headings[s.Rand.Intn(len(headings))]
}

// SplatterBlocked reports whether the sprite store is too full for another
// blood splatter.
func (s *State) SplatterBlocked() bool {
	return s.Sprites.Len() >= s.Sprites.SoftMax()/2
}

// CreateBloodSplatter scatters short-lived blood drops around pos and throws a
// burst of particles. It does nothing and returns false while the sprite store
// is at half its soft maximum or more.
func (s *State) CreateBloodSplatter(pos geom.Vec2i) bool {
	if s.SplatterBlocked() {
		s.log.Debug("blood splatter skipped: sprite store near capacity",
			zap.Int("sprites", s.Sprites.Len()),
			zap.Int("soft_max", s.Sprites.SoftMax()),
		)
		return false
	}

	drop := SpriteSpec{Frames: ".", FG: display.ColorRed, BG: display.ColorBlack}
	const sq = splatterRadius * splatterRadius
	for dx := -splatterRadius; dx <= splatterRadius; dx++ {
		for dy := -splatterRadius; dy <= splatterRadius; dy++ {
			if dx*dx+dy*dy > sq || s.Rand.Intn(5) == 0 {
				continue
			}
			_, e := s.CreateSprite(drop, pos.Add(geom.V(dx, dy)), display.LayerGround)
			e.Life = s.RandInt(dropLifeMin, dropLifeMax)
		}
	}

	particle := SpriteSpec{Frames: "o", FG: display.ColorRed, BG: display.ColorBlack}
	n := s.RandInt(10, 40)
	for i := 0; i < n; i++ {
		_, e := s.CreateSprite(particle, pos, display.LayerParticles)
		e.Life = s.RandInt(particleLifeMin, particleLifeMax)

		speed := s.RandFloat(particleSpeedMin, particleSpeedMax)
		theta := s.RandFloat(-math.Pi, math.Pi)
		pid, ph := s.Physics.Add(component.Physics{
			Entity:   e.ID,
			Type:     component.PhysicsProjectile,
			Position: pos.Float(),
			Velocity: geom.Polar(speed, theta),
		})
		ph.ID = pid
		e.Physics = pid
	}
	return true
}

// CreateBones leaves a red copy of the mob's current glyph where it fell.
func (s *State) CreateBones(m *component.Mob) {
	glyph := "%"
	if spr, ok := s.MobSprite(m); ok {
		glyph = string(spr.Glyph())
	}
	_, e := s.CreateSprite(SpriteSpec{Frames: glyph, FG: display.ColorRed, BG: display.ColorBlack}, m.Position, display.LayerGround)
	e.Life = s.RandInt(bonesLifeMin, bonesLifeMax)
}
