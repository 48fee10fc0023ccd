package system

import (
	"go.uber.org/zap"

	"github.com/tickworld/server/internal/component"
	"github.com/tickworld/server/internal/core/ecs"
	"github.com/tickworld/server/internal/core/event"
	"github.com/tickworld/server/internal/data"
	"github.com/tickworld/server/internal/geom"
	"github.com/tickworld/server/internal/world"
)

const (
	edgeMargin    = 6 // mobs prefer to stay this far inside the bounds
	flashDuration = 2
	spawnOneInN   = 501
	turnOneInN    = 7
)

// Movement cadence per category, in system updates.
const (
	quickEvery  = 2 // rabbits
	mediumEvery = 3 // snakes
	slowEvery   = 8 // orcs
)

// MobSystem drives non-player mob behavior and resolves walking and combat.
type MobSystem struct {
	world *world.State
	timer int
}

func NewMobSystem(ws *world.State) *MobSystem {
	return &MobSystem{world: ws}
}

func (s *MobSystem) Update() {
	s.timer++
	quick := s.timer%quickEvery == 0
	medium := s.timer%mediumEvery == 0
	slow := s.timer%slowEvery == 0

	for _, m := range s.world.Mobs.Values() {
		if m.Species.Category == data.CategoryPlayer || !m.Alive() {
			continue
		}
		spr, ok := s.world.MobSprite(m)
		if !ok {
			continue
		}

		switch m.Species.Category {
		case data.CategoryRabbit:
			if quick {
				s.updateRabbit(m)
			}
		case data.CategorySnake:
			if medium {
				s.updateSnake(m, spr)
			}
		case data.CategoryOrc:
			if slow {
				s.updateOrc(m)
			}
		}

		spr.Position = m.Position
	}
}

func (s *MobSystem) updateRabbit(m *component.Mob) {
	w := s.world
	if w.Rand.Intn(spawnOneInN) == 0 {
		w.QueueEvent(event.SpawnMob{Type: data.MobRabbit, Position: m.Position})
		return
	}
	dir := s.towardInterior(m.Position)
	if dir.IsZero() {
		dir = geom.V(w.RandInt(-1, 1), w.RandInt(-1, 1))
	}
	w.QueueEvent(event.TryWalk{Mob: m.ID, From: m.Position, To: m.Position.Add(dir)})
}

func (s *MobSystem) updateSnake(m *component.Mob, spr *component.Sprite) {
	w := s.world
	if w.Rand.Intn(turnOneInN) == 0 {
		if m.Dir.X != 0 {
			m.Dir = [...]geom.Vec2i{{Y: 1}, {Y: -1}}[w.Rand.Intn(2)]
		} else {
			m.Dir = [...]geom.Vec2i{{X: 1}, {X: -1}}[w.Rand.Intn(2)]
		}
		if dir := s.towardInterior(m.Position); !dir.IsZero() {
			m.Dir = dir
		}
		return
	}
	spr.SetFrame(snakeFrame(m.Dir))
	w.QueueEvent(event.TryWalk{Mob: m.ID, From: m.Position, To: m.Position.Add(m.Dir)})
}

// snakeFrame picks the body glyph facing dir: up, down, right, left.
func snakeFrame(dir geom.Vec2i) int {
	switch {
	case dir.Y == 1:
		return 0
	case dir.Y == -1:
		return 1
	case dir.X == 1:
		return 2
	case dir.X == -1:
		return 3
	}
	return 0
}

func (s *MobSystem) updateOrc(m *component.Mob) {
	w := s.world
	if w.Rand.Intn(3) == 0 {
		w.Terrain.Set(m.Position, world.TileTrampled)
	}
	dir := s.towardInterior(m.Position)
	if dir.IsZero() {
		if w.Rand.Intn(2) == 0 {
			dir = geom.V(w.RandInt(-1, 1), 0)
		} else {
			dir = geom.V(0, w.RandInt(-1, 1))
		}
	}
	w.QueueEvent(event.TryWalk{Mob: m.ID, From: m.Position, To: m.Position.Add(dir)})
}

// towardInterior points away from the nearest edge when p is within the edge
// margin, and is zero otherwise.
func (s *MobSystem) towardInterior(p geom.Vec2i) geom.Vec2i {
	b := s.world.Bounds
	switch {
	case p.Y > b.Top-edgeMargin:
		return geom.V(0, -1)
	case p.Y < b.Top-b.Height+edgeMargin:
		return geom.V(0, 1)
	case p.X < b.Left+edgeMargin:
		return geom.V(1, 0)
	case p.X > b.Left+b.Width-edgeMargin:
		return geom.V(-1, 0)
	}
	return geom.Vec2i{}
}

func (s *MobSystem) HandleEvent(ev event.Event) {
	switch e := ev.(type) {
	case event.TryWalk:
		s.resolveWalk(e)
	case event.Attack:
		s.resolveAttack(e)
	case event.Remove, event.KillMob, event.SpawnMob, event.Walked:
	}
}

// resolveWalk moves the mob if, at resolution time, it is still alive and the
// destination is inside the bounds and free of other live mobs.
func (s *MobSystem) resolveWalk(ev event.TryWalk) {
	w := s.world
	m, ok := w.Mob(ev.Mob)
	if !ok || !m.Alive() {
		return
	}
	if !w.Bounds.Contains(ev.To) {
		return
	}
	if _, blocked := w.MobAt(ev.To, m.ID); blocked {
		return
	}

	from := m.Position
	m.Position = ev.To
	if spr, ok := w.MobSprite(m); ok {
		spr.Position = m.Position
	}

	switch m.Species.Category {
	case data.CategorySnake:
		if w.Rand.Intn(4) < 3 {
			w.Terrain.Set(m.Position, world.TileTrampled)
		}
	case data.CategoryOrc:
		if w.Rand.Intn(2) == 0 {
			w.Terrain.Set(m.Position, world.TileTrampled)
		}
	}
	s.placeParts(m)

	w.QueueEvent(event.Walked{Mob: m.ID, From: from, To: m.Position})
}

func (s *MobSystem) placeParts(m *component.Mob) {
	for i, id := range [...]ecs.ID{m.ExtraSprite, m.ExtraSprite2} {
		if i >= len(m.Species.Parts) {
			break
		}
		if spr, ok := s.world.Sprite(id); ok {
			spr.Position = world.PartPosition(m, m.Species.Parts[i])
		}
	}
}

// resolveAttack applies the attacker's strength to a live target. A lethal
// hit queues KillMob; anything else flashes the target. Species that do not
// attack deal no damage.
func (s *MobSystem) resolveAttack(ev event.Attack) {
	w := s.world
	attacker, ok := w.Mob(ev.Attacker)
	if !ok || !attacker.Alive() || !attacker.Species.Attacks {
		return
	}
	target, ok := w.Mob(ev.Target)
	if !ok || !target.Alive() {
		return
	}

	target.Health -= attacker.Species.Strength
	if target.Health <= 0 {
		w.Log().Debug("lethal hit",
			zap.Stringer("attacker", attacker.ID),
			zap.Stringer("target", target.ID),
		)
		w.QueueEvent(event.KillMob{Mob: target.ID})
		return
	}

	if spr, ok := w.MobSprite(target); ok {
		spr.FlashTimer = flashDuration
	}
	for _, id := range target.Parts() {
		if spr, ok := w.Sprite(id); ok {
			spr.FlashTimer = flashDuration
		}
	}
}
