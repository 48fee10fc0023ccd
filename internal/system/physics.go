package system

import (
	"github.com/tickworld/server/internal/component"
	"github.com/tickworld/server/internal/core/event"
	"github.com/tickworld/server/internal/world"
)

// Drag is the per-tick velocity retention of projectiles.
const Drag = 0.85

// PhysicsSystem integrates real-valued bodies and pins their sprites to the
// nearest cell.
type PhysicsSystem struct {
	world *world.State
}

func NewPhysicsSystem(ws *world.State) *PhysicsSystem {
	return &PhysicsSystem{world: ws}
}

func (s *PhysicsSystem) Update() {
	for _, ph := range s.world.Physics.Values() {
		if ph.Type != component.PhysicsProjectile {
			continue
		}
		ph.Position = ph.Position.Add(ph.Velocity)
		ph.Velocity = ph.Velocity.Scale(Drag)

		e, ok := s.world.Entity(ph.Entity)
		if !ok {
			continue
		}
		if spr, ok := s.world.Sprite(e.Sprite); ok {
			spr.Position = ph.Position.Round()
		}
	}
}

func (s *PhysicsSystem) HandleEvent(event.Event) {}
