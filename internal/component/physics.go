package component

import (
	"github.com/tickworld/server/internal/core/ecs"
	"github.com/tickworld/server/internal/geom"
)

// PhysicsType selects how the physics system integrates a body.
type PhysicsType uint8

const (
	PhysicsStatic PhysicsType = iota
	PhysicsProjectile
)

func (t PhysicsType) String() string {
	switch t {
	case PhysicsProjectile:
		return "projectile"
	default:
		return "static"
	}
}

// Physics is a real-valued body, used for sub-cell motion such as particles.
type Physics struct {
	ID       ecs.ID
	Entity   ecs.ID
	Type     PhysicsType
	Position geom.Vec2d
	Velocity geom.Vec2d
}
