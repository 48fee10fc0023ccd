package component

import "github.com/tickworld/server/internal/core/ecs"

// Entity groups at most one component of each kind plus owned children.
// Removing an entity removes its components and, transitively, its children.
type Entity struct {
	ID       ecs.ID
	Mob      ecs.ID
	Sprite   ecs.ID
	Physics  ecs.ID
	Children []ecs.ID
	Age      int
	Life     int // ticks until expiry; 0 = immortal
}

// AddChild records child as owned by e. Children form an ordered set.
func (e *Entity) AddChild(child ecs.ID) {
	if child.IsZero() || child == e.ID {
		return
	}
	for _, c := range e.Children {
		if c == child {
			return
		}
	}
	e.Children = append(e.Children, child)
}

// Expired reports whether a finite-life entity has reached its lifespan.
func (e *Entity) Expired() bool {
	return e.Life > 0 && e.Age >= e.Life
}
