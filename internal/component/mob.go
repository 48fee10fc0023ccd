package component

import (
	"github.com/tickworld/server/internal/core/ecs"
	"github.com/tickworld/server/internal/data"
	"github.com/tickworld/server/internal/geom"
)

// Mob is a living creature on the grid. Entity is a back-reference to the
// owning entity and is never used for lifetime decisions.
type Mob struct {
	ID           ecs.ID
	Entity       ecs.ID
	Species      *data.Species
	Health       int
	Position     geom.Vec2i
	Dir          geom.Vec2i
	ExtraSprite  ecs.ID
	ExtraSprite2 ecs.ID
	Dying        bool // set once its kill has been processed
}

// Alive reports whether the mob can still act, move and be targeted.
func (m *Mob) Alive() bool {
	return !m.Dying && m.Health > 0
}

// Parts returns the non-zero part sprite IDs.
func (m *Mob) Parts() []ecs.ID {
	parts := make([]ecs.ID, 0, data.MaxParts)
	for _, id := range [...]ecs.ID{m.ExtraSprite, m.ExtraSprite2} {
		if !id.IsZero() {
			parts = append(parts, id)
		}
	}
	return parts
}
