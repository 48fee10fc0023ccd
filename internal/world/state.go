package world

import (
	"math/rand"

	"go.uber.org/zap"

	"github.com/tickworld/server/internal/component"
	"github.com/tickworld/server/internal/config"
	"github.com/tickworld/server/internal/core/ecs"
	"github.com/tickworld/server/internal/core/event"
	"github.com/tickworld/server/internal/data"
	"github.com/tickworld/server/internal/geom"
)

// State holds the whole simulated world: the four buffered stores, the event
// bus, the terrain and the camera.
// Accessed only from the simulation goroutine, no locks needed.
type State struct {
	Bounds geom.Rect

	Entities *ecs.Store[component.Entity]
	Mobs     *ecs.Store[component.Mob]
	Sprites  *ecs.Store[component.Sprite]
	Physics  *ecs.Store[component.Physics]

	Bus     *event.Bus
	Terrain *Terrain
	Camera  Camera
	Species *data.SpeciesTable

	// Player is the entity driven by input. Invalid until a scenario sets it.
	Player ecs.ID

	Rand *rand.Rand

	registry *ecs.Registry
	log      *zap.Logger
}

func NewState(cfg config.WorldConfig, logWindow int, species *data.SpeciesTable, rng *rand.Rand, log *zap.Logger) *State {
	bounds := geom.Rect{Left: cfg.Left, Top: cfg.Top, Width: cfg.Width, Height: cfg.Height}
	s := &State{
		Bounds:   bounds,
		Entities: ecs.NewStore[component.Entity](cfg.SoftMaxEntities),
		Mobs:     ecs.NewStore[component.Mob](cfg.SoftMaxMobs),
		Sprites:  ecs.NewStore[component.Sprite](cfg.SoftMaxSprites),
		Physics:  ecs.NewStore[component.Physics](cfg.SoftMaxPhysics),
		Bus:      event.NewBus(logWindow),
		Terrain:  NewTerrain(bounds, TileFlat),
		Species:  species,
		Rand:     rng,
		registry: ecs.NewRegistry(),
		log:      log,
	}
	s.registry.Register(s.Entities)
	s.registry.Register(s.Mobs)
	s.registry.Register(s.Sprites)
	s.registry.Register(s.Physics)
	return s
}

// Log returns the world's logger.
func (s *State) Log() *zap.Logger { return s.log }

// QueueEvent appends ev to the bus's current write buffer.
func (s *State) QueueEvent(ev event.Event) {
	s.Bus.Queue(ev)
}

// Sync flushes every store's pending additions and removals.
// Only the simulation loop and one-time scenario setup call it.
func (s *State) Sync() {
	s.registry.SyncAll()
}

func (s *State) Entity(id ecs.ID) (*component.Entity, bool) { return s.Entities.Get(id) }
func (s *State) Mob(id ecs.ID) (*component.Mob, bool)       { return s.Mobs.Get(id) }
func (s *State) Sprite(id ecs.ID) (*component.Sprite, bool) { return s.Sprites.Get(id) }

// MobSprite resolves the body sprite of a mob through its entity.
func (s *State) MobSprite(m *component.Mob) (*component.Sprite, bool) {
	e, ok := s.Entities.Get(m.Entity)
	if !ok {
		return nil, false
	}
	return s.Sprites.Get(e.Sprite)
}

// PlayerMob resolves the player's mob, if the player is still alive.
func (s *State) PlayerMob() (*component.Mob, bool) {
	e, ok := s.Entities.Get(s.Player)
	if !ok {
		return nil, false
	}
	return s.Mobs.Get(e.Mob)
}

// MobAt returns a live mob other than exclude standing on p. Only mobs
// visible since the last sync are considered.
func (s *State) MobAt(p geom.Vec2i, exclude ecs.ID) (*component.Mob, bool) {
	for _, m := range s.Mobs.Values() {
		if m.ID != exclude && m.Position == p && m.Alive() {
			return m, true
		}
	}
	return nil, false
}

// RandInt returns a uniform integer in [lo, hi].
func (s *State) RandInt(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.Rand.Intn(hi-lo+1)
}

// RandFloat returns a uniform float in [lo, hi).
func (s *State) RandFloat(lo, hi float64) float64 {
	return lo + s.Rand.Float64()*(hi-lo)
}

// RandomCell returns a uniform cell inside the world bounds.
func (s *State) RandomCell() geom.Vec2i {
	b := s.Bounds
	return geom.V(s.RandInt(b.Left, b.Right()), s.RandInt(b.Bottom(), b.Top))
}

// Live reports whether an entity still resolves and is not already marked for
// removal at the next sync.
func (s *State) Live(entity ecs.ID) bool {
	return s.Entities.Has(entity) && !s.Entities.Removing(entity)
}
