package event

import (
	"fmt"

	"github.com/tickworld/server/internal/core/ecs"
	"github.com/tickworld/server/internal/data"
	"github.com/tickworld/server/internal/geom"
)

// Kind tags an Event variant.
type Kind uint8

const (
	KindRemove Kind = iota
	KindKillMob
	KindSpawnMob
	KindTryWalk
	KindWalked
	KindAttack
)

func (k Kind) String() string {
	switch k {
	case KindRemove:
		return "Remove"
	case KindKillMob:
		return "KillMob"
	case KindSpawnMob:
		return "SpawnMob"
	case KindTryWalk:
		return "TryWalk"
	case KindWalked:
		return "Walked"
	case KindAttack:
		return "Attack"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Event is the closed set of world-change requests. Only the variants below
// implement it. Events are plain values with no identity of their own.
type Event interface {
	Kind() Kind
	String() string
	sealed()
}

// Remove schedules an entity, its components and its children for destruction.
type Remove struct {
	Entity ecs.ID
}

// KillMob reports that a mob's health reached zero or it was slain outright.
type KillMob struct {
	Mob ecs.ID
}

// SpawnMob requests a new mob of the given type.
type SpawnMob struct {
	Type     data.MobType
	Position geom.Vec2i
}

// TryWalk is a movement attempt awaiting validation.
type TryWalk struct {
	Mob      ecs.ID
	From, To geom.Vec2i
}

// Walked reports a movement that succeeded.
type Walked struct {
	Mob      ecs.ID
	From, To geom.Vec2i
}

// Attack requests melee resolution of Attacker against Target.
type Attack struct {
	Attacker ecs.ID
	Target   ecs.ID
}

func (Remove) Kind() Kind   { return KindRemove }
func (KillMob) Kind() Kind  { return KindKillMob }
func (SpawnMob) Kind() Kind { return KindSpawnMob }
func (TryWalk) Kind() Kind  { return KindTryWalk }
func (Walked) Kind() Kind   { return KindWalked }
func (Attack) Kind() Kind   { return KindAttack }

func (Remove) sealed()   {}
func (KillMob) sealed()  {}
func (SpawnMob) sealed() {}
func (TryWalk) sealed()  {}
func (Walked) sealed()   {}
func (Attack) sealed()   {}

func (e Remove) String() string   { return fmt.Sprintf("Remove {%s}", e.Entity) }
func (e KillMob) String() string  { return fmt.Sprintf("KillMob {%s}", e.Mob) }
func (e SpawnMob) String() string { return fmt.Sprintf("SpawnMob {%s, %s}", e.Type, e.Position) }
func (e TryWalk) String() string  { return fmt.Sprintf("TryWalk {%s, %s, %s}", e.Mob, e.From, e.To) }
func (e Walked) String() string   { return fmt.Sprintf("Walked {%s, %s, %s}", e.Mob, e.From, e.To) }
func (e Attack) String() string   { return fmt.Sprintf("Attack {%s, %s}", e.Attacker, e.Target) }
