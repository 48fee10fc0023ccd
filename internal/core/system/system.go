package system

import (
	"github.com/tickworld/server/internal/core/event"
	"github.com/tickworld/server/internal/display"
)

// System is the interface every simulation system implements.
//
// Update runs once per simulation tick before the event drain. It may mutate
// records already visible in the stores and queue events, but must never sync
// stores or drain the bus itself.
//
// HandleEvent runs once per drained event, after the built-in reaction. It must
// ignore kinds it does not care about and treat stale IDs as already gone.
type System interface {
	Update()
	HandleEvent(ev event.Event)
}

// Drawer is implemented by systems that paint a frame. Drawing is decoupled
// from ticking and may run at a different rate.
type Drawer interface {
	Draw(d display.Display)
}
