package system

import "github.com/tickworld/server/internal/core/event"

// Runner executes systems in registration order.
type Runner struct {
	systems   []System
	freezable []bool
}

func NewRunner() *Runner {
	return &Runner{
		systems:   make([]System, 0, 8),
		freezable: make([]bool, 0, 8),
	}
}

// Register adds a system that updates on every tick.
func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.freezable = append(r.freezable, false)
}

// RegisterFreezable adds a system whose Update is skipped by UpdateFrozen.
// It still receives every event.
func (r *Runner) RegisterFreezable(s System) {
	r.systems = append(r.systems, s)
	r.freezable = append(r.freezable, true)
}

// Update runs every system's per-tick logic.
func (r *Runner) Update() {
	for _, s := range r.systems {
		s.Update()
	}
}

// UpdateFrozen runs the per-tick logic of the systems not registered as
// freezable, in registration order.
func (r *Runner) UpdateFrozen() {
	for i, s := range r.systems {
		if !r.freezable[i] {
			s.Update()
		}
	}
}

// Dispatch gives every system a chance to react to ev.
func (r *Runner) Dispatch(ev event.Event) {
	for _, s := range r.systems {
		s.HandleEvent(ev)
	}
}

// Systems returns the registered systems in order.
func (r *Runner) Systems() []System {
	return r.systems
}
