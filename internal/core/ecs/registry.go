package ecs

// Registry tracks every buffered store so the simulation loop can flush them
// all at its single sync point.
type Registry struct {
	stores []Syncer
}

func NewRegistry() *Registry {
	return &Registry{
		stores: make([]Syncer, 0, 8),
	}
}

// Register adds a store. Stores are synced in registration order.
func (r *Registry) Register(store Syncer) {
	r.stores = append(r.stores, store)
}

// SyncAll flushes the pending operations of every registered store.
func (r *Registry) SyncAll() {
	for _, s := range r.stores {
		s.Sync()
	}
}
