package ecs

// Syncer is implemented by every buffered store so the Registry can flush
// them all at the tick's sync point.
type Syncer interface {
	Sync()
}

type recordState uint8

const (
	recordFree recordState = iota
	recordPending
	recordLive
)

type record[T any] struct {
	value    *T
	state    recordState
	removing bool
}

// Store is a generic buffered store for one record kind.
//
// Add and Remove are deferred: iteration (Values, IDs, Each) always reflects
// the state established by the last Sync, so a system may iterate while other
// code queues additions and removals. Get resolves pending additions too, which
// lets factories wire references between records created in the same tick.
//
// A Store is owned by the simulation goroutine and is not safe for concurrent use.
type Store[T any] struct {
	pool    *SlotPool
	records []record[T]
	adds    []ID
	removes []ID
	liveIDs []ID
	values  []*T
	softMax int
}

func NewStore[T any](softMax int) *Store[T] {
	return &Store[T]{
		pool:    NewSlotPool(softMax),
		records: make([]record[T], 1, softMax+1),
		adds:    make([]ID, 0, 64),
		removes: make([]ID, 0, 64),
		softMax: softMax,
	}
}

// Add stores v in a fresh slot and returns its ID and a pointer to the stored
// record. Both are usable immediately; the record becomes visible to
// iteration at the next Sync.
func (s *Store[T]) Add(v T) (ID, *T) {
	id := s.pool.Allocate()
	slot := id.Slot()
	for int(slot) >= len(s.records) {
		s.records = append(s.records, record[T]{})
	}
	p := new(T)
	*p = v
	s.records[slot] = record[T]{value: p, state: recordPending}
	s.adds = append(s.adds, id)
	return id, p
}

// Remove marks id for removal at the next Sync. Invalid, stale, or already
// marked IDs are ignored.
func (s *Store[T]) Remove(id ID) {
	r := s.resolve(id)
	if r == nil || r.removing {
		return
	}
	r.removing = true
	s.removes = append(s.removes, id)
}

// Get resolves id to its record. It returns false for the invalid ID, for
// stale IDs whose slot was freed by an earlier Sync, and for IDs never issued.
func (s *Store[T]) Get(id ID) (*T, bool) {
	r := s.resolve(id)
	if r == nil {
		return nil, false
	}
	return r.value, true
}

func (s *Store[T]) Has(id ID) bool {
	return s.resolve(id) != nil
}

// Removing reports whether id is live but marked for removal at the next Sync.
func (s *Store[T]) Removing(id ID) bool {
	r := s.resolve(id)
	return r != nil && r.removing
}

func (s *Store[T]) resolve(id ID) *record[T] {
	if !s.pool.Alive(id) {
		return nil
	}
	r := &s.records[id.Slot()]
	if r.state == recordFree {
		return nil
	}
	return r
}

// Values returns the records visible as of the last Sync, in insertion order.
// The slice is never modified after it is returned; Sync builds a new one.
func (s *Store[T]) Values() []*T {
	return s.values
}

// IDs returns the IDs visible as of the last Sync, parallel to Values.
func (s *Store[T]) IDs() []ID {
	return s.liveIDs
}

// Each calls fn for every record visible as of the last Sync.
func (s *Store[T]) Each(fn func(ID, *T)) {
	ids, values := s.liveIDs, s.values
	for i, id := range ids {
		fn(id, values[i])
	}
}

// Len returns the number of records visible as of the last Sync.
func (s *Store[T]) Len() int {
	return len(s.liveIDs)
}

// SoftMax is the advisory capacity spawners check before bulk creation.
// Exceeding it is allowed.
func (s *Store[T]) SoftMax() int {
	return s.softMax
}

// Pending returns the number of buffered additions and removals.
func (s *Store[T]) Pending() (adds, removes int) {
	return len(s.adds), len(s.removes)
}

// Sync applies every buffered addition, then every buffered removal. Removed
// slots get a new generation, so their old IDs stop resolving.
func (s *Store[T]) Sync() {
	if len(s.adds) == 0 && len(s.removes) == 0 {
		return
	}

	for _, id := range s.adds {
		s.records[id.Slot()].state = recordLive
	}

	ids := make([]ID, 0, len(s.liveIDs)+len(s.adds)-len(s.removes))
	values := make([]*T, 0, cap(ids))
	appendLive := func(id ID) {
		r := &s.records[id.Slot()]
		if r.removing {
			return
		}
		ids = append(ids, id)
		values = append(values, r.value)
	}
	for _, id := range s.liveIDs {
		appendLive(id)
	}
	for _, id := range s.adds {
		appendLive(id)
	}

	for _, id := range s.removes {
		s.records[id.Slot()] = record[T]{}
		s.pool.Free(id)
	}

	s.liveIDs = ids
	s.values = values
	s.adds = s.adds[:0]
	s.removes = s.removes[:0]
}
