package event

// DefaultLogWindow is how many ticks a drained event stays in the diagnostic log.
const DefaultLogWindow = 20

// LogEntry is one drained event, kept for diagnostics.
type LogEntry struct {
	Tick int
	Text string
}

// Bus is a double-buffered event queue. Events queued during tick N are
// drained during tick N's drain phase; events queued while draining land in
// the other buffer and are drained one tick later, so every chain advances
// at most one hop per tick.
//
// Accessed only from the simulation goroutine, no locks needed.
type Bus struct {
	buffers [2][]Event
	current int
	log     []LogEntry
	window  int
}

func NewBus(window int) *Bus {
	if window <= 0 {
		window = DefaultLogWindow
	}
	return &Bus{
		buffers: [2][]Event{make([]Event, 0, 256), make([]Event, 0, 256)},
		log:     make([]LogEntry, 0, 256),
		window:  window,
	}
}

// Queue appends ev to the current write buffer.
func (b *Bus) Queue(ev Event) {
	b.buffers[b.current] = append(b.buffers[b.current], ev)
}

// Pending returns the number of events waiting in the write buffer.
func (b *Bus) Pending() int {
	return len(b.buffers[b.current])
}

// Drain swaps buffers once, then hands every event of the previous write
// buffer to fn in queue order, recording each in the diagnostic log under
// tick. It returns the number of events drained.
func (b *Bus) Drain(tick int, fn func(Event)) int {
	drained := b.current
	b.current = 1 - b.current

	events := b.buffers[drained]
	for i, ev := range events {
		b.log = append(b.log, LogEntry{Tick: tick, Text: ev.String()})
		fn(ev)
		events[i] = nil
	}
	b.buffers[drained] = events[:0]
	return len(events)
}

// Prune drops log entries drained more than the window before tick.
func (b *Bus) Prune(tick int) {
	n := 0
	for n < len(b.log) && tick > b.log[n].Tick+b.window {
		n++
	}
	if n == 0 {
		return
	}
	b.log = append(b.log[:0], b.log[n:]...)
}

// Log returns the retained diagnostic entries, oldest first.
func (b *Bus) Log() []LogEntry {
	return b.log
}
