package ecs

import "fmt"

// ID encodes a 32-bit slot in the lower bits and a 32-bit generation in the
// upper bits. The generation advances when a slot is freed, so an ID kept
// across a removal no longer resolves once its slot is reused.
//
// The zero ID is the invalid sentinel. Slot 0 is never handed out.
type ID uint64

// Invalid is the sentinel ID that never resolves.
const Invalid ID = 0

func NewID(slot uint32, generation uint32) ID {
	return ID(uint64(generation)<<32 | uint64(slot))
}

func (id ID) Slot() uint32       { return uint32(id) }
func (id ID) Generation() uint32 { return uint32(id >> 32) }
func (id ID) IsZero() bool       { return id == Invalid }

func (id ID) String() string {
	if id.IsZero() {
		return "#invalid"
	}
	return fmt.Sprintf("#%d.%d", id.Slot(), id.Generation())
}

// SlotPool manages slot allocation with generational indices and a free list.
type SlotPool struct {
	generations []uint32
	freeList    []uint32
	nextSlot    uint32
}

func NewSlotPool(capacity int) *SlotPool {
	p := &SlotPool{
		generations: make([]uint32, 1, capacity+1),
		freeList:    make([]uint32, 0, capacity/4),
		nextSlot:    1,
	}
	return p
}

// Allocate returns a fresh ID, reusing the most recently freed slot first.
func (p *SlotPool) Allocate() ID {
	if len(p.freeList) > 0 {
		slot := p.freeList[len(p.freeList)-1]
		p.freeList = p.freeList[:len(p.freeList)-1]
		return NewID(slot, p.generations[slot])
	}
	slot := p.nextSlot
	p.nextSlot++
	if int(slot) >= len(p.generations) {
		p.generations = append(p.generations, 0)
	}
	return NewID(slot, p.generations[slot])
}

// Alive reports whether id names the current generation of an allocated slot.
func (p *SlotPool) Alive(id ID) bool {
	slot := id.Slot()
	if slot == 0 || slot >= p.nextSlot {
		return false
	}
	return p.generations[slot] == id.Generation()
}

// Free advances the slot's generation and returns it to the free list.
// Freeing a stale ID is a no-op.
func (p *SlotPool) Free(id ID) bool {
	if !p.Alive(id) {
		return false
	}
	slot := id.Slot()
	p.generations[slot]++
	p.freeList = append(p.freeList, slot)
	return true
}

// Slots returns the number of slots ever allocated (live or free).
func (p *SlotPool) Slots() int {
	return int(p.nextSlot) - 1
}
