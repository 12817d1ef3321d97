package logic

import "time"

// Slot is one physical parking space: a name and its debounced sensor
// channel. Identity travels with the value, not with parallel arrays.
type Slot struct {
	Name    string
	Channel Channel
}

// Lot aggregates the per-slot channels into occupancy counts. The counts
// are always recomputed from the slot array in full; there is no
// incremental update path, so they cannot drift from the slots.
type Lot struct {
	slots    []Slot
	occupied int
}

// NewLot creates a lot from an ordered sequence of slots. The slice is
// owned by the lot afterwards. All slots start vacant.
func NewLot(slots []Slot) *Lot {
	return &Lot{slots: slots}
}

// Sample feeds one raw sensor level into the indexed slot. On a committed
// edge the occupancy counts are recomputed.
func (l *Lot) Sample(i int, level bool, now time.Time) (Edge, bool) {
	edge, ok := l.slots[i].Channel.Sample(level, now)
	if ok {
		l.recount()
	}
	return edge, ok
}

func (l *Lot) recount() {
	n := 0
	for i := range l.slots {
		if l.slots[i].Channel.Stable() {
			n++
		}
	}
	l.occupied = n
}

// SlotCount returns the number of slots in the lot.
func (l *Lot) SlotCount() int {
	return len(l.slots)
}

// Occupied returns the number of slots whose stable state is occupied.
func (l *Lot) Occupied() int {
	return l.occupied
}

// Available returns the number of vacant slots.
func (l *Lot) Available() int {
	return len(l.slots) - l.occupied
}

// SlotName returns the name of the indexed slot.
func (l *Lot) SlotName(i int) string {
	return l.slots[i].Name
}

// Snapshot returns a read-only copy of the occupancy model.
func (l *Lot) Snapshot() LotSnapshot {
	snap := LotSnapshot{
		SlotCount: len(l.slots),
		Occupied:  l.occupied,
		Available: len(l.slots) - l.occupied,
		Slots:     make([]SlotState, len(l.slots)),
	}
	for i := range l.slots {
		snap.Slots[i] = SlotState{
			Name:     l.slots[i].Name,
			Occupied: l.slots[i].Channel.Stable(),
		}
	}
	return snap
}

// Reset returns every slot to vacant and recounts.
func (l *Lot) Reset(now time.Time) {
	for i := range l.slots {
		l.slots[i].Channel.Reset(now)
	}
	l.recount()
}
