package sim

// History keeps the most recent snapshots up to a fixed capacity.
// When full, the oldest entry drops first.
type History struct {
	capacity int
	entries  []Snapshot
}

func NewHistory(capacity int) *History {
	return &History{
		capacity: capacity,
		entries:  make([]Snapshot, 0, capacity),
	}
}

func (h *History) Push(snap Snapshot) {
	h.entries = append(h.entries, snap)
	if len(h.entries) > h.capacity {
		h.entries = h.entries[len(h.entries)-h.capacity:]
	}
}

func (h *History) Len() int {
	return len(h.entries)
}

func (h *History) Capacity() int {
	return h.capacity
}

// Snapshots returns a copy of the retained entries, oldest first.
func (h *History) Snapshots() []Snapshot {
	out := make([]Snapshot, len(h.entries))
	copy(out, h.entries)
	return out
}

// Latest returns the most recent entry, if any.
func (h *History) Latest() (Snapshot, bool) {
	if len(h.entries) == 0 {
		return Snapshot{}, false
	}
	return h.entries[len(h.entries)-1], true
}
