package catalog

import "sync/atomic"

// Holder shares one Snapshot between concurrent readers and writers.
// Replacement is an atomic pointer swap: a reader always observes either the
// old or the new snapshot in its entirety, and does not hold any lock while
// scoring against the captured value.
type Holder struct {
	current atomic.Pointer[Snapshot]
}

// NewHolder creates a Holder seeded with an empty snapshot.
func NewHolder() *Holder {
	h := &Holder{}
	empty := EmptySnapshot()
	h.current.Store(&empty)
	return h
}

// Snapshot returns the current snapshot value.
func (h *Holder) Snapshot() Snapshot {
	return *h.current.Load()
}

// Replace swaps in a new snapshot. Last writer wins.
func (h *Holder) Replace(s Snapshot) {
	h.current.Store(&s)
}
