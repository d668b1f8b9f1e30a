package borghash

// Stats are diagnostic counters accumulated over the lifetime of a table.
// They are observability state, not structural invariants: Clear leaves them
// alone and they are not persisted.
type Stats struct {
	// Get, Set and Del count the public calls of the corresponding
	// operation, whether or not the call succeeded.
	Get uint64
	Set uint64
	Del uint64
	// Iter counts whole Items traversals, not yielded pairs.
	Iter uint64
	// Lookup counts slot resolutions, Linear the probe steps those
	// resolutions took beyond the home slot.
	Lookup uint64
	Linear uint64
	// ResizeTable counts full rehashes of the slot array in either
	// direction, ResizeKV counts capacity extensions of the dense key and
	// value buffers.
	ResizeTable uint64
	ResizeKV    uint64
}

// Stats returns a snapshot of the table counters.
func (t *HashTable) Stats() Stats {
	return t.stats
}
