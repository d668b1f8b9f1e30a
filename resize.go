package borghash

import "math"

// slotCapacityFor returns the slot array size at which entries live
// entries stay under maxLoad, floored at MinCapacity.
func slotCapacityFor(entries uint32, maxLoad float64) uint32 {
	c := uint64(math.Ceil(float64(entries) / maxLoad))
	if c < uint64(MinCapacity) {
		c = uint64(MinCapacity)
	}
	if c > math.MaxUint32 {
		c = math.MaxUint32
	}
	return uint32(c)
}

// ensureFreeSlot keeps the probe loop terminating: resolve requires at
// least one free slot in the array. With the default load factors growth
// triggers long before this does, it only fires for extreme option
// combinations.
func (t *HashTable) ensureFreeSlot() {
	capacity := uint32(len(t.slots))
	if t.used+t.tombstones+1 >= capacity {
		t.growTable()
	}
}

func (t *HashTable) growTable() {
	capacity := uint32(len(t.slots))
	newCap := uint64(float64(capacity) * t.opts.growFactor)
	if newCap <= uint64(capacity) {
		newCap = uint64(capacity) + 1
	}
	if newCap > math.MaxUint32 {
		newCap = math.MaxUint32
	}
	if uint32(newCap) == capacity {
		return
	}
	t.rehash(uint32(newCap))
}

func (t *HashTable) shrinkTable() {
	capacity := uint32(len(t.slots))
	newCap := uint32(float64(capacity) * t.opts.shrinkFactor)
	if newCap < MinCapacity {
		newCap = MinCapacity
	}
	if newCap >= capacity {
		return
	}
	t.rehash(newCap)
}

// rehash reseats every live kv-index in a fresh slot array of the given
// capacity. Tombstones are not carried over, a rehash in either direction
// reclaims all tombstone slack. kv-indices and the dense buffers are
// untouched.
func (t *HashTable) rehash(newCap uint32) {
	t.stats.ResizeTable++
	old := t.slots
	t.slots = newSlots(newCap)
	for _, v := range old {
		if slotState(v) != SlotOccupied {
			continue
		}
		i := homeSlot(t.keys.Record(v), newCap)
		for t.slots[i] != freeSlot {
			i++
			if i == newCap {
				i = 0
			}
		}
		t.slots[i] = v
	}
	t.tombstones = 0
	t.opts.log.Debugf("rehash: capacity %d -> %d, used=%d", len(old), newCap, t.used)
}

// growKV extends both dense buffers in place, preserving every existing
// kv-index. Capacity is clamped to the reserved index ceiling, a table
// that has handed out MaxKVIndex indices cannot take more entries.
func (t *HashTable) growKV() error {
	capacity := t.keys.Cap()
	if capacity >= MaxKVIndex {
		return ErrTableFull
	}
	newCap64 := uint64(float64(capacity) * t.opts.kvGrowFactor)
	if newCap64 <= uint64(capacity) {
		newCap64 = uint64(capacity) + 1
	}
	if newCap64 > uint64(MaxKVIndex) {
		newCap64 = uint64(MaxKVIndex)
	}
	newCap := uint32(newCap64)

	t.stats.ResizeKV++
	t.keys.Grow(newCap)
	t.values.Grow(newCap)
	t.opts.log.Debugf("grow kv: capacity %d -> %d, used=%d", capacity, newCap, t.keys.Len())
	return nil
}
