package borghash

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/borgbackup/borghash/arena"
)

// HashTable maps fixed-length byte keys to fixed-length byte values. Keys
// are assumed to be well distributed (digests or similar), the table takes
// no hash function of its own and projects the first 4 key bytes straight
// onto a slot index.
//
// Entries live in two dense, append-only buffers (one for keys, one for
// values) and are addressed by a 32-bit kv-index that stays stable for the
// resident lifetime of the entry, across any resize and any unrelated
// mutation. The slot array maps probe sequences to kv-indices and is the
// only structure rehashed on resize.
//
// A table is owned by a single goroutine, concurrent mutation is undefined.
type HashTable struct {
	keySize   int
	valueSize int
	opts      tableOptions

	slots      []uint32
	used       uint32
	tombstones uint32

	keys   *arena.Arena
	values *arena.Arena

	stats Stats
}

// Item is a key/value pair, used to seed a table from existing entries.
type Item struct {
	Key   []byte
	Value []byte
}

// New creates an empty table for keys of keySize bytes and values of
// valueSize bytes.
func New(keySize, valueSize int, opts ...Option) (*HashTable, error) {
	if keySize < 4 {
		return nil, ErrBadKeySize
	}
	if valueSize < 1 {
		return nil, ErrBadValueSize
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	if o.capacity > MaxKVIndex {
		o.capacity = MaxKVIndex
	}
	if o.valueLayout == "" {
		o.valueLayout = fmt.Sprintf("B%d", valueSize)
	}

	keys, err := arena.New(keySize, o.capacity)
	if err != nil {
		return nil, err
	}
	values, err := arena.New(valueSize, o.capacity)
	if err != nil {
		return nil, err
	}
	return &HashTable{
		keySize:   keySize,
		valueSize: valueSize,
		opts:      o,
		slots:     newSlots(slotCapacityFor(o.capacity, o.maxLoadFactor)),
		keys:      keys,
		values:    values,
	}, nil
}

// NewFromItems creates a table seeded with the given items, inserted in
// slice order.
func NewFromItems(keySize, valueSize int, items []Item, opts ...Option) (*HashTable, error) {
	t, err := New(keySize, valueSize, opts...)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if err := t.Set(it.Key, it.Value); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// KeySize returns the fixed key length in bytes.
func (t *HashTable) KeySize() int {
	return t.keySize
}

// ValueSize returns the fixed value length in bytes.
func (t *HashTable) ValueSize() int {
	return t.valueSize
}

// ValueLayout returns the opaque value layout descriptor carried by this
// table.
func (t *HashTable) ValueLayout() string {
	return t.opts.valueLayout
}

// Len returns the number of live entries.
func (t *HashTable) Len() int {
	return int(t.used)
}

// SlotCapacity returns the current size of the slot array. Diagnostic, it
// changes with resize.
func (t *HashTable) SlotCapacity() uint32 {
	return uint32(len(t.slots))
}

// KVUsed returns the number of kv-indices handed out so far, including
// those of deleted entries. It only ever grows while the table is resident,
// Clear excepted.
func (t *HashTable) KVUsed() uint32 {
	return t.keys.Len()
}

// resolve finds the slot for key: (true, slot) when the key is stored
// there, (false, slot) with the free slot an insertion would use. Probing
// is linear with wraparound. Tombstones are stepped over but count as
// occupied, matching is always on the full key bytes, never on the 4-byte
// prefix alone.
func (t *HashTable) resolve(key []byte) (bool, uint32) {
	t.stats.Lookup++
	capacity := uint32(len(t.slots))
	i := homeSlot(key, capacity)
	for {
		v := t.slots[i]
		switch slotState(v) {
		case SlotFree:
			return false, i
		case SlotOccupied:
			if bytes.Equal(t.keys.Record(v), key) {
				return true, i
			}
		}
		t.stats.Linear++
		i++
		if i == capacity {
			i = 0
		}
	}
}

// Set stores value under key, overwriting in place when the key is already
// present. Present keys keep their kv-index.
func (t *HashTable) Set(key, value []byte) error {
	if len(key) != t.keySize {
		return ErrKeySize
	}
	if len(value) != t.valueSize {
		return ErrValueSize
	}
	t.stats.Set++

	t.ensureFreeSlot()
	found, slot := t.resolve(key)
	if found {
		copy(t.values.Record(t.slots[slot]), value)
		return nil
	}
	return t.insert(slot, key, value)
}

// insert appends key and value at the next kv-index and occupies the
// resolved free slot. Callers have validated lengths and resolved slot on
// the current slot array.
func (t *HashTable) insert(slot uint32, key, value []byte) error {
	if t.keys.Len() == t.keys.Cap() {
		if err := t.growKV(); err != nil {
			return err
		}
	}
	idx, err := t.keys.Append(key)
	if err != nil {
		return err
	}
	if _, err := t.values.Append(value); err != nil {
		return err
	}
	t.slots[slot] = idx
	t.used++

	capacity := uint32(len(t.slots))
	if float64(t.used+t.tombstones)/float64(capacity) > t.opts.maxLoadFactor {
		t.growTable()
	}
	return nil
}

// Get returns a copy of the value stored under key, or ErrNotFound.
func (t *HashTable) Get(key []byte) ([]byte, error) {
	if len(key) != t.keySize {
		return nil, ErrKeySize
	}
	t.stats.Get++
	found, slot := t.resolve(key)
	if !found {
		return nil, ErrNotFound
	}
	return bytes.Clone(t.values.Record(t.slots[slot])), nil
}

// GetDefault is Get, returning def instead of ErrNotFound for an absent
// key.
func (t *HashTable) GetDefault(key, def []byte) ([]byte, error) {
	v, err := t.Get(key)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	return v, err
}

// Contains reports whether key is stored. A key of the wrong length is
// never stored.
func (t *HashTable) Contains(key []byte) bool {
	if len(key) != t.keySize {
		return false
	}
	found, _ := t.resolve(key)
	return found
}

// Delete removes the entry for key. The entry bytes are zeroed and its
// slot tombstoned, the kv-index is not reused while the table is resident.
func (t *HashTable) Delete(key []byte) error {
	if len(key) != t.keySize {
		return ErrKeySize
	}
	t.stats.Del++
	found, slot := t.resolve(key)
	if !found {
		return ErrNotFound
	}
	t.deleteAt(slot)
	return nil
}

func (t *HashTable) deleteAt(slot uint32) {
	idx := t.slots[slot]
	t.keys.Zero(idx)
	t.values.Zero(idx)
	t.slots[slot] = tombstoneSlot
	t.used--
	t.tombstones++

	capacity := uint32(len(t.slots))
	if float64(t.used)/float64(capacity) < t.opts.minLoadFactor {
		t.shrinkTable()
	}
}

// Pop removes the entry for key and returns a copy of its value, or
// ErrNotFound.
func (t *HashTable) Pop(key []byte) ([]byte, error) {
	if len(key) != t.keySize {
		return nil, ErrKeySize
	}
	t.stats.Del++
	found, slot := t.resolve(key)
	if !found {
		return nil, ErrNotFound
	}
	v := bytes.Clone(t.values.Record(t.slots[slot]))
	t.deleteAt(slot)
	return v, nil
}

// PopDefault is Pop, returning def instead of ErrNotFound for an absent
// key.
func (t *HashTable) PopDefault(key, def []byte) ([]byte, error) {
	v, err := t.Pop(key)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	return v, err
}

// SetDefault inserts value only when key is absent and returns a copy of
// the value stored under key either way.
func (t *HashTable) SetDefault(key, value []byte) ([]byte, error) {
	if len(key) != t.keySize {
		return nil, ErrKeySize
	}
	if len(value) != t.valueSize {
		return nil, ErrValueSize
	}
	t.stats.Set++

	t.ensureFreeSlot()
	found, slot := t.resolve(key)
	if found {
		return bytes.Clone(t.values.Record(t.slots[slot])), nil
	}
	if err := t.insert(slot, key, value); err != nil {
		return nil, err
	}
	return bytes.Clone(value), nil
}

// Clear discards all entries and reallocates both the slot array and the
// dense buffers at their initial capacities. Every previously issued
// kv-index is invalid afterwards. Stats are not reset.
func (t *HashTable) Clear() {
	t.keys.Reset(t.opts.capacity)
	t.values.Reset(t.opts.capacity)
	t.slots = newSlots(slotCapacityFor(t.opts.capacity, t.opts.maxLoadFactor))
	t.used = 0
	t.tombstones = 0
}

// Items calls fn for every live entry, scanning the slot array from slot 0.
// The order is an artifact of the current capacity and key distribution,
// not insertion order, and is not stable across resizes. The key and value
// slices are views into the dense buffers, valid only for the duration of
// the call, fn must copy what it keeps. Returning false stops the
// traversal.
func (t *HashTable) Items(fn func(key, value []byte) bool) {
	t.stats.Iter++
	for _, v := range t.slots {
		if slotState(v) != SlotOccupied {
			continue
		}
		if !fn(t.keys.Record(v), t.values.Record(v)) {
			return
		}
	}
}

// KeyToIndex returns the kv-index of key, a compact handle that stays
// stable until the table is cleared or reloaded from a stream.
func (t *HashTable) KeyToIndex(key []byte) (uint32, error) {
	if len(key) != t.keySize {
		return 0, ErrKeySize
	}
	found, slot := t.resolve(key)
	if !found {
		return 0, ErrNotFound
	}
	return t.slots[slot], nil
}

// KVToIndex is KeyToIndex, additionally requiring the stored value to
// equal value.
func (t *HashTable) KVToIndex(key, value []byte) (uint32, error) {
	if len(key) != t.keySize {
		return 0, ErrKeySize
	}
	if len(value) != t.valueSize {
		return 0, ErrValueSize
	}
	found, slot := t.resolve(key)
	if !found {
		return 0, ErrNotFound
	}
	idx := t.slots[slot]
	if !bytes.Equal(t.values.Record(idx), value) {
		return 0, ErrNotFound
	}
	return idx, nil
}

// IndexToKey returns a view of the key bytes at idx. No liveness or range
// validation is performed: idx must have been obtained from this table
// since the last Clear, anything else is undefined. The view is valid only
// until the next mutation.
func (t *HashTable) IndexToKey(idx uint32) []byte {
	return t.keys.Record(idx)
}

// IndexToKV returns views of the key and value bytes at idx, under the
// same contract as IndexToKey.
func (t *HashTable) IndexToKV(idx uint32) ([]byte, []byte) {
	return t.keys.Record(idx), t.values.Record(idx)
}
