package borghash

import "encoding/binary"

const (
	// MaxKVIndex is the reserved index ceiling. kv-indices in
	// [MaxKVIndex, 1<<32) are never assigned to entries, which keeps the
	// slot sentinels out of the usable range and caps the number of pairs a
	// resident table can ever have appended.
	MaxKVIndex uint32 = 0xffffff00

	// MinCapacity is the floor for the slot array, shrinking never goes
	// below it.
	MinCapacity uint32 = 8

	freeSlot      uint32 = 0xffffffff
	tombstoneSlot uint32 = 0xfffffffe
)

// SlotState classifies the content of one index-table slot. Raw sentinel
// values never cross the package boundary.
type SlotState uint8

const (
	SlotFree SlotState = iota
	SlotTombstone
	SlotOccupied
)

func slotState(v uint32) SlotState {
	switch v {
	case freeSlot:
		return SlotFree
	case tombstoneSlot:
		return SlotTombstone
	default:
		return SlotOccupied
	}
}

// newSlots allocates a slot array of the given capacity with every slot
// free.
func newSlots(capacity uint32) []uint32 {
	slots := make([]uint32, capacity)
	for i := range slots {
		slots[i] = freeSlot
	}
	return slots
}

// homeSlot projects a key onto its home slot. The first 4 key bytes are
// trusted as a well-distributed hash and read as a big-endian uint32, the
// table takes no independent hash function.
func homeSlot(key []byte, capacity uint32) uint32 {
	return binary.BigEndian.Uint32(key[:4]) % capacity
}
