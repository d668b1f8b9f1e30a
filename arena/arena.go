// Package arena provides a growable store of fixed-width byte records
// addressed by a 32-bit record index.
//
// Records live contiguously in a single flat buffer:
//
//	+----------+----------+----------+---   ---+
//	| record 0 | record 1 | record 2 |   ...   |
//	+----------+----------+----------+---   ---+
//	|<- width->|
//
// Indices are assigned sequentially by Append and are never reassigned or
// reclaimed: growing the arena extends the buffer in place, so the byte
// offset of every existing record is preserved. Released records are zeroed
// with Zero but keep their index occupied until the arena is Reset.
package arena

import "errors"

var (
	ErrBadWidth      = errors.New("arena: record width must be greater than zero")
	ErrBadRecordSize = errors.New("arena: record length does not match the arena width")
	ErrFull          = errors.New("arena: capacity exhausted")
)

// Arena is a dense array of fixed-width byte records. The zero value is not
// usable, use New.
type Arena struct {
	width int
	used  uint32
	cap   uint32
	buf   []byte
}

// New creates an arena for records of the given byte width, with room for
// capacity records before Grow is required.
func New(width int, capacity uint32) (*Arena, error) {
	if width <= 0 {
		return nil, ErrBadWidth
	}
	return &Arena{
		width: width,
		cap:   capacity,
		buf:   make([]byte, uint64(capacity)*uint64(width)),
	}, nil
}

// Width returns the fixed record width in bytes.
func (a *Arena) Width() int {
	return a.width
}

// Len returns the number of records appended so far, including zeroed ones.
func (a *Arena) Len() uint32 {
	return a.used
}

// Cap returns the number of records the arena can hold without growing.
func (a *Arena) Cap() uint32 {
	return a.cap
}

// Append copies rec into the next record position and returns its index.
// The index remains valid for the lifetime of the arena (Reset excepted).
func (a *Arena) Append(rec []byte) (uint32, error) {
	if len(rec) != a.width {
		return 0, ErrBadRecordSize
	}
	if a.used == a.cap {
		return 0, ErrFull
	}
	i := a.used
	copy(a.buf[a.off(i):], rec)
	a.used++
	return i, nil
}

// Record returns a view of the record at index i. The view is only valid
// until the next Grow or Reset. No range check is performed beyond the
// slice expression itself, out of range will panic.
func (a *Arena) Record(i uint32) []byte {
	off := a.off(i)
	return a.buf[off : off+uint64(a.width)]
}

// Zero overwrites the record at index i with zero bytes. The index stays
// occupied; Len is unchanged.
func (a *Arena) Zero(i uint32) {
	clear(a.Record(i))
}

// Grow extends the arena capacity to newCap records. Contents and record
// offsets are preserved; growing to a capacity at or below the current one
// is a no-op.
func (a *Arena) Grow(newCap uint32) {
	if newCap <= a.cap {
		return
	}
	extra := uint64(newCap-a.cap) * uint64(a.width)
	a.buf = append(a.buf, make([]byte, extra)...)
	a.cap = newCap
}

// Reset discards all records and reallocates the buffer for capacity
// records. Previously issued indices and views are invalid afterwards.
func (a *Arena) Reset(capacity uint32) {
	a.used = 0
	a.cap = capacity
	a.buf = make([]byte, uint64(capacity)*uint64(a.width))
}

func (a *Arena) off(i uint32) uint64 {
	return uint64(i) * uint64(a.width)
}
