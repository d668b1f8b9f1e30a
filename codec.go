package borghash

import (
	"bufio"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// maxReadCapacity caps the entry budget Read pre-allocates before any
// record bytes have been seen. Larger tables grow normally as records are
// inserted.
const maxReadCapacity uint32 = 1 << 20

// Write serializes the live entries of the table to w in the stream layout
// described in format.go. Tombstoned entries are not written, so a stream
// is also the compacted form of the table.
func (t *HashTable) Write(w io.Writer) error {
	md := metadata{
		KeySize:     t.keySize,
		ValueSize:   t.valueSize,
		ValueLayout: t.opts.valueLayout,
		Capacity:    uint32(len(t.slots)),
		Used:        t.used,
	}
	meta, err := cbor.Marshal(&md)
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(encodeHeader(uint32(len(meta)))); err != nil {
		return err
	}
	if _, err := bw.Write(meta); err != nil {
		return err
	}

	written := uint32(0)
	for _, v := range t.slots {
		if slotState(v) != SlotOccupied {
			continue
		}
		if _, err := bw.Write(t.keys.Record(v)); err != nil {
			return err
		}
		if _, err := bw.Write(t.values.Record(v)); err != nil {
			return err
		}
		written++
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	t.opts.log.Debugf("write: %d entries, key_size=%d, value_size=%d", written, t.keySize, t.valueSize)
	return nil
}

// Read reconstructs a table from a stream produced by Write. Entries are
// inserted in stream order into a fresh table, so kv-indices are assigned
// from zero and generally differ from those of the source table: handles
// held against the source are invalid for the result.
//
// Read fails, returning no table, on a bad magic tag, an unsupported
// version, an undecodable metadata block, or a stream that ends before the
// declared entry count is read.
func Read(r io.Reader, opts ...Option) (*HashTable, error) {
	br := bufio.NewReader(r)

	hdr := make([]byte, headerBytes)
	if _, err := io.ReadFull(br, hdr); err != nil {
		return nil, fmt.Errorf("%w: reading header: %w", ErrTruncated, err)
	}
	metaLen, err := decodeHeader(hdr)
	if err != nil {
		return nil, err
	}

	meta := make([]byte, metaLen)
	if _, err := io.ReadFull(br, meta); err != nil {
		return nil, fmt.Errorf("%w: reading metadata: %w", ErrTruncated, err)
	}
	var md metadata
	if err := cbor.Unmarshal(meta, &md); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadMetadata, err)
	}
	if md.KeySize < 4 || md.KeySize > maxFieldBytes {
		return nil, ErrBadMetadata
	}
	if md.ValueSize < 1 || md.ValueSize > maxFieldBytes {
		return nil, ErrBadMetadata
	}
	if md.Used > MaxKVIndex {
		return nil, ErrBadMetadata
	}

	// The declared entry count is not trusted with an upfront allocation:
	// the dense buffers start at a bounded budget and grow as records
	// actually arrive off the stream.
	capacity := md.Used
	if capacity > maxReadCapacity {
		capacity = maxReadCapacity
	}
	if capacity < DefaultCapacity {
		capacity = DefaultCapacity
	}
	opts = append([]Option{
		WithCapacity(capacity),
		WithValueLayout(md.ValueLayout),
	}, opts...)
	t, err := New(md.KeySize, md.ValueSize, opts...)
	if err != nil {
		return nil, err
	}

	rec := make([]byte, md.KeySize+md.ValueSize)
	for i := uint32(0); i < md.Used; i++ {
		if _, err := io.ReadFull(br, rec); err != nil {
			return nil, fmt.Errorf("%w: entry %d of %d: %w", ErrTruncated, i, md.Used, err)
		}
		if err := t.Set(rec[:md.KeySize], rec[md.KeySize:]); err != nil {
			return nil, err
		}
	}
	t.opts.log.Debugf("read: %d entries, key_size=%d, value_size=%d", md.Used, md.KeySize, md.ValueSize)
	return t, nil
}
