package borghash

import (
	"bytes"
	"encoding/binary"
)

const (
	// Stream layout
	//
	// .     | magic      | version | meta len |   metadata   | records      |
	// bytes | 8          |   4     |    4     |   meta len   | used*(K+V)   |
	//
	// All fixed-width integers are big endian. The metadata block is a CBOR
	// map with integer keys (see metadata). Records are the key bytes
	// immediately followed by the value bytes, one record per live entry,
	// emitted in slot order. Deleted entries are never written.

	// Magic is the fixed ASCII tag opening every stream.
	Magic = "BORGHASH"

	// FormatVersion is the only version this package reads or writes.
	// Unknown versions are rejected, there is no cross-version
	// compatibility handling.
	FormatVersion uint32 = 1

	magicBytes   = 8
	headerBytes  = 16
	versionEnd   = magicBytes + 4
	metaLenEnd   = versionEnd + 4
	maxMetaBytes = 1 << 20

	// maxFieldBytes bounds the key and value sizes a stream may declare.
	// Metadata sizes are attacker-controlled until validated, they must
	// never reach an allocation unchecked.
	maxFieldBytes = 1 << 16
)

// metadata is the self-describing block between the fixed header and the
// records. Capacity and Used are the source table's values at write time,
// Used doubles as the record count on the stream.
type metadata struct {
	KeySize     int    `cbor:"1,keyasint"`
	ValueSize   int    `cbor:"2,keyasint"`
	ValueLayout string `cbor:"3,keyasint"`
	// Capacity is the source table's slot capacity at write time.
	// Informational on read: the rebuilt table is compacted by definition
	// and sizes itself from Used.
	Capacity uint32 `cbor:"4,keyasint"`
	Used     uint32 `cbor:"5,keyasint"`
}

// encodeHeader writes the fixed 16 byte stream header for a metadata block
// of metaLen bytes.
func encodeHeader(metaLen uint32) []byte {
	hdr := make([]byte, headerBytes)
	copy(hdr[:magicBytes], Magic)
	binary.BigEndian.PutUint32(hdr[magicBytes:versionEnd], FormatVersion)
	binary.BigEndian.PutUint32(hdr[versionEnd:metaLenEnd], metaLen)
	return hdr
}

// decodeHeader validates the fixed header and returns the metadata block
// length.
func decodeHeader(hdr []byte) (uint32, error) {
	if len(hdr) < headerBytes {
		return 0, ErrTruncated
	}
	if !bytes.Equal(hdr[:magicBytes], []byte(Magic)) {
		return 0, ErrBadMagic
	}
	if binary.BigEndian.Uint32(hdr[magicBytes:versionEnd]) != FormatVersion {
		return 0, ErrBadVersion
	}
	metaLen := binary.BigEndian.Uint32(hdr[versionEnd:metaLenEnd])
	if metaLen == 0 || metaLen > maxMetaBytes {
		return 0, ErrBadMetadata
	}
	return metaLen, nil
}
