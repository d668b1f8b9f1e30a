package borghash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	hdr := encodeHeader(123)
	require.Len(t, hdr, headerBytes)
	assert.Equal(t, []byte(Magic), hdr[:8])

	metaLen, err := decodeHeader(hdr)
	require.NoError(t, err)
	assert.Equal(t, uint32(123), metaLen)
}

func TestDecodeHeaderRejects(t *testing.T) {
	_, err := decodeHeader(make([]byte, headerBytes-1))
	require.ErrorIs(t, err, ErrTruncated)

	hdr := encodeHeader(16)
	hdr[3] ^= 0x01
	_, err = decodeHeader(hdr)
	require.ErrorIs(t, err, ErrBadMagic)

	hdr = encodeHeader(16)
	hdr[11] = 0x07
	_, err = decodeHeader(hdr)
	require.ErrorIs(t, err, ErrBadVersion)

	hdr = encodeHeader(maxMetaBytes + 1)
	_, err = decodeHeader(hdr)
	require.ErrorIs(t, err, ErrBadMetadata)
}

func TestSlotState(t *testing.T) {
	assert.Equal(t, SlotFree, slotState(freeSlot))
	assert.Equal(t, SlotTombstone, slotState(tombstoneSlot))
	assert.Equal(t, SlotOccupied, slotState(0))
	assert.Equal(t, SlotOccupied, slotState(MaxKVIndex-1))
}

func TestHomeSlot(t *testing.T) {
	key := []byte{0x00, 0x00, 0x01, 0x00, 0xff, 0xff}
	assert.Equal(t, uint32(256%7), homeSlot(key, 7))
	assert.Equal(t, uint32(0), homeSlot(key, 256))
}
