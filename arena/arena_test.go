package arena

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsBadWidth(t *testing.T) {
	_, err := New(0, 8)
	require.ErrorIs(t, err, ErrBadWidth)

	_, err = New(-4, 8)
	require.ErrorIs(t, err, ErrBadWidth)
}

func TestAppendAndRecord(t *testing.T) {
	a, err := New(16, 4)
	require.NoError(t, err)
	require.Equal(t, 16, a.Width())
	require.Equal(t, uint32(0), a.Len())
	require.Equal(t, uint32(4), a.Cap())

	recs := make([][]byte, 4)
	for i := range recs {
		id := uuid.New()
		recs[i] = id[:]
		got, err := a.Append(recs[i])
		require.NoError(t, err)
		assert.Equal(t, uint32(i), got)
	}
	require.Equal(t, uint32(4), a.Len())

	for i, want := range recs {
		assert.Equal(t, want, a.Record(uint32(i)))
	}
}

func TestAppendRejectsBadRecordSize(t *testing.T) {
	a, err := New(8, 2)
	require.NoError(t, err)

	_, err = a.Append(make([]byte, 7))
	require.ErrorIs(t, err, ErrBadRecordSize)

	_, err = a.Append(make([]byte, 9))
	require.ErrorIs(t, err, ErrBadRecordSize)
}

func TestAppendAtCapacity(t *testing.T) {
	a, err := New(4, 1)
	require.NoError(t, err)

	_, err = a.Append([]byte{1, 2, 3, 4})
	require.NoError(t, err)

	_, err = a.Append([]byte{5, 6, 7, 8})
	require.ErrorIs(t, err, ErrFull)
}

// TestGrowPreservesRecords checks that record indices keep addressing the
// same bytes after the backing buffer is extended.
func TestGrowPreservesRecords(t *testing.T) {
	a, err := New(32, 2)
	require.NoError(t, err)

	k0 := bytes.Repeat([]byte{0xa1}, 32)
	k1 := bytes.Repeat([]byte{0xb2}, 32)
	_, err = a.Append(k0)
	require.NoError(t, err)
	_, err = a.Append(k1)
	require.NoError(t, err)

	a.Grow(1024)
	require.Equal(t, uint32(1024), a.Cap())
	require.Equal(t, uint32(2), a.Len())
	assert.Equal(t, k0, a.Record(0))
	assert.Equal(t, k1, a.Record(1))

	// Growing to a smaller or equal capacity changes nothing.
	a.Grow(8)
	require.Equal(t, uint32(1024), a.Cap())
}

func TestZeroKeepsIndexOccupied(t *testing.T) {
	a, err := New(8, 4)
	require.NoError(t, err)

	_, err = a.Append([]byte{1, 1, 1, 1, 1, 1, 1, 1})
	require.NoError(t, err)
	_, err = a.Append([]byte{2, 2, 2, 2, 2, 2, 2, 2})
	require.NoError(t, err)

	a.Zero(0)
	assert.Equal(t, make([]byte, 8), a.Record(0))
	assert.Equal(t, []byte{2, 2, 2, 2, 2, 2, 2, 2}, a.Record(1))
	assert.Equal(t, uint32(2), a.Len())

	// The next append still goes to a fresh index.
	i, err := a.Append([]byte{3, 3, 3, 3, 3, 3, 3, 3})
	require.NoError(t, err)
	assert.Equal(t, uint32(2), i)
}

func TestReset(t *testing.T) {
	a, err := New(8, 2)
	require.NoError(t, err)

	_, err = a.Append(make([]byte, 8))
	require.NoError(t, err)

	a.Reset(16)
	assert.Equal(t, uint32(0), a.Len())
	assert.Equal(t, uint32(16), a.Cap())

	i, err := a.Append(make([]byte, 8))
	require.NoError(t, err)
	assert.Equal(t, uint32(0), i)
}
