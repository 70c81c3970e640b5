package primemap

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSnapshotFixture(t *testing.T) *Map {
	t.Helper()

	m, err := New(16)
	require.NoError(t, err)
	for i := range int32(40) {
		m.Put(i*13, float64(i)*0.25)
	}
	m.Remove(13)

	return m
}

func TestSnapshot_RoundTrip(t *testing.T) {
	m := newSnapshotFixture(t)

	for _, compress := range []bool{false, true} {
		name := "plain"
		opts := []SnapshotOption{}
		if compress {
			name = "zstd"
			opts = append(opts, WithCompression())
		}

		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteSnapshot(&buf, m, opts...))

			got, err := ReadSnapshot(&buf)
			require.NoError(t, err)

			require.Equal(t, m.Size(), got.Size())
			for i := range int32(40) {
				require.Equal(t, m.Get(i*13), got.Get(i*13))
			}
		})
	}
}

func TestSnapshot_BadMagic(t *testing.T) {
	junk := bytes.Repeat([]byte{0xab}, 64)

	_, err := ReadSnapshot(bytes.NewReader(junk))
	require.ErrorIs(t, err, ErrBadMagic)
}

func TestSnapshot_UnsupportedVersion(t *testing.T) {
	m := newSnapshotFixture(t)

	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, m))

	raw := buf.Bytes()
	raw[5] = 0x7f // version field

	_, err := ReadSnapshot(bytes.NewReader(raw))
	require.ErrorIs(t, err, ErrSnapshotVersion)
}

func TestSnapshot_ChecksumMismatch(t *testing.T) {
	m := newSnapshotFixture(t)

	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, m))

	raw := buf.Bytes()
	raw[snapshotHeaderSize+5] ^= 0x01 // flip a payload bit

	_, err := ReadSnapshot(bytes.NewReader(raw))
	require.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestSnapshot_Truncated(t *testing.T) {
	m := newSnapshotFixture(t)

	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, m))

	_, err := ReadSnapshot(bytes.NewReader(buf.Bytes()[:snapshotHeaderSize-3]))
	require.Error(t, err)
}

func TestSnapshot_OptionsPassThrough(t *testing.T) {
	m := newSnapshotFixture(t)

	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, m))

	got, err := ReadSnapshot(&buf, WithDefaultReturnValue(0))
	require.NoError(t, err)

	assert.Equal(t, 0.0, got.Get(99999))
}

func TestSnapshot_CompressionShrinksLargePayload(t *testing.T) {
	m, err := New(4)
	require.NoError(t, err)
	for i := range int32(5000) {
		m.Put(i, 1.0)
	}

	var plain, packed bytes.Buffer
	require.NoError(t, WriteSnapshot(&plain, m))
	require.NoError(t, WriteSnapshot(&packed, m, WithCompression()))

	assert.Less(t, packed.Len(), plain.Len())
}
