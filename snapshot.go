package primemap

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
)

// Snapshots wrap the raw Save/Load stream in a framed container for callers
// that persist tables to files or object storage and need the corruption and
// compatibility checks the raw stream deliberately omits.
//
// Layout, big-endian:
//
//	uint32 magic
//	uint16 version
//	uint8  flags (bit 0: zstd-compressed payload)
//	uint64 xxhash64 of the raw (uncompressed) payload
//	payload
const (
	snapshotMagic   uint32 = 0x49324446 // "I2DF"
	snapshotVersion uint16 = 1

	snapshotFlagZstd byte = 1 << 0

	snapshotHeaderSize = 4 + 2 + 1 + 8
)

type snapshotOptions struct {
	compress bool
}

type SnapshotOption func(o *snapshotOptions)

// WithCompression enables zstd compression of the snapshot payload.
func WithCompression() SnapshotOption {
	return func(o *snapshotOptions) {
		o.compress = true
	}
}

// WriteSnapshot writes m to w as a framed snapshot.
func WriteSnapshot(w io.Writer, m *Map, opts ...SnapshotOption) error {
	var o snapshotOptions
	for _, opt := range opts {
		opt(&o)
	}

	var body bytes.Buffer
	if err := m.Save(&body); err != nil {
		return err
	}

	payload := body.Bytes()
	sum := xxhash.Sum64(payload)

	var flags byte
	if o.compress {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return fmt.Errorf("create compressor: %w", err)
		}
		payload = enc.EncodeAll(payload, nil)
		_ = enc.Close()

		flags |= snapshotFlagZstd
	}

	hdr := make([]byte, snapshotHeaderSize)
	binary.BigEndian.PutUint32(hdr[0:], snapshotMagic)
	binary.BigEndian.PutUint16(hdr[4:], snapshotVersion)
	hdr[6] = flags
	binary.BigEndian.PutUint64(hdr[7:], sum)

	if _, err := w.Write(hdr); err != nil {
		return fmt.Errorf("write snapshot header: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write snapshot payload: %w", err)
	}

	return nil
}

// ReadSnapshot reads a framed snapshot from r into a fresh map. Map options
// are applied the same way Decode applies them.
func ReadSnapshot(r io.Reader, opts ...Option) (*Map, error) {
	hdr := make([]byte, snapshotHeaderSize)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, fmt.Errorf("read snapshot header: %w", err)
	}

	if binary.BigEndian.Uint32(hdr[0:]) != snapshotMagic {
		return nil, ErrBadMagic
	}
	if v := binary.BigEndian.Uint16(hdr[4:]); v != snapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrSnapshotVersion, v)
	}

	flags := hdr[6]
	sum := binary.BigEndian.Uint64(hdr[7:])

	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read snapshot payload: %w", err)
	}

	if flags&snapshotFlagZstd != 0 {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("create decompressor: %w", err)
		}
		payload, err = dec.DecodeAll(payload, nil)
		dec.Close()
		if err != nil {
			return nil, fmt.Errorf("decompress snapshot: %w", err)
		}
	}

	if xxhash.Sum64(payload) != sum {
		return nil, ErrChecksumMismatch
	}

	return Decode(bytes.NewReader(payload), opts...)
}
