package primemap

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Wire layout, big-endian, fixed-width, no padding:
//
//	int32 threshold
//	int32 used
//	int32 capacity
//	used x (int32 key, float64 value)
//
// Pairs are written in slot order. There is no magic number, version tag or
// checksum; callers needing framing wrap the stream themselves (see
// WriteSnapshot). Big-endian keeps the stream byte-compatible with tables
// serialized by the JVM feature pipeline.
type streamHeader struct {
	Threshold int32
	Used      int32
	Capacity  int32
}

const pairSize = 4 + 8

// Save writes the logical contents of the map to w.
func (m *Map) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)

	hdr := streamHeader{
		Threshold: int32(m.threshold),
		Used:      int32(m.used),
		Capacity:  int32(len(m.keys)),
	}
	if err := binary.Write(bw, binary.BigEndian, hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	buf := make([]byte, pairSize)
	it := m.Entries()
	for it.Next() != -1 {
		binary.BigEndian.PutUint32(buf[0:], uint32(it.Key()))
		binary.BigEndian.PutUint64(buf[4:], math.Float64bits(it.Value()))

		if _, err := bw.Write(buf); err != nil {
			return fmt.Errorf("write entry: %w", err)
		}
	}

	return bw.Flush()
}

// Load replaces the receiver's contents with the stream produced by Save,
// replaying each pair through the same double-hash placement against the
// stored capacity. Configuration set on the receiver (load/grow factors,
// default-return value) is kept. A failed Load leaves the map unchanged.
func (m *Map) Load(r io.Reader) error {
	br := bufio.NewReader(r)

	var hdr streamHeader
	if err := binary.Read(br, binary.BigEndian, &hdr); err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	if hdr.Capacity < 1 || hdr.Used < 0 || hdr.Used > hdr.Capacity {
		return fmt.Errorf("%w: threshold=%d used=%d capacity=%d",
			ErrCorruptStream, hdr.Threshold, hdr.Used, hdr.Capacity)
	}

	capacity := int(hdr.Capacity)
	keys := make([]int32, capacity)
	values := make([]float64, capacity)
	states := make([]byte, capacity)

	buf := make([]byte, pairSize)
	for i := int32(0); i < hdr.Used; i++ {
		if _, err := io.ReadFull(br, buf); err != nil {
			return fmt.Errorf("read entry %d of %d: %w", i, hdr.Used, err)
		}

		key := int32(binary.BigEndian.Uint32(buf[0:]))
		value := math.Float64frombits(binary.BigEndian.Uint64(buf[4:]))

		// Fresh arrays hold no tombstones, so placement probes over FREE
		// slots only.
		idx := placeFresh(states, key)
		if idx < 0 {
			return fmt.Errorf("%w: no free slot for key %d", ErrCorruptStream, key)
		}

		keys[idx] = key
		values[idx] = value
		states[idx] = slotFull
	}

	if m.loadFactor == 0 {
		m.loadFactor = defaultLoadFactor
	}
	if m.growFactor == 0 {
		m.growFactor = defaultGrowFactor
	}

	m.keys = keys
	m.values = values
	m.states = states
	m.used = int(hdr.Used)
	m.threshold = int(hdr.Threshold)

	return nil
}

// Decode reads a stream produced by Save into a fresh map with default
// configuration, optionally adjusted by opts.
func Decode(r io.Reader, opts ...Option) (*Map, error) {
	var m Map
	m.loadFactor = defaultLoadFactor
	m.growFactor = defaultGrowFactor
	m.defaultValue = defaultMissValue

	for _, opt := range opts {
		opt(&m.table)
	}

	if err := m.Load(r); err != nil {
		return nil, err
	}

	return &m, nil
}
