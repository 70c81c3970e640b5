// Package primemap implements an open-addressing hash map from int32 keys to
// float64 values, double-hashed over prime-sized parallel arrays, with a
// compact binary persistence format. It is built for workloads holding
// millions of small maps (one per model or per sparse feature vector) where
// per-entry overhead and a predictable memory layout matter more than
// generality.
//
// A Map is single-writer: no internal synchronization exists, and concurrent
// access requires an external lock or one map per worker.
package primemap

import (
	"strconv"
	"strings"
)

// Map is an int32 -> float64 hash map using double hashing.
//
// Primary slot: h(k) mod capacity, probe step: 1 + h(k) mod (capacity-2),
// with h(k) = k & 0x7fffffff. Capacity is kept prime (unless opted out via
// WithExactCapacity) and only ever grows. Lookups never fail; absence is
// reported through the configured default-return value, -1 initially.
type Map struct {
	table
}

// New creates a map sized to hold roughly capacity entries. The hint is
// rounded up to the next prime unless WithExactCapacity is given.
func New(capacity int, opts ...Option) (*Map, error) {
	var m Map
	if err := m.init(capacity, opts...); err != nil {
		return nil, err
	}

	return &m, nil
}

// Contains reports whether key is present.
func (m *Map) Contains(key int32) bool {
	return m.findKey(key) >= 0
}

// Get returns the value stored for key, or the configured default-return
// value when absent.
func (m *Map) Get(key int32) float64 {
	return m.GetOrDefault(key, m.defaultValue)
}

// GetOrDefault returns the value stored for key, or def when absent.
func (m *Map) GetOrDefault(key int32, def float64) float64 {
	idx := m.findKey(key)
	if idx < 0 {
		return def
	}

	return m.values[idx]
}

// Put inserts or overwrites and returns the previous value, or the configured
// default-return value when the key was absent. Put is the only operation
// that can grow the table; growth rebuilds the backing arrays synchronously.
func (m *Map) Put(key int32, value float64) float64 {
	return m.put(key, value)
}

// Remove deletes key and returns its value, or the configured default-return
// value when the key was absent. Removal leaves a tombstone; capacity never
// shrinks.
func (m *Map) Remove(key int32) float64 {
	return m.remove(key)
}

// Clear drops every entry. Capacity is unchanged.
func (m *Map) Clear() {
	m.clear()
}

// Size returns the number of entries.
func (m *Map) Size() int {
	return m.used
}

// Capacity returns the backing array length.
func (m *Map) Capacity() int {
	return len(m.keys)
}

// SetDefaultReturnValue configures the sentinel reported for absent keys.
func (m *Map) SetDefaultReturnValue(v float64) {
	m.defaultValue = v
}

// String renders the entries as {k=v,...} in slot order, for debugging.
func (m *Map) String() string {
	var sb strings.Builder
	sb.WriteByte('{')

	it := m.Entries()
	for it.Next() != -1 {
		sb.WriteString(strconv.FormatInt(int64(it.Key()), 10))
		sb.WriteByte('=')
		sb.WriteString(strconv.FormatFloat(it.Value(), 'g', -1, 64))

		if it.HasNext() {
			sb.WriteByte(',')
		}
	}

	sb.WriteByte('}')

	return sb.String()
}
