package primemap

import (
	"fmt"
	"math"
)

// Slot states. A REMOVED slot keeps its key so that probe chains running
// through it stay intact until the next rehash.
const (
	slotFree byte = iota
	slotFull
	slotRemoved
)

const (
	defaultLoadFactor = 0.75
	defaultGrowFactor = 2.0

	defaultMissValue = -1.0
)

type table struct {
	keys   []int32
	values []float64
	states []byte

	used      int
	threshold int

	loadFactor float64
	growFactor float64

	// Returned by lookups and removals on a miss.
	defaultValue float64

	exactCapacity bool
}

type Option func(t *table)

// WithLoadFactor sets the occupancy ratio at which the table grows.
func WithLoadFactor(f float64) Option {
	return func(t *table) {
		t.loadFactor = f
	}
}

// WithGrowFactor sets the capacity multiplier applied on growth.
func WithGrowFactor(f float64) Option {
	return func(t *table) {
		t.growFactor = f
	}
}

// WithDefaultReturnValue sets the sentinel returned for absent keys.
func WithDefaultReturnValue(v float64) Option {
	return func(t *table) {
		t.defaultValue = v
	}
}

// WithExactCapacity skips rounding the capacity hint up to a prime. Capacities
// below 3 degrade the probe step to linear; the caller owns that trade.
func WithExactCapacity() Option {
	return func(t *table) {
		t.exactCapacity = true
	}
}

func (t *table) init(capacity int, opts ...Option) error {
	if capacity < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}

	t.loadFactor = defaultLoadFactor
	t.growFactor = defaultGrowFactor
	t.defaultValue = defaultMissValue

	for _, opt := range opts {
		opt(t)
	}

	if !t.exactCapacity {
		capacity = NextPrime(capacity)
	}

	t.keys = make([]int32, capacity)
	t.values = make([]float64, capacity)
	t.states = make([]byte, capacity)
	t.threshold = thresholdFor(capacity, t.loadFactor)

	return nil
}

func thresholdFor(capacity int, loadFactor float64) int {
	return int(math.Round(float64(capacity) * loadFactor))
}

// keyHash folds the key into a non-negative int. The persisted layout depends
// on this exact fold, so it is not replaceable by a seeded hash.
func keyHash(key int32) int {
	return int(uint32(key) & 0x7fffffff)
}

// probeDecrement is the double-hash step size. Prime capacities make it
// coprime with the table length, so a probe cycle visits every slot.
func probeDecrement(hash, capacity int) int {
	if capacity < 3 {
		return 1
	}
	return 1 + hash%(capacity-2)
}

// findKey returns the index of the FULL slot holding key, or -1.
func (t *table) findKey(key int32) int {
	capacity := len(t.keys)
	hash := keyHash(key)
	idx := hash % capacity

	if t.states[idx] == slotFree {
		return -1
	}
	if t.states[idx] == slotFull && t.keys[idx] == key {
		return idx
	}

	decr := probeDecrement(hash, capacity)
	for probes := 1; probes < capacity; probes++ {
		idx -= decr
		if idx < 0 {
			idx += capacity
		}

		switch {
		case t.states[idx] == slotFree:
			return -1
		case t.states[idx] == slotRemoved && t.keys[idx] == key:
			// The key's own tombstone terminates its chain.
			return -1
		case t.states[idx] == slotFull && t.keys[idx] == key:
			return idx
		}
	}

	return -1
}

// put inserts or overwrites and returns the previous value, or the configured
// default when the key was absent.
func (t *table) put(key int32, value float64) float64 {
	if t.used+1 >= t.threshold {
		t.grow()
	}

	capacity := len(t.keys)
	hash := keyHash(key)
	idx := hash % capacity
	decr := probeDecrement(hash, capacity)

	for probes := 0; probes < capacity; probes++ {
		switch {
		case t.states[idx] == slotFull && t.keys[idx] == key:
			old := t.values[idx]
			t.values[idx] = value
			return old
		case t.states[idx] == slotFree,
			t.states[idx] == slotRemoved && t.keys[idx] == key:
			// A tombstone is only a write target for the key it held;
			// a foreign tombstone is probed past to keep keys unique.
			t.keys[idx] = key
			t.values[idx] = value
			t.states[idx] = slotFull
			t.used++
			return t.defaultValue
		}

		idx -= decr
		if idx < 0 {
			idx += capacity
		}
	}

	// Every slot on the chain is occupied or a foreign tombstone. Growing
	// rehashes the live entries, drops the tombstones and frees up room.
	t.grow()

	return t.put(key, value)
}

// remove marks the slot REMOVED and returns the stored value, or the
// configured default when the key was absent. The value array is left as is.
func (t *table) remove(key int32) float64 {
	idx := t.findKey(key)
	if idx < 0 {
		return t.defaultValue
	}

	t.states[idx] = slotRemoved
	t.used--

	return t.values[idx]
}

func (t *table) clear() {
	clear(t.states)
	t.used = 0
}

func (t *table) grow() {
	target := int(math.Round(float64(len(t.keys)) * t.growFactor))
	t.rehash(NextPrime(target))
}

// rehash reinserts every FULL slot into fresh arrays of newCapacity slots.
// Tombstones are not carried over; this is the only path that reclaims them.
func (t *table) rehash(newCapacity int) {
	oldCapacity := len(t.keys)
	if newCapacity <= oldCapacity {
		panic(fmt.Sprintf("primemap: rehash from %d to %d slots; capacity only grows", oldCapacity, newCapacity))
	}

	keys := make([]int32, newCapacity)
	values := make([]float64, newCapacity)
	states := make([]byte, newCapacity)

	used := 0
	for i, state := range t.states {
		if state != slotFull {
			continue
		}

		idx := placeFresh(states, t.keys[i])
		if idx < 0 {
			panic("primemap: rehash found no free slot")
		}

		keys[idx] = t.keys[i]
		values[idx] = t.values[i]
		states[idx] = slotFull
		used++
	}

	t.keys = keys
	t.values = values
	t.states = states
	t.used = used
	t.threshold = thresholdFor(newCapacity, t.loadFactor)
}

// placeFresh probes for a FREE slot in a state array that holds no tombstones
// and returns its index, or -1 when the bounded probe cycle finds none.
func placeFresh(states []byte, key int32) int {
	capacity := len(states)
	hash := keyHash(key)
	idx := hash % capacity

	if states[idx] == slotFree {
		return idx
	}

	decr := probeDecrement(hash, capacity)
	for probes := 1; probes < capacity; probes++ {
		idx -= decr
		if idx < 0 {
			idx += capacity
		}

		if states[idx] == slotFree {
			return idx
		}
	}

	return -1
}

func (t *table) tombstones() int {
	n := 0
	for _, state := range t.states {
		if state == slotRemoved {
			n++
		}
	}

	return n
}
