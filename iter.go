package primemap

// Iterator walks the occupied slots of a Map in backing-array order, which is
// neither insertion order nor stable across growth. It is a live view: it
// holds no snapshot, and mutating the map mid-iteration has undefined
// positional effects.
type Iterator struct {
	t    *table
	next int
	last int
}

// Entries returns an iterator over the map. The usage pattern is
//
//	it := m.Entries()
//	for it.Next() != -1 {
//		_ = it.Key()
//		_ = it.Value()
//	}
func (m *Map) Entries() *Iterator {
	it := &Iterator{t: &m.table, last: -1}
	it.next = it.seek(0)

	return it
}

// seek returns the index of the first FULL slot at or after idx.
func (it *Iterator) seek(idx int) int {
	for idx < len(it.t.states) && it.t.states[idx] != slotFull {
		idx++
	}

	return idx
}

// HasNext reports whether another entry remains.
func (it *Iterator) HasNext() bool {
	return it.next < len(it.t.states)
}

// Next advances to the next entry and returns its slot index, or -1 when the
// iterator is exhausted.
func (it *Iterator) Next() int {
	if !it.HasNext() {
		it.last = -1
		return -1
	}

	it.last = it.next
	it.next = it.seek(it.next + 1)

	return it.last
}

// Key returns the key of the entry most recently yielded by Next. Calling it
// before the first Next, or after Next returned -1, is a programming error
// and panics.
func (it *Iterator) Key() int32 {
	if it.last < 0 {
		panic("primemap: Iterator.Key without a yielded entry")
	}

	return it.t.keys[it.last]
}

// Value returns the value of the entry most recently yielded by Next. Same
// misuse rules as Key.
func (it *Iterator) Value() float64 {
	if it.last < 0 {
		panic("primemap: Iterator.Value without a yielded entry")
	}

	return it.t.values[it.last]
}
