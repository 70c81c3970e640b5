package primemap

// Stats is a point-in-time snapshot of table occupancy.
type Stats struct {
	Size       int
	Capacity   int
	Threshold  int
	Tombstones int

	TombstonesCapacityRatio float32
}

// Stats scans the state array; cost is O(capacity).
func (m *Map) Stats() Stats {
	tombstones := m.tombstones()

	return Stats{
		Size:       m.used,
		Capacity:   len(m.keys),
		Threshold:  m.threshold,
		Tombstones: tombstones,

		TombstonesCapacityRatio: float32(tombstones) / float32(len(m.keys)),
	}
}
