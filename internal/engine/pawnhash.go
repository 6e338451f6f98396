package engine

// PawnEntry caches one pawn-structure evaluation: the middlegame and
// endgame components, keyed by the position's pawn-only Zobrist hash.
type PawnEntry struct {
	Key     uint64
	MgScore int16
	EgScore int16
}

// PawnTable is a direct-mapped hash table of PawnEntry, sized to a power
// of two so lookups reduce to a mask instead of a modulo.
type PawnTable struct {
	entries []PawnEntry
	mask    uint64
}

const pawnEntryBytes = 12 // 8 (key) + 2 (mg) + 2 (eg)

// NewPawnTable allocates a pawn hash table of approximately sizeMB
// megabytes, rounding the entry count down to the nearest power of two.
func NewPawnTable(sizeMB int) *PawnTable {
	wanted := (sizeMB * 1024 * 1024) / pawnEntryBytes

	size := 1
	for size*2 <= wanted {
		size *= 2
	}

	return &PawnTable{
		entries: make([]PawnEntry, size),
		mask:    uint64(size - 1),
	}
}

// Probe returns the cached middlegame/endgame scores for key, if present.
func (pt *PawnTable) Probe(key uint64) (mg, eg int, found bool) {
	entry := &pt.entries[key&pt.mask]
	if entry.Key == key {
		return int(entry.MgScore), int(entry.EgScore), true
	}
	return 0, 0, false
}

// Store writes a pawn-structure evaluation into the table, overwriting
// whatever previously occupied the slot.
func (pt *PawnTable) Store(key uint64, mg, eg int) {
	entry := &pt.entries[key&pt.mask]
	entry.Key = key
	entry.MgScore = int16(mg)
	entry.EgScore = int16(eg)
}

// Clear resets every entry. Engine.Clear does not call it, so pawn-structure
// scores stay cached across games.
func (pt *PawnTable) Clear() {
	for i := range pt.entries {
		pt.entries[i] = PawnEntry{}
	}
}
