package finalization

import (
	"sort"
	"sync"

	"github.com/unit-e/ued/internal/chain"
)

// SnapshotEntry is one coordination record of a UTXO-set snapshot that
// the out-of-scope snapshot subsystem has (or will) build (§4.10, §6).
type SnapshotEntry struct {
	Height    chain.Height
	Hash      chain.Hash256
	Finalized bool
}

// SnapshotIndex is a bounded ledger of snapshot coordination entries,
// distinct from the snapshot data itself. Overflow past MaxSnapshots
// evicts the highest non-finalized entry other than the one just
// inserted, so when a lower-than-tip entry is inserted the previously
// highest entry is evicted instead (§4.10, §6). Finalized entries are
// never evicted: when every other entry is finalized, nothing is evicted
// and the index holds more than MaxSnapshots entries.
// MinFinalizedSnapshots is not consulted.
//
// Safe for concurrent access.
type SnapshotIndex struct {
	mu      sync.Mutex
	params  *Params
	entries []SnapshotEntry // ordered by height ascending
}

// NewSnapshotIndex builds an empty index bounded by params.
func NewSnapshotIndex(params *Params) *SnapshotIndex {
	return &SnapshotIndex{params: params}
}

// Add inserts a non-finalized entry for height/hash, evicting per the
// overflow rule above if this would exceed MaxSnapshots.
func (idx *SnapshotIndex) Add(height chain.Height, hash chain.Hash256) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	entry := SnapshotEntry{Height: height, Hash: hash}
	pos := sort.Search(len(idx.entries), func(i int) bool { return idx.entries[i].Height >= height })
	idx.entries = append(idx.entries, SnapshotEntry{})
	copy(idx.entries[pos+1:], idx.entries[pos:])
	idx.entries[pos] = entry

	if len(idx.entries) <= idx.params.MaxSnapshots {
		return
	}

	// The new entry is never itself the one evicted: when it is the tip,
	// the previous highest non-finalized entry makes way for it; when it
	// is not the tip, that same previous-highest entry is still the one
	// evicted, never the new (lower) entry.
	evictAt := idx.highestNonFinalizedExcluding(pos)
	if evictAt == -1 {
		return
	}
	idx.entries = append(idx.entries[:evictAt], idx.entries[evictAt+1:]...)
}

func (idx *SnapshotIndex) highestNonFinalizedExcluding(excl int) int {
	for i := len(idx.entries) - 1; i >= 0; i-- {
		if i != excl && !idx.entries[i].Finalized {
			return i
		}
	}
	return -1
}

// FinalizeUpTo marks every entry at or below height as finalized; called
// from Processor.ProcessNewTip in the same place the original calls
// snapshot::Creator::FinalizeSnapshots.
func (idx *SnapshotIndex) FinalizeUpTo(height chain.Height) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for i := range idx.entries {
		if idx.entries[i].Height <= height {
			idx.entries[i].Finalized = true
		}
	}
}

// Entries returns a copy of the current entries, ordered by height.
func (idx *SnapshotIndex) Entries() []SnapshotEntry {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	out := make([]SnapshotEntry, len(idx.entries))
	copy(out, idx.entries)
	return out
}

// FinalizedCount reports how many entries are currently finalized.
func (idx *SnapshotIndex) FinalizedCount() int {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	n := 0
	for _, e := range idx.entries {
		if e.Finalized {
			n++
		}
	}
	return n
}
