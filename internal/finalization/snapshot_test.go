package finalization

import (
	"testing"

	"github.com/unit-e/ued/internal/chain"
)

func snapshotTestParams(max int) *Params {
	return &Params{MaxSnapshots: max, MinFinalizedSnapshots: 1}
}

func TestSnapshotIndexAddWithinBound(t *testing.T) {
	idx := NewSnapshotIndex(snapshotTestParams(3))
	idx.Add(5, hashForHeight(5))
	idx.Add(10, hashForHeight(10))

	entries := idx.Entries()
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Height != 5 || entries[1].Height != 10 {
		t.Fatalf("entries not height-ordered: %+v", entries)
	}
}

func TestSnapshotIndexEvictsHighestNonFinalizedOnOverflow(t *testing.T) {
	idx := NewSnapshotIndex(snapshotTestParams(2))
	idx.Add(5, hashForHeight(5))
	idx.Add(10, hashForHeight(10))
	// Adding a new tip over the bound evicts the previous highest
	// non-finalized entry (10) to make room, keeping the new tip (15).
	idx.Add(15, hashForHeight(15))

	entries := idx.Entries()
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	heights := []chain.Height{entries[0].Height, entries[1].Height}
	if heights[0] != 5 || heights[1] != 15 {
		t.Fatalf("entries after overflow = %+v, want [5 15]", entries)
	}
}

func TestSnapshotIndexNonTipInsertEvictsPreviousHighest(t *testing.T) {
	idx := NewSnapshotIndex(snapshotTestParams(2))
	idx.Add(5, hashForHeight(5))
	idx.Add(15, hashForHeight(15))
	// Inserting a lower-than-tip entry must not evict itself; it evicts
	// the previously highest entry (15) instead, keeping the tip-most
	// value out of the entries that remain unless the new entry itself
	// ends up the tip.
	idx.Add(10, hashForHeight(10))

	entries := idx.Entries()
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	for _, e := range entries {
		if e.Height == 15 {
			t.Fatalf("entry at height 15 should have been evicted, got %+v", entries)
		}
	}
}

func TestSnapshotIndexNeverEvictsFinalized(t *testing.T) {
	idx := NewSnapshotIndex(snapshotTestParams(2))
	idx.Add(5, hashForHeight(5))
	idx.FinalizeUpTo(5)
	idx.Add(10, hashForHeight(10))
	idx.Add(15, hashForHeight(15))

	entries := idx.Entries()
	found5 := false
	for _, e := range entries {
		if e.Height == 5 {
			found5 = true
			if !e.Finalized {
				t.Fatal("finalized entry lost its Finalized flag")
			}
		}
	}
	if !found5 {
		t.Fatal("finalized entry at height 5 was evicted")
	}
}

func TestSnapshotIndexFinalizeUpTo(t *testing.T) {
	idx := NewSnapshotIndex(snapshotTestParams(5))
	idx.Add(5, hashForHeight(5))
	idx.Add(10, hashForHeight(10))
	idx.Add(15, hashForHeight(15))

	idx.FinalizeUpTo(10)
	if idx.FinalizedCount() != 2 {
		t.Fatalf("FinalizedCount = %d, want 2", idx.FinalizedCount())
	}
}
