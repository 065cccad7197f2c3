// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package finalization implements the fork-aware state repository,
// processor, on-disk persistence, and vote recorder that sit on top of
// the pure esperanza.FinalizationState machine (§4.2-§4.5).
package finalization

import "github.com/unit-e/ued/internal/esperanza"

// Params bundles the esperanza parameters the repository/processor need
// plus the snapshot-coordination bounds, kept apart from esperanza.Params
// the way a node's blockchain::Parameters is kept apart from a narrower
// consensus-only struct.
type Params struct {
	Finalization esperanza.Params

	// MaxSnapshots bounds the snapshot index (§6 "Persisted state
	// layout"); MinFinalizedSnapshots is carried alongside it, but
	// SnapshotIndex does not read it.
	MaxSnapshots           int
	MinFinalizedSnapshots  int

	// PruningMode, if true, makes restore_from_disk populate only from
	// the tip's persisted state instead of replaying from height 1
	// (§4.2 "restore_from_disk").
	PruningMode bool
}
