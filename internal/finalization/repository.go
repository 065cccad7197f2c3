package finalization

import (
	"sync"

	"github.com/unit-e/ued/internal/chain"
	"github.com/unit-e/ued/internal/esperanza"
)

// Repository maps block hash to the FinalizationState produced by that
// block (§4.2). Genesis's state is created from Params; every other
// block's starting state is cloned from its parent. A single
// repository-wide lock is held during any lookup/insert/trim sequence
// (§4.2 "Locking"). Get is the only accessor: it releases the lock before
// returning, so the returned state is used without the repository lock
// held.
//
// Safe for concurrent access.
type Repository struct {
	mu     sync.RWMutex
	params *Params

	states map[chain.Hash256]*esperanza.FinalizationState
	index  map[chain.Hash256]*chain.BlockIndex
}

// NewRepository creates a repository seeded with the genesis state.
func NewRepository(params *Params, genesisHash chain.Hash256) *Repository {
	genesisIndex := &chain.BlockIndex{Hash: genesisHash, Height: 0}
	r := &Repository{
		params: params,
		states: make(map[chain.Hash256]*esperanza.FinalizationState),
		index:  map[chain.Hash256]*chain.BlockIndex{genesisHash: genesisIndex},
	}
	r.states[genesisHash] = esperanza.NewGenesis(&params.Finalization)
	return r
}

// Get returns the state associated with hash, or nil if absent.
func (r *Repository) Get(hash chain.Hash256) *esperanza.FinalizationState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.states[hash]
}

// NewStateForBlock clones the parent's state for a child block about to
// be processed, registering block in the block-index map so later trims
// can find it. It returns nil if the parent state is absent (the
// processor must reject such ordering, §4.3).
func (r *Repository) NewStateForBlock(block *chain.BlockIndex) *esperanza.FinalizationState {
	r.mu.Lock()
	defer r.mu.Unlock()

	parent, ok := r.states[block.ParentHash]
	if !ok {
		return nil
	}
	child := parent.Clone()
	r.states[block.Hash] = child
	r.index[block.Hash] = block
	return child
}

// Confirm replaces a FROM_COMMITS entry at hash with a COMPLETED one,
// reporting whether the two states agreed (§4.2 "confirm"). If no entry
// exists yet, newState is simply installed as COMPLETED.
func (r *Repository) Confirm(hash chain.Hash256, newState *esperanza.FinalizationState) (matched bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.states[hash]
	if !ok {
		newState.SetInitStatus(esperanza.StatusCompleted)
		r.states[hash] = newState
		return true
	}
	// The two init statuses differ by construction, so they are left out
	// of the comparison.
	newState.SetInitStatus(existing.InitStatus())
	matched = existing.Equal(newState)
	newState.SetInitStatus(esperanza.StatusCompleted)
	r.states[hash] = newState
	return matched
}

// TrimUntilHeight discards every entry whose block -- or, for forks, the
// fork origin on the main chain -- is below h (§4.2 "trim_until_height",
// §8 P6). mainChainAt reports, for a given height, the hash on the
// active main chain; a forked block's "origin" is the height at which its
// ancestry diverges from that main chain, approximated here by walking
// parent links until either the main chain or genesis is reached.
func (r *Repository) TrimUntilHeight(h chain.Height, mainChainAt func(chain.Height) chain.Hash256) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for hash, idx := range r.index {
		origin := r.forkOrigin(idx, mainChainAt)
		if origin < h {
			delete(r.states, hash)
			delete(r.index, hash)
		}
	}
}

// forkOrigin walks idx's ancestry until it finds a block that is on the
// main chain (per mainChainAt), returning that block's height -- the
// fork's point of divergence, or idx's own height if it is itself on the
// main chain.
func (r *Repository) forkOrigin(idx *chain.BlockIndex, mainChainAt func(chain.Height) chain.Hash256) chain.Height {
	cur := idx
	for {
		if mainChainAt(cur.Height) == cur.Hash || cur.IsGenesis() {
			return cur.Height
		}
		parent, ok := r.index[cur.ParentHash]
		if !ok {
			return cur.Height
		}
		cur = parent
	}
}

// Len reports the number of states currently retained, for tests and
// metrics.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.states)
}
