// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package staking

import (
	"sync"

	"github.com/unit-e/ued/internal/chain"
)

// ActiveChain is the narrow view of the base-chain collaborator that
// finalization and staking need: the current tip, lookup by height/hash,
// block submission, and the UTXO-set snapshot hash the coinbase meta-input
// commits to (§4.9, §4.10). Its lock is always the first acquired in the
// ordering of §5 -- callers that also need StateRepository or VoteRecorder
// acquire this one first.
type ActiveChain interface {
	Lock()
	Unlock()
	RLock()
	RUnlock()

	Tip() *chain.BlockIndex
	BlockIndexByHash(hash chain.Hash256) (*chain.BlockIndex, bool)
	BlockIndexByHeight(height chain.Height) (*chain.BlockIndex, bool)
	MedianTimePast(tip *chain.BlockIndex) chain.Time
	AdjustedTime() chain.Time
	ComputeSnapshotHash(height chain.Height) chain.Hash256
	PeerCount() int
	IsInitialBlockDownload() bool

	// ProcessNewBlock submits a proposed block for validation and, on
	// acceptance, extension of the active chain (§4.9 step 6).
	ProcessNewBlock(block *chain.Block) error
}

// BlockIndexMap is the second lock in §5's ordering: a plain, mutex-guarded
// hash->index map shared by every subsystem that needs to resolve a block
// hash to its position without holding ActiveChain's own lock.
type BlockIndexMap struct {
	mu      sync.RWMutex
	byHash  map[chain.Hash256]*chain.BlockIndex
}

// NewBlockIndexMap builds an empty map.
func NewBlockIndexMap() *BlockIndexMap {
	return &BlockIndexMap{byHash: make(map[chain.Hash256]*chain.BlockIndex)}
}

// Insert registers idx, keyed by its hash.
func (m *BlockIndexMap) Insert(idx *chain.BlockIndex) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byHash[idx.Hash] = idx
}

// Get looks up the index for hash.
func (m *BlockIndexMap) Get(hash chain.Hash256) (*chain.BlockIndex, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	idx, ok := m.byHash[hash]
	return idx, ok
}

// MemChain is an in-memory ActiveChain reference implementation: a single
// linear main chain plus whatever forked indexes ProcessNewBlock has been
// handed, with no actual consensus validation of its own. It exists for
// tests and for embedding behind a real network/disk-backed chain during
// bring-up: a minimal in-memory fake alongside a future disk-backed
// implementation, in the spirit of blockchain test harnesses.
type MemChain struct {
	mu sync.RWMutex

	blocks        map[chain.Hash256]*chain.Block
	indexByHash   map[chain.Hash256]*chain.BlockIndex
	mainChain     []chain.Hash256 // height-ordered, index 0 is genesis
	snapshotHash  func(chain.Height) chain.Hash256
	adjustedTime  chain.Time
	peerCount     int
	syncing       bool
}

// NewMemChain seeds a MemChain with genesis.
func NewMemChain(genesis *chain.Block, snapshotHash func(chain.Height) chain.Hash256) *MemChain {
	hash := genesis.Hash()
	idx := &chain.BlockIndex{Hash: hash, Height: genesis.Header.Height}
	c := &MemChain{
		blocks:       map[chain.Hash256]*chain.Block{hash: genesis},
		indexByHash:  map[chain.Hash256]*chain.BlockIndex{hash: idx},
		mainChain:    []chain.Hash256{hash},
		snapshotHash: snapshotHash,
		peerCount:    1,
	}
	return c
}

func (c *MemChain) Lock()    { c.mu.Lock() }
func (c *MemChain) Unlock()  { c.mu.Unlock() }
func (c *MemChain) RLock()   { c.mu.RLock() }
func (c *MemChain) RUnlock() { c.mu.RUnlock() }

// Tip returns the main chain's current tip index.
func (c *MemChain) Tip() *chain.BlockIndex {
	hash := c.mainChain[len(c.mainChain)-1]
	return c.indexByHash[hash]
}

// BlockIndexByHash resolves hash against every known block, main chain or
// not.
func (c *MemChain) BlockIndexByHash(hash chain.Hash256) (*chain.BlockIndex, bool) {
	idx, ok := c.indexByHash[hash]
	return idx, ok
}

// BlockIndexByHeight resolves height against the main chain only.
func (c *MemChain) BlockIndexByHeight(height chain.Height) (*chain.BlockIndex, bool) {
	if int(height) >= len(c.mainChain) {
		return nil, false
	}
	return c.indexByHash[c.mainChain[height]], true
}

// MedianTimePast returns the median block time of the 11 blocks ending at
// tip (§4.8); when fewer blocks are known, it is the median of those
// there are.
func (c *MemChain) MedianTimePast(tip *chain.BlockIndex) chain.Time {
	const window = 11
	times := make([]chain.Time, 0, window)
	cur := tip
	for i := 0; i < window && cur != nil; i++ {
		blk, ok := c.blocks[cur.Hash]
		if !ok {
			break
		}
		times = append(times, blk.Header.Time)
		parent, ok := c.indexByHash[cur.ParentHash]
		if !ok {
			break
		}
		cur = parent
	}
	return median(times)
}

func median(times []chain.Time) chain.Time {
	if len(times) == 0 {
		return 0
	}
	sorted := append([]chain.Time(nil), times...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1] > sorted[j]; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	return sorted[len(sorted)/2]
}

// AdjustedTime returns the chain's current network-adjusted time.
func (c *MemChain) AdjustedTime() chain.Time { return c.adjustedTime }

// SetAdjustedTime lets tests and the proposer's driver advance the clock.
func (c *MemChain) SetAdjustedTime(t chain.Time) { c.adjustedTime = t }

// ComputeSnapshotHash delegates to the constructor-supplied function.
func (c *MemChain) ComputeSnapshotHash(height chain.Height) chain.Hash256 {
	if c.snapshotHash == nil {
		return chain.ZeroHash
	}
	return c.snapshotHash(height)
}

// PeerCount returns the configured fake peer count.
func (c *MemChain) PeerCount() int { return c.peerCount }

// SetPeerCount lets tests simulate a disconnected node.
func (c *MemChain) SetPeerCount(n int) { c.peerCount = n }

// IsInitialBlockDownload reports the configured syncing flag.
func (c *MemChain) IsInitialBlockDownload() bool { return c.syncing }

// SetSyncing lets tests simulate an initial-block-download state.
func (c *MemChain) SetSyncing(v bool) { c.syncing = v }

// ProcessNewBlock appends block to the main chain; it performs no
// consensus validation of its own (real validation is BlockValidator's
// job, called by the out-of-scope block-processing collaborator before
// this is reached).
func (c *MemChain) ProcessNewBlock(block *chain.Block) error {
	hash := block.Hash()
	idx := &chain.BlockIndex{Hash: hash, ParentHash: block.Header.PrevBlock, Height: block.Header.Height}
	c.blocks[hash] = block
	c.indexByHash[hash] = idx
	if block.Header.PrevBlock == c.mainChain[len(c.mainChain)-1] {
		c.mainChain = append(c.mainChain, hash)
	}
	return nil
}
