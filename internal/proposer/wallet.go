// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package proposer

import (
	"github.com/unit-e/ued/internal/chain"
	"github.com/unit-e/ued/internal/staking"
)

// StakingWallet is the narrow view of a wallet the proposer loop needs:
// its lock (§5's per-wallet lock, position 4 in the ordering), whether it
// is unlocked, the coins it could stake with, and the destination script
// for the block-reward output. Key management, address generation, and
// every other wallet concern are out of scope (spec.md §1 Non-goals).
type StakingWallet interface {
	Lock()
	Unlock()

	IsLocked() bool
	StakeableCoins() staking.CoinSet
	RewardScript() []byte

	// SignBlock produces the proposer's ECDSA signature of the block
	// header hash (§6 "Block wire format"), using the signing key(s)
	// extractable from the staking input.
	SignBlock(headerHash chain.Hash256) ([]byte, error)
}
