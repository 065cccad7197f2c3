// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package staking

import (
	"sort"

	"github.com/unit-e/ued/internal/chain"
)

// Coin is a spendable output a wallet could stake with: its identity, its
// value and locking script, and the block height/time it was created at
// (needed to compute maturity and the kernel hash's coin.block_time term).
type Coin struct {
	OutPoint  chain.OutPoint
	TxOut     chain.TxOut
	Height    chain.Height
	BlockTime chain.Time

	// OwnerHash/StakerHash are set when TxOut.ScriptPubKey is a
	// remote-staking script (§4.6 "Remote-staking invariant"); OwnerHash is
	// the zero value for an ordinary (non-remote) staking script.
	OwnerHash  chain.Hash160
	StakerHash chain.Hash160
}

// IsRemoteStaking reports whether c delegates proposal authority to a
// staker key distinct from the owner's spending key.
func (c Coin) IsRemoteStaking() bool {
	return c.OwnerHash != (chain.Hash160{})
}

// Depth returns c's maturity in blocks as of a chain at height tip: the
// tip itself has depth 1.
func (c Coin) Depth(tip chain.Height) chain.Depth {
	if tip < c.Height {
		return 0
	}
	return chain.Depth(tip-c.Height) + 1
}

// CoinSet is an unordered collection of coins a wallet could stake with.
type CoinSet []Coin

// EligibleAt filters cs down to coins mature enough to stake at tip, per
// params.StakeMaturity (§4.9 step 3 "enumerate stakeable coins").
func (cs CoinSet) EligibleAt(tip chain.Height, stakeMaturity uint16) CoinSet {
	out := make(CoinSet, 0, len(cs))
	for _, c := range cs {
		if uint16(c.Depth(tip)) >= stakeMaturity {
			out = append(out, c)
		}
	}
	return out
}

// CoinByAmountComparator orders coins by descending amount, the order the
// block builder prefers when picking combined-stake coins up to
// stake_combine_maximum (§4.7).
type CoinByAmountComparator CoinSet

func (c CoinByAmountComparator) Len() int      { return len(c) }
func (c CoinByAmountComparator) Swap(i, j int) { c[i], c[j] = c[j], c[i] }
func (c CoinByAmountComparator) Less(i, j int) bool {
	return c[i].TxOut.Value > c[j].TxOut.Value
}

var _ sort.Interface = CoinByAmountComparator(nil)

// CombineUpTo greedily selects additional coins from cs (sorted by
// CoinByAmountComparator) to combine with base, skipping any coin that
// would push the running total past max and going on with the smaller
// ones (§4.7 "vin[2..]"). It returns the chosen coins and the total
// including base.
func CombineUpTo(base chain.Amount, cs CoinSet, max chain.Amount) (CoinSet, chain.Amount) {
	sorted := make(CoinSet, len(cs))
	copy(sorted, cs)
	sort.Sort(CoinByAmountComparator(sorted))

	total := base
	var chosen CoinSet
	for _, c := range sorted {
		if total+c.TxOut.Value > max {
			continue
		}
		chosen = append(chosen, c)
		total += c.TxOut.Value
	}
	return chosen, total
}
