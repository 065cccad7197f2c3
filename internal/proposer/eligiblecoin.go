// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package proposer implements the per-wallet block-proposal loop: scanning
// a wallet's coins for a winning stake, building the resulting block's
// coinbase and reward outputs, and validating received blocks' rewards
// against the same rules (§4.7, §4.9).
package proposer

import (
	"github.com/unit-e/ued/internal/chain"
	"github.com/unit-e/ued/internal/staking"
)

// EligibleCoin is a stakeable coin the proposer has found a winning kernel
// hash for: the internal ticket described in spec.md §3.2.
type EligibleCoin struct {
	Coin            staking.Coin
	KernelHash      chain.Hash256
	Reward          chain.Amount
	TargetHeight    chain.Height
	TargetTime      chain.Time
	TargetBits      uint32
}

// FindWinningTicket scans coins for the first one whose kernel hash at
// candidateTime satisfies the target difficulty, trying each coin in
// order (§4.9 step 4: "first match wins").
func FindWinningTicket(
	coins staking.CoinSet,
	modifier chain.Hash256,
	candidateTime chain.Time,
	bits uint32,
	timestampIntervalSeconds uint32,
	reward chain.Amount,
	targetHeight chain.Height,
) (EligibleCoin, bool) {
	for _, c := range coins {
		kernel := staking.ComputeKernelHash(modifier, c.BlockTime, c.OutPoint, candidateTime, timestampIntervalSeconds)
		if staking.CheckKernel(c.TxOut.Value, kernel, bits) {
			return EligibleCoin{
				Coin:         c,
				KernelHash:   kernel,
				Reward:       reward,
				TargetHeight: targetHeight,
				TargetTime:   staking.MaskTimestamp(candidateTime, timestampIntervalSeconds),
				TargetBits:   bits,
			}, true
		}
	}
	return EligibleCoin{}, false
}
