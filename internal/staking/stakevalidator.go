// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package staking

import (
	"sync"

	"github.com/unit-e/ued/internal/chain"
)

// StakeValidator checks that a block's proof-of-stake input is eligible,
// mature, unused, and -- for remote-staking coins -- adequately returned to
// its owner (§4.6). It keeps its own record of which outpoints have already
// produced a block at which height, independent of the UTXO set, so a
// reorg can cheaply forget stakes that fall off the active chain.
type StakeValidator struct {
	params *Params

	mu   sync.Mutex
	seen map[chain.OutPoint]chain.Height
}

// Params bundles the staking-specific consensus parameters CheckStake
// enforces, mirroring chainparams' role for the base chain.
type Params struct {
	StakeMaturity                      uint16
	StakeMinAge                        uint32
	BlockStakeTimestampIntervalSeconds uint32
}

// NewStakeValidator builds an empty validator.
func NewStakeValidator(params *Params) *StakeValidator {
	return &StakeValidator{
		params: params,
		seen:   make(map[chain.OutPoint]chain.Height),
	}
}

// CheckStake validates that coin legitimately produces blockHeight's
// proof-of-stake kernel: it must be mature, must not already have been used
// to propose a block, its kernel hash must meet bits' target, and if it is
// a remote-staking coin the owner's returned value must cover the staked
// input (§4.6).
func (v *StakeValidator) CheckStake(
	coin Coin,
	blockHeight chain.Height,
	candidateTime chain.Time,
	modifier chain.Hash256,
	bits uint32,
	ownerReturnedValue chain.Amount,
) BlockValidationError {
	if coin.Depth(blockHeight-1) < chain.Depth(v.params.StakeMaturity) {
		return ErrStakeImmature
	}

	v.mu.Lock()
	if usedAt, ok := v.seen[coin.OutPoint]; ok {
		v.mu.Unlock()
		_ = usedAt
		return ErrStakeAlreadySpentAtHeight
	}
	v.mu.Unlock()

	kernel := ComputeKernelHash(modifier, coin.BlockTime, coin.OutPoint, candidateTime, v.params.BlockStakeTimestampIntervalSeconds)
	if !CheckKernel(coin.TxOut.Value, kernel, bits) {
		return ErrKernelAboveTarget
	}

	if coin.IsRemoteStaking() && ownerReturnedValue < coin.TxOut.Value {
		return ErrRemoteStakingInputBiggerThanOutput
	}

	return ErrNone
}

// RememberPieceOfStake records that outpoint produced a block at height,
// so a later CheckStake call rejects any attempt to reuse it.
func (v *StakeValidator) RememberPieceOfStake(outpoint chain.OutPoint, height chain.Height) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seen[outpoint] = height
}

// ForgetPieceOfStake undoes RememberPieceOfStake, called when the block
// that recorded outpoint is disconnected from the active chain.
func (v *StakeValidator) ForgetPieceOfStake(outpoint chain.OutPoint) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.seen, outpoint)
}
