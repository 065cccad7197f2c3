// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package staking

import (
	"github.com/unit-e/ued/internal/chain"
)

// BlockValidationInfo is a tri-state memo of a validation result that lets
// callers distinguish "checked and passed", "checked and failed", and
// "not yet checked" without an extra boolean, the way block-index
// validity flags commonly do.
type BlockValidationInfo uint8

// Tri-state values.
const (
	ValidationUnknown BlockValidationInfo = iota
	ValidationValid
	ValidationInvalid
)

// Record sets info to reflect err: ValidationValid if err is ErrNone,
// ValidationInvalid otherwise.
func (info *BlockValidationInfo) Record(err BlockValidationError) {
	if err.OK() {
		*info = ValidationValid
	} else {
		*info = ValidationInvalid
	}
}

// BlockValidator runs the stateless and contextual checks a candidate
// block must pass before its stake, commits, and rewards are accepted
// (§4.8). It holds no mutable state of its own; StakeValidator and
// ActiveChain supply everything needed from outside.
type BlockValidator struct {
	params *Params
	stakes *StakeValidator
}

// NewBlockValidator builds a validator over params and stakes.
func NewBlockValidator(params *Params, stakes *StakeValidator) *BlockValidator {
	return &BlockValidator{params: params, stakes: stakes}
}

// CheckBlockHeader runs the check that needs only the header itself: the
// timestamp must already be masked to the stake timestamp interval (§4.8
// "stateless checks"). The coinbase checks are in CheckBlock.
func (v *BlockValidator) CheckBlockHeader(header *chain.BlockHeader) BlockValidationError {
	masked := MaskTimestamp(header.Time, v.params.BlockStakeTimestampIntervalSeconds)
	if masked != header.Time {
		return ErrBadTimestampMask
	}
	return ErrNone
}

// ContextualCheckBlockHeader runs checks that need the header's position in
// the chain: the timestamp must be after the median of the last 11 blocks
// and not more than two hours ahead of the network-adjusted time (§4.8).
func (v *BlockValidator) ContextualCheckBlockHeader(header *chain.BlockHeader, medianTimePast, adjustedTime chain.Time) BlockValidationError {
	const maxFutureDrift = chain.Time(2 * 60 * 60)

	if header.Time <= medianTimePast {
		return ErrTimeTooOld
	}
	if header.Time > adjustedTime+maxFutureDrift {
		return ErrTimeTooNew
	}
	return ErrNone
}

// CheckBlock runs the stateless checks over a full block's body: exactly
// one coinbase in the right place, no duplicate transactions or inputs,
// transactions after the coinbase in ascending-hash order, and that the
// header's three roots match the block's actual content (§4.8).
func (v *BlockValidator) CheckBlock(block *chain.Block) BlockValidationError {
	if len(block.Transactions) == 0 {
		return ErrMissingCoinbase
	}
	for i, tx := range block.Transactions {
		if tx.Type == chain.TxCoinbase && i != 0 {
			return ErrMultipleCoinbases
		}
	}
	if block.Transactions[0].Type != chain.TxCoinbase {
		return ErrBadCoinbasePosition
	}

	if chain.HasDuplicateTransactions(block.Transactions) {
		return ErrDuplicateTransaction
	}
	if chain.HasDuplicateOutPoints(block.Transactions) {
		return ErrDuplicateInput
	}
	if !chain.IsLexicographicallyOrdered(block.Transactions) {
		return ErrBadTransactionOrder
	}

	root, duplicate := chain.BlockMerkleRoot(block.Transactions)
	if duplicate || root != block.Header.MerkleRoot {
		return ErrMerkleRootMismatch
	}
	witnessRoot, duplicate := chain.BlockWitnessMerkleRoot(block.Transactions)
	if duplicate || witnessRoot != block.Header.WitnessMerkleRoot {
		return ErrWitnessMerkleRootMismatch
	}

	commitsRoot, duplicate := chain.BlockMerkleRoot(block.FinalizerCommits)
	if duplicate || commitsRoot != block.Header.FinalizerCommitsRoot {
		return ErrFinalizerCommitsRootMismatch
	}

	return ErrNone
}

// ContextualCheckBlock runs the checks that need chain context: the
// coinbase's meta input must name blockHeight and snapshotHash, and the
// proof-of-stake coin named by the second input must pass CheckStake
// (§4.8, §4.6).
func (v *BlockValidator) ContextualCheckBlock(
	block *chain.Block,
	blockHeight chain.Height,
	snapshotHash chain.Hash256,
	stakeCoin Coin,
	modifier chain.Hash256,
	ownerReturnedValue chain.Amount,
) BlockValidationError {
	coinbase := block.Coinbase()
	if coinbase == nil || len(coinbase.TxIn) == 0 {
		return ErrBadMetaInput
	}
	meta := coinbase.TxIn[0]
	if !meta.PreviousOutPoint.IsNull() {
		return ErrBadMetaInput
	}
	height, hash, err := chain.ParseMetaInputScript(meta.SignatureScript)
	if err != nil || height != blockHeight || hash != snapshotHash {
		return ErrBadMetaInput
	}

	if stakeErr := v.stakes.CheckStake(stakeCoin, blockHeight, block.Header.Time, modifier, uint32(block.Header.Bits), ownerReturnedValue); !stakeErr.OK() {
		return stakeErr
	}

	return ErrNone
}
