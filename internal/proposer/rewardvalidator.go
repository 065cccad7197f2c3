// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package proposer

import (
	"bytes"

	"github.com/unit-e/ued/internal/chain"
	"github.com/unit-e/ued/internal/esperanza"
)

// RewardCheckError enumerates CheckBlockRewards' recoverable failures
// (§4.7 "BlockRewardValidator.check_block_rewards").
type RewardCheckError uint8

// Recognized reward-check failures.
const (
	RewardErrNone RewardCheckError = iota
	RewardErrImmediateTooLarge
	RewardErrFinalizationRewardMismatch
	RewardErrOutputsExceedInput
	RewardErrPrincipalNotReturned
)

func (e RewardCheckError) String() string {
	switch e {
	case RewardErrNone:
		return "none"
	case RewardErrImmediateTooLarge:
		return "immediate-reward-too-large"
	case RewardErrFinalizationRewardMismatch:
		return "finalization-reward-mismatch"
	case RewardErrOutputsExceedInput:
		return "outputs-exceed-input"
	case RewardErrPrincipalNotReturned:
		return "principal-not-returned"
	default:
		return "unknown-reward-check-error"
	}
}

func (e RewardCheckError) Error() string { return e.String() }

// BlockRewardValidator re-checks a received coinbase's reward layout
// against the same RewardLogic the builder used (§4.7).
type BlockRewardValidator struct {
	RewardLogic             RewardLogic
	ImmediateRewardFraction uint64 // numerator over 100

	// ParentOfParentAvailable reports whether the grandparent block's
	// data (needed to recompute the exact reward script) is on hand; if
	// false, only the reward output's amount is checked, not its script
	// (§4.7 "script check skipped if parent-of-parent block data is
	// unavailable").
	ParentOfParentAvailable func(height chain.Height) bool
}

// CheckBlockRewards enforces the four invariants of §4.7:
// (i) first output <= immediate_reward_fraction * base_reward + fees;
// (ii) each of the next k outputs matches the reward logic's amount (and
// script, when available);
// (iii) total outputs <= input + reward + fees;
// (iv) total outputs >= input (no un-returned principal).
func (v *BlockRewardValidator) CheckBlockRewards(
	tx *chain.Transaction,
	state *esperanza.FinalizationState,
	height chain.Height,
	baseReward chain.Amount,
	inputAmount chain.Amount,
	fees chain.Amount,
) RewardCheckError {
	if len(tx.TxOut) == 0 {
		return RewardErrImmediateTooLarge
	}

	maxImmediate := baseReward*chain.Amount(v.ImmediateRewardFraction)/100 + fees
	if tx.TxOut[0].Value > maxImmediate {
		return RewardErrImmediateTooLarge
	}

	k := 0
	if v.RewardLogic != nil {
		k = v.RewardLogic.NumRewardOutputs(state, height)
		if 1+k > len(tx.TxOut) {
			return RewardErrFinalizationRewardMismatch
		}
		reward := baseReward - (maxImmediate - fees)
		expected := v.RewardLogic.RewardOutputs(state, height, reward)
		if len(expected) != k {
			return RewardErrFinalizationRewardMismatch
		}
		checkScript := v.ParentOfParentAvailable == nil || v.ParentOfParentAvailable(height)
		for i, want := range expected {
			got := tx.TxOut[1+i]
			if got.Value != want.Value {
				return RewardErrFinalizationRewardMismatch
			}
			if checkScript && !bytes.Equal(got.ScriptPubKey, want.ScriptPubKey) {
				return RewardErrFinalizationRewardMismatch
			}
		}
	}

	var total chain.Amount
	for _, out := range tx.TxOut {
		total += out.Value
	}
	if total > inputAmount+baseReward+fees {
		return RewardErrOutputsExceedInput
	}
	if total < inputAmount {
		return RewardErrPrincipalNotReturned
	}

	return RewardErrNone
}
