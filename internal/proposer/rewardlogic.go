// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package proposer

import (
	"github.com/unit-e/ued/internal/chain"
	"github.com/unit-e/ued/internal/esperanza"
)

// RewardLogic decides how many finalization-reward outputs a coinbase
// carries and what each is worth, the abstraction spec.md §4.7 names only
// as "that logic" (§4.7 "BlockBuilder and BlockRewardValidator").
type RewardLogic interface {
	// NumRewardOutputs returns how many finalization-reward outputs the
	// coinbase at height must carry.
	NumRewardOutputs(state *esperanza.FinalizationState, height chain.Height) int

	// RewardOutputs returns the exact (amount, script) pairs the coinbase
	// must pay, in order, for a coinbase at height paying a total of
	// totalReward.
	RewardOutputs(state *esperanza.FinalizationState, height chain.Height, totalReward chain.Amount) []chain.TxOut
}

// EsperanzaRewardLogic pays every validator active in the state's current
// dynasty an equal share of the finalization reward, in address order,
// capped at MaxRewardOutputs. It does not look at votes: whether a
// validator voted, and for which checkpoint, does not affect the payout.
// Grounded in
// esperanza::FinalizationState::GetActiveFinalizers
// (original_source/src/esperanza/finalizationstate.h), which
// spec.md §4.7 refers to only abstractly as "that logic".
type EsperanzaRewardLogic struct {
	// MaxRewardOutputs caps the number of reward outputs a single
	// coinbase may carry (finalization_reward_logic.max_reward_outputs).
	MaxRewardOutputs int

	// ScriptFor resolves a validator address to the script its reward
	// output pays to (out of scope: the real wallet/address-book
	// collaborator supplies this).
	ScriptFor func(addr chain.Hash160) []byte
}

// NumRewardOutputs returns min(len(active finalizers), MaxRewardOutputs).
func (l *EsperanzaRewardLogic) NumRewardOutputs(state *esperanza.FinalizationState, height chain.Height) int {
	n := len(l.activeFinalizers(state))
	if n > l.MaxRewardOutputs {
		return l.MaxRewardOutputs
	}
	return n
}

// RewardOutputs splits totalReward evenly (remainder to the first output,
// to avoid losing dust) across the active finalizers, one output each, up
// to MaxRewardOutputs.
func (l *EsperanzaRewardLogic) RewardOutputs(state *esperanza.FinalizationState, height chain.Height, totalReward chain.Amount) []chain.TxOut {
	validators := l.activeFinalizers(state)
	if len(validators) > l.MaxRewardOutputs {
		validators = validators[:l.MaxRewardOutputs]
	}
	if len(validators) == 0 {
		return nil
	}

	share := totalReward / chain.Amount(len(validators))
	remainder := totalReward - share*chain.Amount(len(validators))

	outs := make([]chain.TxOut, len(validators))
	for i, v := range validators {
		amount := share
		if i == 0 {
			amount += remainder
		}
		var script []byte
		if l.ScriptFor != nil {
			script = l.ScriptFor(v.Address)
		}
		outs[i] = chain.TxOut{Value: amount, ScriptPubKey: script}
	}
	return outs
}

// activeFinalizers returns state's active finalizers sorted by address,
// giving RewardOutputs a deterministic iteration order.
func (l *EsperanzaRewardLogic) activeFinalizers(state *esperanza.FinalizationState) []esperanza.Validator {
	validators := state.ActiveFinalizers()
	for i := 1; i < len(validators); i++ {
		for j := i; j > 0 && less(validators[j], validators[j-1]); j-- {
			validators[j], validators[j-1] = validators[j-1], validators[j]
		}
	}
	return validators
}

func less(a, b esperanza.Validator) bool {
	for i := range a.Address {
		if a.Address[i] != b.Address[i] {
			return a.Address[i] < b.Address[i]
		}
	}
	return false
}
