// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainparams

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/unit-e/ued/internal/chain"
)

// Overrides is the JSON shape accepted by -customchainparams[file]
// (§6). Every field is optional; fields left unset keep the base
// network's value. Only the subset of Parameters a node operator
// plausibly wants to tune for a private chain is exposed here.
type Overrides struct {
	EpochLength        *uint32          `json:"epoch_length,omitempty"`
	MinDepositSize     *chain.Amount    `json:"min_deposit_size,omitempty"`
	InitialSupply      *chain.Amount    `json:"initial_supply,omitempty"`
	RewardSchedule     []chain.Amount   `json:"reward_schedule,omitempty"`
	PeriodBlocks       *uint32          `json:"period_blocks,omitempty"`
	StakeSplitThreshold *chain.Amount   `json:"stake_split_threshold,omitempty"`
	StakeCombineMaximum *chain.Amount   `json:"stake_combine_maximum,omitempty"`
	PermissioningEnabled *bool          `json:"permissioning,omitempty"`
}

// LoadOverrides parses a -customchainparams JSON document from r and
// applies it on top of base, returning a new Parameters value (base is
// never mutated). Per §9 open question 1, the reward-schedule invariant
// (maximum_supply == initial_supply + sum(reward_schedule) * period_blocks)
// is re-validated here: this is user-supplied configuration, not a
// compiled-in constant, so a mismatch must be a recoverable error, not a
// panic.
func LoadOverrides(base Parameters, r io.Reader) (Parameters, error) {
	var o Overrides
	if err := json.NewDecoder(r).Decode(&o); err != nil {
		return Parameters{}, fmt.Errorf("chainparams: decoding overrides: %w", err)
	}

	p := base
	if o.EpochLength != nil {
		p.EpochLength = *o.EpochLength
	}
	if o.MinDepositSize != nil {
		p.MinDepositSize = *o.MinDepositSize
	}
	if o.InitialSupply != nil {
		p.InitialSupply = *o.InitialSupply
	}
	if o.RewardSchedule != nil {
		p.RewardSchedule = o.RewardSchedule
	}
	if o.PeriodBlocks != nil {
		p.PeriodBlocks = *o.PeriodBlocks
	}
	if o.StakeSplitThreshold != nil {
		p.StakeSplitThreshold = *o.StakeSplitThreshold
	}
	if o.StakeCombineMaximum != nil {
		p.StakeCombineMaximum = *o.StakeCombineMaximum
	}
	if o.PermissioningEnabled != nil {
		p.PermissioningEnabled = *o.PermissioningEnabled
	}

	p.MaximumSupply = computeMaximumSupply(&p)
	if want := base.MaximumSupply; o.InitialSupply == nil && o.RewardSchedule == nil && o.PeriodBlocks == nil {
		// No reward-affecting field changed; maximum_supply must still
		// match the base network's, or the base itself is inconsistent.
		if p.MaximumSupply != want {
			return Parameters{}, fmt.Errorf(
				"chainparams: base network maximum_supply %d disagrees with recomputed %d",
				want, p.MaximumSupply)
		}
	}

	return p, nil
}
