// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chainparams defines the immutable, per-network constants the
// finalization and staking subsystems are parameterized by (§2
// "Parameters"). Parameters is kept as plain data -- no inheritance-based
// "Behavior" façade (§9) -- with free functions operating on *Parameters
// where per-network behavior varies.
package chainparams

import (
	"github.com/unit-e/ued/internal/chain"
	"github.com/unit-e/ued/internal/esperanza"
	"github.com/unit-e/ued/internal/ufp64"
)

// DeploymentID names a soft-fork deployment. Both the original's
// bip9_deployments array and the rest of the parameter struct are
// dimensioned by this single enum (§9 open question 2 -- no secondary
// enum).
type DeploymentID uint8

// Recognized deployments.
const (
	DeploymentTestDummy DeploymentID = iota
)

// Parameters is the full set of consensus and policy constants for one
// network. It is built once per network and never mutated.
type Parameters struct {
	NetworkName string

	// Finalization (esperanza) constants, §2 "Parameters".
	EpochLength             uint32
	MinDepositSize          chain.Amount
	DynastyLogoutDelay      uint32
	WithdrawalEpochDelay    uint32
	SlashFractionMultiplier uint64
	BountyFractionDenominator uint64
	BaseInterestFactor      ufp64.F64
	BasePenaltyFactor       ufp64.F64
	AdminKeys               esperanza.AdminKeySet
	PermissioningEnabled    bool

	// Block/staking timing.
	BlockStakeTimestampIntervalSeconds uint32
	MaxFutureBlockTimeSeconds          uint32
	CoinbaseMaturity                  uint16
	StakeMaturity                     uint16

	// Reward schedule.
	InitialSupply chain.Amount
	RewardSchedule []chain.Amount
	PeriodBlocks   uint32
	MaximumSupply  chain.Amount
	ImmediateRewardFraction ufp64.F64

	// Block builder policy defaults (overridable from config, §6).
	StakeSplitThreshold  chain.Amount
	StakeCombineMaximum  chain.Amount

	// Network framing.
	MessageStartCharacters [4]byte
	Bech32HumanReadablePrefix string

	Deployments map[DeploymentID]DeploymentParams
}

// DeploymentParams describes one soft-fork deployment's activation window.
type DeploymentParams struct {
	StartTime  chain.Time
	Timeout    chain.Time
}

// Finalization projects the subset of Parameters the esperanza state
// machine needs into esperanza.Params, keeping that package decoupled from
// chainparams the way finalization::Params is kept separate from
// blockchain::Parameters in the original design.
func (p *Parameters) Finalization() esperanza.Params {
	return esperanza.Params{
		EpochLength:               p.EpochLength,
		MinDepositSize:            p.MinDepositSize,
		DynastyLogoutDelay:        p.DynastyLogoutDelay,
		WithdrawalEpochDelay:      p.WithdrawalEpochDelay,
		SlashFractionMultiplier:   p.SlashFractionMultiplier,
		BountyFractionDenominator: p.BountyFractionDenominator,
		BaseInterestFactor:        p.BaseInterestFactor,
		BasePenaltyFactor:         p.BasePenaltyFactor,
		AdminKeys:                 p.AdminKeys,
		PermissioningEnabled:      p.PermissioningEnabled,
	}
}

// Epoch returns the epoch containing height.
func (p *Parameters) Epoch(height chain.Height) chain.Epoch {
	return chain.EpochOf(height, p.EpochLength)
}

// BaseReward returns the block subsidy for height under the reward
// schedule, 0 once the schedule is exhausted.
func (p *Parameters) BaseReward(height chain.Height) chain.Amount {
	period := uint32(height) / p.PeriodBlocks
	if int(period) >= len(p.RewardSchedule) {
		return 0
	}
	return p.RewardSchedule[period]
}

// EpochStartHeight returns the height of the first block of epoch. Epoch 0
// is genesis-only, so it "starts" at height 0; epoch 1 starts at height 1
// and every subsequent epoch starts epochLength blocks after the last.
func (p *Parameters) EpochStartHeight(epoch chain.Epoch) chain.Height {
	if epoch == 0 {
		return 0
	}
	return chain.Height((uint32(epoch)-1)*p.EpochLength + 1)
}

// EpochCheckpointHeight returns the height of the last block of epoch (the
// checkpoint block).
func (p *Parameters) EpochCheckpointHeight(epoch chain.Epoch) chain.Height {
	if epoch == 0 {
		return 0
	}
	return chain.Height(uint32(epoch) * p.EpochLength)
}
