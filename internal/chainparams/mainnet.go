// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainparams

import (
	"github.com/unit-e/ued/internal/chain"
	"github.com/unit-e/ued/internal/esperanza"
	"github.com/unit-e/ued/internal/ufp64"
)

// MainNetParams are the consensus parameters for the production network.
var MainNetParams = Parameters{
	NetworkName: "mainnet",

	EpochLength:               50,
	MinDepositSize:            10000 * unit,
	DynastyLogoutDelay:        4,
	WithdrawalEpochDelay:      6,
	SlashFractionMultiplier:   3,
	BountyFractionDenominator: 25,
	BaseInterestFactor:        ufp64.FromRatio(7, 1000),
	BasePenaltyFactor:         ufp64.FromRatio(2, 1000),
	AdminKeys:                 esperanza.AdminKeySet{},
	PermissioningEnabled:      false,

	BlockStakeTimestampIntervalSeconds: 16,
	MaxFutureBlockTimeSeconds:          15 * 60,
	CoinbaseMaturity:                   100,
	StakeMaturity:                      100,

	InitialSupply:           150000000 * unit,
	RewardSchedule:          buildFlatRewardSchedule(375*unit/10, rewardPeriods),
	PeriodBlocks:            rewardPeriodBlocks,
	ImmediateRewardFraction: ufp64.FromRatio(1, 5),

	StakeSplitThreshold: 1000 * unit,
	StakeCombineMaximum: 100000 * unit,

	MessageStartCharacters:    [4]byte{0xce, 0xe2, 0xca, 0xff},
	Bech32HumanReadablePrefix: "ue",

	Deployments: map[DeploymentID]DeploymentParams{
		DeploymentTestDummy: {StartTime: 0, Timeout: 0},
	},
}

func init() {
	MainNetParams.MaximumSupply = computeMaximumSupply(&MainNetParams)
}

// unit is the number of minor units per whole coin, mirroring dcrutil's
// AtomsPerCoin convention.
const unit = chain.Amount(100000000)

const (
	rewardPeriods      = 64
	rewardPeriodBlocks = 20 * 50 // 20 epochs per reward period
)

// buildFlatRewardSchedule returns n periods each paying amount, the
// simplest reward schedule shape: a flat, array-backed schedule dispatched
// by period index rather than a closure.
func buildFlatRewardSchedule(amount chain.Amount, n int) []chain.Amount {
	sched := make([]chain.Amount, n)
	for i := range sched {
		sched[i] = amount
	}
	return sched
}

// computeMaximumSupply re-derives maximum_supply from initial_supply and
// the reward schedule, the invariant this chain's parameters must
// maintain (§9 open question 1): maximum_supply == initial_supply +
// sum(reward_schedule) * period_blocks.
func computeMaximumSupply(p *Parameters) chain.Amount {
	var sum chain.Amount
	for _, r := range p.RewardSchedule {
		sum += r * chain.Amount(p.PeriodBlocks)
	}
	return p.InitialSupply + sum
}
