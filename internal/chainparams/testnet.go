// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainparams

import (
	"github.com/unit-e/ued/internal/esperanza"
	"github.com/unit-e/ued/internal/ufp64"
)

// TestNetParams are the consensus parameters for the public test network:
// the same shape as mainnet but with a smaller deposit floor and faster
// epochs, so finalization exercises justification/finalization quickly.
var TestNetParams = Parameters{
	NetworkName: "testnet",

	EpochLength:               10,
	MinDepositSize:            100 * unit,
	DynastyLogoutDelay:        4,
	WithdrawalEpochDelay:      2,
	SlashFractionMultiplier:   3,
	BountyFractionDenominator: 25,
	BaseInterestFactor:        ufp64.FromRatio(7, 1000),
	BasePenaltyFactor:         ufp64.FromRatio(2, 1000),
	AdminKeys:                 esperanza.AdminKeySet{},
	PermissioningEnabled:      false,

	BlockStakeTimestampIntervalSeconds: 16,
	MaxFutureBlockTimeSeconds:          15 * 60,
	CoinbaseMaturity:                   10,
	StakeMaturity:                      10,

	InitialSupply:           150000000 * unit,
	RewardSchedule:          buildFlatRewardSchedule(375*unit/10, rewardPeriods),
	PeriodBlocks:            rewardPeriodBlocks,
	ImmediateRewardFraction: ufp64.FromRatio(1, 5),

	StakeSplitThreshold: 1000 * unit,
	StakeCombineMaximum: 100000 * unit,

	MessageStartCharacters:    [4]byte{0x09, 0x11, 0x09, 0x07},
	Bech32HumanReadablePrefix: "tue",

	Deployments: map[DeploymentID]DeploymentParams{
		DeploymentTestDummy: {StartTime: 0, Timeout: 0},
	},
}

func init() {
	TestNetParams.MaximumSupply = computeMaximumSupply(&TestNetParams)
}
