// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainparams

import (
	"github.com/unit-e/ued/internal/esperanza"
	"github.com/unit-e/ued/internal/ufp64"
)

// RegTestParams are the consensus parameters for the local regression-test
// network: a tiny epoch length and permissioning enabled by default so a
// single-node test harness can drive the full admin-command surface.
var RegTestParams = Parameters{
	NetworkName: "regtest",

	EpochLength:               5,
	MinDepositSize:            1500 * unit,
	DynastyLogoutDelay:        2,
	WithdrawalEpochDelay:      2,
	SlashFractionMultiplier:   3,
	BountyFractionDenominator: 25,
	BaseInterestFactor:        ufp64.FromRatio(7, 1000),
	BasePenaltyFactor:         ufp64.FromRatio(2, 1000),
	AdminKeys:                 esperanza.AdminKeySet{Threshold: 1, Keys: nil},
	PermissioningEnabled:      true,

	BlockStakeTimestampIntervalSeconds: 1,
	MaxFutureBlockTimeSeconds:          15 * 60,
	CoinbaseMaturity:                   2,
	StakeMaturity:                      2,

	InitialSupply:           150000000 * unit,
	RewardSchedule:          buildFlatRewardSchedule(375*unit/10, 4),
	PeriodBlocks:            5,
	ImmediateRewardFraction: ufp64.FromRatio(1, 5),

	StakeSplitThreshold: 1000 * unit,
	StakeCombineMaximum: 100000 * unit,

	MessageStartCharacters:    [4]byte{0xfa, 0xbf, 0xb5, 0xda},
	Bech32HumanReadablePrefix: "uert",

	Deployments: map[DeploymentID]DeploymentParams{
		DeploymentTestDummy: {StartTime: 0, Timeout: 0},
	},
}

func init() {
	RegTestParams.MaximumSupply = computeMaximumSupply(&RegTestParams)
}
