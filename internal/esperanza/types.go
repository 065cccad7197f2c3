// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package esperanza implements the Casper-FFG-style finalization state
// machine (§4.1): a deterministic per-block state tracking validator
// deposits, epoch checkpoints, justification, finalization, slashing,
// rewards, and dynasty transitions.
package esperanza

import (
	"github.com/unit-e/ued/internal/chain"
	"github.com/unit-e/ued/internal/ufp64"
)

// Params is the narrow subset of chainparams.Parameters the finalization
// state machine depends on, kept separate from the full Parameters struct
// the way the original keeps finalization::Params apart from
// blockchain::Parameters.
type Params struct {
	EpochLength               uint32
	MinDepositSize            chain.Amount
	DynastyLogoutDelay        uint32
	WithdrawalEpochDelay      uint32
	SlashFractionMultiplier   uint64
	BountyFractionDenominator uint64
	BaseInterestFactor        ufp64.F64
	BasePenaltyFactor         ufp64.F64
	AdminKeys                 AdminKeySet
	PermissioningEnabled      bool
}

// Epoch returns the epoch containing height.
func (p *Params) Epoch(height chain.Height) chain.Epoch {
	return chain.EpochOf(height, p.EpochLength)
}

// EpochCheckpointHeight returns the height of the last block of epoch.
func (p *Params) EpochCheckpointHeight(epoch chain.Epoch) chain.Height {
	if epoch == 0 {
		return 0
	}
	return chain.Height(uint32(epoch) * p.EpochLength)
}

// EpochStartHeight returns the height of the first block of epoch.
func (p *Params) EpochStartHeight(epoch chain.Epoch) chain.Height {
	if epoch == 0 {
		return 0
	}
	return chain.Height((uint32(epoch)-1)*p.EpochLength + 1)
}

// InitStatus is the current stage of a FinalizationState's initialization.
type InitStatus uint8

const (
	// StatusNew marks a state that was just created (cloned from a parent,
	// not yet processed).
	StatusNew InitStatus = iota
	// StatusFromCommits marks a state initialized from finalizer commits
	// only (partial evidence).
	StatusFromCommits
	// StatusCompleted marks a state whose initialization used a full
	// block (authoritative).
	StatusCompleted
)

func (s InitStatus) String() string {
	switch s {
	case StatusNew:
		return "NEW"
	case StatusFromCommits:
		return "FROM_COMMITS"
	case StatusCompleted:
		return "COMPLETED"
	default:
		return "UNKNOWN"
	}
}

// Validator is one registered finalizer (§3.2 "Validator").
type Validator struct {
	Address       chain.Hash160
	Deposit       chain.Amount
	StartDynasty  chain.Dynasty
	EndDynasty    chain.Dynasty // chain.InfiniteDynasty if not logged out
	LastVoteEpoch chain.Epoch
	LastTxHash    chain.Hash256
}

// IsActiveAt reports whether the validator is part of dynasty d: it has
// started (d >= StartDynasty) and not yet ended (d < EndDynasty), §3.2
// "Lifecycle".
func (v *Validator) IsActiveAt(d chain.Dynasty) bool {
	return d >= v.StartDynasty && d < v.EndDynasty
}

// Checkpoint is the per-epoch accumulator of vote weight and the monotone
// justified/finalized flags (§3.2 "Checkpoint").
type Checkpoint struct {
	CurDynastyVotes  map[chain.Dynasty]chain.Amount
	PrevDynastyVotes map[chain.Dynasty]chain.Amount
	Voted            map[chain.Hash160]struct{}
	IsJustified      bool
	IsFinalized      bool
}

func newCheckpoint() Checkpoint {
	return Checkpoint{
		CurDynastyVotes:  make(map[chain.Dynasty]chain.Amount),
		PrevDynastyVotes: make(map[chain.Dynasty]chain.Amount),
		Voted:            make(map[chain.Hash160]struct{}),
	}
}

func (c *Checkpoint) clone() Checkpoint {
	n := newCheckpoint()
	for k, v := range c.CurDynastyVotes {
		n.CurDynastyVotes[k] = v
	}
	for k, v := range c.PrevDynastyVotes {
		n.PrevDynastyVotes[k] = v
	}
	for k := range c.Voted {
		n.Voted[k] = struct{}{}
	}
	n.IsJustified = c.IsJustified
	n.IsFinalized = c.IsFinalized
	return n
}

// Vote is a single finalizer vote, as seen in a vote transaction (§3.2
// "Vote"). It is not stored long-term in FinalizationState itself --
// VoteRecorder (§4.5) remembers votes across the process lifetime for
// slashing detection.
type Vote struct {
	ValidatorAddress chain.Hash160
	TargetHash       chain.Hash256
	SourceEpoch      chain.Epoch
	TargetEpoch      chain.Epoch
}

// AdminKeySet is a threshold-signed set of public keys authorized to issue
// admin commands in a permissioned deployment.
type AdminKeySet struct {
	Threshold int
	Keys      [][]byte
}

// AdminCommandType enumerates the admin commands a permissioned deployment
// may issue (§4.11, supplemented from original_source).
type AdminCommandType uint8

// Recognized admin command types.
const (
	AdminCommandWhitelist AdminCommandType = iota
	AdminCommandResetAdmins
	AdminCommandEndPermissioning
)

// AdminCommand is one threshold-signed administrative instruction.
type AdminCommand struct {
	Type      AdminCommandType
	Addresses []chain.Hash160 // for AdminCommandWhitelist
	Keys      AdminKeySet     // for AdminCommandResetAdmins
}
