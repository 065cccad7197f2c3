package esperanza

import "github.com/unit-e/ued/internal/chain"

// IsSlashable reports whether v1 and v2 are one validator's two votes that
// form a slashable pair: a double-vote (same target epoch, different
// target hash) or a surround-vote (source/target spans strictly nest),
// per I5/§4.5. Equal votes are never slashable.
func IsSlashable(v1, v2 Vote) bool {
	if v1.ValidatorAddress != v2.ValidatorAddress {
		return false
	}
	if v1 == v2 {
		return false
	}
	if v1.TargetEpoch == v2.TargetEpoch && v1.TargetHash != v2.TargetHash {
		return true
	}
	return surrounds(v1, v2) || surrounds(v2, v1)
}

// surrounds reports whether outer strictly surrounds inner:
// outer.source < inner.source < inner.target < outer.target.
func surrounds(outer, inner Vote) bool {
	return outer.SourceEpoch < inner.SourceEpoch &&
		inner.SourceEpoch < inner.TargetEpoch &&
		inner.TargetEpoch < outer.TargetEpoch
}

// ValidateSlash checks whether (v1, v2) may be processed as a slash: both
// must name a known, not-already-slashed validator, the same validator,
// and form a slashable pair.
func (s *FinalizationState) ValidateSlash(v1, v2 Vote) Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validateSlashLocked(v1, v2)
}

func (s *FinalizationState) validateSlashLocked(v1, v2 Vote) Result {
	if v1 == v2 {
		return ResultSlashSameVote
	}
	if v1.ValidatorAddress != v2.ValidatorAddress {
		return ResultSlashMismatchedValidators
	}
	val, ok := s.validators[v1.ValidatorAddress]
	if !ok {
		return ResultSlashNotAValidator
	}
	if val.EndDynasty == 0 {
		return ResultSlashAlreadySlashed
	}
	if !IsSlashable(v1, v2) {
		return ResultSlashNotSlashable
	}
	return ResultSuccess
}

// ProcessSlash burns the validator's entire deposit and pays a bounty of
// deposit / bounty_fraction_denominator to the slasher (§4.1, §4.5).
// The bounty is returned so the caller (a wallet/mempool collaborator) can
// construct the payout to the slasher, since FinalizationState has no
// notion of transaction outputs.
func (s *FinalizationState) ProcessSlash(v1, v2 Vote) (bounty chain.Amount) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mustf(s.validateSlashLocked(v1, v2).OK(), "ProcessSlash: called without valid slashable pair")

	val := s.validators[v1.ValidatorAddress]
	deposit := val.Deposit

	epoch := s.currentEpoch
	s.totalSlashed[epoch] += deposit
	if val.IsActiveAt(s.currentDynasty) {
		s.dynastyDeltas[val.EndDynasty] -= deposit
	}

	bounty = deposit / chain.Amount(s.params.BountyFractionDenominator)
	val.Deposit = 0
	val.EndDynasty = 0 // sentinel: slashed, never active again

	return bounty
}
