package esperanza

import "github.com/unit-e/ued/internal/chain"

// ValidateVote checks vote against the current state, short-circuiting
// through the ordered conditions of §4.1.
func (s *FinalizationState) ValidateVote(vote Vote) Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validateVoteLocked(vote)
}

func (s *FinalizationState) validateVoteLocked(vote Vote) Result {
	return s.validateVoteHashLocked(vote, vote.TargetHash, false)
}

// validateVoteHashLocked is validateVoteLocked extended with the
// VOTE_WRONG_TARGET_HASH check from §4.1, run in the position the
// ordered list there requires: after VOTE_WRONG_TARGET_EPOCH and before
// VOTE_SRC_EPOCH_NOT_JUSTIFIED. checkHash lets ValidateVote reuse this
// without a recommended hash on hand (the recommended hash comes from
// the active chain, an external collaborator FinalizationState doesn't
// hold a reference to).
func (s *FinalizationState) validateVoteHashLocked(vote Vote, recommendedHash chain.Hash256, checkHash bool) Result {
	v, ok := s.validators[vote.ValidatorAddress]
	if !ok {
		return ResultVoteNotByValidator
	}
	if !v.IsActiveAt(s.currentDynasty) {
		return ResultVoteNotVotable
	}
	if chain.Epoch(len(s.checkpoints)) > vote.TargetEpoch {
		if _, voted := s.checkpoints[vote.TargetEpoch].Voted[vote.ValidatorAddress]; voted {
			return ResultVoteAlreadyVoted
		}
	}
	if s.currentEpoch == 0 || vote.TargetEpoch != s.currentEpoch-1 {
		return ResultVoteWrongTargetEpoch
	}
	if checkHash && vote.TargetHash != recommendedHash {
		return ResultVoteWrongTargetHash
	}
	if chain.Epoch(len(s.checkpoints)) <= vote.SourceEpoch || !s.checkpoints[vote.SourceEpoch].IsJustified {
		return ResultVoteSrcEpochNotJustified
	}
	return ResultSuccess
}

// ValidateVoteTargetHash is ValidateVote extended with the
// VOTE_WRONG_TARGET_HASH check against the chain's recommended
// checkpoint hash for vote.TargetEpoch (§4.1), in its correct ordered
// position rather than checked before or after the whole of ValidateVote.
func (s *FinalizationState) ValidateVoteTargetHash(vote Vote, recommendedHash chain.Hash256) Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validateVoteHashLocked(vote, recommendedHash, true)
}

// ProcessVote credits vote weight to the target checkpoint's dynasty
// tallies, records that the validator has voted, pays the vote reward,
// and advances justification/finalization/dynasty if the 2/3 threshold is
// now met (§4.1).
func (s *FinalizationState) ProcessVote(vote Vote) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mustf(s.validateVoteLocked(vote).OK(), "ProcessVote: called without valid vote from %s", vote.ValidatorAddress)

	v := s.validators[vote.ValidatorAddress]
	cp := s.checkpoint(vote.TargetEpoch)

	if v.IsActiveAt(s.currentDynasty) {
		cp.CurDynastyVotes[s.currentDynasty] += v.Deposit
	}
	if v.IsActiveAt(s.currentDynasty - 1) {
		cp.PrevDynastyVotes[s.currentDynasty-1] += v.Deposit
	}
	cp.Voted[vote.ValidatorAddress] = struct{}{}
	v.LastVoteEpoch = vote.TargetEpoch

	reward := s.calculateVoteReward(v)
	s.processReward(v, reward)

	curTotal := cp.CurDynastyVotes[s.currentDynasty]
	prevTotal := cp.PrevDynastyVotes[s.currentDynasty-1]
	curThreshold := s.totalCurDynDeposits * 2 / 3
	prevThreshold := s.totalPrevDynDeposits * 2 / 3

	if !cp.IsJustified && curTotal >= curThreshold && prevTotal >= prevThreshold {
		if vote.TargetEpoch == vote.SourceEpoch+1 {
			s.justifyWithSource(vote.TargetEpoch, vote.SourceEpoch)
		} else {
			s.justify(vote.TargetEpoch)
		}
	}
}

// justifyWithSource is justify, but finalizes sourceEpoch directly instead
// of assuming it is targetEpoch-1 (it always is when called from
// ProcessVote, but spelling it out keeps the contract explicit).
func (s *FinalizationState) justifyWithSource(targetEpoch, sourceEpoch chain.Epoch) {
	cp := s.checkpoint(targetEpoch)
	if cp.IsJustified {
		return
	}
	cp.IsJustified = true
	if targetEpoch > s.lastJustifiedEpoch {
		s.lastJustifiedEpoch = targetEpoch
	}
	s.expectedSourceEpoch = targetEpoch

	if targetEpoch > 0 && sourceEpoch == targetEpoch-1 {
		s.finalize(sourceEpoch)
		s.currentDynasty++
		s.dynastyStartEpoch[s.currentDynasty] = s.currentEpoch
	}
}
