package esperanza

import "github.com/unit-e/ued/internal/chain"

// InitializeEpoch must be called for the first block of each epoch (§4.1).
// It transitions current_epoch, copies dynasty vote tallies forward,
// applies pending dynasty_deltas, and insta-justifies the previous epoch
// if no validator voted in it and it ran to completion.
func (s *FinalizationState) InitializeEpoch(blockHeight chain.Height) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	newEpoch := s.params.Epoch(blockHeight)
	if newEpoch != s.currentEpoch+1 {
		return ResultInitWrongEpoch
	}
	if blockHeight != s.params.EpochStartHeight(newEpoch) {
		return ResultInitWrongEpoch
	}

	prevEpoch := s.currentEpoch
	s.currentEpoch = newEpoch
	s.checkpoint(newEpoch)

	// Apply dynasty deltas pending at the boundary, then advance dynasty
	// vote totals one step (§3.2 Checkpoint "cur"/"prev" rolling window).
	s.totalPrevDynDeposits = s.totalCurDynDeposits
	s.totalCurDynDeposits += s.dynastyDeltas[s.currentDynasty]
	delete(s.dynastyDeltas, s.currentDynasty)

	s.updateDepositScaleFactor(prevEpoch)

	// Insta-justify: votes cast during the epoch that just ended
	// (prevEpoch) always target prevEpoch-1 (validate_vote requires
	// target == current_epoch-1). So the checkpoint that could have
	// received votes during prevEpoch, and whose voting window has now
	// fully closed, is prevEpoch-1 -- not prevEpoch itself.
	if votingTarget := prevEpoch - 1; prevEpoch >= 1 && votingTarget >= 1 {
		cp := s.checkpoint(votingTarget)
		if len(cp.Voted) == 0 && !cp.IsJustified {
			s.justify(votingTarget)
		}
	}

	return ResultSuccess
}

// justify marks epoch's checkpoint justified, updates last_justified_epoch,
// and finalizes expected_source_epoch if it is epoch's immediate
// predecessor, bumping current_dynasty (§4.1 epoch/dynasty state machine).
// Callers must hold s.mu for writing.
func (s *FinalizationState) justify(epoch chain.Epoch) {
	cp := s.checkpoint(epoch)
	if cp.IsJustified {
		return
	}
	cp.IsJustified = true
	if epoch > s.lastJustifiedEpoch {
		s.lastJustifiedEpoch = epoch
	}
	source := s.lastFinalizedSourceCandidate()
	s.expectedSourceEpoch = epoch

	if epoch > 0 && epoch-1 == source {
		s.finalize(source)
		s.currentDynasty++
		s.dynastyStartEpoch[s.currentDynasty] = s.currentEpoch
	}
}

// lastFinalizedSourceCandidate reports the source epoch a new justification
// chains from: expected_source_epoch, the most recently justified epoch.
// Callers must hold s.mu.
func (s *FinalizationState) lastFinalizedSourceCandidate() chain.Epoch {
	return s.expectedSourceEpoch
}

func (s *FinalizationState) finalize(epoch chain.Epoch) {
	cp := s.checkpoint(epoch)
	if cp.IsFinalized {
		return
	}
	cp.IsFinalized = true
	if epoch > s.lastFinalizedEpoch {
		s.lastFinalizedEpoch = epoch
	}
}
