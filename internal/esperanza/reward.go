package esperanza

import (
	"github.com/unit-e/ued/internal/chain"
	"github.com/unit-e/ued/internal/ufp64"
)

// rewardFactor returns base_interest_factor * sqrt(total_deposits) for the
// given total (§4.1 "Reward math").
func (s *FinalizationState) rewardFactor(totalDeposits chain.Amount) ufp64.F64 {
	if totalDeposits <= 0 {
		return ufp64.Zero
	}
	return s.params.BaseInterestFactor.Mul(ufp64.FromUint(uint64(totalDeposits)).Sqrt())
}

// penaltyFactor accelerates with every epoch that passes without
// finalization: base_penalty_factor * epochs_since_finalization.
func (s *FinalizationState) penaltyFactor(epochsSinceFinalization uint32) ufp64.F64 {
	return s.params.BasePenaltyFactor.Mul(ufp64.FromUint(uint64(epochsSinceFinalization)))
}

// updateDepositScaleFactor computes
// deposit_scale_factor[epoch] = deposit_scale_factor[epoch-1] * (1 + reward_factor - penalty_factor)
// for the epoch that just ended, the way the original does once per
// initialize_epoch call. Callers must hold s.mu for writing.
func (s *FinalizationState) updateDepositScaleFactor(epoch chain.Epoch) {
	prevFactor, ok := s.depositScaleFactor[epoch]
	if !ok {
		prevFactor = ufp64.One
	}

	epochsSinceFinalization := uint32(epoch+1) - uint32(s.lastFinalizedEpoch)
	rf := s.rewardFactor(s.totalCurDynDeposits)
	pf := s.penaltyFactor(epochsSinceFinalization)

	growth := subClamped(ufp64.One.Add(rf), pf)
	s.depositScaleFactor[epoch+1] = prevFactor.Mul(growth)
}

func subClamped(a, b ufp64.F64) ufp64.F64 {
	if uint64(b) >= uint64(a) {
		return ufp64.Zero
	}
	return a.Sub(b)
}

// processReward credits reward to validator's scaled deposit for epoch,
// the bookkeeping performed on every successful vote (§4.1 "On each
// successful vote, ProcessReward(validator, reward) increases the
// validator's scaled deposit").
func (s *FinalizationState) processReward(v *Validator, reward chain.Amount) {
	v.Deposit += reward
}

// calculateVoteReward returns the reward paid to validator v for a
// successful vote, scaled by the current deposit_scale_factor.
func (s *FinalizationState) calculateVoteReward(v *Validator) chain.Amount {
	factor, ok := s.depositScaleFactor[s.currentEpoch]
	if !ok {
		factor = ufp64.One
	}
	scaled := ufp64.FromUint(uint64(v.Deposit)).Mul(factor)
	reward := chain.Amount(scaled.Int()) - v.Deposit
	if reward < 0 {
		return 0
	}
	return reward
}
