package esperanza

import (
	"github.com/unit-e/ued/internal/chain"
	"github.com/unit-e/ued/internal/ufp64"
)

// ValidateWithdraw checks whether address may withdraw now: it must be a
// known validator whose withdraw epoch has arrived.
func (s *FinalizationState) ValidateWithdraw(address chain.Hash160) Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, _ := s.validateWithdrawLocked(address)
	return r
}

func (s *FinalizationState) validateWithdrawLocked(address chain.Hash160) (Result, *Validator) {
	v, ok := s.validators[address]
	if !ok {
		return ResultWithdrawNotAValidator, nil
	}
	if s.currentEpoch < s.withdrawEpoch(v) {
		return ResultWithdrawTooEarly, nil
	}
	return ResultSuccess, v
}

// withdrawEpoch returns the first epoch at which v may withdraw:
// withdrawal_epoch_delay epochs after the epoch its end_dynasty starts.
func (s *FinalizationState) withdrawEpoch(v *Validator) chain.Epoch {
	endEpoch, ok := s.dynastyStartEpoch[v.EndDynasty]
	if !ok {
		endEpoch = s.currentEpoch
	}
	return endEpoch + chain.Epoch(s.params.WithdrawalEpochDelay)
}

// CalculateWithdrawAmount returns the amount address would receive if it
// withdrew now: the deposit scaled by deposit_scale_factor[end_epoch]
// minus the slashed fraction, or 0 if address is not withdrawable.
func (s *FinalizationState) CalculateWithdrawAmount(address chain.Hash160) chain.Amount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, v := s.validateWithdrawLocked(address)
	if !r.OK() {
		return 0
	}
	return s.calculateWithdrawAmountLocked(v)
}

func (s *FinalizationState) calculateWithdrawAmountLocked(v *Validator) chain.Amount {
	endEpoch, ok := s.dynastyStartEpoch[v.EndDynasty]
	if !ok {
		endEpoch = s.currentEpoch
	}
	factor, ok := s.depositScaleFactor[endEpoch]
	if !ok {
		factor = ufp64.One
	}
	scaled := ufp64.FromUint(uint64(v.Deposit)).Mul(factor)
	amount := chain.Amount(scaled.Int())

	slashedAtEpoch := s.totalSlashed[endEpoch]
	if slashedAtEpoch > 0 && amount > slashedAtEpoch {
		amount -= slashedAtEpoch / chain.Amount(s.params.SlashFractionMultiplier+1)
	}
	if amount < 0 {
		return 0
	}
	return amount
}

// ProcessWithdraw removes address from the validator set and returns the
// amount it is entitled to. Callers must have already called
// ValidateWithdraw and had it succeed.
func (s *FinalizationState) ProcessWithdraw(address chain.Hash160) chain.Amount {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, v := s.validateWithdrawLocked(address)
	mustf(r.OK(), "ProcessWithdraw: called without valid withdraw for %s", address)

	amount := s.calculateWithdrawAmountLocked(v)
	delete(s.validators, address)
	return amount
}
