package esperanza

import "github.com/unit-e/ued/internal/chain"

// ValidateLogout checks whether address may request logout now: it must
// be a known, currently active validator that has not already logged out.
func (s *FinalizationState) ValidateLogout(address chain.Hash160) Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validateLogoutLocked(address)
}

func (s *FinalizationState) validateLogoutLocked(address chain.Hash160) Result {
	v, ok := s.validators[address]
	if !ok {
		return ResultLogoutNotAValidator
	}
	if v.EndDynasty != chain.InfiniteDynasty {
		return ResultLogoutAlreadyLoggedOut
	}
	if !v.IsActiveAt(s.currentDynasty) {
		return ResultLogoutNotAValidator
	}
	return ResultSuccess
}

// ProcessLogout sets end_dynasty = current_dynasty + dynasty_logout_delay
// for address, scheduling the validator's exit.
func (s *FinalizationState) ProcessLogout(address chain.Hash160, txHash chain.Hash256) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mustf(s.validateLogoutLocked(address).OK(), "ProcessLogout: called without valid logout for %s", address)

	v := s.validators[address]
	v.EndDynasty = s.currentDynasty + chain.Dynasty(s.params.DynastyLogoutDelay)
	v.LastTxHash = txHash
	s.dynastyDeltas[v.EndDynasty] -= v.Deposit
}
