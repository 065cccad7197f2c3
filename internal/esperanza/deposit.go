package esperanza

import "github.com/unit-e/ued/internal/chain"

// ValidateDeposit checks whether a deposit of amount from address would be
// accepted (§4.1). A deposit must meet the minimum size and the address
// must not already be a registered validator.
func (s *FinalizationState) ValidateDeposit(address chain.Hash160, amount chain.Amount) Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validateDepositLocked(address, amount)
}

func (s *FinalizationState) validateDepositLocked(address chain.Hash160, amount chain.Amount) Result {
	if amount < s.params.MinDepositSize {
		return ResultDepositInsufficient
	}
	if _, exists := s.validators[address]; exists {
		return ResultDepositDuplicate
	}
	return ResultSuccess
}

// ProcessDeposit registers address as a new validator with the given
// deposit, effective two dynasties from now (start_dynasty =
// current_dynasty + 2). Callers must have already called ValidateDeposit
// and had it succeed.
func (s *FinalizationState) ProcessDeposit(address chain.Hash160, amount chain.Amount, txHash chain.Hash256) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mustf(s.validateDepositLocked(address, amount).OK(), "ProcessDeposit: called without valid deposit for %s", address)

	startDynasty := s.currentDynasty + 2
	s.validators[address] = &Validator{
		Address:      address,
		Deposit:      amount,
		StartDynasty: startDynasty,
		EndDynasty:   chain.InfiniteDynasty,
		LastTxHash:   txHash,
	}
	s.dynastyDeltas[startDynasty] += amount
}
