package esperanza

import (
	"testing"

	"github.com/unit-e/ued/internal/chain"
)

func TestValidateDeposit(t *testing.T) {
	s := NewGenesis(testParams())
	addr := addrOf(1)

	if r := s.ValidateDeposit(addr, testParams().MinDepositSize-1); r != ResultDepositInsufficient {
		t.Fatalf("got %v, want DEPOSIT_INSUFFICIENT", r)
	}
	if r := s.ValidateDeposit(addr, testParams().MinDepositSize); !r.OK() {
		t.Fatalf("got %v, want SUCCESS", r)
	}

	s.ProcessDeposit(addr, testParams().MinDepositSize, chain.Hash256{})
	if r := s.ValidateDeposit(addr, testParams().MinDepositSize); r != ResultDepositDuplicate {
		t.Fatalf("got %v, want DEPOSIT_DUPLICATE", r)
	}

	v := s.Validator(addr)
	if v == nil {
		t.Fatal("expected validator to be registered")
	}
	if v.StartDynasty != 2 {
		t.Fatalf("start_dynasty = %d, want 2 (current_dynasty=0 + 2)", v.StartDynasty)
	}
}

func TestLogoutAndWithdrawLifecycle(t *testing.T) {
	s := NewGenesis(testParams())
	addr := addrOf(2)
	s.validators[addr] = &Validator{Address: addr, Deposit: 10000, StartDynasty: 0, EndDynasty: chain.InfiniteDynasty}

	if r := s.ValidateLogout(addr); !r.OK() {
		t.Fatalf("ValidateLogout: %v", r)
	}
	s.ProcessLogout(addr, chain.Hash256{})

	if r := s.ValidateLogout(addr); r != ResultLogoutAlreadyLoggedOut {
		t.Fatalf("got %v, want LOGOUT_ALREADY_LOGGED_OUT", r)
	}

	v := s.Validator(addr)
	wantEnd := s.CurrentDynasty() + chain.Dynasty(testParams().DynastyLogoutDelay)
	if v.EndDynasty != wantEnd {
		t.Fatalf("end_dynasty = %d, want %d", v.EndDynasty, wantEnd)
	}

	if r := s.ValidateWithdraw(addr); r != ResultWithdrawTooEarly {
		t.Fatalf("got %v, want WITHDRAW_TOO_EARLY", r)
	}

	s.mu.Lock()
	s.currentDynasty = v.EndDynasty
	s.dynastyStartEpoch[v.EndDynasty] = s.currentEpoch
	s.currentEpoch += chain.Epoch(testParams().WithdrawalEpochDelay) + 1
	s.mu.Unlock()

	if r := s.ValidateWithdraw(addr); !r.OK() {
		t.Fatalf("ValidateWithdraw: %v", r)
	}
	amount := s.ProcessWithdraw(addr)
	if amount <= 0 {
		t.Fatalf("expected positive withdraw amount, got %d", amount)
	}
	if s.Validator(addr) != nil {
		t.Fatal("expected validator removed after withdraw")
	}
}
