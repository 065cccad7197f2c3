package esperanza

import (
	"testing"

	"github.com/unit-e/ued/internal/chain"
	"github.com/unit-e/ued/internal/ufp64"
)

func testParams() *Params {
	return &Params{
		EpochLength:               50,
		MinDepositSize:            1500,
		DynastyLogoutDelay:        2,
		WithdrawalEpochDelay:      2,
		SlashFractionMultiplier:   3,
		BountyFractionDenominator: 25,
		BaseInterestFactor:        ufp64.FromRatio(7, 1000),
		BasePenaltyFactor:         ufp64.FromRatio(2, 1000),
	}
}

// TestInstaJustification exercises S1: empty validator set, initialize_epoch
// driven for heights 1, 51, 101, 151 with epoch_length=50. After height 151,
// last_justified_epoch must be 2 and last_finalized_epoch must be 1.
func TestInstaJustification(t *testing.T) {
	s := NewGenesis(testParams())
	for _, h := range []chain.Height{1, 51, 101, 151} {
		if r := s.InitializeEpoch(h); !r.OK() {
			t.Fatalf("InitializeEpoch(%d): %v", h, r)
		}
	}
	if got := s.LastJustifiedEpoch(); got != 2 {
		t.Fatalf("last_justified_epoch = %d, want 2", got)
	}
	if got := s.LastFinalizedEpoch(); got != 1 {
		t.Fatalf("last_finalized_epoch = %d, want 1", got)
	}
}

// TestP1Invariant checks P1 (last_finalized <= last_justified <= current)
// holds throughout the S1 walk.
func TestP1Invariant(t *testing.T) {
	s := NewGenesis(testParams())
	for _, h := range []chain.Height{1, 51, 101, 151} {
		if r := s.InitializeEpoch(h); !r.OK() {
			t.Fatalf("InitializeEpoch(%d): %v", h, r)
		}
		if !(s.LastFinalizedEpoch() <= s.LastJustifiedEpoch() && s.LastJustifiedEpoch() <= s.CurrentEpoch()) {
			t.Fatalf("P1 violated at height %d: finalized=%d justified=%d current=%d",
				h, s.LastFinalizedEpoch(), s.LastJustifiedEpoch(), s.CurrentEpoch())
		}
	}
}

func TestInitializeEpochWrongHeight(t *testing.T) {
	s := NewGenesis(testParams())
	if r := s.InitializeEpoch(2); r.OK() {
		t.Fatalf("expected INIT_WRONG_EPOCH for off-boundary height, got %v", r)
	}
}
