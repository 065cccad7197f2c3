package esperanza

import (
	"testing"

	"github.com/unit-e/ued/internal/chain"
)

// TestDispatchRejectsVoteWithWrongTargetHash exercises the real
// ProcessNewCommits -> dispatch -> ValidateVoteTargetHash path: a vote tx
// whose VoteTargetHash disagrees with the recommended checkpoint hash
// must be rejected rather than credited, even though its TargetEpoch and
// SourceEpoch are otherwise valid.
func TestDispatchRejectsVoteWithWrongTargetHash(t *testing.T) {
	s, v1, _ := newActiveTwoValidatorState(t, 2*testParams().MinDepositSize)

	recommended := chain.DoubleHashH([]byte("recommended"))
	wrong := chain.DoubleHashH([]byte("wrong"))
	tx := FinalizerTx{
		Type: chain.TxVote,
		Vote: Vote{ValidatorAddress: v1, TargetEpoch: 3, SourceEpoch: 2, TargetHash: wrong},
		VoteTargetHash: recommended,
	}

	r := s.dispatch([]FinalizerTx{tx})
	if r != ResultVoteWrongTargetHash {
		t.Fatalf("expected VOTE_WRONG_TARGET_HASH, got %v", r)
	}
	if _, voted := s.checkpoints[3].Voted[v1]; voted {
		t.Fatal("vote with wrong target hash must not be credited")
	}
}

// TestDispatchAcceptsVoteWithMatchingTargetHash is the accepting
// counterpart: a vote tx whose VoteTargetHash matches the vote's own
// TargetHash is processed and credited normally.
func TestDispatchAcceptsVoteWithMatchingTargetHash(t *testing.T) {
	s, v1, _ := newActiveTwoValidatorState(t, 2*testParams().MinDepositSize)

	recommended := chain.DoubleHashH([]byte("recommended"))
	tx := FinalizerTx{
		Type: chain.TxVote,
		Vote: Vote{ValidatorAddress: v1, TargetEpoch: 3, SourceEpoch: 2, TargetHash: recommended},
		VoteTargetHash: recommended,
	}

	if r := s.dispatch([]FinalizerTx{tx}); !r.OK() {
		t.Fatalf("dispatch: %v", r)
	}
	if _, voted := s.checkpoints[3].Voted[v1]; !voted {
		t.Fatal("vote with matching target hash should be credited")
	}
}
