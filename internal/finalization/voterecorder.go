package finalization

import (
	"sync"

	"github.com/unit-e/ued/internal/chain"
	"github.com/unit-e/ued/internal/esperanza"
)

// VoteKey identifies one validator's vote for record-keeping purposes.
type VoteKey struct {
	Validator chain.Hash160
	TxHash    chain.Hash256
}

// SlashingDetected is the event VoteRecorder emits when it finds a
// slashable pair (§4.5). The wallet subsystem subscribes and generates a
// slash transaction from it; producing the transaction is out of scope.
type SlashingDetected struct {
	Vote1, Vote2         esperanza.Vote
	TxHash1, TxHash2     chain.Hash256
}

// VoteRecorder is the process-wide memory of observed validator votes; it
// detects double-vote and surround-vote slashable conditions (§4.5).
//
// Safe for concurrent access. Its own lock is always acquired last in the
// lock order of §5.
type VoteRecorder struct {
	mu        sync.Mutex
	byValidator map[chain.Hash160][]recordedVote
	listeners []func(SlashingDetected)
}

type recordedVote struct {
	vote   esperanza.Vote
	txHash chain.Hash256
}

// NewVoteRecorder builds an empty recorder.
func NewVoteRecorder() *VoteRecorder {
	return &VoteRecorder{byValidator: make(map[chain.Hash160][]recordedVote)}
}

// Subscribe registers fn to be called, outside the recorder's lock, for
// every SlashingDetected event.
func (r *VoteRecorder) Subscribe(fn func(SlashingDetected)) {
	r.mu.Lock()
	r.listeners = append(r.listeners, fn)
	r.mu.Unlock()
}

// RecordVote adds vote to the list of votes kept for its validator and
// checks every previously recorded vote from the same validator against
// the new one.
// Every detected slashable pair raises a SlashingDetected event after the
// lock is released (§4.5).
func (r *VoteRecorder) RecordVote(vote esperanza.Vote, txHash chain.Hash256) {
	r.mu.Lock()
	prior := r.byValidator[vote.ValidatorAddress]

	var detected []SlashingDetected
	alreadyRecorded := false
	for _, p := range prior {
		if p.vote == vote {
			alreadyRecorded = true
			continue
		}
		if esperanza.IsSlashable(p.vote, vote) {
			detected = append(detected, SlashingDetected{
				Vote1: p.vote, TxHash1: p.txHash,
				Vote2: vote, TxHash2: txHash,
			})
		}
	}
	if !alreadyRecorded {
		r.byValidator[vote.ValidatorAddress] = append(prior, recordedVote{vote: vote, txHash: txHash})
	}
	listeners := append([]func(SlashingDetected){}, r.listeners...)
	r.mu.Unlock()

	for _, evt := range detected {
		for _, fn := range listeners {
			fn(evt)
		}
	}
}

// VotesFor returns every vote recorded for validator, for tests and
// diagnostics.
func (r *VoteRecorder) VotesFor(validator chain.Hash160) []esperanza.Vote {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]esperanza.Vote, len(r.byValidator[validator]))
	for i, rv := range r.byValidator[validator] {
		out[i] = rv.vote
	}
	return out
}
