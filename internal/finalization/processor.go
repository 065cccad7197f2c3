package finalization

import (
	"github.com/unit-e/ued/internal/chain"
	"github.com/unit-e/ued/internal/esperanza"
)

// Processor orchestrates Repository transitions on ProcessNewCommits,
// ProcessNewTipCandidate, and ProcessNewTip (§4.3). Every entry point is
// always called under the repository's lock by virtue of calling into
// Repository's own locked methods; Processor itself holds no lock of its
// own.
type Processor struct {
	repo     *Repository
	params   *Params
	snapshot *SnapshotIndex
}

// NewProcessor builds a processor over repo, coordinating snapshot
// creation through snapshots.
func NewProcessor(repo *Repository, params *Params, snapshots *SnapshotIndex) *Processor {
	return &Processor{repo: repo, params: params, snapshot: snapshots}
}

// ProcessNewCommits finds or creates the state for block, applying only
// the finalization transactions in txs (no full block data required). If
// the state already exists as FROM_COMMITS or COMPLETED, this is a no-op
// (§4.3).
func (p *Processor) ProcessNewCommits(block *chain.BlockIndex, txs []esperanza.FinalizerTx) error {
	existing := p.repo.Get(block.Hash)
	if existing != nil && existing.InitStatus() != esperanza.StatusNew {
		return nil
	}

	state := existing
	if state == nil {
		state = p.repo.NewStateForBlock(block)
		if state == nil {
			return errParentStateMissing
		}
	}

	if r := state.ProcessNewCommits(block.Height, txs); !r.OK() {
		return &PeerMisbehavior{Score: 100, Reason: "malformed-commits: " + r.String()}
	}
	return nil
}

// ProcessNewTipCandidate is ProcessNewCommits's full-block counterpart: it
// may mark the state COMPLETED directly, or confirm a FROM_COMMITS entry
// against the freshly derived one, reporting a commits-state-mismatch
// misbehavior per §9's decision if they disagree.
func (p *Processor) ProcessNewTipCandidate(block *chain.BlockIndex, txs []esperanza.FinalizerTx) error {
	existing := p.repo.Get(block.Hash)

	derivingFromParent := existing == nil || existing.InitStatus() == esperanza.StatusFromCommits
	var state *esperanza.FinalizationState
	if existing == nil {
		state = p.repo.NewStateForBlock(block)
		if state == nil {
			return errParentStateMissing
		}
	} else {
		parent := p.repo.Get(block.ParentHash)
		if parent == nil {
			return errParentStateMissing
		}
		state = parent.Clone()
	}

	if r := state.ProcessNewTip(block.Height, txs); !r.OK() {
		return &PeerMisbehavior{Score: 10, Reason: "tip-validation-failed: " + r.String()}
	}

	if existing != nil && derivingFromParent {
		if matched := p.repo.Confirm(block.Hash, state); !matched {
			return errCommitsStateMismatch
		}
		return nil
	}

	state.SetInitStatus(esperanza.StatusCompleted)
	p.repo.mu.Lock()
	p.repo.states[block.Hash] = state
	p.repo.mu.Unlock()
	return nil
}

// ProcessNewTip is ProcessNewTipCandidate plus the finalization-triggered
// side effects: if block ends an epoch, request a snapshot of the
// previous block; if the finalization epoch advanced, trim the
// repository and finalize snapshots up to the new checkpoint height
// (§4.3).
func (p *Processor) ProcessNewTip(block *chain.BlockIndex, txs []esperanza.FinalizerTx, mainChainAt func(chain.Height) chain.Hash256, computeSnapshotHash func(chain.Height) chain.Hash256) error {
	prevFinalized := chain.Epoch(0)
	if parent := p.repo.Get(block.ParentHash); parent != nil {
		prevFinalized = parent.LastFinalizedEpoch()
	}

	if err := p.ProcessNewTipCandidate(block, txs); err != nil {
		return err
	}

	state := p.repo.Get(block.Hash)
	epoch := p.params.Finalization.Epoch(block.Height)
	if p.params.Finalization.EpochCheckpointHeight(epoch) == block.Height {
		if p.snapshot != nil && computeSnapshotHash != nil {
			p.snapshot.Add(block.Height, computeSnapshotHash(block.Height))
		}
	}

	if newFinalized := state.LastFinalizedEpoch(); newFinalized > prevFinalized {
		checkpointHeight := p.params.Finalization.EpochCheckpointHeight(newFinalized)
		p.repo.TrimUntilHeight(checkpointHeight, mainChainAt)
		if p.snapshot != nil {
			p.snapshot.FinalizeUpTo(checkpointHeight)
		}
	}
	return nil
}
