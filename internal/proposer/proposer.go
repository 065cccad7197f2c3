// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package proposer

import (
	"sync"

	"github.com/unit-e/ued/internal/chain"
	"github.com/unit-e/ued/internal/esperanza"
	"github.com/unit-e/ued/internal/staking"
)

// Status reports why the proposer loop did, or did not, attempt a
// proposal on its last wakeup (§4.9 steps 2-3).
type Status int

// Recognized statuses.
const (
	StatusProposing Status = iota
	StatusNotProposingNoPeers
	StatusNotProposingSyncingBlockchain
	StatusNotProposingWalletLocked
	StatusNotProposingNotEnoughBalance
)

func (s Status) String() string {
	switch s {
	case StatusProposing:
		return "PROPOSING"
	case StatusNotProposingNoPeers:
		return "NOT_PROPOSING_NO_PEERS"
	case StatusNotProposingSyncingBlockchain:
		return "NOT_PROPOSING_SYNCING_BLOCKCHAIN"
	case StatusNotProposingWalletLocked:
		return "NOT_PROPOSING_WALLET_LOCKED"
	case StatusNotProposingNotEnoughBalance:
		return "NOT_PROPOSING_NOT_ENOUGH_BALANCE"
	default:
		return "UNKNOWN"
	}
}

// Proposer is one cooperative per-wallet proposal task (§4.9). Every
// iteration waits on a condvar until Wake or Stop is called, then attempts
// at most one proposal. The loop has no timer of its own: without a Wake
// call it makes no proposal attempt.
type Proposer struct {
	mu   sync.Mutex
	cond *sync.Cond

	woken    bool
	shutdown bool
	status   Status

	chain   staking.ActiveChain
	params  *staking.Params
	stakes  *staking.StakeValidator
	wallet  StakingWallet
	builder *BlockBuilder
	state   func() *esperanza.FinalizationState
	modifier func(tip *chain.BlockIndex) chain.Hash256
	targetBits func(tip *chain.BlockIndex) uint32
	baseReward func(height chain.Height) chain.Amount
	fees       func(height chain.Height) chain.Amount
	pick       TransactionPicker
}

// Config bundles Proposer's collaborators.
type Config struct {
	Chain      staking.ActiveChain
	Params     *staking.Params
	Stakes     *staking.StakeValidator
	Wallet     StakingWallet
	Builder    *BlockBuilder
	State      func() *esperanza.FinalizationState
	Modifier   func(tip *chain.BlockIndex) chain.Hash256
	TargetBits func(tip *chain.BlockIndex) uint32
	BaseReward func(height chain.Height) chain.Amount
	Fees       func(height chain.Height) chain.Amount
	Pick       TransactionPicker
}

// New builds a Proposer from cfg, idle until Start is called.
func New(cfg Config) *Proposer {
	p := &Proposer{
		chain:      cfg.Chain,
		params:     cfg.Params,
		stakes:     cfg.Stakes,
		wallet:     cfg.Wallet,
		builder:    cfg.Builder,
		state:      cfg.State,
		modifier:   cfg.Modifier,
		targetBits: cfg.TargetBits,
		baseReward: cfg.BaseReward,
		fees:       cfg.Fees,
		pick:       cfg.Pick,
	}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Start runs the proposer loop in its own goroutine until Stop is called.
func (p *Proposer) Start() {
	go p.run()
}

// Stop sets the shutdown flag and wakes the loop so it exits before its
// next slot (§4.9 "Cancellation").
func (p *Proposer) Stop() {
	p.mu.Lock()
	p.shutdown = true
	p.cond.Broadcast()
	p.mu.Unlock()
}

// Wake signals the loop to attempt a proposal immediately, for use by
// external events (new block, wallet unlocked, balance changed); it is the
// only call that starts an attempt (§4.9 step 1).
func (p *Proposer) Wake() {
	p.mu.Lock()
	p.woken = true
	p.cond.Signal()
	p.mu.Unlock()
}

// Status returns the outcome of the most recent iteration.
func (p *Proposer) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *Proposer) run() {
	for {
		p.mu.Lock()
		for !p.woken && !p.shutdown {
			p.cond.Wait()
		}
		if p.shutdown {
			p.mu.Unlock()
			return
		}
		p.woken = false
		p.mu.Unlock()

		p.tryPropose()
	}
}

func (p *Proposer) tryPropose() {
	p.chain.RLock()
	peerCount := p.chain.PeerCount()
	syncing := p.chain.IsInitialBlockDownload()
	tip := p.chain.Tip()
	adjustedTime := p.chain.AdjustedTime()
	p.chain.RUnlock()

	if peerCount == 0 {
		p.setStatus(StatusNotProposingNoPeers)
		return
	}
	if syncing {
		p.setStatus(StatusNotProposingSyncingBlockchain)
		return
	}

	p.wallet.Lock()
	defer p.wallet.Unlock()

	if p.wallet.IsLocked() {
		p.setStatus(StatusNotProposingWalletLocked)
		return
	}

	coins := p.wallet.StakeableCoins().EligibleAt(tip.Height, p.params.StakeMaturity)
	if len(coins) == 0 {
		p.setStatus(StatusNotProposingNotEnoughBalance)
		return
	}

	modifier := p.modifier(tip)
	bits := p.targetBits(tip)
	targetHeight := tip.Height + 1
	reward := p.baseReward(targetHeight)

	ticket, ok := FindWinningTicket(coins, modifier, adjustedTime, bits, p.params.BlockStakeTimestampIntervalSeconds, reward, targetHeight)
	if !ok {
		p.setStatus(StatusProposing)
		return
	}

	snapshotHash := p.chain.ComputeSnapshotHash(tip.Height)
	fees := p.fees(targetHeight)
	state := p.state()

	block := p.builder.BuildBlock(ticket, nil, snapshotHash, reward, fees, p.wallet.RewardScript(), state, nil, p.pick)
	block.Header.PrevBlock = tip.Hash

	sig, err := p.wallet.SignBlock(block.Header.BlockHash())
	if err != nil {
		p.setStatus(StatusProposing)
		return
	}
	block.Signature = sig

	if err := p.chain.ProcessNewBlock(block); err == nil {
		p.stakes.RememberPieceOfStake(ticket.Coin.OutPoint, targetHeight)
	}

	p.setStatus(StatusProposing)
}

func (p *Proposer) setStatus(s Status) {
	p.mu.Lock()
	p.status = s
	p.mu.Unlock()
}
