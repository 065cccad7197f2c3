// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command ued is the unit-e node daemon: it wires together chain
// parameters, the finalization state machine and its persistence layer,
// stake/block validation, and the block proposer, following the exccd
// convention of a thin main() that defers to realMain so deferred cleanup
// still runs on early return.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/unit-e/ued/internal/chain"
	"github.com/unit-e/ued/internal/chainparams"
	"github.com/unit-e/ued/internal/config"
	"github.com/unit-e/ued/internal/esperanza"
	"github.com/unit-e/ued/internal/finalization"
	"github.com/unit-e/ued/internal/proposer"
	"github.com/unit-e/ued/internal/staking"
	"github.com/unit-e/ued/internal/ufp64"
	"github.com/unit-e/ued/internal/ulog"
)

var log = ulog.Logger(ulog.TagChainParams)

// fixedTargetBits is a deliberately loose, unambiguously positive compact
// target (mantissa 0x7fffff, exponent 0x20): its sign bit is clear so it
// never collides with the compact-bits negative-target convention.
const fixedTargetBits uint32 = 0x207fffff

func main() {
	if err := realMain(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func realMain() error {
	opts, err := config.LoadOptions(os.Args[1:])
	if err != nil {
		return fmt.Errorf("loading options: %w", err)
	}

	if err := ulog.InitLogRotator(filepath.Join(opts.LogDir, "ued.log")); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}

	params := opts.Params()
	log.Infof("active network: %s (base reward at genesis: %s)",
		params.NetworkName, chain.DisplayAmount(params.BaseReward(0)))

	node, err := newNode(opts, &params)
	if err != nil {
		return fmt.Errorf("initializing node: %w", err)
	}

	interrupt := interruptListener()
	node.proposer.Start()
	log.Info("proposer started, waiting for shutdown signal")
	<-interrupt

	node.proposer.Stop()
	if err := node.stateDB.Close(); err != nil {
		log.Errorf("closing state database: %v", err)
	}
	return nil
}

// node bundles every long-lived collaborator constructed from opts, the
// subsystems a running daemon needs for its lifetime.
type node struct {
	chain    *staking.MemChain
	stateDB  *finalization.StateDB
	repo     *finalization.Repository
	proc     *finalization.Processor
	stakes   *staking.StakeValidator
	blocks   *staking.BlockValidator
	proposer *proposer.Proposer
}

func newNode(opts *config.Options, params *chainparams.Parameters) (*node, error) {
	genesis := buildGenesisBlock(params)
	genesisHash := genesis.Hash()

	snapshots := finalization.NewSnapshotIndex(&finalization.Params{
		Finalization:          params.Finalization(),
		MaxSnapshots:          1024,
		MinFinalizedSnapshots: 2,
	})

	repo := finalization.NewRepository(&finalization.Params{
		Finalization: params.Finalization(),
	}, genesisHash)

	proc := finalization.NewProcessor(repo, &finalization.Params{
		Finalization: params.Finalization(),
	}, snapshots)

	finalizationParams := params.Finalization()
	stateDB, err := finalization.OpenStateDB(filepath.Join(opts.DataDir, "finalization"), &finalizationParams)
	if err != nil {
		return nil, fmt.Errorf("opening finalization state db: %w", err)
	}

	c := staking.NewMemChain(genesis, func(chain.Height) chain.Hash256 {
		return chain.Hash256{}
	})

	stakeParams := &staking.Params{
		StakeMaturity:                      params.StakeMaturity,
		BlockStakeTimestampIntervalSeconds: params.BlockStakeTimestampIntervalSeconds,
	}
	stakes := staking.NewStakeValidator(stakeParams)
	blocks := staking.NewBlockValidator(stakeParams, stakes)

	builder := &proposer.BlockBuilder{
		StakeSplitThreshold:     params.StakeSplitThreshold,
		StakeCombineMaximum:     params.StakeCombineMaximum,
		ImmediateRewardFraction: params.ImmediateRewardFraction.Mul(ufp64.FromUint(100)).Int(),
	}

	prop := proposer.New(proposer.Config{
		Chain:  c,
		Params: stakeParams,
		Stakes: stakes,
		Wallet: noopWallet{rewardScript: []byte(opts.RewardAddress)},
		Builder: builder,
		State: func() *esperanza.FinalizationState {
			return repo.Get(c.Tip().Hash)
		},
		Modifier: func(tip *chain.BlockIndex) chain.Hash256 {
			return chain.Hash256{}
		},
		TargetBits: func(tip *chain.BlockIndex) uint32 {
			// Difficulty retargeting is out of scope; every network uses a
			// fixed, deliberately loose target until a retargeting
			// algorithm is specified.
			return fixedTargetBits
		},
		BaseReward: params.BaseReward,
		Fees: func(chain.Height) chain.Amount {
			return 0
		},
	})

	return &node{
		chain:    c,
		stateDB:  stateDB,
		repo:     repo,
		proc:     proc,
		stakes:   stakes,
		blocks:   blocks,
		proposer: prop,
	}, nil
}

func buildGenesisBlock(params *chainparams.Parameters) *chain.Block {
	return &chain.Block{
		Header: chain.BlockHeader{
			Version: 1,
			Time:    0,
			Bits:    0,
			Height:  0,
		},
	}
}

// noopWallet is a wallet-less placeholder so the daemon can run with
// staking dormant (StakeableCoins returns none) until real wallet
// integration lands; RewardAddress still flows through for operators who
// only need -rewardaddress honored in the coinbase layout.
type noopWallet struct {
	rewardScript []byte
}

func (noopWallet) Lock()         {}
func (noopWallet) Unlock()       {}
func (noopWallet) IsLocked() bool { return true }
func (noopWallet) StakeableCoins() staking.CoinSet { return nil }
func (w noopWallet) RewardScript() []byte { return w.rewardScript }
func (noopWallet) SignBlock(chain.Hash256) ([]byte, error) {
	return nil, fmt.Errorf("noopWallet: signing not implemented")
}

// interruptListener returns a channel that is closed when SIGINT or
// SIGTERM is received, the signal shape realMain waits on before tearing
// subsystems down in order.
func interruptListener() <-chan struct{} {
	c := make(chan struct{})
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		close(c)
	}()
	return c
}
