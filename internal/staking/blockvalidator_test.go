// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package staking

import (
	"testing"

	"github.com/unit-e/ued/internal/chain"
)

func buildValidBlock(t *testing.T, height chain.Height, snapshotHash chain.Hash256) *chain.Block {
	t.Helper()

	coinbase := &chain.Transaction{
		Version: 1,
		Type:    chain.TxCoinbase,
		TxIn: []chain.TxIn{{
			PreviousOutPoint: chain.OutPoint{Index: 0xffffffff},
			SignatureScript:  chain.BuildMetaInputScript(height, snapshotHash),
		}},
		TxOut: []chain.TxOut{{Value: 1000}},
	}
	regular := &chain.Transaction{
		Version: 1,
		Type:    chain.TxRegular,
		TxIn:    []chain.TxIn{{PreviousOutPoint: chain.OutPoint{Hash: chain.HashH([]byte("spend")), Index: 0}}},
		TxOut:   []chain.TxOut{{Value: 500}},
	}

	txs := []*chain.Transaction{coinbase, regular}
	merkleRoot, _ := chain.BlockMerkleRoot(txs)
	witnessRoot, _ := chain.BlockWitnessMerkleRoot(txs)

	commits := []*chain.Transaction{}
	commitsRoot, _ := chain.BlockMerkleRoot(commits)

	header := chain.BlockHeader{
		Version:              1,
		MerkleRoot:           merkleRoot,
		WitnessMerkleRoot:    witnessRoot,
		FinalizerCommitsRoot: commitsRoot,
		Time:                 1600,
		Bits:                 chain.Difficulty(easyBits),
		Height:               height,
	}

	return &chain.Block{
		Header:           header,
		FinalizerCommits: commits,
		Transactions:     txs,
	}
}

func TestCheckBlockAcceptsWellFormedBlock(t *testing.T) {
	block := buildValidBlock(t, 10, chain.HashH([]byte("snapshot")))
	v := NewBlockValidator(testStakeParams(), NewStakeValidator(testStakeParams()))

	if err := v.CheckBlock(block); err != ErrNone {
		t.Fatalf("expected ErrNone, got %v", err)
	}
}

func TestCheckBlockRejectsMissingCoinbase(t *testing.T) {
	block := buildValidBlock(t, 10, chain.HashH([]byte("snapshot")))
	block.Transactions[0].Type = chain.TxRegular

	v := NewBlockValidator(testStakeParams(), NewStakeValidator(testStakeParams()))
	if err := v.CheckBlock(block); err != ErrBadCoinbasePosition {
		t.Fatalf("expected ErrBadCoinbasePosition, got %v", err)
	}
}

func TestCheckBlockRejectsMerkleMismatch(t *testing.T) {
	block := buildValidBlock(t, 10, chain.HashH([]byte("snapshot")))
	block.Header.MerkleRoot = chain.HashH([]byte("wrong"))

	v := NewBlockValidator(testStakeParams(), NewStakeValidator(testStakeParams()))
	if err := v.CheckBlock(block); err != ErrMerkleRootMismatch {
		t.Fatalf("expected ErrMerkleRootMismatch, got %v", err)
	}
}

func TestCheckBlockRejectsDuplicateInputs(t *testing.T) {
	block := buildValidBlock(t, 10, chain.HashH([]byte("snapshot")))
	dup := &chain.Transaction{
		Version: 1,
		Type:    chain.TxRegular,
		TxIn:    []chain.TxIn{block.Transactions[1].TxIn[0]},
		TxOut:   []chain.TxOut{{Value: 1}},
	}
	block.Transactions = append(block.Transactions, dup)
	block.Header.MerkleRoot, _ = chain.BlockMerkleRoot(block.Transactions)
	block.Header.WitnessMerkleRoot, _ = chain.BlockWitnessMerkleRoot(block.Transactions)

	v := NewBlockValidator(testStakeParams(), NewStakeValidator(testStakeParams()))
	if err := v.CheckBlock(block); err != ErrDuplicateInput {
		t.Fatalf("expected ErrDuplicateInput, got %v", err)
	}
}

func TestContextualCheckBlockValidatesMetaInputAndStake(t *testing.T) {
	snapshotHash := chain.HashH([]byte("snapshot"))
	block := buildValidBlock(t, 10, snapshotHash)

	stakes := NewStakeValidator(testStakeParams())
	v := NewBlockValidator(testStakeParams(), stakes)
	coin := coinAt(5, 1000)

	err := v.ContextualCheckBlock(block, 10, snapshotHash, coin, chain.Hash256{}, 0)
	if err != ErrNone {
		t.Fatalf("expected ErrNone, got %v", err)
	}
}

func TestContextualCheckBlockRejectsSnapshotMismatch(t *testing.T) {
	snapshotHash := chain.HashH([]byte("snapshot"))
	block := buildValidBlock(t, 10, snapshotHash)

	stakes := NewStakeValidator(testStakeParams())
	v := NewBlockValidator(testStakeParams(), stakes)
	coin := coinAt(5, 1000)

	err := v.ContextualCheckBlock(block, 10, chain.HashH([]byte("different")), coin, chain.Hash256{}, 0)
	if err != ErrBadMetaInput {
		t.Fatalf("expected ErrBadMetaInput, got %v", err)
	}
}

func TestContextualCheckBlockHeaderTimeBounds(t *testing.T) {
	v := NewBlockValidator(testStakeParams(), NewStakeValidator(testStakeParams()))
	header := &chain.BlockHeader{Time: 1000}

	if err := v.ContextualCheckBlockHeader(header, 1000, 1000); err != ErrTimeTooOld {
		t.Fatalf("expected ErrTimeTooOld, got %v", err)
	}

	header.Time = 1000 + 2*60*60 + 1
	if err := v.ContextualCheckBlockHeader(header, 500, 1000); err != ErrTimeTooNew {
		t.Fatalf("expected ErrTimeTooNew, got %v", err)
	}

	header.Time = 1500
	if err := v.ContextualCheckBlockHeader(header, 1000, 1600); err != ErrNone {
		t.Fatalf("expected ErrNone, got %v", err)
	}
}
