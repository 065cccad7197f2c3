// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package proposer

import (
	"testing"

	"github.com/unit-e/ued/internal/chain"
)

func TestSplitAmountSinglePieceUnderThreshold(t *testing.T) {
	pieces := SplitAmount(500, 1000)
	if len(pieces) != 1 || pieces[0] != 500 {
		t.Fatalf("unexpected pieces %+v", pieces)
	}
}

func TestSplitAmountSplitsEvenlyWithMinimalRemainder(t *testing.T) {
	pieces := SplitAmount(1001, 500)
	if len(pieces) != 3 {
		t.Fatalf("expected 3 pieces, got %d: %+v", len(pieces), pieces)
	}
	var total chain.Amount
	maxPiece, minPiece := pieces[0], pieces[0]
	for _, p := range pieces {
		total += p
		if p > maxPiece {
			maxPiece = p
		}
		if p < minPiece {
			minPiece = p
		}
	}
	if total != 1001 {
		t.Fatalf("pieces do not sum to total: %d", total)
	}
	if maxPiece-minPiece > 1 {
		t.Fatalf("pieces differ by more than one minor unit: %+v", pieces)
	}
}

func TestSplitAmountZeroIsEmpty(t *testing.T) {
	if pieces := SplitAmount(0, 500); pieces != nil {
		t.Fatalf("expected nil pieces for zero total, got %+v", pieces)
	}
}

func TestBuildCoinbaseTransactionLayout(t *testing.T) {
	ticket := EligibleCoin{
		Coin: testCoin(1, 1000, 0x05),
		TargetHeight: 10,
		TargetTime:   1600,
	}
	builder := &BlockBuilder{
		StakeSplitThreshold:     2000,
		StakeCombineMaximum:     5000,
		ImmediateRewardFraction: 50,
	}

	snapshotHash := chain.HashH([]byte("snapshot"))
	tx := builder.BuildCoinbaseTransaction(ticket, nil, snapshotHash, 100, 10, []byte("reward-script"), nil)

	if tx.Type != chain.TxCoinbase {
		t.Fatalf("expected coinbase type")
	}
	if len(tx.TxIn) != 2 {
		t.Fatalf("expected meta input + staking input, got %d", len(tx.TxIn))
	}
	if !tx.TxIn[0].PreviousOutPoint.IsNull() {
		t.Fatalf("expected vin[0] to be the null meta input")
	}
	if tx.TxIn[1].PreviousOutPoint != ticket.Coin.OutPoint {
		t.Fatalf("expected vin[1] to be the staking input")
	}
	if len(tx.TxOut) == 0 {
		t.Fatalf("expected at least one output")
	}
	if tx.TxOut[0].Value > 100*50/100+10 {
		t.Fatalf("immediate reward output too large: %d", tx.TxOut[0].Value)
	}
}
