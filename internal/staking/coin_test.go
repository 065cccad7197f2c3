// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package staking

import (
	"testing"

	"github.com/unit-e/ued/internal/chain"
)

func coinAt(height chain.Height, value chain.Amount) Coin {
	return Coin{
		OutPoint: chain.OutPoint{Hash: chain.HashH([]byte{byte(height), byte(value)}), Index: 0},
		TxOut:    chain.TxOut{Value: value},
		Height:   height,
	}
}

func TestCoinDepth(t *testing.T) {
	c := coinAt(10, 1000)
	if got := c.Depth(10); got != 1 {
		t.Fatalf("depth at own height = %d, want 1", got)
	}
	if got := c.Depth(15); got != 6 {
		t.Fatalf("depth 5 blocks later = %d, want 6", got)
	}
	if got := c.Depth(5); got != 0 {
		t.Fatalf("depth before creation = %d, want 0", got)
	}
}

func TestCoinIsRemoteStaking(t *testing.T) {
	c := coinAt(1, 100)
	if c.IsRemoteStaking() {
		t.Fatalf("plain coin reported as remote-staking")
	}
	c.OwnerHash = chain.Hash160{0x01}
	if !c.IsRemoteStaking() {
		t.Fatalf("coin with owner hash not reported as remote-staking")
	}
}

func TestCoinSetEligibleAt(t *testing.T) {
	cs := CoinSet{coinAt(1, 100), coinAt(8, 100), coinAt(10, 100)}
	eligible := cs.EligibleAt(10, 5)
	if len(eligible) != 1 {
		t.Fatalf("expected 1 eligible coin, got %d", len(eligible))
	}
	if eligible[0].Height != 1 {
		t.Fatalf("unexpected eligible coin height %d", eligible[0].Height)
	}
}

func TestCombineUpToGreedyBySize(t *testing.T) {
	cs := CoinSet{coinAt(1, 500), coinAt(2, 300), coinAt(3, 100)}
	chosen, total := CombineUpTo(0, cs, 650)
	if total != 600 {
		t.Fatalf("total = %d, want 600", total)
	}
	if len(chosen) != 2 {
		t.Fatalf("chosen count = %d, want 2", len(chosen))
	}
	if chosen[0].TxOut.Value != 500 || chosen[1].TxOut.Value != 100 {
		t.Fatalf("unexpected combination %+v", chosen)
	}
}

func TestCombineUpToRespectsBase(t *testing.T) {
	cs := CoinSet{coinAt(1, 500)}
	chosen, total := CombineUpTo(700, cs, 1000)
	if total != 1200 {
		t.Fatalf("total = %d, want 1200", total)
	}
	if len(chosen) != 1 {
		t.Fatalf("expected the coin to be combinable, got none")
	}
}

func TestCombineUpToSkipsOversizedCoins(t *testing.T) {
	cs := CoinSet{coinAt(1, 900)}
	chosen, total := CombineUpTo(500, cs, 1000)
	if total != 500 {
		t.Fatalf("total = %d, want unchanged base 500", total)
	}
	if len(chosen) != 0 {
		t.Fatalf("expected no coins combined, got %d", len(chosen))
	}
}
