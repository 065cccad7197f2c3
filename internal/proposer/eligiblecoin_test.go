// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package proposer

import (
	"testing"

	"github.com/unit-e/ued/internal/chain"
	"github.com/unit-e/ued/internal/staking"
)

func testCoin(height chain.Height, value chain.Amount, salt byte) staking.Coin {
	return staking.Coin{
		OutPoint: chain.OutPoint{Hash: chain.HashH([]byte{salt}), Index: 0},
		TxOut:    chain.TxOut{Value: value},
		Height:   height,
	}
}

const looseBits = uint32(0x207fffff)

func TestFindWinningTicketFirstMatchWins(t *testing.T) {
	coins := staking.CoinSet{
		testCoin(1, 1000, 0x01),
		testCoin(1, 1000, 0x02),
	}

	ticket, ok := FindWinningTicket(coins, chain.Hash256{}, 1600, looseBits, 16, 50, 10)
	if !ok {
		t.Fatalf("expected a winning ticket against a loose target")
	}
	if ticket.Coin.OutPoint != coins[0].OutPoint {
		t.Fatalf("expected the first coin to win, got %+v", ticket.Coin.OutPoint)
	}
	if ticket.TargetHeight != 10 {
		t.Fatalf("unexpected target height %d", ticket.TargetHeight)
	}
	if ticket.TargetTime != 1600 {
		t.Fatalf("unexpected target time %d", ticket.TargetTime)
	}
}

func TestFindWinningTicketNoneSatisfy(t *testing.T) {
	coins := staking.CoinSet{testCoin(1, 1, 0x01)}

	// bits decodes (Bitcoin nBits convention) to a zero target: the
	// mantissa 1 is shifted out entirely by the exponent of 1.
	const tinyBits = uint32(0x01000001)
	_, ok := FindWinningTicket(coins, chain.Hash256{}, 1600, tinyBits, 16, 50, 10)
	if ok {
		t.Fatalf("expected no winning ticket against a near-zero target")
	}
}
