// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package proposer

import (
	"github.com/unit-e/ued/internal/chain"
	"github.com/unit-e/ued/internal/esperanza"
	"github.com/unit-e/ued/internal/staking"
)

// BlockBuilder assembles a candidate block around a winning stake: the
// coinbase layout of §4.7's table, the regular transactions an external
// picker supplies, and the finalizer commits carried ahead of them.
type BlockBuilder struct {
	RewardLogic          RewardLogic
	StakeSplitThreshold  chain.Amount
	StakeCombineMaximum  chain.Amount
	ImmediateRewardFraction uint64 // numerator over 100
}

// TransactionPicker selects the regular transactions (already
// lexicographically ordered) a new block should carry, the out-of-scope
// mempool collaborator spec.md §4.9 step 5 defers to.
type TransactionPicker func(height chain.Height) []*chain.Transaction

// BuildCoinbaseTransaction lays out vin[0..] and vout[0..] per §4.7's
// table: the meta input, the staking input, any combined-stake inputs,
// the block reward output, the finalization-reward outputs, and the
// split stake-plus-combined principal.
func (b *BlockBuilder) BuildCoinbaseTransaction(
	ticket EligibleCoin,
	combined staking.CoinSet,
	snapshotHash chain.Hash256,
	blockReward chain.Amount,
	fees chain.Amount,
	rewardScript []byte,
	state *esperanza.FinalizationState,
) *chain.Transaction {
	combinedCoins, combinedTotal := staking.CombineUpTo(ticket.Coin.TxOut.Value, combined, b.StakeCombineMaximum)
	// CombineUpTo's second return already includes the ticket coin's own
	// value, passed as base; only the additional coins in its first return
	// become extra inputs.

	tx := &chain.Transaction{
		Version: 1,
		Type:    chain.TxCoinbase,
	}

	tx.TxIn = append(tx.TxIn, chain.TxIn{
		PreviousOutPoint: chain.OutPoint{Index: 0xffffffff},
		SignatureScript:  chain.BuildMetaInputScript(ticket.TargetHeight, snapshotHash),
	})
	tx.TxIn = append(tx.TxIn, chain.TxIn{PreviousOutPoint: ticket.Coin.OutPoint})
	for _, c := range combinedCoins {
		tx.TxIn = append(tx.TxIn, chain.TxIn{PreviousOutPoint: c.OutPoint})
	}

	immediate := blockReward*chain.Amount(b.ImmediateRewardFraction)/100 + fees
	tx.TxOut = append(tx.TxOut, chain.TxOut{Value: immediate, ScriptPubKey: rewardScript})

	if b.RewardLogic != nil {
		finalizationReward := blockReward - (immediate - fees)
		tx.TxOut = append(tx.TxOut, b.RewardLogic.RewardOutputs(state, ticket.TargetHeight, finalizationReward)...)
	}

	principal := combinedTotal
	for _, out := range SplitAmount(principal, b.StakeSplitThreshold) {
		tx.TxOut = append(tx.TxOut, chain.TxOut{Value: out, ScriptPubKey: ticket.Coin.TxOut.ScriptPubKey})
	}

	return tx
}

// SplitAmount divides total into pieces each at most threshold, with
// sizes differing by at most one minor unit so no piece is dust (§4.7
// "vout[k+1..]"). Returns nil for a non-positive total.
func SplitAmount(total chain.Amount, threshold chain.Amount) []chain.Amount {
	if total <= 0 {
		return nil
	}
	if threshold <= 0 || total <= threshold {
		return []chain.Amount{total}
	}

	n := (total + threshold - 1) / threshold
	base := total / n
	remainder := total - base*n

	pieces := make([]chain.Amount, n)
	for i := range pieces {
		pieces[i] = base
		if chain.Amount(i) < remainder {
			pieces[i]++
		}
	}
	return pieces
}

// BuildBlock assembles a full candidate block. Time, bits and height come
// from ticket; PrevBlock is left zero, since the proposer loop fills it in
// immediately before signing.
func (b *BlockBuilder) BuildBlock(
	ticket EligibleCoin,
	combined staking.CoinSet,
	snapshotHash chain.Hash256,
	blockReward, fees chain.Amount,
	rewardScript []byte,
	state *esperanza.FinalizationState,
	commits []*chain.Transaction,
	pick TransactionPicker,
) *chain.Block {
	coinbase := b.BuildCoinbaseTransaction(ticket, combined, snapshotHash, blockReward, fees, rewardScript, state)

	txs := []*chain.Transaction{coinbase}
	if pick != nil {
		txs = append(txs, pick(ticket.TargetHeight)...)
	}

	merkleRoot, _ := chain.BlockMerkleRoot(txs)
	witnessRoot, _ := chain.BlockWitnessMerkleRoot(txs)
	commitsRoot, _ := chain.BlockMerkleRoot(commits)

	return &chain.Block{
		Header: chain.BlockHeader{
			Version:              1,
			MerkleRoot:           merkleRoot,
			WitnessMerkleRoot:    witnessRoot,
			FinalizerCommitsRoot: commitsRoot,
			Time:                 ticket.TargetTime,
			Bits:                 chain.Difficulty(ticket.TargetBits),
			Height:               ticket.TargetHeight,
		},
		FinalizerCommits: commits,
		Transactions:     txs,
	}
}
