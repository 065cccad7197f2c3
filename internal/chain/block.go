// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"bytes"
	"io"
)

// BlockHeader is this chain's block header. It extends the Bitcoin header
// shape with an additional hash_witness_merkle_root field (§6 "Block wire
// format").
type BlockHeader struct {
	Version               uint32
	PrevBlock             Hash256
	MerkleRoot            Hash256
	WitnessMerkleRoot     Hash256
	FinalizerCommitsRoot  Hash256
	Time                  Time
	Bits                  Difficulty
	Height                Height
}

// BlockHash returns the double-SHA256 hash of the header, the block's
// identifier.
func (h *BlockHeader) BlockHash() Hash256 {
	var buf bytes.Buffer
	_ = h.encode(&buf)
	return DoubleHashH(buf.Bytes())
}

func (h *BlockHeader) encode(w io.Writer) error {
	if err := WriteUint32(w, h.Version); err != nil {
		return err
	}
	if err := WriteHash(w, h.PrevBlock); err != nil {
		return err
	}
	if err := WriteHash(w, h.MerkleRoot); err != nil {
		return err
	}
	if err := WriteHash(w, h.WitnessMerkleRoot); err != nil {
		return err
	}
	if err := WriteHash(w, h.FinalizerCommitsRoot); err != nil {
		return err
	}
	if err := WriteUint32(w, uint32(h.Time)); err != nil {
		return err
	}
	if err := WriteUint32(w, uint32(h.Bits)); err != nil {
		return err
	}
	return WriteUint32(w, uint32(h.Height))
}

// Block is a full block: header, finalizer commits (finalization
// transactions carried ahead of the rest, for light verification), the
// transaction list (coinbase first), and the proposer's block signature.
type Block struct {
	Header         BlockHeader
	FinalizerCommits []*Transaction
	Transactions   []*Transaction
	Signature      []byte
}

// Hash returns the block's identifying hash (the header's hash).
func (b *Block) Hash() Hash256 {
	return b.Header.BlockHash()
}

// Coinbase returns the block's coinbase transaction, or nil if the block
// has no transactions.
func (b *Block) Coinbase() *Transaction {
	if len(b.Transactions) == 0 {
		return nil
	}
	return b.Transactions[0]
}
