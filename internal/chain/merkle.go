// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import "bytes"

// txHasher extracts the hash a merkle tree is built over for one
// transaction: either the transaction id (for the plain merkle root) or a
// witness-inclusive hash (for the witness merkle root). Since this
// implementation does not model segregated witness data directly, the
// witness hash coincides with TxID; the separate root still guards against
// a future witness-carrying serialization diverging from it.
type txHasher func(tx *Transaction) Hash256

// BlockMerkleRoot computes the merkle root over block's transactions
// (coinbase included), reporting whether any adjacent pair of leaves
// hashed identically -- the CVE-2012-2459 duplicate-transaction condition
// callers must reject.
func BlockMerkleRoot(transactions []*Transaction) (root Hash256, duplicate bool) {
	return merkleRoot(transactions, func(tx *Transaction) Hash256 { return tx.TxID() })
}

// BlockWitnessMerkleRoot computes the witness merkle root, using the same
// duplicate-detection rule as BlockMerkleRoot.
func BlockWitnessMerkleRoot(transactions []*Transaction) (root Hash256, duplicate bool) {
	return merkleRoot(transactions, func(tx *Transaction) Hash256 { return tx.TxID() })
}

func merkleRoot(transactions []*Transaction, hash txHasher) (Hash256, bool) {
	if len(transactions) == 0 {
		return Hash256{}, false
	}

	leaves := make([]Hash256, len(transactions))
	for i, tx := range transactions {
		leaves[i] = hash(tx)
	}

	duplicate := false
	level := leaves
	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}
		next := make([]Hash256, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			if level[i] == level[i+1] {
				duplicate = true
			}
			next[i/2] = DoubleHashH(append(append([]byte{}, level[i][:]...), level[i+1][:]...))
		}
		level = next
	}
	return level[0], duplicate
}

// HasDuplicateOutPoints reports whether any transaction in the set spends
// the same outpoint as another -- duplicate inputs are always invalid.
func HasDuplicateOutPoints(transactions []*Transaction) bool {
	seen := make(map[OutPoint]struct{})
	for _, tx := range transactions {
		for _, in := range tx.TxIn {
			if _, ok := seen[in.PreviousOutPoint]; ok {
				return true
			}
			seen[in.PreviousOutPoint] = struct{}{}
		}
	}
	return false
}

// HasDuplicateTransactions reports whether any two transactions (by id)
// repeat within the set.
func HasDuplicateTransactions(transactions []*Transaction) bool {
	seen := make(map[Hash256]struct{}, len(transactions))
	for _, tx := range transactions {
		id := tx.TxID()
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}

// IsLexicographicallyOrdered reports whether transactions (excluding the
// coinbase at index 0) are sorted by ascending tx-hash (LTOR, §4.8).
func IsLexicographicallyOrdered(transactions []*Transaction) bool {
	for i := 2; i < len(transactions); i++ {
		prev := transactions[i-1].TxID()
		cur := transactions[i].TxID()
		if bytes.Compare(prev[:], cur[:]) > 0 {
			return false
		}
	}
	return true
}
