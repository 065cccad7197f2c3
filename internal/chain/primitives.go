// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chain defines the wire-level primitives and block/transaction
// shapes shared by the finalization and staking subsystems: hashes,
// amounts, heights, and the coinbase/staking transaction layout. Base-chain
// storage, mempool, and network transport remain external collaborators;
// this package only defines the data they carry.
package chain

import (
	"crypto/sha256"
	"fmt"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

// Hash256 is a 32-byte opaque identifier: a block hash, tx id, merkle root,
// or snapshot hash. It reuses chainhash.Hash's comparison and formatting
// surface, but this chain's digests are double SHA-256 (§3.1), not
// Decred's Blake256r14, since unit-e is a Bitcoin-Core derivative with a
// bit-exact wire format.
type Hash256 = chainhash.Hash

// ZeroHash is the all-zero Hash256, used for null prevouts.
var ZeroHash Hash256

// HashH returns the single SHA-256 digest of b as a Hash256.
func HashH(b []byte) Hash256 {
	return Hash256(sha256.Sum256(b))
}

// DoubleHashH returns the double SHA-256 digest of b as a Hash256, which is
// the hash function used throughout this chain's wire format and proof of
// stake kernel.
func DoubleHashH(b []byte) Hash256 {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return Hash256(second)
}

// Hash160 is a 20-byte RIPEMD160(SHA256(x)) address digest, as used by
// owner/staker keys in remote-staking scripts.
type Hash160 [20]byte

// String renders h in big-endian hex, matching chainhash.Hash's String.
func (h Hash160) String() string {
	return fmt.Sprintf("%x", reverse20(h))
}

func reverse20(h Hash160) [20]byte {
	var r [20]byte
	for i := range h {
		r[i] = h[len(h)-1-i]
	}
	return r
}

// Height is an unsigned 32-bit block height from genesis (height 0).
type Height uint32

// Depth is a block's distance from the tip; depth zero does not exist, the
// tip itself has depth 1.
type Depth uint32

// Epoch is an unsigned 32-bit epoch number. EpochOf(height, epochLength)
// maps a height to its epoch, with epoch 0 containing only genesis.
type Epoch uint32

// EpochOf returns the epoch containing height, given the network's epoch
// length. Epoch 0 contains only genesis (height 0); epoch 1 begins at
// height 1 and every subsequent epoch spans exactly epochLength blocks.
func EpochOf(height Height, epochLength uint32) Epoch {
	if height == 0 {
		return 0
	}
	return Epoch((uint32(height)-1)/epochLength + 1)
}

// Dynasty is an unsigned 32-bit, monotonically increasing dynasty number.
type Dynasty uint32

// InfiniteDynasty is the sentinel "no end dynasty yet requested" value
// used for validators who have not logged out.
const InfiniteDynasty Dynasty = ^Dynasty(0)

// Amount is a signed 64-bit integer number of minor units. Valid values lie
// in [0, maximum_supply].
type Amount int64

// Time is a 32-bit POSIX-seconds timestamp.
type Time uint32

// Difficulty is a 32-bit compact-form proof-of-stake target, in the same
// encoding Bitcoin uses for nBits.
type Difficulty uint32
