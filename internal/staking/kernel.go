// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package staking

import (
	"encoding/binary"

	"github.com/decred/dcrd/math/uint256"

	"github.com/unit-e/ued/internal/chain"
)

// ComputeStakeModifier derives the next stake modifier from the parent
// block's modifier and the hash of the coin that produced this block's
// stake (§4.6 "compute_stake_modifier").
func ComputeStakeModifier(prevModifier chain.Hash256, stakePrevoutHash chain.Hash256) chain.Hash256 {
	var buf [64]byte
	copy(buf[:32], prevModifier[:])
	copy(buf[32:], stakePrevoutHash[:])
	return chain.DoubleHashH(buf[:])
}

// ComputeKernelHash hashes the stake modifier, the coin's block time and
// prevout, and the masked candidate time into the proof-of-stake kernel
// (§4.6 "compute_kernel_hash").
func ComputeKernelHash(modifier chain.Hash256, coinBlockTime chain.Time, prevout chain.OutPoint, candidateTime chain.Time, blockStakeTimestampIntervalSeconds uint32) chain.Hash256 {
	masked := MaskTimestamp(candidateTime, blockStakeTimestampIntervalSeconds)

	var buf [32 + 8 + 32 + 4 + 8]byte
	copy(buf[:32], modifier[:])
	binary.LittleEndian.PutUint64(buf[32:40], uint64(coinBlockTime))
	copy(buf[40:72], prevout.Hash[:])
	binary.LittleEndian.PutUint32(buf[72:76], prevout.Index)
	binary.LittleEndian.PutUint64(buf[76:84], uint64(masked))
	return chain.DoubleHashH(buf[:])
}

// MaskTimestamp rounds t down to the nearest multiple of intervalSeconds
// (§4.6, Glossary "Masked timestamp").
func MaskTimestamp(t chain.Time, intervalSeconds uint32) chain.Time {
	if intervalSeconds == 0 {
		return t
	}
	return t - chain.Time(uint32(t)%intervalSeconds)
}

// CheckKernel reports whether kernelHash, read as a 256-bit big-endian
// integer, is at most difficultyTarget(bits) * amount -- the proof-of-stake
// acceptance test (§4.6 "check_kernel").
func CheckKernel(amount chain.Amount, kernelHash chain.Hash256, bits uint32) bool {
	var kernel uint256.Uint256
	kernel.SetBytes((*[32]byte)(&kernelHash))

	var target uint256.Uint256
	target.SetCompact(bits)
	target.MulUint64(uint64(amount))

	return !kernel.Gt(&target)
}
