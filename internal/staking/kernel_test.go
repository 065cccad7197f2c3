// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package staking

import (
	"testing"

	"github.com/unit-e/ued/internal/chain"
)

func TestComputeStakeModifierDeterministic(t *testing.T) {
	prev := chain.HashH([]byte("prev-modifier"))
	prevout := chain.HashH([]byte("stake-prevout"))

	m1 := ComputeStakeModifier(prev, prevout)
	m2 := ComputeStakeModifier(prev, prevout)
	if m1 != m2 {
		t.Fatalf("stake modifier not deterministic: %x != %x", m1, m2)
	}

	other := ComputeStakeModifier(prevout, prev)
	if m1 == other {
		t.Fatalf("stake modifier did not depend on argument order")
	}
}

func TestMaskTimestampRoundsDown(t *testing.T) {
	got := MaskTimestamp(1005, 16)
	if got != 992 {
		t.Fatalf("masked time = %d, want 992", got)
	}
}

func TestMaskTimestampZeroIntervalIsIdentity(t *testing.T) {
	if got := MaskTimestamp(12345, 0); got != 12345 {
		t.Fatalf("masked time = %d, want unchanged 12345", got)
	}
}

func TestComputeKernelHashDeterministic(t *testing.T) {
	modifier := chain.HashH([]byte("modifier"))
	prevout := chain.OutPoint{Hash: chain.HashH([]byte("coin")), Index: 1}

	k1 := ComputeKernelHash(modifier, 1000, prevout, 1016, 16)
	k2 := ComputeKernelHash(modifier, 1000, prevout, 1016, 16)
	if k1 != k2 {
		t.Fatalf("kernel hash not deterministic")
	}

	k3 := ComputeKernelHash(modifier, 1000, prevout, 2000, 16)
	if k1 == k3 {
		t.Fatalf("kernel hash did not depend on candidate time")
	}
}

func hashFromUint64(v uint64) chain.Hash256 {
	var h chain.Hash256
	for i := 0; i < 8; i++ {
		h[31-i] = byte(v >> (8 * i))
	}
	return h
}

func TestCheckKernelScalesWithAmount(t *testing.T) {
	// bits decodes (Bitcoin nBits convention) to target = 0x008000 = 32768.
	const bits = uint32(0x03008000)
	kernel := hashFromUint64(50000)

	if CheckKernel(1, kernel, bits) {
		t.Fatalf("kernel 50000 should not satisfy target 32768 at amount 1")
	}
	if !CheckKernel(3, kernel, bits) {
		t.Fatalf("kernel 50000 should satisfy target 98304 at amount 3")
	}
}

func TestCheckKernelBoundaryValues(t *testing.T) {
	const bits = uint32(0x03008000) // target 32768

	var zero chain.Hash256
	if !CheckKernel(1, zero, bits) {
		t.Fatalf("zero kernel hash should always satisfy a positive target")
	}

	var max chain.Hash256
	for i := range max {
		max[i] = 0xff
	}
	if CheckKernel(1, max, bits) {
		t.Fatalf("maximal kernel hash should not satisfy a small target")
	}
}
