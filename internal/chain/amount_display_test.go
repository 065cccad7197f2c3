// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import "testing"

func TestDisplayAmountFormatsWholeCoins(t *testing.T) {
	got := DisplayAmount(100000000)
	if got == "" {
		t.Fatalf("expected a non-empty formatted amount")
	}
}

func TestDisplayAmountZero(t *testing.T) {
	if got := DisplayAmount(0); got == "" {
		t.Fatalf("expected a non-empty formatted amount for zero")
	}
}
