// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import "github.com/decred/dcrd/dcrutil/v4"

// DisplayAmount formats a minor-unit Amount as a whole-coin decimal string
// for logging, reusing dcrutil's Amount formatting instead of hand-rolling
// fixed-point division.
func DisplayAmount(a Amount) string {
	return dcrutil.Amount(a).String()
}
