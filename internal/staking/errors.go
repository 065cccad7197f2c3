// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package staking

// BlockValidationError enumerates the recoverable reasons CheckBlockHeader,
// ContextualCheckBlockHeader, CheckBlock, and ContextualCheckBlock reject a
// block (§4.8, §7). The zero value is not an error: callers test against
// ErrNone to mean "no problem found".
type BlockValidationError uint8

// Recognized validation failures.
const (
	ErrNone BlockValidationError = iota
	ErrBadTimestampMask
	ErrTimeTooOld
	ErrTimeTooNew
	ErrBadCoinbasePosition
	ErrMissingCoinbase
	ErrMultipleCoinbases
	ErrBadMetaInput
	ErrMerkleRootMismatch
	ErrWitnessMerkleRootMismatch
	ErrFinalizerCommitsRootMismatch
	ErrBadBlockSignature
	ErrDuplicateTransaction
	ErrDuplicateInput
	ErrBadTransactionOrder
	ErrStakeNotFound
	ErrStakeImmature
	ErrStakeAlreadySpentAtHeight
	ErrKernelAboveTarget
	ErrRemoteStakingInputBiggerThanOutput
)

var blockValidationErrorNames = map[BlockValidationError]string{
	ErrNone:                                "none",
	ErrBadTimestampMask:                    "bad-timestamp-mask",
	ErrTimeTooOld:                          "time-too-old",
	ErrTimeTooNew:                          "time-too-new",
	ErrBadCoinbasePosition:                 "bad-coinbase-position",
	ErrMissingCoinbase:                     "missing-coinbase",
	ErrMultipleCoinbases:                   "multiple-coinbases",
	ErrBadMetaInput:                        "bad-meta-input",
	ErrMerkleRootMismatch:                  "merkle-root-mismatch",
	ErrWitnessMerkleRootMismatch:           "witness-merkle-root-mismatch",
	ErrFinalizerCommitsRootMismatch:        "finalizer-commits-root-mismatch",
	ErrBadBlockSignature:                   "bad-block-signature",
	ErrDuplicateTransaction:                "duplicate-transaction",
	ErrDuplicateInput:                      "duplicate-input",
	ErrBadTransactionOrder:                 "bad-transaction-order",
	ErrStakeNotFound:                       "stake-not-found",
	ErrStakeImmature:                       "stake-immature",
	ErrStakeAlreadySpentAtHeight:           "stake-already-spent-at-height",
	ErrKernelAboveTarget:                   "kernel-above-target",
	ErrRemoteStakingInputBiggerThanOutput:  "REMOTE_STAKING_INPUT_BIGGER_THAN_OUTPUT",
}

func (e BlockValidationError) String() string {
	if name, ok := blockValidationErrorNames[e]; ok {
		return name
	}
	return "unknown-block-validation-error"
}

func (e BlockValidationError) Error() string { return e.String() }

// OK reports whether e represents success.
func (e BlockValidationError) OK() bool { return e == ErrNone }
