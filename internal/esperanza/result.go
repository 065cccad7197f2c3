// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package esperanza

// Result is the tagged outcome of a validate_* call (§7 "Validation
// errors"). Success is ResultSuccess; every other value names the specific
// rule the input violated. validate_* functions report every outcome
// through Result alone; they have no error return.
type Result uint8

// Recognized results. Order matches spec.md §4.1/§7's enumeration; do not
// renumber once released since Result values round-trip through the wire
// in protocol-violation reports.
const (
	ResultSuccess Result = iota

	ResultInitWrongEpoch

	ResultDepositInsufficient
	ResultDepositDuplicate

	ResultVoteNotByValidator
	ResultVoteNotVotable
	ResultVoteAlreadyVoted
	ResultVoteWrongTargetEpoch
	ResultVoteWrongTargetHash
	ResultVoteSrcEpochNotJustified

	ResultLogoutNotAValidator
	ResultLogoutAlreadyLoggedOut

	ResultWithdrawNotAValidator
	ResultWithdrawTooEarly

	ResultSlashNotAValidator
	ResultSlashSameVote
	ResultSlashNotSlashable
	ResultSlashAlreadySlashed
	ResultSlashMismatchedValidators

	ResultAdminNotAuthorized
	ResultAdminPermissioningNotActive
)

var resultNames = map[Result]string{
	ResultSuccess:                     "SUCCESS",
	ResultInitWrongEpoch:              "INIT_WRONG_EPOCH",
	ResultDepositInsufficient:         "DEPOSIT_INSUFFICIENT",
	ResultDepositDuplicate:            "DEPOSIT_DUPLICATE",
	ResultVoteNotByValidator:          "VOTE_NOT_BY_VALIDATOR",
	ResultVoteNotVotable:              "VOTE_NOT_VOTABLE",
	ResultVoteAlreadyVoted:            "VOTE_ALREADY_VOTED",
	ResultVoteWrongTargetEpoch:        "VOTE_WRONG_TARGET_EPOCH",
	ResultVoteWrongTargetHash:         "VOTE_WRONG_TARGET_HASH",
	ResultVoteSrcEpochNotJustified:    "VOTE_SRC_EPOCH_NOT_JUSTIFIED",
	ResultLogoutNotAValidator:         "LOGOUT_NOT_A_VALIDATOR",
	ResultLogoutAlreadyLoggedOut:      "LOGOUT_ALREADY_LOGGED_OUT",
	ResultWithdrawNotAValidator:       "WITHDRAW_NOT_A_VALIDATOR",
	ResultWithdrawTooEarly:            "WITHDRAW_TOO_EARLY",
	ResultSlashNotAValidator:          "SLASH_NOT_A_VALIDATOR",
	ResultSlashSameVote:               "SLASH_SAME_VOTE",
	ResultSlashNotSlashable:           "SLASH_NOT_SLASHABLE",
	ResultSlashAlreadySlashed:         "SLASH_ALREADY_SLASHED",
	ResultSlashMismatchedValidators:   "SLASH_MISMATCHED_VALIDATORS",
	ResultAdminNotAuthorized:          "ADMIN_NOT_AUTHORIZED",
	ResultAdminPermissioningNotActive: "ADMIN_PERMISSIONING_NOT_ACTIVE",
}

// String renders r using its wire tag, e.g. "VOTE_WRONG_TARGET_EPOCH".
func (r Result) String() string {
	if s, ok := resultNames[r]; ok {
		return s
	}
	return "UNKNOWN_RESULT"
}

// OK reports whether r is ResultSuccess.
func (r Result) OK() bool {
	return r == ResultSuccess
}
