package esperanza

import "github.com/unit-e/ued/internal/chain"

// FinalizerTx is the narrow view of a finalization transaction (deposit,
// vote, logout, withdraw, slash, or admin) that ProcessNewTip/
// ProcessNewCommits dispatch on. It is produced by the caller from the
// chain's own Transaction representation (internal/chain.Transaction) --
// FinalizationState itself never parses wire bytes.
type FinalizerTx struct {
	Type      chain.TxType
	Hash      chain.Hash256
	Address   chain.Hash160
	Amount    chain.Amount
	Vote      Vote
	SlashVote [2]Vote
	Admin     AdminCommand
	Keys      [][]byte // signing keys presented for an Admin tx

	// VoteTargetHash is the active chain's recommended checkpoint hash
	// for Vote.TargetEpoch, supplied by the caller (FinalizationState
	// has no reference to the chain) and checked against Vote.TargetHash
	// by ValidateVoteTargetHash (§4.1 VOTE_WRONG_TARGET_HASH).
	VoteTargetHash chain.Hash256
}

// ProcessNewTip is the high-level driver for a new, fully validated block
// (§4.1): if height starts a new epoch, call InitializeEpoch; then
// dispatch every finalization transaction in the block to its
// validate+process pair; finally mark the state COMPLETED.
//
// It returns the first non-success Result it encounters, short-circuiting
// further transactions the way §4.1's validate_* ordering requires, and
// leaves the state's mutations up to that point in place (callers that
// need atomicity must operate on a Clone and only install it on success).
func (s *FinalizationState) ProcessNewTip(height chain.Height, txs []FinalizerTx) Result {
	if r := s.maybeInitializeEpoch(height); !r.OK() {
		return r
	}
	if r := s.dispatch(txs); !r.OK() {
		return r
	}
	s.SetInitStatus(StatusCompleted)
	return ResultSuccess
}

// ProcessNewCommits is ProcessNewTip's partial-evidence counterpart: it
// only has the finalization transactions (no full block), so it marks the
// state FROM_COMMITS rather than COMPLETED.
func (s *FinalizationState) ProcessNewCommits(height chain.Height, txs []FinalizerTx) Result {
	if r := s.maybeInitializeEpoch(height); !r.OK() {
		return r
	}
	if r := s.dispatch(txs); !r.OK() {
		return r
	}
	s.SetInitStatus(StatusFromCommits)
	return ResultSuccess
}

func (s *FinalizationState) maybeInitializeEpoch(height chain.Height) Result {
	epoch := s.params.Epoch(height)
	if epoch == s.CurrentEpoch() {
		return ResultSuccess
	}
	return s.InitializeEpoch(height)
}

func (s *FinalizationState) dispatch(txs []FinalizerTx) Result {
	for _, tx := range txs {
		switch tx.Type {
		case chain.TxDeposit:
			if r := s.ValidateDeposit(tx.Address, tx.Amount); !r.OK() {
				return r
			}
			s.ProcessDeposit(tx.Address, tx.Amount, tx.Hash)
		case chain.TxVote:
			if r := s.ValidateVoteTargetHash(tx.Vote, tx.VoteTargetHash); !r.OK() {
				return r
			}
			s.ProcessVote(tx.Vote)
		case chain.TxLogout:
			if r := s.ValidateLogout(tx.Address); !r.OK() {
				return r
			}
			s.ProcessLogout(tx.Address, tx.Hash)
		case chain.TxWithdraw:
			if r := s.ValidateWithdraw(tx.Address); !r.OK() {
				return r
			}
			s.ProcessWithdraw(tx.Address)
		case chain.TxSlash:
			if r := s.ValidateSlash(tx.SlashVote[0], tx.SlashVote[1]); !r.OK() {
				return r
			}
			s.ProcessSlash(tx.SlashVote[0], tx.SlashVote[1])
		case chain.TxAdmin:
			if r := s.ValidateAdminKeys(tx.Keys); !r.OK() {
				return r
			}
			s.ProcessAdminCommands([]AdminCommand{tx.Admin})
		}
		s.recordLastTxHash(tx)
	}
	return ResultSuccess
}

// recordLastTxHash updates the acting validator's last_tx_hash after a
// successfully processed finalization transaction.
func (s *FinalizationState) recordLastTxHash(tx FinalizerTx) {
	addr := tx.Address
	if tx.Type == chain.TxVote {
		addr = tx.Vote.ValidatorAddress
	} else if tx.Type == chain.TxSlash {
		addr = tx.SlashVote[0].ValidatorAddress
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.validators[addr]; ok {
		v.LastTxHash = tx.Hash
	}
}
