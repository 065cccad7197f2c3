package finalization

import "fmt"

// PeerMisbehavior is a protocol-violation value carrying the DoS score a
// P2P collaborator should apply to the peer that sent the offending data
// (§7 "Protocol violations"). Producing this value is in scope; scoring
// the peer and disconnecting it is the out-of-scope P2P collaborator's
// job.
type PeerMisbehavior struct {
	Score  int
	Reason string
}

func (e *PeerMisbehavior) Error() string {
	return fmt.Sprintf("peer misbehavior (score %d): %s", e.Score, e.Reason)
}

// Recognized misbehavior reasons and their scores, per §7 and §9's
// decision on the FROM_COMMITS/full-block mismatch open question.
var (
	errCommitsFailedCheckTx = &PeerMisbehavior{Score: 10, Reason: "commits-failed-check-transaction"}
	errCommitsHashMismatch  = &PeerMisbehavior{Score: 10, Reason: "commits-hash-mismatch"}
	errPrevBlockUnknown     = &PeerMisbehavior{Score: 10, Reason: "prev-block-unknown"}
	errMalformedCommits     = &PeerMisbehavior{Score: 100, Reason: "malformed-commits"}
	errCommitsStateMismatch = &PeerMisbehavior{Score: 100, Reason: "commits-state-mismatch"}
)

// errParentStateMissing is a programmer-contract violation: a
// process_new_commits/process_new_tip(_candidate) call arrived before its
// parent's, which StateProcessor must reject rather than silently
// accept (§4.3 "Ordering").
var errParentStateMissing = fmt.Errorf("finalization: parent state not found in repository")
