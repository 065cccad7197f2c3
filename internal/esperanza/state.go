package esperanza

import (
	"sync"

	"github.com/unit-e/ued/internal/chain"
	"github.com/unit-e/ued/internal/ufp64"
)

// SerializationVersion is the only recognized on-disk encoding version
// (§6 "Persisted state layout"). Decode rejects any other value rather
// than attempting forward compatibility.
const SerializationVersion byte = 1

// FinalizationState is the pure, deterministic per-block state machine.
// It holds no I/O handles; StateRepository owns its lifetime and StateDB
// its persistence. All mutation happens behind the embedded lock, the
// same RWMutex-guarded-struct convention txscript.SigCache uses.
//
// Safe for concurrent access via its exported methods; the zero value is
// not valid, use NewGenesis or Clone.
type FinalizationState struct {
	mu sync.RWMutex

	params *Params

	checkpoints []Checkpoint // indexed by epoch, append-only
	validators  map[chain.Hash160]*Validator

	currentEpoch        chain.Epoch
	currentDynasty      chain.Dynasty
	lastJustifiedEpoch  chain.Epoch
	lastFinalizedEpoch  chain.Epoch
	expectedSourceEpoch chain.Epoch

	dynastyStartEpoch map[chain.Dynasty]chain.Epoch
	dynastyDeltas     map[chain.Dynasty]chain.Amount

	totalCurDynDeposits  chain.Amount
	totalPrevDynDeposits chain.Amount

	depositScaleFactor map[chain.Epoch]ufp64.F64
	totalSlashed       map[chain.Epoch]chain.Amount

	initStatus InitStatus
}

// NewGenesis builds the state associated with the genesis block: epoch 0,
// dynasty 0, an empty validator set, and deposit_scale_factor[0] = 1.
func NewGenesis(params *Params) *FinalizationState {
	s := &FinalizationState{
		params:             params,
		validators:         make(map[chain.Hash160]*Validator),
		dynastyStartEpoch:  map[chain.Dynasty]chain.Epoch{0: 0, 1: 0},
		dynastyDeltas:      make(map[chain.Dynasty]chain.Amount),
		depositScaleFactor: map[chain.Epoch]ufp64.F64{0: ufp64.One},
		totalSlashed:       make(map[chain.Epoch]chain.Amount),
		initStatus:         StatusCompleted,
	}
	s.checkpoints = append(s.checkpoints, newCheckpoint())
	s.checkpoints[0].IsJustified = true
	s.checkpoints[0].IsFinalized = true
	return s
}

// Clone returns a deep, independent copy of s, the way the repository
// derives a child block's starting state from its parent (§4.2: "a new
// state is cloned from the parent (by value -- states are compact plain
// data)").
func (s *FinalizationState) Clone() *FinalizationState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := &FinalizationState{
		params:               s.params,
		currentEpoch:         s.currentEpoch,
		currentDynasty:       s.currentDynasty,
		lastJustifiedEpoch:   s.lastJustifiedEpoch,
		lastFinalizedEpoch:   s.lastFinalizedEpoch,
		expectedSourceEpoch:  s.expectedSourceEpoch,
		totalCurDynDeposits:  s.totalCurDynDeposits,
		totalPrevDynDeposits: s.totalPrevDynDeposits,
		initStatus:           StatusNew,
	}

	n.checkpoints = make([]Checkpoint, len(s.checkpoints))
	for i := range s.checkpoints {
		n.checkpoints[i] = s.checkpoints[i].clone()
	}

	n.validators = make(map[chain.Hash160]*Validator, len(s.validators))
	for addr, v := range s.validators {
		cp := *v
		n.validators[addr] = &cp
	}

	n.dynastyStartEpoch = make(map[chain.Dynasty]chain.Epoch, len(s.dynastyStartEpoch))
	for k, v := range s.dynastyStartEpoch {
		n.dynastyStartEpoch[k] = v
	}
	n.dynastyDeltas = make(map[chain.Dynasty]chain.Amount, len(s.dynastyDeltas))
	for k, v := range s.dynastyDeltas {
		n.dynastyDeltas[k] = v
	}
	n.depositScaleFactor = make(map[chain.Epoch]ufp64.F64, len(s.depositScaleFactor))
	for k, v := range s.depositScaleFactor {
		n.depositScaleFactor[k] = v
	}
	n.totalSlashed = make(map[chain.Epoch]chain.Amount, len(s.totalSlashed))
	for k, v := range s.totalSlashed {
		n.totalSlashed[k] = v
	}
	return n
}

// Equal reports whether s and o describe the same finalization state
// (used by the repository's FROM_COMMITS/full-block confirmation and by
// round-trip tests, §8 P5). It compares the epoch/dynasty counters, the
// deposit totals, the init status, each checkpoint's flags and voter set,
// and every validator record; the dynasty maps, deposit scale factors,
// slashed totals and checkpoint vote tallies are not compared.
func (s *FinalizationState) Equal(o *FinalizationState) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o.mu.RLock()
	defer o.mu.RUnlock()
	return s.equalLocked(o)
}

func (s *FinalizationState) equalLocked(o *FinalizationState) bool {
	if s.currentEpoch != o.currentEpoch ||
		s.currentDynasty != o.currentDynasty ||
		s.lastJustifiedEpoch != o.lastJustifiedEpoch ||
		s.lastFinalizedEpoch != o.lastFinalizedEpoch ||
		s.expectedSourceEpoch != o.expectedSourceEpoch ||
		s.totalCurDynDeposits != o.totalCurDynDeposits ||
		s.totalPrevDynDeposits != o.totalPrevDynDeposits ||
		s.initStatus != o.initStatus {
		return false
	}
	if len(s.checkpoints) != len(o.checkpoints) {
		return false
	}
	for i := range s.checkpoints {
		a, b := &s.checkpoints[i], &o.checkpoints[i]
		if a.IsJustified != b.IsJustified || a.IsFinalized != b.IsFinalized {
			return false
		}
		if len(a.Voted) != len(b.Voted) {
			return false
		}
		for addr := range a.Voted {
			if _, ok := b.Voted[addr]; !ok {
				return false
			}
		}
	}
	if len(s.validators) != len(o.validators) {
		return false
	}
	for addr, v := range s.validators {
		ov, ok := o.validators[addr]
		if !ok || *v != *ov {
			return false
		}
	}
	return true
}

// CurrentEpoch returns the state's current epoch.
func (s *FinalizationState) CurrentEpoch() chain.Epoch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentEpoch
}

// CurrentDynasty returns the state's current dynasty.
func (s *FinalizationState) CurrentDynasty() chain.Dynasty {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentDynasty
}

// LastJustifiedEpoch returns the most recently justified epoch.
func (s *FinalizationState) LastJustifiedEpoch() chain.Epoch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastJustifiedEpoch
}

// LastFinalizedEpoch returns the most recently finalized epoch.
func (s *FinalizationState) LastFinalizedEpoch() chain.Epoch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastFinalizedEpoch
}

// InitStatus returns the state's current initialization status.
func (s *FinalizationState) InitStatus() InitStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initStatus
}

// SetInitStatus transitions the state's initialization status. Callers
// are StateProcessor and StateRepository only.
func (s *FinalizationState) SetInitStatus(status InitStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initStatus = status
}

// Validator returns the registered validator at address, or nil.
func (s *FinalizationState) Validator(addr chain.Hash160) *Validator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.validators[addr]
	if !ok {
		return nil
	}
	cp := *v
	return &cp
}

// ActiveFinalizers returns every validator active in the current dynasty,
// the set BlockBuilder's reward logic pays (§4.7, grounded on
// esperanza::FinalizationState::GetActiveFinalizers).
func (s *FinalizationState) ActiveFinalizers() []Validator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Validator
	for _, v := range s.validators {
		if v.IsActiveAt(s.currentDynasty) {
			out = append(out, *v)
		}
	}
	return out
}

// CheckpointVoted reports whether validator addr is recorded as having
// voted for epoch's checkpoint.
func (s *FinalizationState) CheckpointVoted(epoch chain.Epoch, addr chain.Hash160) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if int(epoch) >= len(s.checkpoints) {
		return false
	}
	_, ok := s.checkpoints[epoch].Voted[addr]
	return ok
}

// checkpoint returns a pointer to the checkpoint for epoch, growing the
// slice if necessary. Callers must hold s.mu for writing.
func (s *FinalizationState) checkpoint(epoch chain.Epoch) *Checkpoint {
	for chain.Epoch(len(s.checkpoints)) <= epoch {
		s.checkpoints = append(s.checkpoints, newCheckpoint())
	}
	return &s.checkpoints[epoch]
}

func mustf(cond bool, format string, args ...any) {
	if !cond {
		panicf(format, args...)
	}
}
