package esperanza

import (
	"errors"
	"fmt"
	"io"

	"github.com/unit-e/ued/internal/chain"
	"github.com/unit-e/ued/internal/ufp64"
)

// ErrUnsupportedVersion is returned by Decode when the leading version
// byte is not SerializationVersion.
var ErrUnsupportedVersion = errors.New("esperanza: unsupported serialization version")

// Encode writes the version byte followed by every field of s in
// declaration order, variable-length maps prefixed by a VarInt count.
// This is an explicit encode/decode pair rather than reflection-based
// serialization, matching how persisted consensus state is normally
// written field-by-field.
func (s *FinalizationState) Encode(w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := w.Write([]byte{SerializationVersion}); err != nil {
		return err
	}

	if err := chain.WriteVarInt(w, uint64(len(s.checkpoints))); err != nil {
		return err
	}
	for i := range s.checkpoints {
		if err := encodeCheckpoint(w, &s.checkpoints[i]); err != nil {
			return err
		}
	}

	if err := chain.WriteVarInt(w, uint64(len(s.validators))); err != nil {
		return err
	}
	for addr, v := range s.validators {
		if err := chain.WriteHash160(w, addr); err != nil {
			return err
		}
		if err := encodeValidator(w, v); err != nil {
			return err
		}
	}

	for _, v := range []uint32{
		uint32(s.currentEpoch), uint32(s.currentDynasty),
		uint32(s.lastJustifiedEpoch), uint32(s.lastFinalizedEpoch),
		uint32(s.expectedSourceEpoch),
	} {
		if err := chain.WriteUint32(w, v); err != nil {
			return err
		}
	}

	if err := encodeDynastyEpochMap(w, s.dynastyStartEpoch); err != nil {
		return err
	}
	if err := encodeDynastyAmountMap(w, s.dynastyDeltas); err != nil {
		return err
	}
	if err := chain.WriteInt64(w, int64(s.totalCurDynDeposits)); err != nil {
		return err
	}
	if err := chain.WriteInt64(w, int64(s.totalPrevDynDeposits)); err != nil {
		return err
	}
	if err := encodeEpochFactorMap(w, s.depositScaleFactor); err != nil {
		return err
	}
	if err := encodeEpochAmountMap(w, s.totalSlashed); err != nil {
		return err
	}
	_, err := w.Write([]byte{byte(s.initStatus)})
	return err
}

// Decode reads a FinalizationState previously written by Encode. params
// must match the network the state was produced on; it is not itself
// serialized (it is supplied by chainparams at startup).
func Decode(r io.Reader, params *Params) (*FinalizationState, error) {
	var versionByte [1]byte
	if _, err := io.ReadFull(r, versionByte[:]); err != nil {
		return nil, err
	}
	if versionByte[0] != SerializationVersion {
		return nil, fmt.Errorf("%w: got %d", ErrUnsupportedVersion, versionByte[0])
	}

	s := &FinalizationState{
		params:             params,
		validators:         make(map[chain.Hash160]*Validator),
		dynastyStartEpoch:  make(map[chain.Dynasty]chain.Epoch),
		dynastyDeltas:      make(map[chain.Dynasty]chain.Amount),
		depositScaleFactor: make(map[chain.Epoch]ufp64.F64),
		totalSlashed:       make(map[chain.Epoch]chain.Amount),
	}

	nCheckpoints, err := chain.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	s.checkpoints = make([]Checkpoint, nCheckpoints)
	for i := range s.checkpoints {
		cp, err := decodeCheckpoint(r)
		if err != nil {
			return nil, err
		}
		s.checkpoints[i] = cp
	}

	nValidators, err := chain.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < nValidators; i++ {
		addr, err := chain.ReadHash160(r)
		if err != nil {
			return nil, err
		}
		v, err := decodeValidator(r)
		if err != nil {
			return nil, err
		}
		s.validators[addr] = v
	}

	u32s := make([]uint32, 5)
	for i := range u32s {
		if u32s[i], err = chain.ReadUint32(r); err != nil {
			return nil, err
		}
	}
	s.currentEpoch = chain.Epoch(u32s[0])
	s.currentDynasty = chain.Dynasty(u32s[1])
	s.lastJustifiedEpoch = chain.Epoch(u32s[2])
	s.lastFinalizedEpoch = chain.Epoch(u32s[3])
	s.expectedSourceEpoch = chain.Epoch(u32s[4])

	if s.dynastyStartEpoch, err = decodeDynastyEpochMap(r); err != nil {
		return nil, err
	}
	if s.dynastyDeltas, err = decodeDynastyAmountMap(r); err != nil {
		return nil, err
	}
	curDep, err := chain.ReadInt64(r)
	if err != nil {
		return nil, err
	}
	s.totalCurDynDeposits = chain.Amount(curDep)
	prevDep, err := chain.ReadInt64(r)
	if err != nil {
		return nil, err
	}
	s.totalPrevDynDeposits = chain.Amount(prevDep)

	if s.depositScaleFactor, err = decodeEpochFactorMap(r); err != nil {
		return nil, err
	}
	if s.totalSlashed, err = decodeEpochAmountMap(r); err != nil {
		return nil, err
	}

	var statusByte [1]byte
	if _, err := io.ReadFull(r, statusByte[:]); err != nil {
		return nil, err
	}
	s.initStatus = InitStatus(statusByte[0])

	return s, nil
}

func encodeCheckpoint(w io.Writer, cp *Checkpoint) error {
	if err := encodeDynastyAmountMap(w, cp.CurDynastyVotes); err != nil {
		return err
	}
	if err := encodeDynastyAmountMap(w, cp.PrevDynastyVotes); err != nil {
		return err
	}
	if err := chain.WriteVarInt(w, uint64(len(cp.Voted))); err != nil {
		return err
	}
	for addr := range cp.Voted {
		if err := chain.WriteHash160(w, addr); err != nil {
			return err
		}
	}
	flags := byte(0)
	if cp.IsJustified {
		flags |= 1
	}
	if cp.IsFinalized {
		flags |= 2
	}
	_, err := w.Write([]byte{flags})
	return err
}

func decodeCheckpoint(r io.Reader) (Checkpoint, error) {
	cp := newCheckpoint()
	var err error
	if cp.CurDynastyVotes, err = decodeDynastyAmountMap(r); err != nil {
		return cp, err
	}
	if cp.PrevDynastyVotes, err = decodeDynastyAmountMap(r); err != nil {
		return cp, err
	}
	n, err := chain.ReadVarInt(r)
	if err != nil {
		return cp, err
	}
	for i := uint64(0); i < n; i++ {
		addr, err := chain.ReadHash160(r)
		if err != nil {
			return cp, err
		}
		cp.Voted[addr] = struct{}{}
	}
	var flags [1]byte
	if _, err := io.ReadFull(r, flags[:]); err != nil {
		return cp, err
	}
	cp.IsJustified = flags[0]&1 != 0
	cp.IsFinalized = flags[0]&2 != 0
	return cp, nil
}

func encodeValidator(w io.Writer, v *Validator) error {
	if err := chain.WriteInt64(w, int64(v.Deposit)); err != nil {
		return err
	}
	if err := chain.WriteUint32(w, uint32(v.StartDynasty)); err != nil {
		return err
	}
	if err := chain.WriteUint32(w, uint32(v.EndDynasty)); err != nil {
		return err
	}
	if err := chain.WriteUint32(w, uint32(v.LastVoteEpoch)); err != nil {
		return err
	}
	return chain.WriteHash(w, v.LastTxHash)
}

func decodeValidator(r io.Reader) (*Validator, error) {
	v := &Validator{}
	deposit, err := chain.ReadInt64(r)
	if err != nil {
		return nil, err
	}
	v.Deposit = chain.Amount(deposit)
	start, err := chain.ReadUint32(r)
	if err != nil {
		return nil, err
	}
	v.StartDynasty = chain.Dynasty(start)
	end, err := chain.ReadUint32(r)
	if err != nil {
		return nil, err
	}
	v.EndDynasty = chain.Dynasty(end)
	lastVote, err := chain.ReadUint32(r)
	if err != nil {
		return nil, err
	}
	v.LastVoteEpoch = chain.Epoch(lastVote)
	v.LastTxHash, err = chain.ReadHash(r)
	return v, err
}

func encodeDynastyAmountMap(w io.Writer, m map[chain.Dynasty]chain.Amount) error {
	if err := chain.WriteVarInt(w, uint64(len(m))); err != nil {
		return err
	}
	for k, v := range m {
		if err := chain.WriteUint32(w, uint32(k)); err != nil {
			return err
		}
		if err := chain.WriteInt64(w, int64(v)); err != nil {
			return err
		}
	}
	return nil
}

func decodeDynastyAmountMap(r io.Reader) (map[chain.Dynasty]chain.Amount, error) {
	n, err := chain.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	m := make(map[chain.Dynasty]chain.Amount, n)
	for i := uint64(0); i < n; i++ {
		k, err := chain.ReadUint32(r)
		if err != nil {
			return nil, err
		}
		v, err := chain.ReadInt64(r)
		if err != nil {
			return nil, err
		}
		m[chain.Dynasty(k)] = chain.Amount(v)
	}
	return m, nil
}

func encodeDynastyEpochMap(w io.Writer, m map[chain.Dynasty]chain.Epoch) error {
	if err := chain.WriteVarInt(w, uint64(len(m))); err != nil {
		return err
	}
	for k, v := range m {
		if err := chain.WriteUint32(w, uint32(k)); err != nil {
			return err
		}
		if err := chain.WriteUint32(w, uint32(v)); err != nil {
			return err
		}
	}
	return nil
}

func decodeDynastyEpochMap(r io.Reader) (map[chain.Dynasty]chain.Epoch, error) {
	n, err := chain.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	m := make(map[chain.Dynasty]chain.Epoch, n)
	for i := uint64(0); i < n; i++ {
		k, err := chain.ReadUint32(r)
		if err != nil {
			return nil, err
		}
		v, err := chain.ReadUint32(r)
		if err != nil {
			return nil, err
		}
		m[chain.Dynasty(k)] = chain.Epoch(v)
	}
	return m, nil
}

func encodeEpochAmountMap(w io.Writer, m map[chain.Epoch]chain.Amount) error {
	if err := chain.WriteVarInt(w, uint64(len(m))); err != nil {
		return err
	}
	for k, v := range m {
		if err := chain.WriteUint32(w, uint32(k)); err != nil {
			return err
		}
		if err := chain.WriteInt64(w, int64(v)); err != nil {
			return err
		}
	}
	return nil
}

func decodeEpochAmountMap(r io.Reader) (map[chain.Epoch]chain.Amount, error) {
	n, err := chain.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	m := make(map[chain.Epoch]chain.Amount, n)
	for i := uint64(0); i < n; i++ {
		k, err := chain.ReadUint32(r)
		if err != nil {
			return nil, err
		}
		v, err := chain.ReadInt64(r)
		if err != nil {
			return nil, err
		}
		m[chain.Epoch(k)] = chain.Amount(v)
	}
	return m, nil
}

func encodeEpochFactorMap(w io.Writer, m map[chain.Epoch]ufp64.F64) error {
	if err := chain.WriteVarInt(w, uint64(len(m))); err != nil {
		return err
	}
	for k, v := range m {
		if err := chain.WriteUint32(w, uint32(k)); err != nil {
			return err
		}
		if err := chain.WriteInt64(w, int64(v)); err != nil {
			return err
		}
	}
	return nil
}

func decodeEpochFactorMap(r io.Reader) (map[chain.Epoch]ufp64.F64, error) {
	n, err := chain.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	m := make(map[chain.Epoch]ufp64.F64, n)
	for i := uint64(0); i < n; i++ {
		k, err := chain.ReadUint32(r)
		if err != nil {
			return nil, err
		}
		v, err := chain.ReadInt64(r)
		if err != nil {
			return nil, err
		}
		m[chain.Epoch(k)] = ufp64.F64(v)
	}
	return m, nil
}
