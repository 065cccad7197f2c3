// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"bytes"
	"io"
)

// TxType is the 1-byte type tag that extends a transaction's version
// (§6 "Transaction types"). Finalization transactions are types 2-7.
type TxType uint8

// Recognized transaction types.
const (
	TxCoinbase TxType = iota
	TxRegular
	TxDeposit
	TxVote
	TxLogout
	TxSlash
	TxWithdraw
	TxAdmin
)

// IsFinalizationType reports whether t is one of the finalization
// transaction types (deposit/vote/logout/slash/withdraw/admin).
func (t TxType) IsFinalizationType() bool {
	return t >= TxDeposit && t <= TxAdmin
}

func (t TxType) String() string {
	switch t {
	case TxCoinbase:
		return "coinbase"
	case TxRegular:
		return "regular"
	case TxDeposit:
		return "deposit"
	case TxVote:
		return "vote"
	case TxLogout:
		return "logout"
	case TxSlash:
		return "slash"
	case TxWithdraw:
		return "withdraw"
	case TxAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// OutPoint identifies a transaction output being spent.
type OutPoint struct {
	Hash  Hash256
	Index uint32
}

// IsNull reports whether o is the null outpoint used by meta/coinbase
// inputs that carry no real prevout.
func (o OutPoint) IsNull() bool {
	return o.Hash == ZeroHash && o.Index == 0xffffffff
}

// TxIn is a transaction input.
type TxIn struct {
	PreviousOutPoint OutPoint
	SignatureScript  []byte
	Sequence         uint32
}

// TxOut is a transaction output.
type TxOut struct {
	Value        Amount
	ScriptPubKey []byte
}

// Transaction is a unit-e transaction: a version, a 1-byte type tag, a
// witness merkle-eligible input/output list, and an optional locktime.
type Transaction struct {
	Version  uint32
	Type     TxType
	TxIn     []TxIn
	TxOut    []TxOut
	LockTime uint32
}

// TxID returns the double-SHA256 identifier of t's serialized form.
func (t *Transaction) TxID() Hash256 {
	var buf bytes.Buffer
	_ = t.Encode(&buf)
	return DoubleHashH(buf.Bytes())
}

const (
	maxTxInPerTx  = 1 << 20
	maxTxOutPerTx = 1 << 20
	maxScriptSize = 1 << 20
)

// Encode serializes t to w.
func (t *Transaction) Encode(w io.Writer) error {
	if err := WriteUint32(w, t.Version); err != nil {
		return err
	}
	if _, err := w.Write([]byte{byte(t.Type)}); err != nil {
		return err
	}
	if err := WriteVarInt(w, uint64(len(t.TxIn))); err != nil {
		return err
	}
	for _, in := range t.TxIn {
		if err := WriteHash(w, in.PreviousOutPoint.Hash); err != nil {
			return err
		}
		if err := WriteUint32(w, in.PreviousOutPoint.Index); err != nil {
			return err
		}
		if err := WriteVarBytes(w, in.SignatureScript); err != nil {
			return err
		}
		if err := WriteUint32(w, in.Sequence); err != nil {
			return err
		}
	}
	if err := WriteVarInt(w, uint64(len(t.TxOut))); err != nil {
		return err
	}
	for _, out := range t.TxOut {
		if err := WriteInt64(w, int64(out.Value)); err != nil {
			return err
		}
		if err := WriteVarBytes(w, out.ScriptPubKey); err != nil {
			return err
		}
	}
	return WriteUint32(w, t.LockTime)
}

// Decode deserializes t from r.
func (t *Transaction) Decode(r io.Reader) error {
	var err error
	if t.Version, err = ReadUint32(r); err != nil {
		return err
	}
	var typeByte [1]byte
	if _, err = io.ReadFull(r, typeByte[:]); err != nil {
		return err
	}
	t.Type = TxType(typeByte[0])

	nIn, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if nIn > maxTxInPerTx {
		return errTooLarge("tx inputs", nIn, maxTxInPerTx)
	}
	t.TxIn = make([]TxIn, nIn)
	for i := range t.TxIn {
		if t.TxIn[i].PreviousOutPoint.Hash, err = ReadHash(r); err != nil {
			return err
		}
		if t.TxIn[i].PreviousOutPoint.Index, err = ReadUint32(r); err != nil {
			return err
		}
		if t.TxIn[i].SignatureScript, err = ReadVarBytes(r, maxScriptSize); err != nil {
			return err
		}
		if t.TxIn[i].Sequence, err = ReadUint32(r); err != nil {
			return err
		}
	}

	nOut, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if nOut > maxTxOutPerTx {
		return errTooLarge("tx outputs", nOut, maxTxOutPerTx)
	}
	t.TxOut = make([]TxOut, nOut)
	for i := range t.TxOut {
		v, err := ReadInt64(r)
		if err != nil {
			return err
		}
		t.TxOut[i].Value = Amount(v)
		if t.TxOut[i].ScriptPubKey, err = ReadVarBytes(r, maxScriptSize); err != nil {
			return err
		}
	}
	t.LockTime, err = ReadUint32(r)
	return err
}

// ValueOut sums the value of every output of t.
func (t *Transaction) ValueOut() Amount {
	var sum Amount
	for _, out := range t.TxOut {
		sum += out.Value
	}
	return sum
}
