// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package scriptaddr extracts the public key(s) that could have signed a
// staking input's witness, from either a P2WPKH scriptPubKey or a P2WSH
// scriptPubKey whose witness script is a single-key or 1-of-N multisig
// (§4.8 "Block signature verifies against the public key(s) extractable
// from the staking input").
package scriptaddr

import (
	"crypto/sha256"
	"errors"

	"github.com/decred/dcrd/crypto/ripemd160"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Errors returned by ExtractBlockSigningKeys.
var (
	ErrNotWitnessProgram  = errors.New("scriptaddr: not a witness program")
	ErrWitnessMismatch    = errors.New("scriptaddr: witness stack does not match script type")
	ErrWitnessScriptHash  = errors.New("scriptaddr: witness script does not hash to the P2WSH program")
	ErrMultisigThreshold  = errors.New("scriptaddr: multisig threshold greater than one is not stakeable")
	ErrUnrecognizedScript = errors.New("scriptaddr: witness script is neither single-key nor 1-of-N multisig")
)

const (
	opFalse        = 0x00
	op1            = 0x51
	op16           = 0x60
	opCheckSig     = 0xac
	opCheckMultiSig = 0xae
)

// ExtractBlockSigningKeys returns every public key that could validly sign
// for scriptPubKey, given the witness stack carried alongside the staking
// input. P2WPKH yields exactly one key (the witness's own pubkey item);
// P2WSH yields one key for a single-key witness script, or every member key
// for a 1-of-N multisig witness script. An M-of-N script with M>1 is
// rejected: such an input is not stakeable (§4.8).
func ExtractBlockSigningKeys(scriptPubKey []byte, witness [][]byte) ([][]byte, error) {
	programLen, program, ok := parseWitnessProgram(scriptPubKey)
	if !ok {
		return nil, ErrNotWitnessProgram
	}

	switch programLen {
	case 20:
		return extractP2WPKH(program, witness)
	case 32:
		return extractP2WSH(program, witness)
	default:
		return nil, ErrNotWitnessProgram
	}
}

// parseWitnessProgram recognizes OP_0 <push(20|32)>, the only witness
// program version this chain's staking scripts use.
func parseWitnessProgram(script []byte) (programLen int, program []byte, ok bool) {
	if len(script) < 2 || script[0] != opFalse {
		return 0, nil, false
	}
	pushLen := int(script[1])
	if pushLen != 20 && pushLen != 32 {
		return 0, nil, false
	}
	if len(script) != 2+pushLen {
		return 0, nil, false
	}
	return pushLen, script[2:], true
}

func extractP2WPKH(pubKeyHash []byte, witness [][]byte) ([][]byte, error) {
	if len(witness) != 2 {
		return nil, ErrWitnessMismatch
	}
	pubKey := witness[1]
	if _, err := secp256k1.ParsePubKey(pubKey); err != nil {
		return nil, err
	}
	if !hashMatches(pubKeyHash, pubKey) {
		return nil, ErrWitnessMismatch
	}
	return [][]byte{pubKey}, nil
}

func extractP2WSH(scriptHash []byte, witness [][]byte) ([][]byte, error) {
	if len(witness) == 0 {
		return nil, ErrWitnessMismatch
	}
	witnessScript := witness[len(witness)-1]
	digest := sha256.Sum256(witnessScript)
	if !bytesEqual(digest[:], scriptHash) {
		return nil, ErrWitnessScriptHash
	}
	return parseSigningKeys(witnessScript)
}

// parseSigningKeys recognizes two witness-script shapes: a single pubkey
// push followed by OP_CHECKSIG, or OP_m <pubkeys...> OP_n OP_CHECKMULTISIG
// with m == 1.
func parseSigningKeys(script []byte) ([][]byte, error) {
	ops := tokenize(script)
	if len(ops) == 2 && ops[1].opcode == opCheckSig && isDataPush(ops[0]) {
		pubKey := ops[0].data
		if _, err := secp256k1.ParsePubKey(pubKey); err != nil {
			return nil, err
		}
		return [][]byte{pubKey}, nil
	}

	if len(ops) >= 4 && ops[len(ops)-1].opcode == opCheckMultiSig {
		m, ok := smallInt(ops[0])
		if !ok {
			return nil, ErrUnrecognizedScript
		}
		n, ok := smallInt(ops[len(ops)-2])
		if !ok {
			return nil, ErrUnrecognizedScript
		}
		keyOps := ops[1 : len(ops)-2]
		if n != len(keyOps) {
			return nil, ErrUnrecognizedScript
		}
		if m != 1 {
			return nil, ErrMultisigThreshold
		}
		keys := make([][]byte, 0, len(keyOps))
		for _, op := range keyOps {
			if !isDataPush(op) {
				return nil, ErrUnrecognizedScript
			}
			if _, err := secp256k1.ParsePubKey(op.data); err != nil {
				return nil, err
			}
			keys = append(keys, op.data)
		}
		return keys, nil
	}

	return nil, ErrUnrecognizedScript
}

type scriptOp struct {
	opcode byte
	data   []byte
}

func isDataPush(op scriptOp) bool {
	return op.data != nil
}

// smallInt decodes OP_1..OP_16 into 1..16; any other opcode is not a small
// integer push.
func smallInt(op scriptOp) (int, bool) {
	if op.data != nil {
		return 0, false
	}
	if op.opcode < op1 || op.opcode > op16 {
		return 0, false
	}
	return int(op.opcode-op1) + 1, true
}

// tokenize walks script as a flat sequence of direct-data-push and other
// opcodes; it does not need to understand every opcode since only pushes,
// OP_1..OP_16, OP_CHECKSIG, and OP_CHECKMULTISIG matter here.
func tokenize(script []byte) []scriptOp {
	var ops []scriptOp
	for i := 0; i < len(script); {
		op := script[i]
		i++
		if op >= 1 && op <= 75 {
			if i+int(op) > len(script) {
				return ops
			}
			ops = append(ops, scriptOp{opcode: op, data: script[i : i+int(op)]})
			i += int(op)
			continue
		}
		ops = append(ops, scriptOp{opcode: op})
	}
	return ops
}

func hashMatches(want, pubKey []byte) bool {
	got := hash160(pubKey)
	return bytesEqual(got, want)
}

// hash160 is RIPEMD160(SHA256(b)), the address digest this chain's P2WPKH
// programs commit to.
func hash160(b []byte) []byte {
	sum := sha256.Sum256(b)
	h := ripemd160.New()
	h.Write(sum[:])
	return h.Sum(nil)
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
