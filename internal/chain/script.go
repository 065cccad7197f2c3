// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import "errors"

// OpData32 is the opcode that directly pushes the following 32 bytes, used
// by the coinbase meta input to push the snapshot hash.
const OpData32 = 0x20

// OP0 pushes an empty byte array / the number zero.
const OP0 = 0x00

// EncodeScriptNum serializes n the way Bitcoin's CScriptNum does: minimal
// little-endian magnitude with an explicit sign bit in the high bit of the
// last byte, no representation for zero (an empty byte string).
func EncodeScriptNum(n int64) []byte {
	if n == 0 {
		return nil
	}
	neg := n < 0
	absValue := n
	if neg {
		absValue = -n
	}

	var result []byte
	for absValue > 0 {
		result = append(result, byte(absValue&0xff))
		absValue >>= 8
	}
	if result[len(result)-1]&0x80 != 0 {
		if neg {
			result = append(result, 0x80)
		} else {
			result = append(result, 0x00)
		}
	} else if neg {
		result[len(result)-1] |= 0x80
	}
	return result
}

// DecodeScriptNum parses a CScriptNum-encoded byte string back to an int64.
func DecodeScriptNum(data []byte) (int64, error) {
	if len(data) == 0 {
		return 0, nil
	}
	if len(data) > 8 {
		return 0, errors.New("script number overflow")
	}
	var result int64
	for i, b := range data {
		result |= int64(b) << uint(8*i)
	}
	// Sign bit is the most significant bit of the last byte.
	if data[len(data)-1]&0x80 != 0 {
		result &= ^(int64(0x80) << uint(8*(len(data)-1)))
		return -result, nil
	}
	return result, nil
}

// pushScript encodes a single data push using direct-push opcodes (opcode
// value equals payload length) for payloads up to 75 bytes, which is all
// this package's callers ever need (heights and 32-byte hashes).
func pushScript(data []byte) []byte {
	if len(data) > 75 {
		panic("pushScript: payload too large for direct push")
	}
	out := make([]byte, 0, len(data)+1)
	out = append(out, byte(len(data)))
	return append(out, data...)
}

// BuildMetaInputScript builds the coinbase meta input's scriptSig: the
// block height followed by the 32-byte snapshot hash (§4.7).
func BuildMetaInputScript(height Height, snapshotHash Hash256) []byte {
	heightBytes := EncodeScriptNum(int64(height))
	script := make([]byte, 0, len(heightBytes)+1+1+32)
	if len(heightBytes) == 0 {
		script = append(script, OP0)
	} else {
		script = append(script, pushScript(heightBytes)...)
	}
	script = append(script, pushScript(snapshotHash[:])...)
	return script
}

// ParseMetaInputScript decodes a coinbase meta input's scriptSig into its
// block height and snapshot hash (the inverse of BuildMetaInputScript).
func ParseMetaInputScript(script []byte) (height Height, snapshotHash Hash256, err error) {
	r := scriptReader{script: script}

	op, data, ok := r.next()
	if !ok {
		return 0, Hash256{}, errors.New("meta input: missing block height push")
	}
	if len(data) == 0 && op != OP0 {
		return 0, Hash256{}, errors.New("meta input: malformed block height push")
	}
	h, err := DecodeScriptNum(data)
	if err != nil {
		return 0, Hash256{}, err
	}
	if h < 0 || h > int64(^uint32(0)) {
		return 0, Hash256{}, errors.New("meta input: invalid block height")
	}
	height = Height(h)

	op, data, ok = r.next()
	if !ok || op != OpData32 || len(data) != 32 {
		return 0, Hash256{}, errors.New("meta input: missing or malformed snapshot hash push")
	}
	copy(snapshotHash[:], data)
	return height, snapshotHash, nil
}

// DecodePushDataStack parses script as a flat sequence of direct-data
// pushes, returning each pushed item in order. This is the shape a staking
// input's SignatureScript takes: a signature push followed by either a
// public key (P2WPKH-style) or a redeem/witness script (P2WSH-style),
// mirroring Bitcoin's pre-segwit stack-script convention since this
// package represents witness data inline rather than in a separate segwit
// witness field.
func DecodePushDataStack(script []byte) ([][]byte, error) {
	r := scriptReader{script: script}
	var stack [][]byte
	for {
		op, data, ok := r.next()
		if !ok {
			if r.pos < len(r.script) {
				return nil, errors.New("push data stack: malformed push")
			}
			break
		}
		if op == OP0 {
			stack = append(stack, nil)
			continue
		}
		stack = append(stack, data)
	}
	return stack, nil
}

// scriptReader walks a sequence of direct-push opcodes, mirroring the
// relevant subset of CScript::GetOp.
type scriptReader struct {
	script []byte
	pos    int
}

func (r *scriptReader) next() (opcode byte, data []byte, ok bool) {
	if r.pos >= len(r.script) {
		return 0, nil, false
	}
	op := r.script[r.pos]
	r.pos++
	if op == OP0 {
		return OP0, nil, true
	}
	if op >= 1 && op <= 75 {
		if r.pos+int(op) > len(r.script) {
			return 0, nil, false
		}
		data = r.script[r.pos : r.pos+int(op)]
		r.pos += int(op)
		return op, data, true
	}
	return op, nil, true
}
