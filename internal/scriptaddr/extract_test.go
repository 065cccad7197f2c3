// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package scriptaddr

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func testPubKey(t *testing.T) []byte {
	t.Helper()
	b, err := hex.DecodeString("02f90e79cec51feff025f56cf071354c10716d6360fcfc53a543589c2d775e2fd1")
	if err != nil {
		t.Fatalf("decode pubkey: %v", err)
	}
	return b
}

func buildP2WPKH(pubKeyHash []byte) []byte {
	script := make([]byte, 0, 22)
	script = append(script, opFalse, 20)
	return append(script, pubKeyHash...)
}

func buildP2WSH(scriptHash []byte) []byte {
	script := make([]byte, 0, 34)
	script = append(script, opFalse, 32)
	return append(script, scriptHash...)
}

func pushData(data []byte) []byte {
	out := []byte{byte(len(data))}
	return append(out, data...)
}

func TestExtractP2WPKH(t *testing.T) {
	pubKey := testPubKey(t)
	pkHash := hash160(pubKey)
	scriptPubKey := buildP2WPKH(pkHash)
	witness := [][]byte{{0x30, 0x44}, pubKey} // [signature, pubkey]

	keys, err := ExtractBlockSigningKeys(scriptPubKey, witness)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(keys) != 1 || !bytesEqual(keys[0], pubKey) {
		t.Fatalf("unexpected keys: %x", keys)
	}
}

func TestExtractP2WPKHHashMismatch(t *testing.T) {
	pubKey := testPubKey(t)
	wrongHash := make([]byte, 20)
	scriptPubKey := buildP2WPKH(wrongHash)
	witness := [][]byte{{0x30}, pubKey}

	if _, err := ExtractBlockSigningKeys(scriptPubKey, witness); err != ErrWitnessMismatch {
		t.Fatalf("expected ErrWitnessMismatch, got %v", err)
	}
}

func TestExtractP2WSHSingleKey(t *testing.T) {
	pubKey := testPubKey(t)
	witnessScript := append(pushData(pubKey), opCheckSig)
	scriptHash := sha256Sum(witnessScript)
	scriptPubKey := buildP2WSH(scriptHash)
	witness := [][]byte{{0x30}, witnessScript}

	keys, err := ExtractBlockSigningKeys(scriptPubKey, witness)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(keys) != 1 || !bytesEqual(keys[0], pubKey) {
		t.Fatalf("unexpected keys: %x", keys)
	}
}

func TestExtractP2WSHOneOfTwoMultisig(t *testing.T) {
	pubKey1 := testPubKey(t)
	pubKey2, err := hex.DecodeString("02c6047f9441ed7d6d3045406e95c07cd85c778e4b8cef3ca7abac09b95c709ee5")
	if err != nil {
		t.Fatalf("decode pubkey2: %v", err)
	}

	var script []byte
	script = append(script, op1) // m = 1
	script = append(script, pushData(pubKey1)...)
	script = append(script, pushData(pubKey2)...)
	script = append(script, byte(op1+1)) // n = 2
	script = append(script, opCheckMultiSig)

	scriptHash := sha256Sum(script)
	scriptPubKey := buildP2WSH(scriptHash)
	witness := [][]byte{{0x30}, script}

	keys, err := ExtractBlockSigningKeys(scriptPubKey, witness)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(keys))
	}
}

func TestExtractP2WSHTwoOfTwoMultisigRejected(t *testing.T) {
	pubKey1 := testPubKey(t)
	pubKey2, err := hex.DecodeString("02c6047f9441ed7d6d3045406e95c07cd85c778e4b8cef3ca7abac09b95c709ee5")
	if err != nil {
		t.Fatalf("decode pubkey2: %v", err)
	}

	var script []byte
	script = append(script, byte(op1+1)) // m = 2
	script = append(script, pushData(pubKey1)...)
	script = append(script, pushData(pubKey2)...)
	script = append(script, byte(op1+1)) // n = 2
	script = append(script, opCheckMultiSig)

	scriptHash := sha256Sum(script)
	scriptPubKey := buildP2WSH(scriptHash)
	witness := [][]byte{{0x30}, script}

	if _, err := ExtractBlockSigningKeys(scriptPubKey, witness); err != ErrMultisigThreshold {
		t.Fatalf("expected ErrMultisigThreshold, got %v", err)
	}
}

func TestExtractNotWitnessProgram(t *testing.T) {
	if _, err := ExtractBlockSigningKeys([]byte{0x76, 0xa9, 0x14}, nil); err != ErrNotWitnessProgram {
		t.Fatalf("expected ErrNotWitnessProgram, got %v", err)
	}
}

func sha256Sum(b []byte) []byte {
	sum := sha256.Sum256(b)
	return sum[:]
}
