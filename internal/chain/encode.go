// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"encoding/binary"
	"io"
	"strconv"

	"github.com/decred/dcrd/wire"
)

// encodingProtocolVersion is the pseudo protocol version passed to the
// reused wire.ReadVarInt/WriteVarInt helpers. This package does not
// negotiate a wire protocol version of its own; the constant only selects
// the (stable, pre-BIP-0130) VarInt encoding those helpers implement.
const encodingProtocolVersion = 0

// WriteVarInt writes val to w using Bitcoin's canonical variable-length
// integer encoding, delegating to wire.WriteVarInt rather than
// reimplementing VarInt encoding.
func WriteVarInt(w io.Writer, val uint64) error {
	return wire.WriteVarInt(w, encodingProtocolVersion, val)
}

// ReadVarInt reads a VarInt-encoded value from r.
func ReadVarInt(r io.Reader) (uint64, error) {
	return wire.ReadVarInt(r, encodingProtocolVersion)
}

// WriteVarBytes writes a VarInt-prefixed byte slice to w.
func WriteVarBytes(w io.Writer, b []byte) error {
	if err := WriteVarInt(w, uint64(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

// ReadVarBytes reads a VarInt-prefixed byte slice from r, rejecting lengths
// beyond maxLen to bound allocation from untrusted input.
func ReadVarBytes(r io.Reader, maxLen uint64) ([]byte, error) {
	n, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if n > maxLen {
		return nil, errTooLarge("var bytes", n, maxLen)
	}
	buf := make([]byte, n)
	if n == 0 {
		return buf, nil
	}
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// WriteHash writes a fixed 32-byte Hash256 to w.
func WriteHash(w io.Writer, h Hash256) error {
	_, err := w.Write(h[:])
	return err
}

// ReadHash reads a fixed 32-byte Hash256 from r.
func ReadHash(r io.Reader) (Hash256, error) {
	var h Hash256
	_, err := io.ReadFull(r, h[:])
	return h, err
}

// WriteHash160 writes a fixed 20-byte Hash160 to w.
func WriteHash160(w io.Writer, h Hash160) error {
	_, err := w.Write(h[:])
	return err
}

// ReadHash160 reads a fixed 20-byte Hash160 from r.
func ReadHash160(r io.Reader) (Hash160, error) {
	var h Hash160
	_, err := io.ReadFull(r, h[:])
	return h, err
}

// WriteUint32 writes v to w in little-endian byte order.
func WriteUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// ReadUint32 reads a little-endian uint32 from r.
func ReadUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// WriteInt64 writes v to w in little-endian byte order.
func WriteInt64(w io.Writer, v int64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	_, err := w.Write(buf[:])
	return err
}

// ReadInt64 reads a little-endian int64 from r.
func ReadInt64(r io.Reader) (int64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(buf[:])), nil
}

type sizeError struct {
	what     string
	got, max uint64
}

func (e *sizeError) Error() string {
	return e.what + " too large: " + strconv.FormatUint(e.got, 10) +
		" > " + strconv.FormatUint(e.max, 10)
}

func errTooLarge(what string, got, max uint64) error {
	return &sizeError{what: what, got: got, max: max}
}
