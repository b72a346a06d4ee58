// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"io"

	"github.com/blockrelay/blockparse/chaincfg/chainhash"
)

// readUint8 through readUint64 read a little-endian fixed-width integer
// starting at *cursor, advancing *cursor past the bytes consumed. On
// failure *cursor is left at the offset of the byte that was missing
// (§4.1: "cursor is left at a position no earlier than the point of
// failure").
func readUint8(b []byte, cursor *int) (uint8, error) {
	if *cursor+1 > len(b) {
		return 0, parseErrorf(*cursor, "unexpected end of input reading uint8")
	}
	v := b[*cursor]
	*cursor++
	return v, nil
}

func readUint16(b []byte, cursor *int) (uint16, error) {
	if *cursor+2 > len(b) {
		return 0, parseErrorf(*cursor, "unexpected end of input reading uint16")
	}
	v := binary.LittleEndian.Uint16(b[*cursor:])
	*cursor += 2
	return v, nil
}

func readUint32(b []byte, cursor *int) (uint32, error) {
	if *cursor+4 > len(b) {
		return 0, parseErrorf(*cursor, "unexpected end of input reading uint32")
	}
	v := binary.LittleEndian.Uint32(b[*cursor:])
	*cursor += 4
	return v, nil
}

func readUint64(b []byte, cursor *int) (uint64, error) {
	if *cursor+8 > len(b) {
		return 0, parseErrorf(*cursor, "unexpected end of input reading uint64")
	}
	v := binary.LittleEndian.Uint64(b[*cursor:])
	*cursor += 8
	return v, nil
}

func writeUint8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	return err
}

func writeUint16(w io.Writer, v uint16) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func writeUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func writeUint64(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// readBytes reads n raw bytes starting at *cursor, advancing *cursor.
func readBytes(b []byte, cursor *int, n int) ([]byte, error) {
	if n < 0 || *cursor+n > len(b) {
		return nil, parseErrorf(*cursor, "unexpected end of input reading %d bytes", n)
	}
	out := make([]byte, n)
	copy(out, b[*cursor:*cursor+n])
	*cursor += n
	return out, nil
}

// ReadHash reads a 32-byte hash from the wire. The wire encodes hashes
// byte-reversed relative to their internal representation (§3), so the
// bytes read here are reversed before being returned.
func ReadHash(b []byte, cursor *int) (chainhash.Hash, error) {
	raw, err := readBytes(b, cursor, chainhash.HashSize)
	if err != nil {
		return chainhash.Hash{}, err
	}
	var h chainhash.Hash
	for i := 0; i < chainhash.HashSize; i++ {
		h[i] = raw[chainhash.HashSize-1-i]
	}
	return h, nil
}

// WriteHash writes a 32-byte hash to the wire in byte-reversed order.
func WriteHash(w io.Writer, h chainhash.Hash) error {
	var reversed chainhash.Hash
	for i := 0; i < chainhash.HashSize; i++ {
		reversed[i] = h[chainhash.HashSize-1-i]
	}
	_, err := w.Write(reversed[:])
	return err
}
