// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chainhash provides the 32-byte hash type used throughout the
// consensus wire format, along with the double-SHA-256 helpers used to
// derive it.
//
// A Hash holds bytes in internal (big-endian, as produced by SHA-256)
// order. Display and wire order are byte-reversed relative to that —
// String, and the codec's hash field, both reverse the internal bytes.
package chainhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// HashSize is the number of bytes in a hash.
const HashSize = 32

// MaxHashStringSize is the maximum length of a Hash hash string.
const MaxHashStringSize = HashSize * 2

// ErrHashStrSize describes an error that indicates the caller specified
// a hash string that has too many characters.
var ErrHashStrSize = fmt.Errorf("max hash string length is %v bytes", MaxHashStringSize)

// Hash is used in several of the bitcoin messages and common structures.
// It typically represents the double sha256 of data.
type Hash [HashSize]byte

// String returns the Hash as the hexadecimal string of the byte-reversed
// hash, which is the display/interchange order used throughout the
// reference implementation and every block explorer.
func (hash Hash) String() string {
	var reversed Hash
	for i, b := range hash[:HashSize/2] {
		reversed[i], reversed[HashSize-1-i] = hash[HashSize-1-i], b
	}
	return hex.EncodeToString(reversed[:])
}

// CloneBytes returns a copy of the bytes which make up the hash. This is
// a helper for places where a []byte is preferable over the fixed size array.
func (hash *Hash) CloneBytes() []byte {
	newHash := make([]byte, HashSize)
	copy(newHash, hash[:])
	return newHash
}

// SetBytes sets the bytes which represent the hash. An error is returned if
// the number of bytes passed in is not HashSize.
func (hash *Hash) SetBytes(newHash []byte) error {
	if len(newHash) != HashSize {
		return fmt.Errorf("invalid hash length of %v, want %v", len(newHash), HashSize)
	}
	copy(hash[:], newHash)
	return nil
}

// IsEqual returns true if the target is the same as the hash.
func (hash *Hash) IsEqual(target *Hash) bool {
	if hash == nil && target == nil {
		return true
	}
	if hash == nil || target == nil {
		return false
	}
	return *hash == *target
}

// IsZero reports whether the hash is the all-zero sentinel used for the
// genesis block's previous-block-hash field.
func (hash *Hash) IsZero() bool {
	return *hash == Hash{}
}

// Less reports whether hash orders before other when both are interpreted
// as unsigned big-endian integers over their internal byte representation.
// This is the ordering difficulty-target comparisons (I1) rely on.
func (hash *Hash) Less(other *Hash) bool {
	for i := 0; i < HashSize; i++ {
		if hash[i] != other[i] {
			return hash[i] < other[i]
		}
	}
	return false
}

// NewHash returns a new Hash from a byte slice. An error is returned if
// the number of bytes passed in is not HashSize.
func NewHash(newHash []byte) (*Hash, error) {
	var sh Hash
	if err := sh.SetBytes(newHash); err != nil {
		return nil, err
	}
	return &sh, nil
}

// NewHashFromStr creates a Hash from a hash string. The string should be
// the hexadecimal string of a byte-reversed hash, but any missing
// characters result in zero padding at the end of the Hash.
func NewHashFromStr(hash string) (*Hash, error) {
	ret := new(Hash)
	err := Decode(ret, hash)
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// Decode decodes the byte-reversed hexadecimal string encoding of a Hash to
// a destination.
func Decode(dst *Hash, src string) error {
	if len(src) > MaxHashStringSize {
		return ErrHashStrSize
	}

	var srcBytes []byte
	if len(src)%2 == 0 {
		srcBytes = []byte(src)
	} else {
		srcBytes = make([]byte, 1+len(src))
		srcBytes[0] = '0'
		copy(srcBytes[1:], src)
	}

	var reversedHash Hash
	_, err := hex.Decode(reversedHash[HashSize-hex.DecodedLen(len(srcBytes)):], srcBytes)
	if err != nil {
		return err
	}

	for i, b := range reversedHash[:HashSize/2] {
		dst[i], dst[HashSize-1-i] = reversedHash[HashSize-1-i], b
	}
	return nil
}

// HashB calculates the double sha256 of a byte slice.
func HashB(b []byte) []byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return second[:]
}

// HashH calculates the double sha256 of a byte slice and returns it as a
// Hash, in internal byte order (not reversed).
func HashH(b []byte) Hash {
	first := sha256.Sum256(b)
	return Hash(sha256.Sum256(first[:]))
}

// DoubleHashB computes the double SHA-256 of a byte slice, same as HashB.
// Retained under this name because it's the name used throughout the
// wider btcsuite/decred family.
func DoubleHashB(b []byte) []byte {
	return HashB(b)
}

// DoubleHashH computes the double SHA-256 of a byte slice and returns it
// as a Hash, same as HashH.
func DoubleHashH(b []byte) Hash {
	return HashH(b)
}

// DoubleHashRaw computes the double SHA-256 of the bytes written to its
// callback's io.Writer argument, returning the result as a Hash. This
// mirrors the signature used by blockchain's merkle computation, which
// writes two concatenated branch hashes rather than building a []byte
// up front.
func DoubleHashRaw(write func(w io.Writer) error) Hash {
	h := sha256.New()
	// write is expected to succeed against a sha256.digest, which never
	// returns an error from Write.
	_ = write(h)
	first := h.Sum(nil)
	return Hash(sha256.Sum256(first))
}

// Reverse returns a copy of hash with its bytes reversed. Used to convert
// between internal order (as produced by SHA-256) and wire/display order.
func (hash Hash) Reverse() Hash {
	var out Hash
	for i := 0; i < HashSize; i++ {
		out[i] = hash[HashSize-1-i]
	}
	return out
}
