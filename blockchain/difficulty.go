// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"errors"

	"github.com/blockrelay/blockparse/chaincfg/chainhash"
)

// ErrDifficultyOverflow is returned by CompactToBig when the compact bits
// encode a target larger than fits in a 256-bit hash (§4.2).
var ErrDifficultyOverflow = errors.New("blockchain: compact bits overflow 256-bit target")

// CompactToBig expands the compact "bits" difficulty encoding into the
// 256-bit big-endian target it represents (§4.2). bits packs an exponent
// in its top byte and a 3-byte coefficient c in the low bytes; the target
// is c * 256^(exponent-3).
//
// A zero coefficient always yields the zero hash, regardless of exponent.
// Otherwise, the coefficient's bytes land at byte positions
// exponent-3..exponent-1 (counted from the target's low end): bytes that
// would land below position 0 are dropped silently (the classic
// right-shift-losing-low-bits case for small exponents), while any
// nonzero byte that would land above position 31 overflows the 32-byte
// target and is reported as an error.
func CompactToBig(bits uint32) (chainhash.Hash, error) {
	exponent := bits >> 24
	mantissa := bits & 0x00ffffff

	if mantissa == 0 {
		return chainhash.Hash{}, nil
	}

	overflow := exponent > 34 ||
		(mantissa > 0xff && exponent > 33) ||
		(mantissa > 0xffff && exponent > 32)
	if overflow {
		return chainhash.Hash{}, ErrDifficultyOverflow
	}

	var target chainhash.Hash
	for i := 0; i < 3; i++ {
		b := byte(mantissa >> uint(8*i))
		pos := int(exponent) - 3 + i
		if pos < 0 || pos > 31 {
			continue
		}
		target[chainhash.HashSize-1-pos] = b
	}
	return target, nil
}

// BigToCompact packs a 256-bit big-endian target back into the compact
// "bits" encoding, choosing the smallest exponent whose coefficient still
// fits in three bytes without losing precision below a single unit. It is
// the inverse of CompactToBig and exists for callers that need to emit
// bits rather than only parse them.
func BigToCompact(target chainhash.Hash) uint32 {
	if target.IsZero() {
		return 0
	}

	// Find the most significant nonzero byte; its position (counted from
	// the low end) plus one is the smallest exponent that can represent
	// the value without truncation of anything above a 3-byte mantissa.
	msbPos := -1
	for pos := chainhash.HashSize - 1; pos >= 0; pos-- {
		if target[chainhash.HashSize-1-pos] != 0 {
			msbPos = pos
			break
		}
	}
	exponent := uint32(msbPos + 1)

	var mantissa uint32
	for i := 0; i < 3; i++ {
		pos := int(exponent) - 3 + i
		if pos < 0 || pos > chainhash.HashSize-1 {
			continue
		}
		mantissa |= uint32(target[chainhash.HashSize-1-pos]) << uint(8*i)
	}

	// If the coefficient's top bit would be read as the classic sign bit
	// of the compact encoding, shift the window up by one byte.
	if mantissa&0x00800000 != 0 {
		mantissa >>= 8
		exponent++
	}

	return exponent<<24 | mantissa
}
