// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"testing"

	"github.com/blockrelay/blockparse/chaincfg/chainhash"
)

func TestCompactToBig(t *testing.T) {
	cases := []struct {
		name      string
		bits      uint32
		want      chainhash.Hash
		wantError bool
	}{
		{
			// The real Bitcoin genesis block's difficulty-1 target.
			name: "bitcoin genesis difficulty 1",
			bits: 0x1d00ffff,
			want: hashAt(map[int]byte{3: 0x00, 4: 0xff, 5: 0xff}),
		},
		{
			name: "small mantissa, small exponent",
			bits: 0x1903a30c,
			want: hashAt(map[int]byte{7: 0x03, 8: 0xa3, 9: 0x0c}),
		},
		{
			name:      "large mantissa at exponent 33 overflows",
			bits:      0x21abcdef,
			wantError: true,
		},
		{
			name: "small mantissa at exponent 33 fits",
			bits: 0x2100cdef,
			want: hashAt(map[int]byte{0: 0xcd, 1: 0xef}),
		},
		{
			name:      "exponent above 34 always overflows",
			bits:      0x23000001,
			wantError: true,
		},
		{
			name: "zero mantissa is always the zero hash",
			bits: 0x23000000,
			want: chainhash.Hash{},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := CompactToBig(c.bits)
			if c.wantError {
				if err == nil {
					t.Fatalf("CompactToBig(0x%08x) = %x, want overflow error", c.bits, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("CompactToBig(0x%08x): %v", c.bits, err)
			}
			if got != c.want {
				t.Fatalf("CompactToBig(0x%08x) = %x, want %x", c.bits, got, c.want)
			}
		})
	}
}

func TestBigToCompactRoundTrip(t *testing.T) {
	for _, bits := range []uint32{0x1d00ffff, 0x1903a30c, 0x207fffff} {
		target, err := CompactToBig(bits)
		if err != nil {
			t.Fatalf("CompactToBig(0x%08x): %v", bits, err)
		}
		if got := BigToCompact(target); got != bits {
			t.Fatalf("BigToCompact(CompactToBig(0x%08x)) = 0x%08x, want 0x%08x", bits, got, bits)
		}
	}
}

// hashAt builds a 32-byte Hash with the given index->byte assignments,
// everything else left zero.
func hashAt(bytes map[int]byte) chainhash.Hash {
	var h chainhash.Hash
	for idx, b := range bytes {
		h[idx] = b
	}
	return h
}
