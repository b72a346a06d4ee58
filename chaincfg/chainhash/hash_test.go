// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainhash

import (
	"testing"
)

func TestHashReverseRoundTrip(t *testing.T) {
	var h Hash
	for i := range h {
		h[i] = byte(i)
	}
	if got := h.Reverse().Reverse(); got != h {
		t.Fatalf("double reverse mismatch: got %v, want %v", got, h)
	}
}

func TestStringIsReversedHex(t *testing.T) {
	var h Hash
	h[0] = 0xaa
	h[HashSize-1] = 0xbb
	s := h.String()
	if s[0:2] != "bb" {
		t.Fatalf("String() = %q, want leading byte bb (reversed)", s)
	}
	if s[len(s)-2:] != "aa" {
		t.Fatalf("String() = %q, want trailing byte aa (reversed)", s)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	var h Hash
	for i := range h {
		h[i] = byte(i * 3)
	}
	s := h.String()

	var got Hash
	if err := Decode(&got, s); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != h {
		t.Fatalf("Decode(String()) mismatch: got %v, want %v", got, h)
	}
}

func TestDoubleHashConsistency(t *testing.T) {
	data := []byte("genesis block fixture data")
	if HashH(data) != DoubleHashH(data) {
		t.Fatal("HashH and DoubleHashH diverged")
	}
	if string(HashB(data)) != string(DoubleHashB(data)) {
		t.Fatal("HashB and DoubleHashB diverged")
	}
}

func TestLessOrdersByInternalBytes(t *testing.T) {
	a := Hash{0x00, 0x01}
	b := Hash{0x00, 0x02}
	if !a.Less(&b) {
		t.Fatal("expected a < b")
	}
	if b.Less(&a) {
		t.Fatal("expected b not < a")
	}
	if a.Less(&a) {
		t.Fatal("expected a not < a")
	}
}

func TestIsZero(t *testing.T) {
	var h Hash
	if !h.IsZero() {
		t.Fatal("zero-value Hash should report IsZero")
	}
	h[0] = 1
	if h.IsZero() {
		t.Fatal("non-zero Hash should not report IsZero")
	}
}
