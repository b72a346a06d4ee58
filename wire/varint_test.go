// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"testing"
)

func TestVarIntRoundTrip(t *testing.T) {
	cases := []uint64{
		0, 1, 0xfc, 0xfd, 0xfe, 0xff, 0xffff, 0x10000,
		0xffffffff, 0x100000000, 0xffffffffffffffff,
	}
	for _, v := range cases {
		var buf bytes.Buffer
		if err := WriteVarInt(&buf, v); err != nil {
			t.Fatalf("WriteVarInt(%d): %v", v, err)
		}
		if got := buf.Len(); got != VarIntSerializeSize(v) {
			t.Fatalf("VarIntSerializeSize(%d) = %d, wrote %d bytes", v, VarIntSerializeSize(v), got)
		}

		cursor := 0
		got, err := ReadVarInt(buf.Bytes(), &cursor)
		if err != nil {
			t.Fatalf("ReadVarInt(%d): %v", v, err)
		}
		if got != v {
			t.Fatalf("round trip: got %d, want %d", got, v)
		}
		if cursor != buf.Len() {
			t.Fatalf("cursor left at %d, want %d", cursor, buf.Len())
		}
	}
}

func TestVarIntEncodesShortestForm(t *testing.T) {
	cases := []struct {
		val  uint64
		size int
	}{
		{0, 1}, {0xfc, 1}, {0xfd, 3}, {0xffff, 3}, {0x10000, 5}, {0xffffffff, 5}, {0x100000000, 9},
	}
	for _, c := range cases {
		if got := VarIntSerializeSize(c.val); got != c.size {
			t.Errorf("VarIntSerializeSize(0x%x) = %d, want %d", c.val, got, c.size)
		}
	}
}

func TestReadVarIntTruncated(t *testing.T) {
	b := []byte{varIntPrefix32, 0x01, 0x02}
	cursor := 0
	if _, err := ReadVarInt(b, &cursor); err == nil {
		t.Fatal("expected error reading truncated varint")
	}
}
