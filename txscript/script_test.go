// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"testing"
)

func TestParseScriptRoundTrip(t *testing.T) {
	raw := []byte{
		0x04, 0xde, 0xad, 0xbe, 0xef, // direct push of 4 bytes
		OP_DUP,
		OP_HASH160,
		OP_1,
		OP_1NEGATE,
		OP_0,
		OP_EQUALVERIFY,
		OP_CHECKSIG,
	}

	script, err := ParseScript(raw)
	if err != nil {
		t.Fatalf("ParseScript: %v", err)
	}
	if got := script.Bytes(); !bytes.Equal(got, raw) {
		t.Fatalf("round trip mismatch:\ngot  % x\nwant % x", got, raw)
	}
}

func TestParseScriptPushData1(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAB}, 0x4c)
	raw := append([]byte{OP_PUSHDATA1, byte(len(payload))}, payload...)

	script, err := ParseScript(raw)
	if err != nil {
		t.Fatalf("ParseScript: %v", err)
	}
	if len(script) != 1 || script[0].Kind != OpKindPushData {
		t.Fatalf("expected a single push-data opcode, got %+v", script)
	}
	if !bytes.Equal(script[0].Data, payload) {
		t.Fatalf("payload mismatch: got % x, want % x", script[0].Data, payload)
	}
	if got := script.Bytes(); !bytes.Equal(got, raw) {
		t.Fatalf("round trip mismatch:\ngot  % x\nwant % x", got, raw)
	}
}

func TestParseScriptTruncatedDirectPush(t *testing.T) {
	raw := []byte{0x05, 0x01, 0x02} // claims 5 bytes, only 2 follow
	if _, err := ParseScript(raw); err == nil {
		t.Fatal("expected a truncated-push error")
	}
}

func TestParseScriptTruncatedPushData2Length(t *testing.T) {
	raw := []byte{OP_PUSHDATA2, 0x01}
	if _, err := ParseScript(raw); err == nil {
		t.Fatal("expected a truncated-length error")
	}
}

func TestParseScriptTruncatedPushData2Payload(t *testing.T) {
	raw := []byte{OP_PUSHDATA2, 0x0a, 0x00, 0x01, 0x02} // claims 10 bytes, 2 follow
	if _, err := ParseScript(raw); err == nil {
		t.Fatal("expected a truncated-payload error")
	}
}

func TestParseScriptUnassignedByteIsInvalidKindNotError(t *testing.T) {
	raw := []byte{0xba}
	script, err := ParseScript(raw)
	if err != nil {
		t.Fatalf("ParseScript: %v", err)
	}
	if len(script) != 1 || script[0].Kind != OpKindInvalid {
		t.Fatalf("expected a single OpKindInvalid opcode, got %+v", script)
	}
}

func TestClassifyDisabledOpcodes(t *testing.T) {
	for _, b := range []byte{OP_CAT, OP_SUBSTR, OP_LEFT, OP_RIGHT, OP_INVERT, OP_AND, OP_OR, OP_XOR,
		OP_2MUL, OP_2DIV, OP_MUL, OP_DIV, OP_MOD, OP_LSHIFT, OP_RSHIFT} {
		if classify(b) != OpKindDisabled {
			t.Fatalf("opcode 0x%02x should classify as disabled", b)
		}
	}
}

func TestClassifySigCheckAndTimelock(t *testing.T) {
	for _, b := range []byte{OP_CHECKSIG, OP_CHECKSIGVERIFY, OP_CHECKMULTISIG, OP_CHECKMULTISIGVERIFY} {
		if classify(b) != OpKindSigCheck {
			t.Fatalf("opcode 0x%02x should classify as sig-check", b)
		}
	}
	for _, b := range []byte{OP_CHECKLOCKTIMEVERIFY, OP_CHECKSEQUENCEVERIFY} {
		if classify(b) != OpKindTimelock {
			t.Fatalf("opcode 0x%02x should classify as timelock", b)
		}
	}
}
