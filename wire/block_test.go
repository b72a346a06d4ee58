// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/blockrelay/blockparse/chaincfg/chainhash"
)

func sampleTx() *MsgTx {
	return &MsgTx{
		Version: 1,
		TxIn: []*TxIn{
			{
				PreviousOutPoint: OutPoint{Hash: chainhash.Hash{}, Index: 0xffffffff},
				SignatureScript:  []byte{0x01, 0x02, 0x03},
				Sequence:         0xffffffff,
			},
		},
		TxOut: []*TxOut{
			{Value: 5000000000, PkScript: []byte{0x76, 0xa9, 0x14}},
		},
		LockTime: 0,
	}
}

func sampleWitnessTx() *MsgTx {
	tx := sampleTx()
	tx.Flags = WitnessFlag
	tx.TxIn[0].Witness = [][]byte{{0xaa, 0xbb}, {0xcc}}
	return tx
}

func TestMsgTxRoundTrip(t *testing.T) {
	for name, tx := range map[string]*MsgTx{
		"legacy":  sampleTx(),
		"witness": sampleWitnessTx(),
	} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tx.Serialize(&buf); err != nil {
				t.Fatalf("Serialize: %v", err)
			}

			cursor := 0
			got, err := DeserializeTx(buf.Bytes(), &cursor)
			if err != nil {
				t.Fatalf("DeserializeTx: %v", err)
			}
			if cursor != buf.Len() {
				t.Fatalf("cursor at %d, want %d", cursor, buf.Len())
			}
			if !reflect.DeepEqual(got, tx) {
				t.Fatalf("round trip mismatch:\ngot  %+v\nwant %+v", got, tx)
			}
		})
	}
}

func TestMsgTxRejectsEmptyInputs(t *testing.T) {
	tx := sampleTx()
	tx.TxIn = nil
	var buf bytes.Buffer
	_ = tx.Serialize(&buf)
	cursor := 0
	if _, err := DeserializeTx(buf.Bytes(), &cursor); err == nil {
		t.Fatal("expected error for transaction with no inputs")
	}
}

func sampleBlock() *MsgBlock {
	return &MsgBlock{
		Network: MainNet,
		Header: BlockHeader{
			Version:    1,
			PrevBlock:  chainhash.Hash{},
			MerkleRoot: chainhash.Hash{1, 2, 3},
			Timestamp:  1231006505,
			Bits:       0x1d00ffff,
			Nonce:      2083236893,
		},
		Transactions: []*MsgTx{sampleTx()},
	}
}

func TestMsgBlockRoundTrip(t *testing.T) {
	block := sampleBlock()

	var buf bytes.Buffer
	if err := block.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	cursor := 0
	got, err := DeserializeBlock(buf.Bytes(), &cursor)
	if err != nil {
		t.Fatalf("DeserializeBlock: %v", err)
	}
	if cursor != buf.Len() {
		t.Fatalf("cursor at %d, want %d", cursor, buf.Len())
	}
	if !reflect.DeepEqual(got, block) {
		t.Fatalf("round trip mismatch:\ngot  %+v\nwant %+v", got, block)
	}
}

func TestDeserializeBlockUnknownNetwork(t *testing.T) {
	block := sampleBlock()
	var buf bytes.Buffer
	_ = block.Serialize(&buf)
	raw := buf.Bytes()
	raw[0] = 0xff // corrupt the magic

	cursor := 0
	_, err := DeserializeBlock(raw, &cursor)
	if err == nil {
		t.Fatal("expected error for unrecognized network magic")
	}
	perr, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if perr.Offset != 0 {
		t.Fatalf("offset = %d, want 0", perr.Offset)
	}
}

func TestDeserializeBlockFramingMismatch(t *testing.T) {
	block := sampleBlock()
	var buf bytes.Buffer
	_ = block.Serialize(&buf)
	raw := buf.Bytes()
	// Bump the declared size by one so the cursor lands short of framedEnd.
	raw[4]++

	// Pad so the declared size doesn't exceed available input.
	raw = append(raw, 0x00)

	cursor := 0
	if _, err := DeserializeBlock(raw, &cursor); err == nil {
		t.Fatal("expected framing mismatch error")
	}
}

func TestParseStreamMultipleBlocks(t *testing.T) {
	b1, b2 := sampleBlock(), sampleBlock()
	b2.Header.Nonce = 42

	var buf bytes.Buffer
	if err := b1.Serialize(&buf); err != nil {
		t.Fatal(err)
	}
	if err := b2.Serialize(&buf); err != nil {
		t.Fatal(err)
	}

	blocks, err := ParseStream(buf.Bytes())
	if err != nil {
		t.Fatalf("ParseStream: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if blocks[0].Header.Nonce != b1.Header.Nonce || blocks[1].Header.Nonce != b2.Header.Nonce {
		t.Fatalf("blocks out of order or corrupted: %+v", blocks)
	}
}

func TestParseStreamPartialOnError(t *testing.T) {
	b1 := sampleBlock()
	var buf bytes.Buffer
	if err := b1.Serialize(&buf); err != nil {
		t.Fatal(err)
	}
	buf.Write([]byte{0x01, 0x02, 0x03}) // trailing garbage, too short to parse

	blocks, err := ParseStream(buf.Bytes())
	if err == nil {
		t.Fatal("expected error from trailing garbage")
	}
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks before the error, want 1", len(blocks))
	}
}
