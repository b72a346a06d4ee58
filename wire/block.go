// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"

	"github.com/blockrelay/blockparse/chaincfg/chainhash"
)

// BlockHeader defines the exact 80-byte header described in spec §3:
// version, the hash of the previous block, the merkle root, the block
// time, the compact difficulty bits, and the nonce.
type BlockHeader struct {
	Version    int32
	PrevBlock  chainhash.Hash
	MerkleRoot chainhash.Hash
	Timestamp  uint32
	Bits       uint32
	Nonce      uint32
}

// blockHeaderLen is the fixed size of a serialized BlockHeader: 4 + 32 +
// 32 + 4 + 4 + 4.
const blockHeaderLen = 80

// deserializeBlockHeader reads the fixed 80-byte header.
func deserializeBlockHeader(b []byte, cursor *int) (BlockHeader, error) {
	var hdr BlockHeader

	version, err := readUint32(b, cursor)
	if err != nil {
		return hdr, err
	}
	hdr.Version = int32(version)

	prevBlock, err := ReadHash(b, cursor)
	if err != nil {
		return hdr, err
	}
	hdr.PrevBlock = prevBlock

	merkleRoot, err := ReadHash(b, cursor)
	if err != nil {
		return hdr, err
	}
	hdr.MerkleRoot = merkleRoot

	timestamp, err := readUint32(b, cursor)
	if err != nil {
		return hdr, err
	}
	hdr.Timestamp = timestamp

	bits, err := readUint32(b, cursor)
	if err != nil {
		return hdr, err
	}
	hdr.Bits = bits

	nonce, err := readUint32(b, cursor)
	if err != nil {
		return hdr, err
	}
	hdr.Nonce = nonce

	return hdr, nil
}

// Serialize writes hdr to w in its fixed 80-byte wire form.
func (hdr *BlockHeader) Serialize(w io.Writer) error {
	if err := writeUint32(w, uint32(hdr.Version)); err != nil {
		return err
	}
	if err := WriteHash(w, hdr.PrevBlock); err != nil {
		return err
	}
	if err := WriteHash(w, hdr.MerkleRoot); err != nil {
		return err
	}
	if err := writeUint32(w, hdr.Timestamp); err != nil {
		return err
	}
	if err := writeUint32(w, hdr.Bits); err != nil {
		return err
	}
	return writeUint32(w, hdr.Nonce)
}

// MsgBlock is the Block data type from spec §3: the network the block
// claims to belong to, its header, and its ordered list of transactions.
// DeserializeBlock rejects a block with no transactions; it does not check
// that the first one is a coinbase.
type MsgBlock struct {
	Network      BitcoinNet
	Header       BlockHeader
	Transactions []*MsgTx
}

// BlockID returns the block's identity hash: the double-SHA-256 of its
// header, byte-reversed as HashOf returns it (§4.2).
func (b *MsgBlock) BlockID() (chainhash.Hash, error) {
	return HashOf(&b.Header)
}

// DeserializeBlock reads one framed block from b starting at *cursor,
// implementing the framing rule from §4.1:
//
//	network magic (4 bytes)
//	size (u32 — number of bytes that follow, i.e. header + tx count + txs)
//	header (80 bytes)
//	compact-size transaction count
//	that many transactions
//
// After parsing the transactions, the cursor must land exactly at the
// framed end (start-of-size-field position + 4 + size); any other
// outcome is a parse error.
func DeserializeBlock(b []byte, cursor *int) (*MsgBlock, error) {
	start := *cursor

	magic, err := readUint32(b, cursor)
	if err != nil {
		return nil, err
	}
	network := BitcoinNet(magic)
	if !network.IsKnown() {
		return nil, parseErrorf(start, "unrecognized network magic 0x%08x", magic)
	}

	size, err := readUint32(b, cursor)
	if err != nil {
		return nil, err
	}
	framedEnd := *cursor + int(size)
	if framedEnd > len(b) {
		return nil, parseErrorf(*cursor, "declared block size %d exceeds available input", size)
	}

	header, err := deserializeBlockHeader(b, cursor)
	if err != nil {
		return nil, err
	}

	txCount, err := ReadVarInt(b, cursor)
	if err != nil {
		return nil, err
	}
	if txCount == 0 {
		return nil, parseErrorf(start, "block has no transactions")
	}

	txs := make([]*MsgTx, txCount)
	for i := range txs {
		tx, err := DeserializeTx(b, cursor)
		if err != nil {
			return nil, err
		}
		txs[i] = tx
	}

	if *cursor != framedEnd {
		return nil, parseErrorf(*cursor, "block framing mismatch: cursor at %d, expected %d", *cursor, framedEnd)
	}

	return &MsgBlock{
		Network:      network,
		Header:       header,
		Transactions: txs,
	}, nil
}

// Serialize writes the block to w in the exact framing DeserializeBlock
// expects: magic, a computed size field, the header, the transaction
// count, and the transactions themselves.
func (b *MsgBlock) Serialize(w io.Writer) error {
	if err := writeUint32(w, uint32(b.Network)); err != nil {
		return err
	}

	var body bytes.Buffer
	if err := b.Header.Serialize(&body); err != nil {
		return err
	}
	if err := WriteVarInt(&body, uint64(len(b.Transactions))); err != nil {
		return err
	}
	for _, tx := range b.Transactions {
		if err := tx.Serialize(&body); err != nil {
			return err
		}
	}

	if err := writeUint32(w, uint32(body.Len())); err != nil {
		return err
	}
	_, err := w.Write(body.Bytes())
	return err
}

// ParseStream repeatedly parses framed blocks from b starting at
// position 0 until the buffer is exhausted (§4.1, §6). Any parse error
// is propagated immediately, along with every block successfully
// parsed before it.
func ParseStream(b []byte) ([]*MsgBlock, error) {
	var blocks []*MsgBlock
	cursor := 0
	for cursor < len(b) {
		block, err := DeserializeBlock(b, &cursor)
		if err != nil {
			return blocks, err
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}
