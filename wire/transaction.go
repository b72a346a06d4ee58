// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"

	"github.com/blockrelay/blockparse/chaincfg/chainhash"
)

// TransactionFlags is a one-bit field describing optional transaction
// framing. Unknown bit patterns fail parsing (§3).
type TransactionFlags uint8

// WitnessFlag indicates the transaction carries segwit-style witness data
// per input.
const WitnessFlag TransactionFlags = 0x01

// knownTransactionFlags is the set of bits this codec understands. Anything
// else in the flags byte is a parse error.
const knownTransactionFlags = WitnessFlag

// HasWitness reports whether the witness bit is set.
func (f TransactionFlags) HasWitness() bool {
	return f&WitnessFlag != 0
}

// Amount is a quantity of satoshis.
type Amount = uint64

// OutPoint defines a bitcoin data type that is used to track previous
// transaction outputs.
type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
}

// TxIn defines a bitcoin transaction input.
type TxIn struct {
	PreviousOutPoint OutPoint
	SignatureScript  []byte
	Sequence         uint32
	Witness          [][]byte
}

// TxOut defines a bitcoin transaction output.
type TxOut struct {
	Value    Amount
	PkScript []byte
}

// MsgTx implements the Transaction data type described in spec §3: an
// ordered, non-empty list of inputs and outputs framed per the
// segwit-compatible rule in §4.1.
type MsgTx struct {
	Version  uint32
	Flags    TransactionFlags
	TxIn     []*TxIn
	TxOut    []*TxOut
	LockTime uint32
}

// DeserializeTx reads a transaction from b starting at *cursor, implementing
// the framing rule from §4.1:
//
//	read version
//	read compact-size count
//	if count == 0:
//	    read one flags byte
//	    read a fresh compact-size giving the true input count
//	else:
//	    count is the input count, flags default to empty
//	read that many inputs, then a compact-size output count and that
//	many outputs; if the witness flag is set, read one witness stack per
//	input; finally read the 4-byte locktime.
func DeserializeTx(b []byte, cursor *int) (*MsgTx, error) {
	start := *cursor
	tx := &MsgTx{}

	version, err := readUint32(b, cursor)
	if err != nil {
		return nil, err
	}
	tx.Version = version

	count, err := ReadVarInt(b, cursor)
	if err != nil {
		return nil, err
	}

	if count == 0 {
		flagByte, err := readUint8(b, cursor)
		if err != nil {
			return nil, err
		}
		flags := TransactionFlags(flagByte)
		if flags & ^TransactionFlags(knownTransactionFlags) != 0 {
			return nil, parseErrorf(*cursor-1, "unknown transaction flag bits 0x%02x", flagByte)
		}
		tx.Flags = flags

		count, err = ReadVarInt(b, cursor)
		if err != nil {
			return nil, err
		}
	}

	tx.TxIn = make([]*TxIn, count)
	for i := range tx.TxIn {
		txIn, err := deserializeTxIn(b, cursor)
		if err != nil {
			return nil, err
		}
		tx.TxIn[i] = txIn
	}
	if len(tx.TxIn) == 0 {
		return nil, parseErrorf(start, "transaction has no inputs")
	}

	outCount, err := ReadVarInt(b, cursor)
	if err != nil {
		return nil, err
	}
	tx.TxOut = make([]*TxOut, outCount)
	for i := range tx.TxOut {
		txOut, err := deserializeTxOut(b, cursor)
		if err != nil {
			return nil, err
		}
		tx.TxOut[i] = txOut
	}
	if len(tx.TxOut) == 0 {
		return nil, parseErrorf(start, "transaction has no outputs")
	}

	if tx.Flags.HasWitness() {
		for _, txIn := range tx.TxIn {
			stack, err := deserializeWitnessStack(b, cursor)
			if err != nil {
				return nil, err
			}
			txIn.Witness = stack
		}
	}

	lockTime, err := readUint32(b, cursor)
	if err != nil {
		return nil, err
	}
	tx.LockTime = lockTime

	return tx, nil
}

func deserializeTxIn(b []byte, cursor *int) (*TxIn, error) {
	hash, err := ReadHash(b, cursor)
	if err != nil {
		return nil, err
	}
	index, err := readUint32(b, cursor)
	if err != nil {
		return nil, err
	}
	script, err := readVarBytes(b, cursor)
	if err != nil {
		return nil, err
	}
	sequence, err := readUint32(b, cursor)
	if err != nil {
		return nil, err
	}
	return &TxIn{
		PreviousOutPoint: OutPoint{Hash: hash, Index: index},
		SignatureScript:  script,
		Sequence:         sequence,
	}, nil
}

func deserializeTxOut(b []byte, cursor *int) (*TxOut, error) {
	value, err := readUint64(b, cursor)
	if err != nil {
		return nil, err
	}
	script, err := readVarBytes(b, cursor)
	if err != nil {
		return nil, err
	}
	return &TxOut{Value: value, PkScript: script}, nil
}

func deserializeWitnessStack(b []byte, cursor *int) ([][]byte, error) {
	outerCount, err := ReadVarInt(b, cursor)
	if err != nil {
		return nil, err
	}
	stack := make([][]byte, outerCount)
	for i := range stack {
		item, err := readVarBytes(b, cursor)
		if err != nil {
			return nil, err
		}
		stack[i] = item
	}
	return stack, nil
}

// Serialize writes tx to w in the exact framing DeserializeTx expects,
// satisfying the round-trip property (§8 P1).
func (tx *MsgTx) Serialize(w io.Writer) error {
	if err := writeUint32(w, tx.Version); err != nil {
		return err
	}

	if tx.Flags != 0 {
		if err := WriteVarInt(w, 0); err != nil {
			return err
		}
		if err := writeUint8(w, uint8(tx.Flags)); err != nil {
			return err
		}
	}
	if err := WriteVarInt(w, uint64(len(tx.TxIn))); err != nil {
		return err
	}
	for _, txIn := range tx.TxIn {
		if err := serializeTxIn(w, txIn); err != nil {
			return err
		}
	}

	if err := WriteVarInt(w, uint64(len(tx.TxOut))); err != nil {
		return err
	}
	for _, txOut := range tx.TxOut {
		if err := serializeTxOut(w, txOut); err != nil {
			return err
		}
	}

	if tx.Flags.HasWitness() {
		for _, txIn := range tx.TxIn {
			if err := WriteVarInt(w, uint64(len(txIn.Witness))); err != nil {
				return err
			}
			for _, item := range txIn.Witness {
				if err := writeVarBytes(w, item); err != nil {
					return err
				}
			}
		}
	}

	return writeUint32(w, tx.LockTime)
}

func serializeTxIn(w io.Writer, txIn *TxIn) error {
	if err := WriteHash(w, txIn.PreviousOutPoint.Hash); err != nil {
		return err
	}
	if err := writeUint32(w, txIn.PreviousOutPoint.Index); err != nil {
		return err
	}
	if err := writeVarBytes(w, txIn.SignatureScript); err != nil {
		return err
	}
	return writeUint32(w, txIn.Sequence)
}

func serializeTxOut(w io.Writer, txOut *TxOut) error {
	if err := writeUint64(w, txOut.Value); err != nil {
		return err
	}
	return writeVarBytes(w, txOut.PkScript)
}

// SerializeSize returns the number of bytes tx would occupy on the wire.
func (tx *MsgTx) SerializeSize() int {
	var buf bytes.Buffer
	_ = tx.Serialize(&buf)
	return buf.Len()
}

// StripWitnessData returns a copy of tx with empty flags and no witness
// stacks, as required by the merkle computation (§3, §4.3): the in-header
// merkle root never covers witness data.
func (tx *MsgTx) StripWitnessData() *MsgTx {
	stripped := &MsgTx{
		Version:  tx.Version,
		LockTime: tx.LockTime,
		TxIn:     make([]*TxIn, len(tx.TxIn)),
		TxOut:    tx.TxOut,
	}
	for i, in := range tx.TxIn {
		stripped.TxIn[i] = &TxIn{
			PreviousOutPoint: in.PreviousOutPoint,
			SignatureScript:  in.SignatureScript,
			Sequence:         in.Sequence,
		}
	}
	return stripped
}

// IsCoinBase reports whether tx is a coinbase transaction: exactly one
// input, whose previous outpoint is the zero hash with index 0xffffffff.
func (tx *MsgTx) IsCoinBase() bool {
	if len(tx.TxIn) != 1 {
		return false
	}
	prevOut := &tx.TxIn[0].PreviousOutPoint
	return prevOut.Hash.IsZero() && prevOut.Index == 0xffffffff
}
