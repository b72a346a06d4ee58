// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"bytes"
	"io"

	"github.com/blockrelay/blockparse/chaincfg/chainhash"
	"github.com/blockrelay/blockparse/wire"
)

// HashMerkleBranches takes two hashes, treated as the left and right tree
// nodes, and returns the hash of their concatenation. This is the pairwise
// combiner used at every level of the merkle tree.
func HashMerkleBranches(left, right *chainhash.Hash) chainhash.Hash {
	var buf [chainhash.HashSize * 2]byte
	copy(buf[:chainhash.HashSize], left[:])
	copy(buf[chainhash.HashSize:], right[:])

	return chainhash.DoubleHashRaw(func(w io.Writer) error {
		_, err := w.Write(buf[:])
		return err
	})
}

// ComputeMerkleRoot computes the block's merkle root from its transactions
// per §4.3, reproducing the classic Satoshi coinbase-duplication behavior
// rather than a corrected even-count scheme:
//
//  1. Each transaction is stripped of its witness data and hashed with
//     double-SHA-256; the raw digests are the leaves.
//  2. If there is exactly one leaf, the root is that leaf byte-reversed —
//     there is nothing to combine.
//  3. Otherwise leaves are padded to an even count by duplicating the last
//     one, then combined pairwise, left to right, with no reversal between
//     levels, repeating — re-padding with a duplicate of the last hash
//     whenever a level's result is odd and longer than one element — until
//     a single hash remains.
//  4. That hash is byte-reversed and returned: the same form HashOf gives
//     a transaction or block id, and the form BlockHeader.MerkleRoot holds.
//
// An empty transaction list returns the zero hash.
func ComputeMerkleRoot(transactions []*wire.MsgTx) (chainhash.Hash, error) {
	if len(transactions) == 0 {
		return chainhash.Hash{}, nil
	}

	leaves := make([]chainhash.Hash, len(transactions))
	for i, tx := range transactions {
		var buf bytes.Buffer
		if err := tx.StripWitnessData().Serialize(&buf); err != nil {
			return chainhash.Hash{}, err
		}
		leaves[i] = chainhash.HashH(buf.Bytes())
	}

	if len(leaves) == 1 {
		return leaves[0].Reverse(), nil
	}

	level := leaves
	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}
		next := make([]chainhash.Hash, 0, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			next = append(next, HashMerkleBranches(&level[i], &level[i+1]))
		}
		level = next
	}

	return level[0].Reverse(), nil
}
