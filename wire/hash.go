// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"

	"github.com/blockrelay/blockparse/chaincfg/chainhash"
)

// Serializable is anything the codec can turn into bytes. HashOf computes
// the double-SHA-256 identity hash (§4.2) over any such value without each
// caller re-implementing the reverse-after-double-hash dance.
type Serializable interface {
	Serialize(w io.Writer) error
}

// HashOf returns reverse(sha256(sha256(serialize(v)))), the identity hash
// used for both block ids and (pre-strip) transaction ids.
func HashOf(v Serializable) (chainhash.Hash, error) {
	var buf bytes.Buffer
	if err := v.Serialize(&buf); err != nil {
		return chainhash.Hash{}, err
	}
	return chainhash.DoubleHashH(buf.Bytes()).Reverse(), nil
}
