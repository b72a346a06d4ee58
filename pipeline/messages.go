// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package pipeline wires the codec and validator into the concurrent
// ingestion pipeline described in spec §4.4: an ingestor (the caller's
// own thread), a validator task, and an orphanage task, connected by
// message-passing channels with no shared mutable state between them.
package pipeline

import (
	"github.com/blockrelay/blockparse/chaincfg/chainhash"
	"github.com/blockrelay/blockparse/wire"
)

// validatorMsg is the message set accepted by the validator task's
// inbox (§4.4).
type validatorMsg struct {
	kind  validatorMsgKind
	block *wire.MsgBlock
}

type validatorMsgKind int

const (
	msgNewBlock validatorMsgKind = iota
	msgShutdown
)

// orphanageMsg is the message set accepted by the orphanage task's
// inbox (§4.4).
type orphanageMsg struct {
	kind          orphanageMsgKind
	block         *wire.MsgBlock
	parentHash    chainhash.Hash
	validatorSend func(*wire.MsgBlock) bool
}

type orphanageMsgKind int

const (
	msgNewOrphan orphanageMsgKind = iota
	msgNewParent
	msgOrphanageShutdown
)
