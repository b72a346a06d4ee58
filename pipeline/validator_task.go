// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pipeline

import (
	"context"
	"sync"

	"github.com/blockrelay/blockparse/blockchain"
	"github.com/blockrelay/blockparse/wire"
)

// inboxCapacity generously buffers the task inboxes. Spec §5 calls for
// unbounded message queues; a large fixed buffer approximates that
// without the bookkeeping of a true unbounded queue, since this
// pipeline's sole backpressure source (the ingestor) is itself
// single-threaded and bounded by how fast it can read bytes.
const inboxCapacity = 4096

// validatorTask is the validator's own goroutine: it owns the
// blockchain.Validator exclusively and routes results to the orphanage
// (§4.4).
type validatorTask struct {
	validator *blockchain.Validator
	orphanage *orphanageTask

	inbox  chan validatorMsg
	exited chan struct{}
}

func newValidatorTask(v *blockchain.Validator, orphanage *orphanageTask) *validatorTask {
	return &validatorTask{
		validator: v,
		orphanage: orphanage,
		inbox:     make(chan validatorMsg, inboxCapacity),
		exited:    make(chan struct{}),
	}
}

// trySend enqueues msg, reporting false without blocking forever if the
// task has already exited (the send-failure path of §4.4 step 6 and the
// orphanage's NewParent handling).
func (t *validatorTask) trySend(msg validatorMsg) bool {
	select {
	case t.inbox <- msg:
		return true
	case <-t.exited:
		return false
	}
}

// Start runs the validator task's receive loop until it gets a Shutdown
// message or ctx is cancelled.
func (t *validatorTask) Start(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	defer close(t.exited)

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-t.inbox:
			if msg.kind == msgShutdown {
				return
			}
			t.handle(msg.block)
		}
	}
}

func (t *validatorTask) handle(block *wire.MsgBlock) {
	result, err := t.validator.HandleBlock(block)
	if err != nil {
		log.Warnf("validator: error handling block: %v", err)
		return
	}

	switch result.Kind {
	case blockchain.ResultValid:
		log.Infof("accepted block %s", result.Hash)
		send := func(b *wire.MsgBlock) bool {
			return t.trySend(validatorMsg{kind: msgNewBlock, block: b})
		}
		t.orphanage.trySend(orphanageMsg{
			kind:          msgNewParent,
			parentHash:    result.Hash,
			validatorSend: send,
		})

	case blockchain.ResultOrphan:
		log.Debugf("orphaned block with unknown parent %s", result.Block.Header.PrevBlock)
		t.orphanage.trySend(orphanageMsg{kind: msgNewOrphan, block: result.Block})

	case blockchain.ResultInvalid:
		log.Debugf("rejected invalid block: %s", result.Reason)
	}
}
