// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pipeline

import (
	"context"
	"sync"

	"github.com/blockrelay/blockparse/chaincfg/chainhash"
	"github.com/blockrelay/blockparse/wire"
)

// defaultOrphanCapacity is the default bound on the orphanage (§4.4).
const defaultOrphanCapacity = 128

// orphanageTask is the orphanage's own goroutine: it owns a bounded FIFO
// queue of parent-less blocks exclusively.
type orphanageTask struct {
	capacity int
	queue    []*wire.MsgBlock

	inbox  chan orphanageMsg
	exited chan struct{}
}

func newOrphanageTask(capacity int) *orphanageTask {
	return &orphanageTask{
		capacity: capacity,
		inbox:    make(chan orphanageMsg, inboxCapacity),
		exited:   make(chan struct{}),
	}
}

// trySend enqueues msg, reporting false without blocking forever if the
// task has already exited.
func (t *orphanageTask) trySend(msg orphanageMsg) bool {
	select {
	case t.inbox <- msg:
		return true
	case <-t.exited:
		return false
	}
}

// Start runs the orphanage task's receive loop until it gets a Shutdown
// message or ctx is cancelled. Shutdown is always sent after the
// validator's, so any orphans still queued when the loop exits are
// simply left in t.queue (§5: "retained in the orphanage, not lost").
func (t *orphanageTask) Start(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	defer close(t.exited)

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-t.inbox:
			switch msg.kind {
			case msgOrphanageShutdown:
				return
			case msgNewOrphan:
				t.insert(msg.block)
			case msgNewParent:
				t.promote(msg.parentHash, msg.validatorSend)
			}
		}
	}
}

// insert adds block to the queue, evicting the oldest entry first if the
// orphanage is already at capacity (§4.4).
func (t *orphanageTask) insert(block *wire.MsgBlock) {
	if len(t.queue) >= t.capacity {
		evicted := t.queue[0]
		t.queue = t.queue[1:]
		log.Warnf("orphanage: at capacity %d, evicting oldest orphan %s", t.capacity, evicted.Header.PrevBlock)
	}
	t.queue = append(t.queue, block)
}

// promote scans the queue for every orphan whose previous-block-hash is
// parent, handing each to the validator via send and removing it from
// the queue. If send reports failure (the validator has shut down), the
// scan stops immediately and every remaining orphan — matched or not —
// is retained (§4.4).
func (t *orphanageTask) promote(parent chainhash.Hash, send func(*wire.MsgBlock) bool) {
	kept := t.queue[:0:0]
	for i, orphan := range t.queue {
		if orphan.Header.PrevBlock != parent {
			kept = append(kept, orphan)
			continue
		}
		if !send(orphan) {
			kept = append(kept, t.queue[i:]...)
			t.queue = kept
			return
		}
	}
	t.queue = kept
}
