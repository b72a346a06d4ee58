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

// Config tunes the pipeline's resource bounds. Zero values fall back to
// the spec's documented defaults.
type Config struct {
	Network wire.BitcoinNet

	// OrphanCapacity bounds the orphanage's FIFO queue. Default 128.
	OrphanCapacity int

	// DedupCapacity bounds the ingestor's fingerprint set. Default
	// 65536 (§9 "Dedup unboundedness").
	DedupCapacity uint
}

// Pipeline is the concurrent assembly of §4.4: a caller-driven ingestor
// backed by a validator task and an orphanage task, each running on its
// own goroutine with exclusive ownership of its state.
type Pipeline struct {
	network wire.BitcoinNet
	dedup   *dedupSet

	validator *validatorTask
	orphanage *orphanageTask

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New spawns a pipeline's worker goroutines for the given network and
// returns a handle to it.
func New(cfg Config) *Pipeline {
	if cfg.OrphanCapacity == 0 {
		cfg.OrphanCapacity = defaultOrphanCapacity
	}
	if cfg.DedupCapacity == 0 {
		cfg.DedupCapacity = defaultDedupCapacity
	}

	ctx, cancel := context.WithCancel(context.Background())

	orphanage := newOrphanageTask(cfg.OrphanCapacity)
	validator := newValidatorTask(blockchain.NewValidator(cfg.Network), orphanage)

	p := &Pipeline{
		network:   cfg.Network,
		dedup:     newDedupSet(cfg.DedupCapacity),
		validator: validator,
		orphanage: orphanage,
		cancel:    cancel,
	}

	p.wg.Add(2)
	go validator.Start(ctx, &p.wg)
	go orphanage.Start(ctx, &p.wg)

	return p
}

// Ingest feeds raw bytes containing zero or more concatenated blocks
// through deserialization, network filtering, and deduplication,
// dispatching accepted blocks to the validator (§4.4). It returns the
// byte offset at which ingestion stopped: equal to len(b) on full
// success, or the start of the first block that failed to parse or
// could not be handed off because the validator has shut down.
func (p *Pipeline) Ingest(b []byte) int {
	cursor := 0
	for cursor < len(b) {
		lastGood := cursor

		block, err := wire.DeserializeBlock(b, &cursor)
		if err != nil {
			log.Debugf("ingest: stopping at offset %d: %v", lastGood, err)
			return lastGood
		}

		if block.Network != p.network {
			log.Debugf("ingest: dropping block for network %s, configured for %s", block.Network, p.network)
			continue
		}

		fp := fingerprintOf(b[lastGood:cursor])
		if p.dedup.Contains(fp) {
			log.Debugf("ingest: dropping duplicate block at offset %d", lastGood)
			continue
		}
		p.dedup.Add(fp)

		if !p.validator.trySend(validatorMsg{kind: msgNewBlock, block: block}) {
			p.dedup.Remove(fp)
			return lastGood
		}
	}
	return cursor
}

// Shutdown performs the orderly shutdown sequence of §4.4/§5: the
// validator is told to stop first so that any orphan promotions already
// in flight cannot target a task that no longer exists, then the
// orphanage, then both goroutines are joined.
func (p *Pipeline) Shutdown() {
	p.validator.inbox <- validatorMsg{kind: msgShutdown}
	p.orphanage.inbox <- orphanageMsg{kind: msgOrphanageShutdown}
	p.wg.Wait()
	p.cancel()
}

// ActiveCount reports how many blocks sit in the validator's active
// tree. Exposed for tests and monitoring.
func (p *Pipeline) ActiveCount() int {
	return p.validator.validator.ActiveCount()
}

// ArchivedCount reports how many blocks the validator has archived.
func (p *Pipeline) ArchivedCount() int {
	return p.validator.validator.ArchivedCount()
}

// OrphanCount reports how many blocks currently sit in the orphanage.
// Exposed for tests only — it reads orphanage state from outside that
// task's own goroutine, so callers must only use it once Shutdown has
// returned or in single-goroutine tests that own the pipeline alone.
func (p *Pipeline) OrphanCount() int {
	return len(p.orphanage.queue)
}
