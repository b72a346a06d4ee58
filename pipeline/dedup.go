// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pipeline

import (
	"crypto/sha256"

	"github.com/decred/dcrd/lru"
)

// defaultDedupCapacity bounds the fingerprint set. Spec §9 leaves the
// deduplicator's unboundedness as an open question for a production
// deployment; this implementation resolves it with a bounded LRU set
// rather than letting it grow without limit.
const defaultDedupCapacity = 65536

// fingerprint identifies a block by the raw bytes it was parsed from,
// not by its block id: the in-header merkle root does not cover witness
// data and is forgeable by transaction duplication, so raw-byte
// fingerprinting is deliberately strict about duplicate relay (§4.4).
type fingerprint [sha256.Size]byte

// fingerprintOf hashes the exact byte range a block was parsed from.
func fingerprintOf(raw []byte) fingerprint {
	return sha256.Sum256(raw)
}

// dedupSet is the ingestor's bounded record of fingerprints already
// accepted, backed by an LRU cache so old entries age out instead of
// growing the set forever.
type dedupSet struct {
	cache *lru.Cache[fingerprint]
}

func newDedupSet(capacity uint) *dedupSet {
	return &dedupSet{cache: lru.NewCache[fingerprint](capacity)}
}

// Contains reports whether fp has already been seen.
func (d *dedupSet) Contains(fp fingerprint) bool {
	return d.cache.Contains(fp)
}

// Add records fp as seen.
func (d *dedupSet) Add(fp fingerprint) {
	d.cache.Add(fp)
}

// Remove undoes an Add, used on the ingestor's send-failure path (§4.4
// step 6) so a later retry is not silently dropped as a duplicate.
func (d *dedupSet) Remove(fp fingerprint) {
	d.cache.Delete(fp)
}
