// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blockchain implements the validating state machine described in
// spec §4.5: a tree of recently validated blocks rooted at a committed,
// height-only archived prefix.
package blockchain

import (
	"errors"
	"fmt"
	"time"

	"github.com/blockrelay/blockparse/chaincfg/chainhash"
	"github.com/blockrelay/blockparse/wire"
)

// Tunable consensus constants (§4.5).
const (
	// MaxSupportedBlockVersion is the highest header version this
	// validator accepts.
	MaxSupportedBlockVersion = 4

	// TwoHours bounds how far into the future a block's timestamp may
	// sit relative to the validator's clock.
	TwoHours = 2 * time.Hour

	// MaxActiveHeight bounds how many hops deep the active tree is
	// allowed to grow before the validator archives its trailing edge.
	// 144 blocks is roughly one day at Bitcoin's ten-minute block time.
	MaxActiveHeight = 144

	// retargetInterval is the height modulus at which a difficulty
	// retarget would occur. Enforcement of the recomputed target is a
	// documented open question (§9) and is not performed here.
	retargetInterval = 2016
)

// ValidationResult is the outcome of handing one block to the validator
// (§3). Exactly one of its fields is meaningful, selected by Kind.
type ValidationResult struct {
	Kind   ResultKind
	Hash   chainhash.Hash
	Reason string
	Block  *wire.MsgBlock
}

// ResultKind tags the variant held by a ValidationResult.
type ResultKind int

const (
	// ResultValid means the block was accepted into the active tree;
	// Hash carries its block id.
	ResultValid ResultKind = iota
	// ResultInvalid means the block failed a validation check; Reason
	// describes which one.
	ResultInvalid
	// ResultOrphan means the block's parent is not known to the
	// validator; Block is handed back so the caller can route it to
	// the orphanage.
	ResultOrphan
)

// blockNode is one entry in the active tree: a validated block together
// with the height and parent link needed to resolve ancestry without
// rescanning the whole tree.
type blockNode struct {
	hash   chainhash.Hash
	parent chainhash.Hash
	height int32
	bits   uint32
	time   uint32
	block  *wire.MsgBlock
}

// Validator holds the active-block tree and the archived height prefix
// described in §4.5. It validates and accepts one block at a time; it
// never retries a failed check.
type Validator struct {
	network  wire.BitcoinNet
	archived map[chainhash.Hash]int32
	active   map[chainhash.Hash]*blockNode

	// archivedTip is the hash of the most recently archived block, or
	// the zero hash if nothing has been archived yet — the archive
	// root invariant (I3) is anchored here.
	archivedTip    chainhash.Hash
	archivedHeight int32
	hasArchived    bool

	// now returns the wall-clock time used for the 2-hour-future check.
	// Injectable so tests can exercise the clock-dependent path (§9).
	now func() time.Time
}

// NewValidator constructs an empty Validator for the given network. Blocks
// whose Network field does not match are rejected by the pipeline (§4.4)
// before ever reaching the validator.
func NewValidator(network wire.BitcoinNet) *Validator {
	return &Validator{
		network:  network,
		archived: make(map[chainhash.Hash]int32),
		active:   make(map[chainhash.Hash]*blockNode),
		now:      time.Now,
	}
}

// SetClock overrides the validator's wall-clock source, for tests that
// need control over the 2-hour-future check (§9 "Clock source").
func (v *Validator) SetClock(now func() time.Time) {
	v.now = now
}

// ErrClockUnavailable is surfaced as an Invalid result, never a panic, if
// the wall clock cannot be read (§7).
var ErrClockUnavailable = errors.New("blockchain: system clock unavailable")

// HandleBlock runs block through the checks in §4.5 and returns exactly
// one of Valid, Invalid, or Orphan.
func (v *Validator) HandleBlock(block *wire.MsgBlock) (ValidationResult, error) {
	id, err := block.BlockID()
	if err != nil {
		return ValidationResult{}, fmt.Errorf("blockchain: computing block id: %w", err)
	}

	if _, ok := v.archived[block.Header.PrevBlock]; ok {
		return invalid("parent is archived: branch rooted before the archive horizon"), nil
	}

	isGenesis := block.Header.PrevBlock.IsZero()

	var height int32
	var parent *blockNode
	switch {
	case v.active[block.Header.PrevBlock] != nil:
		parent = v.active[block.Header.PrevBlock]
		height = parent.height + 1
	case isGenesis:
		height = 0
	default:
		return ValidationResult{Kind: ResultOrphan, Block: block}, nil
	}

	if reason := v.validate(block, height, parent); reason != "" {
		return invalid(reason), nil
	}

	v.active[id] = &blockNode{
		hash:   id,
		parent: block.Header.PrevBlock,
		height: height,
		bits:   block.Header.Bits,
		time:   block.Header.Timestamp,
		block:  block,
	}

	if height-v.archivedHeightCount() >= MaxActiveHeight {
		v.archiveAndPrune(id)
	}

	return ValidationResult{Kind: ResultValid, Hash: id}, nil
}

func invalid(reason string) ValidationResult {
	return ValidationResult{Kind: ResultInvalid, Reason: reason}
}

// archivedHeightCount reports how many blocks have been archived so far,
// used to decide when the active tree has grown past MaxActiveHeight.
func (v *Validator) archivedHeightCount() int32 {
	if !v.hasArchived {
		return 0
	}
	return v.archivedHeight + 1
}

// validate runs the per-block checks of §4.5 in order, returning the
// first failure reason, or "" if the block passes all of them.
func (v *Validator) validate(block *wire.MsgBlock, height int32, parent *blockNode) string {
	if uint32(block.Header.Version) > MaxSupportedBlockVersion {
		return fmt.Sprintf("unsupported block version %d", block.Header.Version)
	}

	computedRoot, err := ComputeMerkleRoot(block.Transactions)
	if err != nil {
		return fmt.Sprintf("computing merkle root: %v", err)
	}
	if computedRoot != block.Header.MerkleRoot {
		return "merkle root mismatch"
	}

	nowTime := v.now()
	if nowTime.IsZero() {
		return ErrClockUnavailable.Error()
	}
	cutoff := nowTime.Add(TwoHours).Unix()
	if int64(block.Header.Timestamp) > cutoff {
		return "block timestamp too far in the future"
	}

	target, err := CompactToBig(block.Header.Bits)
	if err != nil {
		return fmt.Sprintf("decoding difficulty bits: %v", err)
	}
	id, err := block.BlockID()
	if err != nil {
		return fmt.Sprintf("computing block id: %v", err)
	}
	if !id.Less(&target) {
		return "block id does not meet difficulty target"
	}

	if height == 0 {
		return ""
	}

	if block.Header.Timestamp <= parent.time {
		return "block timestamp does not advance past parent"
	}

	if height%retargetInterval == 0 {
		// Retarget enforcement is a documented open question (§9):
		// this validator does not recompute the expected bits here.
	} else if block.Header.Bits != parent.bits {
		return "difficulty bits changed outside a retarget boundary"
	}

	return ""
}

// archiveAndPrune implements the archive-and-prune algorithm of §4.5,
// triggered once the new leaf's height exceeds the archived count by
// MaxActiveHeight. It walks MaxActiveHeight parent-links up from the new
// leaf to find the new active root, archives everything above that
// root's parent, and drops every active node whose parent chain does not
// converge on the new root (a losing branch).
func (v *Validator) archiveAndPrune(leaf chainhash.Hash) {
	log.Debugf("archiving past height %d", v.archivedHeightCount())

	node := v.active[leaf]
	activeRoot := node
	for i := 0; i < MaxActiveHeight && activeRoot != nil; i++ {
		next, ok := v.active[activeRoot.parent]
		if !ok {
			break
		}
		activeRoot = next
	}
	if activeRoot == nil {
		return
	}

	// Archive every ancestor of the new root, oldest-appended-last,
	// walking parent links until we fall off the active set.
	toArchive := activeRoot.parent
	for {
		n, ok := v.active[toArchive]
		if !ok {
			break
		}
		v.archived[toArchive] = n.height
		if !v.hasArchived || n.height > v.archivedHeight {
			v.archivedHeight = n.height
			v.archivedTip = toArchive
			v.hasArchived = true
		}
		toArchive = n.parent
	}

	newActive := make(map[chainhash.Hash]*blockNode)
	newActive[activeRoot.hash] = activeRoot
	for hash, n := range v.active {
		if hash == activeRoot.hash {
			continue
		}
		if v.convergesOn(n, activeRoot.hash) {
			newActive[hash] = n
		}
	}
	v.active = newActive
}

// convergesOn reports whether following n's parent chain reaches target
// before running off the active set.
func (v *Validator) convergesOn(n *blockNode, target chainhash.Hash) bool {
	for {
		if n.hash == target {
			return true
		}
		parent, ok := v.active[n.parent]
		if !ok {
			return n.parent == target
		}
		n = parent
	}
}

// ActiveCount reports how many blocks currently sit in the active tree.
func (v *Validator) ActiveCount() int {
	return len(v.active)
}

// ArchivedCount reports how many blocks have been archived so far.
func (v *Validator) ArchivedCount() int {
	return int(v.archivedHeightCount())
}

// IsActive reports whether hash names a block currently in the active
// tree, and if so its stored body and height.
func (v *Validator) IsActive(hash chainhash.Hash) (*wire.MsgBlock, int32, bool) {
	n, ok := v.active[hash]
	if !ok {
		return nil, 0, false
	}
	return n.block, n.height, true
}

// IsArchived reports whether hash names a block that has been archived,
// and if so its height (the body is discarded once archived, per §4.5).
func (v *Validator) IsArchived(hash chainhash.Hash) (int32, bool) {
	height, ok := v.archived[hash]
	return height, ok
}
