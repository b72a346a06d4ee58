// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "fmt"

// BitcoinNet represents which bitcoin network a block was produced on. It
// is encoded on the wire as the 4-byte magic preamble in front of every
// framed block (§4.1, §6).
type BitcoinNet uint32

// Constants used to indicate the message bitcoin network. They can also be
// used to seek to the next block when a stream's state is unknown, but this
// package does not provide that functionality since malformed input is
// reported precisely instead (§7).
const (
	// MainNet represents the main bitcoin network.
	MainNet BitcoinNet = 0xd9b4bef9

	// TestNet3 represents the test network (version 3).
	TestNet3 BitcoinNet = 0x0709110b

	// RegTest represents the regression test network.
	RegTest BitcoinNet = 0xdab5bffa
)

// bnStrings is a map of bitcoin networks back to their constant names for
// pretty printing.
var bnStrings = map[BitcoinNet]string{
	MainNet:  "MainNet",
	TestNet3: "TestNet3",
	RegTest:  "RegTest",
}

// String returns the BitcoinNet in human-readable form.
func (n BitcoinNet) String() string {
	if s, ok := bnStrings[n]; ok {
		return s
	}
	return fmt.Sprintf("Unknown BitcoinNet (0x%08x)", uint32(n))
}

// IsKnown reports whether n is one of the three recognized networks. An
// unrecognized magic is a ParseError, not a silently-accepted value (§7).
func (n BitcoinNet) IsKnown() bool {
	_, ok := bnStrings[n]
	return ok
}
