// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "fmt"

// ParseError describes a structural failure to decode the consensus wire
// format: the bytes did not form the expected shape. It always carries the
// byte offset at which decoding failed (§7).
type ParseError struct {
	Offset int
	Reason string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s", e.Offset, e.Reason)
}

// parseErrorf builds a *ParseError with a formatted reason.
func parseErrorf(offset int, format string, args ...interface{}) *ParseError {
	return &ParseError{Offset: offset, Reason: fmt.Sprintf(format, args...)}
}
