// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"encoding/binary"
	"fmt"
)

// ScriptError is the sum of ParseError and ValidationError described in
// spec §7: either the script bytes were malformed, or execution hit a
// disabled/reserved opcode, an empty-stack read, OP_RETURN, or a failed
// OP_VERIFY.
type ScriptError struct {
	Reason string
}

func (e *ScriptError) Error() string {
	return "script error: " + e.Reason
}

func scriptErrorf(format string, args ...interface{}) *ScriptError {
	return &ScriptError{Reason: fmt.Sprintf(format, args...)}
}

// Script is a parsed, flat sequence of opcodes. No nesting: OP_IF/OP_ELSE
// control flow is resolved at execution time by the engine, not by the
// parser (§3).
type Script []Opcode

// ParseScript decodes a raw script into its opcode sequence. It is total
// over well-formed byte streams: invalid opcode bytes (0xba-0xff) become
// Opcode{Kind: OpKindInvalid}, not a parse error. The only parse errors
// are truncated push-data length prefixes or payloads.
func ParseScript(b []byte) (Script, error) {
	var script Script

	i := 0
	for i < len(b) {
		op := b[i]
		i++

		switch {
		case op == OP_0:
			script = append(script, Opcode{Kind: OpKindPushNumber, Value: op, Num: 0})

		case op >= 0x01 && op <= 0x4b:
			n := int(op)
			if i+n > len(b) {
				return nil, scriptErrorf("truncated direct push of %d bytes at offset %d", n, i-1)
			}
			script = append(script, Opcode{Kind: OpKindPushData, Value: op, Data: b[i : i+n]})
			i += n

		case op == OP_PUSHDATA1:
			if i+1 > len(b) {
				return nil, scriptErrorf("truncated OP_PUSHDATA1 length at offset %d", i)
			}
			n := int(b[i])
			i++
			if i+n > len(b) {
				return nil, scriptErrorf("truncated OP_PUSHDATA1 payload at offset %d", i)
			}
			script = append(script, Opcode{Kind: OpKindPushData, Value: op, Data: b[i : i+n]})
			i += n

		case op == OP_PUSHDATA2:
			if i+2 > len(b) {
				return nil, scriptErrorf("truncated OP_PUSHDATA2 length at offset %d", i)
			}
			n := int(binary.LittleEndian.Uint16(b[i:]))
			i += 2
			if i+n > len(b) {
				return nil, scriptErrorf("truncated OP_PUSHDATA2 payload at offset %d", i)
			}
			script = append(script, Opcode{Kind: OpKindPushData, Value: op, Data: b[i : i+n]})
			i += n

		case op == OP_PUSHDATA4:
			if i+4 > len(b) {
				return nil, scriptErrorf("truncated OP_PUSHDATA4 length at offset %d", i)
			}
			n := int(binary.LittleEndian.Uint32(b[i:]))
			i += 4
			if i+n > len(b) {
				return nil, scriptErrorf("truncated OP_PUSHDATA4 payload at offset %d", i)
			}
			script = append(script, Opcode{Kind: OpKindPushData, Value: op, Data: b[i : i+n]})
			i += n

		case op == OP_1NEGATE:
			script = append(script, Opcode{Kind: OpKindPushNumber, Value: op, Num: -1})

		case op >= OP_1 && op <= OP_16:
			script = append(script, Opcode{Kind: OpKindPushNumber, Value: op, Num: int64(op-OP_1) + 1})

		default:
			script = append(script, Opcode{Kind: classify(op), Value: op})
		}
	}

	return script, nil
}

// Bytes reconstructs the raw script bytes that would parse back to
// script, mirroring ParseScript exactly.
func (s Script) Bytes() []byte {
	var out []byte
	for _, op := range s {
		switch op.Kind {
		case OpKindPushNumber:
			switch {
			case op.Num == -1:
				out = append(out, OP_1NEGATE)
			case op.Num == 0:
				out = append(out, OP_0)
			default:
				out = append(out, byte(op.Num-1)+OP_1)
			}
		case OpKindPushData:
			out = append(out, op.Value)
			switch op.Value {
			case OP_PUSHDATA1:
				out = append(out, byte(len(op.Data)))
			case OP_PUSHDATA2:
				var lenBuf [2]byte
				binary.LittleEndian.PutUint16(lenBuf[:], uint16(len(op.Data)))
				out = append(out, lenBuf[:]...)
			case OP_PUSHDATA4:
				var lenBuf [4]byte
				binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(op.Data)))
				out = append(out, lenBuf[:]...)
			}
			out = append(out, op.Data...)
		default:
			out = append(out, op.Value)
		}
	}
	return out
}
