// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"crypto/sha1"
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160"
)

// stack is the single data stack opcodes operate on. Items are raw byte
// strings; arithmetic opcodes interpret them as minimally-encoded
// little-endian signed integers (scriptNum).
type stack [][]byte

func (s *stack) push(v []byte) {
	*s = append(*s, v)
}

func (s *stack) pop() ([]byte, error) {
	if len(*s) == 0 {
		return nil, scriptErrorf("pop from empty stack")
	}
	v := (*s)[len(*s)-1]
	*s = (*s)[:len(*s)-1]
	return v, nil
}

func (s *stack) popInt() (int64, error) {
	v, err := s.pop()
	if err != nil {
		return 0, err
	}
	return scriptNumToInt(v)
}

func (s *stack) popBool() (bool, error) {
	v, err := s.pop()
	if err != nil {
		return false, err
	}
	return castToBool(v), nil
}

// castToBool implements the reference interpreter's truthiness rule: a
// value is false only if every byte is zero, or all bytes are zero
// except a final 0x80 (negative zero).
func castToBool(v []byte) bool {
	for i, b := range v {
		if b == 0 {
			continue
		}
		if i == len(v)-1 && b == 0x80 {
			continue
		}
		return true
	}
	return false
}

// scriptNumToInt decodes a minimally-encoded little-endian scriptNum.
func scriptNumToInt(v []byte) (int64, error) {
	if len(v) > 8 {
		return 0, scriptErrorf("scriptNum overflow: %d bytes", len(v))
	}
	if len(v) == 0 {
		return 0, nil
	}

	var result int64
	for i, b := range v {
		result |= int64(b) << uint(8*i)
	}

	if v[len(v)-1]&0x80 != 0 {
		result &^= int64(0x80) << uint(8*(len(v)-1))
		result = -result
	}
	return result, nil
}

// intToScriptNum encodes n as a minimally-encoded little-endian scriptNum.
func intToScriptNum(n int64) []byte {
	if n == 0 {
		return nil
	}

	negative := n < 0
	abs := n
	if negative {
		abs = -n
	}

	var out []byte
	for abs > 0 {
		out = append(out, byte(abs&0xff))
		abs >>= 8
	}

	if out[len(out)-1]&0x80 != 0 {
		if negative {
			out = append(out, 0x80)
		} else {
			out = append(out, 0x00)
		}
	} else if negative {
		out[len(out)-1] |= 0x80
	}
	return out
}

// condState tracks OP_IF/OP_NOTIF/OP_ELSE/OP_ENDIF nesting.
type condState struct {
	// executing is true when the current branch should run its opcodes.
	executing bool
	// seenElse guards against a second OP_ELSE in the same OP_IF.
	seenElse bool
}

// engine runs a single shared stack across an unlock script followed by
// a lock script, per spec §6's verify(lock, unlock) contract.
type engine struct {
	stack stack
	cond  []condState
}

// executing reports whether the current position is inside a taken
// branch (true if there is no open OP_IF/OP_NOTIF at all).
func (e *engine) executing() bool {
	for _, c := range e.cond {
		if !c.executing {
			return false
		}
	}
	return true
}

// Verify runs unlock then lock on a shared stack (§6). It executes
// push/number, control-flow and hashing opcodes, and most stack and
// arithmetic opcodes. OP_TOALTSTACK, OP_FROMALTSTACK, OP_3DUP, OP_2OVER,
// OP_2ROT, OP_2SWAP, OP_IFDUP, OP_PICK, OP_ROLL, OP_ROT and
// OP_NUMEQUALVERIFY are not executed: reaching one returns a ScriptError.
// Signature-check and timelock opcodes are classified by ParseScript but
// are not executable here — this package has no UTXO set or ECDSA
// verification (non-goals) to check them against — so encountering one
// at runtime is reported as a ScriptError rather than silently treated
// as a no-op (§9 "Script execution").
func Verify(lock, unlock Script) (bool, error) {
	e := &engine{}

	for _, op := range unlock {
		if err := e.step(op); err != nil {
			return false, err
		}
	}
	for _, op := range lock {
		if err := e.step(op); err != nil {
			return false, err
		}
	}

	if len(e.cond) != 0 {
		return false, scriptErrorf("unbalanced OP_IF/OP_ENDIF")
	}
	if len(e.stack) == 0 {
		return false, scriptErrorf("script left an empty stack")
	}
	return castToBool(e.stack[len(e.stack)-1]), nil
}

func (e *engine) step(op Opcode) error {
	// Control-flow opcodes must be tracked even inside a skipped branch
	// so nesting stays balanced; everything else is skipped outright.
	if !e.executing() && op.Kind != OpKindControlFlow {
		return nil
	}

	switch op.Kind {
	case OpKindPushData:
		e.stack.push(op.Data)
		return nil

	case OpKindPushNumber:
		e.stack.push(intToScriptNum(op.Num))
		return nil

	case OpKindReserved, OpKindDisabled:
		return scriptErrorf("%s opcode 0x%02x is not executable", op.Kind, op.Value)

	case OpKindNop:
		return nil

	case OpKindControlFlow:
		return e.stepControlFlow(op)

	case OpKindStack:
		return e.stepStack(op)

	case OpKindArithmetic:
		return e.stepArithmetic(op)

	case OpKindHashing:
		return e.stepHashing(op)

	case OpKindSigCheck, OpKindTimelock:
		return scriptErrorf("%s opcode 0x%02x requires chain context this engine does not have", op.Kind, op.Value)

	default:
		return scriptErrorf("invalid opcode 0x%02x", op.Value)
	}
}

func (e *engine) stepControlFlow(op Opcode) error {
	switch op.Value {
	case OP_IF, OP_NOTIF:
		var taken bool
		if e.executing() {
			v, err := e.stack.popBool()
			if err != nil {
				return err
			}
			taken = v
			if op.Value == OP_NOTIF {
				taken = !taken
			}
		}
		e.cond = append(e.cond, condState{executing: taken})
		return nil

	case OP_ELSE:
		if len(e.cond) == 0 {
			return scriptErrorf("OP_ELSE without matching OP_IF")
		}
		top := &e.cond[len(e.cond)-1]
		if top.seenElse {
			return scriptErrorf("duplicate OP_ELSE")
		}
		top.seenElse = true
		top.executing = !top.executing
		return nil

	case OP_ENDIF:
		if len(e.cond) == 0 {
			return scriptErrorf("OP_ENDIF without matching OP_IF")
		}
		e.cond = e.cond[:len(e.cond)-1]
		return nil

	case OP_VERIFY:
		v, err := e.stack.popBool()
		if err != nil {
			return err
		}
		if !v {
			return scriptErrorf("OP_VERIFY failed")
		}
		return nil

	case OP_RETURN:
		return scriptErrorf("OP_RETURN")

	default:
		return scriptErrorf("unhandled control-flow opcode 0x%02x", op.Value)
	}
}

func (e *engine) stepStack(op Opcode) error {
	switch op.Value {
	case OP_DUP:
		v, err := e.stack.pop()
		if err != nil {
			return err
		}
		e.stack.push(v)
		e.stack.push(v)
		return nil

	case OP_DROP:
		_, err := e.stack.pop()
		return err

	case OP_SWAP:
		b, err := e.stack.pop()
		if err != nil {
			return err
		}
		a, err := e.stack.pop()
		if err != nil {
			return err
		}
		e.stack.push(b)
		e.stack.push(a)
		return nil

	case OP_OVER:
		if len(e.stack) < 2 {
			return scriptErrorf("OP_OVER on a stack shorter than 2")
		}
		v := e.stack[len(e.stack)-2]
		e.stack.push(v)
		return nil

	case OP_NIP:
		b, err := e.stack.pop()
		if err != nil {
			return err
		}
		if _, err := e.stack.pop(); err != nil {
			return err
		}
		e.stack.push(b)
		return nil

	case OP_TUCK:
		b, err := e.stack.pop()
		if err != nil {
			return err
		}
		a, err := e.stack.pop()
		if err != nil {
			return err
		}
		e.stack.push(b)
		e.stack.push(a)
		e.stack.push(b)
		return nil

	case OP_DEPTH:
		e.stack.push(intToScriptNum(int64(len(e.stack))))
		return nil

	case OP_2DROP:
		if _, err := e.stack.pop(); err != nil {
			return err
		}
		_, err := e.stack.pop()
		return err

	case OP_2DUP:
		if len(e.stack) < 2 {
			return scriptErrorf("OP_2DUP on a stack shorter than 2")
		}
		a, b := e.stack[len(e.stack)-2], e.stack[len(e.stack)-1]
		e.stack.push(a)
		e.stack.push(b)
		return nil

	default:
		return scriptErrorf("stack opcode 0x%02x not implemented", op.Value)
	}
}

func (e *engine) stepArithmetic(op Opcode) error {
	switch op.Value {
	case OP_1ADD, OP_1SUB, OP_NEGATE, OP_ABS, OP_NOT, OP_0NOTEQUAL:
		n, err := e.stack.popInt()
		if err != nil {
			return err
		}
		var result int64
		switch op.Value {
		case OP_1ADD:
			result = n + 1
		case OP_1SUB:
			result = n - 1
		case OP_NEGATE:
			result = -n
		case OP_ABS:
			if n < 0 {
				result = -n
			} else {
				result = n
			}
		case OP_NOT:
			if n == 0 {
				result = 1
			}
		case OP_0NOTEQUAL:
			if n != 0 {
				result = 1
			}
		}
		e.stack.push(intToScriptNum(result))
		return nil

	case OP_ADD, OP_SUB, OP_BOOLAND, OP_BOOLOR, OP_NUMEQUAL, OP_NUMNOTEQUAL,
		OP_LESSTHAN, OP_GREATERTHAN, OP_LESSTHANOREQUAL, OP_GREATERTHANOREQUAL,
		OP_MIN, OP_MAX:
		b, err := e.stack.popInt()
		if err != nil {
			return err
		}
		a, err := e.stack.popInt()
		if err != nil {
			return err
		}
		var result int64
		switch op.Value {
		case OP_ADD:
			result = a + b
		case OP_SUB:
			result = a - b
		case OP_BOOLAND:
			result = boolToInt(a != 0 && b != 0)
		case OP_BOOLOR:
			result = boolToInt(a != 0 || b != 0)
		case OP_NUMEQUAL:
			result = boolToInt(a == b)
		case OP_NUMNOTEQUAL:
			result = boolToInt(a != b)
		case OP_LESSTHAN:
			result = boolToInt(a < b)
		case OP_GREATERTHAN:
			result = boolToInt(a > b)
		case OP_LESSTHANOREQUAL:
			result = boolToInt(a <= b)
		case OP_GREATERTHANOREQUAL:
			result = boolToInt(a >= b)
		case OP_MIN:
			if a < b {
				result = a
			} else {
				result = b
			}
		case OP_MAX:
			if a > b {
				result = a
			} else {
				result = b
			}
		}
		e.stack.push(intToScriptNum(result))
		return nil

	case OP_WITHIN:
		max, err := e.stack.popInt()
		if err != nil {
			return err
		}
		min, err := e.stack.popInt()
		if err != nil {
			return err
		}
		x, err := e.stack.popInt()
		if err != nil {
			return err
		}
		e.stack.push(intToScriptNum(boolToInt(x >= min && x < max)))
		return nil

	case OP_EQUAL, OP_EQUALVERIFY:
		b, err := e.stack.pop()
		if err != nil {
			return err
		}
		a, err := e.stack.pop()
		if err != nil {
			return err
		}
		equal := bytes.Equal(a, b)
		if op.Value == OP_EQUALVERIFY {
			if !equal {
				return scriptErrorf("OP_EQUALVERIFY failed")
			}
			return nil
		}
		e.stack.push(intToScriptNum(boolToInt(equal)))
		return nil

	case OP_SIZE:
		if len(e.stack) == 0 {
			return scriptErrorf("OP_SIZE on an empty stack")
		}
		e.stack.push(intToScriptNum(int64(len(e.stack[len(e.stack)-1]))))
		return nil

	default:
		return scriptErrorf("arithmetic opcode 0x%02x not implemented", op.Value)
	}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func (e *engine) stepHashing(op Opcode) error {
	v, err := e.stack.pop()
	if err != nil {
		return err
	}

	switch op.Value {
	case OP_RIPEMD160:
		e.stack.push(ripemd160Sum(v))
	case OP_SHA1:
		sum := sha1.Sum(v)
		e.stack.push(sum[:])
	case OP_SHA256:
		sum := sha256.Sum256(v)
		e.stack.push(sum[:])
	case OP_HASH160:
		sum := sha256.Sum256(v)
		e.stack.push(ripemd160Sum(sum[:]))
	case OP_HASH256:
		first := sha256.Sum256(v)
		second := sha256.Sum256(first[:])
		e.stack.push(second[:])
	default:
		return scriptErrorf("hashing opcode 0x%02x not implemented", op.Value)
	}
	return nil
}

func ripemd160Sum(v []byte) []byte {
	h := ripemd160.New()
	h.Write(v)
	return h.Sum(nil)
}
