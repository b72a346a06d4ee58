// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package txscript classifies and executes the subset of the bitcoin
// script language described in spec §3/§6: opcode taxonomy, parsing,
// and a stack machine. The machine does not execute signature checks or
// the timelock opcodes, which require chain context this package
// deliberately does not have (§9 "Script execution"), nor a few stack
// opcodes and OP_NUMEQUALVERIFY (see Verify); all of these return a
// ScriptError when reached.
package txscript

// OpcodeKind groups every one of the 256 possible opcode bytes into the
// families described in spec §3. It is a closed set: treat it as a tag,
// never extend it with inheritance.
type OpcodeKind int

const (
	// OpKindPushData covers direct pushes (0x01-0x4b) and the three
	// length-prefixed pushes OP_PUSHDATA1/2/4.
	OpKindPushData OpcodeKind = iota
	// OpKindPushNumber covers OP_0, OP_1NEGATE, and OP_1..OP_16.
	OpKindPushNumber
	OpKindReserved
	OpKindNop
	OpKindDisabled
	OpKindControlFlow
	OpKindStack
	OpKindArithmetic
	OpKindHashing
	OpKindSigCheck
	OpKindTimelock
	// OpKindInvalid covers the unassigned byte range 0xba-0xff.
	OpKindInvalid
)

func (k OpcodeKind) String() string {
	switch k {
	case OpKindPushData:
		return "push-data"
	case OpKindPushNumber:
		return "push-number"
	case OpKindReserved:
		return "reserved"
	case OpKindNop:
		return "nop"
	case OpKindDisabled:
		return "disabled"
	case OpKindControlFlow:
		return "control-flow"
	case OpKindStack:
		return "stack"
	case OpKindArithmetic:
		return "arithmetic"
	case OpKindHashing:
		return "hashing"
	case OpKindSigCheck:
		return "sig-check"
	case OpKindTimelock:
		return "timelock"
	default:
		return "invalid"
	}
}

// Well-known opcode byte values, named as in the reference script
// interpreter.
const (
	OP_0         = 0x00
	OP_PUSHDATA1 = 0x4c
	OP_PUSHDATA2 = 0x4d
	OP_PUSHDATA4 = 0x4e
	OP_1NEGATE   = 0x4f
	OP_RESERVED  = 0x50
	OP_1         = 0x51
	OP_16        = 0x60
	OP_NOP       = 0x61
	OP_VER       = 0x62
	OP_IF        = 0x63
	OP_NOTIF     = 0x64
	OP_VERIF     = 0x65
	OP_VERNOTIF  = 0x66
	OP_ELSE      = 0x67
	OP_ENDIF     = 0x68
	OP_VERIFY    = 0x69
	OP_RETURN    = 0x6a

	OP_TOALTSTACK   = 0x6b
	OP_FROMALTSTACK = 0x6c
	OP_2DROP        = 0x6d
	OP_2DUP         = 0x6e
	OP_3DUP         = 0x6f
	OP_2OVER        = 0x70
	OP_2ROT         = 0x71
	OP_2SWAP        = 0x72
	OP_IFDUP        = 0x73
	OP_DEPTH        = 0x74
	OP_DROP         = 0x75
	OP_DUP          = 0x76
	OP_NIP          = 0x77
	OP_OVER         = 0x78
	OP_PICK         = 0x79
	OP_ROLL         = 0x7a
	OP_ROT          = 0x7b
	OP_SWAP         = 0x7c
	OP_TUCK         = 0x7d

	OP_CAT    = 0x7e // disabled
	OP_SUBSTR = 0x7f // disabled
	OP_LEFT   = 0x80 // disabled
	OP_RIGHT  = 0x81 // disabled
	OP_SIZE   = 0x82
	OP_INVERT = 0x83 // disabled
	OP_AND    = 0x84 // disabled
	OP_OR     = 0x85 // disabled
	OP_XOR    = 0x86 // disabled

	OP_EQUAL       = 0x87
	OP_EQUALVERIFY = 0x88
	OP_RESERVED1   = 0x89
	OP_RESERVED2   = 0x8a

	OP_1ADD               = 0x8b
	OP_1SUB               = 0x8c
	OP_2MUL               = 0x8d // disabled
	OP_2DIV               = 0x8e // disabled
	OP_NEGATE             = 0x8f
	OP_ABS                = 0x90
	OP_NOT                = 0x91
	OP_0NOTEQUAL          = 0x92
	OP_ADD                = 0x93
	OP_SUB                = 0x94
	OP_MUL                = 0x95 // disabled
	OP_DIV                = 0x96 // disabled
	OP_MOD                = 0x97 // disabled
	OP_LSHIFT             = 0x98 // disabled
	OP_RSHIFT             = 0x99 // disabled
	OP_BOOLAND            = 0x9a
	OP_BOOLOR             = 0x9b
	OP_NUMEQUAL           = 0x9c
	OP_NUMEQUALVERIFY     = 0x9d
	OP_NUMNOTEQUAL        = 0x9e
	OP_LESSTHAN           = 0x9f
	OP_GREATERTHAN        = 0xa0
	OP_LESSTHANOREQUAL    = 0xa1
	OP_GREATERTHANOREQUAL = 0xa2
	OP_MIN                = 0xa3
	OP_MAX                = 0xa4
	OP_WITHIN             = 0xa5

	OP_RIPEMD160           = 0xa6
	OP_SHA1                = 0xa7
	OP_SHA256              = 0xa8
	OP_HASH160             = 0xa9
	OP_HASH256             = 0xaa
	OP_CODESEPARATOR       = 0xab
	OP_CHECKSIG            = 0xac
	OP_CHECKSIGVERIFY      = 0xad
	OP_CHECKMULTISIG       = 0xae
	OP_CHECKMULTISIGVERIFY = 0xaf

	OP_NOP1                = 0xb0
	OP_CHECKLOCKTIMEVERIFY = 0xb1
	OP_CHECKSEQUENCEVERIFY = 0xb2
	OP_NOP4                = 0xb3
	OP_NOP5                = 0xb4
	OP_NOP6                = 0xb5
	OP_NOP7                = 0xb6
	OP_NOP8                = 0xb7
	OP_NOP9                = 0xb8
	OP_NOP10               = 0xb9
)

// Opcode is a single parsed script element: the tag-plus-payload
// representation spec §9 calls for in place of a sum-type hierarchy.
type Opcode struct {
	Kind  OpcodeKind
	Value byte
	// Data holds the pushed bytes when Kind is OpKindPushData.
	Data []byte
	// Num holds the decoded value when Kind is OpKindPushNumber:
	// -1 for OP_1NEGATE, 0 for OP_0, 1..16 for OP_1..OP_16.
	Num int64
}

// isDisabled reports whether b is one of the opcodes the reference
// interpreter refuses to execute under any circumstance.
func isDisabled(b byte) bool {
	switch b {
	case OP_CAT, OP_SUBSTR, OP_LEFT, OP_RIGHT, OP_INVERT, OP_AND, OP_OR, OP_XOR,
		OP_2MUL, OP_2DIV, OP_MUL, OP_DIV, OP_MOD, OP_LSHIFT, OP_RSHIFT:
		return true
	default:
		return false
	}
}

// classify returns the OpcodeKind for a bare opcode byte that carries no
// push payload (i.e. everything outside the push-data range).
func classify(b byte) OpcodeKind {
	switch {
	case b == OP_1NEGATE || (b >= OP_1 && b <= OP_16):
		return OpKindPushNumber
	case b == OP_RESERVED || b == OP_VER || b == OP_VERIF || b == OP_VERNOTIF ||
		b == OP_RESERVED1 || b == OP_RESERVED2:
		return OpKindReserved
	case isDisabled(b):
		return OpKindDisabled
	case b == OP_IF || b == OP_NOTIF || b == OP_ELSE || b == OP_ENDIF ||
		b == OP_VERIFY || b == OP_RETURN:
		return OpKindControlFlow
	case b >= OP_TOALTSTACK && b <= OP_TUCK:
		return OpKindStack
	case b == OP_SIZE || b == OP_EQUAL || b == OP_EQUALVERIFY ||
		(b >= OP_1ADD && b <= OP_WITHIN):
		return OpKindArithmetic
	case b >= OP_RIPEMD160 && b <= OP_HASH256:
		return OpKindHashing
	case b == OP_CHECKSIG || b == OP_CHECKSIGVERIFY ||
		b == OP_CHECKMULTISIG || b == OP_CHECKMULTISIGVERIFY:
		return OpKindSigCheck
	case b == OP_CHECKLOCKTIMEVERIFY || b == OP_CHECKSEQUENCEVERIFY:
		return OpKindTimelock
	case b == OP_NOP || b == OP_CODESEPARATOR || b == OP_NOP1 ||
		(b >= OP_NOP4 && b <= OP_NOP10):
		return OpKindNop
	case b >= 0xba:
		return OpKindInvalid
	default:
		return OpKindInvalid
	}
}
