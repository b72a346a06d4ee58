// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "io"

// Compact-size prefix markers (§4.1).
const (
	varIntPrefix16 = 0xfd
	varIntPrefix32 = 0xfe
	varIntPrefix64 = 0xff

	// maxVarIntSingleByte is the largest value that is encoded directly
	// as a single byte rather than with a prefix marker.
	maxVarIntSingleByte = 0xfc
)

// ReadVarInt reads a variable length integer from b starting at *cursor and
// returns it as a uint64, advancing *cursor past the bytes consumed.
func ReadVarInt(b []byte, cursor *int) (uint64, error) {
	discriminant, err := readUint8(b, cursor)
	if err != nil {
		return 0, err
	}

	switch discriminant {
	case varIntPrefix64:
		v, err := readUint64(b, cursor)
		if err != nil {
			return 0, err
		}
		return v, nil

	case varIntPrefix32:
		v, err := readUint32(b, cursor)
		if err != nil {
			return 0, err
		}
		return uint64(v), nil

	case varIntPrefix16:
		v, err := readUint16(b, cursor)
		if err != nil {
			return 0, err
		}
		return uint64(v), nil

	default:
		return uint64(discriminant), nil
	}
}

// WriteVarInt writes val to w using the shortest compact-size form that
// represents it exactly (§4.1).
func WriteVarInt(w io.Writer, val uint64) error {
	switch {
	case val <= maxVarIntSingleByte:
		return writeUint8(w, uint8(val))

	case val <= 0xffff:
		if err := writeUint8(w, varIntPrefix16); err != nil {
			return err
		}
		return writeUint16(w, uint16(val))

	case val <= 0xffffffff:
		if err := writeUint8(w, varIntPrefix32); err != nil {
			return err
		}
		return writeUint32(w, uint32(val))

	default:
		if err := writeUint8(w, varIntPrefix64); err != nil {
			return err
		}
		return writeUint64(w, val)
	}
}

// VarIntSerializeSize returns the number of bytes it would take to
// serialize val as a compact-size integer.
func VarIntSerializeSize(val uint64) int {
	switch {
	case val <= maxVarIntSingleByte:
		return 1
	case val <= 0xffff:
		return 3
	case val <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// readVarBytes reads a compact-size length prefix followed by that many
// raw bytes.
func readVarBytes(b []byte, cursor *int) ([]byte, error) {
	n, err := ReadVarInt(b, cursor)
	if err != nil {
		return nil, err
	}
	return readBytes(b, cursor, int(n))
}

// writeVarBytes writes a compact-size length prefix followed by data.
func writeVarBytes(w io.Writer, data []byte) error {
	if err := WriteVarInt(w, uint64(len(data))); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}
