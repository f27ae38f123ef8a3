package wasmbin

import (
	"errors"
	"io"
)

// ErrOverflow is returned when a varint exceeds its maximum bit width.
var ErrOverflow = errors.New("wasmbin: leb128 overflow")

// AppendUint32 appends v as an unsigned LEB128 varint.
func AppendUint32(dst []byte, v uint32) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		dst = append(dst, b)
		if v == 0 {
			return dst
		}
	}
}

// ReadUint32 reads an unsigned LEB128 varint of at most 32 bits.
func ReadUint32(r io.ByteReader) (uint32, error) {
	var result uint32
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
		if shift >= 35 {
			return 0, ErrOverflow
		}
	}
}
