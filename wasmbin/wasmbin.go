// Package wasmbin reads and writes the parts of the core WebAssembly binary
// format the engine tooling needs: section walking, type-section decoding,
// and a small builder for synthesizing modules.
//
// It is deliberately not a validator; feeding its output to the engine still
// goes through full validation.
package wasmbin

import (
	"fmt"

	"github.com/shuuji3/wasmer/types"
)

// Magic and version prefix of every core wasm module.
var Magic = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

// Section IDs.
const (
	SectionCustom   byte = 0
	SectionType     byte = 1
	SectionImport   byte = 2
	SectionFunction byte = 3
	SectionTable    byte = 4
	SectionMemory   byte = 5
	SectionGlobal   byte = 6
	SectionExport   byte = 7
	SectionStart    byte = 8
	SectionElement  byte = 9
	SectionCode     byte = 10
	SectionData     byte = 11
)

// Value type encodings.
const (
	ValI32       byte = 0x7f
	ValI64       byte = 0x7e
	ValF32       byte = 0x7d
	ValF64       byte = 0x7c
	ValV128      byte = 0x7b
	ValFuncRef   byte = 0x70
	ValExternRef byte = 0x6f
)

// Opcodes used by synthesized function bodies.
const (
	OpCall     byte = 0x10
	OpLocalGet byte = 0x20
	OpI32Const byte = 0x41
	OpRefNull  byte = 0xd0
	OpEnd      byte = 0x0b
)

// Export kinds.
const (
	ExportFunc   byte = 0
	ExportTable  byte = 1
	ExportMemory byte = 2
	ExportGlobal byte = 3
)

// EncodeValType maps a ValueType to its binary encoding.
func EncodeValType(v types.ValueType) (byte, error) {
	switch v {
	case types.I32:
		return ValI32, nil
	case types.I64:
		return ValI64, nil
	case types.F32:
		return ValF32, nil
	case types.F64:
		return ValF64, nil
	case types.V128:
		return ValV128, nil
	case types.FuncRef:
		return ValFuncRef, nil
	case types.ExternRef:
		return ValExternRef, nil
	}
	return 0, fmt.Errorf("wasmbin: unknown value type %d", v)
}

// DecodeValType maps a binary encoding to its ValueType.
func DecodeValType(b byte) (types.ValueType, error) {
	switch b {
	case ValI32:
		return types.I32, nil
	case ValI64:
		return types.I64, nil
	case ValF32:
		return types.F32, nil
	case ValF64:
		return types.F64, nil
	case ValV128:
		return types.V128, nil
	case ValFuncRef:
		return types.FuncRef, nil
	case ValExternRef:
		return types.ExternRef, nil
	}
	return 0, fmt.Errorf("wasmbin: unknown value type byte %#x", b)
}
