package wasmbin

import (
	"bytes"
	"fmt"
	"io"

	"github.com/shuuji3/wasmer/types"
)

// Section is one raw section of a module: its ID and undecoded contents.
type Section struct {
	ID       byte
	Contents []byte
}

// ReadSections checks the module preamble and walks the section list without
// decoding section contents.
func ReadSections(module []byte) ([]Section, error) {
	if len(module) < len(Magic) || !bytes.Equal(module[:len(Magic)], Magic) {
		return nil, fmt.Errorf("wasmbin: not a wasm module (bad magic or version)")
	}

	r := bytes.NewReader(module[len(Magic):])
	var sections []Section
	for {
		id, err := r.ReadByte()
		if err == io.EOF {
			return sections, nil
		}
		if err != nil {
			return nil, err
		}

		size, err := ReadUint32(r)
		if err != nil {
			return nil, fmt.Errorf("wasmbin: section %d: bad size: %w", id, err)
		}
		contents := make([]byte, size)
		if _, err := io.ReadFull(r, contents); err != nil {
			return nil, fmt.Errorf("wasmbin: section %d: truncated: %w", id, err)
		}
		sections = append(sections, Section{ID: id, Contents: contents})
	}
}

// DecodeTypeSection decodes a type section's function signatures.
func DecodeTypeSection(contents []byte) ([]types.FunctionType, error) {
	r := bytes.NewReader(contents)

	count, err := ReadUint32(r)
	if err != nil {
		return nil, err
	}

	out := make([]types.FunctionType, 0, count)
	for i := uint32(0); i < count; i++ {
		form, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		if form != 0x60 {
			return nil, fmt.Errorf("wasmbin: type %d: unsupported form %#x", i, form)
		}

		params, err := readValTypes(r)
		if err != nil {
			return nil, err
		}
		results, err := readValTypes(r)
		if err != nil {
			return nil, err
		}
		out = append(out, types.NewFunctionType(params, results))
	}
	return out, nil
}

// ImportEntry is one decoded import.
type ImportEntry struct {
	Module string
	Name   string
	Kind   byte
	// TypeIdx is the function type index; only meaningful for Kind 0.
	TypeIdx uint32
}

// DecodeImportSection decodes an import section. Non-function imports carry
// their kind but no further description.
func DecodeImportSection(contents []byte) ([]ImportEntry, error) {
	r := bytes.NewReader(contents)

	count, err := ReadUint32(r)
	if err != nil {
		return nil, err
	}

	out := make([]ImportEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		module, err := readName(r)
		if err != nil {
			return nil, err
		}
		name, err := readName(r)
		if err != nil {
			return nil, err
		}
		kind, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		if kind != 0x00 {
			return nil, fmt.Errorf("wasmbin: import %d: only function imports are supported, got kind %#x", i, kind)
		}
		typeIdx, err := ReadUint32(r)
		if err != nil {
			return nil, err
		}
		out = append(out, ImportEntry{Module: module, Name: name, Kind: kind, TypeIdx: typeIdx})
	}
	return out, nil
}

// DecodeFunctionSection decodes a function section into type indices.
func DecodeFunctionSection(contents []byte) ([]uint32, error) {
	r := bytes.NewReader(contents)

	count, err := ReadUint32(r)
	if err != nil {
		return nil, err
	}

	out := make([]uint32, 0, count)
	for i := uint32(0); i < count; i++ {
		idx, err := ReadUint32(r)
		if err != nil {
			return nil, err
		}
		out = append(out, idx)
	}
	return out, nil
}

// ExportEntry is one decoded export.
type ExportEntry struct {
	Name  string
	Kind  byte
	Index uint32
}

// DecodeExportSection decodes an export section.
func DecodeExportSection(contents []byte) ([]ExportEntry, error) {
	r := bytes.NewReader(contents)

	count, err := ReadUint32(r)
	if err != nil {
		return nil, err
	}

	out := make([]ExportEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		name, err := readName(r)
		if err != nil {
			return nil, err
		}
		kind, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		idx, err := ReadUint32(r)
		if err != nil {
			return nil, err
		}
		out = append(out, ExportEntry{Name: name, Kind: kind, Index: idx})
	}
	return out, nil
}

func readName(r *bytes.Reader) (string, error) {
	length, err := ReadUint32(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func readValTypes(r *bytes.Reader) ([]types.ValueType, error) {
	count, err := ReadUint32(r)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	out := make([]types.ValueType, 0, count)
	for i := uint32(0); i < count; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		vt, err := DecodeValType(b)
		if err != nil {
			return nil, err
		}
		out = append(out, vt)
	}
	return out, nil
}
