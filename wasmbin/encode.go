package wasmbin

import "github.com/shuuji3/wasmer/types"

// Builder assembles a core wasm module from declared types, imports,
// functions, and exports. Function bodies are raw instruction bytes; the
// builder wraps them with the empty-locals vector and the end opcode.
type Builder struct {
	funcTypes   []types.FunctionType
	funcImports []funcImport
	funcs       []declaredFunc
	exports     []export
}

type funcImport struct {
	module  string
	name    string
	typeIdx uint32
}

type declaredFunc struct {
	typeIdx uint32
	body    []byte
}

type export struct {
	name string
	kind byte
	idx  uint32
}

// NewBuilder returns an empty module builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddType declares a function type and returns its type index. Structurally
// equal types are deduplicated.
func (b *Builder) AddType(ft types.FunctionType) uint32 {
	for i, existing := range b.funcTypes {
		if existing.Equal(ft) {
			return uint32(i)
		}
	}
	b.funcTypes = append(b.funcTypes, ft)
	return uint32(len(b.funcTypes) - 1)
}

// ImportFunc declares a function import and returns its function index.
// All imports must be declared before the first AddFunc call, since imported
// functions occupy the low end of the index space.
func (b *Builder) ImportFunc(module, name string, typeIdx uint32) uint32 {
	b.funcImports = append(b.funcImports, funcImport{module: module, name: name, typeIdx: typeIdx})
	return uint32(len(b.funcImports) - 1)
}

// AddFunc declares a module-defined function with the given raw instruction
// body (without the trailing end opcode) and returns its function index.
func (b *Builder) AddFunc(typeIdx uint32, body []byte) uint32 {
	b.funcs = append(b.funcs, declaredFunc{typeIdx: typeIdx, body: body})
	return uint32(len(b.funcImports) + len(b.funcs) - 1)
}

// ExportFunc exports the function at funcIdx under the given name.
func (b *Builder) ExportFunc(name string, funcIdx uint32) {
	b.exports = append(b.exports, export{name: name, kind: ExportFunc, idx: funcIdx})
}

// Encode serializes the module.
func (b *Builder) Encode() []byte {
	out := append([]byte(nil), Magic...)

	if len(b.funcTypes) > 0 {
		var sec []byte
		sec = AppendUint32(sec, uint32(len(b.funcTypes)))
		for _, ft := range b.funcTypes {
			sec = append(sec, 0x60)
			sec = appendValTypes(sec, ft.Params)
			sec = appendValTypes(sec, ft.Results)
		}
		out = appendSection(out, SectionType, sec)
	}

	if len(b.funcImports) > 0 {
		var sec []byte
		sec = AppendUint32(sec, uint32(len(b.funcImports)))
		for _, imp := range b.funcImports {
			sec = appendName(sec, imp.module)
			sec = appendName(sec, imp.name)
			sec = append(sec, 0x00) // func import
			sec = AppendUint32(sec, imp.typeIdx)
		}
		out = appendSection(out, SectionImport, sec)
	}

	if len(b.funcs) > 0 {
		var sec []byte
		sec = AppendUint32(sec, uint32(len(b.funcs)))
		for _, f := range b.funcs {
			sec = AppendUint32(sec, f.typeIdx)
		}
		out = appendSection(out, SectionFunction, sec)
	}

	if len(b.exports) > 0 {
		var sec []byte
		sec = AppendUint32(sec, uint32(len(b.exports)))
		for _, e := range b.exports {
			sec = appendName(sec, e.name)
			sec = append(sec, e.kind)
			sec = AppendUint32(sec, e.idx)
		}
		out = appendSection(out, SectionExport, sec)
	}

	if len(b.funcs) > 0 {
		var sec []byte
		sec = AppendUint32(sec, uint32(len(b.funcs)))
		for _, f := range b.funcs {
			var body []byte
			body = AppendUint32(body, 0) // no locals
			body = append(body, f.body...)
			body = append(body, OpEnd)

			sec = AppendUint32(sec, uint32(len(body)))
			sec = append(sec, body...)
		}
		out = appendSection(out, SectionCode, sec)
	}

	return out
}

func appendSection(dst []byte, id byte, contents []byte) []byte {
	dst = append(dst, id)
	dst = AppendUint32(dst, uint32(len(contents)))
	return append(dst, contents...)
}

func appendName(dst []byte, name string) []byte {
	dst = AppendUint32(dst, uint32(len(name)))
	return append(dst, name...)
}

func appendValTypes(dst []byte, vts []types.ValueType) []byte {
	dst = AppendUint32(dst, uint32(len(vts)))
	for _, vt := range vts {
		b, err := EncodeValType(vt)
		if err != nil {
			panic(err) // builder misuse, not input data
		}
		dst = append(dst, b)
	}
	return dst
}
