package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shuuji3/wasmer/compiler"
	"github.com/shuuji3/wasmer/errors"
	"github.com/shuuji3/wasmer/loader"
	"github.com/shuuji3/wasmer/types"
	"github.com/shuuji3/wasmer/wasmbin"
)

// fakeCompiler is a test backend: it derives a real export table from the
// module's sections and emits a static image as its "object code", so the
// whole pipeline runs without a toolchain.
type fakeCompiler struct {
	compileCalls int
}

func (c *fakeCompiler) ValidateModule(features types.Features, wasm []byte) error {
	if _, err := wasmbin.ReadSections(wasm); err != nil {
		return errors.Validate("module failed validation", err)
	}
	return nil
}

func (c *fakeCompiler) CompileModule(target types.Target, features types.Features, tunables types.Tunables, wasm []byte) (compiler.Module, error) {
	c.compileCalls++

	sections, err := wasmbin.ReadSections(wasm)
	if err != nil {
		return nil, errors.Codegen("reading module sections", err)
	}
	byID := map[byte][]byte{}
	for _, s := range sections {
		byID[s.ID] = s.Contents
	}

	funcTypes, err := wasmbin.DecodeTypeSection(byID[wasmbin.SectionType])
	if err != nil {
		return nil, errors.Codegen("decoding type section", err)
	}

	var importedFuncs int
	if contents, ok := byID[wasmbin.SectionImport]; ok {
		imports, err := wasmbin.DecodeImportSection(contents)
		if err != nil {
			return nil, errors.Codegen("decoding import section", err)
		}
		importedFuncs = len(imports)
	}

	typeIndices, err := wasmbin.DecodeFunctionSection(byID[wasmbin.SectionFunction])
	if err != nil {
		return nil, errors.Codegen("decoding function section", err)
	}

	exportEntries, err := wasmbin.DecodeExportSection(byID[wasmbin.SectionExport])
	if err != nil {
		return nil, errors.Codegen("decoding export section", err)
	}

	var exports []compiler.Export
	for _, e := range exportEntries {
		if e.Kind != wasmbin.ExportFunc {
			continue
		}
		local := int(e.Index) - importedFuncs
		if local < 0 || local >= len(typeIndices) {
			return nil, errors.Codegen(fmt.Sprintf("export %q references function %d outside the module", e.Name, e.Index), nil)
		}
		exports = append(exports, compiler.Export{
			Name:      e.Name,
			Symbol:    fmt.Sprintf("wasmer_function_%d", e.Index),
			Signature: funcTypes[typeIndices[local]],
		})
	}

	return &fakeModule{exports: exports}, nil
}

type fakeModule struct {
	exports []compiler.Export
}

func (m *fakeModule) Object() []byte {
	img := loader.Image{}
	for _, e := range m.exports {
		img.Symbols = append(img.Symbols, e.Symbol)
	}
	data, err := img.Encode()
	if err != nil {
		panic(err)
	}
	return data
}

func (m *fakeModule) Exports() []compiler.Export {
	return m.exports
}

func (m *fakeModule) ApplyPrefix(prefix string) {
	for i := range m.exports {
		m.exports[i].Symbol = prefix + m.exports[i].Symbol
	}
}

// fakeLink "links" by merging the fake object's symbols with the metadata
// blob into one static image, standing in for gcc -shared.
func fakeLink(l Linker, objPath, metaAsmPath, outPath string) error {
	objData, err := os.ReadFile(objPath)
	if err != nil {
		return err
	}
	obj, err := loader.DecodeImage(objData)
	if err != nil {
		return err
	}

	blob, err := os.ReadFile(filepath.Join(filepath.Dir(metaAsmPath), "metadata.bin"))
	if err != nil {
		return err
	}

	img := loader.Image{
		Symbols: obj.Symbols,
		Blobs:   map[string][]byte{MetadataSymbol: blob},
	}
	data, err := img.Encode()
	if err != nil {
		return err
	}
	return os.WriteFile(outPath, data, 0o644)
}

// hostWithGcc pretends gcc is installed, and nothing else.
func hostWithGcc(file string) (string, error) {
	if file == "gcc" {
		return "/usr/bin/gcc", nil
	}
	return "", fmt.Errorf("%s not found", file)
}

// installed builds a lookPath over a fixed set of executables.
func installed(names ...string) lookPathFunc {
	return func(file string) (string, error) {
		for _, n := range names {
			if n == file {
				return "/usr/bin/" + file, nil
			}
		}
		return "", fmt.Errorf("%s not found", file)
	}
}

// newTestEngine builds a full engine wired to the fakes.
func newTestEngine(t interface{ Fatalf(string, ...any) }) (*NativeEngine, *fakeCompiler) {
	fc := &fakeCompiler{}
	eng, err := newEngine(Config{
		Compiler: fc,
		Loader:   loader.NewStatic(),
	}, hostWithGcc, fakeLink)
	if err != nil {
		t.Fatalf("newEngine: %v", err)
	}
	return eng, fc
}

// identityModule builds a module exporting an i32 doubler and an externref
// identity function.
func identityModule() []byte {
	b := wasmbin.NewBuilder()
	ansTy := b.AddType(types.NewFunctionType(nil, []types.ValueType{types.I32}))
	idTy := b.AddType(types.NewFunctionType(
		[]types.ValueType{types.ExternRef},
		[]types.ValueType{types.ExternRef},
	))

	answer := b.AddFunc(ansTy, []byte{wasmbin.OpI32Const, 42})
	b.ExportFunc("answer", answer)

	identity := b.AddFunc(idTy, []byte{wasmbin.OpLocalGet, 0x00})
	b.ExportFunc("identity", identity)

	return b.Encode()
}
