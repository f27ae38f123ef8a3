package engine

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/shuuji3/wasmer/errors"
	"github.com/shuuji3/wasmer/loader"
	"github.com/shuuji3/wasmer/types"
)

// Export is one exported function of a loaded artifact.
type Export struct {
	// Name is the wasm-level export name.
	Name string
	// Symbol is the (prefixed) native symbol backing the export.
	Symbol string
	// Signature is the export's function type.
	Signature types.FunctionType
	// SignatureIndex is the engine-local interned signature.
	SignatureIndex SignatureIndex
	// Address is the resolved code address inside the loaded library.
	Address uintptr
}

// Artifact is one compiled, loaded WebAssembly module: native code resident
// in a shared object plus the export table describing it. Artifacts are
// immutable after creation and safe to share across goroutines. Their code
// stays valid as long as the engine lives, because the engine never unloads
// libraries.
type Artifact struct {
	engine  *NativeEngine
	lib     loader.Library
	prefix  string
	exports []Export
	byName  map[string]int
}

// Engine returns the engine that produced or loaded this artifact.
func (a *Artifact) Engine() *NativeEngine {
	return a.engine
}

// Path returns the shared object's filesystem path.
func (a *Artifact) Path() string {
	return a.lib.Path()
}

// Prefix returns the deterministic symbol prefix the artifact was compiled
// with, empty when none was configured.
func (a *Artifact) Prefix() string {
	return a.prefix
}

// Exports returns the artifact's export table in stable order.
func (a *Artifact) Exports() []Export {
	return a.exports
}

// Lookup returns the export with the given wasm-level name.
func (a *Artifact) Lookup(name string) (Export, bool) {
	i, ok := a.byName[name]
	if !ok {
		return Export{}, false
	}
	return a.exports[i], true
}

// FunctionSignature returns the signature of the named export.
func (a *Artifact) FunctionSignature(name string) (types.FunctionType, bool) {
	exp, ok := a.Lookup(name)
	if !ok {
		return types.FunctionType{}, false
	}
	return exp.Signature, true
}

// Serialize returns the artifact's bytes: the shared object file as
// produced by the linker, metadata included. A compatible engine can
// Deserialize them without a compiler present.
func (a *Artifact) Serialize() ([]byte, error) {
	data, err := os.ReadFile(a.lib.Path())
	if err != nil {
		return nil, errors.New(errors.PhaseDeserialize, errors.KindInternal).
			Detail("artifact backing file vanished").
			Cause(err).
			Build()
	}
	return data, nil
}

// SerializeToFile writes the artifact's bytes to path.
func (a *Artifact) SerializeToFile(path string) error {
	data, err := a.Serialize()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// linkFunc produces a shared object at outPath from an object file and the
// metadata assembly stub. Tests substitute an implementation that writes a
// static image instead of invoking a toolchain.
type linkFunc func(l Linker, objPath, metaAsmPath, outPath string) error

// runLinkCommand invokes the selected linker executable. Compilation and
// linking may block for seconds; callers needing cancellation run Compile on
// a worker they can abandon.
func runLinkCommand(l Linker, objPath, metaAsmPath, outPath string) error {
	cmd := exec.Command(l.Executable(), "-shared", "-fPIC", "-o", outPath, objPath, metaAsmPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return errors.LinkFailed(l.Executable(), err)
	}
	return nil
}

// Compile runs the full pipeline on a WebAssembly binary: validate, invoke
// the compiler, apply the deterministic symbol prefix, link a shared object,
// load it, and wrap the export table. Failures are reported with the
// step-specific error kind and no partial artifact.
func (e *NativeEngine) Compile(wasm []byte, tunables types.Tunables) (*Artifact, error) {
	e.inner.mu.Lock()
	defer e.inner.mu.Unlock()

	if e.inner.compiler == nil {
		return nil, errors.Headless("compile")
	}

	if err := e.inner.compiler.ValidateModule(e.inner.features, wasm); err != nil {
		return nil, err
	}

	compiled, err := e.inner.compiler.CompileModule(e.target, e.inner.features, tunables, wasm)
	if err != nil {
		return nil, err
	}

	prefix := e.inner.prefixFor(wasm)
	if prefix != "" {
		compiled.ApplyPrefix(prefix)
	}

	dir, err := os.MkdirTemp("", "wasmer-compile-*")
	if err != nil {
		return nil, errors.New(errors.PhaseLink, errors.KindInternal).
			Detail("creating link workspace").Cause(err).Build()
	}

	objPath := filepath.Join(dir, "module.o")
	if err := os.WriteFile(objPath, compiled.Object(), 0o644); err != nil {
		return nil, errors.New(errors.PhaseLink, errors.KindInternal).
			Detail("writing object file").Cause(err).Build()
	}

	meta := newMetadata(e.target, prefix, compiled.Exports())
	blob, err := meta.encode()
	if err != nil {
		return nil, errors.New(errors.PhaseLink, errors.KindInternal).
			Detail("encoding artifact metadata").Cause(err).Build()
	}
	metaAsmPath, err := writeMetadataSource(dir, blob, e.target)
	if err != nil {
		return nil, errors.New(errors.PhaseLink, errors.KindInternal).
			Detail("writing metadata source").Cause(err).Build()
	}

	// The shared object outlives the workspace: it stays mapped (and its
	// path readable for Serialize) for the engine's lifetime.
	soPath := filepath.Join(dir, "module.so")
	if err := e.inner.runLink(e.inner.linker, objPath, metaAsmPath, soPath); err != nil {
		return nil, err
	}

	lib, err := e.inner.ldr.Open(soPath)
	if err != nil {
		return nil, errors.Load("loading freshly linked artifact", err)
	}

	artifact, err := e.wrapLibrary(lib, meta)
	if err != nil {
		return nil, err
	}

	Logger().Debug("module compiled",
		zap.Uint64("engine", uint64(e.id)),
		zap.String("linker", e.inner.linker.Executable()),
		zap.String("prefix", prefix),
		zap.Int("exports", len(artifact.exports)),
		zap.String("path", soPath))

	return artifact, nil
}

// wrapLibrary resolves every export symbol, interns signatures, records the
// library, and builds the artifact. Callers hold the state lock. The
// library is appended only after every symbol resolves, so a failed wrap
// leaks nothing into the engine.
func (e *NativeEngine) wrapLibrary(lib loader.Library, meta metadata) (*Artifact, error) {
	exports := make([]Export, 0, len(meta.Exports))
	byName := make(map[string]int, len(meta.Exports))

	for _, exp := range meta.Exports {
		addr, err := lib.Lookup(exp.Symbol)
		if err != nil {
			return nil, err
		}
		sig := exp.signature()
		byName[exp.Name] = len(exports)
		exports = append(exports, Export{
			Name:           exp.Name,
			Symbol:         exp.Symbol,
			Signature:      sig,
			SignatureIndex: e.inner.signatures.Register(sig),
			Address:        addr,
		})
	}

	e.inner.addLibrary(lib)

	return &Artifact{
		engine:  e,
		lib:     lib,
		prefix:  meta.Prefix,
		exports: exports,
		byName:  byName,
	}, nil
}
