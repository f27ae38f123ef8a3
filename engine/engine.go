package engine

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/shuuji3/wasmer/compiler"
	"github.com/shuuji3/wasmer/errors"
	"github.com/shuuji3/wasmer/loader"
	"github.com/shuuji3/wasmer/types"
)

// EngineID distinguishes engine instances within a process. Signature
// indices and artifacts are only meaningful for the engine that issued them.
type EngineID uint64

var nextEngineID atomic.Uint64

// Config configures a full engine.
type Config struct {
	// Compiler is the code generation backend. Required.
	Compiler compiler.Compiler

	// Target is the triple to generate code for. Zero value means the host.
	Target types.Target

	// Features is the proposal set enabled for validation and compilation.
	// Zero value means DefaultFeatures.
	Features types.Features

	// Loader loads linked shared objects. Nil means the system dynamic
	// loader.
	Loader loader.Loader
}

// NativeEngine compiles WebAssembly modules to shared objects and loads
// them. Handles are cheap to share; all mutable state lives behind one lock
// in the inner state, which is created with the engine and never replaced.
type NativeEngine struct {
	inner  *engineInner
	target types.Target
	id     EngineID
}

// engineInner is the lock-protected engine state.
type engineInner struct {
	mu         sync.Mutex
	compiler   compiler.Compiler // nil in headless engines
	features   types.Features
	signatures *SignatureRegistry
	prefixer   func(wasm []byte) string
	crossComp  bool
	linker     Linker
	ldr        loader.Loader

	// libraries is append-only: a loaded shared object stays mapped for the
	// engine's remaining lifetime because artifacts reference code inside it.
	libraries []loader.Library

	// Toolchain seam, replaced in tests.
	runLink linkFunc
}

// New creates a full engine around the given compiler backend. Linker
// selection happens here: if no usable native linker is installed, New
// fails, and no engine exists. The caller cannot defer the problem to the
// first compile.
func New(cfg Config) (*NativeEngine, error) {
	return newEngine(cfg, systemLookPath, runLinkCommand)
}

func newEngine(cfg Config, lookPath lookPathFunc, runLink linkFunc) (*NativeEngine, error) {
	if cfg.Compiler == nil {
		return nil, errors.New(errors.PhaseCodegen, errors.KindInternal).
			Detail("a full engine requires a compiler backend; use NewHeadless for an engine without one").
			Build()
	}

	target := cfg.Target
	if target == (types.Target{}) {
		target = types.HostTarget()
	}
	features := cfg.Features
	if features == (types.Features{}) {
		features = types.DefaultFeatures()
	}
	ldr := cfg.Loader
	if ldr == nil {
		ldr = loader.NewDlopen()
	}

	crossCompiling := !target.IsHost()
	linker, err := findLinker(crossCompiling, lookPath)
	if err != nil {
		return nil, err
	}

	eng := &NativeEngine{
		inner: &engineInner{
			compiler:   cfg.Compiler,
			features:   features,
			signatures: NewSignatureRegistry(),
			crossComp:  crossCompiling,
			linker:     linker,
			ldr:        ldr,
			runLink:    runLink,
		},
		target: target,
		id:     EngineID(nextEngineID.Add(1)),
	}

	Logger().Debug("engine created",
		zap.Uint64("id", uint64(eng.id)),
		zap.String("target", target.Triple()),
		zap.Bool("cross_compiling", crossCompiling),
		zap.String("linker", linker.Executable()))

	return eng, nil
}

// NewHeadless creates an engine without a compiler. Headless engines can
// only deserialize already-compiled artifacts; Validate and Compile fail by
// design. No linker is probed since nothing is ever linked.
func NewHeadless() *NativeEngine {
	return &NativeEngine{
		inner: &engineInner{
			features:   types.DefaultFeatures(),
			signatures: NewSignatureRegistry(),
			linker:     LinkerNone,
			ldr:        loader.NewDlopen(),
		},
		target: types.HostTarget(),
		id:     EngineID(nextEngineID.Add(1)),
	}
}

// ID returns the engine's identity token.
func (e *NativeEngine) ID() EngineID {
	return e.id
}

// Target returns the triple this engine generates and loads code for.
func (e *NativeEngine) Target() types.Target {
	return e.target
}

// Headless reports whether the engine has no compiler attached.
func (e *NativeEngine) Headless() bool {
	e.inner.mu.Lock()
	defer e.inner.mu.Unlock()
	return e.inner.compiler == nil
}

// CrossCompiling reports whether the engine targets a machine other than the
// host. Cross-compiling engines select from the clang family instead of gcc.
func (e *NativeEngine) CrossCompiling() bool {
	e.inner.mu.Lock()
	defer e.inner.mu.Unlock()
	return e.inner.crossComp
}

// RegisterSignature interns a function signature, returning its index. Total
// and idempotent: the same signature always yields the same index on this
// engine.
func (e *NativeEngine) RegisterSignature(ft types.FunctionType) SignatureIndex {
	e.inner.mu.Lock()
	defer e.inner.mu.Unlock()
	return e.inner.signatures.Register(ft)
}

// LookupSignature returns the signature behind an index, or false if the
// index was never issued by this engine.
func (e *NativeEngine) LookupSignature(idx SignatureIndex) (types.FunctionType, bool) {
	e.inner.mu.Lock()
	defer e.inner.mu.Unlock()
	return e.inner.signatures.Lookup(idx)
}

// Validate checks a binary against the engine's enabled feature set by
// delegating to the compiler. Headless engines cannot validate.
func (e *NativeEngine) Validate(wasm []byte) error {
	e.inner.mu.Lock()
	defer e.inner.mu.Unlock()

	if e.inner.compiler == nil {
		return errors.New(errors.PhaseValidate, errors.KindHeadless).
			Detail("the engine is operating in headless mode, so it cannot validate a module").
			Build()
	}
	return e.inner.compiler.ValidateModule(e.inner.features, wasm)
}

// SetDeterministicPrefixer installs the function deriving the symbol prefix
// from raw module bytes. The prefixer must be pure and deterministic or
// compiled output stops being reproducible across builds. Set it before the
// first Compile; exported symbols of every module compiled afterwards carry
// the prefix, so independently compiled modules can share one process symbol
// namespace without collisions.
func (e *NativeEngine) SetDeterministicPrefixer(prefixer func(wasm []byte) string) {
	e.inner.mu.Lock()
	defer e.inner.mu.Unlock()
	e.inner.prefixer = prefixer
}

// prefixFor derives the symbol prefix for a module. Empty when no prefixer
// is configured. Callers hold the state lock.
func (inner *engineInner) prefixFor(wasm []byte) string {
	if inner.prefixer == nil {
		return ""
	}
	return inner.prefixer(wasm)
}

// addLibrary records a loaded shared object. Callers hold the state lock.
// The list is append-only; see the package documentation.
func (inner *engineInner) addLibrary(lib loader.Library) {
	inner.libraries = append(inner.libraries, lib)
}

// LoadedLibraries returns how many shared objects the engine has loaded.
func (e *NativeEngine) LoadedLibraries() int {
	e.inner.mu.Lock()
	defer e.inner.mu.Unlock()
	return len(e.inner.libraries)
}
