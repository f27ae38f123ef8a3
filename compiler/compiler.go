// Package compiler defines the contract between the engine and a machine
// code generation backend, and provides a wazero-backed module validator
// that backends can embed.
package compiler

import "github.com/shuuji3/wasmer/types"

// Compiler turns validated WebAssembly bytecode into native object code.
// Implementations live outside this repository; the engine only depends on
// this interface. Implementations must be safe for concurrent use.
type Compiler interface {
	// ValidateModule checks the binary against the enabled feature set.
	ValidateModule(features types.Features, wasm []byte) error

	// CompileModule produces a relocatable object plus its export table for
	// the given target. It must not perform linking or loading.
	CompileModule(target types.Target, features types.Features, tunables types.Tunables, wasm []byte) (Module, error)
}

// Export is one exported function of a compiled module: its wasm-level
// export name, the symbol the backend generated for it, and its signature.
type Export struct {
	Name      string
	Symbol    string
	Signature types.FunctionType
}

// Module is the compiler's output: object code and its export table. The
// backend owns the object format, so symbol renaming is part of the
// contract rather than something the engine does byte-wise.
type Module interface {
	// Object returns the relocatable object code to hand to the linker.
	Object() []byte

	// Exports returns the export table. Symbol fields reflect any prefix
	// applied so far.
	Exports() []Export

	// ApplyPrefix renames every exported symbol, in the export table and in
	// the object's symbol table, from sym to prefix+sym. Called at most once,
	// before Object is linked.
	ApplyPrefix(prefix string)
}
