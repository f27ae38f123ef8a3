// Package wasmer is the native ahead-of-time engine of a WebAssembly
// virtual machine: it compiles validated modules to shared objects through
// an external compiler backend and a system linker, loads them, and provides
// the runtime primitives for exchanging typed values, including reference
// types, between guest and host.
//
// # Architecture Overview
//
// The library is organized into packages with distinct responsibilities:
//
//	wasmer/           Root package documentation
//	├── engine/       NativeEngine: compile/link/load pipeline, signature
//	│                 registry, artifact (de)serialization
//	├── compiler/     Compiler backend contract and a wazero-backed validator
//	├── loader/       Dynamic loader abstraction (dlopen) and a static
//	│                 image loader for tooling and tests
//	├── memview/      Typed, optionally atomic views over guest linear memory
//	├── ref/          FuncRef and ExternRef reference-type handles
//	├── types/        Value types, function signatures, targets, features
//	├── errors/       Structured error taxonomy shared by all packages
//	├── wasmbin/      Minimal wasm binary reader/writer
//	└── cmd/wasmc/    CLI for validating modules and inspecting artifacts
//
// # Quick Start
//
// Create a full engine around a compiler backend, compile a module, and
// serialize the artifact for later headless use:
//
//	eng, err := engine.New(engine.Config{Compiler: backend})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	artifact, err := eng.Compile(wasmBytes, types.DefaultTunables(eng.Target()))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := artifact.SerializeToFile("module.so"); err != nil {
//	    log.Fatal(err)
//	}
//
// A headless engine (no compiler attached) loads it back:
//
//	eng := engine.NewHeadless()
//	artifact, err := eng.DeserializeFromFile("module.so")
package wasmer
