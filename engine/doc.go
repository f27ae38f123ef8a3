// Package engine implements the native ahead-of-time engine: it drives the
// compiler, links generated code into shared objects, loads them, and owns
// the runtime bookkeeping (signature registry, loaded-library list) that
// instances need.
//
// An engine comes in two flavors. A full engine carries a compiler backend
// and can validate, compile, and deserialize. A headless engine carries no
// compiler and only deserializes artifacts produced earlier by a compatible
// full engine; compile and validate fail by design. Headless engines keep
// the runtime minimal where a compiler is too expensive to ship, and they
// also make startup fast when every module is precompiled.
//
// Engines are safe for concurrent use. Once a shared object is loaded it
// stays mapped for the engine's remaining lifetime: artifacts hand out code
// addresses, so libraries are never unloaded.
package engine
