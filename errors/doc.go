// Package errors provides the structured error types used across the engine.
//
// Errors are categorized by Phase (which pipeline stage failed) and Kind
// (error category). errors.Is compares phase and kind, so callers match
// against a value built with the same phase and kind to decide whether to
// fall back. For example, a headless Compile fails with the error that
// Headless constructs, so the caller can switch to a precompiled artifact:
//
//	if errors.Is(err, errors.Headless("")) {
//	    artifact, err = eng.DeserializeFromFile(cached)
//	}
//
// Use the Builder for structured construction:
//
//	err := errors.New(errors.PhaseLink, errors.KindToolchain).
//		Detail("linker %q exited with status %d", cmd, code).
//		Build()
//
// Or the convenience constructors for common cases:
//
//	err := errors.Headless("compile")
//	err := errors.Deserialize("incompatible target", cause)
//
// All errors implement the standard error interface and support
// errors.Is/As.
package errors
