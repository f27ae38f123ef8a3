package errors

import (
	"fmt"
	"strings"
)

// Phase indicates which stage of the pipeline the error occurred in.
type Phase string

const (
	PhaseValidate    Phase = "validate"    // binary validation
	PhaseCodegen     Phase = "codegen"     // compiler invocation
	PhaseLink        Phase = "link"        // native linker invocation
	PhaseLoad        Phase = "load"        // dynamic loading
	PhaseDeserialize Phase = "deserialize" // precompiled artifact loading
	PhaseRuntime     Phase = "runtime"     // reference handles, signature checks
)

// Kind categorizes the error.
type Kind string

const (
	KindHeadless      Kind = "headless"       // operation needs a compiler, engine has none
	KindFeature       Kind = "feature"        // binary uses a disabled proposal
	KindMalformed     Kind = "malformed"      // input bytes are not what they claim
	KindToolchain     Kind = "toolchain"      // external linker missing or failed
	KindIncompatible  Kind = "incompatible"   // artifact target does not match engine target
	KindSymbolMissing Kind = "symbol_missing" // expected symbol absent from shared object
	KindMismatch      Kind = "mismatch"       // dynamic type does not match requested type
	KindInternal      Kind = "internal"       // invariant violation inside the engine
)

// Error is the structured error type used throughout the engine.
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. Two Errors match when their
// Phase and Kind agree; Detail and Cause are not compared, so sentinel-style
// matching with the convenience constructors works.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction.
type Builder struct {
	err Error
}

// New creates a new error builder.
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Detail sets the human-readable detail message.
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Cause sets the underlying error.
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Build returns the constructed error.
func (b *Builder) Build() *Error {
	return &b.err
}

// Headless reports an operation that requires a compiler on an engine that
// has none. op names the attempted operation ("compile", "validate").
func Headless(op string) *Error {
	return &Error{
		Phase:  PhaseCodegen,
		Kind:   KindHeadless,
		Detail: fmt.Sprintf("the engine is operating in headless mode, so it cannot %s a module", op),
	}
}

// Validate reports a binary that failed validation.
func Validate(detail string, cause error) *Error {
	return &Error{Phase: PhaseValidate, Kind: KindMalformed, Detail: detail, Cause: cause}
}

// Feature reports use of a proposal the enabled feature set excludes.
func Feature(proposal string) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindFeature,
		Detail: fmt.Sprintf("module requires the %s proposal, which is not enabled", proposal),
	}
}

// Codegen reports a compiler backend failure.
func Codegen(detail string, cause error) *Error {
	return &Error{Phase: PhaseCodegen, Kind: KindInternal, Detail: detail, Cause: cause}
}

// LinkerNotFound reports that no usable native linker was found on the host.
// Returned at engine construction; callers treat it as fatal.
func LinkerNotFound(requirements string, crossCompiling bool) *Error {
	mode := "not cross-compiling"
	if crossCompiling {
		mode = "cross-compiling"
	}
	return &Error{
		Phase:  PhaseLink,
		Kind:   KindToolchain,
		Detail: fmt.Sprintf("need %s installed to link native artifacts when %s", requirements, mode),
	}
}

// LinkFailed reports a linker invocation failure.
func LinkFailed(linker string, cause error) *Error {
	return &Error{
		Phase:  PhaseLink,
		Kind:   KindToolchain,
		Detail: fmt.Sprintf("%s failed", linker),
		Cause:  cause,
	}
}

// Load reports a dynamic loading failure.
func Load(detail string, cause error) *Error {
	return &Error{Phase: PhaseLoad, Kind: KindMalformed, Detail: detail, Cause: cause}
}

// Deserialize reports a failure loading a precompiled artifact.
func Deserialize(detail string, cause error) *Error {
	return &Error{Phase: PhaseDeserialize, Kind: KindMalformed, Detail: detail, Cause: cause}
}

// IncompatibleTarget reports an artifact built for a different target than
// the engine's.
func IncompatibleTarget(artifact, engine string) *Error {
	return &Error{
		Phase:  PhaseDeserialize,
		Kind:   KindIncompatible,
		Detail: fmt.Sprintf("artifact was compiled for %s but the engine targets %s", artifact, engine),
	}
}

// SymbolMissing reports an expected symbol absent from a loaded object.
func SymbolMissing(phase Phase, symbol string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindSymbolMissing,
		Detail: fmt.Sprintf("symbol %q not found", symbol),
		Cause:  cause,
	}
}

// DowncastMismatch reports an ExternRef downcast to the wrong type.
func DowncastMismatch(have, want string) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindMismatch,
		Detail: fmt.Sprintf("externref holds %s, not %s", have, want),
	}
}
