package ref

import (
	"context"

	"github.com/shuuji3/wasmer/types"
)

// Callable is a function a FuncRef can reference: either a guest-defined
// function exposed by the instantiation layer or a host function built with
// NewHostFunc. Arguments and results use the 64-bit stack-value encoding.
type Callable interface {
	Type() types.FunctionType
	Call(ctx context.Context, args ...uint64) ([]uint64, error)
}

// FuncRef is a nullable reference to a single callable function. The zero
// value is the null reference.
type FuncRef struct {
	fn Callable
}

// NullFuncRef returns the null function reference.
func NullFuncRef() FuncRef {
	return FuncRef{}
}

// NewFuncRef wraps a callable. A nil callable yields the null reference.
func NewFuncRef(fn Callable) FuncRef {
	return FuncRef{fn: fn}
}

// IsNone reports whether the reference is null.
func (f FuncRef) IsNone() bool {
	return f.fn == nil
}

// Type returns the referenced function's signature, or false for null.
func (f FuncRef) Type() (types.FunctionType, bool) {
	if f.fn == nil {
		return types.FunctionType{}, false
	}
	return f.fn.Type(), true
}

// Call invokes the referenced function. Calling a null reference returns a
// runtime error, mirroring a null indirect call trap.
func (f FuncRef) Call(ctx context.Context, args ...uint64) ([]uint64, error) {
	if f.fn == nil {
		return nil, errNullCall
	}
	return f.fn.Call(ctx, args...)
}

// ToRaw converts the reference to its boundary form. Null maps to zero.
func (f FuncRef) ToRaw() Raw {
	if f.fn == nil {
		return 0
	}
	return funcRefs.insert(f.fn)
}

// FuncRefFromRaw recovers a FuncRef from its boundary form. Zero maps to
// null; an unknown handle also yields null rather than a dangling reference.
func FuncRefFromRaw(raw Raw) FuncRef {
	v, ok := funcRefs.get(raw)
	if !ok {
		return FuncRef{}
	}
	return FuncRef{fn: v.(Callable)}
}

// ReleaseRawFuncRef drops the table entry behind a raw handle once the guest
// no longer stores it. Releasing zero or an unknown handle is a no-op.
func ReleaseRawFuncRef(raw Raw) {
	funcRefs.remove(raw)
}

// HostFunc adapts a Go function to Callable.
type HostFunc struct {
	typ  types.FunctionType
	impl func(ctx context.Context, args []uint64) ([]uint64, error)
}

// NewHostFunc builds a FuncRef around a host Go function with the given
// signature.
func NewHostFunc(typ types.FunctionType, impl func(ctx context.Context, args []uint64) ([]uint64, error)) FuncRef {
	return FuncRef{fn: &HostFunc{typ: typ, impl: impl}}
}

func (h *HostFunc) Type() types.FunctionType {
	return h.typ
}

func (h *HostFunc) Call(ctx context.Context, args ...uint64) ([]uint64, error) {
	return h.impl(ctx, args)
}
