package ref

import (
	"fmt"
	"sync/atomic"

	"github.com/shuuji3/wasmer/errors"
)

var errNullCall = errors.New(errors.PhaseRuntime, errors.KindInternal).
	Detail("call on a null funcref").
	Build()

// ExternRef is a nullable, type-erased reference to a host-owned value. The
// zero value is the null reference.
//
// Non-null references are counted: the wrapped value stays reachable while
// any handle derived from the original is live, whether a host copy via
// Clone or a guest copy via ToRaw. Handles share the wrapped value; no copy
// is ever made.
type ExternRef struct {
	obj *externObj
}

type externObj struct {
	value any
	refs  atomic.Int64
}

// NullExternRef returns the null extern reference.
func NullExternRef() ExternRef {
	return ExternRef{}
}

// NewExternRef wraps a host value. The returned handle holds one reference.
func NewExternRef(value any) ExternRef {
	obj := &externObj{value: value}
	obj.refs.Store(1)
	return ExternRef{obj: obj}
}

// IsNull reports whether the reference is null.
func (e ExternRef) IsNull() bool {
	return e.obj == nil
}

// Clone returns a new handle sharing the wrapped value, adding a reference.
// Cloning null yields null.
func (e ExternRef) Clone() ExternRef {
	if e.obj != nil {
		e.obj.refs.Add(1)
	}
	return e
}

// Drop releases this handle's reference. Dropping null is a no-op. Using a
// handle after dropping its last reference yields null-like behavior, not
// use-after-free: the Go runtime owns the value's storage.
func (e ExternRef) Drop() {
	if e.obj != nil {
		e.obj.refs.Add(-1)
	}
}

// Refs returns the current reference count, zero for null.
func (e ExternRef) Refs() int64 {
	if e.obj == nil {
		return 0
	}
	return e.obj.refs.Load()
}

// Downcast returns the wrapped value if its dynamic type is exactly T. A
// null reference or a type mismatch yields a DowncastMismatch error, never a
// crash.
func Downcast[T any](e ExternRef) (T, error) {
	var zero T
	if e.obj == nil {
		return zero, errors.DowncastMismatch("null", fmt.Sprintf("%T", zero))
	}
	v, ok := e.obj.value.(T)
	if !ok {
		return zero, errors.DowncastMismatch(fmt.Sprintf("%T", e.obj.value), fmt.Sprintf("%T", zero))
	}
	return v, nil
}

// ToRaw converts the reference to its boundary form, transferring one
// reference to the guest side. Null maps to zero.
func (e ExternRef) ToRaw() Raw {
	if e.obj == nil {
		return 0
	}
	e.obj.refs.Add(1)
	return externRefs.insert(e.obj)
}

// ExternRefFromRaw recovers a host handle from a raw value without consuming
// the guest's reference; the returned handle holds a fresh reference of its
// own. Zero and unknown handles map to null.
func ExternRefFromRaw(raw Raw) ExternRef {
	v, ok := externRefs.get(raw)
	if !ok {
		return ExternRef{}
	}
	obj := v.(*externObj)
	obj.refs.Add(1)
	return ExternRef{obj: obj}
}

// ReleaseRawExternRef drops the guest-side reference behind a raw handle,
// called when the guest overwrites or discards it. Releasing zero or an
// unknown handle is a no-op.
func ReleaseRawExternRef(raw Raw) {
	v, ok := externRefs.remove(raw)
	if !ok {
		return
	}
	v.(*externObj).refs.Add(-1)
}
