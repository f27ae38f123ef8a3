// Package types defines the value and function types shared by the engine,
// the compiler interface, and the reference-type ABI.
package types

import "strings"

// ValueType classifies a WebAssembly value.
type ValueType byte

const (
	// I32 is a 32-bit integer.
	I32 ValueType = iota
	// I64 is a 64-bit integer.
	I64
	// F32 is a 32-bit float.
	F32
	// F64 is a 64-bit float.
	F64
	// V128 is a 128-bit SIMD vector.
	V128
	// FuncRef is a nullable reference to a function.
	FuncRef
	// ExternRef is a nullable reference to a host-owned value.
	ExternRef
)

func (v ValueType) String() string {
	switch v {
	case I32:
		return "i32"
	case I64:
		return "i64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	case V128:
		return "v128"
	case FuncRef:
		return "funcref"
	case ExternRef:
		return "externref"
	}
	return "unknown"
}

// FunctionType is a function signature: ordered parameter types and ordered
// result types. The zero value is the empty signature () -> ().
type FunctionType struct {
	Params  []ValueType
	Results []ValueType
}

// NewFunctionType builds a FunctionType from parameter and result lists.
// The slices are not copied; callers must not mutate them afterwards.
func NewFunctionType(params, results []ValueType) FunctionType {
	return FunctionType{Params: params, Results: results}
}

// Equal reports whether two signatures are structurally identical.
func (f FunctionType) Equal(other FunctionType) bool {
	if len(f.Params) != len(other.Params) || len(f.Results) != len(other.Results) {
		return false
	}
	for i, p := range f.Params {
		if other.Params[i] != p {
			return false
		}
	}
	for i, r := range f.Results {
		if other.Results[i] != r {
			return false
		}
	}
	return true
}

// Key returns a canonical string form usable as a map key. Two FunctionTypes
// have the same Key iff they are Equal.
func (f FunctionType) Key() string {
	var b strings.Builder
	for _, p := range f.Params {
		b.WriteString(p.String())
		b.WriteByte(',')
	}
	b.WriteByte('>')
	for _, r := range f.Results {
		b.WriteString(r.String())
		b.WriteByte(',')
	}
	return b.String()
}

func (f FunctionType) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, p := range f.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteString("] -> [")
	for i, r := range f.Results {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(r.String())
	}
	b.WriteByte(']')
	return b.String()
}
