package engine

import "github.com/shuuji3/wasmer/types"

// SignatureIndex is a small stable index interning a function signature
// within one engine. Indices are only meaningful for the engine that issued
// them; they exist so indirect-call type checks compare one integer instead
// of two type lists.
type SignatureIndex uint32

// SignatureRegistry interns function signatures into SignatureIndex values.
// Registration is total and idempotent: structurally equal signatures map to
// the same index, and registering can never fail.
//
// The registry does no locking of its own; NativeEngine guards it with the
// engine state lock.
type SignatureRegistry struct {
	byKey   map[string]SignatureIndex
	byIndex []types.FunctionType
}

// NewSignatureRegistry returns an empty registry.
func NewSignatureRegistry() *SignatureRegistry {
	return &SignatureRegistry{byKey: make(map[string]SignatureIndex)}
}

// Register returns the index for the signature, interning it on first sight.
func (r *SignatureRegistry) Register(ft types.FunctionType) SignatureIndex {
	key := ft.Key()
	if idx, ok := r.byKey[key]; ok {
		return idx
	}
	idx := SignatureIndex(len(r.byIndex))
	r.byKey[key] = idx
	r.byIndex = append(r.byIndex, ft)
	return idx
}

// Lookup returns the signature registered for idx, or false for an index
// this registry never issued.
func (r *SignatureRegistry) Lookup(idx SignatureIndex) (types.FunctionType, bool) {
	if int(idx) >= len(r.byIndex) {
		return types.FunctionType{}, false
	}
	return r.byIndex[idx], true
}

// Len returns the number of distinct signatures registered.
func (r *SignatureRegistry) Len() int {
	return len(r.byIndex)
}
