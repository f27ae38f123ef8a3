package engine

import (
	"testing"

	"github.com/shuuji3/wasmer/types"
)

func sig(params, results []types.ValueType) types.FunctionType {
	return types.NewFunctionType(params, results)
}

func TestSignatureRegistry_Idempotent(t *testing.T) {
	r := NewSignatureRegistry()

	a := r.Register(sig([]types.ValueType{types.I32, types.I64}, []types.ValueType{types.F64}))
	b := r.Register(sig([]types.ValueType{types.I32, types.I64}, []types.ValueType{types.F64}))

	if a != b {
		t.Fatalf("structurally equal signatures got indices %d and %d", a, b)
	}
	if r.Len() != 1 {
		t.Fatalf("registry holds %d signatures, want 1", r.Len())
	}
}

func TestSignatureRegistry_DistinctSignatures(t *testing.T) {
	r := NewSignatureRegistry()

	a := r.Register(sig([]types.ValueType{types.I32}, nil))
	b := r.Register(sig(nil, []types.ValueType{types.I32}))
	c := r.Register(sig([]types.ValueType{types.I32}, []types.ValueType{types.I32}))

	if a == b || b == c || a == c {
		t.Fatalf("distinct signatures share an index: %d %d %d", a, b, c)
	}
}

func TestSignatureRegistry_LookupRoundTrip(t *testing.T) {
	r := NewSignatureRegistry()
	want := sig([]types.ValueType{types.FuncRef, types.ExternRef}, []types.ValueType{types.I64})

	idx := r.Register(want)
	got, ok := r.Lookup(idx)
	if !ok {
		t.Fatal("lookup of a registered index failed")
	}
	if !got.Equal(want) {
		t.Fatalf("lookup returned %v, want %v", got, want)
	}
}

func TestSignatureRegistry_ForeignIndex(t *testing.T) {
	r := NewSignatureRegistry()
	r.Register(sig(nil, nil))

	if _, ok := r.Lookup(SignatureIndex(99)); ok {
		t.Error("lookup of a never-issued index should fail")
	}
}

func TestEngine_RegisterSignature(t *testing.T) {
	eng, _ := newTestEngine(t)

	a := eng.RegisterSignature(sig([]types.ValueType{types.I32}, nil))
	b := eng.RegisterSignature(sig([]types.ValueType{types.I32}, nil))
	if a != b {
		t.Fatalf("engine registration not idempotent: %d vs %d", a, b)
	}

	got, ok := eng.LookupSignature(a)
	if !ok || !got.Equal(sig([]types.ValueType{types.I32}, nil)) {
		t.Fatalf("engine lookup failed: %v %v", got, ok)
	}
}

func TestEngine_SignatureIndicesAreEngineLocal(t *testing.T) {
	a, _ := newTestEngine(t)
	b, _ := newTestEngine(t)

	// Warm engine a so its index space diverges from b's.
	a.RegisterSignature(sig(nil, []types.ValueType{types.F32}))
	a.RegisterSignature(sig(nil, []types.ValueType{types.F64}))

	common := sig([]types.ValueType{types.I64}, []types.ValueType{types.I64})
	idxA := a.RegisterSignature(common)
	idxB := b.RegisterSignature(common)

	// Same signature, different engines, different index spaces.
	if idxA == idxB {
		t.Fatalf("expected diverged index spaces, both engines returned %d", idxA)
	}
	if _, ok := b.LookupSignature(idxA); ok {
		t.Error("index issued by engine a should be unknown to engine b")
	}
}
