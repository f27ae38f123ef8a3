package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shuuji3/wasmer/types"
	"github.com/shuuji3/wasmer/wasmbin"
)

func TestInspectModule(t *testing.T) {
	b := wasmbin.NewBuilder()
	ty := b.AddType(types.NewFunctionType(nil, []types.ValueType{types.I32}))
	f := b.AddFunc(ty, []byte{wasmbin.OpI32Const, 7})
	b.ExportFunc("seven", f)

	require.NoError(t, inspectModule(b.Encode()))
}

func TestInspectModule_Garbage(t *testing.T) {
	require.Error(t, inspectModule([]byte("nope")))
}
