package engine

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	werrors "github.com/shuuji3/wasmer/errors"
	"github.com/shuuji3/wasmer/types"
)

func TestCompile_Pipeline(t *testing.T) {
	eng, fc := newTestEngine(t)

	artifact, err := eng.Compile(identityModule(), types.DefaultTunables(eng.Target()))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	if fc.compileCalls != 1 {
		t.Errorf("compiler invoked %d times, want 1", fc.compileCalls)
	}
	if eng.LoadedLibraries() != 1 {
		t.Errorf("library list = %d, want 1", eng.LoadedLibraries())
	}
	if artifact.Engine() != eng {
		t.Error("artifact does not point back at its engine")
	}

	exports := artifact.Exports()
	if len(exports) != 2 {
		t.Fatalf("got %d exports, want 2", len(exports))
	}

	answer, ok := artifact.Lookup("answer")
	if !ok {
		t.Fatal("export answer missing")
	}
	wantAnswer := types.NewFunctionType(nil, []types.ValueType{types.I32})
	if !answer.Signature.Equal(wantAnswer) {
		t.Errorf("answer signature = %v, want %v", answer.Signature, wantAnswer)
	}
	if answer.Address == 0 {
		t.Error("export address not resolved")
	}

	identity, ok := artifact.FunctionSignature("identity")
	if !ok {
		t.Fatal("export identity missing")
	}
	wantIdentity := types.NewFunctionType(
		[]types.ValueType{types.ExternRef},
		[]types.ValueType{types.ExternRef},
	)
	if !identity.Equal(wantIdentity) {
		t.Errorf("identity signature = %v, want %v", identity, wantIdentity)
	}

	if _, ok := artifact.Lookup("missing"); ok {
		t.Error("lookup of a nonexistent export succeeded")
	}
}

func TestCompile_SignaturesInterned(t *testing.T) {
	eng, _ := newTestEngine(t)

	artifact, err := eng.Compile(identityModule(), types.DefaultTunables(eng.Target()))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	for _, exp := range artifact.Exports() {
		got, ok := eng.LookupSignature(exp.SignatureIndex)
		if !ok {
			t.Fatalf("export %q carries an unregistered signature index", exp.Name)
		}
		if !got.Equal(exp.Signature) {
			t.Errorf("export %q: interned %v, carries %v", exp.Name, got, exp.Signature)
		}
	}
}

func TestCompile_DeterministicPrefixer(t *testing.T) {
	eng, _ := newTestEngine(t)
	eng.SetDeterministicPrefixer(func(wasm []byte) string {
		return fmt.Sprintf("m%d_", len(wasm))
	})

	module := identityModule()
	artifact, err := eng.Compile(module, types.DefaultTunables(eng.Target()))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	wantPrefix := fmt.Sprintf("m%d_", len(module))
	if artifact.Prefix() != wantPrefix {
		t.Errorf("artifact prefix = %q, want %q", artifact.Prefix(), wantPrefix)
	}
	for _, exp := range artifact.Exports() {
		if !strings.HasPrefix(exp.Symbol, wantPrefix) {
			t.Errorf("export %q symbol %q lacks prefix %q", exp.Name, exp.Symbol, wantPrefix)
		}
	}
}

func TestCompile_InvalidModule(t *testing.T) {
	eng, fc := newTestEngine(t)

	_, err := eng.Compile([]byte("junk"), types.DefaultTunables(eng.Target()))
	if err == nil {
		t.Fatal("garbage compiled")
	}
	if fc.compileCalls != 0 {
		t.Error("compiler invoked for a module that failed validation")
	}
	if eng.LoadedLibraries() != 0 {
		t.Error("failed compile leaked a library into the engine")
	}
}

func TestRunLinkCommand_ReportsToolchainFailure(t *testing.T) {
	// LinkerNone has no executable, so the invocation fails immediately.
	err := runLinkCommand(LinkerNone, "in.o", "meta.s", "out.so")
	if err == nil {
		t.Fatal("link with no executable succeeded")
	}
	if !errors.Is(err, werrors.LinkFailed("", nil)) {
		t.Errorf("expected a link/toolchain error, got %v", err)
	}
}

func TestCompile_MultipleModulesAppendLibraries(t *testing.T) {
	eng, _ := newTestEngine(t)
	tun := types.DefaultTunables(eng.Target())

	for i := 1; i <= 3; i++ {
		if _, err := eng.Compile(identityModule(), tun); err != nil {
			t.Fatalf("compile %d: %v", i, err)
		}
		if eng.LoadedLibraries() != i {
			t.Fatalf("after %d compiles library list = %d", i, eng.LoadedLibraries())
		}
	}
}
