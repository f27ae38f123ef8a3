package compiler

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/experimental"

	"github.com/shuuji3/wasmer/errors"
	"github.com/shuuji3/wasmer/types"
	"github.com/shuuji3/wasmer/wasmbin"
)

// WazeroValidator validates core WebAssembly binaries using wazero's
// compiler front end, without generating any code. Backends embed it to get
// ValidateModule for free; headful engines use it through their backend, and
// the CLI uses it directly.
//
// TailCall is accepted but not checked; wazero's validator has no switch for
// it.
type WazeroValidator struct{}

// ValidateModule implements the validation half of the Compiler interface.
func (WazeroValidator) ValidateModule(features types.Features, wasm []byte) error {
	// wazero's reference-types switch gates ref instructions and table use
	// but still accepts funcref/externref value types in signatures, so
	// signatures are screened here.
	if !features.ReferenceTypes && signaturesUseRefTypes(wasm) {
		return errors.Feature("reference types")
	}

	ctx := context.Background()

	cfg := wazero.NewRuntimeConfigInterpreter().
		WithCoreFeatures(coreFeatures(features))

	r := wazero.NewRuntimeWithConfig(ctx, cfg)
	defer r.Close(ctx)

	compiled, err := r.CompileModule(ctx, wasm)
	if err != nil {
		return errors.Validate("module failed validation", err)
	}
	return compiled.Close(ctx)
}

// signaturesUseRefTypes reports whether any function signature in the type
// section carries a funcref or externref value. Modules it cannot parse
// report false; full validation rejects those anyway.
func signaturesUseRefTypes(wasm []byte) bool {
	sections, err := wasmbin.ReadSections(wasm)
	if err != nil {
		return false
	}
	for _, s := range sections {
		if s.ID != wasmbin.SectionType {
			continue
		}
		funcTypes, err := wasmbin.DecodeTypeSection(s.Contents)
		if err != nil {
			return false
		}
		for _, ft := range funcTypes {
			for _, vt := range ft.Params {
				if vt == types.FuncRef || vt == types.ExternRef {
					return true
				}
			}
			for _, vt := range ft.Results {
				if vt == types.FuncRef || vt == types.ExternRef {
					return true
				}
			}
		}
	}
	return false
}

func coreFeatures(f types.Features) api.CoreFeatures {
	// Proposals standardized before the switches below were added.
	features := api.CoreFeatureMutableGlobal |
		api.CoreFeatureSignExtensionOps |
		api.CoreFeatureNonTrappingFloatToIntConversion

	if f.BulkMemory {
		features |= api.CoreFeatureBulkMemoryOperations
	}
	if f.MultiValue {
		features |= api.CoreFeatureMultiValue
	}
	if f.ReferenceTypes {
		features |= api.CoreFeatureReferenceTypes
	}
	if f.SIMD {
		features |= api.CoreFeatureSIMD
	}
	if f.Threads {
		features |= experimental.CoreFeaturesThreads
	}
	return features
}
