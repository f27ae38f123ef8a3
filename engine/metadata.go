package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"

	"github.com/shuuji3/wasmer/compiler"
	"github.com/shuuji3/wasmer/errors"
	"github.com/shuuji3/wasmer/types"
)

// MetadataSymbol names the data symbol carrying the artifact metadata blob
// inside every shared object the engine produces. It is deliberately not
// prefixed: libraries are opened RTLD_LOCAL, so the symbol is resolved
// through each library's own handle and cannot collide across modules.
const MetadataSymbol = "wasmer_metadata"

// metadataVersion is bumped whenever the blob layout changes; a mismatch
// fails deserialization rather than guessing.
const metadataVersion = 1

// metadata is the blob embedded in (and read back from) every artifact. It
// carries everything needed to reconstruct the export surface without the
// original wasm binary.
type metadata struct {
	Version uint32           `cbor:"version"`
	Target  string           `cbor:"target"`
	Prefix  string           `cbor:"prefix"`
	Exports []exportMetadata `cbor:"exports"`
}

type exportMetadata struct {
	Name    string `cbor:"name"`
	Symbol  string `cbor:"symbol"` // includes the prefix
	Params  []byte `cbor:"params"`
	Results []byte `cbor:"results"`
}

func newMetadata(target types.Target, prefix string, exports []compiler.Export) metadata {
	meta := metadata{
		Version: metadataVersion,
		Target:  target.Triple(),
		Prefix:  prefix,
		Exports: make([]exportMetadata, 0, len(exports)),
	}
	for _, exp := range exports {
		meta.Exports = append(meta.Exports, exportMetadata{
			Name:    exp.Name,
			Symbol:  exp.Symbol,
			Params:  encodeValueTypes(exp.Signature.Params),
			Results: encodeValueTypes(exp.Signature.Results),
		})
	}
	return meta
}

func (m metadata) encode() ([]byte, error) {
	return cbor.Marshal(m)
}

func decodeMetadata(blob []byte) (metadata, error) {
	var m metadata
	if err := cbor.Unmarshal(blob, &m); err != nil {
		return metadata{}, errors.Deserialize("corrupt artifact metadata", err)
	}
	if m.Version != metadataVersion {
		return metadata{}, errors.New(errors.PhaseDeserialize, errors.KindIncompatible).
			Detail("artifact metadata version %d, this engine reads version %d", m.Version, metadataVersion).
			Build()
	}
	return m, nil
}

func (x exportMetadata) signature() types.FunctionType {
	return types.NewFunctionType(decodeValueTypes(x.Params), decodeValueTypes(x.Results))
}

func encodeValueTypes(vts []types.ValueType) []byte {
	if len(vts) == 0 {
		return nil
	}
	out := make([]byte, len(vts))
	for i, vt := range vts {
		out[i] = byte(vt)
	}
	return out
}

func decodeValueTypes(raw []byte) []types.ValueType {
	if len(raw) == 0 {
		return nil
	}
	out := make([]types.ValueType, len(raw))
	for i, b := range raw {
		out[i] = types.ValueType(b)
	}
	return out
}

// ArtifactInfo is the decoded, public view of an artifact's embedded
// metadata, for tooling that examines artifacts without loading their code
// into an engine.
type ArtifactInfo struct {
	Target  string
	Prefix  string
	Exports []ArtifactExportInfo
}

// ArtifactExportInfo describes one export in an ArtifactInfo.
type ArtifactExportInfo struct {
	Name      string
	Symbol    string
	Signature types.FunctionType
}

// InspectMetadata decodes an artifact metadata blob.
func InspectMetadata(blob []byte) (ArtifactInfo, error) {
	meta, err := decodeMetadata(blob)
	if err != nil {
		return ArtifactInfo{}, err
	}

	info := ArtifactInfo{
		Target:  meta.Target,
		Prefix:  meta.Prefix,
		Exports: make([]ArtifactExportInfo, 0, len(meta.Exports)),
	}
	for _, exp := range meta.Exports {
		info.Exports = append(info.Exports, ArtifactExportInfo{
			Name:      exp.Name,
			Symbol:    exp.Symbol,
			Signature: exp.signature(),
		})
	}
	return info, nil
}

// writeMetadataSource writes the metadata blob plus the assembly stub that
// embeds it into the shared object: a 64-bit length followed by the raw
// bytes, exported under MetadataSymbol. The linker assembles the stub along
// with the object code, so the blob travels inside the artifact itself.
func writeMetadataSource(dir string, blob []byte, target types.Target) (asmPath string, err error) {
	binPath := filepath.Join(dir, "metadata.bin")
	if err := os.WriteFile(binPath, blob, 0o644); err != nil {
		return "", err
	}

	symbol := MetadataSymbol
	section := ".rodata"
	if target.OS == "darwin" {
		// Mach-O mangles C symbols with a leading underscore and names
		// sections differently.
		symbol = "_" + MetadataSymbol
		section = "__DATA,__const"
	}

	asm := fmt.Sprintf(`	.section %s
	.globl %s
	.p2align 3
%s:
	.quad %d
	.incbin "%s"
`, section, symbol, symbol, len(blob), binPath)

	asmPath = filepath.Join(dir, "metadata.s")
	if err := os.WriteFile(asmPath, []byte(asm), 0o644); err != nil {
		return "", err
	}
	return asmPath, nil
}
