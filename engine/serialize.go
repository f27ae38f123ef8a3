package engine

import (
	"os"

	"go.uber.org/zap"

	"github.com/shuuji3/wasmer/errors"
)

// Deserialize loads a previously serialized artifact from bytes. The bytes
// must be a shared object produced by a compatible engine configuration:
// same target triple, same metadata version. Works on full and headless
// engines alike.
//
// The bytes are staged to a temporary file because the system loader maps
// from paths; the file must stay in place while the engine lives.
func (e *NativeEngine) Deserialize(serialized []byte) (*Artifact, error) {
	f, err := os.CreateTemp("", "wasmer-artifact-*.so")
	if err != nil {
		return nil, errors.Deserialize("staging artifact bytes", err)
	}
	path := f.Name()
	if _, err := f.Write(serialized); err != nil {
		f.Close()
		return nil, errors.Deserialize("staging artifact bytes", err)
	}
	if err := f.Close(); err != nil {
		return nil, errors.Deserialize("staging artifact bytes", err)
	}

	return e.DeserializeFromFile(path)
}

// DeserializeFromFile loads a previously serialized artifact from a shared
// object file produced by a compatible engine configuration.
func (e *NativeEngine) DeserializeFromFile(path string) (*Artifact, error) {
	e.inner.mu.Lock()
	defer e.inner.mu.Unlock()

	lib, err := e.inner.ldr.Open(path)
	if err != nil {
		return nil, errors.Deserialize("loading shared object", err)
	}

	blob, err := lib.Blob(MetadataSymbol)
	if err != nil {
		return nil, errors.Deserialize("object carries no artifact metadata", err)
	}

	meta, err := decodeMetadata(blob)
	if err != nil {
		return nil, err
	}

	if meta.Target != e.target.Triple() {
		return nil, errors.IncompatibleTarget(meta.Target, e.target.Triple())
	}

	artifact, err := e.wrapLibrary(lib, meta)
	if err != nil {
		return nil, errors.Deserialize("resolving artifact exports", err)
	}

	Logger().Debug("artifact deserialized",
		zap.Uint64("engine", uint64(e.id)),
		zap.String("path", path),
		zap.Int("exports", len(artifact.exports)))

	return artifact, nil
}
