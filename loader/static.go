package loader

import (
	"bytes"
	"os"

	"github.com/fxamacker/cbor/v2"

	"github.com/shuuji3/wasmer/errors"
)

// imageMagic prefixes every static image file.
var imageMagic = []byte("wasmer-static\x00")

// Image is the serializable form of a static library: code symbol names and
// named data blobs. Code addresses in a static library are opaque handle
// values, not callable pointers; Static exists for tests and tooling that
// exercise the load/deserialize pipeline without a system loader.
type Image struct {
	Symbols []string          `cbor:"symbols"`
	Blobs   map[string][]byte `cbor:"blobs"`
}

// Encode serializes the image to its file form.
func (img Image) Encode() ([]byte, error) {
	body, err := cbor.Marshal(img)
	if err != nil {
		return nil, err
	}
	return append(append([]byte(nil), imageMagic...), body...), nil
}

// DecodeImage parses an image from its file form.
func DecodeImage(data []byte) (Image, error) {
	if !bytes.HasPrefix(data, imageMagic) {
		return Image{}, errors.Load("not a static library image", nil)
	}
	var img Image
	if err := cbor.Unmarshal(data[len(imageMagic):], &img); err != nil {
		return Image{}, errors.Load("corrupt static library image", err)
	}
	return img, nil
}

// Static loads Image files instead of real shared objects.
type Static struct{}

// NewStatic returns the static image loader.
func NewStatic() Static {
	return Static{}
}

// Open implements Loader.
func (Static) Open(path string) (Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Load("read static library", err)
	}
	img, err := DecodeImage(data)
	if err != nil {
		return nil, err
	}

	lib := &staticLibrary{path: path, blobs: img.Blobs, symbols: make(map[string]uintptr, len(img.Symbols))}
	for i, sym := range img.Symbols {
		lib.symbols[sym] = uintptr(i + 1)
	}
	return lib, nil
}

type staticLibrary struct {
	symbols map[string]uintptr
	blobs   map[string][]byte
	path    string
}

func (l *staticLibrary) Lookup(symbol string) (uintptr, error) {
	addr, ok := l.symbols[symbol]
	if !ok {
		return 0, errors.SymbolMissing(errors.PhaseLoad, symbol, nil)
	}
	return addr, nil
}

func (l *staticLibrary) Blob(symbol string) ([]byte, error) {
	blob, ok := l.blobs[symbol]
	if !ok {
		return nil, errors.SymbolMissing(errors.PhaseLoad, symbol, nil)
	}
	return blob, nil
}

func (l *staticLibrary) Path() string {
	return l.path
}
