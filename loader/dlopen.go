//go:build linux || darwin || freebsd

package loader

import (
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/shuuji3/wasmer/errors"
)

// Dlopen loads shared objects through the system dynamic loader.
//
// Objects are opened RTLD_LOCAL so symbols from independently compiled
// modules never collide in the process namespace; every lookup goes through
// the library's own handle.
type Dlopen struct{}

// NewDlopen returns the system dynamic loader.
func NewDlopen() Dlopen {
	return Dlopen{}
}

// Open implements Loader.
func (Dlopen) Open(path string) (Library, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, errors.Load("dlopen failed", err)
	}
	return &dlopenLibrary{handle: handle, path: path}, nil
}

type dlopenLibrary struct {
	handle uintptr
	path   string
}

func (l *dlopenLibrary) Lookup(symbol string) (uintptr, error) {
	addr, err := purego.Dlsym(l.handle, symbol)
	if err != nil {
		return 0, errors.SymbolMissing(errors.PhaseLoad, symbol, err)
	}
	return addr, nil
}

func (l *dlopenLibrary) Blob(symbol string) ([]byte, error) {
	addr, err := l.Lookup(symbol)
	if err != nil {
		return nil, err
	}
	length := *(*uint64)(unsafe.Pointer(addr))
	return unsafe.Slice((*byte)(unsafe.Pointer(addr+8)), length), nil
}

func (l *dlopenLibrary) Path() string {
	return l.path
}
