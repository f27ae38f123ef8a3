//go:build !(linux || darwin || freebsd)

package loader

import "github.com/shuuji3/wasmer/errors"

// Dlopen is unavailable on this platform; Open always fails.
type Dlopen struct{}

// NewDlopen returns the system dynamic loader stub.
func NewDlopen() Dlopen {
	return Dlopen{}
}

// Open implements Loader.
func (Dlopen) Open(path string) (Library, error) {
	return nil, errors.Load("dynamic loading is not supported on this platform", nil)
}
