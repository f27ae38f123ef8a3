// Package loader abstracts the system dynamic loader. The engine loads each
// compiled artifact as a shared object through a Loader and keeps the
// resulting Library mapped for its entire lifetime; nothing here unloads.
package loader

// Loader opens shared objects from the filesystem.
type Loader interface {
	Open(path string) (Library, error)
}

// Library is one loaded shared object. Implementations never unmap the
// object; the engine relies on loaded code staying resident.
type Library interface {
	// Lookup resolves a code symbol to its address.
	Lookup(symbol string) (uintptr, error)

	// Blob resolves a data symbol laid out as a 64-bit little-endian length
	// followed by that many bytes, and returns the bytes.
	Blob(symbol string) ([]byte, error)

	// Path returns the filesystem path the library was loaded from.
	Path() string
}
