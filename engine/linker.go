package engine

import (
	"os/exec"

	"github.com/shuuji3/wasmer/errors"
)

// Linker identifies the native toolchain used to turn generated object code
// into a shared object.
type Linker int

const (
	// LinkerNone means no linker; headless engines never link.
	LinkerNone Linker = iota
	LinkerClang11
	LinkerClang10
	LinkerClang
	LinkerGcc
)

// Executable returns the linker's executable name.
func (l Linker) Executable() string {
	switch l {
	case LinkerClang11:
		return "clang-11"
	case LinkerClang10:
		return "clang-10"
	case LinkerClang:
		return "clang"
	case LinkerGcc:
		return "gcc"
	}
	return ""
}

// lookPathFunc probes the host search path for an executable. Matches the
// signature of exec.LookPath; tests substitute a fixed table.
type lookPathFunc func(file string) (string, error)

// findLinker picks the linker for this engine: cross-compiling prefers the
// clang family in descending version order, native linking requires gcc.
// The first candidate present on the search path wins. No candidate present
// is a construction-time error; callers treat it as fatal since no useful
// full engine can exist without a linker.
func findLinker(crossCompiling bool, lookPath lookPathFunc) (Linker, error) {
	var candidates []Linker
	var requirements string
	if crossCompiling {
		candidates = []Linker{LinkerClang11, LinkerClang10, LinkerClang}
		requirements = "at least one of `clang-11`, `clang-10`, or `clang`"
	} else {
		candidates = []Linker{LinkerGcc}
		requirements = "`gcc`"
	}

	for _, candidate := range candidates {
		if _, err := lookPath(candidate.Executable()); err == nil {
			return candidate, nil
		}
	}
	return LinkerNone, errors.LinkerNotFound(requirements, crossCompiling)
}

var systemLookPath lookPathFunc = exec.LookPath
