package types

// Features is the set of WebAssembly proposals enabled for validation and
// compilation. The zero value enables nothing; use DefaultFeatures for the
// baseline the engine ships with.
type Features struct {
	Threads        bool
	ReferenceTypes bool
	SIMD           bool
	BulkMemory     bool
	MultiValue     bool
	TailCall       bool
}

// DefaultFeatures returns the feature set enabled by default: the proposals
// that are standardized and on by default in the toolchains we target.
func DefaultFeatures() Features {
	return Features{
		ReferenceTypes: true,
		BulkMemory:     true,
		MultiValue:     true,
	}
}

// Tunables carries configuration influencing code generation. It is consumed
// opaquely by the Compiler; the engine only threads it through.
type Tunables interface {
	// StaticMemoryBound returns the number of pages up to which memories are
	// allocated statically (guard-page based bounds checks).
	StaticMemoryBound() uint32

	// MemoryGuardSize returns the size in bytes of the guard region placed
	// after each linear memory.
	MemoryGuardSize() uint64
}

// BasicTunables is the default Tunables implementation.
type BasicTunables struct {
	StaticBound uint32
	GuardSize   uint64
}

// DefaultTunables returns tunables suitable for the given target: 4 GiB
// static bounds with 2 GiB guards on 64-bit hosts.
func DefaultTunables(target Target) BasicTunables {
	switch target.Arch {
	case "amd64", "arm64":
		return BasicTunables{StaticBound: 0x1_0000, GuardSize: 0x8000_0000}
	default:
		// 32-bit targets get dynamic memories with small guards.
		return BasicTunables{StaticBound: 0, GuardSize: 0x1_0000}
	}
}

func (t BasicTunables) StaticMemoryBound() uint32 { return t.StaticBound }

func (t BasicTunables) MemoryGuardSize() uint64 { return t.GuardSize }
