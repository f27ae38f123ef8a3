package types

import "runtime"

// Target describes the architecture/OS/ABI triple code is generated for.
type Target struct {
	Arch string // e.g. "amd64", "arm64"
	OS   string // e.g. "linux", "darwin"
	ABI  string // e.g. "gnu", "musl"; empty for the platform default
}

// HostTarget returns the target describing the machine this process runs on.
func HostTarget() Target {
	return Target{
		Arch: runtime.GOARCH,
		OS:   runtime.GOOS,
	}
}

// Triple renders the target as an arch-os-abi string.
func (t Target) Triple() string {
	s := t.Arch + "-" + t.OS
	if t.ABI != "" {
		s += "-" + t.ABI
	}
	return s
}

// Equal reports whether two targets describe the same triple.
func (t Target) Equal(other Target) bool {
	return t.Arch == other.Arch && t.OS == other.OS && t.ABI == other.ABI
}

// IsHost reports whether the target matches the current machine.
func (t Target) IsHost() bool {
	return t.Arch == runtime.GOARCH && t.OS == runtime.GOOS
}
