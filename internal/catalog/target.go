package catalog

import (
	"fmt"
	"runtime"
	"sort"
)

// Target describes the architecture whose word size sizes native-width
// integers and references.
type Target struct {
	Arch     string
	WordSize int // bytes
}

var targets = map[string]Target{
	"amd64":   {Arch: "amd64", WordSize: 8},
	"arm64":   {Arch: "arm64", WordSize: 8},
	"riscv64": {Arch: "riscv64", WordSize: 8},
	"386":     {Arch: "386", WordSize: 4},
	"arm":     {Arch: "arm", WordSize: 4},
}

// LookupTarget returns the target for an architecture name.
func LookupTarget(arch string) (Target, error) {
	t, ok := targets[arch]
	if !ok {
		return Target{}, fmt.Errorf("unsupported target %q: must be one of %v", arch, TargetNames())
	}
	return t, nil
}

// HostTarget returns the target for the running architecture, falling back
// to amd64 when the host is not a known target.
func HostTarget() Target {
	if t, ok := targets[runtime.GOARCH]; ok {
		return t
	}
	return targets["amd64"]
}

// TargetNames returns the supported architecture names, sorted.
func TargetNames() []string {
	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
