// Package version reports the gitv build version.
package version

import "runtime/debug"

// version is set at build time with -ldflags "-X github.com/indaco/gitv/internal/version.version=...".
var version = ""

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// GetVersion returns the linked version, the module version for
// `go install` builds, or "dev".
func GetVersion() string {
	if version != "" {
		return version
	}
	if info, ok := readBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}
