// Package contracts holds the build identity shared by every binary.
package contracts

import (
	"fmt"
	"runtime"
)

// Version is the current application version.
const Version = "1.0.0"

// Set at build time via ldflags.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// VersionInfo contains detailed build information.
type VersionInfo struct {
	Version      string `json:"version"`
	BuildTime    string `json:"build_time"`
	GitCommit    string `json:"git_commit"`
	GoVersion    string `json:"go_version"`
	OS           string `json:"os"`
	Architecture string `json:"architecture"`
}

// GetVersionInfo returns detailed build information.
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:      Version,
		BuildTime:    BuildTime,
		GitCommit:    GitCommit,
		GoVersion:    runtime.Version(),
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
	}
}

// GetVersionString returns a formatted version string.
func GetVersionString() string {
	return fmt.Sprintf("Order KPI Pipeline v%s", Version)
}
