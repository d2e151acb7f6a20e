// Package misc keeps build time information.
package misc

import (
	"runtime/debug"
)

const appName = "storybook"

// set with -ldflags "-X storybook/misc.version=... -X storybook/misc.hash=..."
var (
	version = "dev"
	hash    = ""
)

// GetAppName returns program name used for logs, reports and temporary files.
func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

// GetGitHash returns commit hash program was built from. When not set at
// link time VCS information embedded by the toolchain is used.
func GetGitHash() string {
	if len(hash) > 0 {
		return hash
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
