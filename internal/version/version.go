package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

//nolint:gochecknoglobals // Overridden via ldflags.
var (
	// Version is the semantic version of the build.
	Version = "0.1.0"
	// Commit is the short git SHA embedded at build time.
	Commit = ""
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = ""
)

// shortCommitLength is the length of an abbreviated git SHA.
const shortCommitLength = 7

// Short returns only the semantic version string.
func Short() string {
	return Version
}

// Full returns a human-readable version string with commit, build time and Go version.
func Full() string {
	commit, built := stamp(debug.ReadBuildInfo)

	return fmt.Sprintf("desk-clock %s (commit: %s, built at: %s, %s)", Version, commit, built, runtime.Version())
}

// stamp resolves the commit and build time, preferring ldflags over build info.
func stamp(read func() (*debug.BuildInfo, bool)) (string, string) {
	commit, built := Commit, BuildTime

	if info, ok := read(); ok && (commit == "" || built == "") {
		for _, setting := range info.Settings {
			switch {
			case setting.Key == "vcs.revision" && commit == "":
				commit = setting.Value
			case setting.Key == "vcs.time" && built == "":
				built = setting.Value
			}
		}
	}

	if len(commit) > shortCommitLength {
		commit = commit[:shortCommitLength]
	}

	if commit == "" {
		commit = "none"
	}

	if built == "" {
		built = "unknown"
	}

	return commit, built
}
