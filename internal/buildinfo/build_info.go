// Package buildinfo describes the rcplay binary for its startup log line.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// BuildInfo is the version stamp of a binary. The fields are set with -ldflags at link time.
type BuildInfo struct {
	Version    string
	CommitHash string
	BuildDate  string
	GoVersion  string
}

// New creates the stamp, falling back to the VCS data the go command embeds when the commit was
// not set at link time.
func New(version, commitHash, buildDate string) BuildInfo {
	i := BuildInfo{Version: version, CommitHash: commitHash, BuildDate: buildDate}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return i
	}
	i.GoVersion = info.GoVersion
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if i.CommitHash == "" || i.CommitHash == "n/a" {
				i.CommitHash = s.Value
			}
		case "vcs.time":
			if i.BuildDate == "" || i.BuildDate == "<unknown>" {
				i.BuildDate = s.Value
			}
		}
	}
	return i
}

func (i BuildInfo) String() string {
	return fmt.Sprintf("version %s (%s) built on %s", i.Version, i.CommitHash, i.BuildDate)
}

// KeysAndValues returns the stamp as logr key/value pairs.
func (i BuildInfo) KeysAndValues() []any {
	return []any{"version", i.Version, "commit", i.CommitHash, "built", i.BuildDate, "go", i.GoVersion}
}
