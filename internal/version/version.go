// Package version holds build metadata for glueregen.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time:
// go build -ldflags "-X git.home.luguber.info/inful/glueregen/internal/version.Version=v0.3.0".
var (
	Version   = "unknown"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const unknown = "unknown"

// String renders the version line printed by --version. Values not set via
// ldflags fall back to the module build info embedded by go install.
func String() string {
	v, commit, built := Version, GitCommit, BuildTime
	if info, ok := debug.ReadBuildInfo(); ok {
		v, commit, built = fromBuildInfo(info, v, commit, built)
	}
	return fmt.Sprintf("glueregen %s (commit %s, built %s)", v, commit, built)
}

func fromBuildInfo(info *debug.BuildInfo, v, commit, built string) (string, string, string) {
	if v == unknown && info.Main.Version != "" && info.Main.Version != "(devel)" {
		v = info.Main.Version
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if commit == unknown && s.Value != "" {
				commit = s.Value
				if len(commit) > 12 {
					commit = commit[:12]
				}
			}
		case "vcs.time":
			if built == unknown && s.Value != "" {
				built = s.Value
			}
		}
	}
	return v, commit, built
}
