// Package buildinfo contains build information.
//
// Build information should be set during compilation by passing
// -ldflags "-X src.teel.sh/pkg/buildinfo.Var=value" to "go build".
package buildinfo

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"src.teel.sh/pkg/prog"
)

// VersionBase is the base of the version of teel. On development commits it
// is the next release.
const VersionBase = "0.2.0"

// VCSOverride may be set to a "pseudo-version" of the form
// "<timestamp>-<commit>" when building from a source tree without VCS
// information.
var VCSOverride string

// BuildInfo contains build information.
type BuildInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"goversion"`
}

// Value contains the build information of the running binary.
var Value = BuildInfo{
	Version:   devVersion(VersionBase, VCSOverride, debug.ReadBuildInfo),
	GoVersion: runtime.Version(),
}

func devVersion(next, vcsOverride string, readBuildInfo func() (*debug.BuildInfo, bool)) string {
	if vcsOverride != "" {
		return next + "-dev.0." + vcsOverride
	}
	fallback := next + "-dev.unknown"
	bi, ok := readBuildInfo()
	if !ok {
		return fallback
	}
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		return strings.TrimPrefix(v, "v")
	}
	var revision, timestamp string
	modified := false
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.time":
			timestamp = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}
	if revision == "" {
		return fallback
	}
	t, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return fallback
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	v := fmt.Sprintf("%s-dev.0.%s-%s", next, t.UTC().Format("20060102150405"), revision)
	if modified {
		v += "-dirty"
	}
	return v
}

// Program is the buildinfo subprogram.
type Program struct{}

// Run runs the program.
func (Program) Run(fds [3]*os.File, f *prog.Flags, _ []string) error {
	switch {
	case f.BuildInfo:
		if f.JSON {
			fmt.Fprintln(fds[1], mustToJSON(Value))
		} else {
			fmt.Fprintln(fds[1], "Version:", Value.Version)
			fmt.Fprintln(fds[1], "Go version:", Value.GoVersion)
		}
	case f.Version:
		if f.JSON {
			fmt.Fprintln(fds[1], mustToJSON(Value.Version))
		} else {
			fmt.Fprintln(fds[1], Value.Version)
		}
	default:
		return prog.ErrNotSuitable
	}
	return nil
}

func mustToJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
