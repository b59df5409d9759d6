package buildinfo

import (
	"fmt"
	"runtime/debug"
	"testing"

	. "src.teel.sh/pkg/prog/progtest"
	"src.teel.sh/pkg/tt"
)

func TestProgram(t *testing.T) {
	Test(t, Program{},
		ThatTeel("-version").WritesStdout(Value.Version+"\n"),
		ThatTeel("-version", "-json").WritesStdout(mustToJSON(Value.Version)+"\n"),
		ThatTeel("-buildinfo").WritesStdout(
			fmt.Sprintf("Version: %v\nGo version: %v\n", Value.Version, Value.GoVersion)),
		ThatTeel("-buildinfo", "-json").WritesStdout(mustToJSON(Value)+"\n"),
		ThatTeel("-buildinfo", "-version").WritesStdoutContaining("Go version:"),

		ThatTeel().ExitsWith(2).WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func vcs(revision, time, modified string) *debug.BuildInfo {
	return &debug.BuildInfo{Settings: []debug.BuildSetting{
		{Key: "vcs.revision", Value: revision},
		{Key: "vcs.time", Value: time},
		{Key: "vcs.modified", Value: modified},
	}}
}

// versionOf calls devVersion with "1.0.0" as the next version.
func versionOf(vcsOverride string, bi *debug.BuildInfo) string {
	return devVersion("1.0.0", vcsOverride, func() (*debug.BuildInfo, bool) {
		return bi, bi != nil
	})
}

func TestDevVersion(t *testing.T) {
	tt.Test(t, tt.Fn("devVersion", versionOf), tt.Table{
		tt.Args("", (*debug.BuildInfo)(nil)).Rets("1.0.0-dev.unknown"),
		tt.Args("", &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}).
			Rets("1.0.0-dev.unknown"),
		tt.Args("", &debug.BuildInfo{Main: debug.Module{Version: "v1.0.0-rc1"}}).
			Rets("1.0.0-rc1"),

		tt.Args("", vcs("abcdef0123456789", "2026-10-17T08:09:10Z", "false")).
			Rets("1.0.0-dev.0.20261017080910-abcdef012345"),
		tt.Args("", vcs("abcdef0123456789", "2026-10-17T08:09:10Z", "true")).
			Rets("1.0.0-dev.0.20261017080910-abcdef012345-dirty"),
		tt.Args("", vcs("abc", "2026-10-17T08:09:10+02:00", "false")).
			Rets("1.0.0-dev.0.20261017060910-abc"),
		tt.Args("", vcs("abcdef0123456789", "yesterday", "false")).
			Rets("1.0.0-dev.unknown"),
		tt.Args("", vcs("", "2026-10-17T08:09:10Z", "false")).
			Rets("1.0.0-dev.unknown"),

		tt.Args("20261017080910-abcdef012345", (*debug.BuildInfo)(nil)).
			Rets("1.0.0-dev.0.20261017080910-abcdef012345"),
	})
}
