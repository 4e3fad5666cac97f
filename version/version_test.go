package version

import (
	"strings"
	"testing"
)

func setBuildVars(t *testing.T, version, commit, buildTime string) {
	t.Helper()
	origVersion, origCommit, origBuildTime := Version, GitCommit, BuildTime
	t.Cleanup(func() {
		Version, GitCommit, BuildTime = origVersion, origCommit, origBuildTime
	})
	Version, GitCommit, BuildTime = version, commit, buildTime
}

func TestGetVersionInfo_DevDefaults(t *testing.T) {
	setBuildVars(t, "dev", "", "")

	info := GetVersionInfo()
	if info.Version != "dev" {
		t.Errorf("Version = %q, want dev", info.Version)
	}
	if info.IsRelease {
		t.Error("dev build reported as a release")
	}
	if info.BuildDate.IsZero() {
		t.Error("BuildDate not filled")
	}
}

func TestGetVersionInfo_LdflagsWin(t *testing.T) {
	setBuildVars(t, "1.2.0", "abc1234", "2026-01-15T10:30:00Z")

	info := GetVersionInfo()
	if info.Version != "1.2.0" {
		t.Errorf("Version = %q, want 1.2.0", info.Version)
	}
	if !info.IsRelease {
		t.Error("tagged build not reported as a release")
	}
	if info.GitCommit != "abc1234" {
		t.Errorf("GitCommit = %q, want abc1234", info.GitCommit)
	}
	if info.BuildDate.Year() != 2026 {
		t.Errorf("BuildDate year = %d, want 2026", info.BuildDate.Year())
	}
}

func TestGetVersionInfo_DirtyVersionIsNotRelease(t *testing.T) {
	setBuildVars(t, "1.2.0-dirty", "", "")

	if GetVersionInfo().IsRelease {
		t.Error("dirty build reported as a release")
	}
}

func TestGetShortVersion(t *testing.T) {
	setBuildVars(t, "1.2.0", "abc1234", "2026-01-01T00:00:00Z")

	if got := GetShortVersion(); got != "1.2.0-abc1234" {
		t.Errorf("GetShortVersion() = %q, want 1.2.0-abc1234", got)
	}
}

func TestGetShortVersion_NoCommit(t *testing.T) {
	setBuildVars(t, "dev", "", "")

	if got := GetShortVersion(); !strings.HasPrefix(got, "dev") {
		t.Errorf("GetShortVersion() = %q, want a dev prefix", got)
	}
}

func TestShortCommit(t *testing.T) {
	if got := shortCommit("abcdef0123456789"); got != "abcdef0" {
		t.Errorf("shortCommit() = %q, want abcdef0", got)
	}
	if got := shortCommit("abc"); got != "abc" {
		t.Errorf("shortCommit() = %q, want abc unchanged", got)
	}
}
