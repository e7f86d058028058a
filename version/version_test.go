package version

import (
	"runtime/debug"
	"testing"
)

func stubBuild(t *testing.T, bi *debug.BuildInfo, ok bool) {
	t.Helper()
	origRead := readBuildInfo
	origVersion, origCommit, origTime := Version, Commit, BuildTime
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, ok }
	t.Cleanup(func() {
		readBuildInfo = origRead
		Version, Commit, BuildTime = origVersion, origCommit, origTime
	})
}

func TestGetWithoutBuildInfo(t *testing.T) {
	stubBuild(t, nil, false)
	Version, Commit, BuildTime = "dev", "", ""

	info := Get()
	if info.Version != "dev" || info.Commit != "" {
		t.Errorf("unexpected info %+v", info)
	}
	if info.IsRelease() {
		t.Error("dev should not be a release")
	}
	if info.String() != "dev" {
		t.Errorf("expected plain dev, got %q", info.String())
	}
}

func TestGetFillsFromVCS(t *testing.T) {
	stubBuild(t, &debug.BuildInfo{
		GoVersion: "go1.25.0",
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}, true)
	Version, Commit, BuildTime = "1.2.0", "", ""

	info := Get()
	if info.Commit != "0123456" {
		t.Errorf("expected truncated commit, got %q", info.Commit)
	}
	if info.BuildTime != "2026-01-02T03:04:05Z" {
		t.Errorf("expected vcs time, got %q", info.BuildTime)
	}
	if !info.Dirty || info.IsRelease() {
		t.Errorf("expected dirty non-release, got %+v", info)
	}
	if got := info.Short(); got != "1.2.0-0123456-dirty" {
		t.Errorf("unexpected short version %q", got)
	}
	if got := info.String(); got != "1.2.0-0123456-dirty (built 2026-01-02T03:04:05Z) go1.25.0" {
		t.Errorf("unexpected full version %q", got)
	}
}

func TestLinkTimeValuesWin(t *testing.T) {
	stubBuild(t, &debug.BuildInfo{
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "ffffffffff"}},
	}, true)
	Version, Commit, BuildTime = "2.0.0", "abc1234", "2026-05-01T00:00:00Z"

	info := Get()
	if info.Commit != "abc1234" || info.BuildTime != "2026-05-01T00:00:00Z" {
		t.Errorf("expected link-time values, got %+v", info)
	}
	if !info.IsRelease() {
		t.Error("expected release build")
	}
}
