package version

import (
	"strings"
	"testing"
)

func TestInfoString(t *testing.T) {
	info := Info{
		Version:   "1.2.0",
		GitCommit: "0123456789abcdef",
		BuildDate: "2026-03-02",
		GoVersion: "go1.24.1",
		Platform:  "linux/arm64",
	}
	want := "1.2.0 (commit 0123456, built 2026-03-02, go1.24.1 linux/arm64)"
	if got := info.String(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestGet(t *testing.T) {
	info := Get()
	if info.Version != Version {
		t.Errorf("Expected version %q, got %q", Version, info.Version)
	}
	if !strings.Contains(info.Platform, "/") {
		t.Errorf("Expected os/arch platform, got %q", info.Platform)
	}
}
