package version

import "testing"

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	if info.Version != "dev" {
		t.Errorf("expected default version dev, got %q", info.Version)
	}
	if info.GoVersion == "" {
		t.Error("expected go version from build info")
	}
}

func TestLdflagsOverride(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "1.2.3"
	if got := GetVersionInfo().Version; got != "1.2.3" {
		t.Errorf("expected 1.2.3, got %q", got)
	}
}
