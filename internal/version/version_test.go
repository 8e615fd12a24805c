package version

import (
	"strings"
	"testing"
)

func TestVersionDefaults(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if BuildTime == "" || GitCommit == "" {
		t.Error("build metadata should be initialized")
	}
}

func TestString(t *testing.T) {
	s := String()
	if !strings.HasPrefix(s, "sphinxbuilder ") {
		t.Fatalf("unexpected version line: %q", s)
	}
	if !strings.Contains(s, GitCommit) {
		t.Errorf("version line %q missing commit", s)
	}
}
