package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestManager_Prepare(t *testing.T) {
	buildDir := filepath.Join(t.TempDir(), "_build")
	mgr := NewManager(buildDir)

	if err := mgr.Prepare(); err != nil {
		t.Fatalf("Prepare() failed: %v", err)
	}
	if mgr.GetPath() != buildDir {
		t.Errorf("GetPath() = %s, want %s", mgr.GetPath(), buildDir)
	}
	if fi, err := os.Stat(filepath.Join(buildDir, "doctrees")); err != nil || !fi.IsDir() {
		t.Errorf("doctree cache not created: %v", err)
	}

	// Prepare is idempotent and keeps existing content.
	marker := filepath.Join(buildDir, "doctrees", "environment.pickle")
	if err := os.WriteFile(marker, []byte("cache"), 0o600); err != nil {
		t.Fatalf("write marker: %v", err)
	}
	if err := mgr.Prepare(); err != nil {
		t.Fatalf("second Prepare() failed: %v", err)
	}
	if _, err := os.Stat(marker); err != nil {
		t.Errorf("doctree cache was lost on second Prepare(): %v", err)
	}
}

func TestManager_DefaultBuildDir(t *testing.T) {
	if got := NewManager("").GetPath(); got != "_build" {
		t.Errorf("default build dir = %q, want _build", got)
	}
}

func TestManager_TargetDir(t *testing.T) {
	if got, want := NewManager("out").TargetDir("latex"), filepath.Join("out", "latex"); got != want {
		t.Errorf("TargetDir() = %q, want %q", got, want)
	}
}

func TestManager_Clean(t *testing.T) {
	base := t.TempDir()
	buildDir := filepath.Join(base, "_build")
	mgr := NewManager(buildDir)
	if err := mgr.Prepare(); err != nil {
		t.Fatalf("Prepare() failed: %v", err)
	}
	if err := os.MkdirAll(mgr.TargetDir("html"), 0o750); err != nil {
		t.Fatalf("create html dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(buildDir, "build-report.json"), []byte("{}"), 0o600); err != nil {
		t.Fatalf("write report: %v", err)
	}
	sibling := filepath.Join(base, "index.rst")
	if err := os.WriteFile(sibling, []byte("src"), 0o600); err != nil {
		t.Fatalf("write sibling: %v", err)
	}

	removed, err := mgr.Clean()
	if err != nil {
		t.Fatalf("Clean() failed: %v", err)
	}
	if removed != 3 {
		t.Errorf("Clean() removed %d entries, want 3", removed)
	}
	entries, err := os.ReadDir(buildDir)
	if err != nil {
		t.Fatalf("build dir should still exist: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("build dir not empty after Clean(): %d entries", len(entries))
	}
	if _, err := os.Stat(sibling); err != nil {
		t.Errorf("Clean() touched files outside the build dir: %v", err)
	}
}

func TestManager_CleanMissingDir(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "never-built"))
	removed, err := mgr.Clean()
	if err != nil || removed != 0 {
		t.Errorf("Clean() on missing dir = (%d, %v), want (0, nil)", removed, err)
	}
}
