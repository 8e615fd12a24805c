package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sphinxbuilder/internal/logfields"
)

// doctreeSubdir must match the -d argument passed to sphinx-build.
const doctreeSubdir = "doctrees"

// Manager handles build directory operations.
type Manager struct {
	buildDir string
}

// NewManager creates a manager for buildDir. An empty buildDir means "_build".
func NewManager(buildDir string) *Manager {
	if buildDir == "" {
		buildDir = "_build"
	}
	return &Manager{buildDir: buildDir}
}

// GetPath returns the build directory.
func (m *Manager) GetPath() string {
	return m.buildDir
}

// Prepare ensures the build directory and the doctree cache exist.
func (m *Manager) Prepare() error {
	if err := os.MkdirAll(filepath.Join(m.buildDir, doctreeSubdir), 0o750); err != nil {
		return fmt.Errorf("failed to create build directory: %w", err)
	}
	slog.Debug("Build directory ready", logfields.Path(m.buildDir))
	return nil
}

// TargetDir returns the output directory for a target's subdirectory, as
// recorded in the build report.
func (m *Manager) TargetDir(outputDir string) string {
	return filepath.Join(m.buildDir, outputDir)
}

// Clean removes every entry under the build directory and returns how many
// top-level entries were deleted. A missing build directory is not an error.
func (m *Manager) Clean() (int, error) {
	entries, err := os.ReadDir(m.buildDir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read build directory: %w", err)
	}
	removed := 0
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(m.buildDir, e.Name())); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", e.Name(), err)
		}
		removed++
	}
	slog.Info("Cleaned build directory", logfields.Path(m.buildDir), logfields.Count(removed))
	return removed, nil
}
