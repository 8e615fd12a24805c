package watch

import (
	"path/filepath"
	"strings"
)

// ignoreRules decides which paths never trigger a rebuild.
type ignoreRules struct {
	buildDir  string   // absolute
	generated []string // file name patterns
}

func (r ignoreRules) skipDir(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") || base == "__pycache__" || r.underBuildDir(path)
}

// shouldIgnore returns true for filesystem events that should not trigger rebuilds.
func (r ignoreRules) shouldIgnore(path string) bool {
	if r.underBuildDir(path) {
		return true
	}
	base := filepath.Base(path)

	// Hidden files and editor temp/swap files
	if strings.HasPrefix(base, ".") ||
		strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	if base == "Thumbs.db" || strings.HasSuffix(base, ".pyc") || base == "__pycache__" {
		return true
	}

	for _, p := range r.generated {
		if ok, _ := filepath.Match(p, base); ok {
			return true
		}
	}
	return false
}

func (r ignoreRules) underBuildDir(path string) bool {
	if r.buildDir == "" {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(r.buildDir, abs)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
