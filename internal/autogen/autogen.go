// Package autogen runs the pre-build step that produces the generated
// reference pages: the library's native extension is compiled in place, then
// an introspection script writes reStructuredText files into the source tree.
package autogen

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"git.home.luguber.info/inful/sphinxbuilder/internal/config"
	derrors "git.home.luguber.info/inful/sphinxbuilder/internal/errors"
	"git.home.luguber.info/inful/sphinxbuilder/internal/logfields"
	"git.home.luguber.info/inful/sphinxbuilder/internal/runner"
)

// Step names used in errors and logs.
const (
	StepCompile    = "compile"
	StepIntrospect = "introspect"
)

// Step runs the compile and introspection commands.
type Step struct {
	cfg    *config.Config
	runner runner.Runner
	env    map[string]string
}

// New creates a Step. env is exported to both commands.
func New(cfg *config.Config, r runner.Runner, env map[string]string) *Step {
	return &Step{cfg: cfg, runner: r, env: env}
}

// Compile builds the native extension in place.
func (s *Step) Compile(ctx context.Context) error {
	argv, err := s.cfg.CompileArgv()
	if err != nil {
		return derrors.AutogenFailed(StepCompile, err)
	}
	cmd := runner.Command{
		Name: argv[0],
		Args: argv[1:],
		Dir:  s.cfg.SourcePath(s.cfg.Autogen.CompileDir),
		Env:  s.env,
	}
	return s.run(ctx, StepCompile, cmd)
}

// Introspect runs the generator script from the source directory.
func (s *Step) Introspect(ctx context.Context) error {
	argv, err := s.cfg.IntrospectArgv()
	if err != nil {
		return derrors.AutogenFailed(StepIntrospect, err)
	}
	cmd := runner.Command{
		Name: argv[0],
		Args: argv[1:],
		Dir:  s.cfg.Sphinx.SourceDir,
		Env:  s.env,
	}
	return s.run(ctx, StepIntrospect, cmd)
}

// Run compiles and introspects, returning the generated files.
func (s *Step) Run(ctx context.Context) ([]string, error) {
	if err := s.Compile(ctx); err != nil {
		return nil, err
	}
	if err := s.Introspect(ctx); err != nil {
		return nil, err
	}
	return Generated(s.cfg)
}

func (s *Step) run(ctx context.Context, step string, cmd runner.Command) error {
	start := time.Now()
	slog.Info("Running autogen step", logfields.Stage(step), logfields.Command(cmd.String()))
	if err := s.runner.Run(ctx, cmd); err != nil {
		return derrors.AutogenFailed(step, err).WithContext("command", cmd.String())
	}
	slog.Debug("Autogen step finished", logfields.Stage(step),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return nil
}

// Generated lists the files the last run produced.
func (s *Step) Generated() ([]string, error) { return Generated(s.cfg) }

// Clean deletes the generated files.
func (s *Step) Clean() ([]string, error) { return Clean(s.cfg) }

// Generated lists files in the source directory matching the generated patterns.
func Generated(cfg *config.Config) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	for _, pattern := range cfg.Autogen.GeneratedPatterns {
		matches, err := filepath.Glob(filepath.Join(cfg.Sphinx.SourceDir, pattern))
		if err != nil {
			return nil, derrors.ValidationFailed("autogen.generated_patterns", err.Error())
		}
		for _, m := range matches {
			if fi, statErr := os.Stat(m); statErr != nil || fi.IsDir() {
				continue
			}
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}

// Clean deletes the generated files and returns what was removed.
func Clean(cfg *config.Config) ([]string, error) {
	files, err := Generated(cfg)
	if err != nil {
		return nil, err
	}
	removed := make([]string, 0, len(files))
	for _, f := range files {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			return removed, derrors.FileSystemError("remove", f, err)
		}
		removed = append(removed, f)
	}
	if len(removed) > 0 {
		slog.Info("Removed generated reference files", logfields.Count(len(removed)))
	}
	return removed, nil
}
