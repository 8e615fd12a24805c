// Package sphinx builds the sphinx-build command line for a target.
package sphinx

import (
	"bytes"
	"context"
	"path/filepath"
	"regexp"

	"git.home.luguber.info/inful/sphinxbuilder/internal/config"
	"git.home.luguber.info/inful/sphinxbuilder/internal/runner"
	"git.home.luguber.info/inful/sphinxbuilder/internal/targets"
)

// DoctreeDir is the pickled environment cache shared by all builders.
const DoctreeDir = "doctrees"

// Invocation is one sphinx-build call.
type Invocation struct {
	Binary    string
	Builder   string
	SourceDir string
	BuildDir  string
	OutputDir string
	Paper     config.PaperSize
	Opts      []string
}

// NewInvocation derives the invocation for target t. The paper size is only
// carried for print targets.
func NewInvocation(cfg *config.Config, t targets.Target) (Invocation, error) {
	opts, err := cfg.SphinxOpts()
	if err != nil {
		return Invocation{}, err
	}
	inv := Invocation{
		Binary:    cfg.Sphinx.Binary,
		Builder:   t.Builder,
		SourceDir: cfg.Sphinx.SourceDir,
		BuildDir:  cfg.Sphinx.BuildDir,
		OutputDir: t.Dir(cfg.Sphinx.BuildDir),
		Opts:      opts,
	}
	if t.Print {
		inv.Paper = cfg.Sphinx.Paper
	}
	return inv, nil
}

// Args returns the argument vector, excluding the binary:
//
//	-b <builder> -d <builddir>/doctrees [-D latex_paper_size=<paper>] <opts...> <source> <output>
func (i Invocation) Args() []string {
	args := []string{"-b", i.Builder, "-d", filepath.Join(i.BuildDir, DoctreeDir)}
	if i.Paper != config.PaperNone {
		args = append(args, "-D", "latex_paper_size="+string(i.Paper))
	}
	args = append(args, i.Opts...)
	return append(args, i.SourceDir, i.OutputDir)
}

// Command wraps the invocation for a runner.
func (i Invocation) Command(env map[string]string) runner.Command {
	return runner.Command{Name: i.Binary, Args: i.Args(), Env: env}
}

// PostBuildCommand returns the command run after sphinx-build for targets
// that need one, e.g. latexpdf's "make -C <builddir>/latex all-pdf".
func PostBuildCommand(cfg *config.Config, t targets.Target, env map[string]string) (runner.Command, bool) {
	switch t.PostBuild {
	case targets.PostBuildLatexPDF:
		return runner.Command{
			Name: cfg.Latex.MakeBinary,
			Args: []string{"-C", t.Dir(cfg.Sphinx.BuildDir), "all-pdf"},
			Env:  env,
		}, true
	default:
		return runner.Command{}, false
	}
}

var versionPattern = regexp.MustCompile(`(\d+\.\d+(?:\.\d+)?)`)

// ParseVersion extracts the version number from `sphinx-build --version` output.
func ParseVersion(output string) string {
	if m := versionPattern.FindStringSubmatch(output); len(m) >= 2 {
		return m[1]
	}
	return ""
}

// DetectVersion asks binary for its version; empty when unavailable. env is
// the tool environment, so wrappers that need PYTHONPATH resolve as they do
// for the build itself.
func DetectVersion(ctx context.Context, binary string, env map[string]string) string {
	var out bytes.Buffer
	r := &runner.ExecRunner{Stdout: &out, Stderr: &out}
	if err := r.Run(ctx, runner.Command{Name: binary, Args: []string{"--version"}, Env: env}); err != nil {
		return ""
	}
	return ParseVersion(out.String())
}
