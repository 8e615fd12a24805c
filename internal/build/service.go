package build

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/sphinxbuilder/internal/autogen"
	"git.home.luguber.info/inful/sphinxbuilder/internal/config"
	derrors "git.home.luguber.info/inful/sphinxbuilder/internal/errors"
	"git.home.luguber.info/inful/sphinxbuilder/internal/git"
	"git.home.luguber.info/inful/sphinxbuilder/internal/logfields"
	"git.home.luguber.info/inful/sphinxbuilder/internal/metrics"
	"git.home.luguber.info/inful/sphinxbuilder/internal/observability"
	"git.home.luguber.info/inful/sphinxbuilder/internal/runner"
	"git.home.luguber.info/inful/sphinxbuilder/internal/sphinx"
	"git.home.luguber.info/inful/sphinxbuilder/internal/targets"
	"git.home.luguber.info/inful/sphinxbuilder/internal/workspace"
)

// Request selects the target to build.
type Request struct {
	Target string
	// SkipAutogen leaves the compile and introspection stages out even when
	// autogen is enabled in the configuration.
	SkipAutogen bool
}

// Service runs target builds. All execution paths (CLI targets, watch mode,
// tests) go through Run.
type Service struct {
	cfg      *config.Config
	runner   runner.Runner
	recorder metrics.Recorder
	out      io.Writer

	getenv        func(string) string
	revision      func(dir string) git.Revision
	sphinxVersion func(ctx context.Context, binary string, env map[string]string) string
}

// NewService creates a Service with production defaults.
func NewService(cfg *config.Config, r runner.Runner) *Service {
	return &Service{
		cfg:           cfg,
		runner:        r,
		recorder:      metrics.NoopRecorder{},
		out:           os.Stdout,
		getenv:        os.Getenv,
		revision:      git.SourceRevision,
		sphinxVersion: sphinx.DetectVersion,
	}
}

// WithRecorder sets the metrics recorder.
func (s *Service) WithRecorder(r metrics.Recorder) *Service {
	if r != nil {
		s.recorder = r
	}
	return s
}

// WithOutput sets where the completion messages are printed.
func (s *Service) WithOutput(w io.Writer) *Service {
	s.out = w
	return s
}

// WithGetenv replaces the environment lookup used for PYTHONPATH (for testing).
func (s *Service) WithGetenv(fn func(string) string) *Service {
	s.getenv = fn
	return s
}

// WithRevisionFunc replaces the source revision lookup (for testing).
func (s *Service) WithRevisionFunc(fn func(dir string) git.Revision) *Service {
	s.revision = fn
	return s
}

// WithVersionFunc replaces the sphinx-build version lookup (for testing).
func (s *Service) WithVersionFunc(fn func(ctx context.Context, binary string, env map[string]string) string) *Service {
	s.sphinxVersion = fn
	return s
}

// Run builds one target. The returned report is non-nil whenever the stage
// list was started, including failed and canceled runs.
func (s *Service) Run(ctx context.Context, req Request) (*Report, error) {
	t, ok := targets.Lookup(req.Target)
	if !ok {
		return nil, derrors.UnknownTarget(req.Target)
	}
	env, err := s.cfg.ToolEnv(s.getenv)
	if err != nil {
		return nil, derrors.ValidationFailed("env", err.Error())
	}
	inv, err := sphinx.NewInvocation(s.cfg, t)
	if err != nil {
		return nil, derrors.ValidationFailed("sphinx.opts", err.Error())
	}

	ws := workspace.NewManager(s.cfg.Sphinx.BuildDir)
	rev := s.revision(s.cfg.Sphinx.SourceDir)

	report := NewReport(t)
	report.OutputDir = ws.TargetDir(t.OutputDir)
	report.SourceRevision = rev.Hash
	report.SourceBranch = rev.Branch
	report.SphinxVersion = s.sphinxVersion(ctx, s.cfg.Sphinx.Binary, env)

	st := &State{
		Config:     s.cfg,
		Target:     t,
		Env:        env,
		Invocation: inv,
		Runner:     s.runner,
		Workspace:  ws,
		Autogen:    autogen.New(s.cfg, s.runner, env),
		Report:     report,
		Recorder:   s.recorder,
	}

	runAutogen := s.cfg.Autogen.IsEnabled() && !req.SkipAutogen
	p := NewPipeline().
		Add(StagePrepareOutput, stagePrepareOutput).
		AddIf(runAutogen, StageAutogenCompile, stageAutogenCompile).
		AddIf(runAutogen, StageAutogenIntrospect, stageAutogenIntrospect).
		Add(StageSphinxBuild, stageSphinxBuild)
	if t.PostBuild != targets.PostBuildNone {
		p.Add(StagePostBuild, s.stagePostBuild)
	}
	for _, name := range p.Skipped {
		report.RecordStageResult(name, StageResultSkipped, s.recorder)
	}

	ctx = observability.WithTarget(observability.WithRunID(ctx, report.ID), t.Name)
	observability.InfoContext(ctx, "Building target", logfields.Builder(t.Builder),
		logfields.Path(report.OutputDir), slog.String("revision", rev.Short()))
	runErr := RunStages(ctx, st, p.Build())

	report.Finish(runErr)
	s.recorder.ObserveBuildDuration(t.Name, report.Duration())
	s.recorder.IncBuildOutcome(t.Name, string(report.Outcome))
	if err := report.Persist(st.Workspace.GetPath()); err != nil {
		observability.WarnContext(ctx, "Failed to persist build report", logfields.Path(st.Workspace.GetPath()), logfields.Error(err))
	}

	if runErr != nil {
		observability.WarnContext(ctx, "Build failed", slog.String("summary", report.Summary()))
		return report, runErr
	}
	observability.InfoContext(ctx, "Build finished",
		logfields.DurationMS(float64(report.Duration().Milliseconds())),
		slog.String("summary", report.Summary()))
	_, _ = fmt.Fprintf(s.out, "\n%s\n", t.FinishedMessage(s.cfg.Sphinx.BuildDir, s.cfg.Project))
	return report, nil
}

func stagePrepareOutput(_ context.Context, st *State) error {
	if err := st.Workspace.Prepare(); err != nil {
		return derrors.FileSystemError("mkdir", st.Workspace.GetPath(), err)
	}
	return nil
}

func stageAutogenCompile(ctx context.Context, st *State) error {
	if err := st.Autogen.Compile(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrAutogen, err)
	}
	return nil
}

func stageAutogenIntrospect(ctx context.Context, st *State) error {
	if err := st.Autogen.Introspect(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrAutogen, err)
	}
	files, err := st.Autogen.Generated()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAutogen, err)
	}
	st.Report.GeneratedFiles = len(files)
	st.Recorder.SetGeneratedFiles(len(files))
	observability.InfoContext(ctx, "Reference pages generated", logfields.Count(len(files)))
	return nil
}

func stageSphinxBuild(ctx context.Context, st *State) error {
	cmd := st.Invocation.Command(st.Env)
	observability.InfoContext(ctx, "Running sphinx-build", logfields.Builder(st.Invocation.Builder), logfields.Command(cmd.String()))
	if err := st.Runner.Run(ctx, cmd); err != nil {
		return fmt.Errorf("%w: %w", ErrSphinx,
			derrors.SphinxFailed(st.Invocation.Builder, err).WithContext("command", cmd.String()))
	}
	return nil
}

func (s *Service) stagePostBuild(ctx context.Context, st *State) error {
	cmd, ok := sphinx.PostBuildCommand(st.Config, st.Target, st.Env)
	if !ok {
		return nil
	}
	if st.Target.PostBuild == targets.PostBuildLatexPDF {
		_, _ = fmt.Fprintln(s.out, "Running LaTeX files through pdflatex...")
	}
	observability.InfoContext(ctx, "Running post-build step", logfields.Command(cmd.String()))
	if err := st.Runner.Run(ctx, cmd); err != nil {
		return fmt.Errorf("%w: %w", ErrPostBuild,
			derrors.PostBuildFailed(st.Target.Name, err).WithContext("command", cmd.String()))
	}
	return nil
}
