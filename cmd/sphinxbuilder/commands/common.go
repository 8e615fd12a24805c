package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sphinxbuilder/internal/config"
	derrors "git.home.luguber.info/inful/sphinxbuilder/internal/errors"
	"git.home.luguber.info/inful/sphinxbuilder/internal/logfields"
	"git.home.luguber.info/inful/sphinxbuilder/internal/metrics"
	"git.home.luguber.info/inful/sphinxbuilder/internal/runner"
)

// Global carries process-wide state into every subcommand.
type Global struct {
	Context context.Context
	Logger  *slog.Logger
	Out     io.Writer     // completion messages; stdout when nil
	Runner  runner.Runner // child processes; exec when nil
}

func (g *Global) ctx() context.Context {
	if g == nil || g.Context == nil {
		return context.Background()
	}
	return g.Context
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

func (g *Global) runner() runner.Runner {
	if g == nil || g.Runner == nil {
		return runner.NewExecRunner()
	}
	return g.Runner
}

// CLI definition & global flags. The environment bindings keep the variable
// names of the classic Sphinx Makefile.
type CLI struct {
	Config      string  `short:"c" env:"SPHINXBUILDER_CONFIG" help:"Configuration file path (default: sphinxbuilder.yaml when present)"`
	Verbose     bool    `short:"v" help:"Enable verbose logging"`
	SphinxBuild string  `name:"sphinx-build" env:"SPHINXBUILD" help:"sphinx-build executable"`
	SphinxOpts  *string `name:"sphinx-opts" env:"SPHINXOPTS" help:"Extra sphinx-build options, shell-quoted"`
	Paper       *string `env:"PAPER" help:"Paper size for latex and latexpdf (a4|letter)"`
	BuildDir    string  `name:"build-dir" env:"BUILDDIR" help:"Build output directory"`
	MetricsFile string  `name:"metrics-file" help:"Write Prometheus metrics to this textfile after the run"`
	NoAutogen   bool    `name:"no-autogen" help:"Skip the extension compile and reference page generation"`

	HTML       TargetCmd `cmd:"" name:"html" help:"Make standalone HTML files"`
	DirHTML    TargetCmd `cmd:"" name:"dirhtml" help:"Make HTML files named index.html in directories"`
	SingleHTML TargetCmd `cmd:"" name:"singlehtml" help:"Make a single large HTML file"`
	Pickle     TargetCmd `cmd:"" name:"pickle" help:"Make pickle files"`
	JSON       TargetCmd `cmd:"" name:"json" help:"Make JSON files"`
	HTMLHelp   TargetCmd `cmd:"" name:"htmlhelp" help:"Make HTML files and a HTML help project"`
	QtHelp     TargetCmd `cmd:"" name:"qthelp" help:"Make HTML files and a qthelp project"`
	DevHelp    TargetCmd `cmd:"" name:"devhelp" help:"Make HTML files and a Devhelp project"`
	Epub       TargetCmd `cmd:"" name:"epub" help:"Make an epub"`
	Latex      TargetCmd `cmd:"" name:"latex" help:"Make LaTeX files, you can set PAPER=a4 or PAPER=letter"`
	LatexPDF   TargetCmd `cmd:"" name:"latexpdf" help:"Make LaTeX files and run them through pdflatex"`
	Text       TargetCmd `cmd:"" name:"text" help:"Make text files"`
	Man        TargetCmd `cmd:"" name:"man" help:"Make manual pages"`
	Changes    TargetCmd `cmd:"" name:"changes" help:"Make an overview of all changed/added/deprecated items"`
	Linkcheck  TargetCmd `cmd:"" name:"linkcheck" help:"Check all external links for integrity"`
	Doctest    TargetCmd `cmd:"" name:"doctest" help:"Run all doctests embedded in the documentation (if enabled)"`

	Autogen AutogenCmd `cmd:"" help:"Compile the extension and regenerate the reference pages only"`
	Clean   CleanCmd   `cmd:"" help:"Remove the build directory contents and generated reference pages"`
	Help    HelpCmd    `cmd:"" help:"List the available targets"`
	Init    InitCmd    `cmd:"" help:"Write an example configuration file"`
	Watch   WatchCmd   `cmd:"" help:"Build a target and rebuild it whenever the sources change"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// AfterApply runs after flag parsing; setup logging once. Configuration can
// refine the handler later in LoadConfig.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// LoadConfig reads the configuration and applies flag and environment
// overrides on top of it. Precedence: flag/env > config file > defaults.
// Validation runs once, after the overrides. An empty --sphinx-opts or
// --paper clears the file's value.
func (c *CLI) LoadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if c.Config != "" {
		cfg, err = config.Read(c.Config)
	} else {
		cfg, err = config.ReadOptional(config.DefaultPath)
	}
	if err != nil {
		return nil, err
	}

	if c.SphinxBuild != "" {
		cfg.Sphinx.Binary = c.SphinxBuild
	}
	if c.SphinxOpts != nil {
		cfg.Sphinx.Opts = *c.SphinxOpts
	}
	if c.Paper != nil {
		cfg.Sphinx.Paper = config.PaperSize(*c.Paper)
	}
	if c.BuildDir != "" {
		cfg.Sphinx.BuildDir = c.BuildDir
	}
	if c.MetricsFile != "" {
		cfg.Metrics.Textfile = c.MetricsFile
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	configureLogging(cfg, c.Verbose)
	return cfg, nil
}

func configureLogging(cfg *config.Config, verbose bool) {
	var level slog.Level
	switch cfg.Logging.Level {
	case config.LogLevelDebug:
		level = slog.LevelDebug
	case config.LogLevelWarn:
		level = slog.LevelWarn
	case config.LogLevelError:
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.Logging.Format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// metricsSink returns the recorder for cfg and a flush function that writes
// the textfile. Both are no-ops when no textfile is configured.
func metricsSink(cfg *config.Config) (metrics.Recorder, func()) {
	if cfg.Metrics.Textfile == "" {
		return metrics.NoopRecorder{}, func() {}
	}
	reg := prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)
	return rec, func() {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile, reg); err != nil {
			slog.Warn("Failed to write metrics textfile", logfields.Path(cfg.Metrics.Textfile), logfields.Error(err))
		}
	}
}

// toolEnv is the child process environment for cfg.
func toolEnv(cfg *config.Config) (map[string]string, error) {
	env, err := cfg.ToolEnv(os.Getenv)
	if err != nil {
		return nil, derrors.ValidationFailed("env", err.Error())
	}
	return env, nil
}
