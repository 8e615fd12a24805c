package config

// Built-in defaults. They match a docs/ directory that sits inside the
// library checkout, next to the package with the compiled extension.
const (
	DefaultProject           = "YAFF"
	DefaultSphinxBinary      = "sphinx-build"
	DefaultSourceDir         = "."
	DefaultBuildDir          = "_build"
	DefaultCompileCommand    = "python setup.py build_ext -i"
	DefaultCompileDir        = ".."
	DefaultIntrospectCommand = "python sphinx_autogen.py"
	DefaultGeneratedPattern  = "*_autogen.rst"
	DefaultDataPathVar       = "YAFFDATA"
	DefaultDataPath          = "../data"
	DefaultModulePath        = ".."
	DefaultMakeBinary        = "make"
	DefaultWatchTarget       = "html"
	DefaultWatchDebounce     = "300ms"
)

// ApplyDefaults fills every unset field in place and normalizes free-form enums.
// PAPER is left as written so Validate can reject unknown sizes.
func ApplyDefaults(cfg *Config) {
	if cfg.Project == "" {
		cfg.Project = DefaultProject
	}

	if cfg.Sphinx.Binary == "" {
		cfg.Sphinx.Binary = DefaultSphinxBinary
	}
	if cfg.Sphinx.SourceDir == "" {
		cfg.Sphinx.SourceDir = DefaultSourceDir
	}
	if cfg.Sphinx.BuildDir == "" {
		cfg.Sphinx.BuildDir = DefaultBuildDir
	}

	if cfg.Autogen.CompileCommand == "" {
		cfg.Autogen.CompileCommand = DefaultCompileCommand
	}
	if cfg.Autogen.CompileDir == "" {
		cfg.Autogen.CompileDir = DefaultCompileDir
	}
	if cfg.Autogen.IntrospectCommand == "" {
		cfg.Autogen.IntrospectCommand = DefaultIntrospectCommand
	}
	if len(cfg.Autogen.GeneratedPatterns) == 0 {
		cfg.Autogen.GeneratedPatterns = []string{DefaultGeneratedPattern}
	}

	if cfg.Env.DataPathVar == "" {
		cfg.Env.DataPathVar = DefaultDataPathVar
	}
	if cfg.Env.DataPath == "" {
		cfg.Env.DataPath = DefaultDataPath
	}
	if cfg.Env.ModulePath == "" {
		cfg.Env.ModulePath = DefaultModulePath
	}

	if cfg.Latex.MakeBinary == "" {
		cfg.Latex.MakeBinary = DefaultMakeBinary
	}

	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))

	if cfg.Watch.Target == "" {
		cfg.Watch.Target = DefaultWatchTarget
	}
	if cfg.Watch.Debounce == "" {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}
}
