package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/sphinxbuilder/internal/errors"
)

// DefaultPath is the configuration file looked up when --config is not given.
const DefaultPath = "sphinxbuilder.yaml"

// Config is the complete sphinxbuilder configuration.
type Config struct {
	Project string        `yaml:"project"`
	Sphinx  SphinxConfig  `yaml:"sphinx"`
	Autogen AutogenConfig `yaml:"autogen"`
	Env     EnvConfig     `yaml:"env"`
	Latex   LatexConfig   `yaml:"latex"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Watch   WatchConfig   `yaml:"watch"`
}

// SphinxConfig mirrors the classic Makefile variables.
type SphinxConfig struct {
	Binary    string    `yaml:"binary"`     // SPHINXBUILD
	Opts      string    `yaml:"opts"`       // SPHINXOPTS, shell-quoted
	Paper     PaperSize `yaml:"paper"`      // PAPER
	SourceDir string    `yaml:"source_dir"` // documentation source root
	BuildDir  string    `yaml:"build_dir"`  // BUILDDIR
}

// AutogenConfig describes the pre-build reference generation.
type AutogenConfig struct {
	Enabled           *bool    `yaml:"enabled,omitempty"`
	CompileCommand    string   `yaml:"compile_command"`
	CompileDir        string   `yaml:"compile_dir"`
	IntrospectCommand string   `yaml:"introspect_command"`
	GeneratedPatterns []string `yaml:"generated_patterns"`
}

// IsEnabled reports whether autogeneration runs before each build. Omitted means enabled.
func (a AutogenConfig) IsEnabled() bool {
	return a.Enabled == nil || *a.Enabled
}

// EnvConfig lists the variables exported to every child process.
type EnvConfig struct {
	DataPathVar string            `yaml:"data_path_var"`
	DataPath    string            `yaml:"data_path"`
	ModulePath  string            `yaml:"module_path"`
	Extra       map[string]string `yaml:"extra,omitempty"`
}

// LatexConfig configures the latexpdf post-build step.
type LatexConfig struct {
	MakeBinary string `yaml:"make_binary"`
}

type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

type WatchConfig struct {
	Target   string `yaml:"target"`
	Debounce string `yaml:"debounce"`
}

// Load reads, expands and validates the configuration at path.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read reads and expands the configuration at path and applies defaults
// without validating, so callers can layer overrides first.
func Read(path string) (*Config, error) {
	LoadEnvFiles()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, derrors.ConfigNotFound(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, derrors.ConfigInvalid(path, err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, derrors.ConfigInvalid(path, err)
	}
	ApplyDefaults(&cfg)
	return &cfg, nil
}

// LoadOptional behaves like Load but returns defaults when path does not exist.
func LoadOptional(path string) (*Config, error) {
	cfg, err := ReadOptional(path)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadOptional behaves like Read but returns defaults when path does not exist.
func ReadOptional(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		LoadEnvFiles()
		return Default(), nil
	}
	return Read(path)
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// Init writes an example configuration file.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return derrors.New(derrors.CategoryConfig, derrors.SeverityFatal,
			"configuration file already exists (use --force to overwrite)").
			WithContext("path", path)
	}

	example := Default()
	example.Sphinx.Opts = "-W --keep-going"
	example.Sphinx.Paper = PaperA4
	example.Metrics.Textfile = "_build/sphinxbuilder.prom"

	data, err := yaml.Marshal(example)
	if err != nil {
		return derrors.InternalError("failed to marshal example config", err)
	}
	header := fmt.Sprintf("# sphinxbuilder configuration for %s\n", example.Project)
	if err := os.WriteFile(path, append([]byte(header), data...), 0o644); err != nil {
		return derrors.FileSystemError("write", path, err)
	}
	return nil
}
