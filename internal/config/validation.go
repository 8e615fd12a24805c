package config

import (
	"path/filepath"
	"strings"
	"time"

	derrors "git.home.luguber.info/inful/sphinxbuilder/internal/errors"
)

// Validate checks a defaulted configuration. Enum fields are normalized in place.
func Validate(cfg *Config) error {
	paper, err := NormalizePaper(string(cfg.Sphinx.Paper))
	if err != nil {
		return derrors.ValidationFailed("sphinx.paper", err.Error())
	}
	cfg.Sphinx.Paper = paper

	if strings.TrimSpace(cfg.Sphinx.Binary) == "" {
		return derrors.ValidationFailed("sphinx.binary", "must not be empty")
	}
	if _, err := cfg.SphinxOpts(); err != nil {
		return derrors.ValidationFailed("sphinx.opts", err.Error())
	}

	if cfg.Autogen.IsEnabled() {
		if _, err := cfg.CompileArgv(); err != nil {
			return derrors.ValidationFailed("autogen.compile_command", err.Error())
		}
		if _, err := cfg.IntrospectArgv(); err != nil {
			return derrors.ValidationFailed("autogen.introspect_command", err.Error())
		}
	}
	for _, p := range cfg.Autogen.GeneratedPatterns {
		if _, err := filepath.Match(p, ""); err != nil {
			return derrors.ValidationFailed("autogen.generated_patterns", "bad pattern "+p)
		}
		if strings.ContainsRune(p, filepath.Separator) || strings.Contains(p, "/") {
			return derrors.ValidationFailed("autogen.generated_patterns", "patterns match file names only: "+p)
		}
	}

	if name := cfg.Env.DataPathVar; strings.ContainsAny(name, "= \t") {
		return derrors.ValidationFailed("env.data_path_var", "not a valid variable name: "+name)
	}

	d, err := time.ParseDuration(cfg.Watch.Debounce)
	if err != nil || d <= 0 {
		return derrors.ValidationFailed("watch.debounce", "must be a positive duration")
	}
	return nil
}

// WatchDebounce returns the parsed debounce delay.
func (c *Config) WatchDebounce() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d <= 0 {
		return 300 * time.Millisecond
	}
	return d
}
