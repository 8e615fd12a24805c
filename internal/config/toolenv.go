package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/shell"
)

// SourcePath resolves p against the documentation source directory.
// Absolute paths are returned unchanged.
func (c *Config) SourcePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Sphinx.SourceDir, p)
}

// ToolEnv returns the variables exported to every child process: the data path
// variable, PYTHONPATH and any extra entries. lookup supplies the current
// environment (os.Getenv in production) so an existing PYTHONPATH is kept.
func (c *Config) ToolEnv(lookup func(string) string) (map[string]string, error) {
	if lookup == nil {
		lookup = os.Getenv
	}
	env := make(map[string]string, 2+len(c.Env.Extra))

	dataPath, err := filepath.Abs(c.SourcePath(c.Env.DataPath))
	if err != nil {
		return nil, err
	}
	env[c.Env.DataPathVar] = dataPath

	modulePath, err := filepath.Abs(c.SourcePath(c.Env.ModulePath))
	if err != nil {
		return nil, err
	}
	if existing := lookup("PYTHONPATH"); existing != "" {
		modulePath += string(os.PathListSeparator) + existing
	}
	env["PYTHONPATH"] = modulePath

	for k, v := range c.Env.Extra {
		env[k] = v
	}
	return env, nil
}

// SphinxOpts splits SPHINXOPTS using shell quoting rules.
func (c *Config) SphinxOpts() ([]string, error) {
	return shell.Fields(c.Sphinx.Opts, nil)
}

// CompileArgv returns the extension build command as argv.
func (c *Config) CompileArgv() ([]string, error) {
	return splitCommand(c.Autogen.CompileCommand)
}

// IntrospectArgv returns the reference generation command as argv.
func (c *Config) IntrospectArgv() ([]string, error) {
	return splitCommand(c.Autogen.IntrospectCommand)
}

func splitCommand(s string) ([]string, error) {
	argv, err := shell.Fields(s, nil)
	if err != nil {
		return nil, err
	}
	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		return nil, errors.New("empty command")
	}
	return argv, nil
}
