package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/sphinxbuilder/internal/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sphinxbuilder.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "YAFF", cfg.Project)
	assert.Equal(t, "sphinx-build", cfg.Sphinx.Binary)
	assert.Equal(t, ".", cfg.Sphinx.SourceDir)
	assert.Equal(t, "_build", cfg.Sphinx.BuildDir)
	assert.Equal(t, PaperNone, cfg.Sphinx.Paper)
	assert.True(t, cfg.Autogen.IsEnabled())
	assert.Equal(t, []string{"*_autogen.rst"}, cfg.Autogen.GeneratedPatterns)
	assert.Equal(t, "YAFFDATA", cfg.Env.DataPathVar)
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Logging.Format)
	assert.Equal(t, 300*time.Millisecond, cfg.WatchDebounce())
	require.NoError(t, Validate(cfg))
}

func TestLoad(t *testing.T) {
	t.Setenv("DOCS_PAPER", "Letter")
	path := writeConfig(t, `
project: demo
sphinx:
  opts: "-W -D 'html_title=Demo Docs'"
  paper: ${DOCS_PAPER}
  build_dir: out
autogen:
  enabled: false
logging:
  level: DEBUG
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "demo", cfg.Project)
	assert.Equal(t, PaperLetter, cfg.Sphinx.Paper)
	assert.Equal(t, "out", cfg.Sphinx.BuildDir)
	assert.Equal(t, "sphinx-build", cfg.Sphinx.Binary)
	assert.False(t, cfg.Autogen.IsEnabled())
	assert.Equal(t, LogLevelDebug, cfg.Logging.Level)
	assert.Equal(t, LogFormatJSON, cfg.Logging.Format)

	opts, err := cfg.SphinxOpts()
	require.NoError(t, err)
	assert.Equal(t, []string{"-W", "-D", "html_title=Demo Docs"}, opts)
}

func TestLoad_InvalidPaper(t *testing.T) {
	path := writeConfig(t, "sphinx:\n  paper: a3\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryValidation))
}

func TestRead_DefersValidation(t *testing.T) {
	path := writeConfig(t, "sphinx:\n  paper: a5\n")

	cfg, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, PaperSize("a5"), cfg.Sphinx.Paper)

	cfg.Sphinx.Paper = "A4"
	require.NoError(t, Validate(cfg))
	assert.Equal(t, PaperA4, cfg.Sphinx.Paper)
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeConfig(t, "sphinx: [unclosed\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryConfig))
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryConfig))
}

func TestLoadOptional_MissingFallsBackToDefaults(t *testing.T) {
	cfg, err := LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestValidate_Commands(t *testing.T) {
	cfg := Default()
	cfg.Autogen.CompileCommand = "python 'unterminated"
	err := Validate(cfg)
	require.Error(t, err)
	be, ok := derrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "autogen.compile_command", be.Context["field"])

	disabled := false
	cfg.Autogen.Enabled = &disabled
	assert.NoError(t, Validate(cfg), "commands are not checked when autogen is disabled")
}

func TestValidate_Patterns(t *testing.T) {
	cfg := Default()
	cfg.Autogen.GeneratedPatterns = []string{"ref/*.rst"}
	assert.Error(t, Validate(cfg))

	cfg.Autogen.GeneratedPatterns = []string{"[bad"}
	assert.Error(t, Validate(cfg))
}

func TestValidate_Debounce(t *testing.T) {
	cfg := Default()
	cfg.Watch.Debounce = "-1s"
	assert.Error(t, Validate(cfg))
}

func TestNormalizePaper(t *testing.T) {
	for raw, want := range map[string]PaperSize{"": PaperNone, "A4": PaperA4, " letter ": PaperLetter} {
		got, err := NormalizePaper(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
	_, err := NormalizePaper("legal")
	assert.Error(t, err)
}

func TestCommandArgv(t *testing.T) {
	cfg := Default()

	compile, err := cfg.CompileArgv()
	require.NoError(t, err)
	assert.Equal(t, []string{"python", "setup.py", "build_ext", "-i"}, compile)

	introspect, err := cfg.IntrospectArgv()
	require.NoError(t, err)
	assert.Equal(t, []string{"python", "sphinx_autogen.py"}, introspect)

	cfg.Autogen.IntrospectCommand = "   "
	_, err = cfg.IntrospectArgv()
	assert.Error(t, err)
}

func TestToolEnv(t *testing.T) {
	src := t.TempDir()
	cfg := Default()
	cfg.Sphinx.SourceDir = src
	cfg.Env.Extra = map[string]string{"SPHINX_STRICT": "1"}

	env, err := cfg.ToolEnv(func(string) string { return "" })
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(filepath.Dir(src), "data"), env["YAFFDATA"])
	assert.Equal(t, filepath.Dir(src), env["PYTHONPATH"])
	assert.Equal(t, "1", env["SPHINX_STRICT"])
}

func TestToolEnv_KeepsExistingPythonPath(t *testing.T) {
	cfg := Default()
	cfg.Sphinx.SourceDir = "/srv/lib/doc"
	cfg.Env.DataPath = "/opt/data"

	env, err := cfg.ToolEnv(func(key string) string {
		if key == "PYTHONPATH" {
			return "/usr/lib/site"
		}
		return ""
	})
	require.NoError(t, err)

	assert.Equal(t, "/opt/data", env["YAFFDATA"])
	assert.Equal(t, "/srv/lib"+string(os.PathListSeparator)+"/usr/lib/site", env["PYTHONPATH"])
}

func TestLoadEnvFiles_DoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SB_FROM_FILE=file\nSB_PRESET=file\n"), 0o600))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("SB_PRESET", "process")
	t.Cleanup(func() { _ = os.Unsetenv("SB_FROM_FILE") })

	LoadEnvFiles()

	assert.Equal(t, "file", os.Getenv("SB_FROM_FILE"))
	assert.Equal(t, "process", os.Getenv("SB_PRESET"))
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sphinxbuilder.yaml")

	require.NoError(t, Init(path, false))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, PaperA4, cfg.Sphinx.Paper)

	err = Init(path, false)
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryConfig))

	assert.NoError(t, Init(path, true))
}
