package errors

import (
	"bytes"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *BuilderError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(CategoryConfig, SeverityFatal, "configuration invalid"),
			expected: "config (fatal): configuration invalid",
		},
		{
			name:     "error with cause",
			err:      Wrap(fmt.Errorf("exit status 2"), CategorySphinx, SeverityFatal, "sphinx-build failed"),
			expected: "sphinx (fatal): sphinx-build failed: exit status 2",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.err.Error(); got != test.expected {
				t.Errorf("Error() = %q, want %q", got, test.expected)
			}
		})
	}
}

func TestBuilderError_WithContext(t *testing.T) {
	err := New(CategoryAutogen, SeverityFatal, "compile failed").
		WithContext("step", "compile").
		WithContext("dir", "..")

	require.NotNil(t, err.Context)
	assert.Equal(t, "compile", err.Context["step"])
	assert.Equal(t, "..", err.Context["dir"])
}

func TestCategoryThroughWrapping(t *testing.T) {
	be := SphinxFailed("html", fmt.Errorf("exit status 1"))
	wrapped := fmt.Errorf("stage sphinx_build: %w", be)

	assert.True(t, IsCategory(wrapped, CategorySphinx))
	assert.False(t, IsCategory(wrapped, CategoryAutogen))
	assert.False(t, IsCategory(fmt.Errorf("plain"), CategorySphinx))
}

func TestConvenienceFunctions(t *testing.T) {
	t.Run("ConfigNotFound", func(t *testing.T) {
		err := ConfigNotFound("/path/to/sphinxbuilder.yaml")
		assert.Equal(t, CategoryConfig, err.Category)
		assert.Equal(t, SeverityFatal, err.Severity)
		assert.Equal(t, "/path/to/sphinxbuilder.yaml", err.Context["path"])
	})

	t.Run("AutogenFailed", func(t *testing.T) {
		cause := fmt.Errorf("exit status 1")
		err := AutogenFailed("compile", cause)
		assert.Equal(t, CategoryAutogen, err.Category)
		assert.True(t, stdErrors.Is(err, cause))
	})

	t.Run("ValidationFailed", func(t *testing.T) {
		err := ValidationFailed("sphinx.paper", "must be a4 or letter")
		assert.Equal(t, CategoryValidation, err.Category)
		assert.Equal(t, "sphinx.paper", err.Context["field"])
		assert.Equal(t, "must be a4 or letter", err.Context["reason"])
	})
}

func TestCLIErrorAdapter_ExitCodes(t *testing.T) {
	a := NewCLIErrorAdapter(false, nil)

	cases := []struct {
		err  error
		code int
	}{
		{nil, 0},
		{fmt.Errorf("plain"), 1},
		{ValidationFailed("paper", "bad"), 2},
		{ConfigNotFound("x.yaml"), 7},
		{AutogenFailed("compile", nil), 11},
		{SphinxFailed("html", nil), 11},
		{PostBuildFailed("latexpdf", nil), 11},
		{FileSystemError("clean", "_build", nil), 11},
		{Canceled(nil), 12},
		{InternalError("bug", nil), 10},
		{fmt.Errorf("wrapped: %w", SphinxFailed("man", nil)), 11},
	}
	for _, c := range cases {
		assert.Equal(t, c.code, a.ExitCodeFor(c.err), "err=%v", c.err)
	}
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var logBuf, out bytes.Buffer
	a := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logBuf, nil)))
	a.out = &out
	exitCode := -1
	a.exit = func(code int) { exitCode = code }

	a.HandleError(SphinxFailed("html", fmt.Errorf("exit status 2")))

	assert.Equal(t, 11, exitCode)
	assert.Equal(t, "sphinx: sphinx-build failed\n", out.String())
	assert.True(t, strings.Contains(logBuf.String(), "builder=html"), logBuf.String())
}

func TestCLIErrorAdapter_FormatVerbose(t *testing.T) {
	a := NewCLIErrorAdapter(true, nil)
	err := SphinxFailed("html", fmt.Errorf("exit status 2"))
	assert.Equal(t, err.Error(), a.FormatError(err))
}
