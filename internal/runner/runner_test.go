package runner

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecRunner_StreamsOutputAndEnv(t *testing.T) {
	requireShell(t)
	var stdout, stderr bytes.Buffer
	r := &ExecRunner{Stdout: &stdout, Stderr: &stderr}
	dir := t.TempDir()

	err := r.Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", `echo "$YAFFDATA"; pwd -P; echo oops >&2`},
		Dir:  dir,
		Env:  map[string]string{"YAFFDATA": "/opt/yaff/data"},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "/opt/yaff/data", lines[0])
	realDir, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, realDir, lines[1])
	assert.Equal(t, "oops\n", stderr.String())
}

func TestExecRunner_ExitCode(t *testing.T) {
	requireShell(t)
	r := &ExecRunner{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}

	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	err := r.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "exit 3"}})
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.Code)
	assert.Contains(t, exitErr.Error(), "exit status 3")
	assert.Contains(t, logs.String(), `"exit_code":3`)
}

func TestExecRunner_NotFound(t *testing.T) {
	r := NewExecRunner()
	err := r.Run(context.Background(), Command{Name: "definitely-not-a-real-sphinx-build"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBinaryNotFound))
}

func TestExecRunner_Canceled(t *testing.T) {
	requireShell(t)
	r := &ExecRunner{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := r.Run(ctx, Command{Name: "sh", Args: []string{"-c", "exec sleep 5"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestCommandString(t *testing.T) {
	c := Command{Name: "sphinx-build", Args: []string{"-b", "html", "-D", "html_title=My Docs", ""}}
	assert.Equal(t, "sphinx-build -b html -D 'html_title=My Docs' ''", c.String())
}

func TestMergeEnv(t *testing.T) {
	env := mergeEnv([]string{"PATH=/bin", "PYTHONPATH=/old"}, map[string]string{"PYTHONPATH": "/new", "A": "1"})
	assert.Equal(t, []string{"PATH=/bin", "PYTHONPATH=/old", "A=1", "PYTHONPATH=/new"}, env)
}

func TestRecordingRunner(t *testing.T) {
	boom := errors.New("boom")
	r := &RecordingRunner{Fail: func(c Command) error {
		if c.Name == "make" {
			return boom
		}
		return nil
	}}

	require.NoError(t, r.Run(context.Background(), Command{Name: "sphinx-build"}))
	assert.ErrorIs(t, r.Run(context.Background(), Command{Name: "make"}), boom)
	require.Len(t, r.Commands(), 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, r.Run(ctx, Command{Name: "python"}), context.Canceled)
	assert.Len(t, r.Commands(), 2, "canceled runs are not recorded")
}
