// Package runner executes the external tools sphinxbuilder orchestrates.
//
// Child output is streamed straight through to the configured writers so the
// tools' own diagnostics reach the user unchanged. A non-zero exit status is
// reported as *ExitError.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strings"
	"sync"
	"time"

	"git.home.luguber.info/inful/sphinxbuilder/internal/logfields"
)

// ErrBinaryNotFound indicates the executable could not be found on PATH.
var ErrBinaryNotFound = errors.New("executable not found")

// Command is one external process invocation.
type Command struct {
	Name string
	Args []string
	Dir  string            // working directory; empty means the current one
	Env  map[string]string // added on top of the inherited environment
}

// String renders the command line roughly as a shell would echo it.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, quote(c.Name))
	for _, a := range c.Args {
		parts = append(parts, quote(a))
	}
	return strings.Join(parts, " ")
}

func quote(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\"'$") {
		return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
	}
	return s
}

// ExitError reports a command that ran but exited non-zero.
type ExitError struct {
	Command string
	Code    int
	Err     error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s: exit status %d", e.Command, e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Runner runs a single command to completion.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExecRunner runs commands as child processes.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner returns a runner attached to the process's stdout and stderr.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}
}

func (r *ExecRunner) Run(ctx context.Context, c Command) error {
	path, err := exec.LookPath(c.Name)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrBinaryNotFound, c.Name, err)
	}

	// #nosec G204 - commands come from the user's own configuration
	cmd := exec.CommandContext(ctx, path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = mergeEnv(os.Environ(), c.Env)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	cmd.WaitDelay = 5 * time.Second

	slog.Debug("Running command", logfields.Command(c.String()), logfields.Path(c.Dir))

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s: %w", c.String(), ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			slog.Debug("Command failed", logfields.Command(c.String()), logfields.ExitCode(exitErr.ExitCode()))
			return &ExitError{Command: c.String(), Code: exitErr.ExitCode(), Err: err}
		}
		return fmt.Errorf("%s: %w", c.String(), err)
	}
	return nil
}

// mergeEnv appends overrides in key order; exec keeps the last value per key.
func mergeEnv(base []string, overrides map[string]string) []string {
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(base)+len(keys))
	out = append(out, base...)
	for _, k := range keys {
		out = append(out, k+"="+overrides[k])
	}
	return out
}

// RecordingRunner records commands instead of running them. Fail, when set,
// is consulted for every command and its error is returned as the result.
type RecordingRunner struct {
	Fail func(Command) error

	mu       sync.Mutex
	commands []Command
}

func (r *RecordingRunner) Run(ctx context.Context, c Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	r.commands = append(r.commands, c)
	r.mu.Unlock()
	if r.Fail != nil {
		return r.Fail(c)
	}
	return nil
}

// Commands returns a copy of the recorded commands.
func (r *RecordingRunner) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Command, len(r.commands))
	copy(out, r.commands)
	return out
}
