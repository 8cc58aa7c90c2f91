package dispatch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

// waitDelay bounds how long Run waits for output pipes after the context
// kills the process, e.g. when a grandchild still holds them open.
const waitDelay = 500 * time.Millisecond

// ErrLaunch is wrapped by every LaunchError.
var ErrLaunch = errors.New("toolchain could not be launched")

// LaunchError means a process never started, e.g. the compiler is not installed.
type LaunchError struct {
	Argv []string
	Err  error
}

func (e *LaunchError) Error() string {
	name := ""
	if len(e.Argv) > 0 {
		name = e.Argv[0]
	}
	return fmt.Sprintf("launching %s: %v", name, e.Err)
}

// Unwrap exposes both ErrLaunch and the underlying cause.
func (e *LaunchError) Unwrap() []error {
	return []error{ErrLaunch, e.Err}
}

// Command is one external program invocation.
type Command struct {
	Argv  []string
	Dir   string
	Stdin io.Reader
	// Stdout and Stderr, when set, receive the output as it is produced in
	// addition to it being captured in the Result.
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the argv for logs and messages.
func (c Command) String() string {
	return strings.Join(c.Argv, " ")
}

// Result is the exit code and captured output of a finished process.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Runner runs an external program to completion.
// A process that ran and exited non-zero is a Result, not an error; errors
// are reserved for processes that could not be started (*LaunchError) or
// context cancellation.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner is the os/exec backed Runner.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, c Command) (Result, error) {
	if len(c.Argv) == 0 {
		return Result{}, &LaunchError{Err: errors.New("empty command")}
	}

	cmd := exec.CommandContext(ctx, c.Argv[0], c.Argv[1:]...)
	cmd.Dir = c.Dir
	cmd.Stdin = c.Stdin
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = tee(&stdout, c.Stdout)
	cmd.Stderr = tee(&stderr, c.Stderr)

	err := cmd.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return res, nil
	}

	// A killed process also reports an *exec.ExitError, so the context
	// comes first.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, ctxErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// -1 when the process was killed by a signal.
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	return res, &LaunchError{Argv: c.Argv, Err: err}
}

func tee(capture *bytes.Buffer, echo io.Writer) io.Writer {
	if echo == nil {
		return capture
	}
	return io.MultiWriter(capture, echo)
}
