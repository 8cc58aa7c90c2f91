// Package clierr provides user-facing CLI errors with hints and exit codes.
package clierr

import (
	"errors"
	"fmt"
	"strings"
)

// Exit codes.
const (
	ExitSuccess     = 0
	ExitGeneral     = 1
	ExitState       = 2 // not tracked, invalid timer transition
	ExitFileMissing = 3
	ExitCompile     = 4
	ExitRuntime     = 5
	ExitLaunch      = 6
	ExitConfig      = 7
	ExitNoTemplate  = 8
	ExitUsage       = 64 // BSD convention
)

// CLIError represents a user-facing CLI error with actionable guidance.
type CLIError struct {
	// Message is the primary error message shown to the user.
	Message string

	// Hint provides actionable guidance on how to fix the error.
	Hint string

	// Detail is printed muted below the message, e.g. compiler diagnostics.
	Detail string

	// Cause is the underlying error, if any.
	Cause error

	// Code is the exit code for the CLI.
	Code int
}

func (e *CLIError) Error() string {
	if e.Cause != nil && e.Cause.Error() != e.Message {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// New creates a new CLIError with the given message and exit code.
func New(code int, message string) *CLIError {
	return &CLIError{Message: message, Code: code}
}

// Wrap wraps an existing error with a CLIError.
func Wrap(code int, message string, cause error) *CLIError {
	return &CLIError{Message: message, Cause: cause, Code: code}
}

// WithHint adds a hint to the error.
func (e *CLIError) WithHint(hint string) *CLIError {
	e.Hint = hint
	return e
}

// WithDetail attaches diagnostics, trimmed of trailing whitespace.
func (e *CLIError) WithDetail(detail string) *CLIError {
	e.Detail = strings.TrimRight(detail, " \t\r\n")
	return e
}

// As is a convenience function for errors.As with CLIError.
func As(err error, target **CLIError) bool {
	return errors.As(err, target)
}

// --- Common error constructors ---

// NotTracked is returned for timer operations on an unknown file.
func NotTracked(file string, cause error) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("%s is not tracked", file),
		Hint:    fmt.Sprintf("Run 'cpwind generate %s' to start tracking it", file),
		Cause:   cause,
		Code:    ExitState,
	}
}

// InvalidTransition is returned for a redundant pause or resume.
func InvalidTransition(cause error) *CLIError {
	msg := "Timer is unchanged"
	if cause != nil {
		msg = cause.Error()
	}
	return &CLIError{
		Message: msg,
		Hint:    "Run 'cpwind status' to see which files are paused",
		Cause:   cause,
		Code:    ExitState,
	}
}

// NoFile is returned when a command needs a file and none was given or remembered.
func NoFile(verb string) *CLIError {
	return &CLIError{
		Message: "No file given and no file remembered",
		Hint:    fmt.Sprintf("Run 'cpwind %s <file>'", verb),
		Code:    ExitUsage,
	}
}

// FileMissing is returned when the source file does not exist.
func FileMissing(file string) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("File not found: %s", file),
		Code:    ExitFileMissing,
	}
}

// FileExists is returned when generate would overwrite a file.
func FileExists(file string) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("%s already exists", file),
		Hint:    "Pass --force to overwrite it with the template",
		Code:    ExitGeneral,
	}
}

// NoTemplate is returned when no template is registered for an extension.
func NoTemplate(ext string, cause error) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("No template for %s", ext),
		Hint:    fmt.Sprintf("Run 'cpwind template set %s <path>' to add one", ext),
		Cause:   cause,
		Code:    ExitNoTemplate,
	}
}

// CompileFailed is returned when the compiler exits non-zero.
func CompileFailed(file string, exitCode int, diagnostics string) *CLIError {
	e := &CLIError{
		Message: fmt.Sprintf("Compilation of %s failed (exit %d)", file, exitCode),
		Code:    ExitCompile,
	}
	return e.WithDetail(diagnostics)
}

// RuntimeFailed is returned when the program exits non-zero.
func RuntimeFailed(file string, exitCode int, stderr string) *CLIError {
	e := &CLIError{
		Message: fmt.Sprintf("%s exited with code %d", file, exitCode),
		Code:    ExitRuntime,
	}
	return e.WithDetail(stderr)
}

// LaunchFailed is returned when a toolchain program cannot be started.
func LaunchFailed(cause error) *CLIError {
	return &CLIError{
		Message: "Toolchain could not be started",
		Hint:    "Check that the compiler or interpreter is installed and on PATH (see 'cpwind toolchains')",
		Cause:   cause,
		Code:    ExitLaunch,
	}
}

// Config is returned for configuration problems.
func Config(cause error) *CLIError {
	return &CLIError{
		Message: "Invalid configuration",
		Hint:    "Fix ~/.config/cpwind/config.json or .cpwindconfig",
		Cause:   cause,
		Code:    ExitConfig,
	}
}
